//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/motion/internal/config"
	"github.com/zeusync/motion/internal/core/runtime"
)

func InitializeRuntime(cfg config.Config) *runtime.Runtime {
	wire.Build(ProvideLogger, ProvideRuntime)
	return nil
}
