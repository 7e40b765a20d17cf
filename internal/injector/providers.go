package injector

import (
	"github.com/zeusync/motion/internal/config"
	"github.com/zeusync/motion/internal/core/observability/log"
	"github.com/zeusync/motion/internal/core/runtime"
)

// ProvideLogger builds the process logger at the configured level.
func ProvideLogger(cfg config.Config) *log.Logger {
	return log.New(cfg.LogLevel)
}

// ProvideRuntime builds a runtime ticking at the configured frame rate.
func ProvideRuntime(cfg config.Config, logger *log.Logger) *runtime.Runtime {
	return runtime.New(
		runtime.WithLogger(logger.With(log.String("component", "runtime"))),
		runtime.WithFrameRate(cfg.FrameRate),
	)
}
