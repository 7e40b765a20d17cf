package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/motion/internal/config"
	"github.com/zeusync/motion/internal/core/observability/log"
	"github.com/zeusync/motion/internal/core/reactive"
	"github.com/zeusync/motion/internal/core/runtime"
	"github.com/zeusync/motion/internal/core/spring"
	"github.com/zeusync/motion/internal/core/systems/physics"
	"github.com/zeusync/motion/internal/core/transition"
	"github.com/zeusync/motion/internal/core/view"
	"github.com/zeusync/motion/internal/injector"
	"github.com/zeusync/motion/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to a yaml configuration file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			fmt.Println("Error loading config:", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	rt := injector.InitializeRuntime(cfg)
	logger := log.Provide()
	defer func() { _ = logger.Sync() }()

	layer := &view.Layer{Alpha: cfg.Spring.Back, Interactive: true}
	direction := reactive.New(cfg.Spring.Direction, reactive.WithName[transition.Direction]("direction"))
	ts := transition.NewSpring(view.For(rt, layer).Alpha,
		physics.Scalar(cfg.Spring.Back), physics.Scalar(cfg.Spring.Fore),
		direction,
		spring.HarmonicaSource[physics.Scalar](rt.Frames()),
		transition.WithThreshold(cfg.Spring.Threshold),
	)
	ts.Tension.Set(cfg.Spring.Tension)
	ts.Friction.Set(cfg.Spring.Friction)

	ts.Spring.State.OnChange(func(_, state spring.State) {
		logger.Info("spring state changed",
			log.Stringer("state", state),
			log.Stringer("direction", direction.Get()),
			log.Float64("value", layer.Alpha),
		)
	})

	if err := rt.Add(ts); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return rt.Run(gctx) })

	if cfg.Console.Enabled {
		console := server.NewConsole(rt, ts, direction, logger)
		if err := console.Start(gctx, cfg.Console.Addr); err != nil {
			cancel()
			_ = g.Wait()
			_ = rt.Close()
			return err
		}
		g.Go(func() error {
			<-gctx.Done()
			stopCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			return console.Stop(stopCtx)
		})
	}

	err := g.Wait()
	if closeErr := rt.Close(); err == nil {
		err = closeErr
	}
	if errors.Is(err, runtime.ErrClosed) {
		return nil
	}
	return err
}
