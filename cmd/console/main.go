// Package main provides the interactive console for AQICN air quality reports.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/aqicn/aqicn/internal/app"
	"github.com/aqicn/aqicn/internal/config"
	"github.com/aqicn/aqicn/internal/console"
	"github.com/aqicn/aqicn/internal/geocode"
	"github.com/aqicn/aqicn/internal/telemetry"
)

// Version is set at compile time via ldflags.
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	const serviceName = "aqicn-console"

	fs := pflag.NewFlagSet(serviceName, pflag.ContinueOnError)
	config.RegisterFlags(fs)
	city := fs.String("city", "", "city for a one-shot report")
	state := fs.String("state", "", "state for a one-shot report")
	country := fs.String("country", "", "country for a one-shot report")
	forecast := fs.Bool("forecast", false, "print the forecast instead of current conditions")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[-] %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "[-] %v\n", err)
		return 1
	}

	// Reports go to stdout; logs stay on stderr.
	log := cfg.NewLogger(os.Stderr, serviceName, Version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Env,
		OTLPEndpoint:   cfg.OTel.Endpoint,
		Enabled:        cfg.OTel.Enabled,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize telemetry")
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown telemetry")
		}
	}()

	c := console.New(console.Config{
		In:      os.Stdin,
		Out:     os.Stdout,
		Service: app.NewService(cfg, app.Options{Logger: log}),
		Logger:  log,
	})

	q := geocode.Query{City: *city, State: *state, Country: *country}
	if !q.IsEmpty() {
		if err := c.Once(ctx, q, *forecast); err != nil {
			return 1
		}
		return 0
	}

	if err := c.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("console stopped")
		return 1
	}
	return 0
}
