// loadtest ejecuta la prueba de carga CRUD contra el API y termina con código 1 si algún
// umbral falla.
//
// Uso: go run ./cmd/loadtest [-backend URL] [-stages 30s:20,1m:20,30s:0] [-p95 200ms] [-max-failed 0.01]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/usuarios-crud/internal/loadtest"
	"github.com/jhoicas/usuarios-crud/pkg/config"
	"github.com/jhoicas/usuarios-crud/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	defaults := loadtest.DefaultOptions(cfg.Backend.URL)

	backend := flag.String("backend", cfg.Backend.URL, "URL base del API")
	stages := flag.String("stages", "30s:20,1m:20,30s:0", "rampa duración:vus separada por comas")
	p95 := flag.Duration("p95", defaults.Thresholds.P95Duration, "umbral p(95) de http_req_duration")
	maxFailed := flag.Float64("max-failed", defaults.Thresholds.MaxFailedRate, "umbral de http_req_failed")
	think := flag.Duration("sleep", defaults.ThinkTime, "pausa entre pasos")
	flag.Parse()

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "loadtest",
	})

	parsed, err := loadtest.ParseStages(*stages)
	if err != nil {
		log.Fatal().Err(err).Msg("stages")
	}

	opts := defaults
	opts.BaseURL = *backend
	opts.Stages = parsed
	opts.Thresholds = loadtest.Thresholds{MaxFailedRate: *maxFailed, P95Duration: *p95}
	opts.ThinkTime = *think
	opts.Logger = log.Zerolog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	summary, err := loadtest.Run(ctx, opts)
	if err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("prueba de carga")
	}
	_ = summary.Write(os.Stdout)
	log.Info().Dur("elapsed", time.Since(start)).Bool("passed", summary.Passed).Msg("prueba de carga finalizada")

	if !summary.Passed {
		os.Exit(1)
	}
}
