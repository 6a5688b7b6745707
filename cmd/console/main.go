// console es el frontend de terminal del CRUD de usuarios.
//
// Uso: go run ./cmd/console [-backend http://127.0.0.1:5000]
// Sin -backend usa BACKEND_URL.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/usuarios-crud/internal/client"
	"github.com/jhoicas/usuarios-crud/internal/frontend"
	"github.com/jhoicas/usuarios-crud/internal/frontend/console"
	"github.com/jhoicas/usuarios-crud/pkg/config"
	"github.com/jhoicas/usuarios-crud/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	backend := flag.String("backend", cfg.Backend.URL, "URL base del API")
	flag.Parse()

	// Los logs van a stderr para no mezclarse con la pantalla.
	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "console",
		Out:     os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Sin timeout propio: solo Ctrl+C (ctx) corta una petición en curso.
	api := client.NewHTTPClient(*backend)
	term := console.New(os.Stdin, os.Stdout)
	ctrl := frontend.NewController(api, term, frontend.WithLogger(log.Zerolog()))

	log.Debug().Str("backend", api.BaseURL()).Msg("iniciando console")
	if err := term.Run(ctx, ctrl); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("console finalizada con error")
		os.Exit(1)
	}
}
