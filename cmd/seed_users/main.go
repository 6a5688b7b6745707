// seed_users carga usuarios desde un CSV (nome;email;senha;endereco;telefone) usando el API.
//
// Uso: go run ./cmd/seed_users [-latin1] [-backend URL] usuarios.csv
// Emails ya cadastrados (409) se omiten.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/usuarios-crud/internal/client"
	"github.com/jhoicas/usuarios-crud/internal/seed"
	"github.com/jhoicas/usuarios-crud/pkg/config"
	"github.com/jhoicas/usuarios-crud/pkg/logger"
)

// requestTimeout límite por petición de la carga; una fila colgada no bloquea el resto.
const requestTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	backend := flag.String("backend", cfg.Backend.URL, "URL base del API")
	latin1 := flag.Bool("latin1", false, "el CSV está en ISO-8859-1")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Uso: seed_users [-latin1] [-backend URL] archivo.csv")
		os.Exit(2)
	}
	path := flag.Arg(0)

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "seed_users",
	})

	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("abrir CSV")
	}
	defer f.Close()

	rows, err := seed.ReadCSV(f, seed.ReadOptions{Latin1: *latin1})
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("leer CSV")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := client.NewHTTPClient(*backend, client.WithHTTPClient(&http.Client{Timeout: requestTimeout}))
	res, err := seed.Run(ctx, api, rows, log.Zerolog())
	ev := log.Info()
	if err != nil {
		ev = log.Error().Err(err)
	}
	ev.Int("rows", len(rows)).
		Int("created", res.Created).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Msg("carga de usuarios")
	if err != nil {
		os.Exit(1)
	}
}
