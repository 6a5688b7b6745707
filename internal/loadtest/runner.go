package loadtest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Run ejecuta el escenario siguiendo los stages y devuelve el resumen con los umbrales
// evaluados. Al bajar el objetivo se paran las VUs más recientes cuando terminan su iteración;
// al final se espera hasta GracefulStop y luego se interrumpen las que queden.
func Run(ctx context.Context, opts Options) (Summary, error) {
	if err := opts.validate(); err != nil {
		return Summary{}, err
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()[:8]
	}
	if !strings.HasSuffix(opts.RunID, "_") {
		opts.RunID += "_"
	}

	metrics := NewMetrics()
	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	g, gctx := errgroup.WithContext(runCtx)

	log := opts.Logger
	log.Info().
		Str("base_url", opts.BaseURL).
		Dur("duration", TotalDuration(opts.Stages)).
		Str("run_id", strings.TrimSuffix(opts.RunID, "_")).
		Msg("iniciando prueba de carga")

	var (
		active []context.CancelFunc
		nextID = 1
		peak   int
	)
	spawn := func() {
		id := nextID
		nextID++
		stopCtx, stop := context.WithCancel(gctx)
		active = append(active, stop)
		v := &vu{id: id, opts: &opts, metrics: metrics}
		g.Go(func() error {
			defer stop()
			for stopCtx.Err() == nil {
				if !v.iteration(gctx) {
					return nil
				}
				metrics.AddIteration()
			}
			return nil
		})
	}

	start := time.Now()
	total := TotalDuration(opts.Stages)
	ticker := time.NewTicker(opts.Tick)
	defer ticker.Stop()

schedule:
	for {
		elapsed := time.Since(start)
		if elapsed >= total {
			break
		}
		want := TargetAt(opts.Stages, elapsed)
		for len(active) < want {
			spawn()
		}
		for len(active) > want {
			active[len(active)-1]()
			active = active[:len(active)-1]
		}
		if len(active) > peak {
			peak = len(active)
			log.Debug().Int("vus", peak).Msg("nuevo máximo de VUs")
		}
		select {
		case <-ctx.Done():
			break schedule
		case <-ticker.C:
		}
	}
	for _, stop := range active {
		stop()
	}

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()
	grace := time.NewTimer(opts.GracefulStop)
	defer grace.Stop()
	select {
	case <-done:
	case <-grace.C:
		log.Warn().Dur("graceful_stop", opts.GracefulStop).Msg("interrumpiendo iteraciones en curso")
		cancelRun()
		<-done
	}

	summary := metrics.Summary(opts.Thresholds)
	summary.Log(log)
	return summary, ctx.Err()
}
