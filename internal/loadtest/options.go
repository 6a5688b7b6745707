// Package loadtest ejecuta el escenario de carga CRUD sobre /users con usuarios virtuales
// (VUs) en rampa, checks por paso, umbrales y contador de respuestas 200.
package loadtest

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Stage tramo de la rampa: en Duration se pasa linealmente del objetivo anterior a Target VUs.
type Stage struct {
	Duration time.Duration
	Target   int
}

// Thresholds criterios de aprobación. Ambas comparaciones son estrictas.
type Thresholds struct {
	MaxFailedRate float64       // http_req_failed rate < MaxFailedRate
	P95Duration   time.Duration // p(95) http_req_duration < P95Duration
}

// Options parámetros de una ejecución.
type Options struct {
	BaseURL      string
	Stages       []Stage
	Thresholds   Thresholds
	ThinkTime    time.Duration // pausa entre pasos de una iteración
	GracefulStop time.Duration // espera máxima para iteraciones en curso al terminar
	Tick         time.Duration // frecuencia de ajuste de VUs
	RunID        string        // prefijo de nombres y emails generados
	HTTPClient   *http.Client
	Logger       zerolog.Logger
}

// DefaultStages rampa de 30s a 20 VUs, 1m sostenido y 30s de bajada a 0.
func DefaultStages() []Stage {
	return []Stage{
		{Duration: 30 * time.Second, Target: 20},
		{Duration: time.Minute, Target: 20},
		{Duration: 30 * time.Second, Target: 0},
	}
}

// DefaultOptions valores por defecto del escenario.
func DefaultOptions(baseURL string) Options {
	return Options{
		BaseURL: baseURL,
		Stages:  DefaultStages(),
		Thresholds: Thresholds{
			MaxFailedRate: 0.01,
			P95Duration:   200 * time.Millisecond,
		},
		ThinkTime:    time.Second,
		GracefulStop: 30 * time.Second,
		Tick:         100 * time.Millisecond,
		Logger:       zerolog.Nop(),
	}
}

func (o Options) validate() error {
	if o.BaseURL == "" {
		return fmt.Errorf("loadtest: base URL vacía")
	}
	if len(o.Stages) == 0 {
		return fmt.Errorf("loadtest: sin stages")
	}
	for i, s := range o.Stages {
		if s.Duration <= 0 || s.Target < 0 {
			return fmt.Errorf("loadtest: stage %d inválido (%s, %d)", i, s.Duration, s.Target)
		}
	}
	if o.Tick <= 0 {
		return fmt.Errorf("loadtest: tick debe ser > 0")
	}
	return nil
}

// TotalDuration suma de los stages.
func TotalDuration(stages []Stage) time.Duration {
	var total time.Duration
	for _, s := range stages {
		total += s.Duration
	}
	return total
}

// TargetAt número de VUs deseado a elapsed desde el inicio (interpolación lineal desde 0).
func TargetAt(stages []Stage, elapsed time.Duration) int {
	from := 0
	for _, s := range stages {
		if elapsed < s.Duration {
			frac := float64(elapsed) / float64(s.Duration)
			return from + int(math.Round(float64(s.Target-from)*frac))
		}
		elapsed -= s.Duration
		from = s.Target
	}
	return from
}

// ParseStages interpreta "30s:20,1m:20,30s:0".
func ParseStages(raw string) ([]Stage, error) {
	var stages []Stage
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, t, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("stage %q: formato duración:vus", part)
		}
		dur, err := time.ParseDuration(strings.TrimSpace(d))
		if err != nil {
			return nil, fmt.Errorf("stage %q: %w", part, err)
		}
		target, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return nil, fmt.Errorf("stage %q: %w", part, err)
		}
		if dur <= 0 || target < 0 {
			return nil, fmt.Errorf("stage %q: valores fuera de rango", part)
		}
		stages = append(stages, Stage{Duration: dur, Target: target})
	}
	if len(stages) == 0 {
		return nil, fmt.Errorf("sin stages en %q", raw)
	}
	return stages, nil
}
