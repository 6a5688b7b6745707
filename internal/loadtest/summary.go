package loadtest

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
)

// Summary resultado final de una ejecución.
type Summary struct {
	Requests   int
	Failed     int
	FailedRate float64
	HTTP200    int64
	Iterations int64

	Avg, Min, Med, Max, P90, P95 time.Duration

	Checks     []CheckResult
	Thresholds []ThresholdResult
	Passed     bool
}

// ThresholdResult evaluación de un umbral.
type ThresholdResult struct {
	Metric    string
	Condition string
	Passed    bool
}

func formatRate(r float64) string {
	return "rate<" + strconv.FormatFloat(r, 'f', -1, 64)
}

// Write imprime el resumen al estilo del informe de fin de prueba.
func (s Summary) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, c := range s.Checks {
		mark := "✓"
		if c.Fails > 0 {
			mark = "✗"
		}
		fmt.Fprintf(tw, "  %s %s\t%d ✓\t%d ✗\n", mark, c.Name, c.Passes, c.Fails)
	}
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "  http_200_responses\t%d\n", s.HTTP200)
	fmt.Fprintf(tw, "  http_req_duration\tavg=%s\tmin=%s\tmed=%s\tmax=%s\tp(90)=%s\tp(95)=%s\n",
		s.Avg, s.Min, s.Med, s.Max, s.P90, s.P95)
	fmt.Fprintf(tw, "  http_req_failed\t%.2f%%\t%d de %d\n", s.FailedRate*100, s.Failed, s.Requests)
	fmt.Fprintf(tw, "  iterations\t%d\n", s.Iterations)
	fmt.Fprintln(tw)
	for _, t := range s.Thresholds {
		state := "OK"
		if !t.Passed {
			state = "FALLÓ"
		}
		fmt.Fprintf(tw, "  umbral %s\t%s\t%s\n", t.Metric, t.Condition, state)
	}
	return tw.Flush()
}

// Log emite el resumen como un evento estructurado.
func (s Summary) Log(log zerolog.Logger) {
	ev := log.Info()
	if !s.Passed {
		ev = log.Error()
	}
	checks := zerolog.Dict()
	for _, c := range s.Checks {
		checks.Dict(c.Name, zerolog.Dict().Int("passes", c.Passes).Int("fails", c.Fails))
	}
	ev.Int("requests", s.Requests).
		Int("failed", s.Failed).
		Float64("failed_rate", s.FailedRate).
		Int64("http_200_responses", s.HTTP200).
		Int64("iterations", s.Iterations).
		Dur("p95", s.P95).
		Dur("avg", s.Avg).
		Dict("checks", checks).
		Bool("passed", s.Passed).
		Msg("resumen de carga")
}
