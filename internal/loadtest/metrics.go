package loadtest

import (
	"math"
	"sort"
	"sync"
	"time"
)

// Metrics acumula las métricas de todas las VUs.
type Metrics struct {
	mu         sync.Mutex
	durations  []time.Duration
	requests   int
	failed     int
	http200    int64
	iterations int64
	checkOrder []string
	checks     map[string]*CheckResult
}

// CheckResult aciertos y fallos de un check con nombre.
type CheckResult struct {
	Name   string
	Passes int
	Fails  int
}

// NewMetrics crea un acumulador vacío.
func NewMetrics() *Metrics {
	return &Metrics{checks: make(map[string]*CheckResult)}
}

// AddRequest registra una petición. ok=false cuenta en http_req_failed; d<0 no aporta duración
// (error de transporte).
func (m *Metrics) AddRequest(d time.Duration, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests++
	if !ok {
		m.failed++
	}
	if d >= 0 {
		m.durations = append(m.durations, d)
	}
}

// Check registra el resultado de un check.
func (m *Metrics) Check(name string, pass bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.checks[name]
	if !ok {
		c = &CheckResult{Name: name}
		m.checks[name] = c
		m.checkOrder = append(m.checkOrder, name)
	}
	if pass {
		c.Passes++
	} else {
		c.Fails++
	}
	return pass
}

// Add200 incrementa http_200_responses.
func (m *Metrics) Add200() {
	m.mu.Lock()
	m.http200++
	m.mu.Unlock()
}

// AddIteration cuenta una iteración completa.
func (m *Metrics) AddIteration() {
	m.mu.Lock()
	m.iterations++
	m.mu.Unlock()
}

// Summary calcula el resumen y evalúa los umbrales.
func (m *Metrics) Summary(th Thresholds) Summary {
	m.mu.Lock()
	sorted := append([]time.Duration(nil), m.durations...)
	s := Summary{
		Requests:   m.requests,
		Failed:     m.failed,
		HTTP200:    m.http200,
		Iterations: m.iterations,
	}
	for _, name := range m.checkOrder {
		s.Checks = append(s.Checks, *m.checks[name])
	}
	m.mu.Unlock()

	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	if s.Requests > 0 {
		s.FailedRate = float64(s.Failed) / float64(s.Requests)
	}
	if n := len(sorted); n > 0 {
		var sum time.Duration
		for _, d := range sorted {
			sum += d
		}
		s.Avg = sum / time.Duration(n)
		s.Min = sorted[0]
		s.Max = sorted[n-1]
		s.Med = Percentile(sorted, 0.50)
		s.P90 = Percentile(sorted, 0.90)
		s.P95 = Percentile(sorted, 0.95)
	}

	s.Thresholds = []ThresholdResult{
		{
			Metric:    "http_req_failed",
			Condition: formatRate(th.MaxFailedRate),
			Passed:    s.FailedRate < th.MaxFailedRate,
		},
		{
			Metric:    "http_req_duration",
			Condition: "p(95)<" + th.P95Duration.String(),
			Passed:    s.P95 < th.P95Duration,
		},
	}
	s.Passed = true
	for _, t := range s.Thresholds {
		s.Passed = s.Passed && t.Passed
	}
	return s
}

// Percentile percentil p (0..1) de una muestra ordenada, con interpolación lineal entre rangos.
func Percentile(sorted []time.Duration, p float64) time.Duration {
	n := len(sorted)
	switch {
	case n == 0:
		return 0
	case n == 1 || p <= 0:
		return sorted[0]
	case p >= 1:
		return sorted[n-1]
	}
	rank := p * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	frac := rank - float64(lo)
	return sorted[lo] + time.Duration(math.Round(frac*float64(sorted[hi]-sorted[lo])))
}
