package loadtest_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/usuarios-crud/internal/application/usecase"
	"github.com/jhoicas/usuarios-crud/internal/infrastructure/sqlite"
	apphttp "github.com/jhoicas/usuarios-crud/internal/interfaces/http"
	"github.com/jhoicas/usuarios-crud/internal/loadtest"
)

func TestTargetAt_Rampa(t *testing.T) {
	stages := loadtest.DefaultStages()

	assert.Equal(t, 0, loadtest.TargetAt(stages, 0))
	assert.Equal(t, 10, loadtest.TargetAt(stages, 15*time.Second))
	assert.Equal(t, 20, loadtest.TargetAt(stages, 30*time.Second))
	assert.Equal(t, 20, loadtest.TargetAt(stages, 80*time.Second))
	assert.Equal(t, 10, loadtest.TargetAt(stages, 105*time.Second))
	assert.Equal(t, 0, loadtest.TargetAt(stages, 2*time.Minute))
	assert.Equal(t, 2*time.Minute, loadtest.TotalDuration(stages))
}

func TestParseStages(t *testing.T) {
	got, err := loadtest.ParseStages("30s:20, 1m:20 ,30s:0")
	require.NoError(t, err)
	assert.Equal(t, loadtest.DefaultStages(), got)

	for _, bad := range []string{"", "30s", "x:1", "1s:-2", "0s:3", "1s:abc"} {
		_, err := loadtest.ParseStages(bad)
		assert.Error(t, err, bad)
	}
}

func TestPercentile(t *testing.T) {
	ms := func(v ...int) []time.Duration {
		out := make([]time.Duration, len(v))
		for i, x := range v {
			out[i] = time.Duration(x) * time.Millisecond
		}
		return out
	}
	assert.Equal(t, time.Duration(0), loadtest.Percentile(nil, 0.95))
	assert.Equal(t, 7*time.Millisecond, loadtest.Percentile(ms(7), 0.95))

	sample := ms(10, 20, 30, 40, 50, 60, 70, 80, 90, 100)
	assert.Equal(t, 55*time.Millisecond, loadtest.Percentile(sample, 0.5))
	assert.Equal(t, 95500*time.Microsecond, loadtest.Percentile(sample, 0.95))
	assert.Equal(t, 100*time.Millisecond, loadtest.Percentile(sample, 1))
}

func TestMetrics_Umbrales(t *testing.T) {
	m := loadtest.NewMetrics()
	for i := 0; i < 99; i++ {
		m.AddRequest(10*time.Millisecond, true)
	}
	m.AddRequest(-1, false)
	m.Check("a", true)
	m.Check("a", false)

	s := m.Summary(loadtest.Thresholds{MaxFailedRate: 0.01, P95Duration: 200 * time.Millisecond})
	assert.Equal(t, 100, s.Requests)
	assert.InDelta(t, 0.01, s.FailedRate, 1e-9)
	assert.False(t, s.Passed, "rate<0.01 es estricto")
	require.Len(t, s.Checks, 1)
	assert.Equal(t, 1, s.Checks[0].Passes)
	assert.Equal(t, 1, s.Checks[0].Fails)

	s = m.Summary(loadtest.Thresholds{MaxFailedRate: 0.02, P95Duration: 10 * time.Millisecond})
	assert.True(t, s.Thresholds[0].Passed)
	assert.False(t, s.Thresholds[1].Passed, "p95 == límite no aprueba")
}

func quickOptions(baseURL string) loadtest.Options {
	opts := loadtest.DefaultOptions(baseURL)
	opts.Stages = []loadtest.Stage{
		{Duration: 150 * time.Millisecond, Target: 3},
		{Duration: 300 * time.Millisecond, Target: 3},
		{Duration: 100 * time.Millisecond, Target: 0},
	}
	opts.ThinkTime = 5 * time.Millisecond
	opts.Tick = 10 * time.Millisecond
	opts.GracefulStop = 5 * time.Second
	opts.Thresholds.P95Duration = 5 * time.Second
	return opts
}

func TestRun_ContraBackendReal(t *testing.T) {
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "load.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	uc := usecase.NewUserUseCase(sqlite.NewUserRepository(db)).WithBcryptCost(bcrypt.MinCost)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{UserUC: uc})
	srv := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(srv.Close)

	s, err := loadtest.Run(context.Background(), quickOptions(srv.URL))
	require.NoError(t, err)

	assert.True(t, s.Passed)
	assert.Greater(t, s.Iterations, int64(0))
	assert.Zero(t, s.Failed)
	assert.Equal(t, int64(s.Requests), s.HTTP200, "cada respuesta correcta suma al contador")
	for _, c := range s.Checks {
		assert.Zero(t, c.Fails, c.Name)
	}

	// Cada iteración completa borra el usuario que creó.
	list, err := uc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)

	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf))
	assert.Contains(t, buf.String(), loadtest.CheckCreateStatus)
	assert.Contains(t, buf.String(), "http_200_responses")
}

func TestRun_BackendConErroresFallaUmbral(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	s, err := loadtest.Run(context.Background(), quickOptions(srv.URL))
	require.NoError(t, err)

	assert.False(t, s.Passed)
	assert.Equal(t, 1.0, s.FailedRate)
	assert.Zero(t, s.HTTP200)
	assert.False(t, s.Thresholds[0].Passed)
}

func TestRun_OpcionesInvalidas(t *testing.T) {
	_, err := loadtest.Run(context.Background(), loadtest.Options{})
	assert.Error(t, err)
}
