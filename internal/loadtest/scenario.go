package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Nombres de los checks.
const (
	CheckCreateStatus = "Create User status is 201"
	CheckCreateHasID  = "Create User has ID"
	CheckListStatus   = "Get All Users status is 200"
	CheckListIsArray  = "Get All Users is array"
	CheckGetStatus    = "Get One User status is 200"
	CheckGetIDMatches = "User ID matches"
	CheckUpdateStatus = "Update User status is 200"
	CheckDeleteStatus = "Delete User status is 200"
)

// vu usuario virtual: ejecuta iteraciones del escenario hasta que se le pida parar.
type vu struct {
	id      int
	iter    int
	opts    *Options
	metrics *Metrics
}

// response resultado de una petición; err != nil indica fallo de transporte.
type response struct {
	status int
	body   []byte
	err    error
}

func (r response) json(v any) bool {
	return r.err == nil && json.Unmarshal(r.body, v) == nil
}

// iteration Create → List → Get → Update → Delete con pausa entre pasos. Devuelve false si
// el ctx se canceló a mitad.
func (v *vu) iteration(ctx context.Context) bool {
	defer func() { v.iter++ }()
	m := v.metrics

	create := v.request(ctx, http.MethodPost, "/users", map[string]string{
		"nome":     fmt.Sprintf("k6User_%s%d_%d", v.opts.RunID, v.id, v.iter),
		"email":    fmt.Sprintf("k6user_%s%d_%d@example.com", v.opts.RunID, v.id, v.iter),
		"senha":    "testpassword",
		"endereco": "Rua Teste, 123",
		"telefone": "11999999999",
	})
	if ctx.Err() != nil {
		return false
	}
	var created struct {
		User struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}
	m.Check(CheckCreateStatus, create.status == http.StatusCreated)
	hasID := create.json(&created) && created.User.ID != 0
	m.Check(CheckCreateHasID, hasID)
	var userID int64
	if create.status == http.StatusCreated {
		userID = created.User.ID
		m.Add200()
	}
	if !v.sleep(ctx) {
		return false
	}

	list := v.request(ctx, http.MethodGet, "/users", nil)
	if ctx.Err() != nil {
		return false
	}
	var arr []json.RawMessage
	m.Check(CheckListStatus, list.status == http.StatusOK)
	m.Check(CheckListIsArray, list.json(&arr) && arr != nil)
	if list.status == http.StatusOK {
		m.Add200()
	}
	if !v.sleep(ctx) {
		return false
	}

	if userID == 0 {
		return true
	}
	path := fmt.Sprintf("/users/%d", userID)

	get := v.request(ctx, http.MethodGet, path, nil)
	if ctx.Err() != nil {
		return false
	}
	var one struct {
		ID int64 `json:"id"`
	}
	m.Check(CheckGetStatus, get.status == http.StatusOK)
	m.Check(CheckGetIDMatches, get.json(&one) && one.ID == userID)
	if get.status == http.StatusOK {
		m.Add200()
	}
	if !v.sleep(ctx) {
		return false
	}

	update := v.request(ctx, http.MethodPut, path, map[string]string{
		"nome":     fmt.Sprintf("k6UserUpdated_%s%d_%d", v.opts.RunID, v.id, v.iter),
		"telefone": fmt.Sprintf("987654321_%d", v.id),
	})
	if ctx.Err() != nil {
		return false
	}
	m.Check(CheckUpdateStatus, update.status == http.StatusOK)
	if update.status == http.StatusOK {
		m.Add200()
	}
	if !v.sleep(ctx) {
		return false
	}

	del := v.request(ctx, http.MethodDelete, path, nil)
	if ctx.Err() != nil {
		return false
	}
	m.Check(CheckDeleteStatus, del.status == http.StatusOK)
	if del.status == http.StatusOK {
		m.Add200()
	}
	return v.sleep(ctx)
}

// request ejecuta y mide una petición. Fallida = error de transporte o status fuera de 200-399.
// Las peticiones interrumpidas por el ctx no se registran.
func (v *vu) request(ctx context.Context, method, path string, body any) response {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return response{err: err}
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, v.opts.BaseURL+path, reader)
	if err != nil {
		return response{err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := v.opts.HTTPClient.Do(req)
	if err != nil {
		if ctx.Err() == nil {
			v.metrics.AddRequest(-1, false)
			v.opts.Logger.Debug().Err(err).Str("method", method).Str("path", path).Int("vu", v.id).Msg("petición fallida")
		}
		return response{err: err}
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		if ctx.Err() == nil {
			v.metrics.AddRequest(elapsed, false)
		}
		return response{status: resp.StatusCode, err: err}
	}
	v.metrics.AddRequest(elapsed, resp.StatusCode >= 200 && resp.StatusCode < 400)
	return response{status: resp.StatusCode, body: raw}
}

func (v *vu) sleep(ctx context.Context) bool {
	if v.opts.ThinkTime <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(v.opts.ThinkTime)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
