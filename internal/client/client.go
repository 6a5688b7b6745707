package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultBaseURL dirección del backend cuando no se configura BACKEND_URL.
const DefaultBaseURL = "http://127.0.0.1:5000"

// UserAPI operaciones REST sobre /users que consume el frontend.
type UserAPI interface {
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, p Payload) (*UserEnvelope, error)
	Update(ctx context.Context, id int64, p Payload) (*UserEnvelope, error)
	Delete(ctx context.Context, id int64) (*MessageBody, error)
}

var _ UserAPI = (*HTTPClient)(nil)

// HTTPClient implementa UserAPI sobre net/http.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Option configura un HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient reemplaza el *http.Client (timeouts, transport de tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.httpClient = hc }
}

// NewHTTPClient construye el cliente. Sin timeout propio: el límite lo pone el ctx del llamador.
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL devuelve la URL base sin barra final.
func (c *HTTPClient) BaseURL() string { return c.baseURL }

func (c *HTTPClient) List(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []User{}
	}
	return out, nil
}

func (c *HTTPClient) Get(ctx context.Context, id int64) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Create(ctx context.Context, p Payload) (*UserEnvelope, error) {
	var out UserEnvelope
	if err := c.do(ctx, http.MethodPost, "/users", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Update(ctx context.Context, id int64, p Payload) (*UserEnvelope, error) {
	var out UserEnvelope
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Delete(ctx context.Context, id int64) (*MessageBody, error) {
	var out MessageBody
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do ejecuta la petición. 2xx decodifica en out (cuerpo vacío permitido); no-2xx devuelve
// *ServerError con el "message" del cuerpo si es JSON; fallos de transporte devuelven *NetworkError.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	op := method + " " + path
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("serializar payload: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("crear request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("leer respuesta: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg MessageBody
		_ = json.Unmarshal(respBody, &msg)
		return &ServerError{Status: resp.StatusCode, Message: msg.Message}
	}
	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("decodificar respuesta: %w", err)}
	}
	return nil
}
