package frontend_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/usuarios-crud/internal/client"
	"github.com/jhoicas/usuarios-crud/internal/frontend"
)

// ──────────────────────────────────────────────────────────────────────────────
// fakeAPI: UserAPI en memoria que registra cada llamada.
// ──────────────────────────────────────────────────────────────────────────────

type call struct {
	Method  string
	ID      int64
	Payload client.Payload
}

type fakeAPI struct {
	mu    sync.Mutex
	calls []call
	users []client.User

	listErr   error
	createErr error
	updateErr error
	deleteErr error
	deleteMsg string
}

func (f *fakeAPI) record(c call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeAPI) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func (f *fakeAPI) List(_ context.Context) ([]client.User, error) {
	f.record(call{Method: "GET"})
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]client.User(nil), f.users...), nil
}

func (f *fakeAPI) Get(_ context.Context, id int64) (*client.User, error) {
	f.record(call{Method: "GET_ONE", ID: id})
	for _, u := range f.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, &client.ServerError{Status: 404, Message: "Usuário não encontrado!"}
}

func (f *fakeAPI) Create(_ context.Context, p client.Payload) (*client.UserEnvelope, error) {
	f.record(call{Method: "POST", Payload: p})
	if f.createErr != nil {
		return nil, f.createErr
	}
	u := client.User{ID: int64(len(f.users) + 1), Nome: p["nome"], Email: p["email"], Endereco: p["endereco"], Telefone: p["telefone"]}
	f.users = append(f.users, u)
	return &client.UserEnvelope{Message: frontend.MsgCreated, User: u}, nil
}

func (f *fakeAPI) Update(_ context.Context, id int64, p client.Payload) (*client.UserEnvelope, error) {
	f.record(call{Method: "PUT", ID: id, Payload: p})
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for i := range f.users {
		if f.users[i].ID == id {
			if v, ok := p["telefone"]; ok {
				f.users[i].Telefone = v
			}
			return &client.UserEnvelope{Message: frontend.MsgUpdated, User: f.users[i]}, nil
		}
	}
	return nil, &client.ServerError{Status: 404, Message: "Usuário não encontrado!"}
}

func (f *fakeAPI) Delete(_ context.Context, id int64) (*client.MessageBody, error) {
	f.record(call{Method: "DELETE", ID: id})
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	kept := f.users[:0]
	for _, u := range f.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	f.users = kept
	return &client.MessageBody{Message: f.deleteMsg}, nil
}

func confirmWith(answer bool, asked *int) frontend.Confirmer {
	return frontend.ConfirmFunc(func(context.Context, string) (bool, error) {
		if asked != nil {
			*asked++
		}
		return answer, nil
	})
}

func fillForm(c *frontend.Controller, nome, email, senha string) {
	c.UpdateField("nome", nome)
	c.UpdateField("email", email)
	c.UpdateField("senha", senha)
}

// ──────────────────────────────────────────────────────────────────────────────
// Submit: validación
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_CamposObligatoriosSinRed(t *testing.T) {
	cases := []struct{ nome, email, senha string }{
		{"", "ana@x.com", "x"},
		{"Ana", "", "x"},
		{"", "", ""},
	}
	for _, tc := range cases {
		api := &fakeAPI{}
		c := frontend.NewController(api, confirmWith(true, nil))
		fillForm(c, tc.nome, tc.email, tc.senha)

		err := c.Submit(context.Background())

		var ve *frontend.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Empty(t, api.Calls(), "la validación no debe tocar la red")
		msg := c.Snapshot().Message
		assert.Equal(t, frontend.MsgRequiredFields, msg.Text)
		assert.True(t, msg.IsError())
	}
}

func TestSubmit_CreacionSinSenhaSinRed(t *testing.T) {
	api := &fakeAPI{}
	c := frontend.NewController(api, confirmWith(true, nil))
	fillForm(c, "Ana", "ana@x.com", "")

	err := c.Submit(context.Background())

	assert.Error(t, err)
	assert.Empty(t, api.Calls())
	assert.Equal(t, frontend.MsgSenhaRequired, c.Snapshot().Message.Text)
}

// ──────────────────────────────────────────────────────────────────────────────
// Submit: creación y edición
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_CreaResetYRecarga(t *testing.T) {
	api := &fakeAPI{}
	c := frontend.NewController(api, confirmWith(true, nil))
	fillForm(c, "Ana", "ana@x.com", "s3cret")
	c.UpdateField("telefone", "123")

	require.NoError(t, c.Submit(context.Background()))

	calls := api.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "POST", calls[0].Method)
	assert.Equal(t, "s3cret", calls[0].Payload["senha"])
	assert.Equal(t, "123", calls[0].Payload["telefone"])
	assert.Equal(t, "GET", calls[1].Method, "tras el éxito se recarga la lista")

	snap := c.Snapshot()
	assert.Equal(t, frontend.FormState{}, snap.Form, "el formulario vuelve a los valores por defecto")
	assert.False(t, snap.Form.Mode.IsEditing())
	assert.Equal(t, frontend.MsgCreated, snap.Message.Text)
	assert.False(t, snap.Message.IsError())
	require.Len(t, snap.Users, 1)
	assert.Equal(t, "Ana", snap.Users[0].Nome)
}

func TestSubmit_EdicionSinSenhaOmiteClave(t *testing.T) {
	api := &fakeAPI{users: []client.User{{ID: 5, Nome: "Ana", Email: "ana@x.com"}}}
	c := frontend.NewController(api, confirmWith(true, nil))
	require.NoError(t, c.Mount(context.Background()))

	c.BeginEdit(c.Snapshot().Users[0])
	c.UpdateField("telefone", "123")
	require.NoError(t, c.Submit(context.Background()))

	calls := api.Calls()
	require.Len(t, calls, 3)
	put := calls[1]
	assert.Equal(t, "PUT", put.Method)
	assert.Equal(t, int64(5), put.ID)
	assert.False(t, put.Payload.Has("senha"), "senha vacía en edición no se envía")
	assert.Equal(t, "123", put.Payload["telefone"])

	snap := c.Snapshot()
	assert.Equal(t, frontend.MsgUpdated, snap.Message.Text)
	assert.Equal(t, frontend.FormState{}, snap.Form)
	assert.Equal(t, "123", snap.Users[0].Telefone)
}

func TestSubmit_EdicionConSenhaLaIncluye(t *testing.T) {
	api := &fakeAPI{users: []client.User{{ID: 9, Nome: "Ana", Email: "ana@x.com"}}}
	c := frontend.NewController(api, confirmWith(true, nil))
	c.BeginEdit(client.User{ID: 9, Nome: "Ana", Email: "ana@x.com"})
	c.UpdateField("senha", "nova")

	require.NoError(t, c.Submit(context.Background()))
	put := api.Calls()[0]
	assert.Equal(t, "nova", put.Payload["senha"])
}

func TestBeginEdit_NoExponeSenha(t *testing.T) {
	api := &fakeAPI{users: []client.User{{ID: 3, Nome: "Ana", Email: "ana@x.com"}}}
	c := frontend.NewController(api, confirmWith(true, nil))

	// Aunque el formulario tuviera una senha escrita, BeginEdit la vacía.
	c.UpdateField("senha", "rascunho")
	c.BeginEdit(client.User{ID: 3, Nome: "Ana", Email: "ana@x.com", Endereco: "Rua 1", Telefone: "9"})

	snap := c.Snapshot()
	assert.Empty(t, snap.Form.Senha)
	id, editing := snap.Form.Mode.TargetID()
	assert.True(t, editing)
	assert.Equal(t, int64(3), id)
	assert.Equal(t, "Rua 1", snap.Form.Endereco)
	assert.Equal(t, frontend.MsgEditing, snap.Message.Text)
	assert.False(t, snap.Message.IsError())

	require.NoError(t, c.Submit(context.Background()))
	for _, v := range api.Calls()[0].Payload {
		assert.NotEqual(t, "rascunho", v)
	}
}

func TestSubmit_ErrorServidorConservaFormulario(t *testing.T) {
	api := &fakeAPI{createErr: &client.ServerError{Status: 409, Message: "Email já cadastrado!"}}
	c := frontend.NewController(api, confirmWith(true, nil))
	fillForm(c, "Ana", "ana@x.com", "x")

	err := c.Submit(context.Background())
	require.Error(t, err)

	snap := c.Snapshot()
	assert.Equal(t, "Erro ao salvar usuário: Email já cadastrado!", snap.Message.Text)
	assert.True(t, snap.Message.IsError())
	assert.Equal(t, "Ana", snap.Form.Nome, "el input del usuario se preserva para reintentar")
	assert.Equal(t, "x", snap.Form.Senha)
	assert.Len(t, api.Calls(), 1, "sin recarga tras un fallo")
}

func TestSubmit_ErrorDeRedMensajeGenerico(t *testing.T) {
	api := &fakeAPI{updateErr: &client.NetworkError{Op: "PUT /users/1", Err: errors.New("connection refused")}}
	c := frontend.NewController(api, confirmWith(true, nil))
	c.BeginEdit(client.User{ID: 1, Nome: "Ana", Email: "ana@x.com"})

	require.Error(t, c.Submit(context.Background()))
	snap := c.Snapshot()
	assert.Contains(t, snap.Message.Text, "Erro ao salvar usuário: Network Error")
	assert.True(t, snap.Form.Mode.IsEditing(), "sigue en modo edición")
}

// ──────────────────────────────────────────────────────────────────────────────
// FetchAll
// ──────────────────────────────────────────────────────────────────────────────

func TestFetchAll_ReemplazaYLimpiaMensaje(t *testing.T) {
	api := &fakeAPI{users: []client.User{{ID: 2, Nome: "B"}, {ID: 1, Nome: "A"}}}
	c := frontend.NewController(api, confirmWith(true, nil))
	c.BeginEdit(client.User{ID: 2, Nome: "B", Email: "b@x.com"})

	require.NoError(t, c.FetchAll(context.Background()))
	snap := c.Snapshot()
	require.Len(t, snap.Users, 2)
	assert.Equal(t, int64(2), snap.Users[0].ID, "se respeta el orden de la respuesta")
	assert.Equal(t, int64(1), snap.Users[1].ID)
	assert.True(t, snap.Message.Empty())
}

func TestFetchAll_FalloVaciaColeccion(t *testing.T) {
	api := &fakeAPI{users: []client.User{{ID: 1, Nome: "A"}}}
	c := frontend.NewController(api, confirmWith(true, nil))
	require.NoError(t, c.FetchAll(context.Background()))
	require.Len(t, c.Snapshot().Users, 1)

	api.listErr = &client.NetworkError{Op: "GET /users", Err: errors.New("dial tcp: connection refused")}
	require.Error(t, c.FetchAll(context.Background()))

	snap := c.Snapshot()
	assert.NotNil(t, snap.Users)
	assert.Empty(t, snap.Users, "nunca mostrar datos obsoletos tras un fallo")
	assert.True(t, snap.Message.IsError())
	assert.Contains(t, snap.Message.Text, frontend.MsgLoadFailed)
}

// ──────────────────────────────────────────────────────────────────────────────
// RequestDelete
// ──────────────────────────────────────────────────────────────────────────────

func TestRequestDelete_Rechazado(t *testing.T) {
	api := &fakeAPI{users: []client.User{{ID: 1}}}
	asked := 0
	c := frontend.NewController(api, confirmWith(false, &asked))

	require.NoError(t, c.RequestDelete(context.Background(), 1))
	assert.Equal(t, 1, asked)
	assert.Empty(t, api.Calls(), "sin confirmación no hay llamada de red")
}

func TestRequestDelete_ConfirmadoUsaMensajeDelServidor(t *testing.T) {
	api := &fakeAPI{users: []client.User{{ID: 1, Nome: "A"}, {ID: 2, Nome: "B"}}, deleteMsg: "Apagado!"}
	c := frontend.NewController(api, confirmWith(true, nil))

	require.NoError(t, c.RequestDelete(context.Background(), 1))

	calls := api.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "DELETE", calls[0].Method)
	assert.Equal(t, "GET", calls[1].Method)
	snap := c.Snapshot()
	assert.Equal(t, "Apagado!", snap.Message.Text)
	require.Len(t, snap.Users, 1)
	assert.Equal(t, int64(2), snap.Users[0].ID)
}

func TestRequestDelete_MensajePorDefecto(t *testing.T) {
	api := &fakeAPI{users: []client.User{{ID: 1}}}
	c := frontend.NewController(api, confirmWith(true, nil))
	require.NoError(t, c.RequestDelete(context.Background(), 1))
	assert.Equal(t, frontend.MsgDeleted, c.Snapshot().Message.Text)
}

func TestRequestDelete_FalloConservaColeccion(t *testing.T) {
	api := &fakeAPI{users: []client.User{{ID: 1, Nome: "A"}}}
	c := frontend.NewController(api, confirmWith(true, nil))
	require.NoError(t, c.Mount(context.Background()))

	api.deleteErr = &client.ServerError{Status: 404, Message: "Usuário não encontrado!"}
	require.Error(t, c.RequestDelete(context.Background(), 1))

	snap := c.Snapshot()
	assert.Equal(t, "Erro ao deletar usuário: Usuário não encontrado!", snap.Message.Text)
	assert.Len(t, snap.Users, 1)
}

func TestRequestDelete_ErrorDelConfirmer(t *testing.T) {
	api := &fakeAPI{}
	boom := errors.New("stdin cerrado")
	c := frontend.NewController(api, frontend.ConfirmFunc(func(context.Context, string) (bool, error) {
		return false, boom
	}))
	assert.ErrorIs(t, c.RequestDelete(context.Background(), 1), boom)
	assert.Empty(t, api.Calls())

	msg := c.Snapshot().Message
	assert.True(t, msg.IsError())
	assert.Equal(t, frontend.MsgDeleteFailed+"stdin cerrado", msg.Text)
}

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados y notificaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestCancelEdit_VuelveACreacion(t *testing.T) {
	c := frontend.NewController(&fakeAPI{}, confirmWith(true, nil))
	c.BeginEdit(client.User{ID: 4, Nome: "Ana", Email: "ana@x.com"})
	require.True(t, c.Snapshot().Form.Mode.IsEditing())

	c.CancelEdit()
	snap := c.Snapshot()
	assert.Equal(t, frontend.FormState{}, snap.Form)
	assert.True(t, snap.Message.Empty())
}

func TestUpdateField_NombreDesconocidoSeIgnora(t *testing.T) {
	c := frontend.NewController(&fakeAPI{}, confirmWith(true, nil))
	c.UpdateField("id", "99")
	c.UpdateField("nome", "Ana")
	snap := c.Snapshot()
	assert.False(t, snap.Form.Mode.IsEditing(), "el modo no se cambia por campo")
	assert.Equal(t, "Ana", snap.Form.Nome)
}

func TestOnChange_NotificaCadaMutacion(t *testing.T) {
	var seen []frontend.Snapshot
	c := frontend.NewController(&fakeAPI{}, confirmWith(true, nil), frontend.WithOnChange(func(s frontend.Snapshot) {
		seen = append(seen, s)
	}))
	c.UpdateField("nome", "A")
	c.UpdateField("nome", "AB")
	c.CancelEdit()
	require.Len(t, seen, 3)
	assert.Equal(t, "AB", seen[1].Form.Nome)
	assert.Empty(t, seen[2].Form.Nome)
}

func TestSnapshot_EsCopia(t *testing.T) {
	api := &fakeAPI{users: []client.User{{ID: 1, Nome: "A"}}}
	c := frontend.NewController(api, confirmWith(true, nil))
	require.NoError(t, c.FetchAll(context.Background()))

	snap := c.Snapshot()
	snap.Users[0].Nome = "mutado"
	assert.Equal(t, "A", c.Snapshot().Users[0].Nome)
}

func TestMessage_ClasificacionPorMarcador(t *testing.T) {
	assert.True(t, frontend.Message{Text: "Erro ao carregar usuários: x"}.IsError())
	assert.False(t, frontend.Message{Text: "Usuário criado com sucesso!", Kind: frontend.MessageSuccess}.IsError())
	assert.True(t, frontend.Message{Text: frontend.MsgSenhaRequired, Kind: frontend.MessageError}.IsError())
}

func TestController_OperacionesConcurrentes(t *testing.T) {
	api := &fakeAPI{users: []client.User{{ID: 1, Nome: "A"}}}
	c := frontend.NewController(api, confirmWith(true, nil))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); _ = c.FetchAll(context.Background()) }()
		go func() { defer wg.Done(); c.UpdateField("nome", "x"); _ = c.Snapshot() }()
	}
	wg.Wait()
	assert.Len(t, c.Snapshot().Users, 1)
}
