// Package frontend contiene el controlador formulario-lista: estado del formulario,
// colección de usuarios y slot de mensaje, con una transición por operación de la UI.
package frontend

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/usuarios-crud/internal/client"
)

// Textos mostrados por el controlador.
const (
	MsgRequiredFields  = "Nome e Email são campos obrigatórios!"
	MsgSenhaRequired   = "Senha é obrigatória para novos usuários!"
	MsgCreated         = "Usuário criado com sucesso!"
	MsgUpdated         = "Usuário atualizado com sucesso!"
	MsgDeleted         = "Usuário deletado com sucesso!"
	MsgEditing         = "Editando usuário..."
	MsgSaveFailed      = "Erro ao salvar usuário: "
	MsgLoadFailed      = "Erro ao carregar usuários: "
	MsgDeleteFailed    = "Erro ao deletar usuário: "
	DeleteConfirmation = "Tem certeza que deseja deletar este usuário?"
)

// Confirmer pregunta sí/no al usuario antes de una acción destructiva.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapta una función a Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Option configura el Controller.
type Option func(*Controller)

// WithLogger registra los fallos de red/servidor.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// WithOnChange recibe una instantánea tras cada cambio de estado (re-render).
func WithOnChange(fn func(Snapshot)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// Controller dueño del estado de la pantalla. Es seguro usarlo desde varias goroutines:
// el mutex protege solo el estado y nunca se mantiene durante una llamada de red, así que
// peticiones solapadas son posibles y la última respuesta en llegar gana.
type Controller struct {
	api      client.UserAPI
	confirm  Confirmer
	log      zerolog.Logger
	onChange func(Snapshot)

	mu    sync.Mutex
	form  FormState
	users []client.User
	msg   Message
}

// NewController crea el controlador con formulario en modo creación y colección vacía.
func NewController(api client.UserAPI, confirm Confirmer, opts ...Option) *Controller {
	c := &Controller{
		api:     api,
		confirm: confirm,
		log:     zerolog.Nop(),
		users:   []client.User{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mount carga la lista inicial.
func (c *Controller) Mount(ctx context.Context) error {
	return c.FetchAll(ctx)
}

// Snapshot devuelve una copia del estado actual.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	users := make([]client.User, len(c.users))
	copy(users, c.users)
	return Snapshot{Form: c.form, Users: users, Message: c.msg}
}

// UpdateField sobrescribe un campo del formulario. No valida.
func (c *Controller) UpdateField(name, value string) {
	c.mutate(func() { c.form.set(name, value) })
}

// BeginEdit precarga el formulario con user (senha siempre vacía) y pasa a modo edición.
func (c *Controller) BeginEdit(user client.User) {
	c.mutate(func() {
		c.form = FormState{
			Mode:     Editing(user.ID),
			Nome:     user.Nome,
			Email:    user.Email,
			Endereco: user.Endereco,
			Telefone: user.Telefone,
		}
		c.msg = Message{Text: MsgEditing, Kind: MessageInfo}
	})
}

// CancelEdit vuelve a modo creación con el formulario vacío y limpia el mensaje.
func (c *Controller) CancelEdit() {
	c.mutate(func() {
		c.form = FormState{}
		c.msg = Message{}
	})
}

// Submit valida y envía el formulario: PUT /users/{id} en edición, POST /users en creación.
// Si la validación falla no hay llamada de red y se devuelve *ValidationError. Si el servidor
// falla el formulario queda intacto para reintentar. Tras el éxito se vacía el formulario y se
// recarga la lista; el error devuelto es entonces el de la recarga, si lo hubo.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	form := c.form
	c.mu.Unlock()

	if form.Nome == "" || form.Email == "" {
		return c.rejectSubmit(MsgRequiredFields)
	}
	if !form.Mode.IsEditing() && form.Senha == "" {
		return c.rejectSubmit(MsgSenhaRequired)
	}

	var (
		err     error
		success string
	)
	payload := form.payload()
	if id, editing := form.Mode.TargetID(); editing {
		_, err = c.api.Update(ctx, id, payload)
		success = MsgUpdated
	} else {
		_, err = c.api.Create(ctx, payload)
		success = MsgCreated
	}
	if err != nil {
		c.log.Warn().Err(err).Str("mode", form.Mode.String()).Msg("guardar usuario")
		c.setMessage(MsgSaveFailed+client.MessageOf(err), MessageError)
		return err
	}

	c.mutate(func() {
		c.form = FormState{}
		c.msg = Message{Text: success, Kind: MessageSuccess}
	})
	return c.fetch(ctx, false)
}

func (c *Controller) rejectSubmit(text string) error {
	c.setMessage(text, MessageError)
	return &ValidationError{Message: text}
}

// FetchAll reemplaza la colección con GET /users y limpia el mensaje. Si falla, la colección
// queda vacía: nunca se muestra una lista obsoleta.
func (c *Controller) FetchAll(ctx context.Context) error {
	return c.fetch(ctx, true)
}

// fetch recarga la lista. clearMessage=false conserva el mensaje de éxito de la operación
// que disparó la recarga.
func (c *Controller) fetch(ctx context.Context, clearMessage bool) error {
	users, err := c.api.List(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("cargar usuarios")
		c.mutate(func() {
			c.users = []client.User{}
			c.msg = Message{Text: MsgLoadFailed + client.MessageOf(err), Kind: MessageError}
		})
		return err
	}
	c.mutate(func() {
		c.users = append(make([]client.User, 0, len(users)), users...)
		if clearMessage {
			c.msg = Message{}
		}
	})
	return nil
}

// RequestDelete pide confirmación y, si se acepta, elimina el usuario y recarga la lista.
// Rechazar o un error del Confirmer no tocan la red; el error se muestra. Si el DELETE falla
// la lista queda igual.
func (c *Controller) RequestDelete(ctx context.Context, id int64) error {
	ok, err := c.confirm.Confirm(ctx, DeleteConfirmation)
	if err != nil {
		c.setMessage(MsgDeleteFailed+err.Error(), MessageError)
		return err
	}
	if !ok {
		return nil
	}
	resp, err := c.api.Delete(ctx, id)
	if err != nil {
		c.log.Warn().Err(err).Int64("id", id).Msg("eliminar usuario")
		c.setMessage(MsgDeleteFailed+client.MessageOf(err), MessageError)
		return err
	}
	text := MsgDeleted
	if resp != nil && resp.Message != "" {
		text = resp.Message
	}
	c.setMessage(text, MessageSuccess)
	return c.fetch(ctx, false)
}

func (c *Controller) setMessage(text string, kind MessageKind) {
	c.mutate(func() { c.msg = Message{Text: text, Kind: kind} })
}

// mutate aplica fn bajo el mutex y notifica fuera de él.
func (c *Controller) mutate(fn func()) {
	c.mu.Lock()
	fn()
	snap := c.snapshotLocked()
	c.mu.Unlock()
	if c.onChange != nil {
		c.onChange(snap)
	}
}
