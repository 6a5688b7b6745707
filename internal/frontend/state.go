package frontend

import (
	"strings"

	"github.com/jhoicas/usuarios-crud/internal/client"
)

// Mode modo del formulario: Creating o Editing(id).
type Mode struct {
	id      int64
	editing bool
}

// Creating modo creación (sin id destino).
func Creating() Mode { return Mode{} }

// Editing modo edición del usuario id.
func Editing(id int64) Mode { return Mode{id: id, editing: true} }

// IsEditing indica si el formulario edita un registro existente.
func (m Mode) IsEditing() bool { return m.editing }

// TargetID devuelve el id en edición; ok=false en modo creación.
func (m Mode) TargetID() (id int64, ok bool) { return m.id, m.editing }

func (m Mode) String() string {
	if m.editing {
		return "editing"
	}
	return "creating"
}

// FormState estado del formulario. Senha nunca se rellena desde un User leído.
type FormState struct {
	Mode     Mode
	Nome     string
	Email    string
	Senha    string
	Endereco string
	Telefone string
}

// set sobrescribe un campo por nombre. Nombres desconocidos se ignoran.
func (f *FormState) set(name, value string) bool {
	switch name {
	case client.FieldNome:
		f.Nome = value
	case client.FieldEmail:
		f.Email = value
	case client.FieldSenha:
		f.Senha = value
	case client.FieldEndereco:
		f.Endereco = value
	case client.FieldTelefone:
		f.Telefone = value
	default:
		return false
	}
	return true
}

// payload construye el cuerpo de la petición. En edición con senha vacía la clave se omite
// para que el servidor conserve la contraseña almacenada.
func (f FormState) payload() client.Payload {
	p := client.Payload{
		client.FieldNome:     f.Nome,
		client.FieldEmail:    f.Email,
		client.FieldSenha:    f.Senha,
		client.FieldEndereco: f.Endereco,
		client.FieldTelefone: f.Telefone,
	}
	if f.Mode.IsEditing() && f.Senha == "" {
		delete(p, client.FieldSenha)
	}
	return p
}

// MessageKind clase del mensaje de estado.
type MessageKind int

const (
	MessageNone MessageKind = iota
	MessageInfo
	MessageSuccess
	MessageError
)

// errorMarker texto que identifica un mensaje de error aunque venga sin clase.
const errorMarker = "Erro"

// Message único slot de estado: el último texto mostrado al usuario.
type Message struct {
	Text string
	Kind MessageKind
}

// IsError clasifica el mensaje como error por su clase o por contener el marcador.
func (m Message) IsError() bool {
	return m.Kind == MessageError || strings.Contains(m.Text, errorMarker)
}

// Empty indica si no hay mensaje.
func (m Message) Empty() bool { return m.Text == "" }

// Snapshot copia de solo lectura del estado para renderizar.
type Snapshot struct {
	Form    FormState
	Users   []client.User
	Message Message
}
