package client

// User instantánea de un usuario tal como la devuelve el servidor.
type User struct {
	ID           int64  `json:"id"`
	Nome         string `json:"nome"`
	Email        string `json:"email"`
	Endereco     string `json:"endereco"`
	Telefone     string `json:"telefone"`
	DataCadastro string `json:"data_cadastro"`
}

// Claves del payload.
const (
	FieldNome     = "nome"
	FieldEmail    = "email"
	FieldSenha    = "senha"
	FieldEndereco = "endereco"
	FieldTelefone = "telefone"
)

// Payload cuerpo de create/update. Es un mapa para que "clave ausente" (no tocar)
// y "clave vacía" sean distinguibles en el JSON.
type Payload map[string]string

// Has indica si la clave está presente.
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// UserEnvelope respuesta de create/update.
type UserEnvelope struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// MessageBody respuesta de delete y cuerpo de error.
type MessageBody struct {
	Message string `json:"message"`
}
