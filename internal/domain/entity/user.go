package entity

import "time"

// Límites de columna de la tabla usuario.
const (
	MaxNomeLen     = 100
	MaxEmailLen    = 120
	MaxEnderecoLen = 200
	MaxTelefoneLen = 20
)

// User representa un usuario registrado. ID y DataCadastro los asigna la base de datos.
type User struct {
	ID           int64
	Nome         string
	Email        string
	SenhaHash    string // bcrypt hash, nunca se serializa hacia afuera
	Endereco     *string
	Telefone     *string
	DataCadastro time.Time
}
