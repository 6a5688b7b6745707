package dto

import (
	"encoding/json"
	"strings"
	"time"
)

// CreateUserRequest entrada para crear un usuario (senha en texto, se hashea en el use case).
// Los punteros distinguen "clave ausente" de "clave vacía".
type CreateUserRequest struct {
	Nome     *string `json:"nome"`
	Email    *string `json:"email"`
	Senha    *string `json:"senha"`
	Endereco *string `json:"endereco"`
	Telefone *string `json:"telefone"`
}

// UpdateUserRequest entrada parcial: las claves ausentes conservan el valor almacenado.
// Senha solo se reemplaza si viene y no está vacía. Endereco o telefone en null se vacían.
type UpdateUserRequest struct {
	Nome     *string `json:"nome"`
	Email    *string `json:"email"`
	Senha    *string `json:"senha"`
	Endereco *string `json:"endereco"`
	Telefone *string `json:"telefone"`

	// Present claves que traía el cuerpo, incluidas las desconocidas y las que valen null.
	// Nil cuando la petición no viene de JSON: cuenta lo que no sea nil.
	Present map[string]bool `json:"-"`
}

// DecodeUpdateUserRequest decodifica un objeto JSON registrando qué claves venían (en minúsculas,
// igual que encoding/json empareja los campos).
// Un cuerpo que no es un objeto se devuelve como petición sin claves junto al error.
func DecodeUpdateUserRequest(body []byte) (UpdateUserRequest, error) {
	in := UpdateUserRequest{Present: map[string]bool{}}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return in, err
	}
	if err := json.Unmarshal(body, &in); err != nil {
		return UpdateUserRequest{Present: map[string]bool{}}, err
	}
	for k := range raw {
		in.Present[strings.ToLower(k)] = true
	}
	return in, nil
}

// Has indica si la clave venía en la petición (aunque fuera null).
func (r UpdateUserRequest) Has(key string) bool {
	if r.Present != nil {
		return r.Present[key]
	}
	switch key {
	case "nome":
		return r.Nome != nil
	case "email":
		return r.Email != nil
	case "senha":
		return r.Senha != nil
	case "endereco":
		return r.Endereco != nil
	case "telefone":
		return r.Telefone != nil
	}
	return false
}

// IsEmpty indica si la petición no trae ninguna clave.
func (r UpdateUserRequest) IsEmpty() bool {
	if r.Present != nil {
		return len(r.Present) == 0
	}
	return r.Nome == nil && r.Email == nil && r.Senha == nil && r.Endereco == nil && r.Telefone == nil
}

// UserResponse salida de un usuario (sin senha).
type UserResponse struct {
	ID           int64     `json:"id"`
	Nome         string    `json:"nome"`
	Email        string    `json:"email"`
	DataCadastro time.Time `json:"data_cadastro"`
	Endereco     *string   `json:"endereco"`
	Telefone     *string   `json:"telefone"`
}

// UserEnvelope respuesta de create/update: mensaje para la UI más el usuario resultante.
type UserEnvelope struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}
