package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrUserNotFound       = errors.New("usuário não encontrado")
	ErrEmailAlreadyExists = errors.New("email já cadastrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrIncompleteData     = errors.New("dados incompletos")
	ErrEmptyUpdate        = errors.New("nenhum dado para atualizar")
)
