package dto

// Mensajes que la UI muestra tal cual.
const (
	MsgUserCreated    = "Usuário criado com sucesso!"
	MsgUserUpdated    = "Usuário atualizado com sucesso!"
	MsgUserDeleted    = "Usuário deletado com sucesso!"
	MsgUserNotFound   = "Usuário não encontrado!"
	MsgIncompleteData = "Dados incompletos!"
	MsgEmptyUpdate    = "Nenhum dado fornecido para atualização!"
	MsgEmailExists    = "Email já cadastrado!"
	MsgInvalidBody    = "Corpo da requisição inválido!"
	MsgInvalidID      = "ID de usuário inválido!"
)

// MessageResponse cuerpo con solo mensaje (delete).
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse cuerpo de error HTTP. El cliente solo lee Message.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
