package http

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/usuarios-crud/internal/application/dto"
	"github.com/jhoicas/usuarios-crud/internal/application/usecase"
	"github.com/jhoicas/usuarios-crud/internal/domain"
)

// UserHandler maneja las peticiones HTTP para /users.
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List godoc
// @Summary      Listar usuarios
// @Tags         users
// @Produce      json
// @Success      200  {array}   dto.UserResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener usuario por ID
// @Tags         users
// @Produce      json
// @Param        id   path  int  true  "ID del usuario"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: dto.MsgInvalidID})
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return internalError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: dto.MsgUserNotFound})
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear usuario
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "nome, email, senha, endereco, telefone"
// @Success      201   {object}  dto.UserEnvelope
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := decodeBody(c, &in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INCOMPLETE", Message: dto.MsgIncompleteData})
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return mapUserError(c, err, "Erro ao criar usuário: ")
	}
	return c.Status(fiber.StatusCreated).JSON(dto.UserEnvelope{Message: dto.MsgUserCreated, User: *out})
}

// Update godoc
// @Summary      Actualizar usuario (parcial)
// @Description  Las claves ausentes conservan el valor; senha vacía no cambia la contraseña.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path  int                    true  "ID del usuario"
// @Param        body  body  dto.UpdateUserRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.UserEnvelope
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: dto.MsgInvalidID})
	}
	// Un cuerpo ilegible cuenta como vacío: el use case responde 404 antes que 400.
	in, _ := dto.DecodeUpdateUserRequest(c.Body())
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return mapUserError(c, err, "Erro ao atualizar usuário: ")
	}
	return c.JSON(dto.UserEnvelope{Message: dto.MsgUserUpdated, User: *out})
}

// Delete godoc
// @Summary      Eliminar usuario
// @Tags         users
// @Produce      json
// @Param        id   path  int  true  "ID del usuario"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: dto.MsgInvalidID})
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return mapUserError(c, err, "Erro ao deletar usuário: ")
	}
	return c.JSON(dto.MessageResponse{Message: dto.MsgUserDeleted})
}

func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeBody exige un objeto JSON no vacío. Un cuerpo vacío, "{}" o no-objeto devuelve error.
func decodeBody(c *fiber.Ctx, out any) error {
	body := c.Body()
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(body, &keys); err != nil {
		return err
	}
	if len(keys) == 0 {
		return errors.New("cuerpo vacío")
	}
	return json.Unmarshal(body, out)
}

func mapUserError(c *fiber.Ctx, err error, internalPrefix string) error {
	switch {
	case errors.Is(err, domain.ErrIncompleteData):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INCOMPLETE", Message: dto.MsgIncompleteData})
	case errors.Is(err, domain.ErrEmptyUpdate):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMPTY_UPDATE", Message: dto.MsgEmptyUpdate})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: dto.MsgUserNotFound})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: dto.MsgEmailExists})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: internalPrefix + err.Error()})
}

func internalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
