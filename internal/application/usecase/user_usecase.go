package usecase

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/jhoicas/usuarios-crud/internal/application/dto"
	"github.com/jhoicas/usuarios-crud/internal/domain"
	"github.com/jhoicas/usuarios-crud/internal/domain/entity"
	"github.com/jhoicas/usuarios-crud/internal/domain/repository"
	"golang.org/x/crypto/bcrypt"
)

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo       repository.UserRepository
	bcryptCost int
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo, bcryptCost: bcrypt.DefaultCost}
}

// WithBcryptCost cambia el costo de bcrypt (los tests usan bcrypt.MinCost).
func (uc *UserUseCase) WithBcryptCost(cost int) *UserUseCase {
	uc.bcryptCost = cost
	return uc
}

// Create crea un usuario. nome, email y senha deben venir en la petición; el email no puede repetirse.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if in.Nome == nil || in.Email == nil || in.Senha == nil {
		return nil, domain.ErrIncompleteData
	}
	if err := validateLengths(*in.Nome, *in.Email, in.Endereco, in.Telefone); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByEmail(ctx, *in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(*in.Senha), uc.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash senha: %w", err)
	}
	user := &entity.User{
		Nome:      *in.Nome,
		Email:     *in.Email,
		SenhaHash: string(hash),
		Endereco:  in.Endereco,
		Telefone:  in.Telefone,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// List devuelve todos los usuarios. Nunca devuelve nil: una tabla vacía produce [].
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *toUserResponse(u))
	}
	return items, nil
}

// GetByID obtiene un usuario por ID; (nil, nil) si no existe.
func (uc *UserUseCase) GetByID(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return toUserResponse(user), nil
}

// Update aplica una actualización parcial. La existencia se comprueba antes que el cuerpo.
// Senha vacía o ausente conserva el hash almacenado; claves desconocidas se ignoran.
func (uc *UserUseCase) Update(ctx context.Context, id int64, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if in.IsEmpty() {
		return nil, domain.ErrEmptyUpdate
	}
	if (in.Has("nome") && in.Nome == nil) || (in.Has("email") && in.Email == nil) {
		return nil, fmt.Errorf("%w: nome e email não podem ser nulos", domain.ErrInvalidInput)
	}
	if in.Nome != nil {
		user.Nome = *in.Nome
	}
	if in.Email != nil && *in.Email != user.Email {
		other, err := uc.repo.GetByEmail(ctx, *in.Email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != user.ID {
			return nil, domain.ErrEmailAlreadyExists
		}
		user.Email = *in.Email
	}
	if in.Has("endereco") {
		user.Endereco = in.Endereco
	}
	if in.Has("telefone") {
		user.Telefone = in.Telefone
	}
	if err := validateLengths(user.Nome, user.Email, user.Endereco, user.Telefone); err != nil {
		return nil, err
	}
	if in.Senha != nil && *in.Senha != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Senha), uc.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash senha: %w", err)
		}
		user.SenhaHash = string(hash)
	}
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Delete elimina un usuario; ErrUserNotFound si no existe.
func (uc *UserUseCase) Delete(ctx context.Context, id int64) error {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	return uc.repo.Delete(ctx, id)
}

// CheckSenha compara una senha en texto con el hash almacenado.
func (uc *UserUseCase) CheckSenha(ctx context.Context, id int64, senha string) (bool, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, domain.ErrUserNotFound
	}
	return bcrypt.CompareHashAndPassword([]byte(user.SenhaHash), []byte(senha)) == nil, nil
}

func validateLengths(nome, email string, endereco, telefone *string) error {
	if utf8.RuneCountInString(nome) > entity.MaxNomeLen {
		return fmt.Errorf("%w: nome excede %d caracteres", domain.ErrInvalidInput, entity.MaxNomeLen)
	}
	if utf8.RuneCountInString(email) > entity.MaxEmailLen {
		return fmt.Errorf("%w: email excede %d caracteres", domain.ErrInvalidInput, entity.MaxEmailLen)
	}
	if endereco != nil && utf8.RuneCountInString(*endereco) > entity.MaxEnderecoLen {
		return fmt.Errorf("%w: endereco excede %d caracteres", domain.ErrInvalidInput, entity.MaxEnderecoLen)
	}
	if telefone != nil && utf8.RuneCountInString(*telefone) > entity.MaxTelefoneLen {
		return fmt.Errorf("%w: telefone excede %d caracteres", domain.ErrInvalidInput, entity.MaxTelefoneLen)
	}
	return nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:           u.ID,
		Nome:         u.Nome,
		Email:        u.Email,
		DataCadastro: u.DataCadastro,
		Endereco:     u.Endereco,
		Telefone:     u.Telefone,
	}
}
