package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/usuarios-crud/internal/domain"
	"github.com/jhoicas/usuarios-crud/internal/domain/entity"
	"github.com/jhoicas/usuarios-crud/internal/domain/repository"
	"github.com/mattn/go-sqlite3"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, nome, email, senha, endereco, telefone, data_cadastro`

// UserRepo implementación del puerto UserRepository sobre SQLite (desarrollo local y tests).
type UserRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewUserRepository construye el adaptador.
func NewUserRepository(db *sql.DB) *UserRepo {
	return &UserRepo{db: db, now: time.Now}
}

func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	createdAt := r.now().UTC().Truncate(time.Microsecond)
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO usuario (nome, email, senha, endereco, telefone, data_cadastro)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.Nome, user.Email, user.SenhaHash, user.Endereco, user.Telefone, createdAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert usuario: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	user.ID = id
	user.DataCadastro = createdAt
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM usuario WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get usuario by id: %w", err)
	}
	return u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM usuario WHERE email = ? LIMIT 1`, email))
	if err != nil {
		return nil, fmt.Errorf("get usuario by email: %w", err)
	}
	return u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM usuario ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list usuarios: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan usuario: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE usuario SET nome = ?, email = ?, senha = ?, endereco = ?, telefone = ?
		WHERE id = ?`,
		user.Nome, user.Email, user.SenhaHash, user.Endereco, user.Telefone, user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update usuario: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM usuario WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete usuario: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.Nome, &u.Email, &u.SenhaHash, &u.Endereco, &u.Telefone, &u.DataCadastro)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
