package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

var (
	_ repository.UserRepository       = (*UserRepo)(nil)
	_ repository.RoleRepository       = (*RoleRepo)(nil)
	_ repository.CredentialRepository = (*CredentialRepo)(nil)
)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
// El nombre del rol se resuelve con un JOIN a roles.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userSelect = `
	SELECT u.id, u.email, u.full_name, u.role_id, r.name, u.is_active, u.created_at, u.updated_at
	FROM users u JOIN roles r ON r.id = u.role_id`

// Create persiste el perfil. user.Role es el nombre del rol; un rol desconocido es entrada inválida.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, email, full_name, role_id, is_active, created_at, updated_at)
		SELECT $1::uuid, $2::text, $3::text, r.id, $5::boolean, $6::timestamptz, $7::timestamptz
		FROM roles r WHERE r.name = upper($4)
		RETURNING role_id`
	err := r.q.QueryRow(ctx, query,
		user.ID, user.Email, user.FullName, user.Role, user.IsActive, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.RoleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Invalid("role", "rol desconocido")
		}
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, userSelect+` WHERE u.id = $1`, id)
}

// FindByEmail busca sin distinguir mayúsculas.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, userSelect+` WHERE lower(u.email) = lower($1)`, email)
}

func (r *UserRepo) getOne(ctx context.Context, query, arg string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// Update actualiza nombre, rol y estado. El email lo administra el proveedor de identidad.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users u
		SET full_name = $2, role_id = r.id, is_active = $4, updated_at = $5
		FROM roles r
		WHERE u.id = $1 AND r.name = upper($3)
		RETURNING r.id, r.name`
	err := r.q.QueryRow(ctx, query, user.ID, user.FullName, user.Role, user.IsActive, user.UpdatedAt).
		Scan(&user.RoleID, &user.Role)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("update user: %w", err)
	}
	// sin filas: el usuario no existe o el rol es desconocido
	existing, err := r.GetByID(ctx, user.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	return domain.Invalid("role", "rol desconocido")
}

// List lista perfiles ordenados por email.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	var w where
	rows, err := r.q.Query(ctx, userSelect+` ORDER BY u.email`+w.page(limit, offset), w.args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Delete borra el perfil y, si existen, sus credenciales locales.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM auth_credentials WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("delete credentials: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	if err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.RoleID, &u.Role, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// RoleRepo catálogo de roles.
type RoleRepo struct {
	q Querier
}

func NewRoleRepository(q Querier) *RoleRepo {
	return &RoleRepo{q: q}
}

func (r *RoleRepo) Create(ctx context.Context, role *entity.Role) error {
	query := `INSERT INTO roles (id, name, description, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(ctx, query, role.ID, role.Name, role.Description, role.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

func (r *RoleRepo) GetByName(ctx context.Context, name string) (*entity.Role, error) {
	var role entity.Role
	err := r.q.QueryRow(ctx, `SELECT id, name, description, created_at FROM roles WHERE name = upper($1)`, name).
		Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	return &role, nil
}

func (r *RoleRepo) List(ctx context.Context) ([]*entity.Role, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, description, created_at FROM roles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var list []*entity.Role
	for rows.Next() {
		var role entity.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		list = append(list, &role)
	}
	return list, rows.Err()
}

// CredentialRepo credenciales del proveedor local (hash bcrypt).
type CredentialRepo struct {
	q Querier
}

func NewCredentialRepository(q Querier) *CredentialRepo {
	return &CredentialRepo{q: q}
}

func (r *CredentialRepo) Create(ctx context.Context, c *entity.Credential) error {
	query := `
		INSERT INTO auth_credentials (user_id, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, c.UserID, c.Email, c.PasswordHash, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert credential: %w", err)
	}
	return nil
}

func (r *CredentialRepo) FindByEmail(ctx context.Context, email string) (*entity.Credential, error) {
	return r.getOne(ctx, `WHERE lower(email) = lower($1)`, email)
}

func (r *CredentialRepo) GetByUserID(ctx context.Context, userID string) (*entity.Credential, error) {
	return r.getOne(ctx, `WHERE user_id = $1`, userID)
}

func (r *CredentialRepo) getOne(ctx context.Context, cond, arg string) (*entity.Credential, error) {
	query := `SELECT user_id, email, password_hash, created_at, updated_at FROM auth_credentials ` + cond
	var c entity.Credential
	err := r.q.QueryRow(ctx, query, arg).Scan(&c.UserID, &c.Email, &c.PasswordHash, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credential: %w", err)
	}
	return &c, nil
}

func (r *CredentialRepo) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE auth_credentials SET password_hash = $2, updated_at = now() WHERE user_id = $1`, userID, hash)
	if err != nil {
		return fmt.Errorf("update credential: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
