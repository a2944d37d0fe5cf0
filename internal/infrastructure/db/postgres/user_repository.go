package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildtrack/procurement-api/internal/core/domain"
)

// UserRepository is the PostgreSQL implementation of ports.UserRepository.
type UserRepository struct {
	pool *pgxpool.Pool
}

const userColumns = `id, email, username, password_hash, name, role, department, phone, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u    domain.User
		id   uuid.UUID
		role string
	)
	if err := row.Scan(&id, &u.Email, &u.Username, &u.PasswordHash, &u.Name, &role,
		&u.Department, &u.Phone, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	r, err := domain.ParseRole(role)
	if err != nil {
		return nil, &domain.StoreError{Kind: domain.StoreErrOther, Field: "role", Err: err}
	}
	u.ID = id.String()
	u.Role = r
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, username, password_hash, name, role, department, phone, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+userColumns,
		uuid.New(), user.Email, user.Username, user.PasswordHash, user.Name, string(user.Role),
		user.Department, user.Phone, user.IsActive, user.CreatedAt, user.UpdatedAt,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, translateError("insert user", err)
	}
	return u, nil
}

func (r *UserRepository) queryOne(ctx context.Context, op, where string, args ...any) (*domain.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, args...))
	if err != nil {
		return nil, translateError(op, err)
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrNoRecord
	}
	return r.queryOne(ctx, "find user", `id = $1`, uid)
}

func (r *UserRepository) FindActiveByID(ctx context.Context, id string) (*domain.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrNoRecord
	}
	return r.queryOne(ctx, "find active user", `id = $1 AND is_active`, uid)
}

func (r *UserRepository) FindActiveByHandle(ctx context.Context, handle string) (*domain.User, error) {
	return r.queryOne(ctx, "find user by handle", `(email = $1 OR username = $1) AND is_active LIMIT 1`, handle)
}

func (r *UserRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error) {
	return r.queryOne(ctx, "find user by email or username",
		`email = $1 OR username = $2 ORDER BY (email = $1) DESC LIMIT 1`, email, username)
}

// update runs an UPDATE ... RETURNING for the user with the given id.
func (r *UserRepository) update(ctx context.Context, op, id, set string, args ...any) (*domain.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrNoRecord
	}
	args = append([]any{uid, time.Now().UTC()}, args...)
	u, err := scanUser(r.pool.QueryRow(ctx,
		`UPDATE users SET updated_at = $2`+set+` WHERE id = $1 RETURNING `+userColumns, args...))
	if err != nil {
		return nil, translateError(op, err)
	}
	return u, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	return r.update(ctx, "update profile", id, `,
		name = COALESCE($3, name),
		department = COALESCE($4, department),
		phone = COALESCE($5, phone)`,
		update.Name, update.Department, update.Phone)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	_, err := r.update(ctx, "update password", id, `, password_hash = $3`, passwordHash)
	return err
}

func (r *UserRepository) UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	return r.update(ctx, "update role", id, `, role = $3`, string(role))
}

func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	return r.update(ctx, "set active", id, `, is_active = $3`, active)
}

func (r *UserRepository) Touch(ctx context.Context, id string) error {
	_, err := r.update(ctx, "touch user", id, ``)
	return err
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, translateError("list users", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, translateError("scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError("list users", err)
	}
	return users, nil
}
