package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/auth/entity"
	"github.com/ovaphlow/pitchfork/service-tattoo-go/pkg/database"
)

const userColumns = `id, name, email, password_hash, active, created_at, updated_at`

// UserRepo provides data access for users table using sqlx.
type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user row and fills in its ID. A unique violation on
// email is returned as database.ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = u.CreatedAt
	q := r.db.Rebind(`INSERT INTO users (name, email, password_hash, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`)
	err := r.db.GetContext(ctx, &u.ID, q, u.Name, u.Email, u.PasswordHash, u.Active, u.CreatedAt, u.UpdatedAt)
	if database.IsDuplicate(err) {
		return database.ErrDuplicate
	}
	return err
}

// GetByEmail returns the user with the given email, or nil when absent.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

// GetByID returns the user with the given id, or nil when absent.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *UserRepo) getOne(ctx context.Context, q string, arg any) (*entity.User, error) {
	var u entity.User
	if err := r.db.GetContext(ctx, &u, r.db.Rebind(q), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// Update writes name, email, password hash and active flag back and bumps
// updated_at.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now().UTC()
	q := r.db.Rebind(`UPDATE users SET name = ?, email = ?, password_hash = ?, active = ?, updated_at = ? WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, q, u.Name, u.Email, u.PasswordHash, u.Active, u.UpdatedAt, u.ID)
	if err != nil {
		if database.IsDuplicate(err) {
			return database.ErrDuplicate
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetActive enables or disables an account.
func (r *UserRepo) SetActive(ctx context.Context, id int64, active bool) error {
	q := r.db.Rebind(`UPDATE users SET active = ?, updated_at = ? WHERE id = ?`)
	_, err := r.db.ExecContext(ctx, q, active, time.Now().UTC(), id)
	return err
}

// List returns every user, newest first.
func (r *UserRepo) List(ctx context.Context) ([]entity.User, error) {
	users := []entity.User{}
	q := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id DESC`
	if err := r.db.SelectContext(ctx, &users, q); err != nil {
		return nil, err
	}
	return users, nil
}
