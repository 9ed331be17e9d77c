package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/amazighishop/shop_api/internal/models"
	"github.com/amazighishop/shop_api/internal/utils"
)

const userColumns = `id, name, email, phone, password_hash, role, is_blocked, email_verified_at, created_at, updated_at`

// UserFilter narrows the admin user list.
type UserFilter struct {
	Search string
	Role   string
	Page   int
	Limit  int
}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID returns the user or utils.ErrNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail looks a user up case-insensitively; utils.ErrNotFound when absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `
		SELECT `+userColumns+`
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// EmailTaken reports whether another account than excludeID uses email.
func (r *UserRepository) EmailTaken(ctx context.Context, email string, excludeID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1) AND id <> $2)`, email, excludeID)
	return exists, err
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, phone, password_hash, role, is_blocked, email_verified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowxContext(ctx, query,
		user.Name, user.Email, user.Phone, user.PasswordHash, user.Role, user.IsBlocked, user.EmailVerifiedAt,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

// Update saves profile fields and role. The password is changed separately.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, phone = $3, role = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, user.Name, user.Email, user.Phone, user.Role, user.ID).
		Scan(&user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return utils.ErrNotFound
	}
	return err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int, hash string) error {
	return execOne(ctx, r.db, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, hash)
}

func (r *UserRepository) MarkVerified(ctx context.Context, id int) error {
	return execOne(ctx, r.db,
		`UPDATE users SET email_verified_at = COALESCE(email_verified_at, NOW()), updated_at = NOW() WHERE id = $1`, id)
}

func (r *UserRepository) SetBlocked(ctx context.Context, id int, blocked bool) error {
	return execOne(ctx, r.db, `UPDATE users SET is_blocked = $2, updated_at = NOW() WHERE id = $1`, id, blocked)
}

func (r *UserRepository) Delete(ctx context.Context, id int) error {
	return execOne(ctx, r.db, `DELETE FROM users WHERE id = $1`, id)
}

// CountOrders returns how many orders the user has placed.
func (r *UserRepository) CountOrders(ctx context.Context, id int) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM commandes WHERE user_id = $1`, id)
	return n, err
}

// List returns a page of users matching filter and the total match count.
func (r *UserRepository) List(ctx context.Context, filter UserFilter) ([]models.User, int, error) {
	baseQ := ` FROM users WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.Search != "" {
		baseQ += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)", argIdx, argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}
	if filter.Role != "" {
		baseQ += fmt.Sprintf(" AND role = $%d", argIdx)
		args = append(args, filter.Role)
		argIdx++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*)`+baseQ, args...); err != nil {
		return nil, 0, err
	}

	selectQ := fmt.Sprintf(`SELECT %s%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		userColumns, baseQ, argIdx, argIdx+1)
	args = append(args, filter.Limit, utils.Offset(filter.Page, filter.Limit))

	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, selectQ, args...); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// CountClients counts accounts with the client role.
func (r *UserRepository) CountClients(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users WHERE role = $1`, models.RoleClient)
	return n, err
}
