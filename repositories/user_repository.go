package repositories

import (
	"context"
	"fmt"
	"pc-store/models"
	"strings"
	"time"
)

type UserRepository struct {
	db DBPool
}

func NewUserRepository(db DBPool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, full_name, role, language, google_id, last_login_at, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &u.Language,
		&u.GoogleID, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, password_hash, full_name, role, language, google_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		strings.ToLower(user.Email), user.PasswordHash, user.FullName, user.Role, user.Language, user.GoogleID,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("users.Create: %w", translate(err))
	}
	user.Email = strings.ToLower(user.Email)
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("users.FindByID: %w", translate(err))
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email)))
	if err != nil {
		return nil, fmt.Errorf("users.FindByEmail: %w", translate(err))
	}
	return u, nil
}

func (r *UserRepository) FindByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE google_id = $1`, googleID))
	if err != nil {
		return nil, fmt.Errorf("users.FindByGoogleID: %w", translate(err))
	}
	return u, nil
}

func (r *UserRepository) LinkGoogle(ctx context.Context, id int, googleID string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET google_id = $1, updated_at = NOW() WHERE id = $2`, googleID, id)
	if err != nil {
		return fmt.Errorf("users.LinkGoogle: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("users.LinkGoogle: %w", ErrNotFound)
	}
	return nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id int, at time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("users.TouchLastLogin: %w", err)
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("users.List count: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id LIMIT $1 OFFSET $2`,
		limit, offset(page, limit),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("users.List: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("users.List scan: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("users.List rows: %w", err)
	}
	return users, total, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id int, role string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`, role, id)
	if err != nil {
		return fmt.Errorf("users.UpdateRole: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("users.UpdateRole: %w", ErrNotFound)
	}
	return nil
}
