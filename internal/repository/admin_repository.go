package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/extrasite-backend/internal/models"
	"github.com/ignatzorin/extrasite-backend/internal/repository/common"
)

// ErrAdminNotFound возвращается, когда администратор не найден.
var ErrAdminNotFound = errors.New("admin not found")

// AdminRepository отвечает за таблицу admins.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository создаёт экземпляр репозитория.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// Create добавляет администратора.
func (r *AdminRepository) Create(ctx context.Context, a *models.Admin) error {
	query := `
		INSERT INTO admins (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, active, created_at
	`
	if err := r.db.QueryRowxContext(ctx, query, a.Name, a.Email, a.PasswordHash).
		Scan(&a.ID, &a.Active, &a.CreatedAt); err != nil {
		if common.IsUniqueViolation(err, "") {
			return ErrEmailExists
		}
		return fmt.Errorf("admin repository: create %w", err)
	}
	return nil
}

// GetByID возвращает администратора по идентификатору.
func (r *AdminRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	return common.GetByID[models.Admin](ctx, r.db, "admins", id, ErrAdminNotFound)
}

// GetByEmail возвращает администратора по email.
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return common.GetByField[models.Admin](ctx, r.db, "admins", "email", email, ErrAdminNotFound)
}

// Count возвращает количество администраторов.
func (r *AdminRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM admins`); err != nil {
		return 0, fmt.Errorf("admin repository: count %w", err)
	}
	return count, nil
}

// TouchLastLogin фиксирует время последнего входа.
func (r *AdminRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE admins SET last_login = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("admin repository: touch last login %w", err)
	}
	return common.ExpectAffected(res, ErrAdminNotFound)
}

// ActiveEmails - адреса активных администраторов для служебных писем.
func (r *AdminRepository) ActiveEmails(ctx context.Context) ([]string, error) {
	emails := []string{}
	if err := r.db.SelectContext(ctx, &emails, `SELECT email FROM admins WHERE active = TRUE ORDER BY created_at`); err != nil {
		return nil, fmt.Errorf("admin repository: active emails %w", err)
	}
	return emails, nil
}
