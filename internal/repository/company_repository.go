package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/extrasite-backend/internal/models"
	"github.com/ignatzorin/extrasite-backend/internal/repository/common"
)

var (
	// ErrCompanyNotFound возвращается, когда компания не найдена.
	ErrCompanyNotFound = errors.New("company not found")
	// ErrCNPJExists - компания с таким CNPJ уже зарегистрирована.
	ErrCNPJExists = errors.New("cnpj already exists")
)

// CompanyRepository отвечает за таблицу companies.
type CompanyRepository struct {
	db *sqlx.DB
}

// NewCompanyRepository создаёт экземпляр репозитория.
func NewCompanyRepository(db *sqlx.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// Create регистрирует компанию; новая компания ждёт одобрения.
func (r *CompanyRepository) Create(ctx context.Context, c *models.Company) error {
	query := `
		INSERT INTO companies (
			email, password_hash, legal_name, trade_name, cnpj, phone, contact_person,
			street, city, state, postal_code, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`

	c.Status = vo.CompanyPending
	if err := r.db.QueryRowxContext(ctx, query,
		c.Email, c.PasswordHash, c.LegalName, c.TradeName, c.CNPJ, c.Phone, c.ContactPerson,
		c.Street, c.City, c.State, c.PostalCode, c.Status,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		switch {
		case common.IsUniqueViolation(err, "companies_cnpj_key"):
			return ErrCNPJExists
		case common.IsUniqueViolation(err, ""):
			return ErrEmailExists
		}
		return fmt.Errorf("company repository: create %w", err)
	}
	return nil
}

// GetByID возвращает компанию по идентификатору.
func (r *CompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	return common.GetByID[models.Company](ctx, r.db, "companies", id, ErrCompanyNotFound)
}

// GetByEmail возвращает компанию по email.
func (r *CompanyRepository) GetByEmail(ctx context.Context, email string) (*models.Company, error) {
	return common.GetByField[models.Company](ctx, r.db, "companies", "email", email, ErrCompanyNotFound)
}

// UpdateProfile обновляет контактные данные и адрес.
func (r *CompanyRepository) UpdateProfile(ctx context.Context, id uuid.UUID, upd models.CompanyProfileUpdate) (*models.Company, error) {
	query := `
		UPDATE companies
		SET trade_name = $2, phone = $3, contact_person = $4, street = $5, city = $6, state = $7,
			postal_code = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`
	return r.updateReturning(ctx, "update profile", query,
		id, upd.TradeName, upd.Phone, upd.ContactPerson, upd.Street, upd.City, upd.State, upd.PostalCode)
}

// UpdateLogo сохраняет путь к логотипу и возвращает предыдущий.
func (r *CompanyRepository) UpdateLogo(ctx context.Context, id uuid.UUID, path string) (*string, error) {
	var previous *string
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &previous, `SELECT logo_path FROM companies WHERE id = $1 FOR UPDATE`, id); err != nil {
			if isNoRows(err) {
				return ErrCompanyNotFound
			}
			return err
		}
		_, err := tx.ExecContext(ctx, `UPDATE companies SET logo_path = $2, updated_at = NOW() WHERE id = $1`, id, path)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrCompanyNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("company repository: update logo %w", err)
	}
	return previous, nil
}

// Approve активирует компанию и запоминает, кто и когда одобрил.
func (r *CompanyRepository) Approve(ctx context.Context, id, adminID uuid.UUID, at time.Time) (*models.Company, error) {
	query := `
		UPDATE companies
		SET status = 'active', approved_by = $2, approved_at = $3, rejection_reason = NULL, updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`
	return r.updateReturning(ctx, "approve", query, id, adminID, at)
}

// Reject приостанавливает компанию с указанием причины.
func (r *CompanyRepository) Reject(ctx context.Context, id uuid.UUID, reason string) (*models.Company, error) {
	query := `
		UPDATE companies
		SET status = 'suspended', rejection_reason = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`
	return r.updateReturning(ctx, "reject", query, id, reason)
}

// Suspend приостанавливает компанию.
func (r *CompanyRepository) Suspend(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	return r.updateReturning(ctx, "suspend",
		`UPDATE companies SET status = 'suspended', updated_at = NOW() WHERE id = $1 RETURNING *`, id)
}

// List возвращает компании; pending показываются от самых старых.
func (r *CompanyRepository) List(ctx context.Context, status *vo.CompanyStatus, limit, offset int) ([]models.Company, error) {
	companies := []models.Company{}
	query := `
		SELECT * FROM companies
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY CASE WHEN status = 'pending' THEN created_at END ASC, created_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &companies, query, status, limit, offset); err != nil {
		return nil, fmt.Errorf("company repository: list %w", err)
	}
	return companies, nil
}

// CountByStatus возвращает количество компаний в статусе.
func (r *CompanyRepository) CountByStatus(ctx context.Context, status vo.CompanyStatus) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM companies WHERE status = $1`, status); err != nil {
		return 0, fmt.Errorf("company repository: count %w", err)
	}
	return count, nil
}

func (r *CompanyRepository) updateReturning(ctx context.Context, op, query string, args ...interface{}) (*models.Company, error) {
	var c models.Company
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&c); err != nil {
		if isNoRows(err) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("company repository: %s %w", op, err)
	}
	return &c, nil
}
