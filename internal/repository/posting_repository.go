package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/extrasite-backend/internal/models"
	"github.com/ignatzorin/extrasite-backend/internal/repository/common"
)

var (
	// ErrPostingNotFound возвращается, когда вакансия не найдена.
	ErrPostingNotFound = errors.New("job posting not found")
	// ErrPostingStatusConflict - статус вакансии не позволяет переход.
	ErrPostingStatusConflict = errors.New("job posting status conflict")
)

const postingViewSelect = `
	SELECT p.*, c.trade_name AS company_name
	FROM job_postings p
	JOIN companies c ON c.id = p.company_id
`

// PostingRepository отвечает за таблицу job_postings.
type PostingRepository struct {
	db *sqlx.DB
}

// NewPostingRepository создаёт экземпляр репозитория.
func NewPostingRepository(db *sqlx.DB) *PostingRepository {
	return &PostingRepository{db: db}
}

// Create публикует вакансию.
func (r *PostingRepository) Create(ctx context.Context, p *models.JobPosting) error {
	query := `
		INSERT INTO job_postings (
			company_id, title, description, category, requirements, address, city, date,
			start_time, end_time, pay_per_slot, suggested_value, total_slots, filled_slots, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 0, $14)
		RETURNING id, filled_slots, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(ctx, query,
		p.CompanyID, p.Title, p.Description, p.Category, p.Requirements, p.Address, p.City,
		p.Date.Format(time.DateOnly), p.StartTime, p.EndTime, p.PayPerSlot, p.SuggestedValue, p.TotalSlots, p.Status,
	).Scan(&p.ID, &p.FilledSlots, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("posting repository: create %w", err)
	}
	return nil
}

// GetByID возвращает вакансию по идентификатору.
func (r *PostingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.JobPosting, error) {
	return common.GetByID[models.JobPosting](ctx, r.db, "job_postings", id, ErrPostingNotFound)
}

// GetView возвращает вакансию вместе с названием компании.
func (r *PostingRepository) GetView(ctx context.Context, id uuid.UUID) (*models.JobPostingView, error) {
	var view models.JobPostingView
	if err := r.db.GetContext(ctx, &view, postingViewSelect+` WHERE p.id = $1`, id); err != nil {
		if isNoRows(err) {
			return nil, ErrPostingNotFound
		}
		return nil, fmt.Errorf("posting repository: get view %w", err)
	}
	return &view, nil
}

// ListBoard - мурал: открытые вакансии со свободными слотами начиная с даты From.
func (r *PostingRepository) ListBoard(ctx context.Context, f models.JobBoardFilter) ([]models.JobPostingView, error) {
	query := postingViewSelect + `
		WHERE p.status = 'open'
			AND p.filled_slots < p.total_slots
			AND p.date >= $1
			AND c.status = 'active'
	`
	args := []interface{}{f.From.Format(time.DateOnly)}

	if f.Category != nil {
		args = append(args, *f.Category)
		query += fmt.Sprintf(" AND p.category = $%d", len(args))
	}
	if f.City != nil {
		args = append(args, *f.City)
		query += fmt.Sprintf(" AND p.city ILIKE $%d", len(args))
	}

	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY p.date, p.start_time LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	views := []models.JobPostingView{}
	if err := r.db.SelectContext(ctx, &views, query, args...); err != nil {
		return nil, fmt.Errorf("posting repository: list board %w", err)
	}
	return views, nil
}

// ListByCompany возвращает вакансии компании, новые первыми.
func (r *PostingRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.JobPostingView, error) {
	views := []models.JobPostingView{}
	query := postingViewSelect + ` WHERE p.company_id = $1 ORDER BY p.created_at DESC`
	if err := r.db.SelectContext(ctx, &views, query, companyID); err != nil {
		return nil, fmt.Errorf("posting repository: list by company %w", err)
	}
	return views, nil
}

// ListAll - список для администратора с фильтром по статусу.
func (r *PostingRepository) ListAll(ctx context.Context, status *vo.PostingStatus, limit, offset int) ([]models.JobPostingView, error) {
	views := []models.JobPostingView{}
	query := postingViewSelect + `
		WHERE ($1::text IS NULL OR p.status = $1)
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &views, query, status, limit, offset); err != nil {
		return nil, fmt.Errorf("posting repository: list all %w", err)
	}
	return views, nil
}

// TransitionStatus меняет статус, только если текущий входит в from.
func (r *PostingRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from []vo.PostingStatus, to vo.PostingStatus) (*models.JobPosting, error) {
	fromStr := make([]string, len(from))
	for i, s := range from {
		fromStr[i] = string(s)
	}

	query := `
		UPDATE job_postings
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = ANY($3)
		RETURNING *
	`

	var p models.JobPosting
	if err := r.db.QueryRowxContext(ctx, query, id, to, pq.Array(fromStr)).StructScan(&p); err != nil {
		if !isNoRows(err) {
			return nil, fmt.Errorf("posting repository: transition status %w", err)
		}
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrPostingStatusConflict
	}
	return &p, nil
}

// CompanyDashboard считает вакансии компании по статусам и pending candidaturas.
func (r *PostingRepository) CompanyDashboard(ctx context.Context, companyID uuid.UUID) (*models.CompanyDashboard, error) {
	var d models.CompanyDashboard
	query := `
		SELECT
			COUNT(*) FILTER (WHERE p.status = 'open')        AS postings_open,
			COUNT(*) FILTER (WHERE p.status = 'in_progress') AS postings_in_progress,
			COUNT(*) FILTER (WHERE p.status = 'completed')   AS postings_completed,
			COALESCE((
				SELECT COUNT(*) FROM applications a
				JOIN job_postings jp ON jp.id = a.posting_id
				WHERE jp.company_id = $1 AND a.status = 'pending'
			), 0) AS pending_applications
		FROM job_postings p
		WHERE p.company_id = $1
	`
	if err := r.db.GetContext(ctx, &d, query, companyID); err != nil {
		return nil, fmt.Errorf("posting repository: company dashboard %w", err)
	}
	return &d, nil
}

// Counts возвращает общее количество вакансий и количество открытых.
func (r *PostingRepository) Counts(ctx context.Context) (total, open int, err error) {
	var row struct {
		Total int `db:"total"`
		Open  int `db:"open"`
	}
	query := `SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE status = 'open') AS open FROM job_postings`
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return 0, 0, fmt.Errorf("posting repository: counts %w", err)
	}
	return row.Total, row.Open, nil
}
