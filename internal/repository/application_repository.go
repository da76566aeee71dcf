package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	domainrepo "github.com/ignatzorin/extrasite-backend/internal/domain/repository"
	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/extrasite-backend/internal/models"
	"github.com/ignatzorin/extrasite-backend/internal/repository/common"
)

var (
	// ErrApplicationNotFound возвращается, когда candidatura не найдена.
	ErrApplicationNotFound = errors.New("application not found")
	// ErrApplicationExists - соискатель уже откликался на эту вакансию.
	ErrApplicationExists = errors.New("application already exists")
)

const uqApplicationPostingSeeker = "uq_applications_posting_seeker"

const applicationViewSelect = `
	SELECT a.*,
		p.title AS posting_title, p.date AS posting_date, p.start_time, p.end_time, p.pay_per_slot,
		c.id AS company_id, c.trade_name AS company_name,
		s.name AS job_seeker_name
	FROM applications a
	JOIN job_postings p ON p.id = a.posting_id
	JOIN companies c ON c.id = p.company_id
	JOIN job_seekers s ON s.id = a.job_seeker_id
`

// ApplicationRepository отвечает за candidaturas и транзакции их жизненного цикла.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository создаёт экземпляр репозитория.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

var _ domainrepo.LifecycleStore = (*ApplicationRepository)(nil)

// Create сохраняет новую candidatura в статусе pending.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	query := `
		INSERT INTO applications (posting_id, job_seeker_id, message, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, applied_at, updated_at
	`

	app.Status = vo.ApplicationPending
	if err := r.db.QueryRowxContext(ctx, query, app.PostingID, app.JobSeekerID, app.Message, app.Status).
		Scan(&app.ID, &app.AppliedAt, &app.UpdatedAt); err != nil {
		if common.IsUniqueViolation(err, uqApplicationPostingSeeker) {
			return ErrApplicationExists
		}
		return fmt.Errorf("application repository: create %w", err)
	}

	return nil
}

// GetApplication возвращает candidatura без блокировки.
func (r *ApplicationRepository) GetApplication(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	return common.GetByID[models.Application](ctx, r.db, "applications", id, ErrApplicationNotFound)
}

// GetView возвращает candidatura с данными вакансии и сторон.
func (r *ApplicationRepository) GetView(ctx context.Context, id uuid.UUID) (*models.ApplicationView, error) {
	var view models.ApplicationView
	if err := r.db.GetContext(ctx, &view, applicationViewSelect+` WHERE a.id = $1`, id); err != nil {
		if isNoRows(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("application repository: get view %w", err)
	}
	return &view, nil
}

// ListBySeeker - "мои candidaturas", новые первыми.
func (r *ApplicationRepository) ListBySeeker(ctx context.Context, seekerID uuid.UUID) ([]models.ApplicationView, error) {
	views := []models.ApplicationView{}
	query := applicationViewSelect + ` WHERE a.job_seeker_id = $1 ORDER BY a.applied_at DESC`
	if err := r.db.SelectContext(ctx, &views, query, seekerID); err != nil {
		return nil, fmt.Errorf("application repository: list by seeker %w", err)
	}
	return views, nil
}

// ListByPosting возвращает candidaturas вакансии, сначала pending.
func (r *ApplicationRepository) ListByPosting(ctx context.Context, postingID uuid.UUID) ([]models.ApplicationView, error) {
	views := []models.ApplicationView{}
	query := applicationViewSelect + `
		WHERE a.posting_id = $1
		ORDER BY CASE a.status WHEN 'pending' THEN 0 WHEN 'accepted' THEN 1 ELSE 2 END, a.applied_at
	`
	if err := r.db.SelectContext(ctx, &views, query, postingID); err != nil {
		return nil, fmt.Errorf("application repository: list by posting %w", err)
	}
	return views, nil
}

// SeekerDashboard считает candidaturas соискателя по статусам.
func (r *ApplicationRepository) SeekerDashboard(ctx context.Context, seekerID uuid.UUID) (*models.JobSeekerDashboard, error) {
	var d models.JobSeekerDashboard
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending')   AS pending,
			COUNT(*) FILTER (WHERE status = 'accepted')  AS accepted,
			COUNT(*) FILTER (WHERE status = 'declined')  AS declined,
			COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled
		FROM applications
		WHERE job_seeker_id = $1
	`
	if err := r.db.GetContext(ctx, &d, query, seekerID); err != nil {
		return nil, fmt.Errorf("application repository: seeker dashboard %w", err)
	}
	return &d, nil
}

// InTx выполняет fn в транзакции; ошибка fn откатывает все изменения.
func (r *ApplicationRepository) InTx(ctx context.Context, fn func(tx domainrepo.LifecycleTx) error) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		return fn(&lifecycleTx{tx: tx})
	})
}

// lifecycleTx реализует domainrepo.LifecycleTx поверх *sqlx.Tx.
type lifecycleTx struct {
	tx *sqlx.Tx
}

func (t *lifecycleTx) LockJobSeeker(ctx context.Context, id uuid.UUID) (*models.JobSeeker, error) {
	return common.LockByID[models.JobSeeker](ctx, t.tx, "job_seekers", id, ErrJobSeekerNotFound)
}

func (t *lifecycleTx) LockPosting(ctx context.Context, id uuid.UUID) (*models.JobPosting, error) {
	return common.LockByID[models.JobPosting](ctx, t.tx, "job_postings", id, ErrPostingNotFound)
}

func (t *lifecycleTx) LockApplication(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	return common.LockByID[models.Application](ctx, t.tx, "applications", id, ErrApplicationNotFound)
}

func (t *lifecycleTx) LockScheduleOnDate(ctx context.Context, seekerID uuid.UUID, date time.Time, excludeID uuid.UUID) ([]models.ScheduledApplication, error) {
	query := `
		SELECT a.id, a.posting_id, a.status, p.date, p.start_time, p.end_time
		FROM applications a
		JOIN job_postings p ON p.id = a.posting_id
		WHERE a.job_seeker_id = $1
			AND a.id <> $2
			AND a.status IN ('pending', 'accepted')
			AND p.status NOT IN ('cancelled', 'completed')
			AND p.date = $3
		ORDER BY a.applied_at
		FOR UPDATE OF a
	`

	schedule := []models.ScheduledApplication{}
	if err := t.tx.SelectContext(ctx, &schedule, query, seekerID, excludeID, date.Format(time.DateOnly)); err != nil {
		return nil, fmt.Errorf("application repository: lock schedule %w", err)
	}
	return schedule, nil
}

func (t *lifecycleTx) SaveApplication(ctx context.Context, app *models.Application) error {
	query := `
		UPDATE applications
		SET status = $2, responded_at = $3, late_cancellation = $4,
			confirmed_by_company = $5, attended = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	if err := t.tx.QueryRowxContext(ctx, query,
		app.ID, app.Status, app.RespondedAt, app.LateCancellation, app.ConfirmedByCompany, app.Attended,
	).Scan(&app.UpdatedAt); err != nil {
		if isNoRows(err) {
			return ErrApplicationNotFound
		}
		return fmt.Errorf("application repository: save %w", err)
	}
	return nil
}

func (t *lifecycleTx) CancelApplications(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	query := `
		UPDATE applications
		SET status = 'cancelled', responded_at = $2, updated_at = NOW()
		WHERE id = ANY($1) AND status = 'pending'
	`
	if _, err := t.tx.ExecContext(ctx, query, pq.Array(ids), at); err != nil {
		return fmt.Errorf("application repository: cancel conflicting %w", err)
	}
	return nil
}

func (t *lifecycleTx) SetFilledSlots(ctx context.Context, postingID uuid.UUID, filled int) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE job_postings SET filled_slots = $2, updated_at = NOW() WHERE id = $1`, postingID, filled)
	if err != nil {
		return fmt.Errorf("application repository: set filled slots %w", err)
	}
	return common.ExpectAffected(res, ErrPostingNotFound)
}

func (t *lifecycleTx) IncrementTotalJobs(ctx context.Context, seekerID uuid.UUID) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE job_seekers SET total_jobs = total_jobs + 1, updated_at = NOW() WHERE id = $1`, seekerID)
	if err != nil {
		return fmt.Errorf("application repository: increment total jobs %w", err)
	}
	return common.ExpectAffected(res, ErrJobSeekerNotFound)
}
