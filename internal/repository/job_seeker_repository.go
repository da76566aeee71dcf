package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/extrasite-backend/internal/models"
	"github.com/ignatzorin/extrasite-backend/internal/repository/common"
)

var (
	// ErrJobSeekerNotFound возвращается, когда соискатель не найден.
	ErrJobSeekerNotFound = errors.New("job seeker not found")
	// ErrEmailExists - email уже занят.
	ErrEmailExists = errors.New("email already exists")
)

// JobSeekerRepository отвечает за таблицу job_seekers.
type JobSeekerRepository struct {
	db *sqlx.DB
}

// NewJobSeekerRepository создаёт экземпляр репозитория.
func NewJobSeekerRepository(db *sqlx.DB) *JobSeekerRepository {
	return &JobSeekerRepository{db: db}
}

// Create регистрирует соискателя.
func (r *JobSeekerRepository) Create(ctx context.Context, s *models.JobSeeker) error {
	query := `
		INSERT INTO job_seekers (name, email, password_hash, phone, university, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	s.Status = vo.SeekerActive
	if err := r.db.QueryRowxContext(ctx, query, s.Name, s.Email, s.PasswordHash, s.Phone, s.University, s.Status).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if common.IsUniqueViolation(err, "") {
			return ErrEmailExists
		}
		return fmt.Errorf("job seeker repository: create %w", err)
	}
	return nil
}

// GetByID возвращает соискателя по идентификатору.
func (r *JobSeekerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.JobSeeker, error) {
	return common.GetByID[models.JobSeeker](ctx, r.db, "job_seekers", id, ErrJobSeekerNotFound)
}

// GetByEmail возвращает соискателя по email.
func (r *JobSeekerRepository) GetByEmail(ctx context.Context, email string) (*models.JobSeeker, error) {
	return common.GetByField[models.JobSeeker](ctx, r.db, "job_seekers", "email", email, ErrJobSeekerNotFound)
}

// UpdateProfile обновляет редактируемые поля профиля.
func (r *JobSeekerRepository) UpdateProfile(ctx context.Context, id uuid.UUID, upd models.JobSeekerProfileUpdate) (*models.JobSeeker, error) {
	query := `
		UPDATE job_seekers
		SET name = $2, phone = $3, university = $4, bio = $5, skills = $6, pix_key = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`

	var s models.JobSeeker
	if err := r.db.QueryRowxContext(ctx, query, id, upd.Name, upd.Phone, upd.University, upd.Bio, upd.Skills, upd.PixKey).
		StructScan(&s); err != nil {
		if isNoRows(err) {
			return nil, ErrJobSeekerNotFound
		}
		return nil, fmt.Errorf("job seeker repository: update profile %w", err)
	}
	return &s, nil
}

// UpdatePhoto сохраняет путь к фото и возвращает предыдущий.
func (r *JobSeekerRepository) UpdatePhoto(ctx context.Context, id uuid.UUID, path string) (*string, error) {
	var previous *string
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &previous, `SELECT photo_path FROM job_seekers WHERE id = $1 FOR UPDATE`, id); err != nil {
			if isNoRows(err) {
				return ErrJobSeekerNotFound
			}
			return err
		}
		_, err := tx.ExecContext(ctx, `UPDATE job_seekers SET photo_path = $2, updated_at = NOW() WHERE id = $1`, id, path)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrJobSeekerNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("job seeker repository: update photo %w", err)
	}
	return previous, nil
}

// SetStatus меняет статус аккаунта (active/suspended).
func (r *JobSeekerRepository) SetStatus(ctx context.Context, id uuid.UUID, status vo.SeekerStatus) (*models.JobSeeker, error) {
	var s models.JobSeeker
	if err := r.db.QueryRowxContext(ctx,
		`UPDATE job_seekers SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING *`, id, status,
	).StructScan(&s); err != nil {
		if isNoRows(err) {
			return nil, ErrJobSeekerNotFound
		}
		return nil, fmt.Errorf("job seeker repository: set status %w", err)
	}
	return &s, nil
}

// List возвращает соискателей, опционально с фильтром по статусу.
func (r *JobSeekerRepository) List(ctx context.Context, status *vo.SeekerStatus, limit, offset int) ([]models.JobSeeker, error) {
	seekers := []models.JobSeeker{}
	query := `
		SELECT * FROM job_seekers
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &seekers, query, status, limit, offset); err != nil {
		return nil, fmt.Errorf("job seeker repository: list %w", err)
	}
	return seekers, nil
}

// Count возвращает общее количество соискателей.
func (r *JobSeekerRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM job_seekers`); err != nil {
		return 0, fmt.Errorf("job seeker repository: count %w", err)
	}
	return count, nil
}
