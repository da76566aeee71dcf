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

// ErrRatingExists - эта сторона уже оценила candidatura.
var ErrRatingExists = errors.New("rating already exists")

const uqRatingApplicationRater = "uq_ratings_application_rater"

// RatingRepository - чтение оценок. Запись идёт через транзакцию жизненного цикла.
type RatingRepository struct {
	db *sqlx.DB
}

// NewRatingRepository создаёт экземпляр репозитория.
func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// ListByRatee возвращает оценки участника, новые первыми.
func (r *RatingRepository) ListByRatee(ctx context.Context, ratee vo.Party, limit, offset int) ([]models.Rating, error) {
	ratings := []models.Rating{}
	query := `
		SELECT * FROM ratings
		WHERE ratee_role = $1 AND ratee_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	if err := r.db.SelectContext(ctx, &ratings, query, ratee.Role, ratee.ID, limit, offset); err != nil {
		return nil, fmt.Errorf("rating repository: list by ratee %w", err)
	}
	return ratings, nil
}

// ListByApplication возвращает оценки обеих сторон по candidatura.
func (r *RatingRepository) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]models.Rating, error) {
	ratings := []models.Rating{}
	if err := r.db.SelectContext(ctx, &ratings,
		`SELECT * FROM ratings WHERE application_id = $1 ORDER BY created_at`, applicationID); err != nil {
		return nil, fmt.Errorf("rating repository: list by application %w", err)
	}
	return ratings, nil
}

func (t *lifecycleTx) RatingExists(ctx context.Context, applicationID uuid.UUID, raterRole vo.Role) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM ratings WHERE application_id = $1 AND rater_role = $2)`
	if err := t.tx.GetContext(ctx, &exists, query, applicationID, raterRole); err != nil {
		return false, fmt.Errorf("rating repository: exists %w", err)
	}
	return exists, nil
}

func (t *lifecycleTx) InsertRating(ctx context.Context, rating *models.Rating) error {
	query := `
		INSERT INTO ratings (
			application_id, posting_id, rater_role, rater_id, ratee_role, ratee_id,
			score, comment, punctuality, professionalism, communication
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`

	if err := t.tx.QueryRowxContext(ctx, query,
		rating.ApplicationID, rating.PostingID, rating.RaterRole, rating.RaterID, rating.RateeRole, rating.RateeID,
		rating.Score, rating.Comment, rating.Punctuality, rating.Professionalism, rating.Communication,
	).Scan(&rating.ID, &rating.CreatedAt); err != nil {
		if common.IsUniqueViolation(err, uqRatingApplicationRater) {
			return ErrRatingExists
		}
		return fmt.Errorf("rating repository: insert %w", err)
	}
	return nil
}

// AddRatingScore держит точную целочисленную сумму, среднее = sum / count.
func (t *lifecycleTx) AddRatingScore(ctx context.Context, ratee vo.Party, score int) (models.RatingAggregate, error) {
	var table string
	var notFound error
	switch ratee.Role {
	case vo.RoleJobSeeker:
		table, notFound = "job_seekers", ErrJobSeekerNotFound
	case vo.RoleCompany:
		table, notFound = "companies", ErrCompanyNotFound
	default:
		return models.RatingAggregate{}, fmt.Errorf("rating repository: unsupported ratee role %q", ratee.Role)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET rating_sum = rating_sum + $2, rating_count = rating_count + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING rating_sum, rating_count
	`, table)

	var agg models.RatingAggregate
	if err := t.tx.QueryRowxContext(ctx, query, ratee.ID, score).Scan(&agg.Sum, &agg.Count); err != nil {
		if isNoRows(err) {
			return models.RatingAggregate{}, notFound
		}
		return models.RatingAggregate{}, fmt.Errorf("rating repository: add score %w", err)
	}
	return agg, nil
}
