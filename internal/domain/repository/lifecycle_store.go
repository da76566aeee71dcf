package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/extrasite-backend/internal/models"
)

// LifecycleTx - операции, доступные внутри одной транзакции жизненного цикла candidatura.
// Lock* берут блокировку строки (SELECT ... FOR UPDATE) до конца транзакции.
// Порядок блокировок: соискатель -> вакансия -> candidatura.
type LifecycleTx interface {
	LockJobSeeker(ctx context.Context, id uuid.UUID) (*models.JobSeeker, error)
	LockPosting(ctx context.Context, id uuid.UUID) (*models.JobPosting, error)
	LockApplication(ctx context.Context, id uuid.UUID) (*models.Application, error)

	// LockScheduleOnDate возвращает pending и accepted candidaturas соискателя
	// на вакансии в ту же дату, кроме excludeID.
	LockScheduleOnDate(ctx context.Context, seekerID uuid.UUID, date time.Time, excludeID uuid.UUID) ([]models.ScheduledApplication, error)

	SaveApplication(ctx context.Context, app *models.Application) error
	CancelApplications(ctx context.Context, ids []uuid.UUID, at time.Time) error
	SetFilledSlots(ctx context.Context, postingID uuid.UUID, filled int) error
	IncrementTotalJobs(ctx context.Context, seekerID uuid.UUID) error

	RatingExists(ctx context.Context, applicationID uuid.UUID, raterRole vo.Role) (bool, error)
	InsertRating(ctx context.Context, rating *models.Rating) error
	// AddRatingScore прибавляет оценку к точной сумме ratee и возвращает новый агрегат.
	AddRatingScore(ctx context.Context, ratee vo.Party, score int) (models.RatingAggregate, error)
}

// LifecycleStore открывает транзакции жизненного цикла.
type LifecycleStore interface {
	GetApplication(ctx context.Context, id uuid.UUID) (*models.Application, error)
	InTx(ctx context.Context, fn func(tx LifecycleTx) error) error
}
