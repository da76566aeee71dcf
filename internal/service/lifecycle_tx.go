package service

import (
	"context"

	"github.com/google/uuid"

	domainrepo "github.com/ignatzorin/extrasite-backend/internal/domain/repository"
	"github.com/ignatzorin/extrasite-backend/internal/models"
)

type lockedApplication struct {
	seeker  *models.JobSeeker
	posting *models.JobPosting
	app     *models.Application
}

// withLockedApplication блокирует строки в порядке соискатель -> вакансия -> candidatura
// и вызывает fn в той же транзакции. Порядок одинаков для всех операций жизненного цикла.
func withLockedApplication(ctx context.Context, store domainrepo.LifecycleStore, applicationID uuid.UUID, fn func(tx domainrepo.LifecycleTx, locked lockedApplication) error) error {
	ref, err := store.GetApplication(ctx, applicationID)
	if err != nil {
		return translate(err)
	}

	err = store.InTx(ctx, func(tx domainrepo.LifecycleTx) error {
		var (
			locked lockedApplication
			err    error
		)
		if locked.seeker, err = tx.LockJobSeeker(ctx, ref.JobSeekerID); err != nil {
			return err
		}
		if locked.posting, err = tx.LockPosting(ctx, ref.PostingID); err != nil {
			return err
		}
		if locked.app, err = tx.LockApplication(ctx, applicationID); err != nil {
			return err
		}
		return fn(tx, locked)
	})
	return translate(err)
}
