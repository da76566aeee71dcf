// Package lifecycle содержит переходы состояний candidatura без обращения к хранилищу.
// Функции меняют переданные модели в памяти; сервис сохраняет их в той же транзакции.
package lifecycle

import (
	"time"

	"github.com/google/uuid"

	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/extrasite-backend/internal/models"
	"github.com/ignatzorin/extrasite-backend/internal/pkg/apperror"
)

// Accept переводит pending -> accepted и занимает слот вакансии.
func Accept(app *models.Application, posting *models.JobPosting, now time.Time) error {
	if app.Status != vo.ApplicationPending {
		return apperror.ErrApplicationNotPending
	}
	if posting.Status.IsTerminal() {
		return apperror.ErrPostingNotOpen
	}
	if posting.FilledSlots >= posting.TotalSlots {
		return apperror.ErrNoSlotsLeft
	}

	app.Status = vo.ApplicationAccepted
	app.RespondedAt = &now
	posting.FilledSlots++
	return nil
}

// Decline переводит pending -> declined.
func Decline(app *models.Application, now time.Time) error {
	if app.Status != vo.ApplicationPending {
		return apperror.ErrApplicationNotPending
	}
	app.Status = vo.ApplicationDeclined
	app.RespondedAt = &now
	return nil
}

// CancelResult - что изменилось при отмене.
type CancelResult struct {
	WasAccepted bool
	Late        bool
}

// Cancel переводит pending|accepted -> cancelled. Для accepted освобождает слот.
// Отмена accepted ближе чем за window до начала смены помечается как поздняя.
func Cancel(app *models.Application, posting *models.JobPosting, now time.Time, window time.Duration, loc *time.Location) (CancelResult, error) {
	if !app.Status.CanTransitionTo(vo.ApplicationCancelled) {
		return CancelResult{}, apperror.ErrApplicationNotActive
	}

	res := CancelResult{WasAccepted: app.Status == vo.ApplicationAccepted}
	if res.WasAccepted {
		if posting.FilledSlots > 0 {
			posting.FilledSlots--
		}
		res.Late = now.After(posting.StartsAt(loc).Add(-window))
	}

	app.Status = vo.ApplicationCancelled
	app.RespondedAt = &now
	app.LateCancellation = res.Late
	return res, nil
}

// ConfirmAttendance фиксирует явку (или неявку) по принятой candidatura.
func ConfirmAttendance(app *models.Application, attended bool) error {
	if app.Status != vo.ApplicationAccepted {
		return apperror.ErrNotAccepted
	}
	if app.ConfirmedByCompany {
		return apperror.ErrAlreadyConfirmed
	}
	app.ConfirmedByCompany = true
	app.Attended = &attended
	return nil
}

// Conflicts делит расписание соискателя на дату принятой вакансии.
// pending с пересекающимся окном нужно отменить; пересечение с другой accepted
// означает, что принять нельзя.
func Conflicts(accepted vo.TimeWindow, schedule []models.ScheduledApplication) (cancel []uuid.UUID, clash bool) {
	for _, other := range schedule {
		if !other.Window().Overlaps(accepted) {
			continue
		}
		switch other.Status {
		case vo.ApplicationPending:
			cancel = append(cancel, other.ID)
		case vo.ApplicationAccepted:
			clash = true
		}
	}
	return cancel, clash
}

// CheckRatable проверяет, что по candidatura можно оставить оценку.
func CheckRatable(app *models.Application) error {
	if app.Status != vo.ApplicationAccepted {
		return apperror.ErrNotAccepted
	}
	if !app.AttendanceConfirmed() {
		return apperror.ErrAttendanceNotConfirmed
	}
	return nil
}

// ValidateScore - общая оценка и детальные оценки в диапазоне 1-5.
func ValidateScore(score int, sub models.SubScores) error {
	if score < 1 || score > 5 {
		return apperror.New(apperror.ErrCodeValidation, "a nota deve ser de 1 a 5")
	}
	for _, s := range []*int{sub.Punctuality, sub.Professionalism, sub.Communication} {
		if s != nil && (*s < 1 || *s > 5) {
			return apperror.New(apperror.ErrCodeValidation, "as notas detalhadas devem ser de 1 a 5")
		}
	}
	return nil
}
