package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/extrasite-backend/internal/cache"
	"github.com/ignatzorin/extrasite-backend/internal/domain/fee"
	"github.com/ignatzorin/extrasite-backend/internal/domain/lifecycle"
	domainrepo "github.com/ignatzorin/extrasite-backend/internal/domain/repository"
	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/extrasite-backend/internal/logger"
	"github.com/ignatzorin/extrasite-backend/internal/metrics"
	"github.com/ignatzorin/extrasite-backend/internal/models"
	"github.com/ignatzorin/extrasite-backend/internal/notify"
	"github.com/ignatzorin/extrasite-backend/internal/pkg/apperror"
	"github.com/ignatzorin/extrasite-backend/internal/validation"
)

// ApplicationRepository - чтение и создание candidaturas вне транзакций жизненного цикла.
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	GetView(ctx context.Context, id uuid.UUID) (*models.ApplicationView, error)
	ListBySeeker(ctx context.Context, seekerID uuid.UUID) ([]models.ApplicationView, error)
	ListByPosting(ctx context.Context, postingID uuid.UUID) ([]models.ApplicationView, error)
}

type PostingReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.JobPosting, error)
	GetView(ctx context.Context, id uuid.UUID) (*models.JobPostingView, error)
}

type JobSeekerReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.JobSeeker, error)
}

type CompanyReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
}

// ApplicationService - жизненный цикл candidatura: отклик, принятие, отказ, отмена, явка.
type ApplicationService struct {
	store     domainrepo.LifecycleStore
	apps      ApplicationRepository
	postings  PostingReader
	seekers   JobSeekerReader
	companies CompanyReader
	settings  SettingsProvider
	calendar  Calendar

	mailer Mailer
	inbox  Inbox
	cache  cache.Store
}

// NewApplicationService создаёт сервис. Уведомления и кэш подключаются сеттерами.
func NewApplicationService(
	store domainrepo.LifecycleStore,
	apps ApplicationRepository,
	postings PostingReader,
	seekers JobSeekerReader,
	companies CompanyReader,
	settings SettingsProvider,
	calendar Calendar,
) *ApplicationService {
	return &ApplicationService{
		store:     store,
		apps:      apps,
		postings:  postings,
		seekers:   seekers,
		companies: companies,
		settings:  settings,
		calendar:  calendar,
		mailer:    noopMailer{},
		inbox:     noopInbox{},
	}
}

func (s *ApplicationService) SetMailer(m Mailer) { s.mailer = m }

func (s *ApplicationService) SetInbox(i Inbox) { s.inbox = i }

func (s *ApplicationService) SetCache(c cache.Store) { s.cache = c }

// Apply создаёт pending candidatura соискателя на открытую вакансию.
func (s *ApplicationService) Apply(ctx context.Context, actor vo.Actor, postingID uuid.UUID, message *string) (*models.Application, error) {
	app, err := s.apply(ctx, actor, postingID, message)
	metrics.ObserveTransition("apply", err)
	return app, err
}

func (s *ApplicationService) apply(ctx context.Context, actor vo.Actor, postingID uuid.UUID, message *string) (*models.Application, error) {
	if !actor.Is(vo.RoleJobSeeker) {
		return nil, apperror.ErrForbidden
	}
	if message != nil {
		trimmed := strings.TrimSpace(*message)
		if err := validation.ValidateLength("mensagem", trimmed, 0, validation.MaxMessageLength); err != nil {
			return nil, validationError(err)
		}
		if trimmed == "" {
			message = nil
		} else {
			message = &trimmed
		}
	}

	seeker, err := s.seekers.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, translate(err)
	}
	if seeker.Status != vo.SeekerActive {
		return nil, apperror.ErrAccountSuspended
	}

	posting, err := s.postings.GetView(ctx, postingID)
	if err != nil {
		return nil, translate(err)
	}
	if posting.Status != vo.PostingOpen || !posting.StartsAt(s.calendar.Loc).After(s.calendar.Time()) {
		return nil, apperror.ErrPostingNotOpen
	}
	if posting.AvailableSlots() <= 0 {
		return nil, apperror.ErrNoSlotsLeft
	}

	app := &models.Application{PostingID: posting.ID, JobSeekerID: seeker.ID, Message: message}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, translate(err)
	}

	s.log(app).Info("application submitted")

	s.mailer.Notify(seeker.Email, notify.KindApplicationSent, map[string]any{
		"Name":    seeker.Name,
		"Title":   posting.Title,
		"Company": posting.CompanyName,
		"Date":    formatDate(posting.Date),
		"Pay":     s.netPay(posting.PayPerSlot),
	})
	if company, err := s.companies.GetByID(ctx, posting.CompanyID); err == nil {
		s.mailer.Notify(company.Email, notify.KindNewApplication, map[string]any{
			"Company": company.TradeName,
			"Name":    seeker.Name,
			"Title":   posting.Title,
		})
	}
	s.inbox.Push(posting.CompanyID, EventNewApplication, map[string]any{
		"application_id": app.ID,
		"posting_id":     posting.ID,
		"job_seeker":     seeker.Name,
	})

	return app, nil
}

// AcceptResult - принятая candidatura и pending, отменённые из-за пересечения по времени.
type AcceptResult struct {
	Application        *models.Application `json:"application"`
	ConflictsCancelled []uuid.UUID         `json:"conflicts_cancelled"`
}

// Accept принимает candidatura, занимает слот и отменяет пересекающиеся pending соискателя.
// Всё выполняется в одной транзакции.
func (s *ApplicationService) Accept(ctx context.Context, actor vo.Actor, applicationID uuid.UUID) (*AcceptResult, error) {
	var (
		result  AcceptResult
		seeker  *models.JobSeeker
		posting *models.JobPosting
	)

	err := withLockedApplication(ctx, s.store, applicationID, func(tx domainrepo.LifecycleTx, locked lockedApplication) error {
		if !ownsPosting(actor, locked.posting) {
			return apperror.ErrForbidden
		}

		now := s.calendar.Time()
		if err := lifecycle.Accept(locked.app, locked.posting, now); err != nil {
			return err
		}

		schedule, err := tx.LockScheduleOnDate(ctx, locked.seeker.ID, locked.posting.Date, locked.app.ID)
		if err != nil {
			return err
		}
		cancelIDs, clash := lifecycle.Conflicts(locked.posting.Window(), schedule)
		if clash {
			return apperror.ErrScheduleConflict
		}

		if err := tx.SaveApplication(ctx, locked.app); err != nil {
			return err
		}
		if err := tx.SetFilledSlots(ctx, locked.posting.ID, locked.posting.FilledSlots); err != nil {
			return err
		}
		if err := tx.CancelApplications(ctx, cancelIDs, now); err != nil {
			return err
		}

		result = AcceptResult{Application: locked.app, ConflictsCancelled: cancelIDs}
		seeker, posting = locked.seeker, locked.posting
		return nil
	})
	metrics.ObserveTransition("accept", err)
	if err != nil {
		return nil, err
	}

	if n := len(result.ConflictsCancelled); n > 0 {
		metrics.ConflictCancellations.Add(float64(n))
	}
	s.log(result.Application).WithField("conflicts_cancelled", len(result.ConflictsCancelled)).Info("application accepted")
	s.invalidateBoard(ctx)

	data := map[string]any{
		"Name":    seeker.Name,
		"Title":   posting.Title,
		"Date":    formatDate(posting.Date),
		"Window":  posting.Window().String(),
		"Address": posting.Address,
		"Pay":     s.netPay(posting.PayPerSlot),
		"Company": "",
	}
	if company, err := s.companies.GetByID(ctx, posting.CompanyID); err == nil {
		data["Company"] = company.TradeName
	}
	s.mailer.Notify(seeker.Email, notify.KindApplicationAccept, data)
	s.inbox.Push(seeker.ID, EventApplicationAccepted, map[string]any{
		"application_id": result.Application.ID,
		"posting_id":     posting.ID,
	})
	if len(result.ConflictsCancelled) > 0 {
		s.inbox.Push(seeker.ID, EventConflictCancelled, map[string]any{
			"application_ids": result.ConflictsCancelled,
			"posting_id":      posting.ID,
		})
	}

	return &result, nil
}

// Decline отклоняет pending candidatura.
func (s *ApplicationService) Decline(ctx context.Context, actor vo.Actor, applicationID uuid.UUID) (*models.Application, error) {
	var (
		app     *models.Application
		seeker  *models.JobSeeker
		posting *models.JobPosting
	)

	err := withLockedApplication(ctx, s.store, applicationID, func(tx domainrepo.LifecycleTx, locked lockedApplication) error {
		if !ownsPosting(actor, locked.posting) {
			return apperror.ErrForbidden
		}
		if err := lifecycle.Decline(locked.app, s.calendar.Time()); err != nil {
			return err
		}
		if err := tx.SaveApplication(ctx, locked.app); err != nil {
			return err
		}
		app, seeker, posting = locked.app, locked.seeker, locked.posting
		return nil
	})
	metrics.ObserveTransition("decline", err)
	if err != nil {
		return nil, err
	}

	s.log(app).Info("application declined")
	s.mailer.Notify(seeker.Email, notify.KindApplicationDecline, map[string]any{
		"Name":  seeker.Name,
		"Title": posting.Title,
	})
	s.inbox.Push(seeker.ID, EventApplicationDeclined, map[string]any{
		"application_id": app.ID,
		"posting_id":     posting.ID,
	})
	return app, nil
}

// Cancel отменяет pending или accepted candidatura. Для accepted освобождается слот.
// Отменить может сам соискатель, компания-владелец вакансии или администратор.
func (s *ApplicationService) Cancel(ctx context.Context, actor vo.Actor, applicationID uuid.UUID) (*models.Application, error) {
	var (
		app     *models.Application
		posting *models.JobPosting
		res     lifecycle.CancelResult
	)

	window := time.Duration(s.settings.Current().CancellationWindowHours) * time.Hour

	err := withLockedApplication(ctx, s.store, applicationID, func(tx domainrepo.LifecycleTx, locked lockedApplication) error {
		if !canCancel(actor, locked.app, locked.posting) {
			return apperror.ErrForbidden
		}

		var err error
		res, err = lifecycle.Cancel(locked.app, locked.posting, s.calendar.Time(), window, s.calendar.Loc)
		if err != nil {
			return err
		}
		if err := tx.SaveApplication(ctx, locked.app); err != nil {
			return err
		}
		if res.WasAccepted {
			if err := tx.SetFilledSlots(ctx, locked.posting.ID, locked.posting.FilledSlots); err != nil {
				return err
			}
		}
		app, posting = locked.app, locked.posting
		return nil
	})
	metrics.ObserveTransition("cancel", err)
	if err != nil {
		return nil, err
	}

	s.log(app).WithFields(logrus.Fields{
		"was_accepted": res.WasAccepted,
		"late":         res.Late,
		"by":           actor.Role,
	}).Info("application cancelled")

	if res.WasAccepted {
		s.invalidateBoard(ctx)
	}

	data := map[string]any{
		"application_id": app.ID,
		"posting_id":     posting.ID,
		"late":           res.Late,
	}
	if actor.ID != app.JobSeekerID {
		s.inbox.Push(app.JobSeekerID, EventApplicationCancelled, data)
	}
	if actor.ID != posting.CompanyID {
		s.inbox.Push(posting.CompanyID, EventApplicationCancelled, data)
	}
	return app, nil
}

// ConfirmAttendance - компания отмечает, вышел ли соискатель на смену. Отметка делается один раз.
func (s *ApplicationService) ConfirmAttendance(ctx context.Context, actor vo.Actor, applicationID uuid.UUID, attended bool) (*models.Application, error) {
	var (
		app     *models.Application
		seeker  *models.JobSeeker
		posting *models.JobPosting
	)

	err := withLockedApplication(ctx, s.store, applicationID, func(tx domainrepo.LifecycleTx, locked lockedApplication) error {
		if !ownsPosting(actor, locked.posting) {
			return apperror.ErrForbidden
		}
		if err := lifecycle.ConfirmAttendance(locked.app, attended); err != nil {
			return err
		}
		if err := tx.SaveApplication(ctx, locked.app); err != nil {
			return err
		}
		if attended {
			if err := tx.IncrementTotalJobs(ctx, locked.seeker.ID); err != nil {
				return err
			}
		}
		app, seeker, posting = locked.app, locked.seeker, locked.posting
		return nil
	})
	metrics.ObserveTransition("confirm_attendance", err)
	if err != nil {
		return nil, err
	}

	s.log(app).WithField("attended", attended).Info("attendance confirmed")

	if attended {
		netPay := s.netPay(posting.PayPerSlot)
		s.mailer.Notify(seeker.Email, notify.KindJobConfirmed, map[string]any{
			"Name":   seeker.Name,
			"Title":  posting.Title,
			"NetPay": netPay,
		})
		s.inbox.Push(seeker.ID, EventAttendanceConfirmed, map[string]any{
			"application_id": app.ID,
			"posting_id":     posting.ID,
			"net_pay":        netPay,
		})
	}
	return app, nil
}

// netPay - сколько соискатель получит за слот при текущей комиссии.
func (s *ApplicationService) netPay(gross float64) float64 {
	return fee.NetPay(gross, s.settings.Current().TakeRate)
}

// ListMine - candidaturas текущего соискателя.
func (s *ApplicationService) ListMine(ctx context.Context, actor vo.Actor) ([]models.ApplicationView, error) {
	if !actor.Is(vo.RoleJobSeeker) {
		return nil, apperror.ErrForbidden
	}
	views, err := s.apps.ListBySeeker(ctx, actor.ID)
	return views, translate(err)
}

// ListForPosting - candidaturas вакансии для компании-владельца или администратора.
func (s *ApplicationService) ListForPosting(ctx context.Context, actor vo.Actor, postingID uuid.UUID) ([]models.ApplicationView, error) {
	posting, err := s.postings.GetByID(ctx, postingID)
	if err != nil {
		return nil, translate(err)
	}
	if !ownsPosting(actor, posting) && !actor.Is(vo.RoleAdmin) {
		return nil, apperror.ErrForbidden
	}
	views, err := s.apps.ListByPosting(ctx, postingID)
	return views, translate(err)
}

// Get возвращает candidatura участнику или администратору.
func (s *ApplicationService) Get(ctx context.Context, actor vo.Actor, applicationID uuid.UUID) (*models.ApplicationView, error) {
	view, err := s.apps.GetView(ctx, applicationID)
	if err != nil {
		return nil, translate(err)
	}
	switch {
	case actor.Is(vo.RoleAdmin),
		actor.Is(vo.RoleJobSeeker) && actor.ID == view.JobSeekerID,
		actor.Is(vo.RoleCompany) && actor.ID == view.CompanyID:
		return view, nil
	}
	return nil, apperror.ErrForbidden
}

func (s *ApplicationService) invalidateBoard(ctx context.Context) {
	if s.cache != nil {
		cache.Invalidate(ctx, s.cache, cache.BoardPrefix)
	}
}

func (s *ApplicationService) log(app *models.Application) *logrus.Entry {
	return logger.Component("applications").WithFields(logrus.Fields{
		"application_id": app.ID,
		"posting_id":     app.PostingID,
		"seeker_id":      app.JobSeekerID,
	})
}

func ownsPosting(actor vo.Actor, posting *models.JobPosting) bool {
	return actor.Is(vo.RoleCompany) && posting.CompanyID == actor.ID
}

func canCancel(actor vo.Actor, app *models.Application, posting *models.JobPosting) bool {
	switch actor.Role {
	case vo.RoleJobSeeker:
		return app.JobSeekerID == actor.ID
	case vo.RoleCompany:
		return posting.CompanyID == actor.ID
	case vo.RoleAdmin:
		return true
	}
	return false
}

func formatDate(d time.Time) string {
	return d.Format("02/01/2006")
}
