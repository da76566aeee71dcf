package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/extrasite-backend/internal/logger"
	"github.com/ignatzorin/extrasite-backend/internal/models"
	"github.com/ignatzorin/extrasite-backend/internal/notify"
	"github.com/ignatzorin/extrasite-backend/internal/pkg/apperror"
	"github.com/ignatzorin/extrasite-backend/internal/validation"
)

type CompanyAdministration interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	Approve(ctx context.Context, id, adminID uuid.UUID, at time.Time) (*models.Company, error)
	Reject(ctx context.Context, id uuid.UUID, reason string) (*models.Company, error)
	Suspend(ctx context.Context, id uuid.UUID) (*models.Company, error)
	List(ctx context.Context, status *vo.CompanyStatus, limit, offset int) ([]models.Company, error)
	CountByStatus(ctx context.Context, status vo.CompanyStatus) (int, error)
}

type JobSeekerAdministration interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.JobSeeker, error)
	SetStatus(ctx context.Context, id uuid.UUID, status vo.SeekerStatus) (*models.JobSeeker, error)
	List(ctx context.Context, status *vo.SeekerStatus, limit, offset int) ([]models.JobSeeker, error)
	Count(ctx context.Context) (int, error)
}

// DashboardSource - агрегаты по вакансиям и candidaturas.
type DashboardSource interface {
	Counts(ctx context.Context) (total, open int, err error)
	CompanyDashboard(ctx context.Context, companyID uuid.UUID) (*models.CompanyDashboard, error)
}

type SeekerDashboardSource interface {
	SeekerDashboard(ctx context.Context, seekerID uuid.UUID) (*models.JobSeekerDashboard, error)
}

// AdminService - модерация компаний и соискателей, панели счётчиков.
type AdminService struct {
	companies CompanyAdministration
	seekers   JobSeekerAdministration
	postings  DashboardSource
	apps      SeekerDashboardSource
	calendar  Calendar
	mailer    Mailer
	inbox     Inbox
}

func NewAdminService(companies CompanyAdministration, seekers JobSeekerAdministration, postings DashboardSource, apps SeekerDashboardSource, calendar Calendar) *AdminService {
	return &AdminService{
		companies: companies,
		seekers:   seekers,
		postings:  postings,
		apps:      apps,
		calendar:  calendar,
		mailer:    noopMailer{},
		inbox:     noopInbox{},
	}
}

func (s *AdminService) SetMailer(m Mailer) { s.mailer = m }

func (s *AdminService) SetInbox(i Inbox) { s.inbox = i }

// ListCompanies - компании с необязательным фильтром по статусу.
func (s *AdminService) ListCompanies(ctx context.Context, status string, limit, offset int) ([]models.Company, error) {
	var filter *vo.CompanyStatus
	if status != "" {
		st, err := vo.NewCompanyStatus(status)
		if err != nil {
			return nil, err
		}
		filter = &st
	}
	limit, offset = normalizePage(limit, offset)
	companies, err := s.companies.List(ctx, filter, limit, offset)
	return companies, translate(err)
}

// ApproveCompany активирует компанию и сообщает ей об этом.
func (s *AdminService) ApproveCompany(ctx context.Context, actor vo.Actor, id uuid.UUID) (*models.Company, error) {
	if !actor.Is(vo.RoleAdmin) {
		return nil, apperror.ErrForbidden
	}
	company, err := s.companies.Approve(ctx, id, actor.ID, s.calendar.Time())
	if err != nil {
		return nil, translate(err)
	}

	s.log(actor, company.ID).Info("company approved")
	s.mailer.Notify(company.Email, notify.KindCompanyApproved, map[string]any{"Name": company.TradeName})
	s.inbox.Push(company.ID, EventCompanyApproved, map[string]any{"company_id": company.ID})
	return company, nil
}

// RejectCompany приостанавливает компанию с обязательной причиной.
func (s *AdminService) RejectCompany(ctx context.Context, actor vo.Actor, id uuid.UUID, reason string) (*models.Company, error) {
	if !actor.Is(vo.RoleAdmin) {
		return nil, apperror.ErrForbidden
	}
	reason = strings.TrimSpace(reason)
	if err := validation.ValidateLength("motivo", reason, 1, validation.MaxReasonLength); err != nil {
		return nil, validationError(err)
	}
	company, err := s.companies.Reject(ctx, id, reason)
	if err != nil {
		return nil, translate(err)
	}
	s.log(actor, company.ID).WithField("reason", reason).Info("company rejected")
	return company, nil
}

func (s *AdminService) SuspendCompany(ctx context.Context, actor vo.Actor, id uuid.UUID) (*models.Company, error) {
	if !actor.Is(vo.RoleAdmin) {
		return nil, apperror.ErrForbidden
	}
	company, err := s.companies.Suspend(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	s.log(actor, company.ID).Info("company suspended")
	return company, nil
}

func (s *AdminService) ListJobSeekers(ctx context.Context, status string, limit, offset int) ([]models.JobSeeker, error) {
	var filter *vo.SeekerStatus
	if status != "" {
		st, err := vo.NewSeekerStatus(status)
		if err != nil {
			return nil, err
		}
		filter = &st
	}
	limit, offset = normalizePage(limit, offset)
	seekers, err := s.seekers.List(ctx, filter, limit, offset)
	return seekers, translate(err)
}

// SetJobSeekerStatus блокирует или разблокирует соискателя.
func (s *AdminService) SetJobSeekerStatus(ctx context.Context, actor vo.Actor, id uuid.UUID, status vo.SeekerStatus) (*models.JobSeeker, error) {
	if !actor.Is(vo.RoleAdmin) {
		return nil, apperror.ErrForbidden
	}
	if !status.IsValid() {
		return nil, apperror.New(apperror.ErrCodeValidation, "status inválido")
	}
	seeker, err := s.seekers.SetStatus(ctx, id, status)
	if err != nil {
		return nil, translate(err)
	}
	s.log(actor, seeker.ID).WithField("status", status).Info("job seeker status changed")
	return seeker, nil
}

// AdminDashboard - общие счётчики и очередь компаний на одобрение.
func (s *AdminService) AdminDashboard(ctx context.Context) (*models.AdminDashboard, error) {
	var (
		d   models.AdminDashboard
		err error
	)
	if d.CompaniesPending, err = s.companies.CountByStatus(ctx, vo.CompanyPending); err != nil {
		return nil, translate(err)
	}
	if d.CompaniesActive, err = s.companies.CountByStatus(ctx, vo.CompanyActive); err != nil {
		return nil, translate(err)
	}
	if d.JobSeekers, err = s.seekers.Count(ctx); err != nil {
		return nil, translate(err)
	}
	if d.PostingsTotal, d.PostingsOpen, err = s.postings.Counts(ctx); err != nil {
		return nil, translate(err)
	}

	pending := vo.CompanyPending
	if d.PendingApprovals, err = s.companies.List(ctx, &pending, 5, 0); err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (s *AdminService) CompanyDashboard(ctx context.Context, actor vo.Actor) (*models.CompanyDashboard, error) {
	if !actor.Is(vo.RoleCompany) {
		return nil, apperror.ErrForbidden
	}
	d, err := s.postings.CompanyDashboard(ctx, actor.ID)
	return d, translate(err)
}

// JobSeekerDashboard - candidaturas по статусам, рейтинг и число отработанных смен.
func (s *AdminService) JobSeekerDashboard(ctx context.Context, actor vo.Actor) (*models.JobSeekerDashboard, error) {
	if !actor.Is(vo.RoleJobSeeker) {
		return nil, apperror.ErrForbidden
	}
	seeker, err := s.seekers.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, translate(err)
	}
	d, err := s.apps.SeekerDashboard(ctx, actor.ID)
	if err != nil {
		return nil, translate(err)
	}
	agg := seeker.Rating()
	d.Rating = agg.Mean()
	d.Ratings = agg.Count
	d.TotalJobs = seeker.TotalJobs
	return d, nil
}

func (s *AdminService) log(actor vo.Actor, target uuid.UUID) *logrus.Entry {
	return logger.Component("admin").WithFields(logrus.Fields{
		"admin_id": actor.ID,
		"target":   target,
	})
}
