package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/extrasite-backend/internal/cache"
	"github.com/ignatzorin/extrasite-backend/internal/domain/fee"
	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/extrasite-backend/internal/logger"
	"github.com/ignatzorin/extrasite-backend/internal/models"
	"github.com/ignatzorin/extrasite-backend/internal/pkg/apperror"
	"github.com/ignatzorin/extrasite-backend/internal/validation"
)

type PostingRepository interface {
	Create(ctx context.Context, p *models.JobPosting) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.JobPosting, error)
	GetView(ctx context.Context, id uuid.UUID) (*models.JobPostingView, error)
	ListBoard(ctx context.Context, f models.JobBoardFilter) ([]models.JobPostingView, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.JobPostingView, error)
	ListAll(ctx context.Context, status *vo.PostingStatus, limit, offset int) ([]models.JobPostingView, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from []vo.PostingStatus, to vo.PostingStatus) (*models.JobPosting, error)
}

// CreatePostingInput - данные новой вакансии в том виде, как приходят от клиента.
type CreatePostingInput struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Requirements *string `json:"requirements"`
	Address      string  `json:"address"`
	City         string  `json:"city"`
	Date         string  `json:"date"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	PayPerSlot   float64 `json:"pay_per_slot"`
	TotalSlots   int     `json:"total_slots"`
}

// PostingService - публикация вакансий и мурал.
type PostingService struct {
	repo      PostingRepository
	companies CompanyReader
	settings  SettingsProvider
	calendar  Calendar
	cache     cache.Store
	cacheTTL  time.Duration
}

func NewPostingService(repo PostingRepository, companies CompanyReader, settings SettingsProvider, calendar Calendar, store cache.Store, cacheTTL time.Duration) *PostingService {
	return &PostingService{
		repo:      repo,
		companies: companies,
		settings:  settings,
		calendar:  calendar,
		cache:     store,
		cacheTTL:  cacheTTL,
	}
}

// Create публикует вакансию активной компании со статусом open.
func (s *PostingService) Create(ctx context.Context, actor vo.Actor, in CreatePostingInput) (*models.JobPosting, error) {
	if !actor.Is(vo.RoleCompany) {
		return nil, apperror.ErrForbidden
	}

	company, err := s.companies.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, translate(err)
	}
	if !company.IsActive() {
		return nil, apperror.ErrCompanyNotActive
	}

	posting, err := s.buildPosting(in)
	if err != nil {
		return nil, err
	}
	posting.CompanyID = company.ID
	if posting.City == "" {
		posting.City = company.City
	}

	if err := s.repo.Create(ctx, posting); err != nil {
		return nil, translate(err)
	}

	logger.Component("postings").WithFields(logrus.Fields{
		"posting_id": posting.ID,
		"company_id": company.ID,
		"date":       posting.Date.Format(time.DateOnly),
		"slots":      posting.TotalSlots,
		"pay":        vo.Money{Amount: posting.PayPerSlot, Currency: vo.CurrencyBRL}.String(),
	}).Info("posting created")

	s.invalidateBoard(ctx)
	return posting, nil
}

func (s *PostingService) buildPosting(in CreatePostingInput) (*models.JobPosting, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	address := strings.TrimSpace(in.Address)

	if err := firstError(
		validation.ValidateLength("título", title, validation.MinTitleLength, validation.MaxTitleLength),
		validation.ValidateLength("descrição", description, validation.MinDescriptionLength, validation.MaxDescriptionLength),
		validation.ValidateNonEmpty("endereço", address),
		validation.ValidateOptional("requisitos", in.Requirements, validation.MaxDescriptionLength),
	); err != nil {
		return nil, validationError(err)
	}

	category, err := vo.NewCategory(in.Category)
	if err != nil {
		return nil, err
	}

	date, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(in.Date), s.calendar.Loc)
	if err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "data inválida, use AAAA-MM-DD")
	}
	if date.Before(s.calendar.Today()) {
		return nil, apperror.New(apperror.ErrCodeValidation, "a data do trabalho não pode estar no passado")
	}

	window, err := parseWindow(in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}

	if in.TotalSlots < 1 {
		return nil, apperror.New(apperror.ErrCodeValidation, "o número de vagas deve ser pelo menos 1")
	}
	pay, err := vo.NewPayment(in.PayPerSlot)
	if err != nil {
		return nil, err
	}

	suggested, err := fee.SuggestedValue(category, window.DurationHours(), s.settings.Current().Fee().Rates)
	if err != nil {
		return nil, err
	}

	return &models.JobPosting{
		Title:          title,
		Description:    description,
		Category:       category,
		Requirements:   trimOptional(in.Requirements),
		Address:        address,
		City:           strings.TrimSpace(in.City),
		Date:           date,
		StartTime:      window.Start,
		EndTime:        window.End,
		PayPerSlot:     pay.Amount,
		SuggestedValue: &suggested,
		TotalSlots:     in.TotalSlots,
		Status:         vo.PostingOpen,
	}, nil
}

// BoardQuery - параметры мурала из строки запроса.
type BoardQuery struct {
	Category string
	City     string
	Limit    int
	Offset   int
}

// ListBoard - открытые вакансии со свободными местами начиная с сегодняшнего дня.
func (s *PostingService) ListBoard(ctx context.Context, q BoardQuery) ([]models.JobPostingView, error) {
	filter := models.JobBoardFilter{From: s.calendar.Today()}
	filter.Limit, filter.Offset = normalizePage(q.Limit, q.Offset)

	if c := strings.TrimSpace(q.Category); c != "" {
		category, err := vo.NewCategory(c)
		if err != nil {
			return nil, err
		}
		filter.Category = &category
	}
	if city := strings.TrimSpace(q.City); city != "" {
		filter.City = &city
	}

	load := func() ([]models.JobPostingView, error) {
		return s.repo.ListBoard(ctx, filter)
	}

	var (
		views []models.JobPostingView
		err   error
	)
	if s.cache != nil {
		views, err = cache.GetOrSet(ctx, s.cache, cache.BoardKey(filter), s.cacheTTL, load)
	} else {
		views, err = load()
	}
	if err != nil {
		return nil, translate(err)
	}

	takeRate := s.settings.Current().TakeRate
	for i := range views {
		enrich(&views[i], takeRate)
	}
	return views, nil
}

// Get - карточка вакансии с расчётом выплаты по текущей комиссии.
func (s *PostingService) Get(ctx context.Context, id uuid.UUID) (*models.JobPostingView, error) {
	view, err := s.repo.GetView(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	enrich(view, s.settings.Current().TakeRate)
	return view, nil
}

// ListByCompany - все вакансии компании текущего пользователя.
func (s *PostingService) ListByCompany(ctx context.Context, actor vo.Actor) ([]models.JobPostingView, error) {
	if !actor.Is(vo.RoleCompany) {
		return nil, apperror.ErrForbidden
	}
	views, err := s.repo.ListByCompany(ctx, actor.ID)
	if err != nil {
		return nil, translate(err)
	}
	takeRate := s.settings.Current().TakeRate
	for i := range views {
		enrich(&views[i], takeRate)
	}
	return views, nil
}

// ListAll - вакансии для администратора, с фильтром по статусу.
func (s *PostingService) ListAll(ctx context.Context, status string, limit, offset int) ([]models.JobPostingView, error) {
	var filter *vo.PostingStatus
	if status != "" {
		st, err := vo.NewPostingStatus(status)
		if err != nil {
			return nil, err
		}
		filter = &st
	}
	limit, offset = normalizePage(limit, offset)
	views, err := s.repo.ListAll(ctx, filter, limit, offset)
	return views, translate(err)
}

// Complete - компания закрывает свою вакансию после смены.
func (s *PostingService) Complete(ctx context.Context, actor vo.Actor, id uuid.UUID) (*models.JobPosting, error) {
	posting, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if !ownsPosting(actor, posting) {
		return nil, apperror.ErrForbidden
	}
	return s.transition(ctx, id, []vo.PostingStatus{vo.PostingOpen, vo.PostingInProgress}, vo.PostingCompleted)
}

// AdminCancel отменяет вакансию в любом нетерминальном статусе.
func (s *PostingService) AdminCancel(ctx context.Context, actor vo.Actor, id uuid.UUID) (*models.JobPosting, error) {
	if !actor.Is(vo.RoleAdmin) {
		return nil, apperror.ErrForbidden
	}
	from := []vo.PostingStatus{vo.PostingDraft, vo.PostingOpen, vo.PostingInProgress}
	return s.transition(ctx, id, from, vo.PostingCancelled)
}

func (s *PostingService) transition(ctx context.Context, id uuid.UUID, from []vo.PostingStatus, to vo.PostingStatus) (*models.JobPosting, error) {
	posting, err := s.repo.TransitionStatus(ctx, id, from, to)
	if err != nil {
		return nil, translate(err)
	}
	logger.Component("postings").WithFields(logrus.Fields{
		"posting_id": id,
		"status":     to,
	}).Info("posting status changed")
	s.invalidateBoard(ctx)
	return posting, nil
}

// QuoteInput - параметры расчёта из строки запроса.
type QuoteInput struct {
	Category  string
	StartTime string
	EndTime   string
	Pay       float64
}

// Quote считает рекомендуемую оплату и разбивку по комиссии без сохранения.
func (s *PostingService) Quote(in QuoteInput) (fee.Quote, error) {
	category, err := vo.NewCategory(in.Category)
	if err != nil {
		return fee.Quote{}, err
	}
	window, err := parseWindow(in.StartTime, in.EndTime)
	if err != nil {
		return fee.Quote{}, err
	}
	pay, err := vo.NewMoney(in.Pay, vo.CurrencyBRL)
	if err != nil {
		return fee.Quote{}, err
	}
	return fee.NewQuote(category, window, pay.Amount, s.settings.Current().Fee())
}

func (s *PostingService) invalidateBoard(ctx context.Context) {
	if s.cache != nil {
		cache.Invalidate(ctx, s.cache, cache.BoardPrefix)
	}
}

func parseWindow(start, end string) (vo.TimeWindow, error) {
	from, err := vo.ParseTimeOfDay(start)
	if err != nil {
		return vo.TimeWindow{}, err
	}
	to, err := vo.ParseTimeOfDay(end)
	if err != nil {
		return vo.TimeWindow{}, err
	}
	return vo.NewTimeWindow(from, to)
}

func enrich(v *models.JobPostingView, takeRate float64) {
	v.CategoryDisplay = v.Category.DisplayName()
	v.NetPay = vo.Money{Amount: fee.NetPay(v.PayPerSlot, takeRate)}.Rounded()
	v.PlatformFee = vo.Money{Amount: fee.PlatformFee(v.PayPerSlot, takeRate)}.Rounded()
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
