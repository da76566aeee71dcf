package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"

	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/extrasite-backend/internal/logger"
	"github.com/ignatzorin/extrasite-backend/internal/models"
	"github.com/ignatzorin/extrasite-backend/internal/notify"
	"github.com/ignatzorin/extrasite-backend/internal/pkg/apperror"
	"github.com/ignatzorin/extrasite-backend/internal/repository"
	"github.com/ignatzorin/extrasite-backend/internal/validation"
)

// JobSeekerAccounts описывает зависимости AuthService от таблицы соискателей.
type JobSeekerAccounts interface {
	Create(ctx context.Context, s *models.JobSeeker) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.JobSeeker, error)
	GetByEmail(ctx context.Context, email string) (*models.JobSeeker, error)
}

type CompanyAccounts interface {
	Create(ctx context.Context, c *models.Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	GetByEmail(ctx context.Context, email string) (*models.Company, error)
}

type AdminAccounts interface {
	Create(ctx context.Context, a *models.Admin) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	ActiveEmails(ctx context.Context) ([]string, error)
}

// AuthService инкапсулирует регистрацию и вход трёх типов аккаунтов.
type AuthService struct {
	seekers      JobSeekerAccounts
	companies    CompanyAccounts
	admins       AdminAccounts
	tokenManager *TokenManager
	calendar     Calendar
	mailer       Mailer
	hashCost     int
}

// RegisterJobSeekerInput содержит данные соискателя при регистрации.
type RegisterJobSeekerInput struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Phone      *string `json:"phone"`
	University *string `json:"university"`
}

// RegisterCompanyInput содержит данные компании при регистрации.
type RegisterCompanyInput struct {
	Email         string  `json:"email"`
	Password      string  `json:"password"`
	LegalName     string  `json:"razao_social"`
	TradeName     string  `json:"nome_fantasia"`
	CNPJ          string  `json:"cnpj"`
	Phone         string  `json:"phone"`
	ContactPerson string  `json:"contact_person"`
	Street        *string `json:"street"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	PostalCode    *string `json:"cep"`
}

// LoginInput содержит данные для входа.
type LoginInput struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     vo.Role `json:"role"`
}

// AuthResult возвращает итог регистрации или авторизации.
type AuthResult struct {
	Role      vo.Role     `json:"role"`
	Account   interface{} `json:"account"`
	TokenPair *TokenPair  `json:"tokens"`
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(seekers JobSeekerAccounts, companies CompanyAccounts, admins AdminAccounts, tokenManager *TokenManager, calendar Calendar) *AuthService {
	return &AuthService{
		seekers:      seekers,
		companies:    companies,
		admins:       admins,
		tokenManager: tokenManager,
		calendar:     calendar,
		mailer:       noopMailer{},
		hashCost:     bcrypt.DefaultCost,
	}
}

func (s *AuthService) SetMailer(m Mailer) { s.mailer = m }

// RegisterJobSeeker создаёт аккаунт соискателя и сразу выдаёт токены.
func (s *AuthService) RegisterJobSeeker(ctx context.Context, in RegisterJobSeekerInput) (*AuthResult, error) {
	email := validation.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)

	if err := firstError(
		validation.ValidateName("nome", name),
		validation.ValidateEmail(email),
		validation.ValidatePassword(in.Password),
		validation.ValidateOptional("universidade", in.University, validation.MaxNameLength),
	); err != nil {
		return nil, validationError(err)
	}
	if in.Phone != nil && strings.TrimSpace(*in.Phone) != "" {
		if err := validation.ValidatePhone(*in.Phone); err != nil {
			return nil, validationError(err)
		}
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	seeker := &models.JobSeeker{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Phone:        trimOptional(in.Phone),
		University:   trimOptional(in.University),
	}
	if err := s.seekers.Create(ctx, seeker); err != nil {
		return nil, translate(err)
	}

	logger.Component("auth").WithField("seeker_id", seeker.ID).Info("job seeker registered")
	s.mailer.Notify(seeker.Email, notify.KindWelcomeSeeker, map[string]any{"Name": seeker.Name})

	return s.result(vo.Actor{ID: seeker.ID, Role: vo.RoleJobSeeker}, seeker)
}

// RegisterCompany создаёт компанию в статусе pending и уведомляет администраторов.
func (s *AuthService) RegisterCompany(ctx context.Context, in RegisterCompanyInput) (*AuthResult, error) {
	email := validation.NormalizeEmail(in.Email)
	legal := strings.TrimSpace(in.LegalName)
	trade := strings.TrimSpace(in.TradeName)
	contact := strings.TrimSpace(in.ContactPerson)
	city := strings.TrimSpace(in.City)

	if err := firstError(
		validation.ValidateEmail(email),
		validation.ValidatePassword(in.Password),
		validation.ValidateName("razão social", legal),
		validation.ValidateName("nome fantasia", trade),
		validation.ValidateCNPJ(in.CNPJ),
		validation.ValidatePhone(in.Phone),
		validation.ValidateName("responsável", contact),
		validation.ValidateNonEmpty("cidade", city),
		validation.ValidateState(in.State),
	); err != nil {
		return nil, validationError(err)
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	company := &models.Company{
		Email:         email,
		PasswordHash:  hash,
		LegalName:     legal,
		TradeName:     trade,
		CNPJ:          validation.DigitsOnly(in.CNPJ),
		Phone:         validation.DigitsOnly(in.Phone),
		ContactPerson: contact,
		Street:        trimOptional(in.Street),
		City:          city,
		State:         strings.ToUpper(strings.TrimSpace(in.State)),
		PostalCode:    trimOptional(in.PostalCode),
	}
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, translate(err)
	}

	logger.Component("auth").WithField("company_id", company.ID).Info("company registered, waiting for approval")

	s.mailer.Notify(company.Email, notify.KindWelcomeCompany, map[string]any{"Name": company.TradeName})
	s.notifyAdmins(ctx, company)

	return s.result(vo.Actor{ID: company.ID, Role: vo.RoleCompany}, company)
}

func (s *AuthService) notifyAdmins(ctx context.Context, company *models.Company) {
	emails, err := s.admins.ActiveEmails(ctx)
	if err != nil {
		logger.Component("auth").WithError(err).Warn("failed to load admin emails")
		return
	}
	for _, to := range emails {
		s.mailer.Notify(to, notify.KindAdminNewCompany, map[string]any{
			"Company": company.TradeName,
			"CNPJ":    company.CNPJ,
		})
	}
}

// Login проверяет учётные данные аккаунта указанной роли и возвращает токены.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := validation.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, apperror.ErrInvalidCredentials
	}

	switch in.Role {
	case vo.RoleJobSeeker:
		seeker, err := s.seekers.GetByEmail(ctx, email)
		if err := s.checkAccount(err, func() string { return seeker.PasswordHash }, in.Password); err != nil {
			return nil, err
		}
		if seeker.Status != vo.SeekerActive {
			return nil, apperror.ErrAccountSuspended
		}
		return s.result(vo.Actor{ID: seeker.ID, Role: vo.RoleJobSeeker}, seeker)

	case vo.RoleCompany:
		company, err := s.companies.GetByEmail(ctx, email)
		if err := s.checkAccount(err, func() string { return company.PasswordHash }, in.Password); err != nil {
			return nil, err
		}
		if company.Status == vo.CompanySuspended {
			return nil, apperror.ErrAccountSuspended
		}
		return s.result(vo.Actor{ID: company.ID, Role: vo.RoleCompany}, company)

	case vo.RoleAdmin:
		admin, err := s.admins.GetByEmail(ctx, email)
		if err := s.checkAccount(err, func() string { return admin.PasswordHash }, in.Password); err != nil {
			return nil, err
		}
		if !admin.Active {
			return nil, apperror.ErrAccountSuspended
		}
		// Ошибка обновления last_login не прерывает вход
		if err := s.admins.TouchLastLogin(ctx, admin.ID, s.calendar.Time()); err != nil {
			logger.Component("auth").WithError(err).WithField("admin_id", admin.ID).Warn("failed to update last_login")
		}
		return s.result(vo.Actor{ID: admin.ID, Role: vo.RoleAdmin}, admin)
	}

	return nil, apperror.New(apperror.ErrCodeValidation, "tipo de conta inválido")
}

// checkAccount сводит «не найден» и «неверный пароль» к одной ошибке.
func (s *AuthService) checkAccount(lookupErr error, hash func() string, password string) error {
	if lookupErr != nil {
		if isNotFound(lookupErr) {
			return apperror.ErrInvalidCredentials
		}
		return translate(lookupErr)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash()), []byte(password)); err != nil {
		return apperror.ErrInvalidCredentials
	}
	return nil
}

// Refresh выпускает новую пару токенов, если аккаунт всё ещё существует и не заблокирован.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	actor, err := s.tokenManager.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUnauthorized, "sessão expirada, faça login novamente")
	}

	switch actor.Role {
	case vo.RoleJobSeeker:
		seeker, err := s.seekers.GetByID(ctx, actor.ID)
		if err != nil {
			return nil, s.refreshLookupError(err)
		}
		if seeker.Status != vo.SeekerActive {
			return nil, apperror.ErrAccountSuspended
		}
	case vo.RoleCompany:
		company, err := s.companies.GetByID(ctx, actor.ID)
		if err != nil {
			return nil, s.refreshLookupError(err)
		}
		if company.Status == vo.CompanySuspended {
			return nil, apperror.ErrAccountSuspended
		}
	case vo.RoleAdmin:
		admin, err := s.admins.GetByID(ctx, actor.ID)
		if err != nil {
			return nil, s.refreshLookupError(err)
		}
		if !admin.Active {
			return nil, apperror.ErrAccountSuspended
		}
	}

	return s.tokenManager.GeneratePair(actor)
}

func (s *AuthService) refreshLookupError(err error) error {
	if isNotFound(err) {
		return apperror.ErrUnauthorized
	}
	return translate(err)
}

// EnsureAdmin создаёт администратора при первом запуске, если его ещё нет.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	email = validation.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}

	if _, err := s.admins.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrAdminNotFound) {
		return fmt.Errorf("auth service: lookup admin: %w", err)
	}

	if err := validation.ValidatePassword(password); err != nil {
		return fmt.Errorf("auth service: bootstrap admin password: %w", err)
	}
	hash, err := s.hash(password)
	if err != nil {
		return err
	}

	admin := &models.Admin{Name: name, Email: email, PasswordHash: hash}
	if err := s.admins.Create(ctx, admin); err != nil {
		return fmt.Errorf("auth service: create admin: %w", err)
	}
	logger.Component("auth").WithField("admin_id", admin.ID).Info("bootstrap admin created")
	return nil
}

func (s *AuthService) result(actor vo.Actor, account interface{}) (*AuthResult, error) {
	pair, err := s.tokenManager.GeneratePair(actor)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "não foi possível gerar o token")
	}
	return &AuthResult{Role: actor.Role, Account: account, TokenPair: pair}, nil
}

func (s *AuthService) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", apperror.Wrap(err, apperror.ErrCodeInternal, "não foi possível processar a senha")
	}
	return string(hash), nil
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrJobSeekerNotFound) ||
		errors.Is(err, repository.ErrCompanyNotFound) ||
		errors.Is(err, repository.ErrAdminNotFound)
}
