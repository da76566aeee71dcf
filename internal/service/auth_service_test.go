package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/extrasite-backend/internal/models"
	"github.com/ignatzorin/extrasite-backend/internal/notify"
	"github.com/ignatzorin/extrasite-backend/internal/pkg/apperror"
	"github.com/ignatzorin/extrasite-backend/internal/repository"
)

// mockAccounts хранит аккаунты всех трёх типов в памяти.
type mockAccounts struct {
	seekers   map[string]*models.JobSeeker
	companies map[string]*models.Company
	admins    map[string]*models.Admin
	lastLogin map[uuid.UUID]time.Time
}

func newMockAccounts() *mockAccounts {
	return &mockAccounts{
		seekers:   make(map[string]*models.JobSeeker),
		companies: make(map[string]*models.Company),
		admins:    make(map[string]*models.Admin),
		lastLogin: make(map[uuid.UUID]time.Time),
	}
}

type mockSeekerAccounts struct{ m *mockAccounts }

func (r mockSeekerAccounts) Create(ctx context.Context, s *models.JobSeeker) error {
	if _, ok := r.m.seekers[s.Email]; ok {
		return repository.ErrEmailExists
	}
	s.ID = uuid.New()
	s.Status = vo.SeekerActive
	r.m.seekers[s.Email] = s
	return nil
}

func (r mockSeekerAccounts) GetByID(ctx context.Context, id uuid.UUID) (*models.JobSeeker, error) {
	for _, s := range r.m.seekers {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, repository.ErrJobSeekerNotFound
}

func (r mockSeekerAccounts) GetByEmail(ctx context.Context, email string) (*models.JobSeeker, error) {
	if s, ok := r.m.seekers[email]; ok {
		return s, nil
	}
	return nil, repository.ErrJobSeekerNotFound
}

type mockCompanyAccounts struct{ m *mockAccounts }

func (r mockCompanyAccounts) Create(ctx context.Context, c *models.Company) error {
	for _, existing := range r.m.companies {
		if existing.CNPJ == c.CNPJ {
			return repository.ErrCNPJExists
		}
	}
	if _, ok := r.m.companies[c.Email]; ok {
		return repository.ErrEmailExists
	}
	c.ID = uuid.New()
	c.Status = vo.CompanyPending
	r.m.companies[c.Email] = c
	return nil
}

func (r mockCompanyAccounts) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	for _, c := range r.m.companies {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, repository.ErrCompanyNotFound
}

func (r mockCompanyAccounts) GetByEmail(ctx context.Context, email string) (*models.Company, error) {
	if c, ok := r.m.companies[email]; ok {
		return c, nil
	}
	return nil, repository.ErrCompanyNotFound
}

type mockAdminAccounts struct{ m *mockAccounts }

func (r mockAdminAccounts) Create(ctx context.Context, a *models.Admin) error {
	a.ID = uuid.New()
	a.Active = true
	r.m.admins[a.Email] = a
	return nil
}

func (r mockAdminAccounts) GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	for _, a := range r.m.admins {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, repository.ErrAdminNotFound
}

func (r mockAdminAccounts) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	if a, ok := r.m.admins[email]; ok {
		return a, nil
	}
	return nil, repository.ErrAdminNotFound
}

func (r mockAdminAccounts) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.m.lastLogin[id] = at
	return nil
}

func (r mockAdminAccounts) ActiveEmails(ctx context.Context) ([]string, error) {
	var emails []string
	for email, a := range r.m.admins {
		if a.Active {
			emails = append(emails, email)
		}
	}
	return emails, nil
}

func newTestAuthService() (*AuthService, *mockAccounts, *recordingMailer) {
	m := newMockAccounts()
	tm := NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
	svc := NewAuthService(mockSeekerAccounts{m}, mockCompanyAccounts{m}, mockAdminAccounts{m}, tm, fixedCalendar(testNow))
	svc.hashCost = bcrypt.MinCost
	mailer := &recordingMailer{}
	svc.SetMailer(mailer)
	return svc, m, mailer
}

func validCompanyInput() RegisterCompanyInput {
	return RegisterCompanyInput{
		Email:         "Contato@Buffet.com.br",
		Password:      "senhaSegura1",
		LegalName:     "Buffet Medianeira LTDA",
		TradeName:     "Buffet Medianeira",
		CNPJ:          "11.222.333/0001-81",
		Phone:         "(45) 99999-0000",
		ContactPerson: "Maria Souza",
		City:          "Medianeira",
		State:         "pr",
	}
}

func TestAuthService_RegisterJobSeeker(t *testing.T) {
	svc, m, mailer := newTestAuthService()

	res, err := svc.RegisterJobSeeker(context.Background(), RegisterJobSeekerInput{
		Name:     "Ana Lima",
		Email:    "  Ana@Example.com ",
		Password: "senha1234",
	})
	require.NoError(t, err)

	assert.Equal(t, vo.RoleJobSeeker, res.Role)
	assert.NotEmpty(t, res.TokenPair.AccessToken)
	assert.NotEmpty(t, res.TokenPair.RefreshToken)

	stored := m.seekers["ana@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "senha1234", stored.PasswordHash)
	assert.Equal(t, []notify.Kind{notify.KindWelcomeSeeker}, mailer.kinds())

	_, err = svc.RegisterJobSeeker(context.Background(), RegisterJobSeekerInput{
		Name: "Ana Lima", Email: "ana@example.com", Password: "senha1234",
	})
	assert.ErrorIs(t, err, apperror.ErrEmailTaken)
}

func TestAuthService_RegisterJobSeeker_Validation(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.RegisterJobSeeker(context.Background(), RegisterJobSeekerInput{
		Name: "Ana", Email: "ana@example.com", Password: "curta",
	})
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.RegisterJobSeeker(context.Background(), RegisterJobSeekerInput{
		Name: "Ana", Email: "sem-arroba", Password: "senha1234",
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestAuthService_RegisterCompany_NotifiesAdmins(t *testing.T) {
	svc, m, mailer := newTestAuthService()
	require.NoError(t, svc.EnsureAdmin(context.Background(), "Admin", "admin@extrasite.com.br", "admin12345"))

	res, err := svc.RegisterCompany(context.Background(), validCompanyInput())
	require.NoError(t, err)

	company := res.Account.(*models.Company)
	assert.Equal(t, vo.CompanyPending, company.Status)
	assert.Equal(t, "11222333000181", company.CNPJ)
	assert.Equal(t, "PR", company.State)
	assert.Contains(t, m.companies, "contato@buffet.com.br")
	assert.ElementsMatch(t, []notify.Kind{notify.KindWelcomeCompany, notify.KindAdminNewCompany}, mailer.kinds())

	dup := validCompanyInput()
	dup.Email = "outro@buffet.com.br"
	_, err = svc.RegisterCompany(context.Background(), dup)
	assert.ErrorIs(t, err, apperror.ErrCNPJTaken)

	bad := validCompanyInput()
	bad.Email = "novo@buffet.com.br"
	bad.CNPJ = "11.222.333/0001-80"
	_, err = svc.RegisterCompany(context.Background(), bad)
	assert.True(t, apperror.IsValidation(err))
}

func TestAuthService_Login(t *testing.T) {
	svc, m, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.RegisterJobSeeker(ctx, RegisterJobSeekerInput{Name: "Ana Lima", Email: "ana@example.com", Password: "senha1234"})
	require.NoError(t, err)

	res, err := svc.Login(ctx, LoginInput{Email: "ANA@example.com", Password: "senha1234", Role: vo.RoleJobSeeker})
	require.NoError(t, err)
	assert.Equal(t, vo.RoleJobSeeker, res.Role)

	_, err = svc.Login(ctx, LoginInput{Email: "ana@example.com", Password: "errada123", Role: vo.RoleJobSeeker})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	// аккаунт соискателя не подходит для входа компании
	_, err = svc.Login(ctx, LoginInput{Email: "ana@example.com", Password: "senha1234", Role: vo.RoleCompany})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	m.seekers["ana@example.com"].Status = vo.SeekerSuspended
	_, err = svc.Login(ctx, LoginInput{Email: "ana@example.com", Password: "senha1234", Role: vo.RoleJobSeeker})
	assert.ErrorIs(t, err, apperror.ErrAccountSuspended)
}

func TestAuthService_Login_CompanyAndAdmin(t *testing.T) {
	svc, m, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.RegisterCompany(ctx, validCompanyInput())
	require.NoError(t, err)

	// pending может войти, но не может публиковать вакансии
	_, err = svc.Login(ctx, LoginInput{Email: "contato@buffet.com.br", Password: "senhaSegura1", Role: vo.RoleCompany})
	require.NoError(t, err)

	m.companies["contato@buffet.com.br"].Status = vo.CompanySuspended
	_, err = svc.Login(ctx, LoginInput{Email: "contato@buffet.com.br", Password: "senhaSegura1", Role: vo.RoleCompany})
	assert.ErrorIs(t, err, apperror.ErrAccountSuspended)

	require.NoError(t, svc.EnsureAdmin(ctx, "Admin", "admin@extrasite.com.br", "admin12345"))
	res, err := svc.Login(ctx, LoginInput{Email: "admin@extrasite.com.br", Password: "admin12345", Role: vo.RoleAdmin})
	require.NoError(t, err)

	admin := res.Account.(*models.Admin)
	assert.Equal(t, testNow, m.lastLogin[admin.ID])
}

func TestAuthService_EnsureAdmin_Idempotent(t *testing.T) {
	svc, m, _ := newTestAuthService()
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "Admin", "admin@extrasite.com.br", "admin12345"))
	first := m.admins["admin@extrasite.com.br"].ID

	require.NoError(t, svc.EnsureAdmin(ctx, "Admin", "ADMIN@extrasite.com.br", "outrasenha1"))
	assert.Len(t, m.admins, 1)
	assert.Equal(t, first, m.admins["admin@extrasite.com.br"].ID)

	require.NoError(t, svc.EnsureAdmin(ctx, "Admin", "", ""))
	assert.Len(t, m.admins, 1)
}

func TestAuthService_Refresh(t *testing.T) {
	svc, m, _ := newTestAuthService()
	ctx := context.Background()

	res, err := svc.RegisterJobSeeker(ctx, RegisterJobSeekerInput{Name: "Ana Lima", Email: "ana@example.com", Password: "senha1234"})
	require.NoError(t, err)

	pair, err := svc.Refresh(ctx, res.TokenPair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	_, err = svc.Refresh(ctx, res.TokenPair.AccessToken)
	assert.Equal(t, apperror.ErrCodeUnauthorized, apperror.CodeOf(err))

	m.seekers["ana@example.com"].Status = vo.SeekerSuspended
	_, err = svc.Refresh(ctx, res.TokenPair.RefreshToken)
	assert.ErrorIs(t, err, apperror.ErrAccountSuspended)
}
