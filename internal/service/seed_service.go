package service

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/extrasite-backend/internal/logger"
	"github.com/ignatzorin/extrasite-backend/internal/models"
	"github.com/ignatzorin/extrasite-backend/internal/pkg/apperror"
	"github.com/ignatzorin/extrasite-backend/internal/validation"
)

// SeedPassword - общий пароль демо-аккаунтов.
const SeedPassword = "Demo1234"

type SeedRegistrar interface {
	RegisterJobSeeker(ctx context.Context, in RegisterJobSeekerInput) (*AuthResult, error)
	RegisterCompany(ctx context.Context, in RegisterCompanyInput) (*AuthResult, error)
}

type SeedApprover interface {
	ApproveCompany(ctx context.Context, actor vo.Actor, id uuid.UUID) (*models.Company, error)
}

type SeedPublisher interface {
	Create(ctx context.Context, actor vo.Actor, in CreatePostingInput) (*models.JobPosting, error)
}

type SeedCompanyLookup interface {
	GetByEmail(ctx context.Context, email string) (*models.Company, error)
}

// SeedService наполняет базу разработки демо-компаниями, соискателями и вакансиями.
// Все записи создаются через обычные сервисы, поэтому проходят ту же валидацию.
type SeedService struct {
	accounts  SeedRegistrar
	approver  SeedApprover
	postings  SeedPublisher
	companies SeedCompanyLookup
	calendar  Calendar
	rnd       *rand.Rand
}

func NewSeedService(accounts SeedRegistrar, approver SeedApprover, postings SeedPublisher, companies SeedCompanyLookup, calendar Calendar) *SeedService {
	return &SeedService{
		accounts:  accounts,
		approver:  approver,
		postings:  postings,
		companies: companies,
		calendar:  calendar,
		rnd:       rand.New(rand.NewSource(calendar.Time().UnixNano())),
	}
}

// SeedOptions - сколько записей создать.
type SeedOptions struct {
	Companies          int `json:"companies" form:"companies"`
	JobSeekers         int `json:"job_seekers" form:"job_seekers"`
	PostingsPerCompany int `json:"postings_per_company" form:"postings_per_company"`
}

// SeedAccount - данные для входа в демо-аккаунт.
type SeedAccount struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     vo.Role `json:"role"`
}

// SeedReport - итог наполнения.
type SeedReport struct {
	Accounts []SeedAccount `json:"accounts"`
	Postings int           `json:"postings"`
}

var (
	seedTradeNames = []string{
		"Buffet Sabor do Oeste", "Espaço Cataratas Eventos", "Bar do Lago", "Churrascaria Fronteira",
		"Salão Ipê Amarelo", "Pizzaria Bella Medianeira", "Casa de Festas Girassol", "Hotel Iguaçu Palace",
	}
	seedFirstNames = []string{
		"Ana", "Bruno", "Camila", "Diego", "Eduarda", "Felipe", "Gabriela", "Henrique",
		"Isabela", "João", "Larissa", "Lucas", "Mariana", "Pedro", "Rafaela", "Thiago",
	}
	seedLastNames = []string{
		"Silva", "Souza", "Oliveira", "Pereira", "Lima", "Ferreira", "Costa", "Rodrigues",
		"Almeida", "Nascimento", "Carvalho", "Gomes",
	}
	seedUniversities = []string{"UTFPR Medianeira", "UDC Medianeira", "UNIOESTE Foz do Iguaçu", "UNILA"}
	seedShifts       = []struct {
		category vo.Category
		title    string
		start    string
		end      string
	}{
		{vo.CategoryWaiter, "Garçom para jantar de formatura", "19:00", "23:30"},
		{vo.CategoryWaiter, "Garçom para almoço de domingo", "11:00", "15:00"},
		{vo.CategoryBartender, "Bartender para festa de casamento", "20:00", "23:59"},
		{vo.CategoryBartender, "Bartender para happy hour", "17:00", "21:00"},
		{vo.CategoryEvents, "Apoio na organização de evento corporativo", "08:00", "12:00"},
		{vo.CategoryEvents, "Recepção e credenciamento de feira", "13:00", "18:00"},
	}
)

// Seed создаёт демо-данные. Повторный запуск не падает на уже существующих email:
// такие аккаунты пропускаются, а компании переиспользуются для новых вакансий.
func (s *SeedService) Seed(ctx context.Context, admin vo.Actor, opts SeedOptions) (*SeedReport, error) {
	if !admin.Is(vo.RoleAdmin) {
		return nil, apperror.ErrForbidden
	}
	opts = normalizeSeedOptions(opts)
	report := &SeedReport{}

	companies := make([]*models.Company, 0, opts.Companies)
	for i := 0; i < opts.Companies; i++ {
		company, err := s.seedCompany(ctx, admin, i)
		if err != nil {
			return nil, fmt.Errorf("seed service: company %d: %w", i+1, err)
		}
		companies = append(companies, company)
		report.Accounts = append(report.Accounts, SeedAccount{Email: company.Email, Password: SeedPassword, Role: vo.RoleCompany})
	}

	for i := 0; i < opts.JobSeekers; i++ {
		email, err := s.seedJobSeeker(ctx, i)
		if err != nil {
			return nil, fmt.Errorf("seed service: job seeker %d: %w", i+1, err)
		}
		report.Accounts = append(report.Accounts, SeedAccount{Email: email, Password: SeedPassword, Role: vo.RoleJobSeeker})
	}

	for _, company := range companies {
		actor := vo.Actor{ID: company.ID, Role: vo.RoleCompany}
		for j := 0; j < opts.PostingsPerCompany; j++ {
			if _, err := s.postings.Create(ctx, actor, s.postingInput(company, j)); err != nil {
				return nil, fmt.Errorf("seed service: posting for %s: %w", company.Email, err)
			}
			report.Postings++
		}
	}

	logger.Component("seed").WithFields(logrus.Fields{
		"accounts": len(report.Accounts),
		"postings": report.Postings,
	}).Info("demo data seeded")
	return report, nil
}

func (s *SeedService) seedCompany(ctx context.Context, admin vo.Actor, i int) (*models.Company, error) {
	tradeName := seedTradeNames[i%len(seedTradeNames)]
	email := fmt.Sprintf("empresa%d@demo.extrasite.com.br", i+1)

	result, err := s.accounts.RegisterCompany(ctx, RegisterCompanyInput{
		Email:         email,
		Password:      SeedPassword,
		LegalName:     tradeName + " LTDA",
		TradeName:     tradeName,
		CNPJ:          validation.CompleteCNPJ(fmt.Sprintf("%08d0001", 45000000+i)),
		Phone:         fmt.Sprintf("45999%06d", 100000+i),
		ContactPerson: s.personName(),
		City:          "Medianeira",
		State:         "PR",
	})

	var company *models.Company
	switch {
	case err == nil:
		company, _ = result.Account.(*models.Company)
	case apperror.IsDuplicate(err):
		company, err = s.companies.GetByEmail(ctx, email)
		if err != nil {
			return nil, translate(err)
		}
	default:
		return nil, err
	}
	if company == nil {
		return nil, apperror.New(apperror.ErrCodeInternal, "conta de empresa não retornada")
	}

	if company.Status != vo.CompanyActive {
		if company, err = s.approver.ApproveCompany(ctx, admin, company.ID); err != nil {
			return nil, err
		}
	}
	return company, nil
}

func (s *SeedService) seedJobSeeker(ctx context.Context, i int) (string, error) {
	email := fmt.Sprintf("colaborador%d@demo.extrasite.com.br", i+1)
	phone := fmt.Sprintf("45988%06d", 100000+i)
	university := seedUniversities[s.rnd.Intn(len(seedUniversities))]

	_, err := s.accounts.RegisterJobSeeker(ctx, RegisterJobSeekerInput{
		Name:       s.personName(),
		Email:      email,
		Password:   SeedPassword,
		Phone:      &phone,
		University: &university,
	})
	if err != nil && !apperror.IsDuplicate(err) {
		return "", err
	}
	return email, nil
}

func (s *SeedService) postingInput(company *models.Company, j int) CreatePostingInput {
	shift := seedShifts[s.rnd.Intn(len(seedShifts))]
	date := s.calendar.Today().AddDate(0, 0, 1+s.rnd.Intn(21))
	street := "Av. Brasília, " + fmt.Sprint(100+s.rnd.Intn(1900))
	if company.Street != nil {
		street = *company.Street
	}

	return CreatePostingInput{
		Title:       shift.title,
		Description: fmt.Sprintf("%s em %s. Vaga %d publicada para demonstração.", shift.title, company.TradeName, j+1),
		Category:    string(shift.category),
		Address:     street,
		City:        company.City,
		Date:        date.Format("2006-01-02"),
		StartTime:   shift.start,
		EndTime:     shift.end,
		PayPerSlot:  float64(80 + 10*s.rnd.Intn(8)),
		TotalSlots:  1 + s.rnd.Intn(4),
	}
}

func (s *SeedService) personName() string {
	return seedFirstNames[s.rnd.Intn(len(seedFirstNames))] + " " + seedLastNames[s.rnd.Intn(len(seedLastNames))]
}

func normalizeSeedOptions(o SeedOptions) SeedOptions {
	clamp := func(v, def, max int) int {
		if v <= 0 {
			return def
		}
		if v > max {
			return max
		}
		return v
	}
	o.Companies = clamp(o.Companies, 3, 20)
	o.JobSeekers = clamp(o.JobSeekers, 10, 100)
	o.PostingsPerCompany = clamp(o.PostingsPerCompany, 3, 10)
	return o
}
