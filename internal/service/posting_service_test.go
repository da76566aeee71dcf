package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/extrasite-backend/internal/cache"
	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/extrasite-backend/internal/models"
	"github.com/ignatzorin/extrasite-backend/internal/pkg/apperror"
	"github.com/ignatzorin/extrasite-backend/internal/repository"
)

type mockPostingRepo struct {
	mock.Mock
}

func (m *mockPostingRepo) Create(ctx context.Context, p *models.JobPosting) error {
	args := m.Called(ctx, p)
	if args.Error(0) == nil {
		p.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockPostingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.JobPosting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JobPosting), args.Error(1)
}

func (m *mockPostingRepo) GetView(ctx context.Context, id uuid.UUID) (*models.JobPostingView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JobPostingView), args.Error(1)
}

func (m *mockPostingRepo) ListBoard(ctx context.Context, f models.JobBoardFilter) ([]models.JobPostingView, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.JobPostingView), args.Error(1)
}

func (m *mockPostingRepo) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.JobPostingView, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).([]models.JobPostingView), args.Error(1)
}

func (m *mockPostingRepo) ListAll(ctx context.Context, status *vo.PostingStatus, limit, offset int) ([]models.JobPostingView, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]models.JobPostingView), args.Error(1)
}

func (m *mockPostingRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from []vo.PostingStatus, to vo.PostingStatus) (*models.JobPosting, error) {
	args := m.Called(ctx, id, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JobPosting), args.Error(1)
}

type postingFixture struct {
	svc     *PostingService
	repo    *mockPostingRepo
	store   *fakeStore
	cache   *cache.MemoryStore
	company models.Company
}

func newPostingFixture(t *testing.T) *postingFixture {
	store := newFakeStore()
	repo := new(mockPostingRepo)
	mem := cache.NewMemoryStore(time.Minute)
	t.Cleanup(func() { mem.Close() })

	return &postingFixture{
		svc:     NewPostingService(repo, fakeCompanies{store}, testSettings(), fixedCalendar(testNow), mem, time.Minute),
		repo:    repo,
		store:   store,
		cache:   mem,
		company: store.addCompany("buffet"),
	}
}

func validPostingInput() CreatePostingInput {
	return CreatePostingInput{
		Title:       "Garçom para casamento",
		Description: "Atendimento às mesas durante a recepção",
		Category:    "garcom",
		Address:     "Rua Paraná, 100",
		Date:        "2026-11-20",
		StartTime:   "18:00",
		EndTime:     "23:00",
		PayPerSlot:  120,
		TotalSlots:  4,
	}
}

func TestPostingService_Create(t *testing.T) {
	fx := newPostingFixture(t)
	ctx := context.Background()
	require.NoError(t, fx.cache.Set(ctx, cache.BoardPrefix+"stale", []byte("[]"), time.Minute))

	fx.repo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.JobPosting) bool {
		return p.CompanyID == fx.company.ID && p.Status == vo.PostingOpen
	})).Return(nil).Once()

	posting, err := fx.svc.Create(ctx, vo.Actor{ID: fx.company.ID, Role: vo.RoleCompany}, validPostingInput())
	require.NoError(t, err)

	assert.Equal(t, "Medianeira", posting.City)
	assert.Equal(t, vo.MustTimeOfDay("18:00"), posting.StartTime)
	require.NotNil(t, posting.SuggestedValue)
	// 5 часов по ставке garcom 15
	assert.InDelta(t, 75.0, *posting.SuggestedValue, 1e-9)

	_, found, err := fx.cache.Get(ctx, cache.BoardPrefix+"stale")
	require.NoError(t, err)
	assert.False(t, found)
	fx.repo.AssertExpectations(t)
}

func TestPostingService_Create_Rejections(t *testing.T) {
	fx := newPostingFixture(t)
	ctx := context.Background()
	actor := vo.Actor{ID: fx.company.ID, Role: vo.RoleCompany}

	cases := map[string]func(in *CreatePostingInput){
		"past date":     func(in *CreatePostingInput) { in.Date = "2026-10-31" },
		"bad date":      func(in *CreatePostingInput) { in.Date = "20/11/2026" },
		"overnight":     func(in *CreatePostingInput) { in.StartTime, in.EndTime = "22:00", "02:00" },
		"no slots":      func(in *CreatePostingInput) { in.TotalSlots = 0 },
		"zero pay":      func(in *CreatePostingInput) { in.PayPerSlot = 0 },
		"negative pay":  func(in *CreatePostingInput) { in.PayPerSlot = -10 },
		"bad category":  func(in *CreatePostingInput) { in.Category = "cozinheiro" },
		"short title":   func(in *CreatePostingInput) { in.Title = "ab" },
		"empty address": func(in *CreatePostingInput) { in.Address = "  " },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validPostingInput()
			mutate(&in)
			_, err := fx.svc.Create(ctx, actor, in)
			assert.True(t, apperror.IsValidation(err), "got %v", err)
		})
	}
	fx.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPostingService_Create_RequiresActiveCompany(t *testing.T) {
	fx := newPostingFixture(t)
	pending := fx.store.addCompany("novo")
	fx.store.mu.Lock()
	c := fx.store.companies[pending.ID]
	c.Status = vo.CompanyPending
	fx.store.companies[pending.ID] = c
	fx.store.mu.Unlock()

	_, err := fx.svc.Create(context.Background(), vo.Actor{ID: pending.ID, Role: vo.RoleCompany}, validPostingInput())
	assert.ErrorIs(t, err, apperror.ErrCompanyNotActive)

	_, err = fx.svc.Create(context.Background(), vo.Actor{ID: uuid.New(), Role: vo.RoleJobSeeker}, validPostingInput())
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestPostingService_ListBoard_CachedAndEnriched(t *testing.T) {
	fx := newPostingFixture(t)
	ctx := context.Background()

	category := vo.CategoryBartender
	city := "Medianeira"
	expectedFilter := models.JobBoardFilter{
		Category: &category,
		City:     &city,
		From:     time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		Limit:    20,
		Offset:   0,
	}
	rows := []models.JobPostingView{{
		JobPosting:  models.JobPosting{ID: uuid.New(), Category: vo.CategoryBartender, PayPerSlot: 200},
		CompanyName: "Buffet",
	}}
	fx.repo.On("ListBoard", mock.Anything, expectedFilter).Return(rows, nil).Once()

	q := BoardQuery{Category: "bartender", City: " Medianeira "}
	first, err := fx.svc.ListBoard(ctx, q)
	require.NoError(t, err)
	second, err := fx.svc.ListBoard(ctx, q)
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.InDelta(t, 170.0, second[0].NetPay, 1e-9)
	assert.InDelta(t, 30.0, second[0].PlatformFee, 1e-9)
	assert.Equal(t, vo.CategoryBartender.DisplayName(), second[0].CategoryDisplay)
	fx.repo.AssertExpectations(t)

	_, err = fx.svc.ListBoard(ctx, BoardQuery{Category: "cozinheiro"})
	assert.True(t, apperror.IsValidation(err))
}

func TestPostingService_Complete(t *testing.T) {
	fx := newPostingFixture(t)
	ctx := context.Background()
	posting := &models.JobPosting{ID: uuid.New(), CompanyID: fx.company.ID, Status: vo.PostingOpen}

	fx.repo.On("GetByID", mock.Anything, posting.ID).Return(posting, nil)
	fx.repo.On("TransitionStatus", mock.Anything, posting.ID,
		[]vo.PostingStatus{vo.PostingOpen, vo.PostingInProgress}, vo.PostingCompleted).
		Return(&models.JobPosting{ID: posting.ID, Status: vo.PostingCompleted}, nil).Once()

	_, err := fx.svc.Complete(ctx, vo.Actor{ID: uuid.New(), Role: vo.RoleCompany}, posting.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	done, err := fx.svc.Complete(ctx, vo.Actor{ID: fx.company.ID, Role: vo.RoleCompany}, posting.ID)
	require.NoError(t, err)
	assert.Equal(t, vo.PostingCompleted, done.Status)
	fx.repo.AssertExpectations(t)
}

func TestPostingService_AdminCancel_StatusConflict(t *testing.T) {
	fx := newPostingFixture(t)
	id := uuid.New()

	fx.repo.On("TransitionStatus", mock.Anything, id, mock.Anything, vo.PostingCancelled).
		Return(nil, repository.ErrPostingStatusConflict)

	_, err := fx.svc.AdminCancel(context.Background(), vo.Actor{ID: uuid.New(), Role: vo.RoleAdmin}, id)
	assert.True(t, apperror.IsInvalidState(err))

	_, err = fx.svc.AdminCancel(context.Background(), vo.Actor{ID: fx.company.ID, Role: vo.RoleCompany}, id)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestPostingService_Quote(t *testing.T) {
	fx := newPostingFixture(t)

	q, err := fx.svc.Quote(QuoteInput{Category: "bartender", StartTime: "18:00", EndTime: "22:30", Pay: 100})
	require.NoError(t, err)
	assert.InDelta(t, 4.5, q.DurationHours, 1e-9)
	assert.InDelta(t, 90.0, q.SuggestedValue, 1e-9)
	assert.InDelta(t, 85.0, q.NetPay, 1e-9)
	assert.InDelta(t, 15.0, q.PlatformFee, 1e-9)

	_, err = fx.svc.Quote(QuoteInput{Category: "garcom", StartTime: "23:00", EndTime: "01:00", Pay: 100})
	assert.True(t, apperror.IsValidation(err))

	_, err = fx.svc.Quote(QuoteInput{Category: "garcom", StartTime: "18:00", EndTime: "22:00", Pay: -1})
	assert.True(t, apperror.IsValidation(err))

	zero, err := fx.svc.Quote(QuoteInput{Category: "garcom", StartTime: "18:00", EndTime: "22:00"})
	require.NoError(t, err)
	assert.Zero(t, zero.NetPay)
}

func TestEnrich_RoundsBreakdownToCents(t *testing.T) {
	v := models.JobPostingView{JobPosting: models.JobPosting{Category: vo.CategoryWaiter, PayPerSlot: 99.99}}

	enrich(&v, 0.15)

	assert.Equal(t, 84.99, v.NetPay)
	assert.Equal(t, 15.0, v.PlatformFee)
}
