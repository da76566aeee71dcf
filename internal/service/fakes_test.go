package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domainrepo "github.com/ignatzorin/extrasite-backend/internal/domain/repository"
	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/extrasite-backend/internal/models"
	"github.com/ignatzorin/extrasite-backend/internal/notify"
	"github.com/ignatzorin/extrasite-backend/internal/repository"
)

// fakeStore - хранилище в памяти. InTx держит мьютекс всю транзакцию,
// что повторяет эффект блокировок строк, и откатывает снимок при ошибке.
type fakeStore struct {
	mu         sync.Mutex
	seekers    map[uuid.UUID]models.JobSeeker
	companies  map[uuid.UUID]models.Company
	postings   map[uuid.UUID]models.JobPosting
	apps       map[uuid.UUID]models.Application
	ratings    []models.Rating
	aggregates map[vo.Party]models.RatingAggregate
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		seekers:    make(map[uuid.UUID]models.JobSeeker),
		companies:  make(map[uuid.UUID]models.Company),
		postings:   make(map[uuid.UUID]models.JobPosting),
		apps:       make(map[uuid.UUID]models.Application),
		aggregates: make(map[vo.Party]models.RatingAggregate),
	}
}

func (f *fakeStore) addSeeker(name string) models.JobSeeker {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := models.JobSeeker{ID: uuid.New(), Name: name, Email: name + "@example.com", Status: vo.SeekerActive}
	f.seekers[s.ID] = s
	return s
}

func (f *fakeStore) addCompany(name string) models.Company {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := models.Company{ID: uuid.New(), TradeName: name, Email: "contato@" + name + ".com.br", City: "Medianeira", Status: vo.CompanyActive}
	f.companies[c.ID] = c
	return c
}

func (f *fakeStore) addPosting(companyID uuid.UUID, date time.Time, start, end string, slots int) models.JobPosting {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := models.JobPosting{
		ID:         uuid.New(),
		CompanyID:  companyID,
		Title:      "Garçom para evento",
		Category:   vo.CategoryWaiter,
		Address:    "Rua Paraná, 100",
		City:       "Medianeira",
		Date:       date,
		StartTime:  vo.MustTimeOfDay(start),
		EndTime:    vo.MustTimeOfDay(end),
		PayPerSlot: 150,
		TotalSlots: slots,
		Status:     vo.PostingOpen,
	}
	f.postings[p.ID] = p
	return p
}

func (f *fakeStore) addApplication(postingID, seekerID uuid.UUID, status vo.ApplicationStatus) models.Application {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := models.Application{ID: uuid.New(), PostingID: postingID, JobSeekerID: seekerID, Status: status}
	f.apps[a.ID] = a
	if status == vo.ApplicationAccepted {
		p := f.postings[postingID]
		p.FilledSlots++
		f.postings[postingID] = p
	}
	return a
}

func (f *fakeStore) app(id uuid.UUID) models.Application {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.apps[id]
}

func (f *fakeStore) posting(id uuid.UUID) models.JobPosting {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.postings[id]
}

func (f *fakeStore) seeker(id uuid.UUID) models.JobSeeker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seekers[id]
}

type fakeSnapshot struct {
	seekers    map[uuid.UUID]models.JobSeeker
	postings   map[uuid.UUID]models.JobPosting
	apps       map[uuid.UUID]models.Application
	ratings    []models.Rating
	aggregates map[vo.Party]models.RatingAggregate
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// GetApplication реализует domainrepo.LifecycleStore.
func (f *fakeStore) GetApplication(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.apps[id]
	if !ok {
		return nil, repository.ErrApplicationNotFound
	}
	return &a, nil
}

func (f *fakeStore) InTx(ctx context.Context, fn func(tx domainrepo.LifecycleTx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := fakeSnapshot{
		seekers:    copyMap(f.seekers),
		postings:   copyMap(f.postings),
		apps:       copyMap(f.apps),
		ratings:    append([]models.Rating(nil), f.ratings...),
		aggregates: copyMap(f.aggregates),
	}
	if err := fn(&fakeTx{f: f}); err != nil {
		f.seekers, f.postings, f.apps = snap.seekers, snap.postings, snap.apps
		f.ratings, f.aggregates = snap.ratings, snap.aggregates
		return err
	}
	return nil
}

// ApplicationRepository

func (f *fakeStore) Create(ctx context.Context, app *models.Application) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.apps {
		if a.PostingID == app.PostingID && a.JobSeekerID == app.JobSeekerID {
			return repository.ErrApplicationExists
		}
	}
	app.ID = uuid.New()
	app.Status = vo.ApplicationPending
	app.AppliedAt = time.Now()
	f.apps[app.ID] = *app
	return nil
}

func (f *fakeStore) GetView(ctx context.Context, id uuid.UUID) (*models.ApplicationView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.apps[id]
	if !ok {
		return nil, repository.ErrApplicationNotFound
	}
	v := f.view(a)
	return &v, nil
}

func (f *fakeStore) ListBySeeker(ctx context.Context, seekerID uuid.UUID) ([]models.ApplicationView, error) {
	return f.list(func(a models.Application) bool { return a.JobSeekerID == seekerID }), nil
}

func (f *fakeStore) ListByPosting(ctx context.Context, postingID uuid.UUID) ([]models.ApplicationView, error) {
	return f.list(func(a models.Application) bool { return a.PostingID == postingID }), nil
}

func (f *fakeStore) list(match func(models.Application) bool) []models.ApplicationView {
	f.mu.Lock()
	defer f.mu.Unlock()
	views := []models.ApplicationView{}
	for _, a := range f.apps {
		if match(a) {
			views = append(views, f.view(a))
		}
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID.String() < views[j].ID.String() })
	return views
}

func (f *fakeStore) view(a models.Application) models.ApplicationView {
	p := f.postings[a.PostingID]
	return models.ApplicationView{
		Application:   a,
		PostingTitle:  p.Title,
		PostingDate:   p.Date,
		StartTime:     p.StartTime,
		EndTime:       p.EndTime,
		PayPerSlot:    p.PayPerSlot,
		CompanyID:     p.CompanyID,
		CompanyName:   f.companies[p.CompanyID].TradeName,
		JobSeekerName: f.seekers[a.JobSeekerID].Name,
	}
}

// fakeTx работает с картами fakeStore под уже взятым мьютексом.
type fakeTx struct {
	f *fakeStore
}

func (t *fakeTx) LockJobSeeker(ctx context.Context, id uuid.UUID) (*models.JobSeeker, error) {
	s, ok := t.f.seekers[id]
	if !ok {
		return nil, repository.ErrJobSeekerNotFound
	}
	return &s, nil
}

func (t *fakeTx) LockPosting(ctx context.Context, id uuid.UUID) (*models.JobPosting, error) {
	p, ok := t.f.postings[id]
	if !ok {
		return nil, repository.ErrPostingNotFound
	}
	return &p, nil
}

func (t *fakeTx) LockApplication(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	a, ok := t.f.apps[id]
	if !ok {
		return nil, repository.ErrApplicationNotFound
	}
	return &a, nil
}

func (t *fakeTx) LockScheduleOnDate(ctx context.Context, seekerID uuid.UUID, date time.Time, excludeID uuid.UUID) ([]models.ScheduledApplication, error) {
	var out []models.ScheduledApplication
	for _, a := range t.f.apps {
		if a.JobSeekerID != seekerID || a.ID == excludeID {
			continue
		}
		if a.Status != vo.ApplicationPending && a.Status != vo.ApplicationAccepted {
			continue
		}
		p := t.f.postings[a.PostingID]
		if p.Status == vo.PostingCancelled || p.Status == vo.PostingCompleted {
			continue
		}
		if !models.SameDay(p.Date, date) {
			continue
		}
		out = append(out, models.ScheduledApplication{
			ID:        a.ID,
			PostingID: p.ID,
			Status:    a.Status,
			Date:      p.Date,
			StartTime: p.StartTime,
			EndTime:   p.EndTime,
		})
	}
	return out, nil
}

func (t *fakeTx) SaveApplication(ctx context.Context, app *models.Application) error {
	if _, ok := t.f.apps[app.ID]; !ok {
		return repository.ErrApplicationNotFound
	}
	t.f.apps[app.ID] = *app
	return nil
}

func (t *fakeTx) CancelApplications(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	for _, id := range ids {
		a := t.f.apps[id]
		if a.Status != vo.ApplicationPending {
			continue
		}
		a.Status = vo.ApplicationCancelled
		a.RespondedAt = &at
		t.f.apps[id] = a
	}
	return nil
}

func (t *fakeTx) SetFilledSlots(ctx context.Context, postingID uuid.UUID, filled int) error {
	p := t.f.postings[postingID]
	p.FilledSlots = filled
	t.f.postings[postingID] = p
	return nil
}

func (t *fakeTx) IncrementTotalJobs(ctx context.Context, seekerID uuid.UUID) error {
	s := t.f.seekers[seekerID]
	s.TotalJobs++
	t.f.seekers[seekerID] = s
	return nil
}

func (t *fakeTx) RatingExists(ctx context.Context, applicationID uuid.UUID, raterRole vo.Role) (bool, error) {
	for _, r := range t.f.ratings {
		if r.ApplicationID == applicationID && r.RaterRole == raterRole {
			return true, nil
		}
	}
	return false, nil
}

func (t *fakeTx) InsertRating(ctx context.Context, rating *models.Rating) error {
	rating.ID = uuid.New()
	t.f.ratings = append(t.f.ratings, *rating)
	return nil
}

func (t *fakeTx) AddRatingScore(ctx context.Context, ratee vo.Party, score int) (models.RatingAggregate, error) {
	agg := t.f.aggregates[ratee].Add(score)
	t.f.aggregates[ratee] = agg
	return agg, nil
}

// Читатели поверх fakeStore для сервисов, которым нужен GetByID разных сущностей.

type fakePostings struct{ f *fakeStore }

func (r fakePostings) GetByID(ctx context.Context, id uuid.UUID) (*models.JobPosting, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	p, ok := r.f.postings[id]
	if !ok {
		return nil, repository.ErrPostingNotFound
	}
	return &p, nil
}

func (r fakePostings) GetView(ctx context.Context, id uuid.UUID) (*models.JobPostingView, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	p, ok := r.f.postings[id]
	if !ok {
		return nil, repository.ErrPostingNotFound
	}
	return &models.JobPostingView{JobPosting: p, CompanyName: r.f.companies[p.CompanyID].TradeName}, nil
}

type fakeSeekers struct{ f *fakeStore }

func (r fakeSeekers) GetByID(ctx context.Context, id uuid.UUID) (*models.JobSeeker, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	s, ok := r.f.seekers[id]
	if !ok {
		return nil, repository.ErrJobSeekerNotFound
	}
	return &s, nil
}

type fakeCompanies struct{ f *fakeStore }

func (r fakeCompanies) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	c, ok := r.f.companies[id]
	if !ok {
		return nil, repository.ErrCompanyNotFound
	}
	return &c, nil
}

type staticSettings struct {
	settings models.PlatformSettings
}

func (s staticSettings) Current() models.PlatformSettings { return s.settings }

func testSettings() staticSettings {
	return staticSettings{settings: models.PlatformSettings{
		TakeRate:                0.15,
		CancellationWindowHours: 48,
		RateWaiter:              15,
		RateBartender:           20,
		RateEvents:              18,
		PlatformName:            "ExtraSITE",
		PlatformCity:            "Medianeira - PR",
	}}
}

type sentMail struct {
	to   string
	kind notify.Kind
	data map[string]any
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) Notify(to string, kind notify.Kind, data map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, kind: kind, data: data})
}

func (m *recordingMailer) kinds() []notify.Kind {
	m.mu.Lock()
	defer m.mu.Unlock()
	kinds := make([]notify.Kind, 0, len(m.sent))
	for _, s := range m.sent {
		kinds = append(kinds, s.kind)
	}
	return kinds
}

func (m *recordingMailer) dataFor(kind notify.Kind) map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sent {
		if s.kind == kind {
			return s.data
		}
	}
	return nil
}

type pushed struct {
	userID uuid.UUID
	event  string
	data   any
}

type recordingInbox struct {
	mu     sync.Mutex
	pushed []pushed
}

func (i *recordingInbox) Push(userID uuid.UUID, event string, data any) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.pushed = append(i.pushed, pushed{userID: userID, event: event, data: data})
}

func (i *recordingInbox) events(userID uuid.UUID) []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	var out []string
	for _, p := range i.pushed {
		if p.userID == userID {
			out = append(out, p.event)
		}
	}
	return out
}

func fixedCalendar(now time.Time) Calendar {
	return Calendar{Loc: time.UTC, Now: func() time.Time { return now }}
}
