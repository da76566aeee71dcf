package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/extrasite-backend/internal/models"
	"github.com/ignatzorin/extrasite-backend/internal/pkg/apperror"
)

type mockRatingRepo struct {
	mock.Mock
}

func (m *mockRatingRepo) ListByRatee(ctx context.Context, ratee vo.Party, limit, offset int) ([]models.Rating, error) {
	args := m.Called(ctx, ratee, limit, offset)
	return args.Get(0).([]models.Rating), args.Error(1)
}

func (m *mockRatingRepo) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]models.Rating, error) {
	args := m.Called(ctx, applicationID)
	return args.Get(0).([]models.Rating), args.Error(1)
}

type ratingFixture struct {
	*lifecycleFixture
	ratings *RatingService
	repo    *mockRatingRepo
}

func newRatingFixture() *ratingFixture {
	fx := newLifecycleFixture(testNow)
	repo := new(mockRatingRepo)
	ratings := NewRatingService(fx.store, repo, fx.store)
	ratings.SetInbox(fx.inbox)
	return &ratingFixture{lifecycleFixture: fx, ratings: ratings, repo: repo}
}

// attendedApplication - принятая candidatura с подтверждённой явкой.
func (fx *ratingFixture) attendedApplication(t *testing.T, seeker models.JobSeeker) models.Application {
	t.Helper()
	posting := fx.store.addPosting(fx.company.ID, jobDate, "18:00", "22:00", 5)
	app := fx.store.addApplication(posting.ID, seeker.ID, vo.ApplicationAccepted)
	_, err := fx.svc.ConfirmAttendance(context.Background(), fx.companyActor(), app.ID, true)
	require.NoError(t, err)
	return fx.store.app(app.ID)
}

func intPtr(v int) *int { return &v }

func TestRatingService_Record_BothSides(t *testing.T) {
	fx := newRatingFixture()
	ctx := context.Background()
	seeker := fx.store.addSeeker("ana")
	app := fx.attendedApplication(t, seeker)

	comment := "  Muito pontual  "
	res, err := fx.ratings.Record(ctx, fx.companyActor(), app.ID, RatingInput{
		RaterRole: vo.RoleCompany,
		Score:     5,
		Sub:       models.SubScores{Punctuality: intPtr(5)},
		Comment:   &comment,
	})
	require.NoError(t, err)
	assert.Equal(t, vo.RoleJobSeeker, res.Rating.RateeRole)
	assert.Equal(t, seeker.ID, res.Rating.RateeID)
	assert.Equal(t, "Muito pontual", *res.Rating.Comment)
	assert.Equal(t, models.RatingAggregate{Sum: 5, Count: 1}, res.Aggregate)
	assert.Equal(t, []string{EventAttendanceConfirmed, EventRatingReceived}, fx.inbox.events(seeker.ID))

	res, err = fx.ratings.Record(ctx, seekerActor(seeker), app.ID, RatingInput{RaterRole: vo.RoleJobSeeker, Score: 4})
	require.NoError(t, err)
	assert.Equal(t, vo.RoleCompany, res.Rating.RateeRole)
	assert.Equal(t, fx.company.ID, res.Rating.RateeID)
}

func TestRatingService_Record_DuplicateRejected(t *testing.T) {
	fx := newRatingFixture()
	seeker := fx.store.addSeeker("ana")
	app := fx.attendedApplication(t, seeker)

	in := RatingInput{RaterRole: vo.RoleCompany, Score: 4}
	_, err := fx.ratings.Record(context.Background(), fx.companyActor(), app.ID, in)
	require.NoError(t, err)

	_, err = fx.ratings.Record(context.Background(), fx.companyActor(), app.ID, in)
	assert.ErrorIs(t, err, apperror.ErrDuplicateRating)
	assert.Len(t, fx.store.ratings, 1)

	agg := fx.store.aggregates[vo.Party{Role: vo.RoleJobSeeker, ID: seeker.ID}]
	assert.Equal(t, models.RatingAggregate{Sum: 4, Count: 1}, agg)
}

func TestRatingService_Record_ExactMean(t *testing.T) {
	fx := newRatingFixture()
	seeker := fx.store.addSeeker("ana")

	var last *RatingResult
	for _, score := range []int{5, 4, 4} {
		app := fx.attendedApplication(t, seeker)
		res, err := fx.ratings.Record(context.Background(), fx.companyActor(), app.ID, RatingInput{RaterRole: vo.RoleCompany, Score: score})
		require.NoError(t, err)
		last = res
	}

	assert.Equal(t, models.RatingAggregate{Sum: 13, Count: 3}, last.Aggregate)
	assert.Equal(t, 13.0/3.0, last.Average)
}

func TestRatingService_Record_Preconditions(t *testing.T) {
	fx := newRatingFixture()
	ctx := context.Background()
	seeker := fx.store.addSeeker("ana")
	posting := fx.store.addPosting(fx.company.ID, jobDate, "18:00", "22:00", 3)

	pending := fx.store.addApplication(posting.ID, seeker.ID, vo.ApplicationPending)
	_, err := fx.ratings.Record(ctx, fx.companyActor(), pending.ID, RatingInput{RaterRole: vo.RoleCompany, Score: 5})
	assert.ErrorIs(t, err, apperror.ErrNotAccepted)

	accepted := fx.store.addApplication(posting.ID, fx.store.addSeeker("bruno").ID, vo.ApplicationAccepted)
	_, err = fx.ratings.Record(ctx, fx.companyActor(), accepted.ID, RatingInput{RaterRole: vo.RoleCompany, Score: 5})
	assert.ErrorIs(t, err, apperror.ErrAttendanceNotConfirmed)

	assert.Empty(t, fx.store.ratings)
}

func TestRatingService_Record_Authorization(t *testing.T) {
	fx := newRatingFixture()
	ctx := context.Background()
	seeker := fx.store.addSeeker("ana")
	app := fx.attendedApplication(t, seeker)

	// роль в запросе должна совпадать с ролью токена
	_, err := fx.ratings.Record(ctx, seekerActor(seeker), app.ID, RatingInput{RaterRole: vo.RoleCompany, Score: 5})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	stranger := fx.store.addSeeker("carla")
	_, err = fx.ratings.Record(ctx, seekerActor(stranger), app.ID, RatingInput{RaterRole: vo.RoleJobSeeker, Score: 5})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	admin := vo.Actor{ID: uuid.New(), Role: vo.RoleAdmin}
	_, err = fx.ratings.Record(ctx, admin, app.ID, RatingInput{RaterRole: vo.RoleAdmin, Score: 5})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = fx.ratings.Record(ctx, fx.companyActor(), app.ID, RatingInput{RaterRole: vo.RoleCompany, Score: 6})
	assert.True(t, apperror.IsValidation(err))

	assert.Empty(t, fx.store.ratings)
}

func TestRatingService_ListForRatee(t *testing.T) {
	fx := newRatingFixture()
	ratee := vo.Party{Role: vo.RoleCompany, ID: fx.company.ID}
	expected := []models.Rating{{ID: uuid.New(), Score: 5}}

	fx.repo.On("ListByRatee", mock.Anything, ratee, 20, 0).Return(expected, nil)

	ratings, err := fx.ratings.ListForRatee(context.Background(), ratee, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, expected, ratings)
	fx.repo.AssertExpectations(t)
}
