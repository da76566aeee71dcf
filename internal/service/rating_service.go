package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/extrasite-backend/internal/domain/lifecycle"
	domainrepo "github.com/ignatzorin/extrasite-backend/internal/domain/repository"
	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/extrasite-backend/internal/logger"
	"github.com/ignatzorin/extrasite-backend/internal/metrics"
	"github.com/ignatzorin/extrasite-backend/internal/models"
	"github.com/ignatzorin/extrasite-backend/internal/pkg/apperror"
	"github.com/ignatzorin/extrasite-backend/internal/validation"
)

type RatingRepository interface {
	ListByRatee(ctx context.Context, ratee vo.Party, limit, offset int) ([]models.Rating, error)
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]models.Rating, error)
}

// RatingInput - оценка одной стороны candidatura.
type RatingInput struct {
	RaterRole vo.Role
	Score     int
	Sub       models.SubScores
	Comment   *string
}

// RatingResult - сохранённая оценка и новый агрегат оцениваемого.
type RatingResult struct {
	Rating    *models.Rating         `json:"rating"`
	Aggregate models.RatingAggregate `json:"aggregate"`
	Average   float64                `json:"average"`
}

// RatingService - взаимные оценки после подтверждённой смены.
type RatingService struct {
	store   domainrepo.LifecycleStore
	ratings RatingRepository
	apps    ApplicationRepository
	inbox   Inbox
}

func NewRatingService(store domainrepo.LifecycleStore, ratings RatingRepository, apps ApplicationRepository) *RatingService {
	return &RatingService{
		store:   store,
		ratings: ratings,
		apps:    apps,
		inbox:   noopInbox{},
	}
}

func (s *RatingService) SetInbox(i Inbox) { s.inbox = i }

// Record сохраняет оценку и пересчитывает рейтинг оцениваемого в одной транзакции.
// Каждая сторона оценивает candidatura не больше одного раза.
func (s *RatingService) Record(ctx context.Context, actor vo.Actor, applicationID uuid.UUID, in RatingInput) (*RatingResult, error) {
	if !in.RaterRole.CanRate() || actor.Role != in.RaterRole {
		return nil, apperror.ErrForbidden
	}
	if err := lifecycle.ValidateScore(in.Score, in.Sub); err != nil {
		return nil, err
	}
	if in.Comment != nil {
		trimmed := strings.TrimSpace(*in.Comment)
		if err := validation.ValidateLength("comentário", trimmed, 0, validation.MaxCommentLength); err != nil {
			return nil, validationError(err)
		}
		in.Comment = &trimmed
		if trimmed == "" {
			in.Comment = nil
		}
	}

	var result RatingResult
	err := withLockedApplication(ctx, s.store, applicationID, func(tx domainrepo.LifecycleTx, locked lockedApplication) error {
		parties := vo.Parties{JobSeekerID: locked.app.JobSeekerID, CompanyID: locked.posting.CompanyID}
		rater, err := vo.ResolveRater(in.RaterRole, parties)
		if err != nil {
			return err
		}
		if rater.ID != actor.ID {
			return apperror.ErrForbidden
		}
		if err := lifecycle.CheckRatable(locked.app); err != nil {
			return err
		}

		exists, err := tx.RatingExists(ctx, locked.app.ID, in.RaterRole)
		if err != nil {
			return err
		}
		if exists {
			return apperror.ErrDuplicateRating
		}

		ratee, err := vo.ResolveRatee(in.RaterRole, parties)
		if err != nil {
			return err
		}

		rating := &models.Rating{
			ApplicationID:   locked.app.ID,
			PostingID:       locked.posting.ID,
			RaterRole:       rater.Role,
			RaterID:         rater.ID,
			RateeRole:       ratee.Role,
			RateeID:         ratee.ID,
			Score:           in.Score,
			Comment:         in.Comment,
			Punctuality:     in.Sub.Punctuality,
			Professionalism: in.Sub.Professionalism,
			Communication:   in.Sub.Communication,
		}
		if err := tx.InsertRating(ctx, rating); err != nil {
			return err
		}
		agg, err := tx.AddRatingScore(ctx, ratee, in.Score)
		if err != nil {
			return err
		}

		result = RatingResult{Rating: rating, Aggregate: agg, Average: agg.Mean()}
		return nil
	})
	metrics.ObserveTransition("rate", err)
	if err != nil {
		return nil, err
	}
	metrics.RatingsRecorded.WithLabelValues(string(in.RaterRole)).Inc()

	logger.Component("ratings").WithFields(logrus.Fields{
		"application_id": applicationID,
		"rater_role":     in.RaterRole,
		"ratee_id":       result.Rating.RateeID,
		"score":          in.Score,
	}).Info("rating recorded")

	s.inbox.Push(result.Rating.RateeID, EventRatingReceived, map[string]any{
		"application_id": applicationID,
		"score":          in.Score,
		"average":        result.Average,
	})
	return &result, nil
}

// ListForRatee - оценки участника, новые первыми.
func (s *RatingService) ListForRatee(ctx context.Context, ratee vo.Party, limit, offset int) ([]models.Rating, error) {
	if !ratee.Role.CanRate() {
		return nil, apperror.New(apperror.ErrCodeValidation, "papel inválido")
	}
	limit, offset = normalizePage(limit, offset)
	ratings, err := s.ratings.ListByRatee(ctx, ratee, limit, offset)
	return ratings, translate(err)
}

// ListForApplication - оценки по candidatura видят её стороны и администратор.
func (s *RatingService) ListForApplication(ctx context.Context, actor vo.Actor, applicationID uuid.UUID) ([]models.Rating, error) {
	view, err := s.apps.GetView(ctx, applicationID)
	if err != nil {
		return nil, translate(err)
	}
	if !actor.Is(vo.RoleAdmin) && actor.ID != view.JobSeekerID && actor.ID != view.CompanyID {
		return nil, apperror.ErrForbidden
	}
	ratings, err := s.ratings.ListByApplication(ctx, applicationID)
	return ratings, translate(err)
}
