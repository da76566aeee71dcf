package service

import (
	"context"

	"github.com/google/uuid"

	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/extrasite-backend/internal/logger"
	"github.com/ignatzorin/extrasite-backend/internal/models"
	"github.com/ignatzorin/extrasite-backend/internal/pkg/apperror"
)

type AlarmRepository interface {
	Get(ctx context.Context) (*models.AlarmState, error)
	Set(ctx context.Context, active bool, adminID uuid.UUID) (*models.AlarmState, error)
}

// AlarmService - панель сигнализации, доступна только администраторам.
type AlarmService struct {
	repo AlarmRepository
}

func NewAlarmService(repo AlarmRepository) *AlarmService {
	return &AlarmService{repo: repo}
}

func (s *AlarmService) Status(ctx context.Context, actor vo.Actor) (*models.AlarmState, error) {
	if !actor.Is(vo.RoleAdmin) {
		return nil, apperror.ErrForbidden
	}
	state, err := s.repo.Get(ctx)
	return state, translate(err)
}

// Set включает или выключает сигнализацию.
func (s *AlarmService) Set(ctx context.Context, actor vo.Actor, active bool) (*models.AlarmState, error) {
	if !actor.Is(vo.RoleAdmin) {
		return nil, apperror.ErrForbidden
	}
	state, err := s.repo.Set(ctx, active, actor.ID)
	if err != nil {
		return nil, translate(err)
	}
	logger.Component("alarm").WithField("admin_id", actor.ID).WithField("active", active).Info("alarm state changed")
	return state, nil
}
