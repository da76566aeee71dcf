package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/extrasite-backend/internal/goroutine"
	"github.com/ignatzorin/extrasite-backend/internal/logger"
	"github.com/ignatzorin/extrasite-backend/internal/models"
	"github.com/ignatzorin/extrasite-backend/internal/notify"
)

// События уведомлений внутри приложения.
const (
	EventNewApplication       = "nova_candidatura"
	EventApplicationAccepted  = "candidatura_aceita"
	EventApplicationDeclined  = "candidatura_recusada"
	EventApplicationCancelled = "candidatura_cancelada"
	EventConflictCancelled    = "candidaturas_canceladas_conflito"
	EventAttendanceConfirmed  = "trabalho_confirmado"
	EventRatingReceived       = "avaliacao_recebida"
	EventCompanyApproved      = "empresa_aprovada"
)

const pushTimeout = 5 * time.Second

// NotificationRepository описывает взаимодействие сервиса с хранилищем уведомлений.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

// WSNotifier - отправка события в открытые WebSocket подключения.
type WSNotifier interface {
	Push(userID uuid.UUID, event string, data any) error
}

// Inbox - уведомления внутри приложения, best-effort.
type Inbox interface {
	Push(userID uuid.UUID, event string, data any)
}

// Mailer - отправка письма по шаблону, best-effort.
type Mailer interface {
	Notify(to string, kind notify.Kind, data map[string]any)
}

// NotificationService сохраняет уведомления и пушит их в WebSocket.
type NotificationService struct {
	repo NotificationRepository
	hub  WSNotifier
}

// NewNotificationService создаёт новый сервис уведомлений.
func NewNotificationService(repo NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// SetHub устанавливает WebSocket hub для отправки уведомлений.
func (s *NotificationService) SetHub(hub WSNotifier) {
	s.hub = hub
}

// Create сохраняет уведомление и отправляет его в открытые подключения.
func (s *NotificationService) Create(ctx context.Context, userID uuid.UUID, event string, data any) (*models.Notification, error) {
	payload, err := json.Marshal(map[string]any{"event": event, "data": data})
	if err != nil {
		return nil, fmt.Errorf("notification service: marshal payload %w", err)
	}

	notification := &models.Notification{UserID: userID, Payload: payload}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, translate(err)
	}

	if s.hub != nil {
		if err := s.hub.Push(userID, event, data); err != nil {
			logger.Component("notifications").WithError(err).Warn("ws push failed")
		}
	}
	return notification, nil
}

// Push - фоновая версия Create: ошибки только логируются.
func (s *NotificationService) Push(userID uuid.UUID, event string, data any) {
	goroutine.SafeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
		defer cancel()

		if _, err := s.Create(ctx, userID, event, data); err != nil {
			logger.Component("notifications").WithFields(logrus.Fields{
				"user_id": userID,
				"event":   event,
			}).WithError(err).Warn("in-app notification failed")
		}
	})
}

// List возвращает уведомления пользователя.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error) {
	limit, offset = normalizePage(limit, offset)
	items, err := s.repo.List(ctx, userID, limit, offset, unreadOnly)
	return items, translate(err)
}

// MarkAsRead отмечает уведомление пользователя как прочитанное.
func (s *NotificationService) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	return translate(s.repo.MarkAsRead(ctx, userID, id))
}

// MarkAllAsRead отмечает все уведомления пользователя как прочитанные.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return translate(s.repo.MarkAllAsRead(ctx, userID))
}

// CountUnread возвращает количество непрочитанных уведомлений.
func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	n, err := s.repo.CountUnread(ctx, userID)
	return n, translate(err)
}

// normalizePage ограничивает пагинацию.
func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

type noopInbox struct{}

func (noopInbox) Push(uuid.UUID, string, any) {}

type noopMailer struct{}

func (noopMailer) Notify(string, notify.Kind, map[string]any) {}
