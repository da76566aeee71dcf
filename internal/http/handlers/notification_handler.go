package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/extrasite-backend/internal/http/handlers/common"
	"github.com/ignatzorin/extrasite-backend/internal/http/response"
	"github.com/ignatzorin/extrasite-backend/internal/service"
)

// NotificationHandler обслуживает маршруты уведомлений.
type NotificationHandler struct {
	notifications *service.NotificationService
}

// NewNotificationHandler создаёт новый хэндлер.
func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// ListNotifications обрабатывает GET /notifications?unread_only=true.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}

	limit, offset := common.GetPagination(c)
	unreadOnly := c.Query("unread_only") == "true"

	items, err := h.notifications.List(c.Request.Context(), actor.ID, limit, offset, unreadOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, items, len(items), limit, offset)
}

// CountUnread обрабатывает GET /notifications/unread/count.
func (h *NotificationHandler) CountUnread(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}

	n, err := h.notifications.CountUnread(c.Request.Context(), actor.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"unread": n})
}

// MarkAsRead обрабатывает POST /notifications/:id/read.
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.notifications.MarkAsRead(c.Request.Context(), actor.ID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "notificação marcada como lida"})
}

// MarkAllAsRead обрабатывает POST /notifications/read-all.
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}

	if err := h.notifications.MarkAllAsRead(c.Request.Context(), actor.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "todas as notificações marcadas como lidas"})
}
