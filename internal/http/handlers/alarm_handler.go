package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/extrasite-backend/internal/http/handlers/common"
	"github.com/ignatzorin/extrasite-backend/internal/http/response"
	"github.com/ignatzorin/extrasite-backend/internal/service"
)

// AlarmHandler - панель сигнализации. Ответы без конверта: их читает простой клиент панели.
type AlarmHandler struct {
	alarm *service.AlarmService
}

func NewAlarmHandler(alarm *service.AlarmService) *AlarmHandler {
	return &AlarmHandler{alarm: alarm}
}

// Status обрабатывает GET /alarm/status.
func (h *AlarmHandler) Status(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	state, err := h.alarm.Status(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alarm_status": state.Active})
}

// Activate обрабатывает POST /alarm/activate.
func (h *AlarmHandler) Activate(c *gin.Context) {
	h.set(c, true, "Alarme ativado")
}

// Deactivate обрабатывает POST /alarm/deactivate.
func (h *AlarmHandler) Deactivate(c *gin.Context) {
	h.set(c, false, "Alarme desativado")
}

func (h *AlarmHandler) set(c *gin.Context, active bool, status string) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	state, err := h.alarm.Set(c.Request.Context(), actor, active)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "alarm_status": state.Active})
}
