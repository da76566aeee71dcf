package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/extrasite-backend/internal/http/handlers/common"
	"github.com/ignatzorin/extrasite-backend/internal/http/response"
	"github.com/ignatzorin/extrasite-backend/internal/service"
)

// DashboardHandler отдаёт счётчики личных кабинетов соискателя и компании.
type DashboardHandler struct {
	admin *service.AdminService
}

func NewDashboardHandler(admin *service.AdminService) *DashboardHandler {
	return &DashboardHandler{admin: admin}
}

// Seeker обрабатывает GET /seeker/dashboard.
func (h *DashboardHandler) Seeker(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	dashboard, err := h.admin.JobSeekerDashboard(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dashboard)
}

// Company обрабатывает GET /company/dashboard.
func (h *DashboardHandler) Company(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	dashboard, err := h.admin.CompanyDashboard(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dashboard)
}
