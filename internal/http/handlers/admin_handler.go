package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/extrasite-backend/internal/http/handlers/common"
	"github.com/ignatzorin/extrasite-backend/internal/http/response"
	"github.com/ignatzorin/extrasite-backend/internal/service"
)

// AdminHandler - панель администратора: модерация компаний, соискателей, вакансий и настройки.
type AdminHandler struct {
	admin    *service.AdminService
	postings *service.PostingService
	settings *service.SettingsService
}

func NewAdminHandler(admin *service.AdminService, postings *service.PostingService, settings *service.SettingsService) *AdminHandler {
	return &AdminHandler{admin: admin, postings: postings, settings: settings}
}

// Dashboard обрабатывает GET /admin/dashboard.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.admin.AdminDashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dashboard)
}

// ListCompanies обрабатывает GET /admin/companies?status=.
func (h *AdminHandler) ListCompanies(c *gin.Context) {
	limit, offset := common.GetPagination(c)
	companies, err := h.admin.ListCompanies(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, companies, len(companies), limit, offset)
}

// ApproveCompany обрабатывает POST /admin/companies/:id/approve.
func (h *AdminHandler) ApproveCompany(c *gin.Context) {
	h.act(c, func(actor vo.Actor, id uuid.UUID) (interface{}, error) {
		return h.admin.ApproveCompany(c.Request.Context(), actor, id)
	})
}

// RejectCompany обрабатывает POST /admin/companies/:id/reject {"reason": "..."}.
func (h *AdminHandler) RejectCompany(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	if !common.BindJSON(c, &req) {
		return
	}
	h.act(c, func(actor vo.Actor, id uuid.UUID) (interface{}, error) {
		return h.admin.RejectCompany(c.Request.Context(), actor, id, req.Reason)
	})
}

// SuspendCompany обрабатывает POST /admin/companies/:id/suspend.
func (h *AdminHandler) SuspendCompany(c *gin.Context) {
	h.act(c, func(actor vo.Actor, id uuid.UUID) (interface{}, error) {
		return h.admin.SuspendCompany(c.Request.Context(), actor, id)
	})
}

// ListJobSeekers обрабатывает GET /admin/job-seekers?status=.
func (h *AdminHandler) ListJobSeekers(c *gin.Context) {
	limit, offset := common.GetPagination(c)
	seekers, err := h.admin.ListJobSeekers(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, seekers, len(seekers), limit, offset)
}

// SuspendJobSeeker обрабатывает POST /admin/job-seekers/:id/suspend.
func (h *AdminHandler) SuspendJobSeeker(c *gin.Context) {
	h.act(c, func(actor vo.Actor, id uuid.UUID) (interface{}, error) {
		return h.admin.SetJobSeekerStatus(c.Request.Context(), actor, id, vo.SeekerSuspended)
	})
}

// ActivateJobSeeker обрабатывает POST /admin/job-seekers/:id/activate.
func (h *AdminHandler) ActivateJobSeeker(c *gin.Context) {
	h.act(c, func(actor vo.Actor, id uuid.UUID) (interface{}, error) {
		return h.admin.SetJobSeekerStatus(c.Request.Context(), actor, id, vo.SeekerActive)
	})
}

// ListJobs обрабатывает GET /admin/jobs?status=.
func (h *AdminHandler) ListJobs(c *gin.Context) {
	limit, offset := common.GetPagination(c)
	views, err := h.postings.ListAll(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, views, len(views), limit, offset)
}

// CancelJob обрабатывает POST /admin/jobs/:id/cancel.
func (h *AdminHandler) CancelJob(c *gin.Context) {
	h.act(c, func(actor vo.Actor, id uuid.UUID) (interface{}, error) {
		return h.postings.AdminCancel(c.Request.Context(), actor, id)
	})
}

// GetSettings обрабатывает GET /admin/settings.
func (h *AdminHandler) GetSettings(c *gin.Context) {
	response.Success(c, h.settings.Current())
}

// UpdateSettings обрабатывает PUT /admin/settings.
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	var req service.UpdateSettingsInput
	if !common.BindJSON(c, &req) {
		return
	}

	updated, err := h.settings.Update(c.Request.Context(), actor.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, updated)
}

func (h *AdminHandler) act(c *gin.Context, op func(actor vo.Actor, id uuid.UUID) (interface{}, error)) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := op(actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
