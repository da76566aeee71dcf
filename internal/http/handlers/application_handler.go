package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/extrasite-backend/internal/http/handlers/common"
	"github.com/ignatzorin/extrasite-backend/internal/http/response"
	"github.com/ignatzorin/extrasite-backend/internal/models"
	"github.com/ignatzorin/extrasite-backend/internal/service"
)

// ApplicationHandler обслуживает candidaturas: отклик, переходы статусов и оценки.
type ApplicationHandler struct {
	applications *service.ApplicationService
	ratings      *service.RatingService
}

func NewApplicationHandler(applications *service.ApplicationService, ratings *service.RatingService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, ratings: ratings}
}

// Apply обрабатывает POST /jobs/:id/apply.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	postingID, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Message *string `json:"message"`
	}
	// Тело необязательно: отклик без сопроводительного текста.
	if c.Request.ContentLength > 0 && !common.BindJSON(c, &req) {
		return
	}

	app, err := h.applications.Apply(c.Request.Context(), actor, postingID, req.Message)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, app)
}

// Accept обрабатывает POST /applications/:id/accept.
func (h *ApplicationHandler) Accept(c *gin.Context) {
	h.withApplication(c, func(actor vo.Actor, id uuid.UUID) (interface{}, error) {
		return h.applications.Accept(c.Request.Context(), actor, id)
	})
}

// Decline обрабатывает POST /applications/:id/decline.
func (h *ApplicationHandler) Decline(c *gin.Context) {
	h.withApplication(c, func(actor vo.Actor, id uuid.UUID) (interface{}, error) {
		return h.applications.Decline(c.Request.Context(), actor, id)
	})
}

// Cancel обрабатывает POST /applications/:id/cancel.
func (h *ApplicationHandler) Cancel(c *gin.Context) {
	h.withApplication(c, func(actor vo.Actor, id uuid.UUID) (interface{}, error) {
		return h.applications.Cancel(c.Request.Context(), actor, id)
	})
}

// ConfirmAttendance обрабатывает POST /applications/:id/attendance {"attended": bool}.
func (h *ApplicationHandler) ConfirmAttendance(c *gin.Context) {
	var req struct {
		Attended *bool `json:"attended"`
	}
	if !common.BindJSON(c, &req) {
		return
	}
	if req.Attended == nil {
		response.BadRequest(c, "attended é obrigatório")
		return
	}

	h.withApplication(c, func(actor vo.Actor, id uuid.UUID) (interface{}, error) {
		return h.applications.ConfirmAttendance(c.Request.Context(), actor, id, *req.Attended)
	})
}

type rateRequest struct {
	RaterRole string  `json:"rater_role"`
	Score     int     `json:"score"`
	Comment   *string `json:"comment"`
	models.SubScores
}

// Rate обрабатывает POST /applications/:id/rating.
// rater_role можно не передавать: тогда используется роль из токена.
func (h *ApplicationHandler) Rate(c *gin.Context) {
	var req rateRequest
	if !common.BindJSON(c, &req) {
		return
	}

	h.withApplication(c, func(actor vo.Actor, id uuid.UUID) (interface{}, error) {
		role := actor.Role
		if req.RaterRole != "" {
			parsed, err := vo.NewRole(req.RaterRole)
			if err != nil {
				return nil, err
			}
			role = parsed
		}
		return h.ratings.Record(c.Request.Context(), actor, id, service.RatingInput{
			RaterRole: role,
			Score:     req.Score,
			Sub:       req.SubScores,
			Comment:   req.Comment,
		})
	})
}

// Get обрабатывает GET /applications/:id.
func (h *ApplicationHandler) Get(c *gin.Context) {
	h.withApplication(c, func(actor vo.Actor, id uuid.UUID) (interface{}, error) {
		return h.applications.Get(c.Request.Context(), actor, id)
	})
}

// ListRatings обрабатывает GET /applications/:id/ratings.
func (h *ApplicationHandler) ListRatings(c *gin.Context) {
	h.withApplication(c, func(actor vo.Actor, id uuid.UUID) (interface{}, error) {
		return h.ratings.ListForApplication(c.Request.Context(), actor, id)
	})
}

// ListMine обрабатывает GET /seeker/applications.
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}

	views, err := h.applications.ListMine(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, views)
}

// ListForPosting обрабатывает GET /company/jobs/:id/applications.
func (h *ApplicationHandler) ListForPosting(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	postingID, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	views, err := h.applications.ListForPosting(c.Request.Context(), actor, postingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, views)
}

// ListSeekerRatings обрабатывает GET /job-seekers/:id/ratings.
func (h *ApplicationHandler) ListSeekerRatings(c *gin.Context) {
	h.listRatee(c, vo.RoleJobSeeker)
}

// ListCompanyRatings обрабатывает GET /companies/:id/ratings.
func (h *ApplicationHandler) ListCompanyRatings(c *gin.Context) {
	h.listRatee(c, vo.RoleCompany)
}

func (h *ApplicationHandler) listRatee(c *gin.Context, role vo.Role) {
	id, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	limit, offset := common.GetPagination(c)

	ratings, err := h.ratings.ListForRatee(c.Request.Context(), vo.Party{Role: role, ID: id}, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, ratings, len(ratings), limit, offset)
}

// withApplication разбирает участника и :id, вызывает операцию и пишет ответ.
func (h *ApplicationHandler) withApplication(c *gin.Context, op func(actor vo.Actor, id uuid.UUID) (interface{}, error)) {
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
