package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/extrasite-backend/internal/http/handlers/common"
	"github.com/ignatzorin/extrasite-backend/internal/http/response"
	"github.com/ignatzorin/extrasite-backend/internal/service"
)

// JobHandler обслуживает мурал вакансий, публикацию и расчёт оплаты.
type JobHandler struct {
	postings *service.PostingService
	settings *service.SettingsService
}

func NewJobHandler(postings *service.PostingService, settings *service.SettingsService) *JobHandler {
	return &JobHandler{postings: postings, settings: settings}
}

// ListBoard обрабатывает GET /jobs?category=&city=&limit=&offset=.
func (h *JobHandler) ListBoard(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	views, err := h.postings.ListBoard(c.Request.Context(), service.BoardQuery{
		Category: c.Query("category"),
		City:     c.Query("city"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, views, len(views), limit, offset)
}

// Get обрабатывает GET /jobs/:id.
func (h *JobHandler) Get(c *gin.Context) {
	id, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.postings.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}

// Create обрабатывает POST /company/jobs.
func (h *JobHandler) Create(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	var req service.CreatePostingInput
	if !common.BindJSON(c, &req) {
		return
	}

	posting, err := h.postings.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, posting)
}

// ListMine обрабатывает GET /company/jobs.
func (h *JobHandler) ListMine(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}

	views, err := h.postings.ListByCompany(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, views)
}

// Complete обрабатывает POST /company/jobs/:id/complete.
func (h *JobHandler) Complete(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	posting, err := h.postings.Complete(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posting)
}

// Quote обрабатывает GET /fees/quote?category=&start=&end=&pay=.
func (h *JobHandler) Quote(c *gin.Context) {
	var pay float64
	if raw := c.Query("pay"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.BadRequest(c, "valor de pagamento inválido")
			return
		}
		pay = parsed
	}

	quote, err := h.postings.Quote(service.QuoteInput{
		Category:  c.Query("category"),
		StartTime: c.Query("start"),
		EndTime:   c.Query("end"),
		Pay:       pay,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, quote)
}

// Platform обрабатывает GET /platform: публичные настройки и текущие ставки.
func (h *JobHandler) Platform(c *gin.Context) {
	response.Success(c, h.settings.Public())
}
