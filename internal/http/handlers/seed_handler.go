package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/extrasite-backend/internal/http/handlers/common"
	"github.com/ignatzorin/extrasite-backend/internal/http/response"
	"github.com/ignatzorin/extrasite-backend/internal/service"
)

// SeedHandler наполняет базу разработки демо-данными. Маршрут регистрируется только в development.
type SeedHandler struct {
	seed *service.SeedService
}

// NewSeedHandler создаёт новый seed handler.
func NewSeedHandler(seed *service.SeedService) *SeedHandler {
	return &SeedHandler{seed: seed}
}

// Seed обрабатывает POST /api/dev/seed?companies=&job_seekers=&postings_per_company=.
func (h *SeedHandler) Seed(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}

	var opts service.SeedOptions
	if err := c.ShouldBindQuery(&opts); err != nil {
		response.BadRequest(c, "parâmetros inválidos")
		return
	}

	report, err := h.seed.Seed(c.Request.Context(), actor, opts)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, report)
}
