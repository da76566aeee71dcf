package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/extrasite-backend/internal/http/handlers/common"
	"github.com/ignatzorin/extrasite-backend/internal/http/response"
	"github.com/ignatzorin/extrasite-backend/internal/service"
)

// ProfileHandler обслуживает профили соискателей и компаний.
type ProfileHandler struct {
	profiles      *service.ProfileService
	maxUploadSize int64
}

// NewProfileHandler создаёт хэндлер. maxUploadMB ограничивает тело multipart запроса.
func NewProfileHandler(profiles *service.ProfileService, maxUploadMB int64) *ProfileHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 16
	}
	return &ProfileHandler{profiles: profiles, maxUploadSize: maxUploadMB << 20}
}

// GetMySeekerProfile обрабатывает GET /seeker/profile.
func (h *ProfileHandler) GetMySeekerProfile(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	profile, err := h.profiles.GetJobSeeker(c.Request.Context(), actor.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}

// UpdateMySeekerProfile обрабатывает PUT /seeker/profile.
func (h *ProfileHandler) UpdateMySeekerProfile(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	var req service.UpdateJobSeekerInput
	if !common.BindJSON(c, &req) {
		return
	}

	profile, err := h.profiles.UpdateJobSeeker(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}

// UploadSeekerPhoto обрабатывает POST /seeker/profile/photo (multipart, поле file).
func (h *ProfileHandler) UploadSeekerPhoto(c *gin.Context) {
	h.upload(c, h.profiles.UploadJobSeekerPhoto)
}

// GetMyCompanyProfile обрабатывает GET /company/profile.
func (h *ProfileHandler) GetMyCompanyProfile(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	profile, err := h.profiles.GetCompany(c.Request.Context(), actor.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}

// UpdateMyCompanyProfile обрабатывает PUT /company/profile.
func (h *ProfileHandler) UpdateMyCompanyProfile(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	var req service.UpdateCompanyInput
	if !common.BindJSON(c, &req) {
		return
	}

	profile, err := h.profiles.UpdateCompany(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}

// UploadCompanyLogo обрабатывает POST /company/profile/logo (multipart, поле file).
func (h *ProfileHandler) UploadCompanyLogo(c *gin.Context) {
	h.upload(c, h.profiles.UploadCompanyLogo)
}

// GetSeeker обрабатывает GET /job-seekers/:id.
func (h *ProfileHandler) GetSeeker(c *gin.Context) {
	id, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	profile, err := h.profiles.GetJobSeeker(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}

// GetCompany обрабатывает GET /companies/:id.
func (h *ProfileHandler) GetCompany(c *gin.Context) {
	id, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	profile, err := h.profiles.GetCompany(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}

func (h *ProfileHandler) upload(c *gin.Context, save func(ctx context.Context, actor vo.Actor, filename string, r io.Reader) (string, error)) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}

	// Запас на заголовки multipart сверх лимита файла.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize+1<<20)
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "o campo file é obrigatório")
		return
	}
	if file.Size > h.maxUploadSize {
		response.BadRequest(c, "arquivo muito grande")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.BadRequest(c, "não foi possível ler o arquivo")
		return
	}
	defer src.Close()

	ref, err := save(c.Request.Context(), actor, file.Filename, src)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"url": "/uploads/" + ref, "path": ref})
}
