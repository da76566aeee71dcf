package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/extrasite-backend/internal/http/handlers/common"
	"github.com/ignatzorin/extrasite-backend/internal/http/response"
	"github.com/ignatzorin/extrasite-backend/internal/service"
)

// AuthHandler предоставляет HTTP слой для регистрации и логина.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler создаёт хэндлер.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterJobSeeker обрабатывает POST /auth/register/job-seeker.
func (h *AuthHandler) RegisterJobSeeker(c *gin.Context) {
	var req service.RegisterJobSeekerInput
	if !common.BindJSON(c, &req) {
		return
	}

	result, err := h.auth.RegisterJobSeeker(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// RegisterCompany обрабатывает POST /auth/register/company.
func (h *AuthHandler) RegisterCompany(c *gin.Context) {
	var req service.RegisterCompanyInput
	if !common.BindJSON(c, &req) {
		return
	}

	result, err := h.auth.RegisterCompany(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Login обрабатывает POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginInput
	if !common.BindJSON(c, &req) {
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Refresh обрабатывает POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if !common.BindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		response.BadRequest(c, "refresh_token é obrigatório")
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, pair)
}
