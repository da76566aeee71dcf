package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/extrasite-backend/internal/http/response"
)

// UUIDValidator проверяет, что параметр пути является валидным UUID.
// Использование: api.GET("/jobs/:id", UUIDValidator("id"), handler.Get)
func UUIDValidator(paramNames ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, name := range paramNames {
			raw := c.Param(name)
			if raw == "" {
				response.BadRequest(c, "parâmetro "+name+" é obrigatório")
				return
			}
			if _, err := uuid.Parse(raw); err != nil {
				response.BadRequest(c, "parâmetro "+name+" deve ser um UUID válido")
				return
			}
		}
		c.Next()
	}
}
