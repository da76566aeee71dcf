package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/extrasite-backend/internal/http/response"
)

// Context ключи для gin.Context.
const (
	ContextUserIDKey = "userID"
	ContextRoleKey   = "role"
	ContextActorKey  = "actor"
)

// AccessParser проверяет access токен. Реализуется service.TokenManager.
type AccessParser interface {
	ParseAccess(token string) (vo.Actor, error)
}

// AuthMiddleware проверяет JWT access токен и кладёт Actor в контекст.
func AuthMiddleware(tokens AccessParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			response.Unauthorized(c, "autenticação necessária")
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		actor, err := tokens.ParseAccess(raw)
		if err != nil || actor.ID == uuid.Nil {
			response.Unauthorized(c, "token inválido ou expirado")
			return
		}

		SetActor(c, actor)
		c.Next()
	}
}

// RequireRole пропускает только перечисленные роли. Ставится после AuthMiddleware.
func RequireRole(roles ...vo.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			response.Unauthorized(c, "autenticação necessária")
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		response.Forbidden(c, "acesso negado")
	}
}

// SetActor сохраняет участника запроса. Отдельные ключи userID и role остаются для логов.
func SetActor(c *gin.Context, actor vo.Actor) {
	c.Set(ContextActorKey, actor)
	c.Set(ContextUserIDKey, actor.ID)
	c.Set(ContextRoleKey, string(actor.Role))
}

// ActorFrom достаёт участника, положенного AuthMiddleware.
func ActorFrom(c *gin.Context) (vo.Actor, bool) {
	raw, exists := c.Get(ContextActorKey)
	if !exists {
		return vo.Actor{}, false
	}
	actor, ok := raw.(vo.Actor)
	return actor, ok
}
