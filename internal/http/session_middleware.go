package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"archetype-quiz/internal/service"
)

const sessionIDKey = "quiz_session_id"

// SessionAuthMiddleware valida el token de sesión y guarda el session id en
// el contexto.
func SessionAuthMiddleware(tokens *service.SessionTokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokens == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session tokens not configured"})
			c.Abort()
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session token"})
			c.Abort()
			return
		}

		raw := strings.TrimSpace(header[len("Bearer "):])
		claims, err := tokens.Parse(raw)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
			c.Abort()
			return
		}

		c.Set(sessionIDKey, claims.SessionID)
		c.Next()
	}
}

// SessionIDFromContext obtiene el session id colocado por el middleware.
func SessionIDFromContext(c *gin.Context) (string, bool) {
	val, ok := c.Get(sessionIDKey)
	if !ok {
		return "", false
	}
	id, ok := val.(string)
	return id, ok && id != ""
}
