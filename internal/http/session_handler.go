package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"archetype-quiz/internal/service"
)

// SessionHandler crea sesiones de quiz.
type SessionHandler struct {
	logger *zap.Logger
	tokens *service.SessionTokenService
}

func NewSessionHandler(logger *zap.Logger, tokens *service.SessionTokenService) *SessionHandler {
	return &SessionHandler{logger: logger, tokens: tokens}
}

// CreateSession maneja POST /session: genera un session id opaco y devuelve
// el token que lo transporta. El estado de la sesión se crea perezosamente
// con la primera respuesta.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	sessionID := uuid.NewString()

	token, err := h.tokens.Issue(sessionID)
	if err != nil {
		h.logger.Error("issue session token failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id": sessionID,
		"token":      token,
		"expires_in": int64(h.tokens.TTL().Seconds()),
	})
}
