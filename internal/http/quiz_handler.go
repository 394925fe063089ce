package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"archetype-quiz/internal/service"
)

// QuizHandler expone el motor de scoring por HTTP.
type QuizHandler struct {
	logger *zap.Logger
	quiz   *service.QuizService
}

func NewQuizHandler(logger *zap.Logger, quiz *service.QuizService) *QuizHandler {
	return &QuizHandler{logger: logger, quiz: quiz}
}

// Healthz maneja GET /healthz. Reporta si el modelo está cargado para que
// la ausencia del artefacto sea visible antes del primer submit.
func (h *QuizHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"model_available": h.quiz.ModelAvailable(),
		"questions":       h.quiz.QuestionCount(),
	})
}

// GetQuestion maneja GET /question/:index. Past the end of the bank it
// answers the quiz-complete sentinel the original client expects, never an
// error.
func (h *QuizHandler) GetQuestion(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question index"})
		return
	}

	question, ok := h.quiz.Question(index)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"message": "Quiz complete!"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"prompt":  question.Prompt,
		"options": question.Options,
		"index":   index,
		"total":   h.quiz.QuestionCount(),
	})
}

// SubmitAnswer maneja POST /answer.
func (h *QuizHandler) SubmitAnswer(c *gin.Context) {
	sessionID, ok := SessionIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}

	var req struct {
		QuestionIndex *int   `json:"question_index" binding:"required"`
		ChosenOption  string `json:"chosen_option" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid submit answer request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'question_index' or 'chosen_option'"})
		return
	}

	result, err := h.quiz.Submit(c.Request.Context(), sessionID, *req.QuestionIndex, req.ChosenOption)
	if err != nil {
		h.writeSubmitError(c, sessionID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"top_archetypes": result.Top,
		"updated_scores": result.Scores,
		"answered":       result.Answered,
	})
}

// GetResult maneja GET /result: el ranking final más los porcentajes "match"
// renormalizados que muestra el cliente.
func (h *QuizHandler) GetResult(c *gin.Context) {
	sessionID, ok := SessionIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}

	result, err := h.quiz.Result(c.Request.Context(), sessionID)
	if err != nil {
		h.writeSubmitError(c, sessionID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"top_archetypes": result.Top,
		"match":          service.NormalizeTopK(result.Top),
		"updated_scores": result.Scores,
		"answered":       result.Answered,
	})
}

// writeSubmitError traduce la taxonomía de errores del motor a HTTP: input
// inválido es 400 (reintentar con input corregido), modelo ausente es 503,
// todo lo demás es 500 con detalle solo en logs.
func (h *QuizHandler) writeSubmitError(c *gin.Context, sessionID string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidQuestionIndex):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question index"})
	case errors.Is(err, service.ErrInvalidOptionKey):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid answer choice"})
	case errors.Is(err, service.ErrModelUnavailable):
		h.logger.Error("classifier unavailable", zap.String("session_id", sessionID))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "model not available"})
	case errors.Is(err, service.ErrSchemaMismatch):
		h.logger.Error("schema mismatch", zap.Error(err), zap.String("session_id", sessionID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "model input shape mismatch"})
	default:
		h.logger.Error("submit failed", zap.Error(err), zap.String("session_id", sessionID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
