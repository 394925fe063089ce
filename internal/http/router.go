package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"archetype-quiz/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	sessionH *SessionHandler,
	quizH *QuizHandler,
	tokens *service.SessionTokenService,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/healthz", quizH.Healthz)

	r.POST("/session", sessionH.CreateSession)
	r.GET("/question/:index", quizH.GetQuestion)

	answers := r.Group("/", SessionAuthMiddleware(tokens))
	answers.POST("/answer", quizH.SubmitAnswer)
	answers.GET("/result", quizH.GetResult)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
