package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"archetype-quiz/internal/bank"
	"archetype-quiz/internal/config"
	"archetype-quiz/internal/db"
	"archetype-quiz/internal/domain"
	apihttp "archetype-quiz/internal/http"
	"archetype-quiz/internal/model"
	"archetype-quiz/internal/repository"
	"archetype-quiz/internal/service"
	"archetype-quiz/internal/session"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Banco de preguntas: sin archivo el servicio arranca degradado (todas
	// las consultas fallan con index inválido) pero arranca.
	questionBank, err := bank.Load(cfg.QuestionsPath)
	if err != nil {
		logger.Warn("question bank load failed, starting with empty bank", zap.Error(err), zap.String("path", cfg.QuestionsPath))
		questionBank = bank.Empty()
	} else {
		logger.Info("question bank loaded", zap.Int("questions", questionBank.Len()))
	}

	// Modelo: su ausencia no tumba el proceso; classify responde
	// ErrModelUnavailable mientras el resto del servicio sigue vivo.
	var classifier model.Classifier
	if loaded, err := model.LoadSoftmax(cfg.ModelPath); err != nil {
		logger.Warn("model artifact load failed, classification disabled", zap.Error(err), zap.String("path", cfg.ModelPath))
	} else {
		classifier = loaded
	}

	schema := domain.DefaultSchema
	catalog := domain.DefaultCatalog
	adapter := service.NewClassifierAdapter(classifier, schema, catalog, logger)
	if classifier != nil {
		// Un modelo cargado con dimensiones que no cuadran es un defecto de
		// despliegue: fallar ahora, no en el primer request.
		if err := adapter.ValidateDimensions(); err != nil {
			logger.Fatal("model dimensions do not match schema/catalog", zap.Error(err))
		}
		logger.Info("model loaded",
			zap.Int("features", classifier.NumFeatures()),
			zap.Int("classes", classifier.NumClasses()),
		)
	}

	sessionTTL := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	sessionStore := session.NewMemoryStore(sessionTTL)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory session store", zap.Error(err))
		} else {
			sessionStore = session.NewRedisStore(redisClient, sessionTTL)
		}
		cancel()
	}

	var resultRepo repository.ResultRepository
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			logger.Warn("db connect failed, results will not be persisted", zap.Error(err))
		} else {
			ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
			if err := db.Ping(ctxPing, pool); err != nil {
				logger.Warn("db ping failed, results will not be persisted", zap.Error(err))
				pool.Close()
			} else {
				defer pool.Close()
				resultRepo = repository.NewPgResultRepository(pool)
			}
			cancel()
		}
	}

	quizSvc := service.NewQuizService(questionBank, adapter, sessionStore, resultRepo, schema, catalog, cfg.TopK, logger)
	tokenSvc := service.NewSessionTokenService(cfg.SessionSecret, sessionTTL)

	sessionHandler := apihttp.NewSessionHandler(logger, tokenSvc)
	quizHandler := apihttp.NewQuizHandler(logger, quizSvc)
	router := apihttp.NewRouter(logger, sessionHandler, quizHandler, tokenSvc)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
