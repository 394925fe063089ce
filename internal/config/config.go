package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort          string `env:"HTTP_PORT" envDefault:"8080"`
	QuestionsPath     string `env:"QUESTIONS_PATH" envDefault:"questions.json"`
	ModelPath         string `env:"MODEL_PATH" envDefault:"personality_model.json"`
	SessionSecret     string `env:"SESSION_SECRET,required"`
	SessionTTLMinutes int    `env:"SESSION_TTL_MINUTES" envDefault:"60"`
	TopK              int    `env:"TOP_K" envDefault:"3"`
	DatabaseURL       string `env:"DATABASE_URL"`
	RedisAddr         string `env:"REDIS_ADDR"`
	RedisPassword     string `env:"REDIS_PASSWORD"`
	RedisDB           int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
