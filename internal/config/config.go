package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort           string  `env:"HTTP_PORT" envDefault:"3000"`
	AppEnv             string  `env:"APP_ENV" envDefault:"development"`
	LLMAPIKey          string  `env:"LLM_API_KEY"`
	LLMBaseURL         string  `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel           string  `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMTimeoutSeconds  int     `env:"LLM_TIMEOUT_SECONDS" envDefault:"30"`
	LLMMaxTokens       int     `env:"LLM_MAX_TOKENS" envDefault:"1500"`
	LLMTemperature     float64 `env:"LLM_TEMPERATURE" envDefault:"0.3"`
	DatabaseURL        string  `env:"DATABASE_URL"`
	RedisAddr          string  `env:"REDIS_ADDR"`
	RedisPassword      string  `env:"REDIS_PASSWORD"`
	RedisDB            int     `env:"REDIS_DB" envDefault:"0"`
	CacheTTLMinutes    int     `env:"CACHE_TTL_MINUTES" envDefault:"60"`
	RateLimitPerMinute int     `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`
	APIJWTSecret       string  `env:"API_JWT_SECRET"`
	MaxQueryLength     int     `env:"MAX_QUERY_LENGTH" envDefault:"500"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LLMEnabled indica si hay credenciales para intentar el análisis con LLM.
func (c *Config) LLMEnabled() bool {
	return c.LLMAPIKey != ""
}

func (c *Config) LLMTimeout() time.Duration {
	if c.LLMTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.LLMTimeoutSeconds) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	if c.CacheTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}
