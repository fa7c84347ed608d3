// Package config loads service configuration from the environment. A .env
// file in the working directory is honored when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	TTS      TTSConfig
	Paths    PathsConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	CORSOrigins []string
}

type DatabaseConfig struct {
	URL            string
	MaxConns       int
	MinConns       int
	MigrationsPath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	// JWTSecret enables bearer-token auth on the API when set.
	JWTSecret string
}

type TTSConfig struct {
	Backend        string // "chatterbox" or "openai"
	ChatterboxURL  string
	ChatterboxKey  string
	OpenAIKey      string
	OpenAIModel    string
	OpenAIVoice    string
	SampleRate     int
	TimeoutSeconds int
}

type PathsConfig struct {
	OutputsDir string
	VoicesDir  string
}

type WorkerConfig struct {
	// Concurrency defaults to 1: the synthesis backend serves one request
	// at a time.
	Concurrency int
}

func Load() (*Config, error) {
	godotenv.Load()

	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	sampleRate, err := getEnvInt("TTS_SAMPLE_RATE", 24000)
	if err != nil {
		return nil, fmt.Errorf("invalid TTS_SAMPLE_RATE: %w", err)
	}

	ttsTimeout, err := getEnvInt("TTS_TIMEOUT_SECONDS", 300)
	if err != nil {
		return nil, fmt.Errorf("invalid TTS_TIMEOUT_SECONDS: %w", err)
	}

	concurrency, err := getEnvInt("WORKER_CONCURRENCY", 1)
	if err != nil {
		return nil, fmt.Errorf("invalid WORKER_CONCURRENCY: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        port,
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConns:       maxConns,
			MinConns:       minConns,
			MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		TTS: TTSConfig{
			Backend:        getEnv("TTS_BACKEND", "chatterbox"),
			ChatterboxURL:  getEnv("CHATTERBOX_URL", "http://localhost:8000"),
			ChatterboxKey:  getEnv("CHATTERBOX_API_KEY", ""),
			OpenAIKey:      getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:    getEnv("TTS_OPENAI_MODEL", "tts-1"),
			OpenAIVoice:    getEnv("TTS_OPENAI_VOICE", "alloy"),
			SampleRate:     sampleRate,
			TimeoutSeconds: ttsTimeout,
		},
		Paths: PathsConfig{
			OutputsDir: getEnv("OUTPUTS_DIR", "outputs"),
			VoicesDir:  getEnv("VOICES_DIR", "voices"),
		},
		Worker: WorkerConfig{
			Concurrency: concurrency,
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var missing []string
	if c.TTS.Backend == "openai" && c.TTS.OpenAIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
