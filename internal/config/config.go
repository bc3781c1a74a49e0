package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/clawbot69/clawnopoly/internal/game"
	"github.com/clawbot69/clawnopoly/internal/logger"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	AppPort     string
	AppVersion  string
	DatabaseURL string // optional; postgres:// or sqlite://

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret     string
	AllowedOrigin string
	LogLevel      string
	LogJSON       bool

	Rules      game.Rules
	ChaosDelay time.Duration
	IdleTTL    time.Duration

	APIRateLimit  int
	APIRateWindow time.Duration
}

// Load reads .env (if any) and the environment. A missing JWT_SECRET or an
// unreadable RULES_FILE is fatal.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := FromEnv()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	return cfg
}

// FromEnv builds the config from the current environment.
func FromEnv() (*Config, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	rules := game.DefaultRules()
	if path := os.Getenv("RULES_FILE"); path != "" {
		r, err := LoadRules(path)
		if err != nil {
			return nil, err
		}
		rules = r
	}

	return &Config{
		AppPort:       envString("APP_PORT", "8080"),
		AppVersion:    envString("APP_VERSION", "dev"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),
		JWTSecret:     jwtSecret,
		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),
		LogLevel:      envString("LOG_LEVEL", "info"),
		LogJSON:       envBool("LOG_JSON", false),
		Rules:         rules,
		ChaosDelay:    time.Duration(envInt("CHAOS_DELAY_MS", 1500)) * time.Millisecond,
		IdleTTL:       time.Duration(envInt("GAME_IDLE_TTL_MINUTES", 120)) * time.Minute,
		APIRateLimit:  envInt("API_RATE_LIMIT", 60),
		APIRateWindow: time.Duration(envInt("API_RATE_WINDOW_SECONDS", 60)) * time.Second,
	}, nil
}

// LoadRules reads a YAML rules file. Keys left out keep their defaults.
func LoadRules(path string) (game.Rules, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return game.Rules{}, fmt.Errorf("read rules file: %w", err)
	}
	rules := game.DefaultRules()
	if err := yaml.UnmarshalStrict(b, &rules); err != nil {
		return game.Rules{}, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	return rules, nil
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		logger.Warn("ignoring invalid env value", "key", key, "value", v)
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
