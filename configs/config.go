package configs

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Auth       AuthConfig
	AI         AIConfig
	Simulation SimulationConfig
	Cron       CronConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port     string
	OpsPort  string
	Env      string
	LogLevel string
	Timezone string
}

// AuthConfig holds session and login configuration
type AuthConfig struct {
	JWTSecret    string
	SessionTTL   time.Duration
	DemoPasscode string
}

// AIConfig holds the text generation endpoint configuration
type AIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// SimulationConfig holds the tunable constants of the simulators
type SimulationConfig struct {
	LiveBotBalance float64
	TestBotBalance float64

	DetectionProbability float64 // chance a scan cycle detects a trade
	SuccessProbability   float64 // chance an execution settles
	PnLLowerBound        float64 // SELL delta lower bound, fraction of trade amount
	PnLUpperBound        float64 // SELL delta upper bound, fraction of trade amount
	DefaultTradeAmount   float64
	FailureLimit         int // consecutive execution failures before Error; 0 disables

	APICheckSuccessProbability float64
}

// CronConfig holds housekeeping schedules
type CronConfig struct {
	SessionSweep string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:     getEnv("PORT", "8080"),
			OpsPort:  getEnv("OPS_PORT", "9090"),
			Env:      getEnv("GO_ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
			Timezone: getEnv("TZ", "UTC"),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("JWT_SECRET", "default-secret-change-in-production"),
			SessionTTL:   getEnvDuration("SESSION_TTL", 24*time.Hour),
			DemoPasscode: getEnv("DEMO_PASSCODE", "dummypassword"),
		},
		AI: AIConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			BaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			Timeout: getEnvDuration("AI_TIMEOUT", 60*time.Second),
		},
		Simulation: SimulationConfig{
			LiveBotBalance:             getEnvFloat("LIVE_BOT_BALANCE", 5.0),
			TestBotBalance:             getEnvFloat("TEST_BOT_BALANCE", 0.5),
			DetectionProbability:       getEnvFloat("BOT_DETECTION_PROBABILITY", 0.4),
			SuccessProbability:         getEnvFloat("BOT_SUCCESS_PROBABILITY", 0.9),
			PnLLowerBound:              getEnvFloat("BOT_PNL_LOWER_BOUND", -0.4),
			PnLUpperBound:              getEnvFloat("BOT_PNL_UPPER_BOUND", 0.6),
			DefaultTradeAmount:         getEnvFloat("BOT_DEFAULT_TRADE_AMOUNT", 0.1),
			FailureLimit:               getEnvInt("BOT_FAILURE_LIMIT", 3),
			APICheckSuccessProbability: getEnvFloat("API_CHECK_SUCCESS_PROBABILITY", 0.75),
		},
		Cron: CronConfig{
			SessionSweep: getEnv("SESSION_SWEEP_SCHEDULE", "@every 1m"),
		},
	}
}

// Validate checks that the simulation constants describe valid distributions
func (c *Config) Validate() error {
	sim := c.Simulation
	for name, p := range map[string]float64{
		"BOT_DETECTION_PROBABILITY":     sim.DetectionProbability,
		"BOT_SUCCESS_PROBABILITY":       sim.SuccessProbability,
		"API_CHECK_SUCCESS_PROBABILITY": sim.APICheckSuccessProbability,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s must be within [0, 1], got %v", name, p)
		}
	}
	if sim.PnLLowerBound >= sim.PnLUpperBound {
		return fmt.Errorf("BOT_PNL_LOWER_BOUND (%v) must be below BOT_PNL_UPPER_BOUND (%v)", sim.PnLLowerBound, sim.PnLUpperBound)
	}
	if sim.DefaultTradeAmount < 0 {
		return fmt.Errorf("BOT_DEFAULT_TRADE_AMOUNT must not be negative")
	}
	if sim.FailureLimit < 0 {
		return fmt.Errorf("BOT_FAILURE_LIMIT must not be negative")
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
