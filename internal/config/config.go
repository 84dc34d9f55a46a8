package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// QuestionSource selects where the question bank is loaded from.
type QuestionSource string

const (
	QuestionSourceFile  QuestionSource = "file"
	QuestionSourceMongo QuestionSource = "mongo"
)

// Config holds all server configuration, read from the environment.
type Config struct {
	Port          string `json:"port"`
	PublicBaseURL string `json:"publicBaseUrl"`

	LogLevel  string `json:"logLevel"`
	LogFormat string `json:"logFormat"`

	RoundBuffer   time.Duration `json:"roundBuffer"`
	CorrectReward int           `json:"correctReward"`

	QuestionSource QuestionSource `json:"questionSource"`
	QuestionsFile  string         `json:"questionsFile"`
	MongoURI       string         `json:"-"` // may carry credentials
	MongoDB        string         `json:"mongoDb"`

	// Empty RedisURI or NATSURL disables the matching event sink.
	RedisURI string `json:"-"`
	NATSURL  string `json:"natsUrl"`

	AllowedOrigins []string `json:"allowedOrigins"`

	WSRatePerSec float64 `json:"wsRatePerSec"`
	WSBurst      int     `json:"wsBurst"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	port := getEnvOrDefault("PORT", "8080")
	cfg := &Config{
		Port:           port,
		PublicBaseURL:  getEnvOrDefault("PUBLIC_BASE_URL", "http://localhost:"+port),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:      getEnvOrDefault("LOG_FORMAT", "console"),
		QuestionSource: QuestionSource(getEnvOrDefault("QUESTION_SOURCE", string(QuestionSourceFile))),
		QuestionsFile:  getEnvOrDefault("QUESTIONS_FILE", "questions.yaml"),
		MongoURI:       getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getEnvOrDefault("MONGO_DB", "quizroom"),
		RedisURI:       os.Getenv("REDIS_URI"),
		NATSURL:        os.Getenv("NATS_URL"),
		AllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
	}

	bufferMs, err := getIntOrDefault("ROUND_BUFFER_MS", 250)
	if err != nil {
		return nil, err
	}
	cfg.RoundBuffer = time.Duration(bufferMs) * time.Millisecond

	if cfg.CorrectReward, err = getIntOrDefault("CORRECT_REWARD", 100); err != nil {
		return nil, err
	}
	if cfg.WSBurst, err = getIntOrDefault("WS_BURST", 40); err != nil {
		return nil, err
	}
	rate, err := getIntOrDefault("WS_RATE_PER_SEC", 20)
	if err != nil {
		return nil, err
	}
	cfg.WSRatePerSec = float64(rate)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	switch c.QuestionSource {
	case QuestionSourceFile, QuestionSourceMongo:
	default:
		return fmt.Errorf("QUESTION_SOURCE must be %q or %q, got %q", QuestionSourceFile, QuestionSourceMongo, c.QuestionSource)
	}
	if c.RoundBuffer < 0 {
		return fmt.Errorf("ROUND_BUFFER_MS must not be negative")
	}
	if c.CorrectReward <= 0 {
		return fmt.Errorf("CORRECT_REWARD must be positive")
	}
	if c.WSRatePerSec <= 0 || c.WSBurst <= 0 {
		return fmt.Errorf("WS_RATE_PER_SEC and WS_BURST must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
