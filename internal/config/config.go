package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultTargetURL = "https://detail.zol.com.cn/cell_phone_index/subcate57_list_1.html"
	defaultBaseURL   = "https://detail.zol.com.cn"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

type Config struct {
	TargetURL    string
	BaseURL      string
	UserAgent    string
	FetchTimeout time.Duration
	PageEncoding string
	DataDir      string
	RulesFile    string

	DatabaseURL    string
	RedisURL       string
	PushgatewayURL string

	LogLevel string
}

func Load() (*Config, error) {
	// .env da raiz do projeto, depois o diretório atual
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()

	cfg := &Config{
		TargetURL:      getEnv("TARGET_URL", defaultTargetURL),
		BaseURL:        getEnv("BASE_URL", defaultBaseURL),
		UserAgent:      getEnv("USER_AGENT", defaultUserAgent),
		PageEncoding:   getEnv("PAGE_ENCODING", "gbk"),
		DataDir:        getEnv("DATA_DIR", "data"),
		RulesFile:      os.Getenv("RULES_FILE"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		PushgatewayURL: os.Getenv("PUSHGATEWAY_URL"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	timeout, err := time.ParseDuration(getEnv("FETCH_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("invalid FETCH_TIMEOUT: must be positive, got %s", timeout)
	}
	cfg.FetchTimeout = timeout

	return cfg, nil
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
