package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv        string `yaml:"app_env"`
	HTTPAddr      string `yaml:"http_addr"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`

	TavilyAPIKey         string `yaml:"tavily_api_key"`
	FirecrawlAPIKey      string `yaml:"firecrawl_api_key"`
	ScrapeCreatorsAPIKey string `yaml:"scrapecreators_api_key"`

	LLMProvider     string `yaml:"llm_provider"`
	GeminiAPIKey    string `yaml:"gemini_api_key"`
	DefaultLLMModel string `yaml:"default_llm_model"`

	TaskMaxRetries int `yaml:"task_max_retries"`

	SearchMaxResults    int `yaml:"search_max_results"`
	ExtractPollSeconds  int `yaml:"extract_poll_seconds"`
	ExtractPollAttempts int `yaml:"extract_poll_attempts"`
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// Load builds the configuration from an optional YAML file (CONFIG_FILE)
// overlaid with environment variables. Env always wins.
func Load() Config {
	var cfg Config
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if b, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(b, &cfg)
		}
	}

	cfg.AppEnv = getenv("APP_ENV", defStr(cfg.AppEnv, "development"))
	cfg.HTTPAddr = getenv("HTTP_ADDR", defStr(cfg.HTTPAddr, ":8082"))
	cfg.RedisAddr = getenv("REDIS_ADDR", defStr(cfg.RedisAddr, "127.0.0.1:6379"))
	cfg.RedisPassword = getenv("REDIS_PASSWORD", cfg.RedisPassword)

	cfg.TavilyAPIKey = getenv("TAVILY_API_KEY", cfg.TavilyAPIKey)
	cfg.FirecrawlAPIKey = getenv("FIRECRAWL_API_KEY", cfg.FirecrawlAPIKey)
	cfg.ScrapeCreatorsAPIKey = getenv("SCRAPECREATORS_API_KEY", cfg.ScrapeCreatorsAPIKey)

	cfg.LLMProvider = getenv("LLM_PROVIDER", defStr(cfg.LLMProvider, "gemini"))
	cfg.GeminiAPIKey = getenv("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.DefaultLLMModel = getenv("DEFAULT_LLM_MODEL", defStr(cfg.DefaultLLMModel, "gemini-2.0-flash-exp"))

	cfg.TaskMaxRetries = getenvInt("TASK_MAX_RETRIES", defInt(cfg.TaskMaxRetries, 0))

	cfg.SearchMaxResults = getenvInt("SEARCH_MAX_RESULTS", defInt(cfg.SearchMaxResults, 5))
	cfg.ExtractPollSeconds = getenvInt("EXTRACT_POLL_SECONDS", defInt(cfg.ExtractPollSeconds, 5))
	cfg.ExtractPollAttempts = getenvInt("EXTRACT_POLL_ATTEMPTS", defInt(cfg.ExtractPollAttempts, 20))

	if cfg.RedisAddr == "" {
		panic(fmt.Errorf("REDIS_ADDR is required"))
	}
	return cfg
}

func defStr(current, def string) string {
	if current != "" {
		return current
	}
	return def
}

func defInt(current, def int) int {
	if current != 0 {
		return current
	}
	return def
}
