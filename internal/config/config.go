package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	AllowedOrigin string
	// LLM
	OpenAIAPIKey string
	Model        string
	Temperature  float32
	// Database (optional conversation log)
	DatabaseURL string
	// Remote Apollo MCP server for the search agent
	ApolloMCPURL string
	// Which search backend drives the search pipeline: "mock" or "apollo"
	SearchBackend string
	// Intent classifier spec (YAML); built-in defaults used when missing
	IntentSpecPath string
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Port:           getEnvDefault("PORT", "8080"),
		AllowedOrigin:  getEnvDefault("ALLOWED_ORIGIN", "*"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		Model:          getEnvDefault("OPENAI_MODEL", "gpt-4o-mini"),
		Temperature:    getEnvFloatDefault("AGENT_TEMPERATURE", 0.7),
		DatabaseURL:    os.Getenv("DB_URL"),
		ApolloMCPURL:   os.Getenv("APOLLO_MCP_URL"),
		SearchBackend:  strings.ToLower(getEnvDefault("SEARCH_BACKEND", "mock")),
		IntentSpecPath: getEnvDefault("INTENT_SPEC_PATH", "./prompts/intent.yaml"),
	}
	if cfg.OpenAIAPIKey == "" {
		log.Println("warning: OPENAI_API_KEY is not set; server startup will fail until provided")
	}
	if cfg.SearchBackend == "apollo" && cfg.ApolloMCPURL == "" {
		log.Println("warning: SEARCH_BACKEND=apollo but APOLLO_MCP_URL is not set; falling back to mock search")
		cfg.SearchBackend = "mock"
	}
	return cfg
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvFloatDefault(key string, def float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 32); err == nil {
			return float32(f)
		}
	}
	return def
}
