package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	LLM    LLMConfig    `yaml:"llm"`
	STT    STTConfig    `yaml:"stt"`
	Chat   ChatConfig   `yaml:"chat"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type LLMConfig struct {
	GroqKey         string `yaml:"groq_api_key"`
	GroqBaseURL     string `yaml:"groq_base_url"`
	AnthropicKey    string `yaml:"anthropic_api_key"`
	OllamaURL       string `yaml:"ollama_url"`
	DefaultProvider string `yaml:"default_provider"`
	DefaultModel    string `yaml:"default_model"`
}

type STTConfig struct {
	Backend      string `yaml:"backend"` // "groq" or "local"
	APIKey       string `yaml:"api_key"`
	BaseURL      string `yaml:"base_url"`
	Model        string `yaml:"model"`
	LocalBaseURL string `yaml:"local_base_url"` // default: "http://localhost:8178"
}

type ChatConfig struct {
	// Mock serves canned replies instead of calling a provider. Dev only.
	Mock bool `yaml:"mock"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			CORSOrigins: []string{"*"},
		},
		LLM: LLMConfig{
			GroqBaseURL:     "https://api.groq.com/openai/v1",
			OllamaURL:       "http://localhost:11434",
			DefaultProvider: "groq",
			DefaultModel:    "llama3-70b-8192",
		},
		STT: STTConfig{
			Backend:      "groq",
			BaseURL:      "https://api.groq.com/openai/v1",
			Model:        "whisper-large-v3-turbo",
			LocalBaseURL: "http://localhost:8178",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables. Missing API keys are not
// an error; calls to the affected provider fail instead.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	port, err := getEnvInt("SERVER_PORT", cfg.Server.Port)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	mock, err := getEnvBool("CHAT_MOCK", cfg.Chat.Mock)
	if err != nil {
		return nil, fmt.Errorf("invalid CHAT_MOCK: %w", err)
	}

	cfg.Server.Host = getEnv("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = port
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}

	cfg.LLM.GroqKey = getEnv("GROQ_API_KEY", cfg.LLM.GroqKey)
	cfg.LLM.GroqBaseURL = getEnv("GROQ_BASE_URL", cfg.LLM.GroqBaseURL)
	cfg.LLM.AnthropicKey = getEnv("ANTHROPIC_API_KEY", cfg.LLM.AnthropicKey)
	cfg.LLM.OllamaURL = getEnv("OLLAMA_URL", cfg.LLM.OllamaURL)
	cfg.LLM.DefaultProvider = getEnv("LLM_DEFAULT_PROVIDER", cfg.LLM.DefaultProvider)
	cfg.LLM.DefaultModel = getEnv("LLM_DEFAULT_MODEL", cfg.LLM.DefaultModel)

	cfg.STT.Backend = getEnv("STT_BACKEND", cfg.STT.Backend)
	cfg.STT.APIKey = getEnv("GROQ_API_KEY", cfg.STT.APIKey)
	if cfg.STT.APIKey == "" {
		cfg.STT.APIKey = cfg.LLM.GroqKey
	}
	cfg.STT.BaseURL = getEnv("STT_BASE_URL", cfg.STT.BaseURL)
	cfg.STT.Model = getEnv("STT_MODEL", cfg.STT.Model)
	cfg.STT.LocalBaseURL = getEnv("STT_LOCAL_BASE_URL", cfg.STT.LocalBaseURL)

	cfg.Chat.Mock = mock
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Warnings lists settings that leave part of the service unable to reach its
// provider. They are logged at startup, never fatal.
func (c *Config) Warnings() []string {
	var w []string
	if c.LLM.GroqKey == "" && !c.Chat.Mock {
		w = append(w, "GROQ_API_KEY not set: chat requests to groq models will fail")
	}
	if c.STT.Backend != "local" && c.STT.APIKey == "" {
		w = append(w, "GROQ_API_KEY not set: transcription requests will fail")
	}
	return w
}

// SlogLevel parses Log.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
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

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseBool(v)
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
