package config

import (
	"os"
	"time"
)

// Config holds the sidecar configuration.
type Config struct {
	Host     string
	Port     int
	LogLevel string

	MemoryDir string

	// Grok (x.ai) credential. Empty means mock mode: every model-call path
	// returns canned responses without touching the network.
	GrokAPIKey  string
	GrokBaseURL string
	ChatModel   string
	VisionModel string
	EmbedModel  string

	// Per-call timeout for remote model and embedding requests.
	CallTimeout time.Duration

	// Optional override files for the core memory blocks.
	PersonaFile string
	HumanFile   string
}

// DefaultConfig returns a Config with sensible defaults, applying environment
// overrides. The sidecar binds to loopback only: it exists for the host
// application on the same machine.
func DefaultConfig() *Config {
	cfg := &Config{
		Host:        "127.0.0.1",
		Port:        8000,
		LogLevel:    "info",
		MemoryDir:   MemoryDir(),
		GrokAPIKey:  os.Getenv("GROK_API_KEY"),
		GrokBaseURL: "https://api.x.ai/v1",
		ChatModel:   "grok-4-1-fast-non-reasoning",
		VisionModel: "grok-2-vision",
		EmbedModel:  "text-embedding-3-small",
		CallTimeout: 60 * time.Second,
	}

	if url := os.Getenv("CLIPPY_GROK_BASE_URL"); url != "" {
		cfg.GrokBaseURL = url
	}
	if model := os.Getenv("CLIPPY_CHAT_MODEL"); model != "" {
		cfg.ChatModel = model
	}
	if model := os.Getenv("CLIPPY_VISION_MODEL"); model != "" {
		cfg.VisionModel = model
	}
	if level := os.Getenv("CLIPPY_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	return cfg
}

// MockMode reports whether the sidecar runs without a model credential.
func (c *Config) MockMode() bool {
	return c.GrokAPIKey == ""
}
