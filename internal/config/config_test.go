package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("LLM_API_KEY", "sk-test")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LLMProvider != ProviderAnthropic {
		t.Fatalf("expected anthropic provider, got %q", cfg.LLMProvider)
	}
	if cfg.MaxMessageLength != 10000 || cfg.MaxConversationTurns != 20 {
		t.Fatalf("unexpected guardrail defaults: %d %d", cfg.MaxMessageLength, cfg.MaxConversationTurns)
	}
	if cfg.RequestTimeout() != 60*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.RequestTimeout())
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:5173" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadConfigMissingCredential(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for empty LLM_API_KEY")
	}
}

func TestLoadConfigInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"provider":    {"LLM_PROVIDER", "gemini"},
		"timeout":     {"REQUEST_TIMEOUT_MS", "0"},
		"max length":  {"MAX_MESSAGE_LENGTH", "-1"},
		"max turns":   {"MAX_CONVERSATION_TURNS", "0"},
		"not numeric": {"LLM_MAX_TOKENS", "lots"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("LLM_API_KEY", "sk-test")
			t.Setenv(kv[0], kv[1])
			if _, err := LoadConfig(); err == nil {
				t.Fatalf("expected error for %s=%s", kv[0], kv[1])
			}
		})
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("LLM_PROVIDER", " OpenAI ")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("CHAT_RATE_LIMIT", "5")
	t.Setenv("CHAT_RATE_WINDOW_SECONDS", "30")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LLMProvider != ProviderOpenAI {
		t.Fatalf("expected openai provider, got %q", cfg.LLMProvider)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
	if cfg.ChatRateWindow() != 30*time.Second {
		t.Fatalf("unexpected window: %s", cfg.ChatRateWindow())
	}
}

func TestLoadStoreConfigWithoutCredential(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("DATA_DIR", "/tmp/profiles")

	cfg, err := LoadStoreConfig()
	if err != nil {
		t.Fatalf("load store config: %v", err)
	}
	if cfg.DataDir != "/tmp/profiles" {
		t.Fatalf("unexpected data dir: %q", cfg.DataDir)
	}
}
