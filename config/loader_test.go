package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadFromEnv_Host(t *testing.T) {
	t.Setenv("CHATSERVE_HOST", "127.0.0.1")
	cfg := &Config{}
	LoadFromEnv(cfg)
	if cfg.Host != "127.0.0.1" {
		t.Errorf("Host = %q, want %q", cfg.Host, "127.0.0.1")
	}
}

func TestLoadFromEnv_Port(t *testing.T) {
	t.Setenv("CHATSERVE_PORT", "30020")
	cfg := &Config{}
	LoadFromEnv(cfg)
	if cfg.Port != 30020 {
		t.Errorf("Port = %d, want 30020", cfg.Port)
	}
}

func TestLoadFromEnv_NoBanner(t *testing.T) {
	for _, v := range []string{"1", "true", "yes", "TRUE", "Yes"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("CHATSERVE_NO_BANNER", v)
			cfg := &Config{}
			LoadFromEnv(cfg)
			if !cfg.NoBanner {
				t.Error("NoBanner should be true")
			}
		})
	}
}

func TestLoadFromEnv_Protocol(t *testing.T) {
	t.Setenv("CHATSERVE_MAX_FRAME", "1024")
	t.Setenv("CHATSERVE_HANDSHAKE_TIMEOUT", "10")
	cfg := &Config{}
	LoadFromEnv(cfg)
	if cfg.MaxFrameSize != 1024 {
		t.Errorf("MaxFrameSize = %d, want 1024", cfg.MaxFrameSize)
	}
	if cfg.HandshakeTimeout != 10*time.Second {
		t.Errorf("HandshakeTimeout = %v, want 10s", cfg.HandshakeTimeout)
	}
}

func TestLoadFromEnv_Handle(t *testing.T) {
	t.Setenv("CHATSERVE_HANDLE", "alice")
	cfg := Default()
	LoadFromEnv(cfg)
	if cfg.Handle != "alice" {
		t.Errorf("Handle = %q, want %q", cfg.Handle, "alice")
	}
	if cfg.Prompt() != "alice> " {
		t.Errorf("Prompt = %q", cfg.Prompt())
	}
}

func TestLoadFromEnv_NoOverrideWhenEmpty(t *testing.T) {
	// Ensure no CHATSERVE_ vars are set.
	os.Clearenv()

	cfg := &Config{Host: "original", Port: 1234}
	LoadFromEnv(cfg)

	if cfg.Host != "original" {
		t.Errorf("Host was overridden: %q", cfg.Host)
	}
	if cfg.Port != 1234 {
		t.Errorf("Port was overridden: %d", cfg.Port)
	}
}

func TestLoadFromEnv_InvalidIntIgnored(t *testing.T) {
	t.Setenv("CHATSERVE_PORT", "not-a-number")
	cfg := &Config{}
	LoadFromEnv(cfg)
	if cfg.Port != 0 {
		t.Errorf("Port should be 0 for invalid input, got %d", cfg.Port)
	}
}

func TestLoadFromEnv_Verbose(t *testing.T) {
	t.Setenv("CHATSERVE_VERBOSE", "3")
	cfg := &Config{}
	LoadFromEnv(cfg)
	if cfg.Verbose != 3 {
		t.Errorf("Verbose = %d, want 3", cfg.Verbose)
	}
}
