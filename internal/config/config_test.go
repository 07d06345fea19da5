package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8082" {
		t.Fatalf("default port = %s", cfg.Port)
	}
	if cfg.DataBackend != "local" {
		t.Fatalf("default backend = %s", cfg.DataBackend)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_BACKEND", "remote")
	t.Setenv("REMOTE_BASE_URL", "http://localhost:8082")
	t.Setenv("REMOTE_TIMEOUT", "5s")
	t.Setenv("SETTINGS_EMPTY_LISTS", "preserve")

	cfg := Load()
	if cfg.Port != "9090" || cfg.DataBackend != "remote" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.RemoteTimeout != 5*time.Second {
		t.Fatalf("timeout = %v", cfg.RemoteTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := &Config{
		Port:            "not-a-port",
		DataBackend:     "postgres",
		EmptyListPolicy: "sometimes",
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation failure")
	}
	for _, want := range []string{"invalid port", "invalid data backend", "invalid empty-list policy"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error missing %q: %v", want, err)
		}
	}
}

func TestValidateRemoteRequiresBaseURL(t *testing.T) {
	cfg := Load()
	cfg.DataBackend = "remote"
	cfg.RemoteBaseURL = ""
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "REMOTE_BASE_URL") {
		t.Fatalf("expected remote base URL error, got %v", err)
	}
}

func TestValidateAMQPScheme(t *testing.T) {
	cfg := Load()
	cfg.AMQPURL = "http://localhost:5672"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "AMQP URL scheme") {
		t.Fatalf("expected AMQP scheme error, got %v", err)
	}
}
