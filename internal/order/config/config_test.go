package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_LocalDefaults(t *testing.T) {
	os.Clearenv()
	os.Setenv("APP_ENV", "local")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.AppEnv != EnvLocal {
		t.Errorf("Expected AppEnv=local, got %s", cfg.AppEnv)
	}
	if cfg.HTTPAddr != "127.0.0.1:3001" {
		t.Errorf("Expected HTTPAddr=127.0.0.1:3001, got %s", cfg.HTTPAddr)
	}
	if cfg.CustomerServiceURL != "http://localhost:3002" {
		t.Errorf("Expected CustomerServiceURL=http://localhost:3002, got %s", cfg.CustomerServiceURL)
	}
	if cfg.CustomerClientTimeout != 5*time.Second {
		t.Errorf("Expected CustomerClientTimeout=5s, got %s", cfg.CustomerClientTimeout)
	}
}

func TestLoad_DockerDefaults(t *testing.T) {
	os.Clearenv()
	os.Setenv("APP_ENV", "docker")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.AppEnv != EnvDocker {
		t.Errorf("Expected AppEnv=docker, got %s", cfg.AppEnv)
	}
	if cfg.HTTPAddr != "0.0.0.0:3001" {
		t.Errorf("Expected HTTPAddr=0.0.0.0:3001, got %s", cfg.HTTPAddr)
	}
	if cfg.CustomerServiceURL != "http://customer:3002" {
		t.Errorf("Expected CustomerServiceURL=http://customer:3002, got %s", cfg.CustomerServiceURL)
	}
}

func TestLoad_InvalidAppEnv(t *testing.T) {
	os.Clearenv()
	os.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid APP_ENV")
	}
}

func TestLoad_InvalidTimeout(t *testing.T) {
	os.Clearenv()
	os.Setenv("SHUTDOWN_TIMEOUT", "five seconds")

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid SHUTDOWN_TIMEOUT")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	os.Clearenv()
	os.Setenv("APP_ENV", "local")
	os.Setenv("CUSTOMER_SERVICE_URL", "http://127.0.0.1:4002")
	os.Setenv("CUSTOMER_CLIENT_TIMEOUT", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.CustomerServiceURL != "http://127.0.0.1:4002" {
		t.Errorf("Expected override, got %s", cfg.CustomerServiceURL)
	}
	if cfg.CustomerClientTimeout != 2*time.Second {
		t.Errorf("Expected CustomerClientTimeout=2s, got %s", cfg.CustomerClientTimeout)
	}
}
