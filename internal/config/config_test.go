package config

import (
	"testing"
	"time"
)

func baseConfig() *Config {
	return &Config{
		DatabaseURL:      "postgres://localhost:5432/drivingschool",
		JWTSecret:        "test-secret",
		StorageAccessKey: "access",
		StorageSecretKey: "secret",
	}
}

func TestValidate(t *testing.T) {
	if err := baseConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cfg := baseConfig()
	cfg.JWTSecret = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing JWT_SECRET accepted")
	}

	cfg = baseConfig()
	cfg.StorageSecretKey = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing storage credentials accepted")
	}

	cfg = baseConfig()
	cfg.DatabaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing DATABASE_URL accepted")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	cfg := Load()

	if cfg.JWTExpiry != 24*time.Hour {
		t.Fatalf("JWTExpiry = %v, want 24h", cfg.JWTExpiry)
	}
	if cfg.BcryptCost != 10 {
		t.Fatalf("BcryptCost = %d, want 10", cfg.BcryptCost)
	}
	if cfg.StorageBucket != "driving-school" {
		t.Fatalf("StorageBucket = %q", cfg.StorageBucket)
	}
}

func TestParseOrigins(t *testing.T) {
	if got := parseOrigins(""); got != nil {
		t.Fatalf("empty input: got %v, want nil", got)
	}
	got := parseOrigins("https://a.example, https://b.example ,")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("parseOrigins: got %v", got)
	}
}
