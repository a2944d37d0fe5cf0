package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "0123456789abcdef0123",
	}))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}

	if cfg.Port != "3001" || cfg.Env != EnvDevelopment || cfg.StoreDriver != DriverMongo {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Auth.JWTExpiresIn != 7*24*time.Hour {
		t.Fatalf("expected 7d token lifetime, got %v", cfg.Auth.JWTExpiresIn)
	}
	if cfg.Auth.BcryptCost != 12 {
		t.Fatalf("expected bcrypt cost 12, got %d", cfg.Auth.BcryptCost)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected CORS origins: %v", cfg.CORSOrigins)
	}
	if cfg.IsProduction() {
		t.Fatalf("development must not be production")
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":     "0123456789abcdef0123",
		"JWT_EXPIRES_IN": "2h",
		"STORE_DRIVER":   "postgres",
		"REDIS_ENABLED":  "true",
		"ENV":            "production",
		"CORS_ORIGINS":   "https://app.example.com,https://admin.example.com",
	}))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}
	if cfg.Auth.JWTExpiresIn != 2*time.Hour || cfg.StoreDriver != DriverPostgres || !cfg.Redis.Enabled {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if !cfg.IsProduction() {
		t.Fatalf("expected production")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://admin.example.com" {
		t.Fatalf("CORS origins not split: %v", cfg.CORSOrigins)
	}
}

func TestLoadWith_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{}, "JWT_SECRET is required"},
		{"short secret", map[string]string{"JWT_SECRET": "short"}, "at least 16 bytes"},
		{"unknown driver", map[string]string{"JWT_SECRET": "0123456789abcdef0123", "STORE_DRIVER": "sqlite"}, "STORE_DRIVER"},
		{"bcrypt cost", map[string]string{"JWT_SECRET": "0123456789abcdef0123", "BCRYPT_COST": "2"}, "BCRYPT_COST"},
		{"seed in production", map[string]string{"JWT_SECRET": "0123456789abcdef0123", "ENV": "production", "SEED_DEFAULT_USERS": "true"}, "SEED_DEFAULT_USERS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWith(context.Background(), envconfig.MapLookuper(tt.env))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}
