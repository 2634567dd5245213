package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.RequireAuth {
		t.Error("RequireAuth should default to false")
	}
	if cfg.Auth.TokenTTL != 20*time.Minute {
		t.Errorf("TokenTTL = %v, want 20m", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.JWTAlgorithm != "HS256" {
		t.Errorf("JWTAlgorithm = %q", cfg.Auth.JWTAlgorithm)
	}
	if cfg.Database.Driver != "pgx" {
		t.Errorf("Driver = %q, want pgx", cfg.Database.Driver)
	}
	if cfg.Database.BorrowRowLock {
		t.Error("BorrowRowLock should default to false")
	}
	if cfg.Mongo.URI != "" || cfg.Redis.Addr != "" {
		t.Error("Mongo and Redis should be disabled by default")
	}
	if cfg.Mongo.Timeout != 10*time.Second || cfg.Redis.Timeout != 5*time.Second {
		t.Errorf("timeouts = %v / %v", cfg.Mongo.Timeout, cfg.Redis.Timeout)
	}
	if cfg.Redis.IdempotencyTTL != 24*time.Hour {
		t.Errorf("IdempotencyTTL = %v", cfg.Redis.IdempotencyTTL)
	}
	if !cfg.IsDevelopment() {
		t.Error("default env should be development")
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":      "s3cret",
		"REQUIRE_AUTH":    "true",
		"TOKEN_TTL":       "5m",
		"DB_DRIVER":       "sqlite3",
		"DB_DSN":          "file:lib.db",
		"BORROW_ROW_LOCK": "true",
		"REDIS_ADDR":      "localhost:6379",
		"REDIS_PASSWORD":  "pw",
		"REDIS_POOL_SIZE": "20",
		"ENV":             "production",
	}))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if !cfg.RequireAuth || !cfg.Database.BorrowRowLock {
		t.Error("boolean overrides not applied")
	}
	if cfg.Auth.TokenTTL != 5*time.Minute {
		t.Errorf("TokenTTL = %v", cfg.Auth.TokenTTL)
	}
	if cfg.Database.Driver != "sqlite3" || cfg.Database.DSN != "file:lib.db" {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Redis.Password != "pw" || cfg.Redis.PoolSize != 20 {
		t.Errorf("redis = %+v", cfg.Redis)
	}
	if cfg.IsDevelopment() {
		t.Error("production must not be development")
	}
}

func TestLoadFrom_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"bad driver", map[string]string{"JWT_SECRET": "x", "DB_DRIVER": "oracle"}},
		{"bad ttl", map[string]string{"JWT_SECRET": "x", "TOKEN_TTL": "-1m"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFrom(context.Background(), envconfig.MapLookuper(tt.env)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
