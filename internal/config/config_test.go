package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != "8000" {
		t.Errorf("port = %q, want 8000", cfg.Server.Port)
	}
	if cfg.Agent.TopK != 5 {
		t.Errorf("top k = %d, want 5", cfg.Agent.TopK)
	}
	if cfg.Agent.CallTimeout != 20*time.Second {
		t.Errorf("call timeout = %v, want 20s", cfg.Agent.CallTimeout)
	}
	if cfg.Worker.Concurrency != 3 {
		t.Errorf("concurrency = %d, want 3", cfg.Worker.Concurrency)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("AGENT_TOP_K", "8")
	t.Setenv("AGENT_CALL_TIMEOUT", "5s")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()

	if cfg.Server.Port != "9001" {
		t.Errorf("port = %q, want 9001", cfg.Server.Port)
	}
	if cfg.Agent.TopK != 8 {
		t.Errorf("top k = %d, want 8", cfg.Agent.TopK)
	}
	if cfg.Agent.CallTimeout != 5*time.Second {
		t.Errorf("call timeout = %v, want 5s", cfg.Agent.CallTimeout)
	}
	if cfg.Redis.DB != 0 {
		t.Errorf("redis db = %d, want fallback 0", cfg.Redis.DB)
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host:     "db.internal",
		Port:     "5433",
		User:     "svc",
		Password: "pw",
		DBName:   "hackquest",
	}}

	want := "host=db.internal port=5433 user=svc password=pw dbname=hackquest sslmode=disable"
	if got := cfg.GetDatabaseDSN(); got != want {
		t.Errorf("dsn = %q, want %q", got, want)
	}
}
