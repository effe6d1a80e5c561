package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8091" {
		t.Errorf("expected default port 8091, got %s", cfg.Port)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.WorkerCount)
	}
	if cfg.MaxQueueSize != 100 {
		t.Errorf("expected queue size 100, got %d", cfg.MaxQueueSize)
	}
	if cfg.MaxUploadBytes != 52428800 {
		t.Errorf("expected 50MB upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected 1h job TTL, got %v", cfg.JobTTL)
	}
	if cfg.DatabasePath != "docmerge.db" {
		t.Errorf("expected default database path, got %s", cfg.DatabasePath)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("WORKER_COUNT", "8")
	t.Setenv("JOB_TTL", "30m")
	t.Setenv("DELIVERY_TIMEOUT", "90s")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("expected port override, got %s", cfg.Port)
	}
	if cfg.WorkerCount != 8 {
		t.Errorf("expected worker override, got %d", cfg.WorkerCount)
	}
	if cfg.JobTTL != 30*time.Minute {
		t.Errorf("expected TTL override, got %v", cfg.JobTTL)
	}
	if cfg.DeliveryTimeout != 90*time.Second {
		t.Errorf("expected timeout override, got %v", cfg.DeliveryTimeout)
	}
}

func TestLoad_RejectsNonsenseValues(t *testing.T) {
	t.Setenv("WORKER_COUNT", "-3")
	t.Setenv("MAX_QUEUE_SIZE", "not a number")
	t.Setenv("JOB_TTL", "soon")

	cfg := Load()
	if cfg.WorkerCount != 4 {
		t.Errorf("negative worker count should fall back, got %d", cfg.WorkerCount)
	}
	if cfg.MaxQueueSize != 100 {
		t.Errorf("unparseable queue size should fall back, got %d", cfg.MaxQueueSize)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("unparseable TTL should fall back, got %v", cfg.JobTTL)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{APIKey: "k", DatabasePath: "x.db"}
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing api key", Config{DatabasePath: "x.db"}},
		{"missing database path", Config{APIKey: "k"}},
		{"delivery url without key", Config{APIKey: "k", DatabasePath: "x.db", DeliveryURL: "http://store"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
