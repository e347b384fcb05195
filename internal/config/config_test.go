package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 3000 || cfg.Data.Dir != "data" || cfg.Logs.Dir != "logs" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Addr() != ":3000" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `server:
  port: 8080
solver:
  strategy: longestFirst
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Solver.Strategy != "longestFirst" {
		t.Errorf("strategy = %q", cfg.Solver.Strategy)
	}
	// Unset sections keep their defaults.
	if cfg.Data.Dir != "data" {
		t.Errorf("data.dir = %q, want default", cfg.Data.Dir)
	}
}

func TestPortEnvOverride(t *testing.T) {
	t.Setenv("PORT", "9999")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("port = %d, want 9999 from env", cfg.Server.Port)
	}
}

func TestDirEnvOverrides(t *testing.T) {
	t.Setenv("BOARDLENS_DATA_DIR", "/srv/boardlens/data")
	t.Setenv("BOARDLENS_LOG_DIR", "/srv/boardlens/logs")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `data:
  dir: file-data
logs:
  dir: file-logs
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// Environment wins over the file.
	if cfg.Data.Dir != "/srv/boardlens/data" {
		t.Errorf("data.dir = %q", cfg.Data.Dir)
	}
	if cfg.Logs.Dir != "/srv/boardlens/logs" {
		t.Errorf("logs.dir = %q", cfg.Logs.Dir)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Solver.Strategy = "fastest"
	if err := cfg.Validate(); err == nil {
		t.Error("bad strategy accepted")
	}
	cfg = Default()
	cfg.Server.Port = -1
	if err := cfg.Validate(); err == nil {
		t.Error("bad port accepted")
	}
}
