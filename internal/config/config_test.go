package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quarry.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
name = "testbed"

[simulation]
max_steps_per_frame = 4
tick_rate = "33ms"

[logging]
level = "debug"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Name != "testbed" {
		t.Fatalf("Name = %q", cfg.Server.Name)
	}
	if cfg.Simulation.MaxStepsPerFrame != 4 {
		t.Fatalf("MaxStepsPerFrame = %d", cfg.Simulation.MaxStepsPerFrame)
	}
	if cfg.Simulation.TickRate != 33*time.Millisecond {
		t.Fatalf("TickRate = %v", cfg.Simulation.TickRate)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("Level = %q", cfg.Logging.Level)
	}

	// Untouched sections keep their defaults.
	if cfg.Simulation.FixedTimestep != 1.0/60.0 {
		t.Fatalf("FixedTimestep = %v", cfg.Simulation.FixedTimestep)
	}
	if cfg.Simulation.VelocityIterations != 6 || cfg.Simulation.PositionIterations != 2 {
		t.Fatalf("iterations = %d/%d", cfg.Simulation.VelocityIterations, cfg.Simulation.PositionIterations)
	}
	if cfg.Database.Enabled {
		t.Fatal("database enabled by default")
	}
	if cfg.Database.FlushTicks != 120 {
		t.Fatalf("FlushTicks = %d", cfg.Database.FlushTicks)
	}
}

func TestLoadDatabaseSection(t *testing.T) {
	path := writeConfig(t, `
[database]
enabled = true
dsn = "postgres://u:p@db:5432/quarry"
max_open_conns = 20
conn_max_lifetime = "1h"
flush_ticks = 60
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Database.Enabled {
		t.Fatal("Enabled = false")
	}
	if cfg.Database.DSN != "postgres://u:p@db:5432/quarry" {
		t.Fatalf("DSN = %q", cfg.Database.DSN)
	}
	if cfg.Database.MaxOpenConns != 20 {
		t.Fatalf("MaxOpenConns = %d", cfg.Database.MaxOpenConns)
	}
	if cfg.Database.ConnMaxLifetime != time.Hour {
		t.Fatalf("ConnMaxLifetime = %v", cfg.Database.ConnMaxLifetime)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("missing file accepted")
	}
}

func TestLoadMalformedTOML(t *testing.T) {
	path := writeConfig(t, "[server\nname =")
	if _, err := Load(path); err == nil {
		t.Fatal("malformed toml accepted")
	}
}
