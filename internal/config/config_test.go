package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if cfg.Creature.TimeDelta != 0.05 {
		t.Errorf("expected time delta 0.05, got %f", cfg.Creature.TimeDelta)
	}
	if cfg.Creature.Animation != "default" {
		t.Errorf("expected animation 'default', got %s", cfg.Creature.Animation)
	}
	if cfg.Creature.Tint != 0xFFFFFF {
		t.Errorf("expected white tint, got %#x", cfg.Creature.Tint)
	}
	if cfg.Creature.Alpha != 1.0 {
		t.Errorf("expected alpha 1.0, got %f", cfg.Creature.Alpha)
	}
	if cfg.Capture.Format != "png" {
		t.Errorf("expected capture format png, got %s", cfg.Capture.Format)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "creatureview.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  vsync: false

creature:
  mesh: "dragon.json"
  meta: "dragon_meta.json"
  animation: "walk"
  time_delta: 0.1
  anchor_x: 0.5
  skin_swap: "armored"
  tint: 0xFF8800
  alpha: 0.5

assets:
  dirs: ["data", "mods"]
  watch: true

capture:
  format: webp

logging:
  level: "debug"
  log_file: "viewer.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Window.Width)
	}
	if cfg.Window.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Creature.Mesh != "dragon.json" {
		t.Errorf("expected mesh dragon.json, got %s", cfg.Creature.Mesh)
	}
	if cfg.Creature.Animation != "walk" {
		t.Errorf("expected animation walk, got %s", cfg.Creature.Animation)
	}
	if cfg.Creature.AnchorX != 0.5 {
		t.Errorf("expected anchor_x 0.5, got %f", cfg.Creature.AnchorX)
	}
	if cfg.Creature.Tint != 0xFF8800 {
		t.Errorf("expected tint 0xFF8800, got %#x", cfg.Creature.Tint)
	}
	if len(cfg.Assets.Dirs) != 2 || cfg.Assets.Dirs[1] != "mods" {
		t.Errorf("expected asset dirs [data mods], got %v", cfg.Assets.Dirs)
	}
	if !cfg.Assets.Watch {
		t.Error("expected watch to be true")
	}
	if cfg.Capture.Format != "webp" {
		t.Errorf("expected capture format webp, got %s", cfg.Capture.Format)
	}
	// Untouched keys keep their defaults.
	if !cfg.Creature.Loop {
		t.Error("expected loop default to survive partial file")
	}
	if cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("expected log file 'viewer.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/creatureview.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "missing mesh", mutate: func(c *Config) { c.Creature.Mesh = "" }, wantErr: true},
		{name: "negative time delta", mutate: func(c *Config) { c.Creature.TimeDelta = -1 }, wantErr: true},
		{name: "unknown capture format", mutate: func(c *Config) { c.Capture.Format = "gif" }, wantErr: true},
		{name: "webp capture", mutate: func(c *Config) { c.Capture.Format = "webp" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "mesh and animation flags",
			setup: func() { *flagMesh = "bird.yaml"; *flagAnimation = "fly" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Creature.Mesh != "bird.yaml" {
					t.Errorf("expected mesh bird.yaml, got %s", cfg.Creature.Mesh)
				}
				if cfg.Creature.Animation != "fly" {
					t.Errorf("expected animation fly, got %s", cfg.Creature.Animation)
				}
			},
			teardown: func() { *flagMesh = ""; *flagAnimation = "" },
		},
		{
			name:  "assets flag replaces dirs",
			setup: func() { *flagAssets = "/tmp/assets"; *flagWatch = true },
			verify: func(t *testing.T, cfg *Config) {
				if len(cfg.Assets.Dirs) != 1 || cfg.Assets.Dirs[0] != "/tmp/assets" {
					t.Errorf("expected dirs [/tmp/assets], got %v", cfg.Assets.Dirs)
				}
				if !cfg.Assets.Watch {
					t.Error("expected watch enabled")
				}
			},
			teardown: func() { *flagAssets = ""; *flagWatch = false },
		},
		{
			name:  "width and height flags",
			setup: func() { *flagWidth = 2560; *flagHeight = 1440 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Window.Width)
				}
				if cfg.Window.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Window.Height)
				}
			},
			teardown: func() { *flagWidth = 0; *flagHeight = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "creatureview.yaml")
	yamlContent := `
window:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "creatureview.yaml")
	cfg := Default()
	cfg.Creature.Animation = "idle"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.Creature.Animation != "idle" {
		t.Errorf("expected animation idle after reload, got %s", loaded.Creature.Animation)
	}
}
