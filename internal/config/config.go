// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Creature CreatureConfig `yaml:"creature"`
	Assets   AssetsConfig   `yaml:"assets"`
	Capture  CaptureConfig  `yaml:"capture"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// CreatureConfig describes the creature to load and its initial playback state.
type CreatureConfig struct {
	Mesh      string  `yaml:"mesh"`      // Asset key of the mesh document
	Meta      string  `yaml:"meta"`      // Asset key of the metadata document (optional)
	Texture   string  `yaml:"texture"`   // Texture path, relative to the asset dir
	Animation string  `yaml:"animation"` // Clip to play
	TimeDelta float32 `yaml:"time_delta"`
	Loop      bool    `yaml:"loop"`
	AnchorX   float32 `yaml:"anchor_x"` // 0 leaves the anchor unset
	AnchorY   float32 `yaml:"anchor_y"`
	SkinSwap  string  `yaml:"skin_swap"`
	Tint      uint32  `yaml:"tint"`
	Alpha     float32 `yaml:"alpha"`
	X         float32 `yaml:"x"`
	Y         float32 `yaml:"y"`
	Width     float32 `yaml:"width"`  // Pixel width, 0 keeps native size
	Height    float32 `yaml:"height"` // Pixel height, 0 keeps native size
}

// AssetsConfig holds asset lookup settings.
type AssetsConfig struct {
	Dirs  []string `yaml:"dirs"`  // Searched in reverse order
	Watch bool     `yaml:"watch"` // Hot reload changed documents
}

// CaptureConfig holds screenshot settings.
type CaptureConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
	Format string `yaml:"format"` // png or webp
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Creature Viewer",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Creature: CreatureConfig{
			Mesh:      "creature.yaml",
			Animation: "default",
			TimeDelta: 0.05,
			Loop:      true,
			Tint:      0xFFFFFF,
			Alpha:     1.0,
			X:         640,
			Y:         360,
		},
		Assets: AssetsConfig{
			Dirs: []string{"assets"},
		},
		Capture: CaptureConfig{
			Dir:    "screenshots",
			Prefix: "creature",
			Format: "png",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
