package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagMesh       = flag.String("mesh", "", "Mesh asset key")
	flagMeta       = flag.String("meta", "", "Metadata asset key")
	flagAnimation  = flag.String("animation", "", "Animation clip to play")
	flagAssets     = flag.String("assets", "", "Asset directory (overrides config)")
	flagWatch      = flag.Bool("watch", false, "Hot reload changed asset documents")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagMesh != "" {
		cfg.Creature.Mesh = *flagMesh
	}
	if *flagMeta != "" {
		cfg.Creature.Meta = *flagMeta
	}
	if *flagAnimation != "" {
		cfg.Creature.Animation = *flagAnimation
	}
	if *flagAssets != "" {
		cfg.Assets.Dirs = []string{*flagAssets}
	}
	if *flagWatch {
		cfg.Assets.Watch = true
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
}
