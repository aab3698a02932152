// Package config provides YAML-based runtime configuration for the
// cartridge platform.
package config

// Config is the full runtime configuration.
type Config struct {
	Clock      ClockConfig      `yaml:"clock"`
	Audio      AudioConfig      `yaml:"audio"`
	Display    DisplayConfig    `yaml:"display"`
	Storage    StorageConfig    `yaml:"storage"`
	Cartridges CartridgesConfig `yaml:"cartridges"`
}

// ClockConfig defines simulation timing.
type ClockConfig struct {
	TickRate int `yaml:"tick_rate"` // Simulation ticks per second
}

// AudioConfig defines the synthesizer settings.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // Master volume, 0.0 to 1.0
}

// DisplayConfig defines the world-space canvas and HUD options.
type DisplayConfig struct {
	WorldWidth  float64 `yaml:"world_width"`  // World units mapped to terminal width
	WorldHeight float64 `yaml:"world_height"` // World units mapped to terminal height
	ShowMetrics bool    `yaml:"show_metrics"` // FPS/tick/dropped-frame HUD line
}

// StorageConfig defines persistence settings.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// CartridgesConfig defines where cartridge files are discovered.
type CartridgesConfig struct {
	Dir string `yaml:"dir"`
}
