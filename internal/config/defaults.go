package config

import (
	_ "embed"
)

//go:embed defaults/runtime.yaml
var defaultRuntimeYAML []byte

// Default returns the default runtime configuration.
func Default() Config {
	return Config{
		Clock: ClockConfig{
			TickRate: 60,
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.8,
		},
		Display: DisplayConfig{
			WorldWidth:  800,
			WorldHeight: 600,
			ShowMetrics: false,
		},
		Storage: StorageConfig{
			DBPath: "~/.pixelcart/pixelcart.db",
		},
		Cartridges: CartridgesConfig{
			Dir: "./cartridges",
		},
	}
}

// DefaultYAML returns the embedded default configuration file, for the
// config init command.
func DefaultYAML() []byte {
	return defaultRuntimeYAML
}
