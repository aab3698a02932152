// pixelcart is a terminal runtime for declarative game cartridges.
//
// Usage:
//
//	pixelcart list               - List discovered cartridges
//	pixelcart play [cartridge]   - Play a cartridge (the demo by default)
//	pixelcart menu               - Interactive cartridge picker
//	pixelcart validate <path>    - Check a cartridge file for problems
//	pixelcart info <cartridge>   - Show cartridge metadata
//	pixelcart saves <cartridge>  - Show save slots and play stats
//	pixelcart sessions           - Browse recorded play sessions
//	pixelcart serve              - Start SSH server for remote play
//
// Global flags:
//
//	--config <path> - Runtime config file (default: ~/.pixelcart/config.yaml)
//	--fps <rate>    - Override simulation tick rate
//	--seed <value>  - RNG seed for reproducible runs (0 = time-based)
//	--db <path>     - Override database path
//	--dir <path>    - Override cartridge directory
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pixelcart/pixelcart/internal/config"
)

var (
	// Global flags
	flagConfig  string
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagCartDir string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pixelcart",
	Short: "PixelCart - run game cartridges in your terminal",
	Long: `PixelCart is a deterministic runtime for declarative game cartridges:
scenes, nodes, and trigger scripts authored in JSON or YAML, simulated
at a fixed tick rate and rendered in the terminal.

Available commands:
  list     - Show all discovered cartridges
  play     - Play a cartridge directly
  menu     - Interactive cartridge picker
  validate - Check a cartridge file for problems
  info     - Show cartridge metadata
  saves    - Show save slots and play stats
  sessions - Browse recorded play sessions
  serve    - Start SSH server for remote play

Examples:
  pixelcart play
  pixelcart play catcher --seed 42
  pixelcart validate ./my-cart.yaml
  pixelcart serve --ssh :2222`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to runtime config YAML")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Simulation tick rate (ticks per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to the save/session database")
	rootCmd.PersistentFlags().StringVar(&flagCartDir, "dir", "", "Cartridge directory")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(savesCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(serveCmd)
}

// runtimeConfig loads the runtime config and applies flag overrides.
// Flags only override when set, so the config file stays authoritative
// for anything the user did not name on the command line.
func runtimeConfig(cmd *cobra.Command) config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	flags := cmd.Root().PersistentFlags()
	if flags.Changed("fps") {
		cfg.Clock.TickRate = flagFPS
	}
	if flags.Changed("db") {
		cfg.Storage.DBPath = flagDBPath
	}
	if flags.Changed("dir") {
		cfg.Cartridges.Dir = flagCartDir
	}
	return cfg
}
