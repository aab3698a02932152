package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pixelcart/pixelcart/internal/audio"
	"github.com/pixelcart/pixelcart/internal/cart"
	"github.com/pixelcart/pixelcart/internal/config"
	"github.com/pixelcart/pixelcart/internal/platform/tui"
	"github.com/pixelcart/pixelcart/internal/script"
	"github.com/pixelcart/pixelcart/internal/storage"
)

var (
	flagMute     bool
	flagMetrics  bool
	flagSaveSlot int
)

var playCmd = &cobra.Command{
	Use:   "play [cartridge]",
	Short: "Play a cartridge",
	Long: `Play a cartridge by id, or by file path. With no argument the
built-in demo cartridge runs.

With --save-slot, the session resumes from the slot's saved scene and
variables (if any) and writes the slot back on exit.

Controls:
  Arrows/WASD  - Movement actions
  Space        - Primary action
  Enter/Esc    - Confirm / Cancel
  P            - Pause
  Q/Ctrl+C     - Quit

Examples:
  pixelcart play
  pixelcart play catcher
  pixelcart play ./my-cart.yaml --seed 42
  pixelcart play catcher --save-slot 1
  pixelcart play catcher --mute --metrics`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable the audio synthesizer")
	playCmd.Flags().BoolVar(&flagMetrics, "metrics", false, "Show the FPS/tick HUD line")
	playCmd.Flags().IntVar(&flagSaveSlot, "save-slot", -1, "Save slot to resume and write back (-1 = off)")
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg := runtimeConfig(cmd)

	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	c := resolveCartridge(cfg, arg)

	// Surface validation errors before starting; warnings degrade
	// fail-soft at run time and are only reported.
	fatal := false
	for _, issue := range cart.Validate(c) {
		fmt.Fprintln(os.Stderr, issue)
		if issue.Severity == cart.SeverityError {
			fatal = true
		}
	}
	if fatal {
		fmt.Fprintf(os.Stderr, "Error: cartridge %q has errors; run 'pixelcart validate' for details\n", c.ID)
		os.Exit(1)
	}

	// Get terminal size
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	// Open save storage
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		// Continue without storage - the cartridge still plays
		store = nil
	}

	if flagMetrics {
		cfg.Display.ShowMetrics = true
	}

	audioMgr, cleanup := openAudio(cfg)
	defer cleanup()

	runErr := tui.Run(c, tui.PlayOptions{
		Store:    store,
		Config:   cfg,
		Audio:    audioMgr,
		Seed:     flagSeed,
		SaveSlot: flagSaveSlot,
		Width:    width,
		Height:   height,
	})

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running cartridge: %v\n", runErr)
		os.Exit(1)
	}
}

// resolveCartridge loads the named cartridge: an existing file path wins,
// then the id lookup in the cartridge directory, then the demo for an
// empty argument.
func resolveCartridge(cfg config.Config, arg string) *cart.Cartridge {
	if arg == "" || arg == "demo" {
		c, err := cart.Demo()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading demo cartridge: %v\n", err)
			os.Exit(1)
		}
		return c
	}

	loader := cart.NewLoader(cfg.Cartridges.Dir)

	if info, statErr := os.Stat(arg); statErr == nil && !info.IsDir() {
		c, err := loader.LoadFile(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return c
	}

	c, err := loader.LoadByID(arg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'pixelcart list' to see available cartridges.")
		os.Exit(1)
	}
	return c
}

// openAudio builds the audio manager per config and flags. The returned
// cleanup is safe to call regardless of which manager was chosen.
func openAudio(cfg config.Config) (script.AudioManager, func()) {
	if flagMute || !cfg.Audio.Enabled {
		return audio.Nop{}, func() {}
	}

	synth := audio.NewSynth(cfg.Audio.Volume)
	if err := synth.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: audio unavailable: %v\n", err)
		return audio.Nop{}, func() {}
	}
	return synth, synth.Cleanup
}
