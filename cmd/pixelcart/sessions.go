package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pixelcart/pixelcart/internal/platform/tui"
	"github.com/pixelcart/pixelcart/internal/storage"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Browse recorded play sessions",
	Long: `Open an interactive browser over the play sessions recorded for
each cartridge: seed, tick count, duration, and date.

Examples:
  pixelcart sessions
  pixelcart sessions --db ./pixelcart.db`,
	Run: runSessions,
}

func runSessions(cmd *cobra.Command, _ []string) {
	cfg := runtimeConfig(cmd)
	carts := loadCartridges(cfg)

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	// Get terminal size
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	if _, err := tui.RunSessions(carts, store, width, height); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
