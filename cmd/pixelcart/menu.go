package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pixelcart/pixelcart/internal/platform/tui"
	"github.com/pixelcart/pixelcart/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the interactive cartridge picker",
	Long: `Start the runtime in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a cartridge.
Press B while playing to return to the picker.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select cartridge
  Q            - Quit

Examples:
  pixelcart menu
  pixelcart menu --fps 30
  pixelcart menu --dir ./cartridges`,
	Run: runMenu,
}

func runMenu(cmd *cobra.Command, _ []string) {
	cfg := runtimeConfig(cmd)
	carts := loadCartridges(cfg)

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		store = nil
	}

	// Get terminal size
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	audioMgr, cleanup := openAudio(cfg)
	defer cleanup()

	model := tui.NewSessionModel(carts, store, cfg, audioMgr, width, height)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, runErr := p.Run()

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}
