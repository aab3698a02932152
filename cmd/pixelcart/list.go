package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pixelcart/pixelcart/internal/cart"
	"github.com/pixelcart/pixelcart/internal/config"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all discovered cartridges",
	Long:  `Scans the cartridge directory and lists every loadable cartridge, plus the built-in demo.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	cfg := runtimeConfig(cmd)
	carts := loadCartridges(cfg)

	if len(carts) == 0 {
		fmt.Println("No cartridges available.")
		return
	}

	fmt.Println("Available cartridges:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, c := range carts {
		if len(c.ID) > maxIDLen {
			maxIDLen = len(c.ID)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")

	// Print cartridges
	for _, c := range carts {
		title := c.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("  %-*s  %s\n", maxIDLen, c.ID, title)
	}

	fmt.Println()
	fmt.Println("Run 'pixelcart play <id>' to play a cartridge.")
}

// loadCartridges scans the configured directory and appends the embedded
// demo, so there is always something to play.
func loadCartridges(cfg config.Config) []*cart.Cartridge {
	carts, err := cart.NewLoader(cfg.Cartridges.Dir).LoadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not scan %s: %v\n", cfg.Cartridges.Dir, err)
	}
	if demo, demoErr := cart.Demo(); demoErr == nil {
		carts = append(carts, demo)
	}
	return carts
}
