package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pixelcart/pixelcart/internal/storage"
)

var flagDeleteSlot int

var savesCmd = &cobra.Command{
	Use:   "saves <cartridge>",
	Short: "Show save slots and play stats for a cartridge",
	Long: `Display the save slots and aggregated play statistics recorded
for a cartridge.

Examples:
  pixelcart saves catcher
  pixelcart saves catcher --delete 1`,
	Args: cobra.ExactArgs(1),
	Run:  runSaves,
}

func init() {
	savesCmd.Flags().IntVar(&flagDeleteSlot, "delete", -1, "Delete the given save slot instead of listing")
}

func runSaves(cmd *cobra.Command, args []string) {
	cartridgeID := args[0]
	cfg := runtimeConfig(cmd)

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagDeleteSlot >= 0 {
		if err := store.DeleteSave(cartridgeID, flagDeleteSlot); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Deleted slot %d for %s.\n", flagDeleteSlot, cartridgeID)
		return
	}

	saves, err := store.ListSaves(cartridgeID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing saves: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Saves - %s\n", cartridgeID)
	fmt.Println()

	if len(saves) == 0 {
		fmt.Println("No save slots recorded.")
	} else {
		fmt.Printf("  %-4s  %-16s  %-10s  %s\n", "Slot", "Scene", "Variables", "Updated")
		fmt.Printf("  %-4s  %-16s  %-10s  %s\n", "----", "-----", "---------", "-------")
		for _, s := range saves {
			fmt.Printf("  %-4d  %-16s  %-10d  %s\n",
				s.Slot, s.SceneID, len(s.Variables), s.UpdatedAt.Format("2006-01-02 15:04"))
		}
	}

	stats, err := store.GetSessionStats(cartridgeID)
	if err != nil || stats.SessionCount == 0 {
		return
	}

	fmt.Println()
	fmt.Printf("Sessions: %d  |  Total ticks: %d  |  Play time: %dm  |  Last played: %s\n",
		stats.SessionCount, stats.TotalTicks, stats.TotalSecs/60,
		stats.LastPlayed.Format("2006-01-02 15:04"))
}
