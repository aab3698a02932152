package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pixelcart/pixelcart/internal/cart"
)

var infoCmd = &cobra.Command{
	Use:   "info <cartridge>",
	Short: "Show cartridge metadata",
	Long: `Display a cartridge's metadata, variables, and scene layout.

Examples:
  pixelcart info demo
  pixelcart info ./my-cart.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) {
	cfg := runtimeConfig(cmd)
	c := resolveCartridge(cfg, args[0])

	title := c.Title
	if title == "" {
		title = "(untitled)"
	}

	fmt.Printf("ID:          %s\n", c.ID)
	fmt.Printf("Title:       %s\n", title)
	if c.Author != "" {
		fmt.Printf("Author:      %s\n", c.Author)
	}
	fmt.Printf("Start scene: %s\n", c.StartScene)
	fmt.Printf("Variables:   %d\n", len(c.Variables))
	fmt.Println()

	fmt.Printf("Scenes (%d):\n", len(c.Scenes))
	for i := range c.Scenes {
		s := &c.Scenes[i]
		nodes, triggers := 0, 0
		s.Walk(func(n *cart.Node) {
			nodes++
			triggers += len(n.Triggers)
		})
		marker := " "
		if s.ID == c.StartScene {
			marker = "*"
		}
		fmt.Printf("  %s %-20s %d node(s), %d trigger(s)\n", marker, s.ID, nodes, triggers)
	}
}
