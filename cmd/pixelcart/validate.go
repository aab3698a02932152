package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pixelcart/pixelcart/internal/cart"
)

var flagStrict bool

var validateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Check a cartridge file for problems",
	Long: `Load a cartridge file and report structural problems: duplicate
node ids, unknown action kinds, dangling scene references.

Errors mean the cartridge will not behave as authored. Warnings mean
the runtime degrades fail-soft: the offending action is logged and
skipped while everything else keeps running.

Examples:
  pixelcart validate ./my-cart.yaml
  pixelcart validate ./my-cart.json --strict`,
	Args: cobra.ExactArgs(1),
	Run:  runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&flagStrict, "strict", false, "Treat warnings as errors")
}

func runValidate(cmd *cobra.Command, args []string) {
	path := args[0]

	c, err := cart.NewLoader("").LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	issues := cart.Validate(c)
	if len(issues) == 0 {
		fmt.Printf("%s: OK (%d scenes)\n", path, len(c.Scenes))
		return
	}

	errors, warnings := 0, 0
	for _, issue := range issues {
		fmt.Println(issue)
		if issue.Severity == cart.SeverityError {
			errors++
		} else {
			warnings++
		}
	}

	fmt.Println()
	fmt.Printf("%d error(s), %d warning(s)\n", errors, warnings)

	if errors > 0 || (flagStrict && warnings > 0) {
		os.Exit(1)
	}
}
