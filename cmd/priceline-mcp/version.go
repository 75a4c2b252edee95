package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/priceline-mcp/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "priceline-mcp version %s\n", config.GetFullVersion())
	},
}
