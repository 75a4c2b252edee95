package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/priceline-mcp/internal/app"
	"github.com/bobmcallan/priceline-mcp/internal/common"
	"github.com/bobmcallan/priceline-mcp/internal/registry"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools in the active catalog",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := validate(cfg); err != nil {
			return err
		}
		application, err := app.New(cfg, common.NewSilentLogger())
		if err != nil {
			return err
		}
		return printTools(cmd.OutOrStdout(), application.Registry.List())
	},
}

// printTools writes one row per tool: name, method, URL and parameters.
// Required parameters are marked with *.
func printTools(w io.Writer, tools []registry.ToolDescriptor) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMETHOD\tURL\tPARAMETERS")
	for _, d := range tools {
		params := make([]string, 0, len(d.Parameters))
		for _, p := range d.Parameters {
			name := p.Key + ":" + string(p.Kind)
			if p.Required {
				name += "*"
			}
			params = append(params, name)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Name, d.Endpoint.Method, d.Endpoint.URL, strings.Join(params, " "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d tools\n", len(tools))
	return err
}
