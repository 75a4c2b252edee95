package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/priceline-mcp/internal/config"
)

// configFiles holds every --config flag in the order given.
var configFiles []string

var rootCmd = &cobra.Command{
	Use:   "priceline-mcp",
	Short: "MCP server for the Priceline travel API on RapidAPI",
	Long: "priceline-mcp exposes Priceline flight, hotel and car rental search\n" +
		"endpoints as Model Context Protocol tools.",
	SilenceUsage: true,
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	config.LoadVersionFromFile()
	rootCmd.Version = config.GetFullVersion()

	rootCmd.PersistentFlags().StringArrayVarP(&configFiles, "config", "c", nil, "Configuration file path (can be specified multiple times)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves config files and applies defaults, files and env.
func loadConfig() (*config.Config, error) {
	files := configFiles
	if len(files) == 0 {
		for _, path := range configSearchPaths() {
			if _, err := os.Stat(path); err == nil {
				files = append(files, path)
				break
			}
		}
	}

	cfg, err := config.LoadFromFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// validate prints every configuration issue and returns an error if any.
func validate(cfg *config.Config) error {
	issues := cfg.Validate()
	if len(issues) == 0 {
		return nil
	}
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Configuration error:")
	fmt.Fprintln(os.Stderr, "")
	for _, issue := range issues {
		fmt.Fprintf(os.Stderr, "  - %s\n", issue)
	}
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Values can be set via TOML file, PRICELINE_* environment variables, or CLI flags.")
	fmt.Fprintln(os.Stderr, "")
	return fmt.Errorf("%d configuration issue(s)", len(issues))
}

// configSearchPaths returns TOML files to auto-discover (first match wins).
// Binary-relative paths are tried first, then the working directory.
func configSearchPaths() []string {
	candidates := []string{
		"priceline-mcp.toml",
		"config/priceline-mcp.toml",
	}

	exe, err := os.Executable()
	if err != nil {
		return candidates
	}
	binDir := filepath.Dir(exe)

	paths := []string{
		filepath.Join(binDir, "priceline-mcp.toml"),
		filepath.Join(binDir, "config", "priceline-mcp.toml"),
	}
	paths = append(paths, candidates...)

	seen := make(map[string]bool, len(paths))
	deduped := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		deduped = append(deduped, p)
	}
	return deduped
}
