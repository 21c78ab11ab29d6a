// Package main implements the gameweaver CLI: ingest game rule documents and
// generate playable Python games from them.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gameweaverai/gameweaver/config"
	"github.com/gameweaverai/gameweaver/rules"
)

var (
	configPath string
	verbose    bool
	version    = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gameweaver",
	Short: "Generate playable Python games from rule documents",
	Long: `gameweaver turns game rule documents into runnable Python programs.

Rules are stored section-by-section in an embedded vector store. The generate
command builds a code prompt from the stored sections, asks the configured
model providers for a program, validates it in a sandbox, and retries with
repair prompts until the program passes or the retry budget runs out.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(generateCmd)
}

// newLogger builds the CLI logger. Debug output goes to stderr so generated
// artifacts on stdout stay clean.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// openStore loads configuration and opens the rule store shared by both
// commands.
func openStore(logger *zap.Logger) (*config.Config, *rules.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	store, err := rules.NewStore(rules.StoreConfig{
		Path:       cfg.Store.Path,
		Collection: cfg.Store.Collection,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, store, nil
}
