package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/teilomillet/gollm"
	"go.uber.org/zap"

	"github.com/gameweaverai/gameweaver/config"
	"github.com/gameweaverai/gameweaver/genloop"
	"github.com/gameweaverai/gameweaver/rules"
	"github.com/gameweaverai/gameweaver/weaverllm"
)

var generateOut string

var generateCmd = &cobra.Command{
	Use:   "generate <game>",
	Short: "Generate a playable Python game",
	Long: `Generate builds a Python program for the named game.

When the game's rules are already in the store they drive the code prompt
directly. For an unknown game, rules are generated first, ingested, and then
used for code generation. The program is validated in a sandbox (static parse
plus a short smoke run) and regenerated with repair prompts on failure, up to
the configured retry budget.

Examples:
  # Generate from previously ingested rules
  gameweaver generate "Chess" --out chess.py

  # Invent a brand-new game
  gameweaver generate "Asteroid Miner"`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateOut, "out", "", "file to write the generated program to (default <game>.py)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	game := args[0]

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, store, err := openStore(logger)
	if err != nil {
		return err
	}

	router, err := buildRouter(cfg, logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	meta, err := store.Fetch(ctx, game)
	if errors.Is(err, rules.ErrGameNotFound) {
		logger.Info("game unknown, generating rules first", zap.String("game", game))
		meta, err = generateRules(ctx, router, store, game)
	}
	if err != nil {
		return err
	}

	orch := genloop.NewOrchestrator(router, newValidator(cfg, logger), genloop.LoopConfig{
		RetryBudget: cfg.Loop.RetryBudget,
		Backoff:     weaverllm.DefaultBackoffPolicy(),
	}, logger)

	session := genloop.NewSession(rules.BuildCodePrompt(meta))
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range session.Events() {
			printEvent(ev)
		}
	}()

	result, err := orch.RunSession(ctx, session, weaverllm.RoleCode)
	session.Close()
	<-done
	if err != nil {
		return err
	}

	if result.Exhausted {
		fmt.Fprintf(os.Stderr, "Generation exhausted after %d attempts:\n", result.Attempts)
		for i, o := range result.Outcomes {
			fmt.Fprintf(os.Stderr, "  attempt %d: %s\n", i+1, o.Detail())
		}
		return fmt.Errorf("could not produce a valid program for %q", game)
	}

	out := generateOut
	if out == "" {
		out = defaultArtifactName(game)
	}
	if err := os.WriteFile(out, []byte(result.Artifact+"\n"), 0644); err != nil {
		return fmt.Errorf("writing artifact: %w", err)
	}

	fmt.Printf("Wrote %s (%d attempts, provider %s)\n", out, result.Attempts, result.Provider)
	return nil
}

// buildRouter assembles the provider router from configuration. The primary
// is typically a local ollama endpoint, the fallback a hosted API.
func buildRouter(cfg *config.Config, logger *zap.Logger) (*weaverllm.Router, error) {
	primary, err := buildClient(cfg.Providers.Primary)
	if err != nil {
		return nil, fmt.Errorf("primary provider: %w", err)
	}
	fallback, err := buildClient(cfg.Providers.Fallback)
	if err != nil {
		return nil, fmt.Errorf("fallback provider: %w", err)
	}

	return weaverllm.NewRouter(primary, fallback, weaverllm.RouterConfig{
		ProbeTimeout: cfg.ProbeTimeout(),
		PrimaryModels: weaverllm.RoleModels{
			Code:  cfg.Providers.Primary.CodeModel,
			Rules: cfg.Providers.Primary.RulesModel,
		},
		FallbackModels: weaverllm.RoleModels{
			Code:  cfg.Providers.Fallback.CodeModel,
			Rules: cfg.Providers.Fallback.RulesModel,
		},
	}, logger), nil
}

func buildClient(spec config.ProviderSpec) (*weaverllm.GollmClient, error) {
	opts := []weaverllm.GollmClientOption{
		weaverllm.WithModel(spec.CodeModel),
	}
	if spec.Name == "ollama" && spec.Endpoint != "" {
		opts = append(opts, weaverllm.WithGollmOptions(gollm.SetOllamaEndpoint(spec.Endpoint)))
	}
	return weaverllm.NewGollmClient(spec.Name, spec.APIKey, opts...)
}

func newValidator(cfg *config.Config, logger *zap.Logger) *genloop.PythonValidator {
	return genloop.NewPythonValidator(genloop.ValidatorConfig{
		CompileTimeout:   cfg.CompileTimeout(),
		SmokeTimeout:     cfg.SmokeTimeout(),
		TimeoutIsSuccess: cfg.Loop.TimeoutIsSuccess,
	}, logger)
}

// generateRules asks the router for rules text, ingests it, and returns the
// resulting metadata.
func generateRules(ctx context.Context, router *weaverllm.Router, store *rules.Store, game string) (*rules.GameMetadata, error) {
	out, err := router.Generate(ctx, rules.BuildRulesPrompt(game), weaverllm.RoleRules)
	if err != nil {
		return nil, fmt.Errorf("generating rules for %q: %w", game, err)
	}

	sections := rules.ParseRuleText(out.Text)
	if len(sections) == 0 {
		return nil, fmt.Errorf("generated rules for %q had no recognizable sections", game)
	}
	if err := store.Ingest(ctx, rules.RuleDocument{Game: game, Sections: sections}); err != nil {
		return nil, err
	}
	return store.Fetch(ctx, game)
}

// printEvent renders loop progress on stderr.
func printEvent(ev genloop.SessionEvent) {
	switch ev.Kind {
	case genloop.EventAttemptStart:
		fmt.Fprintf(os.Stderr, "[attempt %v] generating...\n", ev.Data["attempt"])
	case genloop.EventProviderFallback:
		fmt.Fprintln(os.Stderr, "  primary unavailable, using fallback provider")
	case genloop.EventValidationEnd:
		fmt.Fprintf(os.Stderr, "  validation: %v\n", ev.Data["outcome"])
	case genloop.EventRepair:
		fmt.Fprintf(os.Stderr, "  repairing after %v\n", ev.Data["outcome"])
	case genloop.EventError:
		fmt.Fprintf(os.Stderr, "  error: %v\n", ev.Data["error"])
	}
}

// defaultArtifactName turns a game name into a filesystem-friendly .py name.
func defaultArtifactName(game string) string {
	s := strings.ToLower(strings.TrimSpace(game))
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '_'
		}
		return -1
	}, s)
	if s == "" {
		s = "game"
	}
	return s + ".py"
}
