package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gameweaverai/gameweaver/rules"
)

var (
	ingestFile string
	ingestGame string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a game rules document into the store",
	Long: `Ingest reads a rules document, splits it into the canonical sections
(Overview, Game Objective, Game Setup, How to Play, Winning the Game,
Game Strategy, End of Game), and stores them under the given game name.

Examples:
  # Ingest a markdown rules file
  gameweaver ingest --file chess.md --game "Chess"

  # Read rules from stdin
  cat rules.md | gameweaver ingest --file - --game "Uno"`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestFile, "file", "", "rules document to ingest, - for stdin")
	ingestCmd.Flags().StringVar(&ingestGame, "game", "", "game name to store the rules under")
	_ = ingestCmd.MarkFlagRequired("file")
	_ = ingestCmd.MarkFlagRequired("game")
}

func runIngest(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	var content []byte
	if ingestFile == "-" {
		content, err = io.ReadAll(os.Stdin)
	} else {
		content, err = os.ReadFile(ingestFile)
	}
	if err != nil {
		return fmt.Errorf("reading rules document: %w", err)
	}

	sections := rules.ParseRuleText(string(content))
	if len(sections) == 0 {
		return fmt.Errorf("no recognized rule sections in %s", ingestFile)
	}

	_, store, err := openStore(logger)
	if err != nil {
		return err
	}

	doc := rules.RuleDocument{Game: ingestGame, Sections: sections}
	if err := store.Ingest(cmd.Context(), doc); err != nil {
		return err
	}

	logger.Info("rules ingested",
		zap.String("game", ingestGame),
		zap.Int("sections", len(sections)),
	)
	fmt.Printf("Ingested %d sections for %q\n", len(sections), ingestGame)
	return nil
}
