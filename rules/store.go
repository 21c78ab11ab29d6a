package rules

import (
	"context"
	"errors"
	"fmt"
	"strings"

	chromem "github.com/philippgille/chromem-go"
	"go.uber.org/zap"
)

// ErrGameNotFound is returned by Fetch when no sections are stored for the
// requested game.
var ErrGameNotFound = errors.New("rules: game not found")

// RuleDocument is the ingestion unit: one game's rule text, chunked by
// section title.
type RuleDocument struct {
	Game     string
	Sections map[string]string
}

// StoreConfig configures the Store.
type StoreConfig struct {
	// Path is the directory for persistent storage. Empty keeps the store
	// in memory, which is what tests use.
	Path string

	// Compress enables gzip compression of persisted data.
	Compress bool

	// Collection is the chromem collection name. Default "game_rules".
	Collection string

	// Embedding embeds section text for similarity search. Defaults to the
	// OpenAI embedding endpoint (reads OPENAI_API_KEY).
	Embedding chromem.EmbeddingFunc
}

// ApplyDefaults sets default values for unset fields.
func (c *StoreConfig) ApplyDefaults() {
	if c.Collection == "" {
		c.Collection = "game_rules"
	}
	if c.Embedding == nil {
		c.Embedding = chromem.NewEmbeddingFuncDefault()
	}
}

// Store persists game rule sections in an embedded chromem-go database, one
// document per section. Lookups by game name are exact: section documents
// have deterministic IDs, so Fetch never depends on similarity ranking.
type Store struct {
	db     *chromem.DB
	cfg    StoreConfig
	logger *zap.Logger
}

// NewStore opens (or creates) the rule store.
func NewStore(cfg StoreConfig, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.ApplyDefaults()

	var db *chromem.DB
	var err error
	if cfg.Path == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(cfg.Path, cfg.Compress)
		if err != nil {
			return nil, fmt.Errorf("rules: opening store at %s: %w", cfg.Path, err)
		}
	}

	logger.Info("rule store opened",
		zap.String("path", cfg.Path),
		zap.String("collection", cfg.Collection),
	)
	return &Store{db: db, cfg: cfg, logger: logger}, nil
}

// collection returns the rules collection, creating it on first use.
func (s *Store) collection() (*chromem.Collection, error) {
	col, err := s.db.GetOrCreateCollection(s.cfg.Collection, nil, s.cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("rules: collection %s: %w", s.cfg.Collection, err)
	}
	return col, nil
}

// sectionID builds the deterministic document ID for a game section.
func sectionID(game, section string) string {
	return slug(game) + "-" + slug(section)
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

// Ingest stores one game's rule sections, overwriting any previous version
// of the same sections. Unknown section titles are skipped with a warning.
func (s *Store) Ingest(ctx context.Context, doc RuleDocument) error {
	if strings.TrimSpace(doc.Game) == "" {
		return fmt.Errorf("rules: game name is required")
	}

	var docs []chromem.Document
	for _, title := range SectionTitles {
		text, ok := doc.Sections[title]
		if !ok || strings.TrimSpace(text) == "" {
			continue
		}
		docs = append(docs, chromem.Document{
			ID:      sectionID(doc.Game, title),
			Content: text,
			Metadata: map[string]string{
				"game":    doc.Game,
				"section": title,
			},
		})
	}
	for title := range doc.Sections {
		if !isCanonicalSection(title) {
			s.logger.Warn("skipping unknown rule section",
				zap.String("game", doc.Game),
				zap.String("section", title),
			)
		}
	}
	if len(docs) == 0 {
		return fmt.Errorf("rules: no recognized sections for game %q", doc.Game)
	}

	col, err := s.collection()
	if err != nil {
		return err
	}
	if err := col.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("rules: ingesting %q: %w", doc.Game, err)
	}

	s.logger.Info("ingested rule document",
		zap.String("game", doc.Game),
		zap.Int("sections", len(docs)),
	)
	return nil
}

// Fetch returns the stored sections for a game, or ErrGameNotFound when none
// exist.
func (s *Store) Fetch(ctx context.Context, game string) (*GameMetadata, error) {
	col, err := s.collection()
	if err != nil {
		return nil, err
	}

	meta := &GameMetadata{Game: game, Sections: make(map[string]string)}
	for _, title := range SectionTitles {
		doc, err := col.GetByID(ctx, sectionID(game, title))
		if err != nil {
			// chromem reports a missing ID as an error; absent sections
			// are expected.
			continue
		}
		meta.Sections[title] = doc.Content
	}
	if len(meta.Sections) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, game)
	}

	s.logger.Debug("fetched rule metadata",
		zap.String("game", game),
		zap.Int("sections", len(meta.Sections)),
	)
	return meta, nil
}

func isCanonicalSection(title string) bool {
	for _, t := range SectionTitles {
		if t == title {
			return true
		}
	}
	return false
}
