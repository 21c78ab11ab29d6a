package rules

// SectionTitles is the canonical ordered list of rule sections. Ingestion
// chunks documents along these titles and prompt builders emit them in this
// order.
var SectionTitles = []string{
	"Overview",
	"Game Objective",
	"Game Setup",
	"How to Play",
	"Winning the Game",
	"Game Strategy",
	"End of Game",
}

// sectionDescriptions explain each section when asking a model to write
// rules from scratch.
var sectionDescriptions = map[string]string{
	"Overview":         "A brief description of the game.",
	"Game Objective":   "What players are trying to achieve.",
	"Game Setup":       "Details on how to set up the game.",
	"How to Play":      "Instructions on playing the game.",
	"Winning the Game": "Conditions required to win the game.",
	"Game Strategy":    "Tips and strategies for playing the game.",
	"End of Game":      "How and when the game ends.",
}

// GameMetadata holds the rule text of one game, keyed by section title.
type GameMetadata struct {
	Game     string
	Sections map[string]string
}

// Section returns the text for a section title, or "" when absent.
func (m *GameMetadata) Section(title string) string {
	if m == nil || m.Sections == nil {
		return ""
	}
	return m.Sections[title]
}
