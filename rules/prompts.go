package rules

import (
	"fmt"
	"strings"
)

// BuildCodePrompt renders the code-generation prompt for a game whose rule
// sections are known. Missing sections are marked "Not available" rather than
// omitted so the model sees the full canonical structure.
func BuildCodePrompt(meta *GameMetadata) string {
	var sb strings.Builder
	sb.WriteString("You are a Python expert and you are tasked with generating the code for a game. Here are the components of the game:\n")

	for _, title := range SectionTitles {
		text := meta.Section(title)
		if text == "" {
			text = "Not available"
		}
		fmt.Fprintf(&sb, "\n%s: %s", title, text)
	}

	sb.WriteString("\n\nBased on the above information, generate the Python code for this game. Make sure the game is functional and can be played in a terminal. Respond with the complete program only, no explanations.\n")
	return sb.String()
}

// BuildRulesPrompt renders the rules-generation prompt for a game the store
// does not know. The response is rules text only, never code.
func BuildRulesPrompt(game string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a creative game designer and Python programmer. You need to design a new game called %q.\n", game)
	sb.WriteString("\nPlease create detailed game rules for this new game. Include the following sections:\n")

	for i, title := range SectionTitles {
		fmt.Fprintf(&sb, "\n%d. %s: %s", i+1, title, sectionDescriptions[title])
	}

	sb.WriteString("\n\nOnce the rules are established, ensure the rules can be used to generate Python code to play this game. Do not generate Python code, only the rules based on the above sections. Be creative and come up with a fun, interactive game idea.\n")
	return sb.String()
}

// ParseRuleText splits free-form rules text into canonical sections. A line
// whose leading text matches a section title (allowing markdown heading
// markers, list numbering, and bold markers) starts that section; any text on
// the same line after the title's colon becomes the first body line. Text
// before the first recognized title is dropped.
func ParseRuleText(text string) map[string]string {
	sections := make(map[string]string)
	var current string
	var body []string

	flush := func() {
		if current == "" {
			return
		}
		trimmed := strings.TrimSpace(strings.Join(body, "\n"))
		if trimmed != "" {
			sections[current] = trimmed
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if title, rest := splitSectionLine(line); title != "" {
			flush()
			current = title
			body = body[:0]
			if rest != "" {
				body = append(body, rest)
			}
			continue
		}
		if current != "" {
			body = append(body, line)
		}
	}
	flush()
	return sections
}

// splitSectionLine reports which canonical section a line introduces and the
// inline text following it, or ("", "") for ordinary text.
func splitSectionLine(line string) (string, string) {
	s := strings.TrimSpace(line)
	s = strings.TrimLeft(s, "#")
	s = strings.TrimSpace(s)

	// Strip list numbering like "3. ".
	if i := strings.IndexByte(s, '.'); i > 0 && i <= 2 && isDigits(s[:i]) {
		s = strings.TrimSpace(s[i+1:])
	}

	for _, title := range SectionTitles {
		head := s
		if len(head) < len(title) {
			continue
		}
		head = strings.Trim(head, "*")
		if strings.EqualFold(head, title) {
			return title, ""
		}
		// "Title: inline text" form, possibly with bold markers around the
		// title itself.
		bare := strings.TrimLeft(s, "*")
		if len(bare) > len(title) && strings.EqualFold(bare[:len(title)], title) {
			rest := strings.TrimLeft(bare[len(title):], "*")
			// Only "Title:" introduces a section; a sentence that merely
			// starts with the title stays body text.
			if !strings.HasPrefix(rest, ":") {
				continue
			}
			return title, strings.TrimSpace(rest[1:])
		}
	}
	return "", ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
