package genloop

import "strings"

// nextPrompt builds the prompt for the attempt after a failure. The failure
// detail is appended to the original rules prompt, never to a previous
// repair prompt, so the request stays anchored to the source rules.
func nextPrompt(original string, failed ValidationOutcome) string {
	var sb strings.Builder
	sb.WriteString(original)
	sb.WriteString("\n\n")

	switch failed.Kind {
	case OutcomeProviderError:
		// A full provider outage may be transient; escalate inside the
		// budget rather than giving up.
		sb.WriteString("The previous attempt could not be completed because no provider produced output (")
		sb.WriteString(failed.Message)
		sb.WriteString("). Generate the complete program now.\n")
	default:
		sb.WriteString("The previous attempt produced a program that failed validation:\n\n")
		sb.WriteString(failed.Detail())
		sb.WriteString("\n\nFix the problem and respond with the complete corrected Python program only, no explanations.\n")
	}
	return sb.String()
}
