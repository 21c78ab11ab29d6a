package genloop

import (
	"strings"
	"testing"
)

func TestOutcomeDetail(t *testing.T) {
	cases := []struct {
		name    string
		outcome ValidationOutcome
		want    []string
	}{
		{
			"syntax with line",
			SyntaxErrorOutcome("SyntaxError: invalid syntax", 7),
			[]string{"syntax error at line 7", "SyntaxError: invalid syntax"},
		},
		{
			"syntax without line",
			SyntaxErrorOutcome("SyntaxError: unexpected EOF", 0),
			[]string{"syntax error: SyntaxError: unexpected EOF"},
		},
		{
			"runtime with trace",
			RuntimeErrorOutcome("ValueError: bad move", "Traceback (most recent call last):"),
			[]string{"runtime error: ValueError: bad move", "Traceback"},
		},
		{
			"runtime without trace",
			RuntimeErrorOutcome("artifact exited with code 2", ""),
			[]string{"runtime error: artifact exited with code 2"},
		},
		{
			"provider",
			ProviderErrorOutcome("all providers failed"),
			[]string{"provider error: all providers failed"},
		},
	}

	for _, tc := range cases {
		detail := tc.outcome.Detail()
		for _, want := range tc.want {
			if !strings.Contains(detail, want) {
				t.Errorf("%s: detail %q missing %q", tc.name, detail, want)
			}
		}
	}
}

func TestOutcomeIsSuccess(t *testing.T) {
	if !SuccessOutcome().IsSuccess() {
		t.Error("success outcome must report success")
	}
	for _, o := range []ValidationOutcome{
		SyntaxErrorOutcome("x", 1),
		RuntimeErrorOutcome("x", ""),
		ProviderErrorOutcome("x"),
	} {
		if o.IsSuccess() {
			t.Errorf("%s must not report success", o.Kind)
		}
	}
}
