package genloop

import "testing"

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare code", "print('hi')\n", "print('hi')"},
		{"python fence", "```python\nprint('hi')\n```", "print('hi')"},
		{"plain fence", "```\nx = 1\n```", "x = 1"},
		{"prose around fence", "Here is the game:\n\n```python\nimport random\nprint(random.random())\n```\n\nEnjoy!", "import random\nprint(random.random())"},
		{"unterminated fence", "```python\nprint('hi')\n", "print('hi')"},
		{"fence without newline", "```print", "```print"},
	}
	for _, tc := range cases {
		if got := StripCodeFences(tc.in); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}
