package main

import "testing"

func TestDefaultArtifactName(t *testing.T) {
	cases := []struct {
		game string
		want string
	}{
		{"Chess", "chess.py"},
		{"Tic Tac Toe", "tic_tac_toe.py"},
		{"Space-Adventure 2", "space_adventure_2.py"},
		{"!!!", "game.py"},
	}
	for _, tc := range cases {
		if got := defaultArtifactName(tc.game); got != tc.want {
			t.Errorf("%q: got %q, want %q", tc.game, got, tc.want)
		}
	}
}
