package results

import (
	"slices"
	"testing"
)

func TestCleanAnswer(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"leading marker", "HoHoHo! Great job", "Great job"},
		{"marker without bang", "HoHoHo Great job", "Great job"},
		{"both markers", "Merry Christmas! The answer is 42. HoHoHo", "The answer is 42."},
		{"greeting split by marker", "Merry HoHoHoChristmas! Paris", "Paris"},
		{"case sensitive", "hohoho great", "hohoho great"},
		{"only whitespace left", "  HoHoHo!  ", ""},
		{"code fence untouched", "HoHoHo! ```code```", "HoHoHo! ```code```"},
		{"plain", "  just an answer\n", "just an answer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanAnswer(tt.in); got != tt.want {
				t.Errorf("CleanAnswer(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSortNatural(t *testing.T) {
	names := []string{"Team 10", "Team 2", "Team 1"}
	SortNatural(names)

	want := []string{"Team 1", "Team 2", "Team 10"}
	if !slices.Equal(names, want) {
		t.Errorf("sorted = %v, want %v", names, want)
	}
	if NaturalCompare("Team 9", "Team 11") >= 0 {
		t.Error("Team 9 should sort before Team 11")
	}
}

func TestCardToggleIsPerCard(t *testing.T) {
	cards := PromptCards(sampleTeams())
	for _, c := range cards {
		if c.Expanded {
			t.Fatalf("card %s starts expanded", c.TeamID)
		}
	}

	cards[1].Toggle()
	if !cards[1].Expanded {
		t.Error("toggled card should be expanded")
	}
	if cards[0].Expanded || cards[2].Expanded {
		t.Error("toggle leaked into other cards")
	}
	cards[1].Toggle()
	if cards[1].Expanded {
		t.Error("second toggle should collapse")
	}
}

func TestAnswerCardDisplay(t *testing.T) {
	c := AnswerCards([]TeamAnswer{{TeamName: "Team 1", Answer: "HoHoHo! Paris", Score: 3}})[0]

	if got := c.DisplayAnswer(); got != "Paris" {
		t.Errorf("display = %q, want %q", got, "Paris")
	}
	if got := c.ColorClass(); got != DefaultTeamColor {
		t.Errorf("color = %q, want %q", got, DefaultTeamColor)
	}
	if got := c.Points(); got != "3 points" {
		t.Errorf("points = %q, want %q", got, "3 points")
	}
	if got := FormatScore(2.5); got != "2.5" {
		t.Errorf("FormatScore(2.5) = %q", got)
	}
}
