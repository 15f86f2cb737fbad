package results

import (
	"strconv"
	"strings"
)

const codeFence = "```"

// The markers are stripped in two passes, HoHoHo first, so a greeting
// split by one is still removed by the second. Within a pass the "!"
// form is listed first so it wins.
var markerPasses = []*strings.Replacer{
	strings.NewReplacer("HoHoHo!", "", "HoHoHo", ""),
	strings.NewReplacer("Merry Christmas!", "", "Merry Christmas", ""),
}

// CleanAnswer strips the festive markers some teams' prompts emit and
// trims the result. Text containing a code fence is returned untouched.
func CleanAnswer(text string) string {
	if strings.Contains(text, codeFence) {
		return text
	}
	for _, pass := range markerPasses {
		text = pass.Replace(text)
	}
	return strings.TrimSpace(text)
}

// PromptCard shows one team's submitted prompt. Cards start collapsed.
type PromptCard struct {
	TeamID   string
	TeamName string
	Prompt   string
	Expanded bool
}

func (c *PromptCard) Toggle() { c.Expanded = !c.Expanded }

// AnswerCard shows one team's judged answer. Cards start collapsed.
type AnswerCard struct {
	TeamAnswer
	Expanded bool
}

func (c *AnswerCard) Toggle() { c.Expanded = !c.Expanded }

func (c AnswerCard) DisplayAnswer() string { return CleanAnswer(c.Answer) }

func (c AnswerCard) ColorClass() string {
	if c.TeamColor == "" {
		return DefaultTeamColor
	}
	return c.TeamColor
}

// Points renders the score the way the board displays it, e.g. "7 points".
func (c AnswerCard) Points() string {
	return FormatScore(c.Score) + " points"
}

// FormatScore prints whole scores without a fractional part.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// PromptCards builds one collapsed card per team, in the given order.
func PromptCards(teams []Team) []PromptCard {
	cards := make([]PromptCard, 0, len(teams))
	for _, t := range teams {
		cards = append(cards, PromptCard{TeamID: t.ID, TeamName: t.Name, Prompt: t.Prompt})
	}
	return cards
}

// AnswerCards builds one collapsed card per answer, in the given order.
func AnswerCards(answers []TeamAnswer) []AnswerCard {
	cards := make([]AnswerCard, 0, len(answers))
	for _, a := range answers {
		cards = append(cards, AnswerCard{TeamAnswer: a})
	}
	return cards
}
