package results

import (
	"cmp"
	"slices"
)

// Placeholders used when an answer cannot be joined to a team or judgment.
const (
	UnknownTeamName   = "Unknown Team"
	DefaultTeamColor  = "bg-gray-500"
	NoJudgmentMessage = "No judgment provided yet."
)

type judgmentKey struct {
	questionID string
	teamID     string
}

// Aggregate joins answers with their teams and judgments.
//
// Every answer yields exactly one TeamAnswer. Questions keep the order in
// which their ids first appear in answers. A team's total is the sum of
// the judged scores of its answers. When several judgments share a
// (question, team) pair the last one wins; duplicate answers are all kept.
func Aggregate(teams []Team, judgments []Judgment, answers []Answer) *Board {
	teamByID := make(map[string]Team, len(teams))
	for _, t := range teams {
		teamByID[t.ID] = t
	}

	judgmentByKey := make(map[judgmentKey]Judgment, len(judgments))
	for _, j := range judgments {
		judgmentByKey[judgmentKey{questionID: j.QuestionID, teamID: j.TeamID}] = j
	}

	b := &Board{
		Questions:   []Question{},
		TeamAnswers: make(map[string][]TeamAnswer),
		Totals:      make(map[string]float64),
	}
	seen := make(map[string]struct{})

	for _, a := range answers {
		if _, ok := seen[a.QuestionID]; !ok {
			seen[a.QuestionID] = struct{}{}
			b.Questions = append(b.Questions, Question{ID: a.QuestionID, Content: a.QuestionContent})
		}

		ta := TeamAnswer{
			TeamID:     a.TeamID,
			TeamName:   UnknownTeamName,
			TeamColor:  DefaultTeamColor,
			AnswerID:   a.ID,
			Answer:     a.Content,
			Motivation: NoJudgmentMessage,
		}
		if t, ok := teamByID[a.TeamID]; ok {
			ta.TeamName = t.Name
			if t.Color != "" {
				ta.TeamColor = t.Color
			}
		}
		if j, ok := judgmentByKey[judgmentKey{questionID: a.QuestionID, teamID: a.TeamID}]; ok {
			ta.Score = j.Score
			ta.Motivation = j.Content
		}

		b.TeamAnswers[a.QuestionID] = append(b.TeamAnswers[a.QuestionID], ta)
		b.Totals[a.TeamID] += ta.Score
	}

	c := newCollator()
	for _, list := range b.TeamAnswers {
		slices.SortStableFunc(list, func(x, y TeamAnswer) int {
			return c.CompareString(x.TeamName, y.TeamName)
		})
	}

	b.Leaderboard = leaderboard(teams, answers, b.Totals, teamByID)
	b.TotalQuestions = len(b.Questions)
	return b
}

// leaderboard ranks every known team plus any team id that only appears
// in answers. Ties share a rank and are ordered by name.
func leaderboard(teams []Team, answers []Answer, totals map[string]float64, teamByID map[string]Team) []Standing {
	standings := make([]Standing, 0, len(totals))
	listed := make(map[string]struct{}, len(teams))

	add := func(id string) {
		if _, ok := listed[id]; ok {
			return
		}
		listed[id] = struct{}{}
		s := Standing{TeamID: id, TeamName: UnknownTeamName, TeamColor: DefaultTeamColor, Score: totals[id]}
		if t, ok := teamByID[id]; ok {
			s.TeamName = t.Name
			if t.Color != "" {
				s.TeamColor = t.Color
			}
		}
		standings = append(standings, s)
	}
	for _, t := range teams {
		add(t.ID)
	}
	for _, a := range answers {
		add(a.TeamID)
	}

	c := newCollator()
	slices.SortStableFunc(standings, func(x, y Standing) int {
		if n := cmp.Compare(y.Score, x.Score); n != 0 {
			return n
		}
		return c.CompareString(x.TeamName, y.TeamName)
	})

	for i := range standings {
		if i > 0 && standings[i].Score == standings[i-1].Score {
			standings[i].Rank = standings[i-1].Rank
			continue
		}
		standings[i].Rank = i + 1
	}
	return standings
}
