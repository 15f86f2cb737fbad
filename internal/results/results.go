// Package results defines the quiz result types and the pure transforms
// that turn the remote collections into the scoring board.
// It has no I/O. Everything here is a function of its inputs.
package results

type Quiz struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Questions []Question `json:"questions,omitempty"`
}

type Question struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

type Team struct {
	ID     string  `json:"id" validate:"required"`
	QuizID string  `json:"quizId"`
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Prompt string  `json:"prompt"`
	Color  string  `json:"color"`
}

// Answer is one team's raw answer to one question, as served by the API.
// The question content is denormalized onto every answer.
type Answer struct {
	ID              string `json:"id"`
	TeamID          string `json:"teamId"`
	QuestionID      string `json:"questionId"`
	QuestionContent string `json:"questionContent"`
	QuizID          string `json:"quizId"`
	Content         string `json:"content"`
}

// Judgment scores one team's answer to one question. Content holds the
// judge's motivation.
type Judgment struct {
	ID         string  `json:"id"`
	TeamID     string  `json:"teamId" validate:"required"`
	QuestionID string  `json:"questionId" validate:"required"`
	QuizID     string  `json:"quizId"`
	Content    string  `json:"content"`
	Score      float64 `json:"score"`
}

// TeamAnswer is the joined view of an answer with its team and judgment.
type TeamAnswer struct {
	TeamID     string  `json:"teamId"`
	TeamName   string  `json:"teamName"`
	TeamColor  string  `json:"teamColor"`
	AnswerID   string  `json:"answerId"`
	Answer     string  `json:"answer"`
	Score      float64 `json:"score"`
	Motivation string  `json:"motivation"`
}

type Standing struct {
	Rank      int     `json:"rank"`
	TeamID    string  `json:"teamId"`
	TeamName  string  `json:"teamName"`
	TeamColor string  `json:"teamColor"`
	Score     float64 `json:"score"`
}

// Board is the derived scoring view for one quiz. A Board is never
// mutated once Aggregate returns it.
type Board struct {
	Questions      []Question              `json:"questions"`
	TeamAnswers    map[string][]TeamAnswer `json:"teamAnswers"`
	Totals         map[string]float64      `json:"totals"`
	Leaderboard    []Standing              `json:"leaderboard"`
	TotalQuestions int                     `json:"totalQuestions"`
}

// AnswersFor returns the sorted answers for a question, or nil.
func (b *Board) AnswersFor(questionID string) []TeamAnswer {
	if b == nil {
		return nil
	}
	return b.TeamAnswers[questionID]
}

// QuestionAt returns the question at the zero-based index i.
func (b *Board) QuestionAt(i int) (Question, bool) {
	if b == nil || i < 0 || i >= len(b.Questions) {
		return Question{}, false
	}
	return b.Questions[i], true
}
