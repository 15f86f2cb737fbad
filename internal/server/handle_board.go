package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ollewikstrom/hackathon-mobile-results/internal/results"
	"github.com/ollewikstrom/hackathon-mobile-results/internal/scoreboard"
	"github.com/ollewikstrom/hackathon-mobile-results/internal/web"
)

type BoardResponse struct {
	QuizID    string         `json:"quizId"`
	QuizName  string         `json:"quizName"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Board     *results.Board `json:"board"`
}

type TeamsResponse struct {
	QuizID   string         `json:"quizId"`
	QuizName string         `json:"quizName"`
	Teams    []results.Team `json:"teams"`
}

type QuestionResponse struct {
	Number   int                  `json:"number"`
	Total    int                  `json:"total"`
	HasPrev  bool                 `json:"hasPrev"`
	HasNext  bool                 `json:"hasNext"`
	Question results.Question     `json:"question"`
	Answers  []results.TeamAnswer `json:"answers"`
}

// loadView writes the error response and reports false when the quiz
// could not be loaded.
func loadView(w http.ResponseWriter, r *http.Request, views web.Viewer) (*scoreboard.View, bool) {
	v, err := views.View(r.Context(), chi.URLParam(r, "quizId"))
	if err == nil && v != nil {
		return v, true
	}
	writeLoadError(w, err)
	return nil, false
}

func writeLoadError(w http.ResponseWriter, err error) {
	msg := scoreboard.UnknownError
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	writeError(w, web.ErrorStatus(err), msg)
}

func handleBoard(views web.Viewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, ok := loadView(w, r, views)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, BoardResponse{
			QuizID:    v.QuizID,
			QuizName:  v.QuizName,
			UpdatedAt: v.UpdatedAt,
			Board:     v.Board,
		})
	}
}

func handleLeaderboard(views web.Viewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, ok := loadView(w, r, views)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, v.Board.Leaderboard)
	}
}

// handleTeams needs only the roster, so it answers even while answers or
// judgments cannot be fetched.
func handleTeams(views web.Viewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roster, err := views.Roster(r.Context(), chi.URLParam(r, "quizId"))
		if err != nil || roster == nil {
			writeLoadError(w, err)
			return
		}
		teams := roster.Teams
		if teams == nil {
			teams = []results.Team{}
		}
		writeJSON(w, http.StatusOK, TeamsResponse{QuizID: roster.QuizID, QuizName: roster.QuizName, Teams: teams})
	}
}

// handleQuestion serves one page of the board. Numbers count from 1 and
// are clamped into range.
func handleQuestion(views web.Viewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number, err := strconv.Atoi(chi.URLParam(r, "number"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "question number must be an integer")
			return
		}

		v, ok := loadView(w, r, views)
		if !ok {
			return
		}

		cursor := results.NewCursor(v.Board.TotalQuestions, max(number, 1)-1)
		resp := QuestionResponse{
			Number:  cursor.Index() + 1,
			Total:   cursor.Total(),
			HasPrev: cursor.HasPrev(),
			HasNext: cursor.HasNext(),
			Answers: []results.TeamAnswer{},
		}
		if q, ok := v.Board.QuestionAt(cursor.Index()); ok {
			resp.Question = q
			resp.Answers = v.Board.AnswersFor(q.ID)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
