// Package web renders the quiz pages: the team prompt list and the
// paged, judged answers with an optional leaderboard.
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"github.com/ollewikstrom/hackathon-mobile-results/internal/quizapi"
	"github.com/ollewikstrom/hackathon-mobile-results/internal/results"
	"github.com/ollewikstrom/hackathon-mobile-results/internal/scoreboard"
)

//go:embed templates/*.html static/*
var assets embed.FS

// Viewer returns the current view of a quiz. Roster needs only the
// teams, so the prompts page works before any answers are judged.
type Viewer interface {
	View(ctx context.Context, quizID string) (*scoreboard.View, error)
	Roster(ctx context.Context, quizID string) (*scoreboard.Roster, error)
}

type Handler struct {
	views  Viewer
	logger *slog.Logger
	pages  map[string]*template.Template
}

func NewHandler(logger *slog.Logger, views Viewer) *Handler {
	return &Handler{
		views:  views,
		logger: logger,
		pages:  parsePages("index.html", "teams.html", "answers.html", "error.html"),
	}
}

func parsePages(names ...string) map[string]*template.Template {
	funcs := template.FuncMap{
		"points": func(score float64) string { return results.FormatScore(score) + " points" },
	}
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		pages[name] = template.Must(template.New(name).Funcs(funcs).
			ParseFS(assets, "templates/layout.html", "templates/"+name))
	}
	return pages
}

func (h *Handler) Routes() chi.Router {
	static, _ := fs.Sub(assets, "static")

	r := chi.NewRouter()
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	r.Get("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/", h.index)
	r.Get("/{quizId}", h.teams)
	r.Get("/{quizId}/answers", h.answers)
	return r
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "index.html", nil)
}

type teamsPage struct {
	QuizID     string
	QuizName   string
	Updated    string
	AnswersURL string
	Cards      []results.PromptCard
}

func (h *Handler) teams(w http.ResponseWriter, r *http.Request) {
	quizID := chi.URLParam(r, "quizId")
	roster, err := h.views.Roster(r.Context(), quizID)
	if err != nil || roster == nil {
		h.fail(w, r, quizID, err)
		return
	}

	open := openSet(r)
	cards := results.PromptCards(roster.Teams)
	for i := range cards {
		if open[cards[i].TeamID] {
			cards[i].Toggle()
		}
	}

	h.render(w, http.StatusOK, "teams.html", teamsPage{
		QuizID:     quizID,
		QuizName:   roster.QuizName,
		Updated:    humanize.Time(roster.UpdatedAt),
		AnswersURL: "/" + url.PathEscape(quizID) + "/answers",
		Cards:      cards,
	})
}

type answersPage struct {
	QuizID          string
	QuizName        string
	Updated         string
	Number          int
	Total           int
	Question        results.Question
	HasQuestion     bool
	Cards           []results.AnswerCard
	PrevURL         string
	NextURL         string
	ShowLeaderboard bool
	LeaderboardURL  string
	Leaderboard     []results.Standing
}

func (h *Handler) answers(w http.ResponseWriter, r *http.Request) {
	quizID := chi.URLParam(r, "quizId")
	v, ok := h.view(w, r, quizID)
	if !ok {
		return
	}

	q := r.URL.Query()
	cursor := results.NewCursor(v.Board.TotalQuestions, questionIndex(q.Get("q")))
	showBoard := q.Get("leaderboard") == "1"

	page := answersPage{
		QuizID:          quizID,
		QuizName:        v.QuizName,
		Updated:         humanize.Time(v.UpdatedAt),
		Number:          cursor.Index() + 1,
		Total:           cursor.Total(),
		ShowLeaderboard: showBoard,
		LeaderboardURL:  pageURL(quizID, cursor.Index(), !showBoard),
	}
	if showBoard {
		page.Leaderboard = v.Board.Leaderboard
	}

	if question, ok := v.Board.QuestionAt(cursor.Index()); ok {
		page.Question, page.HasQuestion = question, true

		open := openSet(r)
		page.Cards = results.AnswerCards(v.Board.AnswersFor(question.ID))
		for i := range page.Cards {
			if open[page.Cards[i].AnswerID] {
				page.Cards[i].Toggle()
			}
		}
	}

	prev, next := cursor, cursor
	if prev.Prev() {
		page.PrevURL = pageURL(quizID, prev.Index(), showBoard)
	}
	if next.Next() {
		page.NextURL = pageURL(quizID, next.Index(), showBoard)
	}

	h.render(w, http.StatusOK, "answers.html", page)
}

// view loads the quiz or writes the error page. Partial data is never
// rendered: any failed fetch replaces the whole page.
func (h *Handler) view(w http.ResponseWriter, r *http.Request, quizID string) (*scoreboard.View, bool) {
	v, err := h.views.View(r.Context(), quizID)
	if err == nil && v != nil {
		return v, true
	}
	h.fail(w, r, quizID, err)
	return nil, false
}

// fail writes the error page unless the client already went away.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, quizID string, err error) {
	if r.Context().Err() != nil {
		return
	}

	msg := scoreboard.UnknownError
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	h.logger.Error("loading quiz data", "quiz_id", quizID, "error", err)
	h.render(w, ErrorStatus(err), "error.html", struct{ Message string }{msg})
}

// ErrorStatus maps a load error to the status the pages and JSON API
// answer with.
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, quizapi.ErrNotFound), errors.Is(err, quizapi.ErrEmptyQuizID):
		return http.StatusNotFound
	case errors.Is(err, scoreboard.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := h.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.Error("rendering page", "page", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// questionIndex turns the 1-based q parameter into a zero-based index.
// Anything unparsable or below 1 means the first question; the cursor
// clamps the upper end.
func questionIndex(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0
	}
	return n - 1
}

// pageURL links to the zero-based question index; URLs count from 1.
func pageURL(quizID string, index int, leaderboard bool) string {
	q := url.Values{}
	q.Set("q", strconv.Itoa(index+1))
	if leaderboard {
		q.Set("leaderboard", "1")
	}
	return "/" + url.PathEscape(quizID) + "/answers?" + q.Encode()
}

func openSet(r *http.Request) map[string]bool {
	open := make(map[string]bool)
	for _, id := range r.URL.Query()["open"] {
		open[id] = true
	}
	return open
}
