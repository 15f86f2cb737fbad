package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ollewikstrom/hackathon-mobile-results/internal/handler/health"
	"github.com/ollewikstrom/hackathon-mobile-results/internal/quizapi"
	"github.com/ollewikstrom/hackathon-mobile-results/internal/results"
	"github.com/ollewikstrom/hackathon-mobile-results/internal/scoreboard"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeViews struct {
	err       error
	rosterErr error
}

func (f fakeViews) View(_ context.Context, quizID string) (*scoreboard.View, error) {
	if f.err != nil {
		return nil, f.err
	}
	teams := []results.Team{
		{ID: "t1", Name: "Team 10", Prompt: "rhyme"},
		{ID: "t2", Name: "Team 2", Prompt: "haiku"},
	}
	answers := []results.Answer{
		{ID: "a1", TeamID: "t1", QuestionID: "q1", QuestionContent: "One?", Content: "1"},
		{ID: "a2", TeamID: "t2", QuestionID: "q1", QuestionContent: "One?", Content: "uno"},
		{ID: "a3", TeamID: "t2", QuestionID: "q2", QuestionContent: "Two?", Content: "dos"},
	}
	judgments := []results.Judgment{
		{TeamID: "t1", QuestionID: "q1", Score: 2, Content: "fine"},
		{TeamID: "t2", QuestionID: "q2", Score: 4, Content: "good"},
	}
	return &scoreboard.View{
		QuizID:    quizID,
		QuizName:  "Advent Hack",
		Teams:     teams,
		Board:     results.Aggregate(teams, judgments, answers),
		UpdatedAt: time.Date(2024, 12, 24, 18, 0, 0, 0, time.UTC),
	}, nil
}

func (f fakeViews) Roster(ctx context.Context, quizID string) (*scoreboard.Roster, error) {
	if f.rosterErr != nil {
		return nil, f.rosterErr
	}
	v, _ := fakeViews{}.View(ctx, quizID)
	return &scoreboard.Roster{QuizID: v.QuizID, QuizName: v.QuizName, Teams: v.Teams, UpdatedAt: v.UpdatedAt}, nil
}

func serve(t *testing.T, deps Deps, target string) *httptest.ResponseRecorder {
	t.Helper()
	srv := New(":0", discardLogger(), deps)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestBoardEndpoint(t *testing.T) {
	rec := serve(t, Deps{Views: fakeViews{}}, "/api/quizzes/quiz-1/board")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp BoardResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp.QuizName != "Advent Hack" {
		t.Errorf("quiz name = %q", resp.QuizName)
	}
	if resp.Board.TotalQuestions != 2 {
		t.Errorf("total questions = %d, want 2", resp.Board.TotalQuestions)
	}
	q1 := resp.Board.TeamAnswers["q1"]
	if len(q1) != 2 || q1[0].TeamName != "Team 2" {
		t.Errorf("q1 answers = %+v, want Team 2 first", q1)
	}
}

func TestLeaderboardEndpoint(t *testing.T) {
	rec := serve(t, Deps{Views: fakeViews{}}, "/api/quizzes/quiz-1/leaderboard")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var standings []results.Standing
	json.NewDecoder(rec.Body).Decode(&standings)
	if len(standings) != 2 {
		t.Fatalf("standings = %d, want 2", len(standings))
	}
	if standings[0].TeamName != "Team 2" || standings[0].Score != 4 || standings[0].Rank != 1 {
		t.Errorf("leader = %+v, want Team 2 with 4", standings[0])
	}
}

func TestTeamsEndpoint(t *testing.T) {
	rec := serve(t, Deps{Views: fakeViews{}}, "/api/quizzes/quiz-1/teams")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp TeamsResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if len(resp.Teams) != 2 || resp.Teams[0].Prompt != "rhyme" {
		t.Errorf("teams = %+v", resp.Teams)
	}
}

func TestTeamsEndpointUsesRosterOnly(t *testing.T) {
	views := fakeViews{err: errors.New("failed to fetch judgments: 502 Bad Gateway")}

	rec := serve(t, Deps{Views: views}, "/api/quizzes/quiz-1/teams")
	if rec.Code != http.StatusOK {
		t.Fatalf("teams status = %d, want 200 while judgments fail", rec.Code)
	}
	var resp TeamsResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if len(resp.Teams) != 2 {
		t.Errorf("teams = %+v", resp.Teams)
	}

	rec = serve(t, Deps{Views: views}, "/api/quizzes/quiz-1/board")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("board status = %d, want 502", rec.Code)
	}

	rec = serve(t, Deps{Views: fakeViews{rosterErr: &quizapi.StatusError{Endpoint: "teams", StatusCode: 404}}}, "/api/quizzes/quiz-1/teams")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing roster status = %d, want 404", rec.Code)
	}
}

func TestQuestionEndpoint(t *testing.T) {
	tests := []struct {
		target     string
		wantStatus int
		wantNumber int
		wantPrev   bool
		wantNext   bool
		wantCount  int
	}{
		{"/api/quizzes/quiz-1/questions/1", http.StatusOK, 1, false, true, 2},
		{"/api/quizzes/quiz-1/questions/2", http.StatusOK, 2, true, false, 1},
		{"/api/quizzes/quiz-1/questions/7", http.StatusOK, 2, true, false, 1},
		{"/api/quizzes/quiz-1/questions/0", http.StatusOK, 1, false, true, 2},
		{"/api/quizzes/quiz-1/questions/-9223372036854775808", http.StatusOK, 1, false, true, 2},
		{"/api/quizzes/quiz-1/questions/two", http.StatusBadRequest, 0, false, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := serve(t, Deps{Views: fakeViews{}}, tt.target)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp QuestionResponse
			json.NewDecoder(rec.Body).Decode(&resp)
			if resp.Number != tt.wantNumber || resp.Total != 2 {
				t.Errorf("position = %d of %d, want %d of 2", resp.Number, resp.Total, tt.wantNumber)
			}
			if resp.HasPrev != tt.wantPrev || resp.HasNext != tt.wantNext {
				t.Errorf("prev/next = %v/%v, want %v/%v", resp.HasPrev, resp.HasNext, tt.wantPrev, tt.wantNext)
			}
			if len(resp.Answers) != tt.wantCount {
				t.Errorf("answers = %d, want %d", len(resp.Answers), tt.wantCount)
			}
		})
	}
}

func TestBoardEndpointErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found", &quizapi.StatusError{Endpoint: "answers", StatusCode: 404}, http.StatusNotFound, "failed to fetch answers: 404 Not Found"},
		{"upstream down", errors.New("failed to fetch teams: connection refused"), http.StatusBadGateway, "failed to fetch teams: connection refused"},
		{"closed", scoreboard.ErrClosed, http.StatusServiceUnavailable, "scoreboard closed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, Deps{Views: fakeViews{err: tt.err}}, "/api/quizzes/quiz-1/board")
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var resp ErrorResponse
			json.NewDecoder(rec.Body).Decode(&resp)
			if resp.Error != tt.wantMsg {
				t.Errorf("error = %q, want %q", resp.Error, tt.wantMsg)
			}
		})
	}
}

func TestPagesAreMounted(t *testing.T) {
	rec := serve(t, Deps{Views: fakeViews{}}, "/quiz-1/answers?q=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Question 2 of 2") {
		t.Error("answers page not rendered")
	}
}

func TestHealthAndMetrics(t *testing.T) {
	deps := Deps{
		Views: fakeViews{},
		Checks: map[string]health.Checker{
			"quizapi": health.CheckerFunc(func(context.Context) error { return nil }),
		},
	}
	srv := New(":0", discardLogger(), deps)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz: expected 200, got %d", rec.Code)
	}

	// Serve one request so the histogram has a sample.
	srv.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/quizzes/quiz-1/board", nil))

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "http_request_duration_seconds") {
		t.Error("metrics missing http_request_duration_seconds")
	}
}
