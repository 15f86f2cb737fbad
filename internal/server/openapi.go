package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/ollewikstrom/hackathon-mobile-results/internal/handler/health"
	"github.com/ollewikstrom/hackathon-mobile-results/internal/results"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type quizPath struct {
	QuizID string `path:"quizId" description:"Quiz identifier."`
}

type questionPath struct {
	QuizID string `path:"quizId" description:"Quiz identifier."`
	Number int    `path:"number" description:"Question number, counted from 1. Clamped into range."`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Quiz Results API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Read-only view of hackathon quiz teams, judged answers and standings.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Reports whether the upstream quiz API is reachable.")
	getHealthz.AddRespStructure(map[string]health.Result{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(map[string]health.Result{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/quizzes/{quizId}/board
	getBoard, _ := r.NewOperationContext(http.MethodGet, "/api/quizzes/{quizId}/board")
	getBoard.SetSummary("Get board")
	getBoard.SetDescription("Questions in first-seen order, answers per question joined with teams and judgments, and per-team totals.")
	getBoard.AddReqStructure(quizPath{})
	getBoard.AddRespStructure(BoardResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getBoard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	getBoard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(getBoard)

	// GET /api/quizzes/{quizId}/leaderboard
	getLeaderboard, _ := r.NewOperationContext(http.MethodGet, "/api/quizzes/{quizId}/leaderboard")
	getLeaderboard.SetSummary("Get leaderboard")
	getLeaderboard.SetDescription("Teams ranked by total judged score; ties ordered by name.")
	getLeaderboard.AddReqStructure(quizPath{})
	getLeaderboard.AddRespStructure([]results.Standing{}, openapi.WithHTTPStatus(http.StatusOK))
	getLeaderboard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	getLeaderboard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(getLeaderboard)

	// GET /api/quizzes/{quizId}/teams
	getTeams, _ := r.NewOperationContext(http.MethodGet, "/api/quizzes/{quizId}/teams")
	getTeams.SetSummary("List teams")
	getTeams.SetDescription("Teams in the quiz with their submitted prompts.")
	getTeams.AddReqStructure(quizPath{})
	getTeams.AddRespStructure(TeamsResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getTeams.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	getTeams.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(getTeams)

	// GET /api/quizzes/{quizId}/questions/{number}
	getQuestion, _ := r.NewOperationContext(http.MethodGet, "/api/quizzes/{quizId}/questions/{number}")
	getQuestion.SetSummary("Get question")
	getQuestion.SetDescription("One question with its judged answers, sorted by team name.")
	getQuestion.AddReqStructure(questionPath{})
	getQuestion.AddRespStructure(QuestionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	getQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	getQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(getQuestion)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
