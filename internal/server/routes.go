package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"

	"github.com/ollewikstrom/hackathon-mobile-results/internal/handler/health"
	"github.com/ollewikstrom/hackathon-mobile-results/internal/web"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Quiz Results API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, deps.Checks).Routes())
	r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))

	// Read-only JSON view of the same data the pages render.
	r.Route("/api/quizzes/{quizId}", func(r chi.Router) {
		r.Get("/board", handleBoard(deps.Views))
		r.Get("/leaderboard", handleLeaderboard(deps.Views))
		r.Get("/teams", handleTeams(deps.Views))
		r.Get("/questions/{number}", handleQuestion(deps.Views))
	})

	// Pages last: they own every remaining path.
	r.Mount("/", web.NewHandler(logger, deps.Views).Routes())
}
