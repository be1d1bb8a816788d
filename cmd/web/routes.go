package main

import (
	"net/http"

	"github.com/AdamBeresnev/bracket-engine/internal/httputil"
	"github.com/AdamBeresnev/bracket-engine/internal/middleware"
	"github.com/AdamBeresnev/bracket-engine/internal/service"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type routerDeps struct {
	sessions    *scs.SessionManager
	auth        *middleware.AdminAuth
	tournaments *service.TournamentService
	teams       *service.TeamService
	matches     *service.MatchService
	metrics     http.Handler
	corsOrigins []string
}

func newRouter(deps routerDeps) http.Handler {
	h := &handlers{
		auth:        deps.auth,
		tournaments: deps.tournaments,
		teams:       deps.teams,
		matches:     deps.matches,
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	if len(deps.corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   deps.corsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if deps.metrics != nil {
		r.Handle("/metrics", deps.metrics)
	}

	// Public read side
	r.Route("/api", func(r chi.Router) {
		r.Get("/tournaments", h.listTournaments)
		r.Get("/tournaments/{id}", h.getTournament)
		r.Get("/tournaments/{id}/bracket", h.getBracket)
		r.Get("/matches/{id}", h.getMatch)
	})
	r.Get("/tournaments/{id}", h.bracketPage)

	r.Route("/admin", func(r chi.Router) {
		r.Use(deps.sessions.LoadAndSave)

		r.Post("/session", h.login)
		r.Delete("/session", h.logout)

		r.Group(func(r chi.Router) {
			r.Use(deps.auth.RequireAdmin)

			r.Post("/tournaments", h.createTournament)
			r.Put("/tournaments/{id}", h.updateTournament)
			r.Delete("/tournaments/{id}", h.deleteTournament)

			r.Post("/tournaments/{id}/teams", h.addTeams)
			r.Delete("/tournaments/{id}/teams/{teamID}", h.removeTeam)

			r.Post("/tournaments/{id}/bracket", h.generateBracket)
			r.Post("/tournaments/{id}/matches", h.createMatch)

			r.Put("/matches/{id}/schedule", h.scheduleMatch)
			r.Post("/matches/{id}/start", h.startMatch)
			r.Post("/matches/{id}/complete", h.completeMatch)
			r.Post("/matches/{id}/cancel", h.cancelMatch)
			r.Delete("/matches/{id}", h.deleteMatch)
		})
	})

	return r
}
