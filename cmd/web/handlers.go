package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/AdamBeresnev/bracket-engine/internal/bracket"
	"github.com/AdamBeresnev/bracket-engine/internal/httputil"
	"github.com/AdamBeresnev/bracket-engine/internal/middleware"
	"github.com/AdamBeresnev/bracket-engine/internal/service"
	"github.com/AdamBeresnev/bracket-engine/views"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxBodySize caps request bodies; a team list of a few hundred lines fits easily.
const maxBodySize = 1 << 20

type handlers struct {
	auth        *middleware.AdminAuth
	tournaments *service.TournamentService
	teams       *service.TeamService
	matches     *service.MatchService
}

func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		httputil.BadRequest(w, fmt.Sprintf("Invalid %s", name), err)
		return uuid.Nil, false
	}
	return id, true
}

// decodeJSON reads the body into v. An empty body is accepted when optional is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, optional bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return true
		}
		httputil.BadRequest(w, "Invalid JSON body", err)
		return false
	}
	return true
}

type versionBody struct {
	ExpectedVersion *int `json:"expected_version,omitempty"`
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
	}
	if !decodeJSON(w, r, &body, false) {
		return
	}
	if err := h.auth.Login(r.Context(), body.Token); err != nil {
		if errors.Is(err, middleware.ErrBadToken) {
			httputil.Unauthorized(w, "invalid admin token")
			return
		}
		httputil.InternalServerError(w, "Failed to start session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context()); err != nil {
		httputil.InternalServerError(w, "Failed to end session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) listTournaments(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.tournaments.ListTournaments(r.Context())
	if err != nil {
		httputil.InternalServerError(w, "Failed to get tournaments", err)
		return
	}
	if tournaments == nil {
		tournaments = []bracket.Tournament{}
	}
	httputil.WriteJSON(w, http.StatusOK, tournaments)
}

func (h *handlers) getTournament(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.tournaments.GetTournament(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, "Failed to get tournament", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tournament)
}

func (h *handlers) getBracket(w http.ResponseWriter, r *http.Request) {
	view, err := h.tournaments.GetBracket(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, "Failed to get bracket", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *handlers) bracketPage(w http.ResponseWriter, r *http.Request) {
	view, err := h.tournaments.GetBracket(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, "Failed to get bracket", err)
		return
	}
	if err := views.Render(w, r, views.BracketPage(view)); err != nil {
		slog.Error("failed to render bracket page", "tournament", view.Tournament.ID, "error", err)
	}
}

func (h *handlers) getMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	data, err := h.matches.GetMatch(r.Context(), id)
	if err != nil {
		httputil.Error(w, "Failed to get match", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, data)
}

func (h *handlers) createTournament(w http.ResponseWriter, r *http.Request) {
	var input service.CreateTournamentInput
	if !decodeJSON(w, r, &input, false) {
		return
	}
	tournament, err := h.tournaments.CreateTournament(r.Context(), input)
	if err != nil {
		httputil.Error(w, "Failed to create tournament", err)
		return
	}
	w.Header().Set("Location", "/api/tournaments/"+tournament.ID.String())
	httputil.WriteJSON(w, http.StatusCreated, tournament)
}

func (h *handlers) updateTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var input service.UpdateTournamentInput
	if !decodeJSON(w, r, &input, false) {
		return
	}
	tournament, err := h.tournaments.UpdateTournament(r.Context(), id, input)
	if err != nil {
		httputil.Error(w, "Failed to update tournament", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tournament)
}

func (h *handlers) deleteTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.tournaments.DeleteTournament(r.Context(), id); err != nil {
		httputil.Error(w, "Failed to delete tournament", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// addTeams accepts a JSON array of teams or, with a text/plain body, one team per line.
func (h *handlers) addTeams(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var inputs []service.TeamInput
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "text/plain" {
		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
		if err != nil {
			httputil.BadRequest(w, "Invalid team list", err)
			return
		}
		if inputs, err = service.ParseTeamList(string(raw)); err != nil {
			httputil.Error(w, "Invalid team list", err)
			return
		}
	} else if !decodeJSON(w, r, &inputs, false) {
		return
	}

	teams, err := h.teams.AddTeams(r.Context(), id, inputs)
	if err != nil {
		httputil.Error(w, "Failed to add teams", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, teams)
}

func (h *handlers) removeTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	teamID, ok := uuidParam(w, r, "teamID")
	if !ok {
		return
	}
	if err := h.teams.RemoveTeam(r.Context(), id, teamID); err != nil {
		httputil.Error(w, "Failed to remove team", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) generateBracket(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	replace := false
	if raw := r.URL.Query().Get("replace"); raw != "" {
		var err error
		if replace, err = strconv.ParseBool(raw); err != nil {
			httputil.BadRequest(w, "Invalid replace flag", err)
			return
		}
	}

	view, err := h.tournaments.GenerateBracket(r.Context(), id, replace)
	if err != nil {
		httputil.Error(w, "Failed to generate bracket", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, view)
}

func (h *handlers) createMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var input service.CreateMatchInput
	if !decodeJSON(w, r, &input, false) {
		return
	}
	match, err := h.matches.CreateMatch(r.Context(), id, input)
	if err != nil {
		httputil.Error(w, "Failed to create match", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, match)
}

func (h *handlers) scheduleMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		versionBody
		ScheduledAt *time.Time `json:"scheduled_at"`
	}
	if !decodeJSON(w, r, &body, false) {
		return
	}
	if body.ScheduledAt == nil {
		httputil.BadRequest(w, "scheduled_at is required", nil)
		return
	}
	match, err := h.matches.Schedule(r.Context(), id, *body.ScheduledAt, body.ExpectedVersion)
	if err != nil {
		httputil.Error(w, "Failed to schedule match", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, match)
}

func (h *handlers) startMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var body versionBody
	if !decodeJSON(w, r, &body, true) {
		return
	}
	match, err := h.matches.Start(r.Context(), id, body.ExpectedVersion)
	if err != nil {
		httputil.Error(w, "Failed to start match", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, match)
}

func (h *handlers) completeMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		versionBody
		Score1 *int `json:"score1"`
		Score2 *int `json:"score2"`
	}
	if !decodeJSON(w, r, &body, false) {
		return
	}
	if body.Score1 == nil || body.Score2 == nil {
		httputil.BadRequest(w, "score1 and score2 are required", nil)
		return
	}
	result, err := h.matches.Complete(r.Context(), id, *body.Score1, *body.Score2, body.ExpectedVersion)
	if err != nil {
		httputil.Error(w, "Failed to complete match", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *handlers) cancelMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var body versionBody
	if !decodeJSON(w, r, &body, true) {
		return
	}
	match, err := h.matches.Cancel(r.Context(), id, body.ExpectedVersion)
	if err != nil {
		httputil.Error(w, "Failed to cancel match", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, match)
}

func (h *handlers) deleteMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.matches.DeleteMatch(r.Context(), id); err != nil {
		httputil.Error(w, "Failed to delete match", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
