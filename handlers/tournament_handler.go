package handlers

import (
	"net/http"

	"github.com/bryler/creature-arena/middleware"
	"github.com/bryler/creature-arena/services"
)

type TournamentHandler struct {
	manager services.TournamentManager
}

func NewTournamentHandler(manager services.TournamentManager) *TournamentHandler {
	return &TournamentHandler{manager: manager}
}

// CreateHandler handles POST /tournaments.
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	ownerEmail, err := middleware.GetOwnerEmailFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, "authentication required to create a tournament")
		return
	}

	var input struct {
		Competitors []string `json:"competitors"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	tournament, err := h.manager.CreateTournament(r.Context(), ownerEmail, input.Competitors)
	if err != nil {
		mapManagerErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}); err != nil {
		serverErrorResponse(w, err)
	}
}

// ListMineHandler handles GET /tournaments, scoped to the caller's email.
func (h *TournamentHandler) ListMineHandler(w http.ResponseWriter, r *http.Request) {
	ownerEmail, err := middleware.GetOwnerEmailFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, "authentication required")
		return
	}

	tournaments, err := h.manager.ListTournamentsByOwner(r.Context(), ownerEmail)
	if err != nil {
		mapManagerErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}); err != nil {
		serverErrorResponse(w, err)
	}
}

// GetByIDHandler handles GET /tournaments/{tournamentID}.
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.manager.GetTournament(r.Context(), tournamentIDFromURL(r))
	if err != nil {
		mapManagerErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}); err != nil {
		serverErrorResponse(w, err)
	}
}

// DetailHandler handles GET /tournaments/{tournamentID}/detail, returning
// the tournament, its stored matches and its bracket in one response.
func (h *TournamentHandler) DetailHandler(w http.ResponseWriter, r *http.Request) {
	detail, err := h.manager.GetTournamentDetail(r.Context(), tournamentIDFromURL(r))
	if err != nil {
		mapManagerErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, detail); err != nil {
		serverErrorResponse(w, err)
	}
}

// DeleteHandler handles DELETE /tournaments/{tournamentID}.
func (h *TournamentHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.DeleteTournament(r.Context(), tournamentIDFromURL(r)); err != nil {
		mapManagerErrorToHTTP(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PairingsHandler handles GET /tournaments/{tournamentID}/pairings.
func (h *TournamentHandler) PairingsHandler(w http.ResponseWriter, r *http.Request) {
	pairings, err := h.manager.GetCurrentRoundPairings(r.Context(), tournamentIDFromURL(r))
	if err != nil {
		mapManagerErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"pairings": pairings}); err != nil {
		serverErrorResponse(w, err)
	}
}

// RecordResultHandler handles POST /tournaments/{tournamentID}/results.
func (h *TournamentHandler) RecordResultHandler(w http.ResponseWriter, r *http.Request) {
	var input services.RecordResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	tournament, err := h.manager.RecordMatchResult(r.Context(), tournamentIDFromURL(r), input)
	if err != nil {
		mapManagerErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}); err != nil {
		serverErrorResponse(w, err)
	}
}

// RecordByeHandler handles POST /tournaments/{tournamentID}/byes.
func (h *TournamentHandler) RecordByeHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Participant string `json:"participant"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	tournament, err := h.manager.RecordBye(r.Context(), tournamentIDFromURL(r), input.Participant)
	if err != nil {
		mapManagerErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}); err != nil {
		serverErrorResponse(w, err)
	}
}

// RoundCompleteHandler handles GET /tournaments/{tournamentID}/round/complete.
func (h *TournamentHandler) RoundCompleteHandler(w http.ResponseWriter, r *http.Request) {
	complete, err := h.manager.IsCurrentRoundComplete(r.Context(), tournamentIDFromURL(r))
	if err != nil {
		mapManagerErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"complete": complete}); err != nil {
		serverErrorResponse(w, err)
	}
}

// AdvanceRoundHandler handles POST /tournaments/{tournamentID}/advance.
func (h *TournamentHandler) AdvanceRoundHandler(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.manager.AdvanceToNextRound(r.Context(), tournamentIDFromURL(r))
	if err != nil {
		mapManagerErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}); err != nil {
		serverErrorResponse(w, err)
	}
}

// StandingsHandler handles GET /tournaments/{tournamentID}/standings.
func (h *TournamentHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	standings, err := h.manager.GetCurrentStandings(r.Context(), tournamentIDFromURL(r))
	if err != nil {
		mapManagerErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}); err != nil {
		serverErrorResponse(w, err)
	}
}

// FinalStandingsHandler handles GET /tournaments/{tournamentID}/standings/final.
func (h *TournamentHandler) FinalStandingsHandler(w http.ResponseWriter, r *http.Request) {
	standings, err := h.manager.GetFinalStandings(r.Context(), tournamentIDFromURL(r))
	if err != nil {
		mapManagerErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}); err != nil {
		serverErrorResponse(w, err)
	}
}

// UploadBannerHandler handles PUT /tournaments/{tournamentID}/banner. The
// request body is the raw image; Content-Type names the format.
func (h *TournamentHandler) UploadBannerHandler(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		badRequestResponse(w, errNoContentType)
		return
	}

	tournament, err := h.manager.UploadBanner(r.Context(), tournamentIDFromURL(r), contentType, r.Body)
	if err != nil {
		mapManagerErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}); err != nil {
		serverErrorResponse(w, err)
	}
}
