package handlers

import (
	"net/http"

	"github.com/bryler/creature-arena/services"
)

type BracketHandler struct {
	manager services.TournamentManager
}

func NewBracketHandler(manager services.TournamentManager) *BracketHandler {
	return &BracketHandler{manager: manager}
}

// InitializeHandler handles POST /tournaments/{tournamentID}/bracket.
// Initialization also happens automatically when qualification finishes, so
// this is mostly a recovery endpoint; re-posting is harmless.
func (h *BracketHandler) InitializeHandler(w http.ResponseWriter, r *http.Request) {
	bracket, err := h.manager.InitializeBracket(r.Context(), tournamentIDFromURL(r))
	if err != nil {
		mapManagerErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"bracket": bracket}); err != nil {
		serverErrorResponse(w, err)
	}
}

// GetHandler handles GET /tournaments/{tournamentID}/bracket.
func (h *BracketHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	bracket, err := h.manager.GetBracket(r.Context(), tournamentIDFromURL(r))
	if err != nil {
		mapManagerErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": bracket}); err != nil {
		serverErrorResponse(w, err)
	}
}

// NextMatchHandler handles GET /tournaments/{tournamentID}/bracket/next. A
// finished bracket yields a null match.
func (h *BracketHandler) NextMatchHandler(w http.ResponseWriter, r *http.Request) {
	match, err := h.manager.GetNextBracketMatch(r.Context(), tournamentIDFromURL(r))
	if err != nil {
		mapManagerErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}); err != nil {
		serverErrorResponse(w, err)
	}
}

// RecordResultHandler handles POST /tournaments/{tournamentID}/bracket/results.
func (h *BracketHandler) RecordResultHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		MatchID string `json:"match_id"`
		Winner  string `json:"winner"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	bracket, err := h.manager.RecordBracketMatchResult(r.Context(), tournamentIDFromURL(r), input.MatchID, input.Winner)
	if err != nil {
		mapManagerErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": bracket}); err != nil {
		serverErrorResponse(w, err)
	}
}

// CompleteHandler handles GET /tournaments/{tournamentID}/bracket/complete.
func (h *BracketHandler) CompleteHandler(w http.ResponseWriter, r *http.Request) {
	complete, err := h.manager.IsBracketComplete(r.Context(), tournamentIDFromURL(r))
	if err != nil {
		mapManagerErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"complete": complete}); err != nil {
		serverErrorResponse(w, err)
	}
}
