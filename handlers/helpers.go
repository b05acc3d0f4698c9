package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bryler/creature-arena/brackets"
	"github.com/bryler/creature-arena/models"
	"github.com/bryler/creature-arena/services"
	"github.com/bryler/creature-arena/swiss"
)

type jsonResponse map[string]interface{}

var errNoContentType = errors.New("Content-Type header is required")

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, status int, message interface{}) {
	if err := writeJSON(w, status, jsonResponse{"error": message}); err != nil {
		slog.Error("failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, err error) {
	slog.Error("internal server error", slog.Any("error", err))
	errorResponse(w, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

func badRequestResponse(w http.ResponseWriter, err error) {
	errorResponse(w, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter) {
	errorResponse(w, http.StatusNotFound, "the requested resource could not be found")
}

func conflictResponse(w http.ResponseWriter, message string) {
	errorResponse(w, http.StatusConflict, message)
}

func unauthorizedResponse(w http.ResponseWriter, message string) {
	errorResponse(w, http.StatusUnauthorized, message)
}

func tournamentIDFromURL(r *http.Request) string {
	return chi.URLParam(r, "tournamentID")
}

// mapManagerErrorToHTTP translates the manager's failure conditions into
// HTTP responses: invalid input becomes 400, missing resources 404, illegal
// state transitions 409, anything else 500.
func mapManagerErrorToHTTP(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrTournamentNotFound),
		errors.Is(err, services.ErrBracketNotInitialized),
		errors.Is(err, brackets.ErrMatchNotFound):
		notFoundResponse(w)

	case errors.Is(err, services.ErrNoParticipants),
		errors.Is(err, services.ErrParticipantNotInTournament),
		errors.Is(err, swiss.ErrNoParticipants),
		errors.Is(err, swiss.ErrInvalidParticipantCount),
		errors.Is(err, models.ErrUnknownOutcome),
		errors.Is(err, models.ErrDrawWithWinner),
		errors.Is(err, models.ErrMissingWinner),
		errors.Is(err, models.ErrWinnerNotInMatch),
		errors.Is(err, models.ErrResultAlreadySet),
		errors.Is(err, brackets.ErrBracketSize),
		errors.Is(err, brackets.ErrMatchNotReady),
		errors.Is(err, brackets.ErrMatchDecided):
		badRequestResponse(w, err)

	case errors.Is(err, services.ErrTournamentComplete),
		errors.Is(err, services.ErrTournamentNotComplete),
		errors.Is(err, services.ErrRoundNotComplete),
		errors.Is(err, brackets.ErrNotEnoughQualifiers):
		conflictResponse(w, err.Error())

	default:
		serverErrorResponse(w, err)
	}
}
