package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	outboxStore "courtside/internal/adapters/storage/outbox"
	"courtside/internal/application/orchestrators"
	"courtside/internal/application/projections"
	"courtside/internal/domain/account"
	"courtside/internal/domain/analysis"
	"courtside/internal/domain/booking"
	"courtside/internal/domain/calendar"
	"courtside/internal/domain/plan"
	"courtside/internal/domain/player"
	"courtside/internal/domain/session"
)

// errBadRequest marks a body or query the handler could not parse.
var errBadRequest = errors.New("bad request")

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response_encode_failed", "error", err)
	}
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

// writeError maps err to a status; anything unrecognised is an internal error.
func writeError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		internalError(w, err)
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// maxBodyBytes bounds request bodies; larger bodies fail to decode.
const maxBodyBytes = 1 << 20

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

var notFoundErrors = []error{
	player.ErrNotFound,
	session.ErrNotFound,
	analysis.ErrNotFound,
	plan.ErrNotFound,
	account.ErrNotFound,
	outboxStore.ErrNotFound,
}

var conflictErrors = []error{
	player.ErrHasSessions,
	session.ErrStatusTransition,
	session.ErrSameStatus,
	orchestrators.ErrEntryTerminal,
	orchestrators.ErrEmailAlreadyExists,
}

var validationErrors = []error{
	errBadRequest,
	calendar.ErrInvalidDate,
	calendar.ErrInvalidDirection,
	calendar.ErrInvalidPhase,
	booking.ErrInvalidSlot,
	booking.ErrInvalidTime,
	booking.ErrInvalidType,
	booking.ErrNotesTooLong,
	player.ErrEmptyName,
	player.ErrNameTooLong,
	player.ErrInvalidEmail,
	player.ErrEmailTooLong,
	player.ErrPhoneTooLong,
	player.ErrInvalidLevel,
	player.ErrImageURLLong,
	session.ErrInvalidStatus,
	analysis.ErrEmptyPlayerID,
	analysis.ErrEmptyVideoURI,
	analysis.ErrURITooLong,
	analysis.ErrInvalidVideoType,
	plan.ErrEmptyPlayerID,
	account.ErrInvalidEmail,
	account.ErrEmptyEmail,
	account.ErrEmailTooLong,
	account.ErrInvalidRole,
	account.ErrEmptyPassword,
	account.ErrPasswordTooShort,
	orchestrators.ErrPasswordFieldsRequired,
	orchestrators.ErrCurrentPasswordWrong,
	orchestrators.ErrNewPasswordSame,
	projections.ErrSessionRange,
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// errorStatus maps domain errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, booking.ErrInvalidSelection), errors.Is(err, plan.ErrNoEmail):
		return http.StatusUnprocessableEntity
	case errors.Is(err, orchestrators.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, orchestrators.ErrAccountLocked):
		return http.StatusLocked
	case isAny(err, notFoundErrors):
		return http.StatusNotFound
	case isAny(err, conflictErrors):
		return http.StatusConflict
	case isAny(err, validationErrors):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
