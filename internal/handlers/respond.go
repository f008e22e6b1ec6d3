package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/AnshRaj112/journal-backend/internal/identity"
	"github.com/AnshRaj112/journal-backend/internal/services"
	"github.com/AnshRaj112/journal-backend/pkg/logger"
)

const msgFirebaseError = "Firebase Server Error"

const defaultTimeout = 10 * time.Second

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.WithError(err).Warn("failed to encode response")
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Status: status, Message: message})
}

// writeError maps service errors onto status codes. Unknown errors are
// reported as 500 without their text.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classify(err)
	entry := logger.Log.WithError(err).WithField("path", r.URL.Path)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}
	writeMessage(w, status, message)
}

func classify(err error) (int, string) {
	var idErr *identity.Error
	if errors.As(err, &idErr) {
		if idErr.Rejected() {
			return http.StatusBadRequest, idErr.Message
		}
		return http.StatusInternalServerError, msgFirebaseError
	}

	var perr *services.PersistenceError
	if errors.As(err, &perr) {
		return http.StatusInternalServerError, perr.Message
	}

	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		return http.StatusBadRequest, services.MsgInvalidRequest
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, services.MsgForbidden
	case errors.Is(err, services.ErrJournalNotFound):
		return http.StatusNotFound, services.MsgJournalNotFound
	case errors.Is(err, services.ErrCommentNotFound):
		return http.StatusNotFound, services.MsgCommentNotFound
	case errors.Is(err, services.ErrUploadUnavailable):
		return http.StatusInternalServerError, services.MsgUploadUnavailable
	}
	return http.StatusInternalServerError, services.MsgInternalError
}

// decode reads a JSON body. A malformed body is an invalid request.
func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return services.ErrInvalidRequest
	}
	return nil
}

func withTimeout(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultTimeout
	}
	return context.WithTimeout(r.Context(), d)
}
