package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/AnshRaj112/journal-backend/internal/services"
)

// JournalService is the part of services.JournalService the HTTP layer calls.
type JournalService interface {
	Explore(ctx context.Context) ([]models.JournalView, error)
	UserJournals(ctx context.Context, userID string) ([]models.JournalView, error)
	Create(ctx context.Context, userID string, req services.JournalRequest) (*models.JournalView, error)
	Edit(ctx context.Context, userID, journalID string, req services.JournalRequest) (*models.JournalView, error)
	ChangePrivacy(ctx context.Context, userID, journalID string, req services.PrivacyRequest) (*models.JournalView, error)
	Delete(ctx context.Context, userID, journalID string) error
	AddComment(ctx context.Context, journalID, commenterID string, req services.CommentRequest) (*models.JournalView, error)
	EditComment(ctx context.Context, journalID, commentID string, req services.CommentRequest) (*models.JournalView, error)
	DeleteComment(ctx context.Context, journalID, commentID string) (*models.JournalView, error)
}

// JournalHandler serves raw JSON bodies: journals and lists of journals,
// without the status envelope the user routes use.
type JournalHandler struct {
	journals JournalService
	timeout  time.Duration
}

func NewJournalHandler(journals JournalService, timeout time.Duration) *JournalHandler {
	return &JournalHandler{journals: journals, timeout: timeout}
}

func (h *JournalHandler) Explore(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, h.timeout)
	defer cancel()

	journals, err := h.journals.Explore(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, journals)
}

func (h *JournalHandler) UserJournals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, h.timeout)
	defer cancel()

	journals, err := h.journals.UserJournals(ctx, chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, journals)
}

func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.JournalRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r, h.timeout)
	defer cancel()

	j, err := h.journals.Create(ctx, chi.URLParam(r, "userId"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

func (h *JournalHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req services.JournalRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r, h.timeout)
	defer cancel()

	j, err := h.journals.Edit(ctx, chi.URLParam(r, "userId"), chi.URLParam(r, "journalId"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

func (h *JournalHandler) ChangePrivacy(w http.ResponseWriter, r *http.Request) {
	var req services.PrivacyRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r, h.timeout)
	defer cancel()

	j, err := h.journals.ChangePrivacy(ctx, chi.URLParam(r, "userId"), chi.URLParam(r, "journalId"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, h.timeout)
	defer cancel()

	journalID := chi.URLParam(r, "journalId")
	if err := h.journals.Delete(ctx, chi.URLParam(r, "userId"), journalID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LikeResponse{Status: http.StatusOK, JournalID: journalID})
}

func (h *JournalHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req services.CommentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r, h.timeout)
	defer cancel()

	j, err := h.journals.AddComment(ctx, chi.URLParam(r, "journalId"), chi.URLParam(r, "commenterId"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

func (h *JournalHandler) EditComment(w http.ResponseWriter, r *http.Request) {
	var req services.CommentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r, h.timeout)
	defer cancel()

	j, err := h.journals.EditComment(ctx, chi.URLParam(r, "journalId"), chi.URLParam(r, "commentId"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

func (h *JournalHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, h.timeout)
	defer cancel()

	j, err := h.journals.DeleteComment(ctx, chi.URLParam(r, "journalId"), chi.URLParam(r, "commentId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}
