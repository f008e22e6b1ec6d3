package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/AnshRaj112/journal-backend/internal/services"
)

// UserService is the part of services.UserService the HTTP layer calls.
type UserService interface {
	SignUp(ctx context.Context, req services.SignUpRequest) (*services.Session, error)
	Login(ctx context.Context, req services.LoginRequest) (*services.Session, error)
	Info(ctx context.Context, idToken string, secure bool) (*models.User, error)
	InfoByID(ctx context.Context, userID string) (*models.User, error)
	Refresh(ctx context.Context, req services.RefreshRequest) (*services.Session, error)
	ChangePassword(ctx context.Context, req services.PasswordRequest) (*services.Session, error)
	Like(ctx context.Context, req services.LikeRequest) (string, error)
	Unlike(ctx context.Context, req services.LikeRequest) (string, error)
	LikedJournals(ctx context.Context, idToken string) ([]models.JournalView, error)
}

type TokenResponse struct {
	Status       int         `json:"status"`
	IDToken      string      `json:"idToken"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresIn    string      `json:"expiresIn"`
	UserData     interface{} `json:"userData"`
}

type UserDataResponse struct {
	Status   int          `json:"status"`
	UserData *models.User `json:"userData"`
}

type UserByIDResponse struct {
	Status int          `json:"status"`
	Data   *models.User `json:"data"`
}

type LikeResponse struct {
	Status    int    `json:"status"`
	JournalID string `json:"journalId"`
}

type LikedJournalsResponse struct {
	Status        int                  `json:"status"`
	LikedJournals []models.JournalView `json:"likedJournals"`
}

type UserHandler struct {
	users   UserService
	timeout time.Duration
}

func NewUserHandler(users UserService, timeout time.Duration) *UserHandler {
	return &UserHandler{users: users, timeout: timeout}
}

// profileResponse is the envelope of signup, login and password change.
func profileResponse(s *services.Session) TokenResponse {
	var data interface{}
	if s.User != nil {
		data = s.User.Profile()
	}
	return TokenResponse{
		Status:       http.StatusOK,
		IDToken:      s.IDToken,
		RefreshToken: s.RefreshToken,
		ExpiresIn:    s.ExpiresIn,
		UserData:     data,
	}
}

func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req services.SignUpRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r, h.timeout)
	defer cancel()

	sess, err := h.users.SignUp(ctx, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse(sess))
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r, h.timeout)
	defer cancel()

	sess, err := h.users.Login(ctx, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse(sess))
}

func (h *UserHandler) info(w http.ResponseWriter, r *http.Request, secure bool) {
	ctx, cancel := withTimeout(r, h.timeout)
	defer cancel()

	user, err := h.users.Info(ctx, chi.URLParam(r, "idToken"), secure)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, UserDataResponse{Status: http.StatusOK, UserData: user})
}

// Info returns the caller's user document without its id.
func (h *UserHandler) Info(w http.ResponseWriter, r *http.Request) { h.info(w, r, false) }

// InfoSecure returns the caller's user document including its id.
func (h *UserHandler) InfoSecure(w http.ResponseWriter, r *http.Request) { h.info(w, r, true) }

func (h *UserHandler) InfoByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, h.timeout)
	defer cancel()

	user, err := h.users.InfoByID(ctx, chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, UserByIDResponse{Status: http.StatusOK, Data: user})
}

// Refresh returns the whole user document (minus id) as userData.
func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req services.RefreshRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r, h.timeout)
	defer cancel()

	sess, err := h.users.Refresh(ctx, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{
		Status:       http.StatusOK,
		IDToken:      sess.IDToken,
		RefreshToken: sess.RefreshToken,
		ExpiresIn:    sess.ExpiresIn,
		UserData:     sess.User,
	})
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req services.PasswordRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r, h.timeout)
	defer cancel()

	sess, err := h.users.ChangePassword(ctx, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse(sess))
}

func (h *UserHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.like(w, r, h.users.Like)
}

func (h *UserHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.like(w, r, h.users.Unlike)
}

func (h *UserHandler) like(w http.ResponseWriter, r *http.Request, op func(context.Context, services.LikeRequest) (string, error)) {
	var req services.LikeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := withTimeout(r, h.timeout)
	defer cancel()

	journalID, err := op(ctx, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LikeResponse{Status: http.StatusOK, JournalID: journalID})
}

func (h *UserHandler) LikedJournals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, h.timeout)
	defer cancel()

	journals, err := h.users.LikedJournals(ctx, chi.URLParam(r, "idToken"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LikedJournalsResponse{Status: http.StatusOK, LikedJournals: journals})
}
