package services

import (
	"context"

	"github.com/AnshRaj112/journal-backend/internal/identity"
	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/AnshRaj112/journal-backend/pkg/logger"
)

type SignUpRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	GrantType    string `json:"grant_type" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type PasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is a token bundle plus the local user it belongs to. User may be
// nil after a refresh for an account with no local record.
type Session struct {
	IDToken      string
	RefreshToken string
	ExpiresIn    string
	User         *models.User
}

func newSession(t *identity.Tokens, u *models.User) *Session {
	return &Session{
		IDToken:      t.IDToken,
		RefreshToken: t.RefreshToken,
		ExpiresIn:    t.ExpiresIn,
		User:         u,
	}
}

// UserService runs the identity lifecycle: every operation first talks to
// the provider, then reconciles the users collection. Provider errors are
// returned as *identity.Error, local ones as *PersistenceError.
type UserService struct {
	provider identity.Provider
	resolver identity.Resolver
	store    Store
}

func NewUserService(provider identity.Provider, resolver identity.Resolver, store Store) *UserService {
	return &UserService{provider: provider, resolver: resolver, store: store}
}

// SignUp creates the provider account and then the local user. A failed
// insert leaves the provider account in place.
func (s *UserService) SignUp(ctx context.Context, req SignUpRequest) (*Session, error) {
	if err := check(req); err != nil {
		return nil, err
	}

	tokens, err := s.provider.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(tokens.LocalID, req.Name, req.Email)
	if err := s.store.InsertUser(ctx, user); err != nil {
		logger.Log.WithError(err).WithField("user_id", tokens.LocalID).
			Error("provider account created but local user insert failed")
		return nil, &PersistenceError{Message: MsgSignUpDBError, Err: err}
	}
	return newSession(tokens, user), nil
}

// Login signs in and creates the local user on first sight.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	if err := check(req); err != nil {
		return nil, err
	}

	tokens, err := s.provider.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.store.FindUser(ctx, tokens.LocalID)
	if err != nil {
		return nil, dbError(err)
	}
	if user == nil {
		user = models.NewUser(tokens.LocalID, models.PlaceholderName, req.Email)
		if err := s.store.InsertUser(ctx, user); err != nil {
			return nil, dbError(err)
		}
		logger.Log.WithField("user_id", user.ID).Info("created local user at login")
	}
	return newSession(tokens, user), nil
}

// Info resolves the token and returns the local user, or nil when the
// account has no local record. The subject id is kept only when secure.
func (s *UserService) Info(ctx context.Context, idToken string, secure bool) (*models.User, error) {
	if idToken == "" {
		return nil, ErrInvalidRequest
	}

	subject, err := s.resolver.Subject(ctx, idToken)
	if err != nil {
		return nil, err
	}

	user, err := s.store.FindUser(ctx, subject)
	if err != nil {
		return nil, dbError(err)
	}
	if secure {
		return user, nil
	}
	return user.Public(), nil
}

// InfoByID is the backend-only lookup by subject id, without the id.
func (s *UserService) InfoByID(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, ErrInvalidRequest
	}
	user, err := s.store.FindUser(ctx, userID)
	if err != nil {
		return nil, dbError(err)
	}
	return user.Public(), nil
}

func (s *UserService) Refresh(ctx context.Context, req RefreshRequest) (*Session, error) {
	if err := check(req); err != nil {
		return nil, err
	}

	tokens, err := s.provider.Refresh(ctx, req.GrantType, req.RefreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.store.FindUser(ctx, tokens.LocalID)
	if err != nil {
		return nil, &PersistenceError{Message: MsgInternalError, Err: err}
	}
	return newSession(tokens, user.Public()), nil
}

// ChangePassword updates the provider password. The local user must exist.
func (s *UserService) ChangePassword(ctx context.Context, req PasswordRequest) (*Session, error) {
	if err := check(req); err != nil {
		return nil, err
	}

	tokens, err := s.provider.UpdatePassword(ctx, req.Token, req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.store.FindUser(ctx, tokens.LocalID)
	if err != nil {
		return nil, dbError(err)
	}
	if user == nil {
		return nil, &PersistenceError{Message: MsgDatabaseError}
	}
	return newSession(tokens, user), nil
}
