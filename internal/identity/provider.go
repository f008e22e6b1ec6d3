// Package identity adapts the external identity provider (Firebase).
package identity

import (
	"context"
	"fmt"
)

// Tokens is the bundle returned by every credential exchange.
type Tokens struct {
	IDToken      string
	RefreshToken string
	ExpiresIn    string
	LocalID      string // subject id
	Email        string
}

// Account is what a token lookup resolves to.
type Account struct {
	LocalID       string
	Email         string
	EmailVerified bool
}

// Provider is the identity provider seen as a capability.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*Tokens, error)
	SignIn(ctx context.Context, email, password string) (*Tokens, error)
	Refresh(ctx context.Context, grantType, refreshToken string) (*Tokens, error)
	Lookup(ctx context.Context, idToken string) (*Account, error)
	UpdatePassword(ctx context.Context, idToken, password string) (*Tokens, error)
}

// Resolver turns an ID token into the subject id it was issued for.
type Resolver interface {
	Subject(ctx context.Context, idToken string) (string, error)
}

// ErrorKind separates "the provider said no" from "the provider is unreachable".
type ErrorKind int

const (
	KindUnavailable ErrorKind = iota
	KindRejected
)

// Error is returned by every Provider and Resolver method.
type Error struct {
	Kind    ErrorKind
	Message string // provider error code, e.g. EMAIL_EXISTS; empty when unavailable
	Err     error
}

func (e *Error) Error() string {
	if e.Kind == KindRejected {
		return "identity provider rejected request: " + e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("identity provider unavailable: %v", e.Err)
	}
	return "identity provider unavailable"
}

func (e *Error) Unwrap() error { return e.Err }

// Rejected reports whether the provider answered with an error code.
func (e *Error) Rejected() bool { return e.Kind == KindRejected }

func rejected(message string) *Error {
	return &Error{Kind: KindRejected, Message: message}
}

func unavailable(err error) *Error {
	return &Error{Kind: KindUnavailable, Err: err}
}

// Common provider codes used outside the REST client.
const (
	CodeInvalidIDToken = "INVALID_ID_TOKEN"
	CodeUserNotFound   = "USER_NOT_FOUND"
)
