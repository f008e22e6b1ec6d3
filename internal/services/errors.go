package services

import "errors"

// Fixed messages surfaced to clients. Raw store errors never reach the response.
const (
	MsgInvalidRequest    = "Invalid request body"
	MsgDatabaseError     = "Database Error"
	MsgSignUpDBError     = "Sign Up successful Database error"
	MsgInternalError     = "Internal Server Error"
	MsgJournalNotFound   = "Journal not found"
	MsgCommentNotFound   = "Comment not found"
	MsgForbidden         = "Forbidden"
	MsgUploadUnavailable = "Upload service not available"
)

var (
	ErrInvalidRequest    = errors.New(MsgInvalidRequest)
	ErrJournalNotFound   = errors.New(MsgJournalNotFound)
	ErrCommentNotFound   = errors.New(MsgCommentNotFound)
	ErrForbidden         = errors.New(MsgForbidden)
	ErrUploadUnavailable = errors.New(MsgUploadUnavailable)
)

// PersistenceError is a local store failure. Message is what the client sees.
type PersistenceError struct {
	Message string
	Err     error
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func dbError(err error) error {
	return &PersistenceError{Message: MsgDatabaseError, Err: err}
}
