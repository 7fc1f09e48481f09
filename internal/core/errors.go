package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeNotAuthenticated = "not_authenticated"
	ErrCodeNameConflict     = "name_conflict"
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeMessageNotFound  = "message_not_found"
	ErrCodeInternal         = "internal"
)

var (
	ErrNotAuthenticated = coreError(ErrCodeNotAuthenticated, "not authenticated")
	ErrNameConflict     = coreError(ErrCodeNameConflict, "display name already in use")
	ErrInvalidRequest   = coreError(ErrCodeInvalidRequest, "invalid request")
	ErrMessageNotFound  = coreError(ErrCodeMessageNotFound, "message not found")
	ErrInternal         = coreError(ErrCodeInternal, "internal error")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so errors built with
// InvalidRequest still match ErrInvalidRequest.
func (e *CoreError) Is(target error) bool {
	t, ok := target.(*CoreError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// InvalidRequest builds an invalid_request error with a specific message.
func InvalidRequest(msg string) *CoreError {
	return coreError(ErrCodeInvalidRequest, msg)
}

// AsCoreError extracts a *CoreError from err. Anything else is reported as
// ErrInternal.
func AsCoreError(err error) *CoreError {
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce
	}
	return ErrInternal
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
