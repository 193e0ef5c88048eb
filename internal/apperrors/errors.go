// Package apperrors defines the closed set of error kinds the service can
// surface and their mapping to HTTP statuses. Callers match kinds with KindOf
// (or errors.As) instead of inspecting messages.
package apperrors

import (
	"errors"
	"net/http"
)

// Kind classifies a failure
type Kind int

const (
	// KindNotAuthorized means the credential is missing/invalid or the role is forbidden
	KindNotAuthorized Kind = iota + 1
	// KindInvalidCredential means the session token is expired or tampered
	KindInvalidCredential
	// KindInvalidParam means malformed input or a business-rule violation
	KindInvalidParam
	// KindInvalidRoute means the operation is not valid in the entity's current state
	KindInvalidRoute
	// KindPermission means the caller is authenticated but not entitled to this mutation
	KindPermission
	// KindNotFound means the referenced entity or token does not exist
	KindNotFound
	// KindToken means a session operation was attempted without an active session
	KindToken
)

// Error is a typed error carrying a kind and a caller-facing message
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NotAuthorized builds a KindNotAuthorized error
func NotAuthorized(message string) *Error {
	return &Error{Kind: KindNotAuthorized, Message: message}
}

// InvalidCredential builds a KindInvalidCredential error
func InvalidCredential(message string) *Error {
	return &Error{Kind: KindInvalidCredential, Message: message}
}

// InvalidParam builds a KindInvalidParam error
func InvalidParam(message string) *Error {
	return &Error{Kind: KindInvalidParam, Message: message}
}

// InvalidRoute builds a KindInvalidRoute error
func InvalidRoute(message string) *Error {
	return &Error{Kind: KindInvalidRoute, Message: message}
}

// Permission builds a KindPermission error
func Permission(message string) *Error {
	return &Error{Kind: KindPermission, Message: message}
}

// NotFound builds a KindNotFound error
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Token builds a KindToken error
func Token(message string) *Error {
	return &Error{Kind: KindToken, Message: message}
}

// KindOf extracts the kind from err, unwrapping as needed.
// Returns 0 when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return 0
}

// Status maps an error to the HTTP status the boundary should respond with.
// Unclassified errors map to 500.
func Status(err error) int {
	switch KindOf(err) {
	case KindNotAuthorized, KindInvalidCredential, KindPermission:
		return http.StatusForbidden
	case KindInvalidParam, KindInvalidRoute, KindNotFound:
		return http.StatusBadRequest
	case KindToken:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
