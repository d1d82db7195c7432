// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package tenant

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	// KindInternal is an unexpected failure outside the auth stages.
	KindInternal Kind = iota
	// KindUnauthenticated means no usable credential, or an infrastructure
	// failure while establishing identity.
	KindUnauthenticated
	// KindForbidden means the credential is valid but the subject or tenant is not permitted.
	KindForbidden
	// KindNotFound means a required identifier is missing from an otherwise valid request.
	KindNotFound
	// KindServiceUnavailable means a dependent store is not ready yet.
	KindServiceUnavailable
)

// String returns the kind name used in logs and metric labels.
func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindServiceUnavailable:
		return "service_unavailable"
	default:
		return "internal"
	}
}

// HTTPStatus maps the kind to its response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is the failure returned by every pipeline stage.
// Message is safe to show to the caller; Err is for logs only.
type Error struct {
	Kind    Kind
	Stage   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	prefix := e.Kind.String()
	if e.Stage != "" {
		prefix = e.Stage + ": " + prefix
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, so errors.Is(err, &Error{Kind: KindForbidden}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Unauthenticated builds a KindUnauthenticated error.
func Unauthenticated(message string, err error) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message, Err: err}
}

// Forbidden builds a KindForbidden error.
func Forbidden(message string, err error) *Error {
	return &Error{Kind: KindForbidden, Message: message, Err: err}
}

// NotFound builds a KindNotFound error.
func NotFound(message string, err error) *Error {
	return &Error{Kind: KindNotFound, Message: message, Err: err}
}

// ServiceUnavailable builds a KindServiceUnavailable error.
func ServiceUnavailable(message string, err error) *Error {
	return &Error{Kind: KindServiceUnavailable, Message: message, Err: err}
}

// Internal builds a KindInternal error.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf reports the kind of err. Errors that are not *Error are internal.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-safe message for err.
func MessageOf(err error) string {
	var te *Error
	if errors.As(err, &te) && te.Message != "" {
		return te.Message
	}
	return "Internal Server Error"
}

// Sentinel errors returned by adapters.
var (
	// ErrNotFound is returned by StorePort lookups that match no record.
	ErrNotFound = errors.New("record not found")

	// ErrStoreUnavailable is returned while the system-of-record store is not connected.
	ErrStoreUnavailable = errors.New("store not connected")
)

// Caller-facing messages, kept stable for clients.
const (
	MsgMissingBearer        = "Authorization Bearer token is missing"
	MsgInvalidStaffToken    = "User not logged in or invalid token"
	MsgMissingEmail         = "User Email Not Found"
	MsgMerchantDisabled     = "Merchant has been disabled"
	MsgInvalidPublicToken   = "Invalid or expired token"
	MsgPublicClaimsMissing  = "Details missing from token"
	MsgIssuerIDsMissing     = "Merchant Id or Project Id not found"
	MsgStoreNotConnected    = "Database not connected yet"
	msgUserNotRegisteredFmt = "user with %s is not registered or disabled. Please reach out to us!"
)
