// Package fault defines the typed errors shared by the AI pipeline and the
// HTTP boundary. Every expected failure carries a machine-readable kind
// string so the boundary can map it to an HTTP status without string
// matching on messages.
package fault

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds, in the order a request can hit them.
const (
	KindInvalidParam      = "rest_invalid_param"
	KindRateLimitExceeded = "rate_limit_exceeded"
	KindInvalidProvider   = "invalid_provider"
	KindNoProvider        = "no_provider"
	KindNotConfigured     = "not_configured"
	KindNoAudiences       = "no_audiences"
	KindInvalidProfile    = "invalid_profile"
	KindAPIError          = "api_error"
	KindNetworkError      = "network_error"
	KindParseError        = "parse_error"
	KindEmptyResponse     = "empty_response"
)

// Error is a typed domain error. VendorStatus is set only for api_error and
// records the upstream vendor's HTTP status code.
type Error struct {
	Kind         string
	Message      string
	VendorStatus int
}

func (e *Error) Error() string {
	if e.VendorStatus != 0 {
		return fmt.Sprintf("%s (vendor status %d): %s", e.Kind, e.VendorStatus, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New creates an Error with the given kind and message.
func New(kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// API creates an api_error carrying the vendor's message and HTTP status.
func API(message string, vendorStatus int) *Error {
	return &Error{Kind: KindAPIError, Message: message, VendorStatus: vendorStatus}
}

// KindOf returns the kind of err, or "" if err is not a fault error.
func KindOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// MessageOf returns the bare message of err without the kind prefix. For
// non-fault errors it falls back to err.Error().
func MessageOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	return err.Error()
}

// statusByKind maps each kind to the HTTP status the boundary responds with.
// Caller-fixable failures are 400s; vendor and parsing failures surface as
// upstream errors.
var statusByKind = map[string]int{
	KindInvalidParam:      http.StatusBadRequest,
	KindRateLimitExceeded: http.StatusTooManyRequests,
	KindInvalidProvider:   http.StatusBadRequest,
	KindNoProvider:        http.StatusBadRequest,
	KindNotConfigured:     http.StatusBadRequest,
	KindNoAudiences:       http.StatusBadRequest,
	KindInvalidProfile:    http.StatusBadRequest,
	KindAPIError:          http.StatusBadGateway,
	KindNetworkError:      http.StatusBadGateway,
	KindParseError:        http.StatusBadGateway,
	KindEmptyResponse:     http.StatusBadGateway,
}

// HTTPStatus returns the HTTP status code for err. Unrecognized errors map
// to 500.
func HTTPStatus(err error) int {
	if status, ok := statusByKind[KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}
