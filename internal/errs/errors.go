// Package errs provides the error taxonomy shared by the file gateway.
//
// Storage adapters classify their native SDK errors into *errs.Error exactly
// once; services and handlers only ever look at the Kind.
//
//	// In an adapter:
//	return errs.Wrap(errs.KindNotFound, "object not found", sdkErr)
//
//	// In a handler:
//	c.JSON(errs.HTTPStatus(errs.KindOf(err)), ...)
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind categorises a failure without exposing backend-specific codes.
type Kind int

const (
	KindUnknown              Kind = iota
	KindValidation                // bad or missing input
	KindUnsupportedMediaType      // upload outside the allow-list
	KindPayloadTooLarge           // upload above the size ceiling
	KindNotFound                  // object absent from the bucket
	KindUpstream                  // storage backend call failed
	KindNotConfigured             // storage credentials/config absent
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindUnsupportedMediaType:
		return "unsupported_media_type"
	case KindPayloadTooLarge:
		return "payload_too_large"
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream_error"
	case KindNotConfigured:
		return "not_configured"
	default:
		return "unknown"
	}
}

// Error is the single error type produced by storage adapters and services.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an *Error with no cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap creates an *Error around an underlying cause.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

func IsUnsupportedMediaType(err error) bool {
	return KindOf(err) == KindUnsupportedMediaType
}

func IsPayloadTooLarge(err error) bool {
	return KindOf(err) == KindPayloadTooLarge
}

// IsNotFound reports whether err represents a missing object.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

func IsUpstream(err error) bool {
	return KindOf(err) == KindUpstream
}

func IsNotConfigured(err error) bool {
	return KindOf(err) == KindNotConfigured
}

// KindOf extracts the Kind from the first *Error in the chain.
// Errors outside the taxonomy are KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// MessageOf returns the human readable message of the first *Error in the
// chain, or err.Error() for foreign errors.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps a Kind onto the status code the REST surface answers with.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnsupportedMediaType:
		return http.StatusUnsupportedMediaType
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindNotFound:
		return http.StatusNotFound
	case KindNotConfigured:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
