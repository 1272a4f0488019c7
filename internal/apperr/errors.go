package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind is the machine-readable class of a watermark failure.
type Kind string

const (
	KindMalformedRequest  Kind = "MalformedRequest"
	KindMissingParameter  Kind = "MissingParameter"
	KindSourceFetchFailed Kind = "SourceFetchFailed"
	KindInvalidFormat     Kind = "InvalidFormat"
	KindTruncatedSource   Kind = "TruncatedSource"
	KindCorruptSource     Kind = "CorruptSource"
	KindParseFailure      Kind = "ParseFailure"
	KindUnexpected        Kind = "UnexpectedFailure"
)

// RequiredFields lists the request fields in the order they are reported.
var RequiredFields = []string{"pdfUrl", "firstName", "lastName", "email"}

type Error struct {
	Kind    Kind
	Message string
	// Missing is only set for KindMissingParameter.
	Missing []string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode maps the kind onto the HTTP status returned to the caller.
func (e *Error) StatusCode() int {
	if e.Kind == KindUnexpected {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

func MalformedRequest(err error) *Error {
	return &Error{
		Kind:    KindMalformedRequest,
		Message: "Invalid JSON in request body.",
		Err:     err,
	}
}

func MissingParameter(missing []string) *Error {
	return MissingFields(RequiredFields, missing)
}

// MissingFields reports the full required list, as the calling page
// expects, and keeps the fields that were actually absent in Missing.
func MissingFields(required, missing []string) *Error {
	return &Error{
		Kind:    KindMissingParameter,
		Message: "Missing required parameters: " + strings.Join(required, ", "),
		Missing: missing,
	}
}

// InvalidParameter is a well-formed body carrying an unusable value.
func InvalidParameter(message string) *Error {
	return &Error{
		Kind:    KindMalformedRequest,
		Message: message,
	}
}

// SourceFetchStatus reports a non-success upstream status, e.g. "404 Not Found".
func SourceFetchStatus(code int) *Error {
	return &Error{
		Kind:    KindSourceFetchFailed,
		Message: fmt.Sprintf("Failed to fetch PDF: %d %s", code, http.StatusText(code)),
	}
}

func SourceFetchFailed(reason string, err error) *Error {
	return &Error{
		Kind:    KindSourceFetchFailed,
		Message: "Failed to fetch PDF: " + reason,
		Err:     err,
	}
}

func InvalidFormat(contentType string) *Error {
	return &Error{
		Kind:    KindInvalidFormat,
		Message: "The requested file is not a valid PDF",
		Err:     fmt.Errorf("unexpected content type %q", contentType),
	}
}

func TruncatedSource(size int) *Error {
	return &Error{
		Kind:    KindTruncatedSource,
		Message: "Invalid PDF file: file is too small or empty",
		Err:     fmt.Errorf("source has %d bytes", size),
	}
}

func CorruptSource() *Error {
	return &Error{
		Kind:    KindCorruptSource,
		Message: "Invalid PDF file: no PDF header found",
	}
}

func ParseFailure(reason string, err error) *Error {
	return &Error{
		Kind:    KindParseFailure,
		Message: "Invalid PDF file: " + reason,
		Err:     err,
	}
}

func Unexpected(err error) *Error {
	msg := "An unknown error occurred."
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &Error{Kind: KindUnexpected, Message: msg, Err: err}
}

// From returns the taxonomy error wrapped in err, or classifies err as
// an unexpected failure.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Unexpected(err)
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
