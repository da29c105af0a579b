// Package apierr is the single error shape returned for every failed backend call.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

type Kind string

const (
	KindNetwork      Kind = "network"
	KindDecode       Kind = "decode"
	KindValidation   Kind = "validation"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindRateLimited  Kind = "rate_limited"
	KindServer       Kind = "server"
	KindUnknown      Kind = "unknown"
)

type Error struct {
	Kind       Kind
	Message    string
	HTTPStatus int
	Err        error

	// Token is the bearer token the failed request was sent with, empty for
	// anonymous requests. It is never printed.
	Token string
}

func (e *Error) Error() string {
	if e.HTTPStatus != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.HTTPStatus, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func KindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return KindValidation
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= 500:
		return KindServer
	}
	return KindUnknown
}

// FromResponse builds the error for a non-2xx response. The message is taken
// from the body's "message" field, then "error", then the raw text.
func FromResponse(status int, body []byte) *Error {
	msg := ""
	if gjson.ValidBytes(body) {
		res := gjson.GetManyBytes(body, "message", "error")
		for _, r := range res {
			if r.Type == gjson.String && r.Str != "" {
				msg = r.Str
				break
			}
		}
	}
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &Error{Kind: KindForStatus(status), Message: msg, HTTPStatus: status}
}

func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return ""
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func IsUnauthorized(err error) bool {
	return Is(err, KindUnauthorized)
}

// Invalid is the error for input rejected before any request is sent.
func Invalid(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}
