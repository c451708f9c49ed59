// Package apperr defines the error kinds surfaced by ob's tracker operations.
package apperr

import (
	"errors"
	"strings"
)

// Kind classifies a failure.
type Kind int

const (
	// KindTransport is a network or connection failure.
	KindTransport Kind = iota + 1
	// KindDecode is a response body that does not match the expected wire shape.
	KindDecode
	// KindAuth is an undecodable credential or a failed login handshake.
	KindAuth
	// KindInvalidConfig is a missing or mistyped configuration value.
	KindInvalidConfig
	// KindUnexpected is a well-formed response that lacks an expected field.
	KindUnexpected
)

// String returns the human readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport error"
	case KindDecode:
		return "decode error"
	case KindAuth:
		return "authentication failed"
	case KindInvalidConfig:
		return "invalid config"
	case KindUnexpected:
		return "unexpected result"
	default:
		return "unknown error"
	}
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrTransport     = &Error{Kind: KindTransport}
	ErrDecode        = &Error{Kind: KindDecode}
	ErrAuth          = &Error{Kind: KindAuth}
	ErrInvalidConfig = &Error{Kind: KindInvalidConfig}
	ErrUnexpected    = &Error{Kind: KindUnexpected}
)

// maxBodyLen bounds the part of a response body shown by Error, in runes.
const maxBodyLen = 200

// oneLine collapses runs of whitespace in body and truncates it to maxBodyLen.
func oneLine(body string) string {
	body = strings.Join(strings.Fields(body), " ")
	if r := []rune(body); len(r) > maxBodyLen {
		body = string(r[:maxBodyLen]) + "..."
	}
	return body
}

// Error is a failed operation tagged with its kind.
type Error struct {
	Kind Kind
	// Op names the failing operation, e.g. "query" or "get issue ABC-1".
	Op string
	// Body is the raw response body, kept for diagnosis. Error shows it
	// collapsed onto one line and truncated.
	Body string
	Err  error
}

// E builds an *Error of the given kind.
func E(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Unexpected builds a KindUnexpected error carrying the raw response body.
func Unexpected(op, message, body string) *Error {
	return &Error{Kind: KindUnexpected, Op: op, Body: body, Err: errors.New(message)}
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if body := oneLine(e.Body); body != "" {
		b.WriteString(": ")
		b.WriteString(body)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Body == "" && t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
