package reader

import (
	"errors"
	"fmt"
)

// Kind classifies client errors.
type Kind string

const (
	// KindConnection covers failures to reach the API at all.
	KindConnection Kind = "connection"
	// KindTimeout covers requests that exceeded their deadline.
	KindTimeout Kind = "timeout"
	// KindHTTP covers responses with a non-2xx status code.
	KindHTTP Kind = "http"
	// KindParsing covers request bodies that could not be encoded.
	KindParsing Kind = "parsing"
)

// Error is the typed error returned by the client.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s error: status %d: %s", e.Kind, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err is a client timeout error.
func IsTimeout(err error) bool {
	return hasKind(err, KindTimeout)
}

// IsConnection reports whether err is a connection error.
func IsConnection(err error) bool {
	return hasKind(err, KindConnection)
}

// IsHTTP reports whether err is a non-2xx HTTP error.
func IsHTTP(err error) bool {
	return hasKind(err, KindHTTP)
}

func hasKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
