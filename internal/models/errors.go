package models

import (
	"errors"
	"fmt"
	"strings"
)

// Configuration errors raised before any provider is contacted.
var (
	ErrProviderNotConfigured = errors.New("provider not configured")
	ErrUnknownDriver         = errors.New("unknown driver")
)

// UnavailableError reports a provider that answered with something other
// than a usable model response: a transport failure, an HTTP error status or
// a non-JSON body from a proxy in front of the backend.
type UnavailableError struct {
	Provider string
	Status   int
	Body     string
	Cause    error
}

func (e *UnavailableError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s unavailable", e.Provider)
	if e.Status != 0 {
		fmt.Fprintf(&sb, " (status %d)", e.Status)
	}
	switch {
	case e.Cause != nil:
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	case e.Body != "":
		sb.WriteString(": ")
		sb.WriteString(e.Body)
	}
	return sb.String()
}

func (e *UnavailableError) Unwrap() error { return e.Cause }
