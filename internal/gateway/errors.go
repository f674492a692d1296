package gateway

import (
	"context"
	"errors"
	"net"
	"regexp"
	"strconv"
	"strings"

	"github.com/aleph-cli/aleph/internal/models"
)

// Kind classifies a gateway failure.
type Kind string

const (
	KindRateLimited       Kind = "rate_limited"
	KindAuth              Kind = "auth"
	KindNetwork           Kind = "network"
	KindMalformedRequest  Kind = "malformed_request"
	KindMalformedResponse Kind = "malformed_response"
	KindServer            Kind = "server"
)

// Error is a classified gateway failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Transient reports whether retrying the same request may succeed.
func (e *Error) Transient() bool {
	switch e.Kind {
	case KindRateLimited, KindNetwork, KindServer:
		return true
	}
	return false
}

// Describe returns a short human-readable explanation of the kind.
func (k Kind) Describe() string {
	switch k {
	case KindRateLimited:
		return "rate limited by the provider"
	case KindAuth:
		return "authentication failed, check your API key"
	case KindNetwork:
		return "network error reaching the provider"
	case KindMalformedRequest:
		return "the provider rejected the request"
	case KindMalformedResponse:
		return "the provider returned an unusable response"
	case KindServer:
		return "the provider reported a server error"
	}
	return string(k)
}

// statusPattern matches HTTP status codes at word boundaries so that port
// numbers such as ":5000" do not count.
var statusPattern = regexp.MustCompile(`\b(4[0-9]{2}|5[0-9]{2})\b`)

// Classify wraps err in an *Error. Context cancellation is returned as is,
// and an err that is already an *Error is returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	var gerr *Error
	if errors.As(err, &gerr) {
		return err
	}
	return &Error{Kind: classifyKind(err), Err: err}
}

func classifyKind(err error) Kind {
	var unavail *models.UnavailableError
	if errors.As(err, &unavail) {
		if unavail.Status != 0 {
			return kindForStatus(unavail.Status)
		}
		if unavail.Cause != nil {
			return KindNetwork
		}
		return KindMalformedResponse
	}

	if errors.Is(err, models.ErrMissingCredential) {
		return KindAuth
	}
	if errors.Is(err, models.ErrUnknownModel) ||
		errors.Is(err, models.ErrProviderNotConfigured) ||
		errors.Is(err, models.ErrUnknownDriver) {
		return KindMalformedRequest
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindNetwork
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindNetwork
	}

	msg := strings.ToLower(err.Error())

	switch {
	case containsAny(msg, "unauthorized", "unauthenticated", "invalid api key", "api key not valid", "permission denied", "forbidden"):
		return KindAuth
	case containsAny(msg, "rate limit", "quota", "too many requests", "resource_exhausted", "resource exhausted"):
		return KindRateLimited
	case containsAny(msg, "invalid argument", "invalid_argument", "context length", "too many tokens", "token limit", "model not found", "bad request"):
		return KindMalformedRequest
	case containsAny(msg, "connection", "eof", "timeout", "dial", "refused", "no such host", "tls handshake"):
		return KindNetwork
	case containsAny(msg, "internal error", "service unavailable", "bad gateway", "overloaded"):
		return KindServer
	}

	if m := statusPattern.FindString(msg); m != "" {
		status, _ := strconv.Atoi(m)
		return kindForStatus(status)
	}
	return KindServer
}

func kindForStatus(status int) Kind {
	switch {
	case status == 429:
		return KindRateLimited
	case status == 401 || status == 403:
		return KindAuth
	case status == 408:
		return KindNetwork
	case status >= 500:
		return KindServer
	case status >= 400:
		return KindMalformedRequest
	}
	return KindMalformedResponse
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
