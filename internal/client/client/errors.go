package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
)

var (
	ErrNotAuthenticated      = errors.New("not authenticated")
	ErrAuthExpired           = errors.New("session expired")
	ErrUnavailable           = errors.New("server unavailable")
	ErrRequestFailed         = errors.New("request failed")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrLocalDataNotAvailable = errors.New("local data unavailable")
)

// HTTPError is a non-successful API response. Kind is one of the sentinels
// above and is what errors.Is matches.
type HTTPError struct {
	Op         string
	StatusCode int
	Message    string
	Kind       error
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %v (status %d): %s", e.Op, e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %v (status %d)", e.Op, e.Kind, e.StatusCode)
}

func (e *HTTPError) Unwrap() error { return e.Kind }

// classifyStatus maps a non-2xx status to a sentinel. Reads treat 405 like
// 401; writes report it as a plain failure.
func classifyStatus(status int, read bool) error {
	switch {
	case status == 401:
		return ErrAuthExpired
	case status == 405 && read:
		return ErrAuthExpired
	case status == 504:
		return ErrUnavailable
	default:
		return ErrRequestFailed
	}
}

// IsNetworkError reports whether err came from the transport (DNS, refused
// or reset connections, timeouts) rather than from an API response.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var he *HTTPError
	if errors.As(err, &he) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	var oe *net.OpError
	if errors.As(err, &oe) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET)
}
