package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStatus(t *testing.T) {
	assert.Equal(t, ErrAuthExpired, classifyStatus(401, true))
	assert.Equal(t, ErrAuthExpired, classifyStatus(401, false))
	assert.Equal(t, ErrAuthExpired, classifyStatus(405, true))
	assert.Equal(t, ErrRequestFailed, classifyStatus(405, false))
	assert.Equal(t, ErrUnavailable, classifyStatus(504, true))
	assert.Equal(t, ErrRequestFailed, classifyStatus(500, true))
}

func TestHTTPError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &HTTPError{Op: "list stories", StatusCode: 504, Kind: ErrUnavailable})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrRequestFailed)
	assert.Equal(t, "wrapped: list stories: server unavailable (status 504)", err.Error())
}

func TestIsNetworkError(t *testing.T) {
	urlErr := &url.Error{Op: "Get", URL: "http://x", Err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}}
	assert.True(t, IsNetworkError(fmt.Errorf("list stories: %w", urlErr)))
	assert.False(t, IsNetworkError(&HTTPError{Kind: ErrUnavailable}))
	assert.False(t, IsNetworkError(errors.New("plain")))
	assert.False(t, IsNetworkError(context.Canceled))
	assert.False(t, IsNetworkError(nil))
}
