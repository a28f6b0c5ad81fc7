package client

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLSummary_TruncatesOnRuneBoundary(t *testing.T) {
	title := strings.Repeat("é", 200)
	got := htmlSummary([]byte("<html><head><title>" + title + "</title></head></html>"))

	require.True(t, utf8.ValidString(got))
	msg := strings.TrimPrefix(got, "server returned an HTML error page: ")
	assert.Equal(t, 120, utf8.RuneCountInString(msg))
}

func TestHTMLSummary_FallsBackToHeading(t *testing.T) {
	body := []byte("<!DOCTYPE html><html><body><h1>Service   Unavailable</h1></body></html>")
	assert.True(t, looksLikeHTML(body))
	assert.Equal(t, "server returned an HTML error page: Service Unavailable", htmlSummary(body))
}
