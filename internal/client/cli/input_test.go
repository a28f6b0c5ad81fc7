package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("  hello world \n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name: ", out.String())
}

func TestGetSimpleText_EOF(t *testing.T) {
	var out bytes.Buffer

	got, err := GetSimpleText(bufio.NewReader(strings.NewReader("lastline")), "Name", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(bufio.NewReader(strings.NewReader("")), "Name", &out)
	require.Error(t, err)
}

func TestGetPassword_NotInteractive(t *testing.T) {
	var out bytes.Buffer
	got, err := GetPassword(bufio.NewReader(strings.NewReader("secret123\n")), &out, false)
	require.NoError(t, err)
	assert.Equal(t, "secret123", got)
	assert.False(t, isTerminal(strings.NewReader("")))
}

func TestGetPassword_Terminal(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return []byte("hidden"), nil }

	var out bytes.Buffer
	got, err := GetPassword(bufio.NewReader(strings.NewReader("")), &out, true)
	require.NoError(t, err)
	assert.Equal(t, "hidden", got)
	assert.Equal(t, "Password: \n", out.String())
}

func TestParseCoordinate(t *testing.T) {
	v, err := parseCoordinate("")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = parseCoordinate(" -6.2 ")
	require.NoError(t, err)
	assert.Equal(t, -6.2, *v)

	_, err = parseCoordinate("north")
	require.Error(t, err)
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 story", plural(1, "story", "stories"))
	assert.Equal(t, "0 stories", plural(0, "story", "stories"))
	assert.Equal(t, "1,200 stories", plural(1200, "story", "stories"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "a b", truncate("a\n  b", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
