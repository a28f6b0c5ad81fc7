package relay

import (
	"context"
	"errors"
	"os/exec"
	"strings"
)

// Opener opens a url in a new application window.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// CommandOpener runs Command with the url appended, e.g. "xdg-open".
type CommandOpener struct {
	Command string
}

func (o CommandOpener) Open(ctx context.Context, url string) error {
	fields := strings.Fields(o.Command)
	if len(fields) == 0 {
		return errors.New("empty open command")
	}
	args := append(fields[1:], url)
	return exec.CommandContext(ctx, fields[0], args...).Run()
}
