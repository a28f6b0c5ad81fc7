package platform

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/journify/internal/messaging"
	"github.com/fatih/color"
)

// ConsoleToaster prints toasts, and optionally system notifications, to a
// terminal.
type ConsoleToaster struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsoleToaster(w io.Writer) *ConsoleToaster {
	return &ConsoleToaster{w: w}
}

var levelColors = map[messaging.ToastLevel]*color.Color{
	messaging.ToastInfo:    color.New(color.FgCyan),
	messaging.ToastSuccess: color.New(color.FgGreen),
	messaging.ToastWarning: color.New(color.FgYellow),
	messaging.ToastError:   color.New(color.FgRed, color.Bold),
}

func (c *ConsoleToaster) Notify(_ context.Context, ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch e := ev.(type) {
	case Toast:
		col, ok := levelColors[e.Level]
		if !ok {
			col = levelColors[messaging.ToastInfo]
		}
		_, err := col.Fprintf(c.w, "» %s\n", e.Message)
		return err
	case SystemNotification:
		if _, err := color.New(color.Bold).Fprintf(c.w, "🔔 %s", e.Title); err != nil {
			return err
		}
		if e.Body != "" {
			_, err := fmt.Fprintf(c.w, ": %s", e.Body)
			if err != nil {
				return err
			}
		}
		_, err := fmt.Fprintln(c.w)
		return err
	default:
		return fmt.Errorf("%w: %T", ErrNoSurface, ev)
	}
}
