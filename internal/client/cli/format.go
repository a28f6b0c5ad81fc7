package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/journify/internal/client/models"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

var (
	dim     = color.New(color.Faint)
	pending = color.New(color.FgYellow)
	starred = color.New(color.FgYellow, color.Bold)
)

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return humanize.Comma(int64(n)) + " " + many
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// storyLine renders one row of a story listing.
func storyLine(w io.Writer, s models.Story, favorite bool, now time.Time) {
	mark := " "
	if favorite {
		mark = starred.Sprint("★")
	}
	state := ""
	if s.IsOffline() && !s.IsSynced {
		state = pending.Sprint(" [pending]")
	}
	fmt.Fprintf(w, "%s %-28s %-12s %s%s %s\n",
		mark,
		s.ID,
		truncate(s.Name, 12),
		truncate(s.Description, 48),
		state,
		dim.Sprint(humanize.RelTime(s.CreatedAt, now, "ago", "from now")),
	)
}

// storyDetail renders a single story.
func storyDetail(w io.Writer, s models.Story, favorite bool, now time.Time) {
	fmt.Fprintf(w, "ID:          %s\n", s.ID)
	fmt.Fprintf(w, "Author:      %s\n", s.Name)
	fmt.Fprintf(w, "Created:     %s (%s)\n", s.CreatedAt.Local().Format(time.DateTime), humanize.RelTime(s.CreatedAt, now, "ago", "from now"))
	if s.HasLocation() {
		fmt.Fprintf(w, "Location:    %s, %s\n", humanize.FtoaWithDigits(*s.Lat, 6), humanize.FtoaWithDigits(*s.Lon, 6))
	}
	switch {
	case s.PhotoPath != "":
		fmt.Fprintf(w, "Photo:       %s\n", s.PhotoPath)
	case s.PhotoURL != "":
		fmt.Fprintf(w, "Photo:       %s\n", s.PhotoURL)
	}
	if s.IsOffline() {
		if s.IsSynced && s.SyncedAt != nil {
			fmt.Fprintf(w, "Synced:      %s\n", humanize.RelTime(*s.SyncedAt, now, "ago", "from now"))
		} else {
			fmt.Fprintf(w, "Synced:      %s\n", pending.Sprint("not yet"))
		}
	}
	if favorite {
		fmt.Fprintf(w, "Favorite:    %s\n", starred.Sprint("yes"))
	}
	fmt.Fprintf(w, "\n%s\n", s.Description)
}
