// Package notifier turns repeated upcoming-match responses into exactly-once user
// notifications delivered through a desktop notifier or an in-terminal banner.
package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/domain"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/timeutil"
)

const dateTimeLayout = "Jan 2, 2006, 03:04 PM"

// Notification is one user-facing message.
type Notification struct {
	MatchID string
	Title   string
	Body    string
	Error   bool
}

// Notifier delivers a notification to the user.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, n Notification) error
}

// Format builds the notification for an upcoming match, rendering the start in loc.
func Format(m domain.Match, loc *time.Location) Notification {
	return Notification{
		MatchID: m.ID,
		Title:   fmt.Sprintf("Upcoming: %s vs %s", m.HomeTeam, m.AwayTeam),
		Body: fmt.Sprintf("%s • Starts at %s in %s",
			strings.ToUpper(m.Sport), FormatDateTime(m.StartTimeUTC, loc), m.Location),
	}
}

// FormatDateTime renders a UTC instant in loc. Unparsable input is returned unchanged.
func FormatDateTime(utc string, loc *time.Location) string {
	if utc == "" {
		return ""
	}
	t, err := timeutil.ParseInstant(utc)
	if err != nil {
		return utc
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(dateTimeLayout)
}
