// Package upcoming selects the matches that start inside a time window.
package upcoming

import (
	"context"
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/domain"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/timeutil"
)

// DefaultWindowMinutes applies when the window is missing or not a positive integer.
const DefaultWindowMinutes = 120

// Criteria describes one upcoming-match query. Empty Sports or Teams means no filter.
type Criteria struct {
	Now    time.Time
	Window time.Duration
	Sports []string
	Teams  []string
}

// Source supplies candidate matches. *cache.MatchCache satisfies it.
type Source interface {
	All(ctx context.Context) ([]domain.Match, error)
	ForSports(ctx context.Context, sports []string) ([]domain.Match, error)
}

// Engine answers upcoming-match queries from a Source.
type Engine struct {
	source Source
}

// NewEngine creates an engine reading from source.
func NewEngine(source Source) *Engine {
	return &Engine{source: source}
}

// Upcoming returns the matches that satisfy c, keeping source order.
// Sport-filtered queries read only the requested sports; both paths share the cache TTL.
func (e *Engine) Upcoming(ctx context.Context, c Criteria) ([]domain.Match, error) {
	var (
		candidates []domain.Match
		err        error
	)
	if len(c.Sports) > 0 {
		candidates, err = e.source.ForSports(ctx, c.Sports)
	} else {
		candidates, err = e.source.All(ctx)
	}
	if err != nil {
		return nil, err
	}
	return Filter(candidates, c), nil
}

// Filter keeps matches whose start parses and lies in [Now, Now+Window], inclusive at
// both ends, and that pass the sport and team filters.
func Filter(matches []domain.Match, c Criteria) []domain.Match {
	sports := toSet(c.Sports)
	teams := toSet(c.Teams)
	end := c.Now.Add(c.Window)

	out := make([]domain.Match, 0, len(matches))
	for _, m := range matches {
		start, err := timeutil.ParseInstant(m.StartTimeUTC)
		if err != nil {
			continue
		}
		if start.Before(c.Now) || start.After(end) {
			continue
		}
		if len(sports) > 0 {
			if _, ok := sports[m.Sport]; !ok {
				continue
			}
		}
		if len(teams) > 0 {
			_, home := teams[m.HomeTeam]
			_, away := teams[m.AwayTeam]
			if !home && !away {
				continue
			}
		}
		out = append(out, m)
	}
	return out
}

// SortBySoonest orders matches by start time in place. Unparsable starts sort last.
func SortBySoonest(matches []domain.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, errA := timeutil.ParseInstant(matches[i].StartTimeUTC)
		b, errB := timeutil.ParseInstant(matches[j].StartTimeUTC)
		switch {
		case errA != nil:
			return false
		case errB != nil:
			return true
		default:
			return a.Before(b)
		}
	})
}

// MaxWindowMinutes is the largest window that still fits in a time.Duration.
const MaxWindowMinutes = int(math.MaxInt64 / int64(time.Minute))

// ParseWindowMinutes reads the leading integer of raw. Anything that is not a positive
// integer yields DefaultWindowMinutes; values above MaxWindowMinutes are clamped to it.
func ParseWindowMinutes(raw string) int {
	raw = strings.TrimSpace(raw)
	end := 0
	for end < len(raw) && (raw[end] >= '0' && raw[end] <= '9' || end == 0 && (raw[end] == '-' || raw[end] == '+')) {
		end++
	}
	n, err := strconv.Atoi(raw[:end])
	if errors.Is(err, strconv.ErrRange) && raw[0] != '-' {
		return MaxWindowMinutes
	}
	if err != nil || n <= 0 {
		return DefaultWindowMinutes
	}
	return min(n, MaxWindowMinutes)
}

// Window converts minutes to a duration, clamped to [0, MaxWindowMinutes].
func Window(minutes int) time.Duration {
	minutes = max(0, min(minutes, MaxWindowMinutes))
	return time.Duration(minutes) * time.Minute
}

// SplitList splits a comma-separated query value, trimming items and dropping empties.
func SplitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
