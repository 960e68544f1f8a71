package domain

import "sort"

// MatchStatus is the lifecycle state of a match as exposed by the API.
type MatchStatus string

const (
	StatusUpcoming  MatchStatus = "upcoming"
	StatusLive      MatchStatus = "live"
	StatusCompleted MatchStatus = "completed"
)

// Match is the canonical match shape shared by the provider gateway, cache and API.
// StartTimeUTC keeps the upstream string; consumers parse it and skip matches that fail.
type Match struct {
	ID           string      `json:"id"`
	Sport        string      `json:"sport"`
	HomeTeam     string      `json:"homeTeam"`
	AwayTeam     string      `json:"awayTeam"`
	Location     string      `json:"location"`
	StartTimeUTC string      `json:"startTimeUtc"`
	Status       MatchStatus `json:"status"`
}

// Involves reports whether the team plays on either side of the match.
func (m Match) Involves(team string) bool {
	return m.HomeTeam == team || m.AwayTeam == team
}

// Sport describes one sport key in the sports list.
type Sport struct {
	Name  string   `json:"name"`
	Teams []string `json:"teams"`
}

// SportsList maps a sport key (e.g. "soccer") to its display name and teams.
type SportsList map[string]Sport

// Event is a global sporting event (tournament, championship, grand prix).
type Event struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Sport        string      `json:"sport,omitempty"`
	Location     string      `json:"location"`
	StartDateUTC string      `json:"startDateUtc"`
	EndDateUTC   string      `json:"endDateUtc"`
	Status       MatchStatus `json:"status"`
}

// Keys returns the sport keys in a stable (sorted) order.
func (s SportsList) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ScheduleFilter narrows a schedule request. Team and Date are optional.
type ScheduleFilter struct {
	Sport string
	Team  string
	Date  string
}

// EventFilter narrows a global events request. Both fields are optional.
type EventFilter struct {
	Year   string
	Search string
}
