package sportsapi

import (
	"fmt"
	"strings"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/domain"
)

func mapSports(payload sportsResponse) domain.SportsList {
	out := make(domain.SportsList, len(payload.Data))
	for _, s := range payload.Data {
		key := strings.ToLower(strings.TrimSpace(s.Key))
		if key == "" {
			continue
		}
		teams := make([]string, 0, len(s.Teams))
		for _, t := range s.Teams {
			if name := strings.TrimSpace(t.Name); name != "" {
				teams = append(teams, name)
			}
		}
		out[key] = domain.Sport{Name: s.Name, Teams: teams}
	}
	return out
}

func mapMatch(sport string, f fixtureResponse) domain.Match {
	if f.Sport != "" {
		sport = strings.ToLower(f.Sport)
	}
	return domain.Match{
		ID:           fmt.Sprintf("%s-%d", sport, f.ID),
		Sport:        sport,
		HomeTeam:     strings.TrimSpace(f.HomeTeam.Name),
		AwayTeam:     strings.TrimSpace(f.AwayTeam.Name),
		Location:     formatVenue(f.Venue),
		StartTimeUTC: f.StartTime,
		Status:       mapStatus(f.Status),
	}
}

func mapEvent(e eventResponse) domain.Event {
	return domain.Event{
		ID:           e.ID,
		Name:         e.Name,
		Sport:        strings.ToLower(e.Sport),
		Location:     e.Location,
		StartDateUTC: e.StartDate,
		EndDateUTC:   e.EndDate,
		Status:       mapStatus(e.Status),
	}
}

func formatVenue(v venueResponse) string {
	name := strings.TrimSpace(v.Name)
	city := strings.TrimSpace(v.City)
	switch {
	case name == "":
		return city
	case city == "":
		return name
	default:
		return name + ", " + city
	}
}

// mapStatus folds the upstream's many status spellings into the three API states.
// Unknown values are treated as not yet started.
func mapStatus(status string) domain.MatchStatus {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "final", "ft", "aet", "pen", "finished", "ended", "completed":
		return domain.StatusCompleted
	case "live", "in progress", "in_play", "1h", "2h", "ht", "halftime", "end of period":
		return domain.StatusLive
	default:
		return domain.StatusUpcoming
	}
}
