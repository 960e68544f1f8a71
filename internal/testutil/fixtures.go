package testutil

import (
	"time"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/domain"
)

// SampleMatch returns an upcoming match fixture starting at start.
func SampleMatch(id, sport string, start time.Time) domain.Match {
	return domain.Match{
		ID:           id,
		Sport:        sport,
		HomeTeam:     "Home",
		AwayTeam:     "Away",
		Location:     "Stadium",
		StartTimeUTC: start.UTC().Format(time.RFC3339),
		Status:       domain.StatusUpcoming,
	}
}

// SampleSports returns a two-sport list with a couple of teams each.
func SampleSports() domain.SportsList {
	return domain.SportsList{
		"soccer": {Name: "Soccer", Teams: []string{"Home", "Away"}},
		"tennis": {Name: "Tennis", Teams: []string{"Alcaraz", "Sinner"}},
	}
}
