package providers

import (
	"context"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/domain"
)

// Gateway fetches sports data from an upstream source and normalizes it into domain shapes.
// Implementations return errors as-is; retries and pacing are layered on by callers
// through NewRetryingGateway and NewRateLimitedGateway.
type Gateway interface {
	SportsList(ctx context.Context) (domain.SportsList, error)
	Schedule(ctx context.Context, filter domain.ScheduleFilter) ([]domain.Match, error)
	GlobalEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error)
}

// Operation names used in errors, logs and metrics.
const (
	OpSportsList   = "sports_list"
	OpSchedule     = "schedule"
	OpGlobalEvents = "global_events"
)
