package server

import (
	"context"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/poller"
)

// Poller defines the minimal cache warmer behavior needed by the server.
type Poller interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() poller.Status
}
