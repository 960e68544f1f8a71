package notifier

import (
	"context"
	"log/slog"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/logging"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/metrics"
)

// PermittedNotifier is a notifier that may be unavailable at delivery time.
type PermittedNotifier interface {
	Notifier
	Permitted() bool
}

// Selector picks the native notifier when permitted and falls back to the banner.
type Selector struct {
	native  PermittedNotifier
	banner  Notifier
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// NewSelector builds a Selector. native may be nil.
func NewSelector(native PermittedNotifier, banner Notifier, logger *slog.Logger, recorder *metrics.Recorder) *Selector {
	return &Selector{native: native, banner: banner, logger: logger, metrics: recorder}
}

// Name implements Notifier.
func (s *Selector) Name() string { return "selector" }

// Notify delivers n through exactly one variant.
func (s *Selector) Notify(ctx context.Context, n Notification) error {
	if s.native != nil && s.native.Permitted() {
		err := s.native.Notify(ctx, n)
		s.metrics.RecordNotification(s.native.Name(), err)
		if err == nil {
			return nil
		}
		logging.Warn(s.logger, "native notification failed, using banner",
			slog.String(logging.FieldMatchID, n.MatchID),
			slog.Any("err", err),
		)
	}
	err := s.banner.Notify(ctx, n)
	s.metrics.RecordNotification(s.banner.Name(), err)
	return err
}
