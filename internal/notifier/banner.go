package notifier

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// BannerName identifies in-terminal banners in logs and metrics.
const BannerName = "banner"

// DefaultBannerDuration is how long a banner stays active before it is dismissed.
const DefaultBannerDuration = 8 * time.Second

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	bodyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
	okBorder    = lipgloss.Color("#4CAF50")
	errorBorder = lipgloss.Color("#FF4444")
)

// BannerNotifier renders notifications as a styled block on a terminal writer.
// Only one banner is active at a time; a new one replaces the previous.
type BannerNotifier struct {
	out      io.Writer
	duration time.Duration

	mu     sync.Mutex
	active *Notification
	timer  *time.Timer
	seq    uint64
}

// NewBannerNotifier writes banners to out (stdout when nil).
func NewBannerNotifier(out io.Writer, duration time.Duration) *BannerNotifier {
	if out == nil {
		out = os.Stdout
	}
	if duration <= 0 {
		duration = DefaultBannerDuration
	}
	return &BannerNotifier{out: out, duration: duration}
}

// Name implements Notifier.
func (b *BannerNotifier) Name() string { return BannerName }

// Notify renders the banner and schedules its dismissal.
func (b *BannerNotifier) Notify(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
	}
	if _, err := fmt.Fprintln(b.out, Render(n)); err != nil {
		return err
	}
	note := n
	b.active = &note
	b.seq++
	seq := b.seq
	b.timer = time.AfterFunc(b.duration, func() { b.expire(seq) })
	return nil
}

// Active returns the banner currently shown, if any.
func (b *BannerNotifier) Active() (Notification, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.active == nil {
		return Notification{}, false
	}
	return *b.active, true
}

// Dismiss removes the active banner early.
func (b *BannerNotifier) Dismiss() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.active = nil
}

func (b *BannerNotifier) expire(seq uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	// A newer banner owns the slot.
	if seq != b.seq {
		return
	}
	b.active = nil
	b.timer = nil
}

// Render formats a notification as a bordered terminal block.
func Render(n Notification) string {
	border := okBorder
	if n.Error {
		border = errorBorder
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(border).
		Padding(0, 1)
	return box.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(n.Title),
		bodyStyle.Render(n.Body),
	))
}
