package notifier

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strconv"
)

// NativeName identifies desktop notifications in logs and metrics.
const NativeName = "native"

// ErrNativeUnsupported is returned on platforms without a known notification command.
var ErrNativeUnsupported = errors.New("native notifications unsupported on this platform")

type commandRunner func(ctx context.Context, name string, args ...string) error

// NativeNotifier shows OS desktop notifications through notify-send or osascript.
type NativeNotifier struct {
	enabled  bool
	goos     string
	lookPath func(string) (string, error)
	run      commandRunner
}

// NewNativeNotifier returns a notifier that is permitted only when enabled is true.
func NewNativeNotifier(enabled bool) *NativeNotifier {
	return &NativeNotifier{
		enabled:  enabled,
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
	}
}

// Name implements Notifier.
func (n *NativeNotifier) Name() string { return NativeName }

// Permitted reports whether the user opted in and the platform command exists.
func (n *NativeNotifier) Permitted() bool {
	if n == nil || !n.enabled {
		return false
	}
	cmd := n.command()
	if cmd == "" {
		return false
	}
	_, err := n.lookPath(cmd)
	return err == nil
}

// Notify runs the platform notification command.
func (n *NativeNotifier) Notify(ctx context.Context, note Notification) error {
	switch n.goos {
	case "linux", "freebsd", "openbsd":
		return n.run(ctx, "notify-send", "--app-name=sports-hub", note.Title, note.Body)
	case "darwin":
		script := "display notification " + strconv.Quote(note.Body) + " with title " + strconv.Quote(note.Title)
		return n.run(ctx, "osascript", "-e", script)
	default:
		return ErrNativeUnsupported
	}
}

func (n *NativeNotifier) command() string {
	switch n.goos {
	case "linux", "freebsd", "openbsd":
		return "notify-send"
	case "darwin":
		return "osascript"
	default:
		return ""
	}
}
