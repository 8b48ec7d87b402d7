// Package platform reports the host environment this client is running on
// and validates it against spec.md's Linux/Wayland-only scope. Grounded on
// _examples/aluo96078-vkvm/internal/osutils/osutils_stub.go's GOOS dispatch,
// narrowed from a cross-platform stub to a Linux-only check (the session
// type is detected and reported, but RequireSupported checks only the OS
// and /dev/uinput), and on
// original_source/packages/pynergy_client/src/pynergy_client/device/base.py's
// PlatformInfo (platform/session_type/desktop_environment from env vars).
package platform

import (
	"fmt"
	"os"
	"runtime"
)

// Info describes the session this process is running under.
type Info struct {
	OS                string
	SessionType       string // "wayland", "x11", or "" if undetermined
	DesktopEnvironment string
}

// Detect reads the environment variables a Wayland/X11 session sets.
func Detect() Info {
	return Info{
		OS:                 runtime.GOOS,
		SessionType:        os.Getenv("XDG_SESSION_TYPE"),
		DesktopEnvironment: os.Getenv("XDG_CURRENT_DESKTOP"),
	}
}

// ErrUnsupported is returned by RequireSupported when the host isn't a
// Linux session uinput can attach to.
type ErrUnsupported struct{ Info Info }

func (e *ErrUnsupported) Error() string {
	return fmt.Sprintf("platform: unsupported host (os=%s session_type=%s); this client requires a Linux Wayland or X11 session", e.Info.OS, e.Info.SessionType)
}

// RequireSupported fails fast if the host can't possibly have a uinput
// device node, rather than letting device.Open fail with a less legible
// permission or missing-device error later.
func RequireSupported(info Info) error {
	if info.OS != "linux" {
		return &ErrUnsupported{Info: info}
	}
	if _, err := os.Stat("/dev/uinput"); err != nil {
		return fmt.Errorf("platform: /dev/uinput not available: %w", err)
	}
	return nil
}
