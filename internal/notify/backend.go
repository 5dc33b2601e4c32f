package notify

import (
	"os"

	"github.com/gen2brain/beeep"
)

// appName labels farmhand notices in the desktop notification center.
const appName = "Farmhand"

// Kind tells a backend how insistent a notice is.
type Kind int

const (
	// KindInfo is a passive notice, such as a saved profile.
	KindInfo Kind = iota
	// KindAlert is a failure the operator should look at.
	KindAlert
)

// Notice is one operator-facing message about a profile.
type Notice struct {
	Kind    Kind
	Profile string
	Title   string
	Message string
}

// Backend delivers notices.
type Backend interface {
	Send(n Notice) error
}

// desktopBackend shows notices through beeep, with the configured icon when it exists.
type desktopBackend struct {
	icon string
}

func newDesktopBackend(icon string) Backend {
	beeep.AppName = appName
	if icon != "" {
		if _, err := os.Stat(icon); err != nil {
			icon = ""
		}
	}
	return desktopBackend{icon: icon}
}

// Send implements Backend.
func (b desktopBackend) Send(n Notice) error {
	if n.Kind == KindAlert {
		return beeep.Alert(n.Title, n.Message, b.icon)
	}
	return beeep.Notify(n.Title, n.Message, b.icon)
}
