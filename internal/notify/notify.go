// Package notify sends desktop notices for operator-facing profile outcomes.
package notify

import (
	"fmt"

	"github.com/xabinapal/farmhand/internal/config"
)

// Notifier sends operator notices.
type Notifier interface {
	// NotifySaved reports that a profile was saved.
	NotifySaved(profile string) error
	// NotifyFieldSelected reports a newly selected field zone and its area in square pixels.
	NotifyFieldSelected(profile string, area float64) error
	// NotifyFailure reports that an action on a profile failed.
	NotifyFailure(profile, action string, err error) error
}

// Option configures a Notifier.
type Option func(*notifier)

// WithBackend sets a custom notification backend (for testing).
func WithBackend(backend Backend) Option {
	return func(n *notifier) {
		n.backend = backend
	}
}

type notifier struct {
	onSave    bool
	onFailure bool
	backend   Backend
}

func (n *notifier) NotifySaved(profile string) error {
	if !n.onSave {
		return nil
	}
	return n.backend.Send(Notice{
		Kind:    KindInfo,
		Profile: profile,
		Title:   "Farmhand: Profile Saved",
		Message: fmt.Sprintf("Configuration '%s' saved.", profile),
	})
}

func (n *notifier) NotifyFieldSelected(profile string, area float64) error {
	if !n.onSave {
		return nil
	}
	return n.backend.Send(Notice{
		Kind:    KindInfo,
		Profile: profile,
		Title:   "Farmhand: Field Selected",
		Message: fmt.Sprintf("Field zone selected for '%s'.\nArea: %.0f px²\nSave the profile to keep it.", profile, area),
	})
}

func (n *notifier) NotifyFailure(profile, action string, err error) error {
	if !n.onFailure {
		return nil
	}
	return n.backend.Send(Notice{
		Kind:    KindAlert,
		Profile: profile,
		Title:   "Farmhand: Action Failed",
		Message: fmt.Sprintf("Failed to %s '%s'.\nError: %v", action, profile, err),
	})
}

// New creates a Notifier from the notification settings.
func New(cfg config.NotificationConfig, opts ...Option) Notifier {
	n := &notifier{
		onSave:    cfg.Enabled && cfg.OnSave,
		onFailure: cfg.Enabled && cfg.OnFailure,
		backend:   newDesktopBackend(cfg.Icon),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Nop returns a Notifier that never sends anything.
func Nop() Notifier {
	return &notifier{backend: newDesktopBackend("")}
}
