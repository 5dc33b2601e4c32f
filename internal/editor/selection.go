package editor

import (
	"context"
	"fmt"
	"image"

	"github.com/xabinapal/farmhand/internal/profile"
)

// RequestFieldSelection asks the screenshot source for a frame. The frame is
// handled when it arrives: the field selector picks four corners, the polygon
// is applied to the bound profile and the outcome is reported through the
// selection callback.
func (e *Editor) RequestFieldSelection(ctx context.Context) error {
	e.mu.Lock()
	switch {
	case e.current == nil:
		e.mu.Unlock()
		return ErrNotOpen
	case e.screenshots == nil || e.selector == nil:
		e.mu.Unlock()
		return ErrNoScreenshotSource
	case e.pending:
		e.mu.Unlock()
		return ErrSelectionPending
	}
	e.mu.Unlock()

	if e.device != nil && !e.device.Connected(ctx) {
		return ErrNoDevice
	}

	e.mu.Lock()
	if e.pending {
		e.mu.Unlock()
		return ErrSelectionPending
	}
	e.pending = true
	e.selection++
	id, name := e.selection, e.name
	e.mu.Unlock()

	e.logger.Debug().Str("profile", name).Uint64("request", id).Msg("screenshot requested")
	e.screenshots.TakeScreenshot(ctx, func(img image.Image, err error) {
		e.deliver(ctx, id, img, err)
	})
	return nil
}

// CancelFieldSelection abandons a pending selection. A screenshot arriving
// afterwards is ignored.
func (e *Editor) CancelFieldSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.abandonSelection()
}

// abandonSelection must be called with mu held.
func (e *Editor) abandonSelection() {
	e.pending = false
	e.selection++
}

// deliver consumes a screenshot for request id.
func (e *Editor) deliver(ctx context.Context, id uint64, img image.Image, err error) {
	e.mu.Lock()
	if !e.pending || e.selection != id {
		e.mu.Unlock()
		e.logger.Debug().Uint64("request", id).Msg("ignoring unrequested screenshot")
		return
	}
	e.pending = false
	name := e.name
	e.mu.Unlock()

	if err != nil {
		e.selectionFailed(name, fmt.Errorf("failed to take screenshot: %w", err))
		return
	}

	points, err := e.selector.SelectField(ctx, img)
	if err != nil {
		e.selectionFailed(name, err)
		return
	}
	if len(points) != profile.PolygonPoints {
		e.selectionFailed(name, fmt.Errorf("%w: got %d", ErrIncompletePolygon, len(points)))
		return
	}

	// The operator may have cancelled or switched profile while selecting.
	e.mu.Lock()
	stale := e.selection != id || e.name != name
	e.mu.Unlock()
	if stale {
		e.logger.Debug().Uint64("request", id).Msg("discarding selection for abandoned request")
		return
	}

	if err := e.SetPolygon(points); err != nil {
		e.selectionFailed(name, err)
		return
	}

	summary := profile.Summarize(points)
	e.logger.Info().Str("profile", name).Float64("area", summary.Area).Msg("field zone selected")
	if err := e.notifier.NotifyFieldSelected(name, summary.Area); err != nil {
		e.logger.Debug().Err(err).Msg("failed to send selection notice")
	}
	e.onSelection(summary, nil)
}

func (e *Editor) selectionFailed(name string, err error) {
	e.fail(name, "select field for", err)
	e.onSelection(profile.FieldSummary{}, err)
}
