package capture

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/xabinapal/farmhand/internal/profile"
)

var (
	// ErrSelectionCancelled indicates the operator provided no points.
	ErrSelectionCancelled = errors.New("field selection cancelled")
	// ErrOutOfFrame indicates a point lies outside the screenshot.
	ErrOutOfFrame = errors.New("point outside screenshot")
)

// StaticSelector answers a field selection with points supplied up front,
// checking them against the delivered frame.
type StaticSelector struct {
	Points []profile.Point
}

// SelectField implements editor.FieldSelector.
func (s StaticSelector) SelectField(ctx context.Context, img image.Image) ([]profile.Point, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(s.Points) == 0 {
		return nil, ErrSelectionCancelled
	}
	if img != nil {
		bounds := img.Bounds()
		for i, p := range s.Points {
			if !image.Pt(p.X(), p.Y()).In(bounds) {
				return nil, fmt.Errorf("%w: point %d (%d, %d) not in %dx%d", ErrOutOfFrame, i+1, p.X(), p.Y(), bounds.Dx(), bounds.Dy())
			}
		}
	}
	return append([]profile.Point(nil), s.Points...), nil
}
