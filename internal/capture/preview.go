package capture

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/xabinapal/farmhand/internal/profile"
)

// Preview box limits, matching the selection popup.
const (
	PreviewMaxWidth  = 800
	PreviewMaxHeight = 600
)

// CropPreview cuts the bounding box of points out of img and scales it to fit
// the preview box. Bounds are clamped to the frame.
func CropPreview(img image.Image, points []profile.Point) (image.Image, error) {
	if len(points) == 0 {
		return nil, ErrSelectionCancelled
	}

	lo, hi := profile.PolygonBounds(points)
	rect := image.Rect(lo.X(), lo.Y(), hi.X()+1, hi.Y()+1).Intersect(img.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("%w: field does not overlap the screenshot", ErrOutOfFrame)
	}

	cropped := imaging.Crop(img, rect)
	if rect.Dx() > PreviewMaxWidth || rect.Dy() > PreviewMaxHeight {
		return imaging.Fit(cropped, PreviewMaxWidth, PreviewMaxHeight, imaging.Lanczos), nil
	}
	return cropped, nil
}

// SavePreview writes the field preview to path. The format follows the extension.
func SavePreview(img image.Image, points []profile.Point, path string) error {
	preview, err := CropPreview(img, points)
	if err != nil {
		return err
	}
	if err := imaging.Save(preview, path); err != nil {
		return fmt.Errorf("failed to save preview: %w", err)
	}
	return nil
}
