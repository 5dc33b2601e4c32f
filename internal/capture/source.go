// Package capture supplies still frames for interactive field selection.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
)

// ErrNoFrame indicates the source has nothing to deliver.
var ErrNoFrame = errors.New("no screenshot available")

// FileSource delivers a screenshot previously saved to disk, for example by
// `adb exec-out screencap -p > screen.png`.
type FileSource struct {
	path   string
	logger zerolog.Logger
}

// SourceOption customises a FileSource.
type SourceOption func(*FileSource)

// WithLogger sets the source logger.
func WithLogger(logger zerolog.Logger) SourceOption {
	return func(s *FileSource) {
		s.logger = logger.With().Str("component", "capture").Logger()
	}
}

// NewFileSource creates a source reading the image at path.
func NewFileSource(path string, opts ...SourceOption) *FileSource {
	s := &FileSource{path: path, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TakeScreenshot decodes the image in the background and hands it to deliver.
// deliver is called exactly once, with an error when decoding fails or ctx is
// cancelled first.
func (s *FileSource) TakeScreenshot(ctx context.Context, deliver func(image.Image, error)) {
	go func() {
		if s.path == "" {
			deliver(nil, ErrNoFrame)
			return
		}

		img, err := imaging.Open(s.path, imaging.AutoOrientation(true))
		if ctxErr := ctx.Err(); ctxErr != nil {
			deliver(nil, ctxErr)
			return
		}
		if err != nil {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("failed to decode screenshot")
			deliver(nil, fmt.Errorf("%w: %v", ErrNoFrame, err))
			return
		}

		b := img.Bounds()
		s.logger.Debug().Int("width", b.Dx()).Int("height", b.Dy()).Msg("screenshot decoded")
		deliver(img, nil)
	}()
}
