// Package editor is the headless editing model for one bound profile.
//
// It keeps an in-memory copy of the profile, forwards every mutation through a
// single handler that emits change events, and drives the interactive field
// selection: a screenshot is requested from the device and arrives later on
// another goroutine.
package editor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/rs/zerolog"

	"github.com/xabinapal/farmhand/internal/notify"
	"github.com/xabinapal/farmhand/internal/profile"
	"github.com/xabinapal/farmhand/internal/templates"
)

var (
	// ErrNoDevice indicates the device link reports no connected device.
	ErrNoDevice = errors.New("no device connected")
	// ErrNotOpen indicates no profile is bound to the editor.
	ErrNotOpen = errors.New("no profile open")
	// ErrSelectionPending indicates a field selection is already waiting for a screenshot.
	ErrSelectionPending = errors.New("field selection already pending")
	// ErrNoScreenshotSource indicates field selection is not available.
	ErrNoScreenshotSource = errors.New("no screenshot source configured")
	// ErrIncompletePolygon indicates a field zone without exactly four points.
	ErrIncompletePolygon = errors.New("field zone needs exactly four points")
)

// TemplateCatalog lists detectable templates by category.
type TemplateCatalog interface {
	Templates(category string) ([]string, error)
}

// DeviceLink reports whether the game device is reachable.
type DeviceLink interface {
	Connected(ctx context.Context) bool
}

// ScreenshotSource produces a still frame on demand. The frame, or the reason
// there is none, is handed to deliver later, possibly on another goroutine.
type ScreenshotSource interface {
	TakeScreenshot(ctx context.Context, deliver func(image.Image, error))
}

// FieldSelector turns a screenshot into the four corners of the field zone.
type FieldSelector interface {
	SelectField(ctx context.Context, img image.Image) ([]profile.Point, error)
}

// ChangeFunc receives the profile name and a copy of the profile after a mutation.
type ChangeFunc func(name string, p *profile.Profile)

// SelectionFunc receives the outcome of a field selection.
type SelectionFunc func(summary profile.FieldSummary, err error)

// Option configures an Editor.
type Option func(*Editor)

// WithTemplateCatalog sets the template catalog.
func WithTemplateCatalog(c TemplateCatalog) Option {
	return func(e *Editor) { e.catalog = c }
}

// WithDeviceLink sets the device link consulted before field selection.
func WithDeviceLink(d DeviceLink) Option {
	return func(e *Editor) { e.device = d }
}

// WithScreenshotSource sets the screenshot source.
func WithScreenshotSource(s ScreenshotSource) Option {
	return func(e *Editor) { e.screenshots = s }
}

// WithFieldSelector sets the field selector.
func WithFieldSelector(s FieldSelector) Option {
	return func(e *Editor) { e.selector = s }
}

// WithOnChange sets the change callback.
func WithOnChange(fn ChangeFunc) Option {
	return func(e *Editor) { e.onChange = fn }
}

// WithOnSelection sets the field selection callback.
func WithOnSelection(fn SelectionFunc) Option {
	return func(e *Editor) { e.onSelection = fn }
}

// WithNotifier sets the notifier used for operator notices.
func WithNotifier(n notify.Notifier) Option {
	return func(e *Editor) { e.notifier = n }
}

// WithLogger sets the editor logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger.With().Str("component", "editor").Logger()
	}
}

// Editor binds one profile for editing.
type Editor struct {
	mgr         *profile.Manager
	catalog     TemplateCatalog
	device      DeviceLink
	screenshots ScreenshotSource
	selector    FieldSelector
	onChange    ChangeFunc
	onSelection SelectionFunc
	notifier    notify.Notifier
	logger      zerolog.Logger

	mu       sync.Mutex
	name     string
	current  *profile.Profile
	baseline *profile.Profile
	loading  bool
	dirty    bool
	revision uint64

	// pending gates whether an arriving screenshot is still wanted.
	pending bool
	// selection identifies the latest request; stale deliveries carry an older value.
	selection uint64
}

// New creates an editor over mgr.
func New(mgr *profile.Manager, opts ...Option) *Editor {
	e := &Editor{
		mgr:         mgr,
		onChange:    func(string, *profile.Profile) {},
		onSelection: func(profile.FieldSummary, error) {},
		notifier:    notify.Nop(),
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the bound profile name, or "" when nothing is open.
func (e *Editor) Name() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.name
}

// Profile returns a copy of the bound profile.
func (e *Editor) Profile() *profile.Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current.Clone()
}

// Dirty reports whether the bound profile has unsaved changes.
func (e *Editor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

// Pending reports whether a field selection is waiting for a screenshot.
func (e *Editor) Pending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending
}

// Open loads a profile and binds it. No change event fires while binding.
// Any pending field selection is abandoned.
func (e *Editor) Open(ctx context.Context, name string) error {
	p, err := e.mgr.Load(ctx, name)
	if err != nil {
		e.fail(name, "load", err)
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	e.mu.Lock()
	e.name = name
	e.current = profile.Default()
	e.baseline = p
	e.abandonSelection()
	e.loading = true
	e.mu.Unlock()

	// Binding goes through the regular mutation handler; the loading guard keeps it quiet.
	if err := e.Update(func(cur *profile.Profile) { *cur = *p.Clone() }); err != nil {
		return err
	}

	e.mu.Lock()
	e.loading = false
	e.dirty = false
	e.mu.Unlock()

	e.logger.Debug().Str("profile", name).Msg("profile opened")
	return nil
}

// Update applies fn to the bound profile. It is the single mutation handler:
// unless a profile is being loaded it marks the editor dirty and emits a
// change event.
func (e *Editor) Update(fn func(*profile.Profile)) error {
	e.mu.Lock()
	if e.current == nil {
		e.mu.Unlock()
		return ErrNotOpen
	}
	fn(e.current)
	if e.loading {
		e.mu.Unlock()
		return nil
	}
	e.dirty = true
	e.revision++
	name, snapshot := e.name, e.current.Clone()
	e.mu.Unlock()

	e.onChange(name, snapshot)
	return nil
}

// ApplyMarketPreset overwrites the market timing with a preset. Unknown labels
// and "Custom" leave the profile untouched and report false.
func (e *Editor) ApplyMarketPreset(label string) (bool, error) {
	if _, ok := profile.MarketPresets[label]; !ok {
		return false, e.requireOpen()
	}
	return true, e.Update(func(p *profile.Profile) {
		profile.ApplyMarketPreset(&p.MarketTiming, label)
	})
}

// ApplyFarmingPreset overwrites the farming timing with a preset, keeping the
// wheat growth time. Unknown labels and "Custom" report false.
func (e *Editor) ApplyFarmingPreset(label string) (bool, error) {
	if _, ok := profile.FarmingPresets[label]; !ok {
		return false, e.requireOpen()
	}
	return true, e.Update(func(p *profile.Profile) {
		profile.ApplyFarmingPreset(&p.FarmingTiming, label)
	})
}

// SetPolygon replaces the field zone. An empty polygon clears it.
func (e *Editor) SetPolygon(points []profile.Point) error {
	if len(points) != 0 && len(points) != profile.PolygonPoints {
		return fmt.Errorf("%w: got %d", ErrIncompletePolygon, len(points))
	}
	var polygon []profile.Point
	if len(points) > 0 {
		polygon = append(polygon, points...)
	}
	return e.Update(func(p *profile.Profile) {
		p.FieldZone.Polygon = polygon
	})
}

// SetThreshold enables a template with a detection threshold.
func (e *Editor) SetThreshold(template string, threshold float64) error {
	if template == "" {
		return errors.New("template identifier is required")
	}
	return e.Update(func(p *profile.Profile) {
		p.SetThreshold(template, threshold)
	})
}

// ClearThreshold disables a template. Clearing a disabled template is a no-op
// and emits no change event.
func (e *Editor) ClearThreshold(template string) (bool, error) {
	e.mu.Lock()
	if e.current == nil {
		e.mu.Unlock()
		return false, ErrNotOpen
	}
	_, enabled := e.current.TemplateThresholds.Templates[template]
	e.mu.Unlock()
	if !enabled {
		return false, nil
	}

	var cleared bool
	err := e.Update(func(p *profile.Profile) {
		cleared = p.ClearThreshold(template)
	})
	return cleared, err
}

// Save persists the bound profile. On failure the bound profile is kept as it
// is and the stored profile is unchanged.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	if e.current == nil {
		e.mu.Unlock()
		return ErrNotOpen
	}
	name, p, rev := e.name, e.current.Clone(), e.revision
	e.mu.Unlock()

	if err := e.mgr.Save(ctx, name, p); err != nil {
		e.fail(name, "save", err)
		return err
	}

	e.mu.Lock()
	if e.name == name {
		e.baseline = p
		if e.revision == rev {
			e.dirty = false
		}
	}
	e.mu.Unlock()

	if err := e.notifier.NotifySaved(name); err != nil {
		e.logger.Debug().Err(err).Msg("failed to send save notice")
	}
	e.logger.Info().Str("profile", name).Msg("profile saved")
	return nil
}

// Revert discards unsaved changes and restores the last loaded or saved state.
func (e *Editor) Revert() error {
	e.mu.Lock()
	if e.current == nil {
		e.mu.Unlock()
		return ErrNotOpen
	}
	*e.current = *e.baseline.Clone()
	e.dirty = false
	e.mu.Unlock()
	return nil
}

// Create stores a default profile under name and opens it.
func (e *Editor) Create(ctx context.Context, name string) error {
	if _, err := e.mgr.CreateDefault(ctx, name); err != nil {
		e.fail(name, "create", err)
		return err
	}
	return e.Open(ctx, name)
}

// Delete removes the bound profile and unbinds it.
func (e *Editor) Delete(ctx context.Context) error {
	e.mu.Lock()
	if e.current == nil {
		e.mu.Unlock()
		return ErrNotOpen
	}
	name := e.name
	e.mu.Unlock()

	if err := e.mgr.Delete(ctx, name); err != nil {
		e.fail(name, "delete", err)
		return err
	}

	e.mu.Lock()
	if e.name == name {
		e.unbind()
	}
	e.mu.Unlock()
	return nil
}

// Close abandons any pending field selection and unbinds the profile.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.unbind()
}

// unbind must be called with mu held.
func (e *Editor) unbind() {
	e.abandonSelection()
	e.name = ""
	e.current = nil
	e.baseline = nil
	e.dirty = false
}

func (e *Editor) requireOpen() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return ErrNotOpen
	}
	return nil
}

// fail reports an operator-facing failure.
func (e *Editor) fail(name, action string, err error) {
	e.logger.Warn().Err(err).Str("profile", name).Str("action", action).Msg("profile action failed")
	if nerr := e.notifier.NotifyFailure(name, action, err); nerr != nil {
		e.logger.Debug().Err(nerr).Msg("failed to send failure notice")
	}
}

// AvailableTemplates groups the catalog templates by category.
func (e *Editor) AvailableTemplates() (map[string][]string, error) {
	out := make(map[string][]string, len(templates.Categories))
	if e.catalog == nil {
		return out, nil
	}
	for _, category := range templates.Categories {
		ids, err := e.catalog.Templates(category)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s templates: %w", category, err)
		}
		out[category] = ids
	}
	return out, nil
}

// Decorations lists the templates usable as navigation decoration.
func (e *Editor) Decorations() ([]string, error) {
	if e.catalog == nil {
		return []string{}, nil
	}
	return e.catalog.Templates(templates.CategoryDecorations)
}
