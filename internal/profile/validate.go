package profile

import (
	"fmt"
	"sort"
)

// Documented value ranges (inclusive).
const (
	MinCoordinate = -9999
	MaxCoordinate = 9999

	MinMarketWait = 0.1
	MaxMarketWait = 5.0

	MinVerificationAttempts = 1
	MaxVerificationAttempts = 5

	MinFarmingWait = 0.1
	MaxFarmingWait = 10.0

	MinWheatGrowthTime = 30.0
	MaxWheatGrowthTime = 600.0

	MinToolDelay = 0.01
	MaxToolDelay = 5.0

	MinDetectionArea = 30
	MaxDetectionArea = 200

	MinPathSpacing = 20
	MaxPathSpacing = 100

	MinPathRandomization = 0
	MaxPathRandomization = 10

	MinDragDuration = 10
	MaxDragDuration = 200

	MinMarketCycleInterval = 5
	MaxMarketCycleInterval = 30

	MinThreshold = 0.1
	MaxThreshold = 1.0

	MinDetectionInterval = 0.1
	MaxDetectionInterval = 10.0

	// PolygonPoints is the number of corners of the field zone.
	PolygonPoints = 4
)

type floatField struct {
	key   string
	value float64
}

type intField struct {
	key   string
	value int
}

type delayPair struct {
	key      string
	min, max float64
}

// Validate returns one human-readable message per rule p violates.
// An empty result means p may be saved.
func Validate(p *Profile) []string {
	if p == nil {
		return []string{"profile is empty"}
	}

	v := &validator{}

	v.fieldZone(p.FieldZone)

	v.intRange("navigation_decoration.offset", p.NavigationDecoration.Offset, MinCoordinate, MaxCoordinate)
	v.intRange("tool_offsets.harvest.x", p.ToolOffsets.Harvest.X, MinCoordinate, MaxCoordinate)
	v.intRange("tool_offsets.harvest.y", p.ToolOffsets.Harvest.Y, MinCoordinate, MaxCoordinate)
	v.intRange("tool_offsets.plant.x", p.ToolOffsets.Plant.X, MinCoordinate, MaxCoordinate)
	v.intRange("tool_offsets.plant.y", p.ToolOffsets.Plant.Y, MinCoordinate, MaxCoordinate)

	v.floatRange("detection_settings.detection_interval", p.DetectionSettings.DetectionInterval, MinDetectionInterval, MaxDetectionInterval)

	if !p.PriceSettings.PriceOption.Valid() {
		v.addf("price_settings.price_option %q must be one of low, mid, high", p.PriceSettings.PriceOption)
	}

	v.thresholds(p.TemplateThresholds.Templates)
	v.marketTiming(p.MarketTiming)
	v.farmingTiming(p.FarmingTiming)

	v.intRange("cycle_settings.market_cycle_interval", p.CycleSettings.MarketCycleInterval, MinMarketCycleInterval, MaxMarketCycleInterval)

	return v.problems
}

type validator struct {
	problems []string
}

func (v *validator) addf(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) floatRange(key string, value, lo, hi float64) {
	if value < lo || value > hi {
		v.addf("%s = %g is outside [%g, %g]", key, value, lo, hi)
	}
}

func (v *validator) intRange(key string, value, lo, hi int) {
	if value < lo || value > hi {
		v.addf("%s = %d is outside [%d, %d]", key, value, lo, hi)
	}
}

func (v *validator) fieldZone(z FieldZone) {
	if !z.IsSet() {
		v.addf("field_zone.polygon is not set: select the field zone before saving")
		return
	}
	if len(z.Polygon) != PolygonPoints {
		v.addf("field_zone.polygon must have exactly %d points, got %d", PolygonPoints, len(z.Polygon))
	}
	for i, pt := range z.Polygon {
		v.intRange(fmt.Sprintf("field_zone.polygon[%d].x", i), pt.X(), MinCoordinate, MaxCoordinate)
		v.intRange(fmt.Sprintf("field_zone.polygon[%d].y", i), pt.Y(), MinCoordinate, MaxCoordinate)
	}
}

func (v *validator) thresholds(templates map[string]float64) {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if name == "" {
			v.addf("template_thresholds.templates has an entry with an empty template name")
			continue
		}
		v.floatRange("template_thresholds.templates."+name, templates[name], MinThreshold, MaxThreshold)
	}
}

func (v *validator) marketTiming(t MarketTiming) {
	for _, f := range []floatField{
		{"escape_wait", t.EscapeWait},
		{"market_open_wait", t.MarketOpenWait},
		{"collection_wait", t.CollectionWait},
		{"offer_page_wait", t.OfferPageWait},
		{"quantity_click_delay", t.QuantityClickDelay},
		{"price_set_wait", t.PriceSetWait},
		{"offer_create_wait", t.OfferCreateWait},
		{"page_close_wait", t.PageCloseWait},
		{"verification_wait", t.VerificationWait},
		{"advert_page_wait", t.AdvertPageWait},
	} {
		v.floatRange("market_timing."+f.key, f.value, MinMarketWait, MaxMarketWait)
	}
	v.intRange("market_timing.max_verification_attempts", t.MaxVerificationAttempts, MinVerificationAttempts, MaxVerificationAttempts)
}

func (v *validator) farmingTiming(t FarmingTiming) {
	if t.WheatGrowthTime != nil {
		v.floatRange("farming_timing.wheat_growth_time", *t.WheatGrowthTime, MinWheatGrowthTime, MaxWheatGrowthTime)
	}

	for _, f := range []floatField{
		{"post_plant_delay", t.PostPlantDelay},
		{"field_recenter_wait", t.FieldRecenterWait},
		{"popup_close_wait", t.PopupCloseWait},
		{"main_screen_retry_wait", t.MainScreenRetryWait},
		{"cycle_error_wait", t.CycleErrorWait},
		{"silo_popup_wait", t.SiloPopupWait},
		{"screenshot_retry_wait", t.ScreenshotRetryWait},
		{"market_check_interval", t.MarketCheckInterval},
	} {
		v.floatRange("farming_timing."+f.key, f.value, MinFarmingWait, MaxFarmingWait)
	}

	for _, d := range []delayPair{
		{"harvest_start_delay", t.HarvestStartDelayMin, t.HarvestStartDelayMax},
		{"harvest_tool_press_delay", t.HarvestToolPressDelayMin, t.HarvestToolPressDelayMax},
		{"harvest_move_delay", t.HarvestMoveDelayMin, t.HarvestMoveDelayMax},
		{"harvest_field_move_delay", t.HarvestFieldMoveDelayMin, t.HarvestFieldMoveDelayMax},
		{"plant_start_delay", t.PlantStartDelayMin, t.PlantStartDelayMax},
		{"plant_tool_press_delay", t.PlantToolPressDelayMin, t.PlantToolPressDelayMax},
		{"plant_move_delay", t.PlantMoveDelayMin, t.PlantMoveDelayMax},
		{"plant_field_move_delay", t.PlantFieldMoveDelayMin, t.PlantFieldMoveDelayMax},
	} {
		v.floatRange("farming_timing."+d.key+"_min", d.min, MinToolDelay, MaxToolDelay)
		v.floatRange("farming_timing."+d.key+"_max", d.max, MinToolDelay, MaxToolDelay)
		if d.min > d.max {
			v.addf("farming_timing.%s_min = %g exceeds %s_max = %g", d.key, d.min, d.key, d.max)
		}
	}

	for _, f := range []intField{
		{"detection_area_width", t.DetectionAreaWidth},
		{"detection_area_height", t.DetectionAreaHeight},
	} {
		v.intRange("farming_timing."+f.key, f.value, MinDetectionArea, MaxDetectionArea)
	}
	v.intRange("farming_timing.path_spacing", t.PathSpacing, MinPathSpacing, MaxPathSpacing)
	v.intRange("farming_timing.path_randomization_pixels", t.PathRandomizationPixels, MinPathRandomization, MaxPathRandomization)
	v.intRange("farming_timing.continuous_drag_duration_per_segment", t.ContinuousDragDurationPerSegment, MinDragDuration, MaxDragDuration)
}
