// Package profile provides the bot configuration profile model and its manager.
// A profile is a flat, independently validated aggregate: there are no references
// between profiles, so operations on different names never interact.
package profile

import "encoding/json"

// Point is a screen coordinate stored as (x, y).
// It serialises as a two-element sequence.
type Point [2]int

// X returns the horizontal coordinate.
func (p Point) X() int { return p[0] }

// Y returns the vertical coordinate.
func (p Point) Y() int { return p[1] }

// Offset is a pixel offset applied to a detected anchor point.
type Offset struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// PriceOption selects how the market price is adjusted when listing goods.
type PriceOption string

const (
	// PriceLow lowers the suggested price.
	PriceLow PriceOption = "low"
	// PriceMid keeps the suggested price.
	PriceMid PriceOption = "mid"
	// PriceHigh raises the suggested price.
	PriceHigh PriceOption = "high"
)

// PriceOptions lists the accepted price options in display order.
var PriceOptions = []PriceOption{PriceLow, PriceMid, PriceHigh}

// Valid reports whether o is one of the accepted price options.
func (o PriceOption) Valid() bool {
	switch o {
	case PriceLow, PriceMid, PriceHigh:
		return true
	}
	return false
}

// FieldZone holds the quadrilateral bounding the playable farm area.
type FieldZone struct {
	// Polygon is either empty (unset) or exactly four points.
	Polygon []Point `yaml:"polygon" json:"polygon"`
}

// fieldZoneDoc is the persisted shape of a FieldZone. An unset polygon is null.
type fieldZoneDoc struct {
	Polygon *[]Point `yaml:"polygon" json:"polygon"`
}

func (z FieldZone) doc() fieldZoneDoc {
	if len(z.Polygon) == 0 {
		return fieldZoneDoc{}
	}
	return fieldZoneDoc{Polygon: &z.Polygon}
}

// MarshalYAML writes an empty polygon as null.
func (z FieldZone) MarshalYAML() (any, error) {
	return z.doc(), nil
}

// MarshalJSON writes an empty polygon as null.
func (z FieldZone) MarshalJSON() ([]byte, error) {
	return json.Marshal(z.doc())
}

// IsSet reports whether the polygon describes a usable field.
// All-zero coordinates are the "unset" convention, not a shape.
func (z FieldZone) IsSet() bool {
	if len(z.Polygon) == 0 {
		return false
	}
	for _, p := range z.Polygon {
		if p[0] != 0 || p[1] != 0 {
			return true
		}
	}
	return false
}

// NavigationDecoration is the decoration template used to recenter the field view.
type NavigationDecoration struct {
	Decoration string `yaml:"decoration" json:"decoration"`
	Offset     int    `yaml:"offset" json:"offset"`
}

// ToolOffsets holds offsets from detected tool anchors to their drag start points.
type ToolOffsets struct {
	Harvest Offset `yaml:"harvest" json:"harvest"`
	Plant   Offset `yaml:"plant" json:"plant"`
}

// DetectionSettings holds detector loop settings.
type DetectionSettings struct {
	DetectionInterval float64 `yaml:"detection_interval" json:"detection_interval"`
}

// TemplateThresholds maps template identifiers to match confidence thresholds.
// Only explicitly configured templates have entries.
type TemplateThresholds struct {
	Templates map[string]float64 `yaml:"templates" json:"templates"`
}

// GameSettings is fixed game metadata.
type GameSettings struct {
	PackageName         string  `yaml:"package_name" json:"package_name"`
	WaitTimeAfterAction float64 `yaml:"wait_time_after_action" json:"wait_time_after_action"`
}

// PriceSettings holds the market pricing strategy.
type PriceSettings struct {
	PriceOption PriceOption `yaml:"price_option" json:"price_option"`
}

// MarketTiming holds market cycle delays in seconds.
type MarketTiming struct {
	EscapeWait              float64 `yaml:"escape_wait" json:"escape_wait"`
	MarketOpenWait          float64 `yaml:"market_open_wait" json:"market_open_wait"`
	CollectionWait          float64 `yaml:"collection_wait" json:"collection_wait"`
	OfferPageWait           float64 `yaml:"offer_page_wait" json:"offer_page_wait"`
	QuantityClickDelay      float64 `yaml:"quantity_click_delay" json:"quantity_click_delay"`
	PriceSetWait            float64 `yaml:"price_set_wait" json:"price_set_wait"`
	OfferCreateWait         float64 `yaml:"offer_create_wait" json:"offer_create_wait"`
	PageCloseWait           float64 `yaml:"page_close_wait" json:"page_close_wait"`
	VerificationWait        float64 `yaml:"verification_wait" json:"verification_wait"`
	AdvertPageWait          float64 `yaml:"advert_page_wait" json:"advert_page_wait"`
	MaxVerificationAttempts int     `yaml:"max_verification_attempts" json:"max_verification_attempts"`
}

// FarmingTiming holds farming loop delays, path geometry and drag durations.
// Waits and delays are seconds, path values are pixels and the drag duration is
// milliseconds per segment.
type FarmingTiming struct {
	// WheatGrowthTime is nil until the operator measures it.
	WheatGrowthTime *float64 `yaml:"wheat_growth_time,omitempty" json:"wheat_growth_time,omitempty"`

	PostPlantDelay      float64 `yaml:"post_plant_delay" json:"post_plant_delay"`
	FieldRecenterWait   float64 `yaml:"field_recenter_wait" json:"field_recenter_wait"`
	PopupCloseWait      float64 `yaml:"popup_close_wait" json:"popup_close_wait"`
	MainScreenRetryWait float64 `yaml:"main_screen_retry_wait" json:"main_screen_retry_wait"`
	CycleErrorWait      float64 `yaml:"cycle_error_wait" json:"cycle_error_wait"`
	SiloPopupWait       float64 `yaml:"silo_popup_wait" json:"silo_popup_wait"`
	ScreenshotRetryWait float64 `yaml:"screenshot_retry_wait" json:"screenshot_retry_wait"`
	MarketCheckInterval float64 `yaml:"market_check_interval" json:"market_check_interval"`

	HarvestStartDelayMin     float64 `yaml:"harvest_start_delay_min" json:"harvest_start_delay_min"`
	HarvestStartDelayMax     float64 `yaml:"harvest_start_delay_max" json:"harvest_start_delay_max"`
	HarvestToolPressDelayMin float64 `yaml:"harvest_tool_press_delay_min" json:"harvest_tool_press_delay_min"`
	HarvestToolPressDelayMax float64 `yaml:"harvest_tool_press_delay_max" json:"harvest_tool_press_delay_max"`
	HarvestMoveDelayMin      float64 `yaml:"harvest_move_delay_min" json:"harvest_move_delay_min"`
	HarvestMoveDelayMax      float64 `yaml:"harvest_move_delay_max" json:"harvest_move_delay_max"`
	HarvestFieldMoveDelayMin float64 `yaml:"harvest_field_move_delay_min" json:"harvest_field_move_delay_min"`
	HarvestFieldMoveDelayMax float64 `yaml:"harvest_field_move_delay_max" json:"harvest_field_move_delay_max"`
	PlantStartDelayMin       float64 `yaml:"plant_start_delay_min" json:"plant_start_delay_min"`
	PlantStartDelayMax       float64 `yaml:"plant_start_delay_max" json:"plant_start_delay_max"`
	PlantToolPressDelayMin   float64 `yaml:"plant_tool_press_delay_min" json:"plant_tool_press_delay_min"`
	PlantToolPressDelayMax   float64 `yaml:"plant_tool_press_delay_max" json:"plant_tool_press_delay_max"`
	PlantMoveDelayMin        float64 `yaml:"plant_move_delay_min" json:"plant_move_delay_min"`
	PlantMoveDelayMax        float64 `yaml:"plant_move_delay_max" json:"plant_move_delay_max"`
	PlantFieldMoveDelayMin   float64 `yaml:"plant_field_move_delay_min" json:"plant_field_move_delay_min"`
	PlantFieldMoveDelayMax   float64 `yaml:"plant_field_move_delay_max" json:"plant_field_move_delay_max"`

	PathSpacing                      int `yaml:"path_spacing" json:"path_spacing"`
	PathRandomizationPixels          int `yaml:"path_randomization_pixels" json:"path_randomization_pixels"`
	ContinuousDragDurationPerSegment int `yaml:"continuous_drag_duration_per_segment" json:"continuous_drag_duration_per_segment"`
	DetectionAreaWidth               int `yaml:"detection_area_width" json:"detection_area_width"`
	DetectionAreaHeight              int `yaml:"detection_area_height" json:"detection_area_height"`
}

// CycleSettings holds the scheduling of market cycles.
type CycleSettings struct {
	MarketCycleInterval int `yaml:"market_cycle_interval" json:"market_cycle_interval"`
}

// Profile is one named bot configuration.
type Profile struct {
	FieldZone            FieldZone            `yaml:"field_zone" json:"field_zone"`
	NavigationDecoration NavigationDecoration `yaml:"navigation_decoration" json:"navigation_decoration"`
	ToolOffsets          ToolOffsets          `yaml:"tool_offsets" json:"tool_offsets"`
	DetectionSettings    DetectionSettings    `yaml:"detection_settings" json:"detection_settings"`
	TemplateThresholds   TemplateThresholds   `yaml:"template_thresholds" json:"template_thresholds"`
	GameSettings         GameSettings         `yaml:"game_settings" json:"game_settings"`
	PriceSettings        PriceSettings        `yaml:"price_settings" json:"price_settings"`
	MarketTiming         MarketTiming         `yaml:"market_timing" json:"market_timing"`
	FarmingTiming        FarmingTiming        `yaml:"farming_timing" json:"farming_timing"`
	CycleSettings        CycleSettings        `yaml:"cycle_settings" json:"cycle_settings"`
}

// Clone returns a deep copy of p.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	if p.FieldZone.Polygon != nil {
		c.FieldZone.Polygon = append([]Point(nil), p.FieldZone.Polygon...)
	}
	if p.TemplateThresholds.Templates != nil {
		c.TemplateThresholds.Templates = make(map[string]float64, len(p.TemplateThresholds.Templates))
		for k, v := range p.TemplateThresholds.Templates {
			c.TemplateThresholds.Templates[k] = v
		}
	}
	if p.FarmingTiming.WheatGrowthTime != nil {
		v := *p.FarmingTiming.WheatGrowthTime
		c.FarmingTiming.WheatGrowthTime = &v
	}
	return &c
}

// SetThreshold enables a template with the given detection threshold.
func (p *Profile) SetThreshold(template string, threshold float64) {
	if p.TemplateThresholds.Templates == nil {
		p.TemplateThresholds.Templates = make(map[string]float64)
	}
	p.TemplateThresholds.Templates[template] = threshold
}

// ClearThreshold disables a template. It reports whether the template was enabled.
func (p *Profile) ClearThreshold(template string) bool {
	if _, ok := p.TemplateThresholds.Templates[template]; !ok {
		return false
	}
	delete(p.TemplateThresholds.Templates, template)
	return true
}
