package profile

import (
	"strings"
	"testing"
)

func validProfile() *Profile {
	p := Default()
	p.FieldZone.Polygon = []Point{{100, 100}, {400, 100}, {400, 300}, {100, 300}}
	return p
}

func hasProblem(problems []string, substr string) bool {
	for _, p := range problems {
		if strings.Contains(p, substr) {
			return true
		}
	}
	return false
}

func TestValidate_Default(t *testing.T) {
	problems := Validate(Default())
	if len(problems) == 0 {
		t.Fatal("expected default profile to be invalid")
	}
	if !hasProblem(problems, "field_zone.polygon is not set") {
		t.Errorf("expected unset polygon problem, got %v", problems)
	}
}

func TestValidate_DefaultWithPolygon(t *testing.T) {
	if problems := Validate(validProfile()); len(problems) != 0 {
		t.Errorf("expected valid profile, got %v", problems)
	}
}

func TestValidate_Nil(t *testing.T) {
	if problems := Validate(nil); len(problems) != 1 {
		t.Errorf("expected one problem for nil profile, got %v", problems)
	}
}

func TestValidate_FieldZone(t *testing.T) {
	tests := []struct {
		name    string
		polygon []Point
		problem string
	}{
		{
			name:    "all zero is unset",
			polygon: []Point{{0, 0}, {0, 0}, {0, 0}, {0, 0}},
			problem: "not set",
		},
		{
			name:    "three points",
			polygon: []Point{{1, 1}, {5, 1}, {5, 5}},
			problem: "exactly 4 points, got 3",
		},
		{
			name:    "coordinate out of range",
			polygon: []Point{{1, 1}, {10000, 1}, {5, 5}, {1, 5}},
			problem: "field_zone.polygon[1].x",
		},
		{
			name:    "five points",
			polygon: []Point{{1, 1}, {5, 1}, {5, 5}, {3, 7}, {1, 5}},
			problem: "exactly 4 points, got 5",
		},
		{
			name:    "negative coordinate out of range",
			polygon: []Point{{1, 1}, {5, 1}, {5, -10000}, {1, 5}},
			problem: "field_zone.polygon[2].y",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			p.FieldZone.Polygon = tt.polygon
			problems := Validate(p)
			if !hasProblem(problems, tt.problem) {
				t.Errorf("expected problem containing %q, got %v", tt.problem, problems)
			}
		})
	}
}

func TestValidate_Boundaries(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Profile)
		problem string
	}{
		{
			name:   "market wait at minimum",
			mutate: func(p *Profile) { p.MarketTiming.EscapeWait = MinMarketWait },
		},
		{
			name:   "market wait at maximum",
			mutate: func(p *Profile) { p.MarketTiming.AdvertPageWait = MaxMarketWait },
		},
		{
			name:    "market wait above maximum",
			mutate:  func(p *Profile) { p.MarketTiming.AdvertPageWait = 5.01 },
			problem: "market_timing.advert_page_wait",
		},
		{
			name:    "market wait below minimum",
			mutate:  func(p *Profile) { p.MarketTiming.CollectionWait = 0.09 },
			problem: "market_timing.collection_wait",
		},
		{
			name:    "verification attempts zero",
			mutate:  func(p *Profile) { p.MarketTiming.MaxVerificationAttempts = 0 },
			problem: "market_timing.max_verification_attempts",
		},
		{
			name:   "verification attempts at maximum",
			mutate: func(p *Profile) { p.MarketTiming.MaxVerificationAttempts = MaxVerificationAttempts },
		},
		{
			name:    "farming wait above maximum",
			mutate:  func(p *Profile) { p.FarmingTiming.CycleErrorWait = 10.5 },
			problem: "farming_timing.cycle_error_wait",
		},
		{
			name: "wheat growth time in range",
			mutate: func(p *Profile) {
				v := 120.0
				p.FarmingTiming.WheatGrowthTime = &v
			},
		},
		{
			name: "wheat growth time too short",
			mutate: func(p *Profile) {
				v := 29.9
				p.FarmingTiming.WheatGrowthTime = &v
			},
			problem: "farming_timing.wheat_growth_time",
		},
		{
			name:    "delay min exceeds max",
			mutate:  func(p *Profile) { p.FarmingTiming.PlantMoveDelayMin = 0.5 },
			problem: "plant_move_delay_min = 0.5 exceeds",
		},
		{
			name:    "detection area too small",
			mutate:  func(p *Profile) { p.FarmingTiming.DetectionAreaWidth = 29 },
			problem: "farming_timing.detection_area_width",
		},
		{
			name:   "detection area at maximum",
			mutate: func(p *Profile) { p.FarmingTiming.DetectionAreaHeight = MaxDetectionArea },
		},
		{
			name:    "path spacing above maximum",
			mutate:  func(p *Profile) { p.FarmingTiming.PathSpacing = 101 },
			problem: "farming_timing.path_spacing",
		},
		{
			name:   "no path randomization",
			mutate: func(p *Profile) { p.FarmingTiming.PathRandomizationPixels = 0 },
		},
		{
			name:    "drag duration too short",
			mutate:  func(p *Profile) { p.FarmingTiming.ContinuousDragDurationPerSegment = 9 },
			problem: "continuous_drag_duration_per_segment",
		},
		{
			name:    "market cycle interval too long",
			mutate:  func(p *Profile) { p.CycleSettings.MarketCycleInterval = 31 },
			problem: "cycle_settings.market_cycle_interval",
		},
		{
			name:   "market cycle interval at minimum",
			mutate: func(p *Profile) { p.CycleSettings.MarketCycleInterval = MinMarketCycleInterval },
		},
		{
			name:    "tool offset out of range",
			mutate:  func(p *Profile) { p.ToolOffsets.Harvest.Y = -10000 },
			problem: "tool_offsets.harvest.y",
		},
		{
			name:    "detection interval zero",
			mutate:  func(p *Profile) { p.DetectionSettings.DetectionInterval = 0 },
			problem: "detection_settings.detection_interval",
		},
		{
			name:    "unknown price option",
			mutate:  func(p *Profile) { p.PriceSettings.PriceOption = "medium" },
			problem: `price_settings.price_option "medium"`,
		},
		{
			name:   "threshold at maximum",
			mutate: func(p *Profile) { p.SetThreshold("market/market_stand.png", MaxThreshold) },
		},
		{
			name:    "threshold above maximum",
			mutate:  func(p *Profile) { p.SetThreshold("market/market_stand.png", 1.2) },
			problem: "template_thresholds.templates.market/market_stand.png",
		},
		{
			name:    "empty template name",
			mutate:  func(p *Profile) { p.SetThreshold("", 0.8) },
			problem: "empty template name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.mutate(p)
			problems := Validate(p)
			if tt.problem == "" {
				if len(problems) != 0 {
					t.Errorf("expected no problems, got %v", problems)
				}
				return
			}
			if !hasProblem(problems, tt.problem) {
				t.Errorf("expected problem containing %q, got %v", tt.problem, problems)
			}
		})
	}
}

func TestValidate_FieldZoneCoordinateLimits(t *testing.T) {
	p := validProfile()
	p.FieldZone.Polygon = []Point{{MinCoordinate, MinCoordinate}, {MaxCoordinate, MinCoordinate}, {MaxCoordinate, MaxCoordinate}, {MinCoordinate, MaxCoordinate}}
	if problems := Validate(p); len(problems) != 0 {
		t.Errorf("expected polygon at the coordinate limits to be valid, got %v", problems)
	}
}

// rangeCase sets one bounded parameter. Integer parameters truncate v.
type rangeCase struct {
	key    string
	lo, hi float64
	eps    float64
	set    func(p *Profile, v float64)
}

func intCase(key string, lo, hi int, set func(p *Profile, v int)) rangeCase {
	return rangeCase{
		key: key, lo: float64(lo), hi: float64(hi), eps: 1,
		set: func(p *Profile, v float64) { set(p, int(v)) },
	}
}

func floatCase(key string, lo, hi float64, set func(p *Profile, v float64)) rangeCase {
	return rangeCase{key: key, lo: lo, hi: hi, eps: 0.001, set: set}
}

func boundedParameters() []rangeCase {
	cases := []rangeCase{
		intCase("field_zone.polygon[0].x", MinCoordinate, MaxCoordinate, func(p *Profile, v int) { p.FieldZone.Polygon[0][0] = v }),
		intCase("field_zone.polygon[3].y", MinCoordinate, MaxCoordinate, func(p *Profile, v int) { p.FieldZone.Polygon[3][1] = v }),
		intCase("navigation_decoration.offset", MinCoordinate, MaxCoordinate, func(p *Profile, v int) { p.NavigationDecoration.Offset = v }),
		intCase("tool_offsets.harvest.x", MinCoordinate, MaxCoordinate, func(p *Profile, v int) { p.ToolOffsets.Harvest.X = v }),
		intCase("tool_offsets.harvest.y", MinCoordinate, MaxCoordinate, func(p *Profile, v int) { p.ToolOffsets.Harvest.Y = v }),
		intCase("tool_offsets.plant.x", MinCoordinate, MaxCoordinate, func(p *Profile, v int) { p.ToolOffsets.Plant.X = v }),
		intCase("tool_offsets.plant.y", MinCoordinate, MaxCoordinate, func(p *Profile, v int) { p.ToolOffsets.Plant.Y = v }),
		floatCase("detection_settings.detection_interval", MinDetectionInterval, MaxDetectionInterval, func(p *Profile, v float64) { p.DetectionSettings.DetectionInterval = v }),
		floatCase("template_thresholds.templates.market/market_stand.png", MinThreshold, MaxThreshold, func(p *Profile, v float64) { p.SetThreshold("market/market_stand.png", v) }),
		intCase("market_timing.max_verification_attempts", MinVerificationAttempts, MaxVerificationAttempts, func(p *Profile, v int) { p.MarketTiming.MaxVerificationAttempts = v }),
		floatCase("farming_timing.wheat_growth_time", MinWheatGrowthTime, MaxWheatGrowthTime, func(p *Profile, v float64) { p.FarmingTiming.WheatGrowthTime = &v }),
		intCase("farming_timing.detection_area_width", MinDetectionArea, MaxDetectionArea, func(p *Profile, v int) { p.FarmingTiming.DetectionAreaWidth = v }),
		intCase("farming_timing.detection_area_height", MinDetectionArea, MaxDetectionArea, func(p *Profile, v int) { p.FarmingTiming.DetectionAreaHeight = v }),
		intCase("farming_timing.path_spacing", MinPathSpacing, MaxPathSpacing, func(p *Profile, v int) { p.FarmingTiming.PathSpacing = v }),
		intCase("farming_timing.path_randomization_pixels", MinPathRandomization, MaxPathRandomization, func(p *Profile, v int) { p.FarmingTiming.PathRandomizationPixels = v }),
		intCase("farming_timing.continuous_drag_duration_per_segment", MinDragDuration, MaxDragDuration, func(p *Profile, v int) { p.FarmingTiming.ContinuousDragDurationPerSegment = v }),
		intCase("cycle_settings.market_cycle_interval", MinMarketCycleInterval, MaxMarketCycleInterval, func(p *Profile, v int) { p.CycleSettings.MarketCycleInterval = v }),
	}

	market := map[string]func(t *MarketTiming) *float64{
		"escape_wait":          func(t *MarketTiming) *float64 { return &t.EscapeWait },
		"market_open_wait":     func(t *MarketTiming) *float64 { return &t.MarketOpenWait },
		"collection_wait":      func(t *MarketTiming) *float64 { return &t.CollectionWait },
		"offer_page_wait":      func(t *MarketTiming) *float64 { return &t.OfferPageWait },
		"quantity_click_delay": func(t *MarketTiming) *float64 { return &t.QuantityClickDelay },
		"price_set_wait":       func(t *MarketTiming) *float64 { return &t.PriceSetWait },
		"offer_create_wait":    func(t *MarketTiming) *float64 { return &t.OfferCreateWait },
		"page_close_wait":      func(t *MarketTiming) *float64 { return &t.PageCloseWait },
		"verification_wait":    func(t *MarketTiming) *float64 { return &t.VerificationWait },
		"advert_page_wait":     func(t *MarketTiming) *float64 { return &t.AdvertPageWait },
	}
	for key, field := range market {
		key, field := key, field
		cases = append(cases, floatCase("market_timing."+key, MinMarketWait, MaxMarketWait, func(p *Profile, v float64) { *field(&p.MarketTiming) = v }))
	}

	farming := map[string]func(t *FarmingTiming) *float64{
		"post_plant_delay":       func(t *FarmingTiming) *float64 { return &t.PostPlantDelay },
		"field_recenter_wait":    func(t *FarmingTiming) *float64 { return &t.FieldRecenterWait },
		"popup_close_wait":       func(t *FarmingTiming) *float64 { return &t.PopupCloseWait },
		"main_screen_retry_wait": func(t *FarmingTiming) *float64 { return &t.MainScreenRetryWait },
		"cycle_error_wait":       func(t *FarmingTiming) *float64 { return &t.CycleErrorWait },
		"silo_popup_wait":        func(t *FarmingTiming) *float64 { return &t.SiloPopupWait },
		"screenshot_retry_wait":  func(t *FarmingTiming) *float64 { return &t.ScreenshotRetryWait },
		"market_check_interval":  func(t *FarmingTiming) *float64 { return &t.MarketCheckInterval },
	}
	for key, field := range farming {
		key, field := key, field
		cases = append(cases, floatCase("farming_timing."+key, MinFarmingWait, MaxFarmingWait, func(p *Profile, v float64) { *field(&p.FarmingTiming) = v }))
	}

	// Both ends of a delay pair move together so min never exceeds max.
	delays := map[string][2]func(t *FarmingTiming) *float64{
		"harvest_start_delay":      {func(t *FarmingTiming) *float64 { return &t.HarvestStartDelayMin }, func(t *FarmingTiming) *float64 { return &t.HarvestStartDelayMax }},
		"harvest_tool_press_delay": {func(t *FarmingTiming) *float64 { return &t.HarvestToolPressDelayMin }, func(t *FarmingTiming) *float64 { return &t.HarvestToolPressDelayMax }},
		"harvest_move_delay":       {func(t *FarmingTiming) *float64 { return &t.HarvestMoveDelayMin }, func(t *FarmingTiming) *float64 { return &t.HarvestMoveDelayMax }},
		"harvest_field_move_delay": {func(t *FarmingTiming) *float64 { return &t.HarvestFieldMoveDelayMin }, func(t *FarmingTiming) *float64 { return &t.HarvestFieldMoveDelayMax }},
		"plant_start_delay":        {func(t *FarmingTiming) *float64 { return &t.PlantStartDelayMin }, func(t *FarmingTiming) *float64 { return &t.PlantStartDelayMax }},
		"plant_tool_press_delay":   {func(t *FarmingTiming) *float64 { return &t.PlantToolPressDelayMin }, func(t *FarmingTiming) *float64 { return &t.PlantToolPressDelayMax }},
		"plant_move_delay":         {func(t *FarmingTiming) *float64 { return &t.PlantMoveDelayMin }, func(t *FarmingTiming) *float64 { return &t.PlantMoveDelayMax }},
		"plant_field_move_delay":   {func(t *FarmingTiming) *float64 { return &t.PlantFieldMoveDelayMin }, func(t *FarmingTiming) *float64 { return &t.PlantFieldMoveDelayMax }},
	}
	for key, pair := range delays {
		key, pair := key, pair
		cases = append(cases, floatCase("farming_timing."+key+"_min", MinToolDelay, MaxToolDelay, func(p *Profile, v float64) {
			*pair[0](&p.FarmingTiming) = v
			*pair[1](&p.FarmingTiming) = v
		}))
	}

	return cases
}

func TestValidate_EveryRangeLimit(t *testing.T) {
	for _, rc := range boundedParameters() {
		t.Run(rc.key, func(t *testing.T) {
			for _, v := range []float64{rc.lo, rc.hi} {
				p := validProfile()
				rc.set(p, v)
				if problems := Validate(p); len(problems) != 0 {
					t.Errorf("%s = %g: expected no problems, got %v", rc.key, v, problems)
				}
			}
			for _, v := range []float64{rc.lo - rc.eps, rc.hi + rc.eps} {
				p := validProfile()
				rc.set(p, v)
				if problems := Validate(p); !hasProblem(problems, rc.key) {
					t.Errorf("%s = %g: expected a problem, got %v", rc.key, v, problems)
				}
			}
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	p := Default()
	p.MarketTiming.EscapeWait = 0
	p.CycleSettings.MarketCycleInterval = 0

	problems := Validate(p)
	if len(problems) != 3 {
		t.Errorf("expected 3 problems, got %d: %v", len(problems), problems)
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Problems: []string{"a", "b"}}
	if got := Problems(err); len(got) != 2 {
		t.Errorf("Problems() = %v, want 2 entries", got)
	}
	if !strings.Contains(err.Error(), "  - b") {
		t.Errorf("Error() = %q, want listed problems", err.Error())
	}
	if Problems(ErrNotFound) != nil {
		t.Error("expected no problems for unrelated error")
	}
}
