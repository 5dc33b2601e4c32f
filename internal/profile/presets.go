package profile

// PresetCustom is the label shown for hand-tuned timings. It has no table entry,
// so applying it leaves the current values untouched.
const PresetCustom = "Custom"

// MarketPresets maps market speed labels to complete market timing blocks.
var MarketPresets = map[string]MarketTiming{
	"Fast": {
		EscapeWait:              0.3,
		MarketOpenWait:          0.8,
		CollectionWait:          0.2,
		OfferPageWait:           0.8,
		QuantityClickDelay:      0.1,
		PriceSetWait:            0.3,
		OfferCreateWait:         0.8,
		PageCloseWait:           0.2,
		VerificationWait:        0.3,
		AdvertPageWait:          0.8,
		MaxVerificationAttempts: 2,
	},
	"Normal": {
		EscapeWait:              0.5,
		MarketOpenWait:          1.0,
		CollectionWait:          0.3,
		OfferPageWait:           1.0,
		QuantityClickDelay:      0.2,
		PriceSetWait:            0.5,
		OfferCreateWait:         1.0,
		PageCloseWait:           0.3,
		VerificationWait:        0.5,
		AdvertPageWait:          1.0,
		MaxVerificationAttempts: 2,
	},
	"Safe": {
		EscapeWait:              1.0,
		MarketOpenWait:          2.0,
		CollectionWait:          1.0,
		OfferPageWait:           2.0,
		QuantityClickDelay:      0.5,
		PriceSetWait:            1.0,
		OfferCreateWait:         2.0,
		PageCloseWait:           1.0,
		VerificationWait:        1.0,
		AdvertPageWait:          2.0,
		MaxVerificationAttempts: 3,
	},
}

// FarmingPresets maps farming speed labels to farming timing blocks.
// No preset carries a wheat growth time.
var FarmingPresets = map[string]FarmingTiming{
	"Lightning": {
		PostPlantDelay:                   0.5,
		FieldRecenterWait:                0.5,
		PopupCloseWait:                   0.3,
		MainScreenRetryWait:              0.5,
		CycleErrorWait:                   1.0,
		SiloPopupWait:                    0.3,
		ScreenshotRetryWait:              0.5,
		MarketCheckInterval:              0.5,
		HarvestStartDelayMin:             0.05,
		HarvestStartDelayMax:             0.1,
		HarvestToolPressDelayMin:         0.02,
		HarvestToolPressDelayMax:         0.05,
		HarvestMoveDelayMin:              0.02,
		HarvestMoveDelayMax:              0.05,
		HarvestFieldMoveDelayMin:         0.02,
		HarvestFieldMoveDelayMax:         0.05,
		PlantStartDelayMin:               0.05,
		PlantStartDelayMax:               0.1,
		PlantToolPressDelayMin:           0.02,
		PlantToolPressDelayMax:           0.05,
		PlantMoveDelayMin:                0.02,
		PlantMoveDelayMax:                0.05,
		PlantFieldMoveDelayMin:           0.02,
		PlantFieldMoveDelayMax:           0.05,
		PathRandomizationPixels:          1,
		ContinuousDragDurationPerSegment: 30,
		DetectionAreaWidth:               50,
		DetectionAreaHeight:              50,
		PathSpacing:                      25,
	},
	"Fast": {
		PostPlantDelay:                   1.0,
		FieldRecenterWait:                1.0,
		PopupCloseWait:                   0.5,
		MainScreenRetryWait:              1.0,
		CycleErrorWait:                   2.0,
		SiloPopupWait:                    0.5,
		ScreenshotRetryWait:              1.0,
		MarketCheckInterval:              1.0,
		HarvestStartDelayMin:             0.1,
		HarvestStartDelayMax:             0.3,
		HarvestToolPressDelayMin:         0.05,
		HarvestToolPressDelayMax:         0.1,
		HarvestMoveDelayMin:              0.05,
		HarvestMoveDelayMax:              0.1,
		HarvestFieldMoveDelayMin:         0.05,
		HarvestFieldMoveDelayMax:         0.1,
		PlantStartDelayMin:               0.1,
		PlantStartDelayMax:               0.3,
		PlantToolPressDelayMin:           0.05,
		PlantToolPressDelayMax:           0.1,
		PlantMoveDelayMin:                0.05,
		PlantMoveDelayMax:                0.1,
		PlantFieldMoveDelayMin:           0.05,
		PlantFieldMoveDelayMax:           0.1,
		PathRandomizationPixels:          2,
		ContinuousDragDurationPerSegment: 40,
		DetectionAreaWidth:               70,
		DetectionAreaHeight:              70,
		PathSpacing:                      35,
	},
	"Normal": {
		PostPlantDelay:                   2.0,
		FieldRecenterWait:                1.5,
		PopupCloseWait:                   1.0,
		MainScreenRetryWait:              2.0,
		CycleErrorWait:                   5.0,
		SiloPopupWait:                    1.0,
		ScreenshotRetryWait:              2.0,
		MarketCheckInterval:              1.5,
		HarvestStartDelayMin:             0.3,
		HarvestStartDelayMax:             0.6,
		HarvestToolPressDelayMin:         0.08,
		HarvestToolPressDelayMax:         0.15,
		HarvestMoveDelayMin:              0.08,
		HarvestMoveDelayMax:              0.15,
		HarvestFieldMoveDelayMin:         0.08,
		HarvestFieldMoveDelayMax:         0.15,
		PlantStartDelayMin:               0.3,
		PlantStartDelayMax:               0.6,
		PlantToolPressDelayMin:           0.08,
		PlantToolPressDelayMax:           0.15,
		PlantMoveDelayMin:                0.08,
		PlantMoveDelayMax:                0.15,
		PlantFieldMoveDelayMin:           0.08,
		PlantFieldMoveDelayMax:           0.15,
		PathRandomizationPixels:          3,
		ContinuousDragDurationPerSegment: 50,
		DetectionAreaWidth:               90,
		DetectionAreaHeight:              90,
		PathSpacing:                      45,
	},
	"Safe": {
		PostPlantDelay:                   3.0,
		FieldRecenterWait:                2.5,
		PopupCloseWait:                   2.0,
		MainScreenRetryWait:              3.0,
		CycleErrorWait:                   8.0,
		SiloPopupWait:                    2.0,
		ScreenshotRetryWait:              3.0,
		MarketCheckInterval:              2.0,
		HarvestStartDelayMin:             0.5,
		HarvestStartDelayMax:             1.0,
		HarvestToolPressDelayMin:         0.15,
		HarvestToolPressDelayMax:         0.25,
		HarvestMoveDelayMin:              0.15,
		HarvestMoveDelayMax:              0.25,
		HarvestFieldMoveDelayMin:         0.15,
		HarvestFieldMoveDelayMax:         0.25,
		PlantStartDelayMin:               0.5,
		PlantStartDelayMax:               1.0,
		PlantToolPressDelayMin:           0.15,
		PlantToolPressDelayMax:           0.25,
		PlantMoveDelayMin:                0.15,
		PlantMoveDelayMax:                0.25,
		PlantFieldMoveDelayMin:           0.15,
		PlantFieldMoveDelayMax:           0.25,
		PathRandomizationPixels:          5,
		ContinuousDragDurationPerSegment: 80,
		DetectionAreaWidth:               120,
		DetectionAreaHeight:              120,
		PathSpacing:                      60,
	},
}

// MarketPresetNames returns the market preset labels in display order, ending
// with PresetCustom.
func MarketPresetNames() []string {
	return []string{"Fast", "Normal", "Safe", PresetCustom}
}

// FarmingPresetNames returns the farming preset labels in display order, ending
// with PresetCustom.
func FarmingPresetNames() []string {
	return []string{"Lightning", "Fast", "Normal", "Safe", PresetCustom}
}

// ApplyMarketPreset overwrites t with the named preset.
// It reports false and leaves t untouched when the label has no table entry.
func ApplyMarketPreset(t *MarketTiming, label string) bool {
	values, ok := MarketPresets[label]
	if !ok {
		return false
	}
	*t = values
	return true
}

// ApplyFarmingPreset overwrites t with the named preset, keeping the current
// wheat growth time. It reports false and leaves t untouched when the label has
// no table entry.
func ApplyFarmingPreset(t *FarmingTiming, label string) bool {
	values, ok := FarmingPresets[label]
	if !ok {
		return false
	}
	growth := t.WheatGrowthTime
	*t = values
	t.WheatGrowthTime = growth
	return true
}

// MatchMarketPreset returns the label of the preset t equals, or PresetCustom.
func MatchMarketPreset(t MarketTiming) string {
	for _, name := range MarketPresetNames() {
		if values, ok := MarketPresets[name]; ok && values == t {
			return name
		}
	}
	return PresetCustom
}

// MatchFarmingPreset returns the label of the preset t equals, ignoring the
// wheat growth time, or PresetCustom.
func MatchFarmingPreset(t FarmingTiming) string {
	t.WheatGrowthTime = nil
	for _, name := range FarmingPresetNames() {
		if values, ok := FarmingPresets[name]; ok && values == t {
			return name
		}
	}
	return PresetCustom
}
