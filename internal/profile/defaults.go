package profile

const (
	// GamePackageName is the Android package of the game.
	GamePackageName = "com.supercell.hayday"
	// DefaultWaitTimeAfterAction is the post-action wait in seconds.
	DefaultWaitTimeAfterAction = 2.0
	// DefaultDetectionInterval is the detector loop interval in seconds.
	DefaultDetectionInterval = 1.0
	// DefaultMarketCycleInterval is the market cycle interval in seconds.
	DefaultMarketCycleInterval = 10
	// DefaultPriceOption is the pricing strategy of new profiles.
	DefaultPriceOption = PriceHigh
	// DefaultMarketPreset names the market preset new profiles start from.
	DefaultMarketPreset = "Fast"
	// DefaultFarmingPreset names the farming preset new profiles start from.
	DefaultFarmingPreset = "Fast"
)

// Default returns a profile with every numeric field at its documented default.
// The field zone is unset and no template is enabled, so the result does not
// validate until the operator supplies a polygon.
func Default() *Profile {
	return &Profile{
		FieldZone: FieldZone{Polygon: nil},
		NavigationDecoration: NavigationDecoration{
			Decoration: "",
			Offset:     0,
		},
		ToolOffsets: ToolOffsets{},
		DetectionSettings: DetectionSettings{
			DetectionInterval: DefaultDetectionInterval,
		},
		TemplateThresholds: TemplateThresholds{
			Templates: map[string]float64{},
		},
		GameSettings: GameSettings{
			PackageName:         GamePackageName,
			WaitTimeAfterAction: DefaultWaitTimeAfterAction,
		},
		PriceSettings: PriceSettings{
			PriceOption: DefaultPriceOption,
		},
		MarketTiming:  MarketPresets[DefaultMarketPreset],
		FarmingTiming: FarmingPresets[DefaultFarmingPreset],
		CycleSettings: CycleSettings{
			MarketCycleInterval: DefaultMarketCycleInterval,
		},
	}
}
