package profile

import "testing"

func TestApplyMarketPreset(t *testing.T) {
	for _, name := range []string{"Fast", "Normal", "Safe"} {
		t.Run(name, func(t *testing.T) {
			p := Default()
			p.MarketTiming.EscapeWait = 4.2
			if !ApplyMarketPreset(&p.MarketTiming, name) {
				t.Fatalf("ApplyMarketPreset(%q) = false", name)
			}
			if p.MarketTiming != MarketPresets[name] {
				t.Errorf("market timing = %+v, want %+v", p.MarketTiming, MarketPresets[name])
			}
			if got := MatchMarketPreset(p.MarketTiming); got != name {
				t.Errorf("MatchMarketPreset() = %q, want %q", got, name)
			}
		})
	}
}

func TestApplyMarketPreset_Custom(t *testing.T) {
	timing := MarketPresets["Safe"]
	timing.PriceSetWait = 3.3
	before := timing

	if ApplyMarketPreset(&timing, PresetCustom) {
		t.Error("expected Custom to be a no-op")
	}
	if timing != before {
		t.Errorf("timing changed: %+v", timing)
	}
	if got := MatchMarketPreset(timing); got != PresetCustom {
		t.Errorf("MatchMarketPreset() = %q, want %q", got, PresetCustom)
	}
}

func TestApplyFarmingPreset_NoResidue(t *testing.T) {
	p := Default()
	if !ApplyFarmingPreset(&p.FarmingTiming, "Fast") {
		t.Fatal("ApplyFarmingPreset(Fast) = false")
	}
	if !ApplyFarmingPreset(&p.FarmingTiming, "Normal") {
		t.Fatal("ApplyFarmingPreset(Normal) = false")
	}

	if p.FarmingTiming != FarmingPresets["Normal"] {
		t.Errorf("farming timing = %+v, want Normal preset exactly", p.FarmingTiming)
	}
}

func TestApplyFarmingPreset_KeepsWheatGrowthTime(t *testing.T) {
	p := Default()
	growth := 150.0
	p.FarmingTiming.WheatGrowthTime = &growth

	for _, name := range []string{"Lightning", "Safe"} {
		if !ApplyFarmingPreset(&p.FarmingTiming, name) {
			t.Fatalf("ApplyFarmingPreset(%q) = false", name)
		}
		if p.FarmingTiming.WheatGrowthTime == nil || *p.FarmingTiming.WheatGrowthTime != 150.0 {
			t.Errorf("%s: wheat growth time = %v, want 150", name, p.FarmingTiming.WheatGrowthTime)
		}
		if got := MatchFarmingPreset(p.FarmingTiming); got != name {
			t.Errorf("MatchFarmingPreset() = %q, want %q", got, name)
		}
		if p.FarmingTiming.PathSpacing != FarmingPresets[name].PathSpacing {
			t.Errorf("%s: path spacing = %d", name, p.FarmingTiming.PathSpacing)
		}
	}
}

func TestMatchFarmingPreset_Custom(t *testing.T) {
	timing := FarmingPresets["Normal"]
	timing.PathSpacing = 99
	if got := MatchFarmingPreset(timing); got != PresetCustom {
		t.Errorf("MatchFarmingPreset() = %q, want %q", got, PresetCustom)
	}
}

func TestPresetsAreValid(t *testing.T) {
	for _, market := range []string{"Fast", "Normal", "Safe"} {
		for _, farming := range []string{"Lightning", "Fast", "Normal", "Safe"} {
			p := validProfile()
			ApplyMarketPreset(&p.MarketTiming, market)
			ApplyFarmingPreset(&p.FarmingTiming, farming)
			if problems := Validate(p); len(problems) != 0 {
				t.Errorf("%s/%s: unexpected problems %v", market, farming, problems)
			}
		}
	}
}

func TestPresetNames(t *testing.T) {
	market := MarketPresetNames()
	if market[len(market)-1] != PresetCustom || len(market) != len(MarketPresets)+1 {
		t.Errorf("MarketPresetNames() = %v", market)
	}
	farming := FarmingPresetNames()
	if farming[len(farming)-1] != PresetCustom || len(farming) != len(FarmingPresets)+1 {
		t.Errorf("FarmingPresetNames() = %v", farming)
	}
}

func TestDefault_UsesFastPresets(t *testing.T) {
	p := Default()
	if got := MatchMarketPreset(p.MarketTiming); got != DefaultMarketPreset {
		t.Errorf("default market preset = %q", got)
	}
	if got := MatchFarmingPreset(p.FarmingTiming); got != DefaultFarmingPreset {
		t.Errorf("default farming preset = %q", got)
	}
	if p.FarmingTiming.WheatGrowthTime != nil {
		t.Error("expected unset wheat growth time")
	}
	if p.DetectionSettings.DetectionInterval != 1.0 {
		t.Errorf("detection interval = %v, want 1.0", p.DetectionSettings.DetectionInterval)
	}
	if p.PriceSettings.PriceOption != PriceHigh {
		t.Errorf("price option = %q, want high", p.PriceSettings.PriceOption)
	}
}
