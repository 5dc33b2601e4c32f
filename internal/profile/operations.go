package profile

import "context"

// Info summarises a profile for listing and display.
type Info struct {
	Name          string      `json:"name"`
	Current       bool        `json:"current"`
	Valid         bool        `json:"valid"`
	Problems      []string    `json:"problems,omitempty"`
	PriceOption   PriceOption `json:"price_option"`
	MarketPreset  string      `json:"market_preset"`
	FarmingPreset string      `json:"farming_preset"`
	Templates     int         `json:"templates"`
	FieldArea     float64     `json:"field_area"`
	LoadError     string      `json:"load_error,omitempty"`
}

// Describe builds the Info of a loaded profile.
func Describe(name string, p *Profile, current string) Info {
	problems := Validate(p)
	info := Info{
		Name:          name,
		Current:       name == current,
		Valid:         len(problems) == 0,
		Problems:      problems,
		PriceOption:   p.PriceSettings.PriceOption,
		MarketPreset:  MatchMarketPreset(p.MarketTiming),
		FarmingPreset: MatchFarmingPreset(p.FarmingTiming),
		Templates:     len(p.TemplateThresholds.Templates),
	}
	if p.FieldZone.IsSet() {
		info.FieldArea = PolygonArea(p.FieldZone.Polygon)
	}
	return info
}

// ListInfo describes every stored profile. Profiles that fail to load are
// listed with LoadError set rather than aborting the listing.
func (m *Manager) ListInfo(ctx context.Context, current string) ([]Info, error) {
	names, err := m.List(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]Info, 0, len(names))
	for _, name := range names {
		p, err := m.Load(ctx, name)
		if err != nil {
			infos = append(infos, Info{
				Name:      name,
				Current:   name == current,
				LoadError: err.Error(),
			})
			continue
		}
		infos = append(infos, Describe(name, p, current))
	}
	return infos, nil
}
