package airquality

// Banding selects how a concentration exactly on a threshold boundary is
// categorized. The official GIOŚ tables are ambiguous on this point, so the
// convention is a configuration constant rather than an assumption.
type Banding int

const (
	// BandingInclusive puts a boundary value into the better category
	// (value <= bound). This is the default.
	BandingInclusive Banding = iota

	// BandingExclusive puts a boundary value into the worse category
	// (value < bound).
	BandingExclusive
)

// thresholds holds, per pollutant, the upper concentration bound (µg/m³) of
// each category from VeryGood through Bad. Anything above the last bound is
// VeryBad. Values follow the Polish air quality index published by GIOŚ.
var thresholds = map[Pollutant][5]float64{
	PollutantPM25: {13, 35, 55, 75, 110},
	PollutantPM10: {20, 50, 80, 110, 150},
	PollutantNO2:  {40, 100, 150, 200, 400},
	PollutantSO2:  {50, 100, 200, 350, 500},
	PollutantO3:   {70, 120, 150, 180, 240},
	PollutantCO:   {3000, 7000, 11000, 15000, 21000},
}

// SubIndex maps a pollutant concentration to its per-pollutant category.
// The second return value is false for pollutant codes without a threshold
// table.
func SubIndex(p Pollutant, value float64, banding Banding) (Category, bool) {
	bounds, ok := thresholds[p]
	if !ok {
		return CategoryVeryBad, false
	}

	for i, bound := range bounds {
		if banding == BandingInclusive {
			if value <= bound {
				return Categories[i], true
			}
		} else {
			if value < bound {
				return Categories[i], true
			}
		}
	}
	return CategoryVeryBad, true
}
