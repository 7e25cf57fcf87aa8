package airquality

// recommendation holds the fixed guidance texts and activity lists for one
// category. Texts follow the Polish air quality index health recommendations.
type recommendation struct {
	general     string
	sensitive   string
	suggested   []string
	discouraged []string
}

var recommendations = map[Category]recommendation{
	CategoryVeryGood: {
		general:   "Air quality is excellent. Perfect for outdoor activities!",
		sensitive: "No restrictions for any group.",
		suggested: []string{"running", "cycling", "outdoor sports", "walking"},
	},
	CategoryGood: {
		general:   "Air quality is good. Enjoy outdoor activities.",
		sensitive: "No restrictions for any group.",
		suggested: []string{"running", "cycling", "outdoor sports", "walking"},
	},
	CategoryModerate: {
		general:     "Air quality is acceptable. Consider reducing intense outdoor exercise.",
		sensitive:   "Sensitive groups should limit prolonged outdoor exertion.",
		suggested:   []string{"walking", "light outdoor activity"},
		discouraged: []string{"prolonged exertion", "intense outdoor exercise"},
	},
	CategorySufficient: {
		general:     "Air quality is sufficient. Reduce outdoor activities.",
		sensitive:   "Sensitive groups should avoid outdoor exertion.",
		suggested:   []string{"short errands", "indoor exercise"},
		discouraged: []string{"outdoor sports", "long walks"},
	},
	CategoryBad: {
		general:     "Air quality is bad. Avoid outdoor activities. Keep windows closed.",
		sensitive:   "Sensitive groups should stay indoors.",
		suggested:   []string{"indoor activities"},
		discouraged: []string{"any outdoor activity"},
	},
	CategoryVeryBad: {
		general:     "Air quality is very bad. Stay indoors. Use air purifier if available.",
		sensitive:   "Everyone should stay indoors and avoid exertion.",
		suggested:   []string{"remaining indoors"},
		discouraged: []string{"going outside", "any exertion"},
	},
}

// AdvisoryFor builds the advisory for a classification. Total over the
// category enumeration, so it has no failure mode of its own.
func AdvisoryFor(c Classification) Advisory {
	rec := recommendations[c.Category]
	return Advisory{
		City:        c.City,
		Category:    c.Category,
		General:     rec.general,
		Sensitive:   rec.sensitive,
		Suggested:   rec.suggested,
		Discouraged: rec.discouraged,
	}
}
