package airquality

// Category is the ordered air quality index category. Higher values are worse.
type Category int

const (
	CategoryVeryGood Category = iota
	CategoryGood
	CategoryModerate
	CategorySufficient
	CategoryBad
	CategoryVeryBad
)

// Categories lists all categories from best to worst.
var Categories = []Category{
	CategoryVeryGood,
	CategoryGood,
	CategoryModerate,
	CategorySufficient,
	CategoryBad,
	CategoryVeryBad,
}

var categoryNames = map[Category]string{
	CategoryVeryGood:   "Very Good",
	CategoryGood:       "Good",
	CategoryModerate:   "Moderate",
	CategorySufficient: "Sufficient",
	CategoryBad:        "Bad",
	CategoryVeryBad:    "Very Bad",
}

// Polish category names as used by the GIOŚ index.
var categoryNamesPL = map[Category]string{
	CategoryVeryGood:   "Bardzo dobry",
	CategoryGood:       "Dobry",
	CategoryModerate:   "Umiarkowany",
	CategorySufficient: "Dostateczny",
	CategoryBad:        "Zły",
	CategoryVeryBad:    "Bardzo zły",
}

var categoryColors = map[Category]string{
	CategoryVeryGood:   "#00FF00",
	CategoryGood:       "#00CC00",
	CategoryModerate:   "#FFFF00",
	CategorySufficient: "#FF9900",
	CategoryBad:        "#FF0000",
	CategoryVeryBad:    "#990000",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Unknown"
}

// NamePL returns the Polish name of the category.
func (c Category) NamePL() string {
	if name, ok := categoryNamesPL[c]; ok {
		return name
	}
	return "Nieznany"
}

// Color returns the fixed UI color for the category.
func (c Category) Color() string {
	if color, ok := categoryColors[c]; ok {
		return color
	}
	return "#808080"
}

// WorseThan reports whether c is a worse (higher-ordinal) category than other.
func (c Category) WorseThan(other Category) bool {
	return c > other
}
