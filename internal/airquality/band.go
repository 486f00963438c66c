package airquality

// AQIBand is the colour tag used when an AQI value is rendered in a table.
type AQIBand string

const (
	BandGreen   AQIBand = "green"
	BandGold    AQIBand = "gold"
	BandOrange  AQIBand = "orange"
	BandVolcano AQIBand = "volcano"
	BandRed     AQIBand = "red"
	BandPurple  AQIBand = "purple"
)

// BandFor maps an AQI value onto its colour band. Upper bounds are inclusive.
func BandFor(aqi float64) AQIBand {
	switch {
	case aqi > 300:
		return BandPurple
	case aqi > 200:
		return BandRed
	case aqi > 150:
		return BandVolcano
	case aqi > 100:
		return BandOrange
	case aqi > 50:
		return BandGold
	default:
		return BandGreen
	}
}

// DefaultCategoryColor is used for categories outside the standard set,
// including UnknownCategory.
const DefaultCategoryColor = "#8884d8"

var categoryColors = map[string]string{
	CategoryGood:                        "#52c41a",
	CategoryModerate:                    "#faad14",
	CategoryUnhealthyForSensitiveGroups: "#fa8c16",
	CategoryUnhealthy:                   "#f5222d",
	CategoryVeryUnhealthy:               "#722ed1",
	CategoryHazardous:                   "#8c8c8c",
}

// CategoryColor returns the chart colour for a category label.
func CategoryColor(category string) string {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return DefaultCategoryColor
}
