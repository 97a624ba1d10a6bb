package domain

// WeatherReport is the normalized result of a current-conditions lookup.
// Temperature is in degrees Celsius.
type WeatherReport struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
}
