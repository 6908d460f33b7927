package models

// City is a place shown on the weather dashboard.
type City struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" form:"name" gorm:"type:varchar(30);uniqueIndex;not null" validate:"required,max=30,slug"`
}

// Weather holds the values extracted from the upstream weather API.
type Weather struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Speed     float64 `json:"speed"`
	Clouds    int     `json:"clouds"`
	Humidity  int     `json:"humidity"`
	Icon      string  `json:"icon"`
}

// CityWeather is one dashboard entry.
type CityWeather struct {
	City    City    `json:"city"`
	Weather Weather `json:"weather"`
}

// WeatherResult is the outcome of a single city lookup.
type WeatherResult struct {
	City    City
	Weather Weather
	Err     error
}
