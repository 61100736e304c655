package entities

import "time"

// WeatherConditions are the recognized sky conditions, in simulation order
var WeatherConditions = []string{"Clear", "Partly Cloudy", "Cloudy", "Rain", "Snow", "Storm"}

// WeatherRecord is the current weather reading for a location. Location is the
// unique key and is stored lower-cased.
type WeatherRecord struct {
	ID          string    `json:"id" db:"id"`
	Location    string    `json:"location" db:"location"`
	Temperature float64   `json:"temperature" db:"temperature"`
	WindSpeed   float64   `json:"windSpeed" db:"wind_speed"`
	Condition   string    `json:"condition" db:"condition"`
	Humidity    float64   `json:"humidity" db:"humidity"`
	Pressure    float64   `json:"pressure" db:"pressure"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// ForecastEntry is one day of a generated forecast
type ForecastEntry struct {
	Date        string  `json:"date"`
	Temperature float64 `json:"temperature"`
	WindSpeed   float64 `json:"windSpeed"`
	Condition   string  `json:"condition"`
	Humidity    float64 `json:"humidity"`
	Pressure    float64 `json:"pressure"`
}

// WeatherStatistics aggregates readings across all locations
type WeatherStatistics struct {
	TotalLocations     int     `json:"totalLocations"`
	AverageTemperature float64 `json:"averageTemperature"`
	AverageHumidity    float64 `json:"averageHumidity"`
	AverageWindSpeed   float64 `json:"averageWindSpeed"`
	AveragePressure    float64 `json:"averagePressure"`
}

// WeatherExtreme identifies the location holding an extreme reading
type WeatherExtreme struct {
	Location string  `json:"location"`
	Value    float64 `json:"value"`
}

// WeatherExtremes collects the extreme conditions across the network
type WeatherExtremes struct {
	Hottest  *WeatherExtreme `json:"hottest"`
	Coldest  *WeatherExtreme `json:"coldest"`
	Windiest *WeatherExtreme `json:"windiest"`
	Wettest  *WeatherExtreme `json:"wettest"`
}
