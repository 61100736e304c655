package entities

import "time"

// ProjectStatus represents the lifecycle state of a construction project
type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "planning"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusOnHold    ProjectStatus = "on-hold"
)

// Coordinates is a latitude/longitude pair
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ProjectLocation describes where a project site is
type ProjectLocation struct {
	City        string      `json:"city"`
	State       string      `json:"state"`
	Coordinates Coordinates `json:"coordinates"`
}

// WeatherSnapshot is the last-known weather reading embedded in a project
type WeatherSnapshot struct {
	Temperature float64   `json:"temperature"`
	WindSpeed   float64   `json:"windSpeed"`
	Condition   string    `json:"condition"`
	Humidity    float64   `json:"humidity"`
	Pressure    float64   `json:"pressure"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DefaultWeatherSnapshot returns the snapshot a new project starts with
func DefaultWeatherSnapshot(now time.Time) WeatherSnapshot {
	return WeatherSnapshot{
		Temperature: 20,
		WindSpeed:   10,
		Condition:   "Clear",
		Humidity:    50,
		Pressure:    1013,
		UpdatedAt:   now,
	}
}

// Project represents a solar-energy construction site
type Project struct {
	ID        string          `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Location  ProjectLocation `json:"location"`
	Capacity  string          `json:"capacity" db:"capacity"`
	Progress  int             `json:"progress" db:"progress"`
	Status    ProjectStatus   `json:"status" db:"status"`
	StartDate string          `json:"startDate" db:"start_date"`
	EndDate   string          `json:"endDate" db:"end_date"`
	Weather   WeatherSnapshot `json:"weather"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}

// ProjectMetrics is the per-project summary returned by the metrics endpoint
type ProjectMetrics struct {
	TotalCapacity  string `json:"totalCapacity"`
	Progress       int    `json:"progress"`
	Deviation      string `json:"deviation"`
	CompletionDate string `json:"completionDate"`
}

// ProjectStatistics aggregates the whole project portfolio
type ProjectStatistics struct {
	TotalProjects     int     `json:"totalProjects"`
	ActiveProjects    int     `json:"activeProjects"`
	CompletedProjects int     `json:"completedProjects"`
	AverageProgress   float64 `json:"averageProgress"`
	TotalCapacityMW   float64 `json:"totalCapacity"`
}

// NetworkOverview summarizes the project network for the dashboard modal
type NetworkOverview struct {
	NetworkStats         NetworkStats        `json:"networkStats"`
	RegionalDistribution []RegionalSiteCount `json:"regionalDistribution"`
}

// NetworkStats holds headline figures across all sites
type NetworkStats struct {
	TotalProjects   int     `json:"totalProjects"`
	ActiveSites     int     `json:"activeSites"`
	TotalCapacityMW float64 `json:"totalCapacity"`
	NetworkProgress int     `json:"networkProgress"`
}

// RegionalSiteCount counts sites per state
type RegionalSiteCount struct {
	State string `json:"state"`
	Count int    `json:"count"`
}
