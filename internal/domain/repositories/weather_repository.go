package repositories

import (
	"context"

	"github.com/alfredhq/alfred/internal/domain/entities"
)

// WeatherRepository defines the interface for weather data operations.
// Locations are matched case-insensitively; implementations store them
// lower-cased.
type WeatherRepository interface {
	// GetByLocation retrieves the reading for a location
	GetByLocation(ctx context.Context, location string) (*entities.WeatherRecord, error)

	// GetByLocations retrieves the readings for multiple locations
	GetByLocations(ctx context.Context, locations []string) ([]*entities.WeatherRecord, error)

	// List retrieves the readings for every location
	List(ctx context.Context) ([]*entities.WeatherRecord, error)

	// Upsert creates or replaces the reading for a location
	Upsert(ctx context.Context, record *entities.WeatherRecord) error

	// Update replaces the reading for an existing location
	Update(ctx context.Context, record *entities.WeatherRecord) error

	// Delete deletes the reading for a location
	Delete(ctx context.Context, location string) error

	// Statistics aggregates readings across all locations
	Statistics(ctx context.Context) (*entities.WeatherStatistics, error)

	// Extremes returns the locations holding extreme readings
	Extremes(ctx context.Context) (*entities.WeatherExtremes, error)
}
