package services

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alfredhq/alfred/internal/domain/entities"
	"github.com/alfredhq/alfred/internal/domain/repositories"
	apperrors "github.com/alfredhq/alfred/pkg/errors"
)

// WeatherService handles weather readings, simulation and forecasting
type WeatherService struct {
	repo repositories.WeatherRepository
}

// NewWeatherService creates a new weather service
func NewWeatherService(repo repositories.WeatherRepository) *WeatherService {
	return &WeatherService{repo: repo}
}

// GetByLocation retrieves the reading for a location
func (s *WeatherService) GetByLocation(ctx context.Context, location string) (*entities.WeatherRecord, error) {
	return s.repo.GetByLocation(ctx, location)
}

// GetByLocations retrieves the readings for multiple locations
func (s *WeatherService) GetByLocations(ctx context.Context, locations []string) ([]*entities.WeatherRecord, error) {
	if len(locations) == 0 {
		return nil, apperrors.NewValidationError("at least one location is required")
	}
	return s.repo.GetByLocations(ctx, locations)
}

// Upsert creates or replaces the reading for a location
func (s *WeatherService) Upsert(ctx context.Context, record *entities.WeatherRecord) error {
	if strings.TrimSpace(record.Location) == "" {
		return apperrors.NewValidationError("location is required")
	}
	record.Location = strings.ToLower(record.Location)
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Condition == "" {
		record.Condition = "Clear"
	}
	record.UpdatedAt = time.Now()
	return s.repo.Upsert(ctx, record)
}

// Update replaces the reading for an existing location
func (s *WeatherService) Update(ctx context.Context, record *entities.WeatherRecord) error {
	if strings.TrimSpace(record.Location) == "" {
		return apperrors.NewValidationError("location is required")
	}
	record.Location = strings.ToLower(record.Location)
	record.UpdatedAt = time.Now()
	return s.repo.Update(ctx, record)
}

// Delete deletes the reading for a location
func (s *WeatherService) Delete(ctx context.Context, location string) error {
	return s.repo.Delete(ctx, location)
}

// Simulate perturbs the stored reading for a location, persists the result
// and returns it. Unseeded locations are not fabricated.
func (s *WeatherService) Simulate(ctx context.Context, location string) (*entities.WeatherRecord, error) {
	baseline, err := s.repo.GetByLocation(ctx, location)
	if err != nil {
		return nil, err
	}

	simulated := perturb(baseline)
	if err := s.repo.Update(ctx, simulated); err != nil {
		return nil, err
	}

	return simulated, nil
}

// Forecast derives a multi-day forecast from the stored baseline for a
// location. Each day is perturbed independently from the same baseline;
// dates run from tomorrow.
func (s *WeatherService) Forecast(ctx context.Context, location string, days int) ([]*entities.ForecastEntry, error) {
	if days <= 0 {
		days = 5
	}
	if days > 14 {
		return nil, apperrors.NewValidationError("forecast is limited to 14 days")
	}

	baseline, err := s.repo.GetByLocation(ctx, location)
	if err != nil {
		return nil, err
	}

	entries := make([]*entities.ForecastEntry, days)
	for i := 0; i < days; i++ {
		day := perturb(baseline)
		entries[i] = &entities.ForecastEntry{
			Date:        time.Now().AddDate(0, 0, i+1).Format("2006-01-02"),
			Temperature: day.Temperature,
			WindSpeed:   day.WindSpeed,
			Condition:   day.Condition,
			Humidity:    day.Humidity,
			Pressure:    day.Pressure,
		}
	}

	return entries, nil
}

// Statistics aggregates readings across all locations
func (s *WeatherService) Statistics(ctx context.Context) (*entities.WeatherStatistics, error) {
	return s.repo.Statistics(ctx)
}

// Extremes returns the locations holding extreme readings
func (s *WeatherService) Extremes(ctx context.Context) (*entities.WeatherExtremes, error) {
	return s.repo.Extremes(ctx)
}

// perturb derives a new reading from a baseline: temperature shifts up to
// ±4, wind up to ±3 floored at 0, humidity up to ±7.5 clamped to [0,100],
// pressure up to ±5, and the condition is drawn uniformly.
func perturb(baseline *entities.WeatherRecord) *entities.WeatherRecord {
	humidity := baseline.Humidity + symmetricDelta(7.5)
	if humidity < 0 {
		humidity = 0
	}
	if humidity > 100 {
		humidity = 100
	}

	wind := baseline.WindSpeed + symmetricDelta(3)
	if wind < 0 {
		wind = 0
	}

	return &entities.WeatherRecord{
		ID:          baseline.ID,
		Location:    baseline.Location,
		Temperature: baseline.Temperature + symmetricDelta(4),
		WindSpeed:   wind,
		Condition:   entities.WeatherConditions[rand.Intn(len(entities.WeatherConditions))],
		Humidity:    humidity,
		Pressure:    baseline.Pressure + symmetricDelta(5),
		UpdatedAt:   time.Now(),
	}
}

// symmetricDelta returns a uniform value in [-magnitude, +magnitude]
func symmetricDelta(magnitude float64) float64 {
	return (rand.Float64()*2 - 1) * magnitude
}
