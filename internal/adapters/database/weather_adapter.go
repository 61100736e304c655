package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/alfredhq/alfred/internal/domain/entities"
	"github.com/alfredhq/alfred/internal/domain/repositories"
	"github.com/alfredhq/alfred/internal/infrastructure/clients/postgres"
	apperrors "github.com/alfredhq/alfred/pkg/errors"
	"github.com/doug-martin/goqu/v9"
)

var weatherColumns = []interface{}{
	"id", "location", "temperature", "wind_speed", "condition",
	"humidity", "pressure", "updated_at",
}

// WeatherAdapter implements WeatherRepository. Locations are stored
// lower-cased so lookups are case-insensitive.
type WeatherAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewWeatherAdapter creates a new weather adapter
func NewWeatherAdapter(client *postgres.Client) repositories.WeatherRepository {
	return &WeatherAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByLocation retrieves the reading for a location
func (a *WeatherAdapter) GetByLocation(ctx context.Context, location string) (*entities.WeatherRecord, error) {
	query, args, err := a.db.Select(weatherColumns...).
		From("weather_data").
		Where(goqu.Ex{"location": strings.ToLower(location)}).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	record, err := a.scanWeather(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("weather data for %s not found", location))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get weather data", err)
	}

	return record, nil
}

// GetByLocations retrieves the readings for multiple locations. Locations
// without a reading are simply absent from the result.
func (a *WeatherAdapter) GetByLocations(ctx context.Context, locations []string) ([]*entities.WeatherRecord, error) {
	if len(locations) == 0 {
		return []*entities.WeatherRecord{}, nil
	}

	lowered := make([]string, len(locations))
	for i, loc := range locations {
		lowered[i] = strings.ToLower(loc)
	}

	query, args, err := a.db.Select(weatherColumns...).
		From("weather_data").
		Where(goqu.Ex{"location": lowered}).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get weather data", err)
	}
	defer rows.Close()

	var records []*entities.WeatherRecord
	for rows.Next() {
		record, err := a.scanWeather(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan weather data", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating weather data", err)
	}

	return records, nil
}

// List retrieves the readings for every location
func (a *WeatherAdapter) List(ctx context.Context) ([]*entities.WeatherRecord, error) {
	query, args, err := a.db.Select(weatherColumns...).
		From("weather_data").
		Order(goqu.I("location").Asc()).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list weather data", err)
	}
	defer rows.Close()

	var records []*entities.WeatherRecord
	for rows.Next() {
		record, err := a.scanWeather(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan weather data", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating weather data", err)
	}

	return records, nil
}

// Upsert creates or replaces the reading for a location
func (a *WeatherAdapter) Upsert(ctx context.Context, record *entities.WeatherRecord) error {
	record.Location = strings.ToLower(record.Location)
	record.UpdatedAt = time.Now()

	query, args, err := a.db.Insert("weather_data").
		Rows(goqu.Record{
			"id":          record.ID,
			"location":    record.Location,
			"temperature": record.Temperature,
			"wind_speed":  record.WindSpeed,
			"condition":   record.Condition,
			"humidity":    record.Humidity,
			"pressure":    record.Pressure,
			"updated_at":  record.UpdatedAt,
		}).
		OnConflict(goqu.DoUpdate("location", goqu.Record{
			"temperature": record.Temperature,
			"wind_speed":  record.WindSpeed,
			"condition":   record.Condition,
			"humidity":    record.Humidity,
			"pressure":    record.Pressure,
			"updated_at":  record.UpdatedAt,
		})).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to upsert weather data", err)
	}

	return nil
}

// Update replaces the reading for an existing location
func (a *WeatherAdapter) Update(ctx context.Context, record *entities.WeatherRecord) error {
	record.Location = strings.ToLower(record.Location)
	record.UpdatedAt = time.Now()

	query, args, err := a.db.Update("weather_data").
		Set(goqu.Record{
			"temperature": record.Temperature,
			"wind_speed":  record.WindSpeed,
			"condition":   record.Condition,
			"humidity":    record.Humidity,
			"pressure":    record.Pressure,
			"updated_at":  record.UpdatedAt,
		}).
		Where(goqu.Ex{"location": record.Location}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update weather data", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("weather data for %s not found", record.Location))
	}

	return nil
}

// Delete deletes the reading for a location
func (a *WeatherAdapter) Delete(ctx context.Context, location string) error {
	query, args, err := a.db.Delete("weather_data").
		Where(goqu.Ex{"location": strings.ToLower(location)}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete weather data", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("weather data for %s not found", location))
	}

	return nil
}

// Statistics aggregates readings across all locations
func (a *WeatherAdapter) Statistics(ctx context.Context) (*entities.WeatherStatistics, error) {
	query := `SELECT
		COUNT(*),
		COALESCE(AVG(temperature), 0),
		COALESCE(AVG(humidity), 0),
		COALESCE(AVG(wind_speed), 0),
		COALESCE(AVG(pressure), 0)
	FROM weather_data`

	stats := &entities.WeatherStatistics{}
	err := a.client.DB().QueryRowContext(ctx, query).Scan(
		&stats.TotalLocations,
		&stats.AverageTemperature,
		&stats.AverageHumidity,
		&stats.AverageWindSpeed,
		&stats.AveragePressure,
	)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get weather statistics", err)
	}

	return stats, nil
}

// Extremes returns the locations holding extreme readings
func (a *WeatherAdapter) Extremes(ctx context.Context) (*entities.WeatherExtremes, error) {
	extremes := &entities.WeatherExtremes{}

	queries := []struct {
		sql    string
		target **entities.WeatherExtreme
	}{
		{`SELECT location, temperature FROM weather_data ORDER BY temperature DESC LIMIT 1`, &extremes.Hottest},
		{`SELECT location, temperature FROM weather_data ORDER BY temperature ASC LIMIT 1`, &extremes.Coldest},
		{`SELECT location, wind_speed FROM weather_data ORDER BY wind_speed DESC LIMIT 1`, &extremes.Windiest},
		{`SELECT location, humidity FROM weather_data ORDER BY humidity DESC LIMIT 1`, &extremes.Wettest},
	}

	for _, q := range queries {
		extreme := &entities.WeatherExtreme{}
		err := a.client.DB().QueryRowContext(ctx, q.sql).Scan(&extreme.Location, &extreme.Value)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, apperrors.NewInternalError("failed to get weather extremes", err)
		}
		*q.target = extreme
	}

	return extremes, nil
}

func (a *WeatherAdapter) scanWeather(row rowScanner) (*entities.WeatherRecord, error) {
	record := &entities.WeatherRecord{}

	err := row.Scan(
		&record.ID,
		&record.Location,
		&record.Temperature,
		&record.WindSpeed,
		&record.Condition,
		&record.Humidity,
		&record.Pressure,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return record, nil
}
