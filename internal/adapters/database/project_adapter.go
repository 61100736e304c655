package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alfredhq/alfred/internal/domain/entities"
	"github.com/alfredhq/alfred/internal/domain/repositories"
	"github.com/alfredhq/alfred/internal/infrastructure/clients/postgres"
	apperrors "github.com/alfredhq/alfred/pkg/errors"
	"github.com/doug-martin/goqu/v9"
)

var projectColumns = []interface{}{
	"id", "name", "city", "state", "lat", "lng", "capacity", "progress",
	"status", "start_date", "end_date",
	"weather_temperature", "weather_wind_speed", "weather_condition",
	"weather_humidity", "weather_pressure", "weather_updated_at",
	"created_at", "updated_at",
}

// ProjectAdapter implements ProjectRepository
type ProjectAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProjectAdapter creates a new project adapter
func NewProjectAdapter(client *postgres.Client) repositories.ProjectRepository {
	return &ProjectAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new project
func (a *ProjectAdapter) Create(ctx context.Context, project *entities.Project) error {
	record := goqu.Record{
		"id":                  project.ID,
		"name":                project.Name,
		"city":                project.Location.City,
		"state":               project.Location.State,
		"lat":                 project.Location.Coordinates.Lat,
		"lng":                 project.Location.Coordinates.Lng,
		"capacity":            project.Capacity,
		"progress":            project.Progress,
		"status":              project.Status,
		"start_date":          project.StartDate,
		"end_date":            project.EndDate,
		"weather_temperature": project.Weather.Temperature,
		"weather_wind_speed":  project.Weather.WindSpeed,
		"weather_condition":   project.Weather.Condition,
		"weather_humidity":    project.Weather.Humidity,
		"weather_pressure":    project.Weather.Pressure,
		"weather_updated_at":  project.Weather.UpdatedAt,
		"created_at":          project.CreatedAt,
		"updated_at":          project.UpdatedAt,
	}

	query, args, err := a.db.Insert("projects").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create project", err)
	}

	return nil
}

// GetByID retrieves a project by ID
func (a *ProjectAdapter) GetByID(ctx context.Context, id string) (*entities.Project, error) {
	query, args, err := a.db.Select(projectColumns...).
		From("projects").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	project, err := a.scanProject(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("project with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get project", err)
	}

	return project, nil
}

// Update updates a project
func (a *ProjectAdapter) Update(ctx context.Context, project *entities.Project) error {
	project.UpdatedAt = time.Now()

	record := goqu.Record{
		"name":                project.Name,
		"city":                project.Location.City,
		"state":               project.Location.State,
		"lat":                 project.Location.Coordinates.Lat,
		"lng":                 project.Location.Coordinates.Lng,
		"capacity":            project.Capacity,
		"progress":            project.Progress,
		"status":              project.Status,
		"start_date":          project.StartDate,
		"end_date":            project.EndDate,
		"weather_temperature": project.Weather.Temperature,
		"weather_wind_speed":  project.Weather.WindSpeed,
		"weather_condition":   project.Weather.Condition,
		"weather_humidity":    project.Weather.Humidity,
		"weather_pressure":    project.Weather.Pressure,
		"weather_updated_at":  project.Weather.UpdatedAt,
		"updated_at":          project.UpdatedAt,
	}

	query, args, err := a.db.Update("projects").
		Set(record).
		Where(goqu.Ex{"id": project.ID}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update project", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("project with id %s not found", project.ID))
	}

	return nil
}

// UpdateProgress sets only the progress field and returns the updated project
func (a *ProjectAdapter) UpdateProgress(ctx context.Context, id string, progress int) (*entities.Project, error) {
	query, args, err := a.db.Update("projects").
		Set(goqu.Record{
			"progress":   progress,
			"updated_at": time.Now(),
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to update project progress", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("project with id %s not found", id))
	}

	return a.GetByID(ctx, id)
}

// Delete deletes a project
func (a *ProjectAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("projects").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete project", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("project with id %s not found", id))
	}

	return nil
}

// List retrieves projects with filters, newest first
func (a *ProjectAdapter) List(ctx context.Context, filter repositories.ProjectFilter) ([]*entities.Project, error) {
	ds := a.db.Select(projectColumns...).From("projects")

	if filter.Status != "" {
		ds = ds.Where(goqu.Ex{"status": filter.Status})
	}
	if filter.City != "" {
		ds = ds.Where(goqu.I("city").ILike(filter.City))
	}
	if filter.State != "" {
		ds = ds.Where(goqu.I("state").ILike(filter.State))
	}

	ds = ds.Order(goqu.I("created_at").Desc())

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list projects", err)
	}
	defer rows.Close()

	var projects []*entities.Project
	for rows.Next() {
		project, err := a.scanProject(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan project", err)
		}
		projects = append(projects, project)
	}

	if err = rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating projects", err)
	}

	return projects, nil
}

// Statistics aggregates the project portfolio
func (a *ProjectAdapter) Statistics(ctx context.Context) (*entities.ProjectStatistics, error) {
	query := `SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE status = 'active'),
		COUNT(*) FILTER (WHERE status = 'completed'),
		COALESCE(AVG(progress), 0),
		COALESCE(SUM(NULLIF(regexp_replace(capacity, '[^0-9.]', '', 'g'), '')::float), 0)
	FROM projects`

	stats := &entities.ProjectStatistics{}
	err := a.client.DB().QueryRowContext(ctx, query).Scan(
		&stats.TotalProjects,
		&stats.ActiveProjects,
		&stats.CompletedProjects,
		&stats.AverageProgress,
		&stats.TotalCapacityMW,
	)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get project statistics", err)
	}

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (a *ProjectAdapter) scanProject(row rowScanner) (*entities.Project, error) {
	project := &entities.Project{}

	err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Location.City,
		&project.Location.State,
		&project.Location.Coordinates.Lat,
		&project.Location.Coordinates.Lng,
		&project.Capacity,
		&project.Progress,
		&project.Status,
		&project.StartDate,
		&project.EndDate,
		&project.Weather.Temperature,
		&project.Weather.WindSpeed,
		&project.Weather.Condition,
		&project.Weather.Humidity,
		&project.Weather.Pressure,
		&project.Weather.UpdatedAt,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return project, nil
}
