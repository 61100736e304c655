package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alfredhq/alfred/internal/domain/entities"
	"github.com/alfredhq/alfred/internal/domain/repositories"
	apperrors "github.com/alfredhq/alfred/pkg/errors"
)

const panelsPerMW = 2400

// ProjectService handles business logic for projects
type ProjectService struct {
	repo repositories.ProjectRepository
}

// NewProjectService creates a new project service
func NewProjectService(repo repositories.ProjectRepository) *ProjectService {
	return &ProjectService{repo: repo}
}

// Create creates a new project, applying defaults for omitted fields
func (s *ProjectService) Create(ctx context.Context, project *entities.Project) error {
	if strings.TrimSpace(project.Name) == "" {
		return apperrors.NewValidationError("project name is required")
	}
	if project.Progress < 0 || project.Progress > 100 {
		return apperrors.NewValidationError("progress must be between 0 and 100")
	}

	now := time.Now()
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	if project.Status == "" {
		project.Status = entities.ProjectStatusActive
	}
	if project.Weather == (entities.WeatherSnapshot{}) {
		project.Weather = entities.DefaultWeatherSnapshot(now)
	}
	project.CreatedAt = now
	project.UpdatedAt = now

	return s.repo.Create(ctx, project)
}

// GetByID retrieves a project by ID
func (s *ProjectService) GetByID(ctx context.Context, id string) (*entities.Project, error) {
	return s.repo.GetByID(ctx, id)
}

// Update replaces mutable fields of a project
func (s *ProjectService) Update(ctx context.Context, project *entities.Project) error {
	if project.Progress < 0 || project.Progress > 100 {
		return apperrors.NewValidationError("progress must be between 0 and 100")
	}
	return s.repo.Update(ctx, project)
}

// UpdateProgress sets only the progress field and returns the updated project
func (s *ProjectService) UpdateProgress(ctx context.Context, id string, progress int) (*entities.Project, error) {
	if progress < 0 || progress > 100 {
		return nil, apperrors.NewValidationError("progress must be between 0 and 100")
	}
	return s.repo.UpdateProgress(ctx, id, progress)
}

// Delete deletes a project
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// List retrieves projects matching the filter
func (s *ProjectService) List(ctx context.Context, filter repositories.ProjectFilter) ([]*entities.Project, error) {
	return s.repo.List(ctx, filter)
}

// Statistics aggregates the portfolio
func (s *ProjectService) Statistics(ctx context.Context) (*entities.ProjectStatistics, error) {
	return s.repo.Statistics(ctx)
}

// Metrics computes the per-project summary for the metrics endpoint
func (s *ProjectService) Metrics(ctx context.Context, id string) (*entities.ProjectMetrics, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &entities.ProjectMetrics{
		TotalCapacity:  project.Capacity,
		Progress:       project.Progress,
		Deviation:      scheduleDeviation(project, time.Now()),
		CompletionDate: project.EndDate,
	}, nil
}

// NetworkOverview summarizes all sites for the dashboard network view
func (s *ProjectService) NetworkOverview(ctx context.Context) (*entities.NetworkOverview, error) {
	projects, err := s.repo.List(ctx, repositories.ProjectFilter{})
	if err != nil {
		return nil, err
	}

	stats := entities.NetworkStats{TotalProjects: len(projects)}
	regionCounts := make(map[string]int)
	progressSum := 0

	for _, p := range projects {
		if p.Status == entities.ProjectStatusActive {
			stats.ActiveSites++
		}
		stats.TotalCapacityMW += ParseCapacityMW(p.Capacity)
		progressSum += p.Progress
		if p.Location.State != "" {
			regionCounts[p.Location.State]++
		}
	}

	if len(projects) > 0 {
		stats.NetworkProgress = int(math.Round(float64(progressSum) / float64(len(projects))))
	}

	regional := make([]entities.RegionalSiteCount, 0, len(regionCounts))
	for state, count := range regionCounts {
		regional = append(regional, entities.RegionalSiteCount{State: state, Count: count})
	}

	return &entities.NetworkOverview{
		NetworkStats:         stats,
		RegionalDistribution: regional,
	}, nil
}

// Schematic generates the synthetic site layout for a project
func (s *ProjectService) Schematic(ctx context.Context, id string) (*entities.ProjectSchematic, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	totalPanels := int(ParseCapacityMW(project.Capacity) * panelsPerMW)
	if totalPanels == 0 {
		totalPanels = panelsPerMW
	}

	names := []string{"Array A", "Array B", "Array C", "Array D"}
	sections := make([]entities.SchematicSection, len(names))
	for i, name := range names {
		status := "planned"
		switch {
		case project.Progress >= (i+1)*25:
			status = "installed"
		case project.Progress > i*25:
			status = "in-progress"
		}
		sections[i] = entities.SchematicSection{
			ID:         fmt.Sprintf("%s-section-%d", project.ID, i+1),
			Name:       name,
			PanelCount: totalPanels / len(names),
			Status:     status,
		}
	}

	return &entities.ProjectSchematic{
		ProjectID:   project.ID,
		Name:        project.Name,
		Capacity:    project.Capacity,
		TotalPanels: totalPanels,
		Sections:    sections,
		GeneratedAt: time.Now().Format(time.RFC3339),
	}, nil
}

// scheduleDeviation compares actual progress to the progress implied by the
// project schedule. Dates that fail to parse yield "on schedule".
func scheduleDeviation(project *entities.Project, now time.Time) string {
	start, errStart := time.Parse("2006-01-02", project.StartDate)
	end, errEnd := time.Parse("2006-01-02", project.EndDate)
	if errStart != nil || errEnd != nil || !end.After(start) {
		return "on schedule"
	}

	elapsed := now.Sub(start).Hours()
	total := end.Sub(start).Hours()
	expected := int(math.Round(elapsed / total * 100))
	if expected < 0 {
		expected = 0
	}
	if expected > 100 {
		expected = 100
	}

	diff := project.Progress - expected
	switch {
	case diff > 0:
		return fmt.Sprintf("+%d%%", diff)
	case diff < 0:
		return fmt.Sprintf("%d%%", diff)
	default:
		return "on schedule"
	}
}

// ParseCapacityMW extracts the leading numeric megawatt figure from a capacity
// string such as "50MW" or "120.5 MW". Unparseable strings count as 0.
func ParseCapacityMW(capacity string) float64 {
	trimmed := strings.TrimSpace(capacity)
	end := 0
	for end < len(trimmed) && (trimmed[end] == '.' || (trimmed[end] >= '0' && trimmed[end] <= '9')) {
		end++
	}
	if end == 0 {
		return 0
	}
	value, err := strconv.ParseFloat(trimmed[:end], 64)
	if err != nil {
		return 0
	}
	return value
}
