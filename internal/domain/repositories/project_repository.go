package repositories

import (
	"context"

	"github.com/alfredhq/alfred/internal/domain/entities"
)

// ProjectFilter defines filters for listing projects
type ProjectFilter struct {
	Status string
	City   string
	State  string
}

// ProjectRepository defines the interface for project data operations
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *entities.Project) error

	// GetByID retrieves a project by ID
	GetByID(ctx context.Context, id string) (*entities.Project, error)

	// Update replaces mutable fields of a project
	Update(ctx context.Context, project *entities.Project) error

	// UpdateProgress sets only the progress field
	UpdateProgress(ctx context.Context, id string, progress int) (*entities.Project, error)

	// Delete deletes a project
	Delete(ctx context.Context, id string) error

	// List retrieves projects matching the filter, newest first
	List(ctx context.Context, filter ProjectFilter) ([]*entities.Project, error)

	// Statistics aggregates the portfolio
	Statistics(ctx context.Context) (*entities.ProjectStatistics, error)
}
