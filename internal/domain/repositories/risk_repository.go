package repositories

import (
	"context"

	"github.com/alfredhq/alfred/internal/domain/entities"
)

// RiskFilter defines filters for listing risk assessments
type RiskFilter struct {
	Impact      string
	Probability string
	Status      string
	ProjectID   string
}

// RiskRepository defines the interface for risk assessment data operations
type RiskRepository interface {
	// Create creates a new risk assessment
	Create(ctx context.Context, risk *entities.RiskAssessment) error

	// GetByID retrieves a risk assessment by ID
	GetByID(ctx context.Context, id string) (*entities.RiskAssessment, error)

	// Update replaces mutable fields of a risk assessment
	Update(ctx context.Context, risk *entities.RiskAssessment) error

	// Delete deletes a risk assessment
	Delete(ctx context.Context, id string) error

	// List retrieves risk assessments matching the filter, newest first
	List(ctx context.Context, filter RiskFilter) ([]*entities.RiskAssessment, error)

	// ListHigh retrieves assessments with high or critical impact
	ListHigh(ctx context.Context) ([]*entities.RiskAssessment, error)

	// Statistics aggregates risk assessments
	Statistics(ctx context.Context) (*entities.RiskStatistics, error)
}
