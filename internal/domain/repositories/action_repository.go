package repositories

import (
	"context"

	"github.com/alfredhq/alfred/internal/domain/entities"
)

// ActionFilter defines filters for listing action items
type ActionFilter struct {
	Priority  string
	Status    string
	ProjectID string
	Type      string
}

// ActionRepository defines the interface for action item data operations
type ActionRepository interface {
	// Create creates a new action item
	Create(ctx context.Context, item *entities.ActionItem) error

	// GetByID retrieves an action item by ID
	GetByID(ctx context.Context, id string) (*entities.ActionItem, error)

	// Update replaces mutable fields of an action item
	Update(ctx context.Context, item *entities.ActionItem) error

	// UpdateStatus sets only the status field
	UpdateStatus(ctx context.Context, id string, status entities.ActionStatus) (*entities.ActionItem, error)

	// Delete deletes an action item
	Delete(ctx context.Context, id string) error

	// List retrieves action items matching the filter, earliest due first
	List(ctx context.Context, filter ActionFilter) ([]*entities.ActionItem, error)

	// ListOverdue retrieves unresolved items with a due date in the past
	ListOverdue(ctx context.Context) ([]*entities.ActionItem, error)

	// Statistics aggregates action items by status
	Statistics(ctx context.Context) (*entities.ActionStatistics, error)
}
