package repositories

import (
	"context"

	"github.com/alfredhq/alfred/internal/domain/entities"
)

// CommunicationFilter defines filters for listing communications
type CommunicationFilter struct {
	Type      string
	Priority  string
	ProjectID string
	Source    string
}

// CommunicationRepository defines the interface for communication data operations
type CommunicationRepository interface {
	// Create creates a new communication
	Create(ctx context.Context, comm *entities.Communication) error

	// GetByID retrieves a communication by ID
	GetByID(ctx context.Context, id string) (*entities.Communication, error)

	// Update replaces mutable fields of a communication
	Update(ctx context.Context, comm *entities.Communication) error

	// Delete deletes a communication
	Delete(ctx context.Context, id string) error

	// List retrieves communications matching the filter, newest posted first
	List(ctx context.Context, filter CommunicationFilter) ([]*entities.Communication, error)

	// Search matches the term against title, content and tags
	Search(ctx context.Context, term string) ([]*entities.Communication, error)
}

// CommunicationSearchRepository defines the interface for full-text
// communication search (e.g. Typesense)
type CommunicationSearchRepository interface {
	// Search searches communications
	Search(ctx context.Context, term string) ([]*entities.Communication, error)

	// Index indexes a communication
	Index(ctx context.Context, comm *entities.Communication) error

	// Delete removes a communication from the index
	Delete(ctx context.Context, id string) error
}
