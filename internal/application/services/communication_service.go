package services

import (
	"fmt"
	"strings"
	"time"

	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/alfredhq/alfred/internal/domain/entities"
	"github.com/alfredhq/alfred/internal/domain/repositories"
	apperrors "github.com/alfredhq/alfred/pkg/errors"
)

// CommunicationService handles business logic for communications
type CommunicationService struct {
	repo       repositories.CommunicationRepository
	searchRepo repositories.CommunicationSearchRepository
}

// NewCommunicationService creates a new communication service. searchRepo may
// be nil, in which case search falls back to the database.
func NewCommunicationService(repo repositories.CommunicationRepository, searchRepo repositories.CommunicationSearchRepository) *CommunicationService {
	return &CommunicationService{
		repo:       repo,
		searchRepo: searchRepo,
	}
}

// Create creates a new communication and indexes it
func (s *CommunicationService) Create(ctx context.Context, comm *entities.Communication) error {
	if strings.TrimSpace(comm.Title) == "" {
		return apperrors.NewValidationError("communication title is required")
	}

	now := time.Now()
	if comm.ID == "" {
		comm.ID = uuid.NewString()
	}
	if comm.Priority == "" {
		comm.Priority = entities.CommunicationPriorityNormal
	}
	if comm.Source == "" {
		comm.Source = entities.CommunicationSourceSystem
	}
	if comm.Tags == nil {
		comm.Tags = []string{}
	}
	if comm.PostedAt.IsZero() {
		comm.PostedAt = now
	}
	comm.IsAI = comm.Source == entities.CommunicationSourceAI
	comm.CreatedAt = now
	comm.UpdatedAt = now

	if err := s.repo.Create(ctx, comm); err != nil {
		return err
	}

	s.index(ctx, comm)
	return nil
}

// CreateAIInsight synthesizes a communication entry from an AI insight
func (s *CommunicationService) CreateAIInsight(ctx context.Context, projectID, insightType, message string) (*entities.Communication, error) {
	if strings.TrimSpace(message) == "" {
		return nil, apperrors.NewValidationError("insight message is required")
	}
	if insightType == "" {
		insightType = "general"
	}

	comm := &entities.Communication{
		Type:      entities.CommunicationTypeInsight,
		Title:     fmt.Sprintf("AI Insight: %s", insightType),
		Content:   message,
		Priority:  entities.CommunicationPriorityHigh,
		Source:    entities.CommunicationSourceAI,
		ProjectID: projectID,
		Tags:      []string{"ai", "insight", insightType},
	}

	if err := s.Create(ctx, comm); err != nil {
		return nil, err
	}
	return comm, nil
}

// GetByID retrieves a communication by ID
func (s *CommunicationService) GetByID(ctx context.Context, id string) (*entities.Communication, error) {
	return s.repo.GetByID(ctx, id)
}

// Update updates a communication and refreshes its index entry
func (s *CommunicationService) Update(ctx context.Context, comm *entities.Communication) error {
	comm.IsAI = comm.Source == entities.CommunicationSourceAI

	if err := s.repo.Update(ctx, comm); err != nil {
		return err
	}

	s.index(ctx, comm)
	return nil
}

// Delete deletes a communication and removes it from the index
func (s *CommunicationService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.searchRepo != nil {
		if err := s.searchRepo.Delete(ctx, id); err != nil {
			log.Warn().Err(err).Str("communication_id", id).Msg("failed to delete communication from search index")
		}
	}
	return nil
}

// List retrieves communications matching the filter
func (s *CommunicationService) List(ctx context.Context, filter repositories.CommunicationFilter) ([]*entities.Communication, error) {
	return s.repo.List(ctx, filter)
}

// ListAIInsights retrieves AI-sourced communications
func (s *CommunicationService) ListAIInsights(ctx context.Context) ([]*entities.Communication, error) {
	return s.repo.List(ctx, repositories.CommunicationFilter{Source: string(entities.CommunicationSourceAI)})
}

// Search searches communications via the search engine when configured,
// falling back to the database on absence or failure
func (s *CommunicationService) Search(ctx context.Context, term string) ([]*entities.Communication, error) {
	if s.searchRepo != nil {
		results, err := s.searchRepo.Search(ctx, term)
		if err == nil {
			return results, nil
		}
		log.Warn().Err(err).Str("term", term).Msg("search engine query failed, falling back to database")
	}
	return s.repo.Search(ctx, term)
}

// index writes to the search engine best-effort (eventual consistency)
func (s *CommunicationService) index(ctx context.Context, comm *entities.Communication) {
	if s.searchRepo == nil {
		return
	}
	if err := s.searchRepo.Index(ctx, comm); err != nil {
		log.Warn().Err(err).Str("communication_id", comm.ID).Msg("failed to index communication")
	}
}
