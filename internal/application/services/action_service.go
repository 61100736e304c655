package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alfredhq/alfred/internal/domain/entities"
	"github.com/alfredhq/alfred/internal/domain/repositories"
	apperrors "github.com/alfredhq/alfred/pkg/errors"
)

// ActionService handles business logic for action items and risk assessments
type ActionService struct {
	actionRepo repositories.ActionRepository
	riskRepo   repositories.RiskRepository
}

// NewActionService creates a new action service
func NewActionService(actionRepo repositories.ActionRepository, riskRepo repositories.RiskRepository) *ActionService {
	return &ActionService{
		actionRepo: actionRepo,
		riskRepo:   riskRepo,
	}
}

// CreateAction creates a new action item
func (s *ActionService) CreateAction(ctx context.Context, item *entities.ActionItem) error {
	if strings.TrimSpace(item.Title) == "" {
		return apperrors.NewValidationError("action title is required")
	}

	now := time.Now()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Status == "" {
		item.Status = entities.ActionStatusNew
	}
	if item.Priority == "" {
		item.Priority = entities.ActionPriorityMedium
	}
	if item.Type == "" {
		item.Type = entities.ActionTypeTask
	}
	item.CreatedAt = now
	item.UpdatedAt = now

	return s.actionRepo.Create(ctx, item)
}

// GetAction retrieves an action item by ID
func (s *ActionService) GetAction(ctx context.Context, id string) (*entities.ActionItem, error) {
	return s.actionRepo.GetByID(ctx, id)
}

// UpdateAction replaces mutable fields of an action item
func (s *ActionService) UpdateAction(ctx context.Context, item *entities.ActionItem) error {
	return s.actionRepo.Update(ctx, item)
}

// UpdateActionStatus sets only the status field. An unrecognized status value
// is a plain internal failure, not a validation rejection.
func (s *ActionService) UpdateActionStatus(ctx context.Context, id string, status entities.ActionStatus) (*entities.ActionItem, error) {
	if !entities.ValidActionStatus(status) {
		return nil, fmt.Errorf("invalid status value: %s", status)
	}
	return s.actionRepo.UpdateStatus(ctx, id, status)
}

// DeleteAction deletes an action item
func (s *ActionService) DeleteAction(ctx context.Context, id string) error {
	return s.actionRepo.Delete(ctx, id)
}

// ListActions retrieves action items matching the filter
func (s *ActionService) ListActions(ctx context.Context, filter repositories.ActionFilter) ([]*entities.ActionItem, error) {
	return s.actionRepo.List(ctx, filter)
}

// ListOverdueActions retrieves unresolved items past their due date
func (s *ActionService) ListOverdueActions(ctx context.Context) ([]*entities.ActionItem, error) {
	return s.actionRepo.ListOverdue(ctx)
}

// CreateRisk creates a new risk assessment
func (s *ActionService) CreateRisk(ctx context.Context, risk *entities.RiskAssessment) error {
	if strings.TrimSpace(risk.Description) == "" {
		return apperrors.NewValidationError("risk description is required")
	}

	now := time.Now()
	if risk.ID == "" {
		risk.ID = uuid.NewString()
	}
	if risk.Status == "" {
		risk.Status = entities.RiskStatusOpen
	}
	risk.CreatedAt = now
	risk.UpdatedAt = now

	return s.riskRepo.Create(ctx, risk)
}

// GetRisk retrieves a risk assessment by ID
func (s *ActionService) GetRisk(ctx context.Context, id string) (*entities.RiskAssessment, error) {
	return s.riskRepo.GetByID(ctx, id)
}

// UpdateRisk replaces mutable fields of a risk assessment
func (s *ActionService) UpdateRisk(ctx context.Context, risk *entities.RiskAssessment) error {
	return s.riskRepo.Update(ctx, risk)
}

// DeleteRisk deletes a risk assessment
func (s *ActionService) DeleteRisk(ctx context.Context, id string) error {
	return s.riskRepo.Delete(ctx, id)
}

// ListRisks retrieves risk assessments matching the filter
func (s *ActionService) ListRisks(ctx context.Context, filter repositories.RiskFilter) ([]*entities.RiskAssessment, error) {
	return s.riskRepo.List(ctx, filter)
}

// ListHighRisks retrieves assessments with high or critical impact
func (s *ActionService) ListHighRisks(ctx context.Context) ([]*entities.RiskAssessment, error) {
	return s.riskRepo.ListHigh(ctx)
}

// StatsOverview aggregates actions and risks into the combined overview
func (s *ActionService) StatsOverview(ctx context.Context) (*entities.ActionAndRiskStatistics, error) {
	actionStats, err := s.actionRepo.Statistics(ctx)
	if err != nil {
		return nil, err
	}

	riskStats, err := s.riskRepo.Statistics(ctx)
	if err != nil {
		return nil, err
	}

	return &entities.ActionAndRiskStatistics{
		Actions: *actionStats,
		Risks:   *riskStats,
	}, nil
}
