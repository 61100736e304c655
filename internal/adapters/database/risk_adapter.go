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

var riskColumns = []interface{}{
	"id", "project_id", "risk_type", "description", "impact",
	"probability", "mitigation", "status", "created_at", "updated_at",
}

// RiskAdapter implements RiskRepository
type RiskAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewRiskAdapter creates a new risk assessment adapter
func NewRiskAdapter(client *postgres.Client) repositories.RiskRepository {
	return &RiskAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new risk assessment
func (a *RiskAdapter) Create(ctx context.Context, risk *entities.RiskAssessment) error {
	record := goqu.Record{
		"id":          risk.ID,
		"project_id":  risk.ProjectID,
		"risk_type":   risk.RiskType,
		"description": risk.Description,
		"impact":      risk.Impact,
		"probability": risk.Probability,
		"mitigation":  risk.Mitigation,
		"status":      risk.Status,
		"created_at":  risk.CreatedAt,
		"updated_at":  risk.UpdatedAt,
	}

	query, args, err := a.db.Insert("risk_assessments").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create risk assessment", err)
	}

	return nil
}

// GetByID retrieves a risk assessment by ID
func (a *RiskAdapter) GetByID(ctx context.Context, id string) (*entities.RiskAssessment, error) {
	query, args, err := a.db.Select(riskColumns...).
		From("risk_assessments").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	risk, err := a.scanRisk(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("risk assessment with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get risk assessment", err)
	}

	return risk, nil
}

// Update updates a risk assessment
func (a *RiskAdapter) Update(ctx context.Context, risk *entities.RiskAssessment) error {
	risk.UpdatedAt = time.Now()

	record := goqu.Record{
		"project_id":  risk.ProjectID,
		"risk_type":   risk.RiskType,
		"description": risk.Description,
		"impact":      risk.Impact,
		"probability": risk.Probability,
		"mitigation":  risk.Mitigation,
		"status":      risk.Status,
		"updated_at":  risk.UpdatedAt,
	}

	query, args, err := a.db.Update("risk_assessments").
		Set(record).
		Where(goqu.Ex{"id": risk.ID}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update risk assessment", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("risk assessment with id %s not found", risk.ID))
	}

	return nil
}

// Delete deletes a risk assessment
func (a *RiskAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("risk_assessments").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete risk assessment", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("risk assessment with id %s not found", id))
	}

	return nil
}

// List retrieves risk assessments with filters, newest first
func (a *RiskAdapter) List(ctx context.Context, filter repositories.RiskFilter) ([]*entities.RiskAssessment, error) {
	ds := a.db.Select(riskColumns...).From("risk_assessments")

	if filter.Impact != "" {
		ds = ds.Where(goqu.Ex{"impact": filter.Impact})
	}
	if filter.Probability != "" {
		ds = ds.Where(goqu.Ex{"probability": filter.Probability})
	}
	if filter.Status != "" {
		ds = ds.Where(goqu.Ex{"status": filter.Status})
	}
	if filter.ProjectID != "" {
		ds = ds.Where(goqu.Ex{"project_id": filter.ProjectID})
	}

	ds = ds.Order(goqu.I("created_at").Desc())

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	return a.queryRisks(ctx, query, args...)
}

// ListHigh retrieves assessments with high or critical impact
func (a *RiskAdapter) ListHigh(ctx context.Context) ([]*entities.RiskAssessment, error) {
	ds := a.db.Select(riskColumns...).
		From("risk_assessments").
		Where(goqu.Ex{"impact": []string{
			string(entities.RiskImpactHigh),
			string(entities.RiskImpactCritical),
		}}).
		Order(goqu.I("created_at").Desc())

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build high-risk query", err)
	}

	return a.queryRisks(ctx, query, args...)
}

// Statistics aggregates risk assessments
func (a *RiskAdapter) Statistics(ctx context.Context) (*entities.RiskStatistics, error) {
	query := `SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE status = 'open'),
		COUNT(*) FILTER (WHERE impact IN ('high', 'critical')),
		COUNT(*) FILTER (WHERE status = 'mitigated')
	FROM risk_assessments`

	stats := &entities.RiskStatistics{}
	err := a.client.DB().QueryRowContext(ctx, query).Scan(
		&stats.TotalRisks,
		&stats.OpenRisks,
		&stats.HighRisks,
		&stats.MitigatedRisks,
	)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get risk statistics", err)
	}

	return stats, nil
}

func (a *RiskAdapter) queryRisks(ctx context.Context, query string, args ...interface{}) ([]*entities.RiskAssessment, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query risk assessments", err)
	}
	defer rows.Close()

	var risks []*entities.RiskAssessment
	for rows.Next() {
		risk, err := a.scanRisk(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan risk assessment", err)
		}
		risks = append(risks, risk)
	}

	if err = rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating risk assessments", err)
	}

	return risks, nil
}

func (a *RiskAdapter) scanRisk(row rowScanner) (*entities.RiskAssessment, error) {
	risk := &entities.RiskAssessment{}

	err := row.Scan(
		&risk.ID,
		&risk.ProjectID,
		&risk.RiskType,
		&risk.Description,
		&risk.Impact,
		&risk.Probability,
		&risk.Mitigation,
		&risk.Status,
		&risk.CreatedAt,
		&risk.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return risk, nil
}
