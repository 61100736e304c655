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

var actionColumns = []interface{}{
	"id", "title", "description", "priority", "status", "due_date",
	"project_id", "type", "assigned_to", "created_at", "updated_at",
}

// ActionAdapter implements ActionRepository
type ActionAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewActionAdapter creates a new action item adapter
func NewActionAdapter(client *postgres.Client) repositories.ActionRepository {
	return &ActionAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new action item
func (a *ActionAdapter) Create(ctx context.Context, item *entities.ActionItem) error {
	record := goqu.Record{
		"id":          item.ID,
		"title":       item.Title,
		"description": item.Description,
		"priority":    item.Priority,
		"status":      item.Status,
		"due_date":    item.DueDate,
		"project_id":  item.ProjectID,
		"type":        item.Type,
		"assigned_to": sql.NullString{String: item.AssignedTo, Valid: item.AssignedTo != ""},
		"created_at":  item.CreatedAt,
		"updated_at":  item.UpdatedAt,
	}

	query, args, err := a.db.Insert("action_items").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create action item", err)
	}

	return nil
}

// GetByID retrieves an action item by ID
func (a *ActionAdapter) GetByID(ctx context.Context, id string) (*entities.ActionItem, error) {
	query, args, err := a.db.Select(actionColumns...).
		From("action_items").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	item, err := a.scanActionItem(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("action item with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get action item", err)
	}

	return item, nil
}

// Update updates an action item
func (a *ActionAdapter) Update(ctx context.Context, item *entities.ActionItem) error {
	item.UpdatedAt = time.Now()

	record := goqu.Record{
		"title":       item.Title,
		"description": item.Description,
		"priority":    item.Priority,
		"status":      item.Status,
		"due_date":    item.DueDate,
		"project_id":  item.ProjectID,
		"type":        item.Type,
		"assigned_to": sql.NullString{String: item.AssignedTo, Valid: item.AssignedTo != ""},
		"updated_at":  item.UpdatedAt,
	}

	query, args, err := a.db.Update("action_items").
		Set(record).
		Where(goqu.Ex{"id": item.ID}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update action item", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("action item with id %s not found", item.ID))
	}

	return nil
}

// UpdateStatus sets only the status field and returns the updated item
func (a *ActionAdapter) UpdateStatus(ctx context.Context, id string, status entities.ActionStatus) (*entities.ActionItem, error) {
	query, args, err := a.db.Update("action_items").
		Set(goqu.Record{
			"status":     status,
			"updated_at": time.Now(),
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to update action status", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("action item with id %s not found", id))
	}

	return a.GetByID(ctx, id)
}

// Delete deletes an action item
func (a *ActionAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("action_items").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete action item", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("action item with id %s not found", id))
	}

	return nil
}

// List retrieves action items with filters, earliest due first
func (a *ActionAdapter) List(ctx context.Context, filter repositories.ActionFilter) ([]*entities.ActionItem, error) {
	ds := a.db.Select(actionColumns...).From("action_items")

	if filter.Priority != "" {
		ds = ds.Where(goqu.Ex{"priority": filter.Priority})
	}
	if filter.Status != "" {
		ds = ds.Where(goqu.Ex{"status": filter.Status})
	}
	if filter.ProjectID != "" {
		ds = ds.Where(goqu.Ex{"project_id": filter.ProjectID})
	}
	if filter.Type != "" {
		ds = ds.Where(goqu.Ex{"type": filter.Type})
	}

	ds = ds.Order(goqu.I("due_date").Asc())

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	return a.queryActionItems(ctx, query, args...)
}

// ListOverdue retrieves unresolved items with a due date in the past
func (a *ActionAdapter) ListOverdue(ctx context.Context) ([]*entities.ActionItem, error) {
	ds := a.db.Select(actionColumns...).
		From("action_items").
		Where(
			goqu.I("due_date").Lt(time.Now()),
			goqu.I("status").Neq(entities.ActionStatusResolved),
		).
		Order(goqu.I("due_date").Asc())

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build overdue query", err)
	}

	return a.queryActionItems(ctx, query, args...)
}

// Statistics aggregates action items by status
func (a *ActionAdapter) Statistics(ctx context.Context) (*entities.ActionStatistics, error) {
	query := `SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE status = 'new'),
		COUNT(*) FILTER (WHERE status = 'in-progress'),
		COUNT(*) FILTER (WHERE status = 'resolved')
	FROM action_items`

	stats := &entities.ActionStatistics{}
	err := a.client.DB().QueryRowContext(ctx, query).Scan(
		&stats.TotalActions,
		&stats.NewActions,
		&stats.InProgressActions,
		&stats.ResolvedActions,
	)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get action statistics", err)
	}

	return stats, nil
}

func (a *ActionAdapter) queryActionItems(ctx context.Context, query string, args ...interface{}) ([]*entities.ActionItem, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query action items", err)
	}
	defer rows.Close()

	var items []*entities.ActionItem
	for rows.Next() {
		item, err := a.scanActionItem(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan action item", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating action items", err)
	}

	return items, nil
}

func (a *ActionAdapter) scanActionItem(row rowScanner) (*entities.ActionItem, error) {
	item := &entities.ActionItem{}
	var assignedTo sql.NullString

	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.Priority,
		&item.Status,
		&item.DueDate,
		&item.ProjectID,
		&item.Type,
		&assignedTo,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.AssignedTo = assignedTo.String

	return item, nil
}
