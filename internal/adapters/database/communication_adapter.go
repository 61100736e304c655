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
	"github.com/lib/pq"
)

var communicationColumns = []interface{}{
	"id", "type", "title", "content", "priority", "source",
	"project_id", "tags", "posted_at", "is_ai", "created_at", "updated_at",
}

// CommunicationAdapter implements CommunicationRepository
type CommunicationAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCommunicationAdapter creates a new communication adapter
func NewCommunicationAdapter(client *postgres.Client) repositories.CommunicationRepository {
	return &CommunicationAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new communication
func (a *CommunicationAdapter) Create(ctx context.Context, comm *entities.Communication) error {
	record := goqu.Record{
		"id":         comm.ID,
		"type":       comm.Type,
		"title":      comm.Title,
		"content":    comm.Content,
		"priority":   comm.Priority,
		"source":     comm.Source,
		"project_id": comm.ProjectID,
		"tags":       pq.Array(comm.Tags),
		"posted_at":  comm.PostedAt,
		"is_ai":      comm.IsAI,
		"created_at": comm.CreatedAt,
		"updated_at": comm.UpdatedAt,
	}

	query, args, err := a.db.Insert("communications").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create communication", err)
	}

	return nil
}

// GetByID retrieves a communication by ID
func (a *CommunicationAdapter) GetByID(ctx context.Context, id string) (*entities.Communication, error) {
	query, args, err := a.db.Select(communicationColumns...).
		From("communications").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	comm, err := a.scanCommunication(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("communication with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get communication", err)
	}

	return comm, nil
}

// Update updates a communication
func (a *CommunicationAdapter) Update(ctx context.Context, comm *entities.Communication) error {
	comm.UpdatedAt = time.Now()

	record := goqu.Record{
		"type":       comm.Type,
		"title":      comm.Title,
		"content":    comm.Content,
		"priority":   comm.Priority,
		"source":     comm.Source,
		"project_id": comm.ProjectID,
		"tags":       pq.Array(comm.Tags),
		"is_ai":      comm.IsAI,
		"updated_at": comm.UpdatedAt,
	}

	query, args, err := a.db.Update("communications").
		Set(record).
		Where(goqu.Ex{"id": comm.ID}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update communication", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("communication with id %s not found", comm.ID))
	}

	return nil
}

// Delete deletes a communication
func (a *CommunicationAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("communications").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete communication", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("communication with id %s not found", id))
	}

	return nil
}

// List retrieves communications with filters, newest posted first
func (a *CommunicationAdapter) List(ctx context.Context, filter repositories.CommunicationFilter) ([]*entities.Communication, error) {
	ds := a.db.Select(communicationColumns...).From("communications")

	if filter.Type != "" {
		ds = ds.Where(goqu.Ex{"type": filter.Type})
	}
	if filter.Priority != "" {
		ds = ds.Where(goqu.Ex{"priority": filter.Priority})
	}
	if filter.ProjectID != "" {
		ds = ds.Where(goqu.Ex{"project_id": filter.ProjectID})
	}
	if filter.Source != "" {
		ds = ds.Where(goqu.Ex{"source": filter.Source})
	}

	ds = ds.Order(goqu.I("posted_at").Desc())

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	return a.queryCommunications(ctx, query, args...)
}

// Search matches the term against title, content and tags
func (a *CommunicationAdapter) Search(ctx context.Context, term string) ([]*entities.Communication, error) {
	pattern := fmt.Sprintf("%%%s%%", term)

	ds := a.db.Select(communicationColumns...).
		From("communications").
		Where(goqu.Or(
			goqu.I("title").ILike(pattern),
			goqu.I("content").ILike(pattern),
			goqu.L("EXISTS (SELECT 1 FROM unnest(tags) t WHERE t ILIKE ?)", pattern),
		)).
		Order(goqu.I("posted_at").Desc())

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build search query", err)
	}

	return a.queryCommunications(ctx, query, args...)
}

func (a *CommunicationAdapter) queryCommunications(ctx context.Context, query string, args ...interface{}) ([]*entities.Communication, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query communications", err)
	}
	defer rows.Close()

	var comms []*entities.Communication
	for rows.Next() {
		comm, err := a.scanCommunication(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan communication", err)
		}
		comms = append(comms, comm)
	}

	if err = rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating communications", err)
	}

	return comms, nil
}

func (a *CommunicationAdapter) scanCommunication(row rowScanner) (*entities.Communication, error) {
	comm := &entities.Communication{}

	err := row.Scan(
		&comm.ID,
		&comm.Type,
		&comm.Title,
		&comm.Content,
		&comm.Priority,
		&comm.Source,
		&comm.ProjectID,
		pq.Array(&comm.Tags),
		&comm.PostedAt,
		&comm.IsAI,
		&comm.CreatedAt,
		&comm.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return comm, nil
}
