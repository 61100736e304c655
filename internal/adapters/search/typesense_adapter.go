package search

import (
	"context"
	"fmt"
	"time"

	"github.com/alfredhq/alfred/internal/domain/entities"
	"github.com/alfredhq/alfred/internal/domain/repositories"
	tsclient "github.com/alfredhq/alfred/internal/infrastructure/clients/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
)

// TypesenseAdapter implements communication search using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements CommunicationSearchRepository
var _ repositories.CommunicationSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// Index indexes a communication
func (a *TypesenseAdapter) Index(ctx context.Context, comm *entities.Communication) error {
	document := map[string]interface{}{
		"id":         comm.ID,
		"type":       string(comm.Type),
		"title":      comm.Title,
		"content":    comm.Content,
		"priority":   string(comm.Priority),
		"source":     string(comm.Source),
		"project_id": comm.ProjectID,
		"tags":       comm.Tags,
		"posted_at":  comm.PostedAt.Unix(),
	}

	_, err := a.client.Client().Collection(tsclient.CommunicationsCollection).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index communication: %w", err)
	}

	return nil
}

// Delete removes a communication from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(tsclient.CommunicationsCollection).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete communication from index: %w", err)
	}
	return nil
}

// Search searches communications by title, content and tags
func (a *TypesenseAdapter) Search(ctx context.Context, term string) ([]*entities.Communication, error) {
	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(term),
		QueryBy: pointer.String("title,content,tags"),
		SortBy:  pointer.String("posted_at:desc"),
		PerPage: pointer.Int(100),
	}

	result, err := a.client.Client().Collection(tsclient.CommunicationsCollection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search communications: %w", err)
	}

	comms := []*entities.Communication{}
	if result.Hits == nil {
		return comms, nil
	}

	for _, hit := range *result.Hits {
		doc := *hit.Document
		comms = append(comms, documentToCommunication(doc))
	}

	return comms, nil
}

// documentToCommunication reconstructs a partial entity from a Typesense hit.
// Typesense returns map[string]interface{} so every field is cast defensively.
func documentToCommunication(doc map[string]interface{}) *entities.Communication {
	comm := &entities.Communication{}

	if val, ok := doc["id"].(string); ok {
		comm.ID = val
	}
	if val, ok := doc["type"].(string); ok {
		comm.Type = entities.CommunicationType(val)
	}
	if val, ok := doc["title"].(string); ok {
		comm.Title = val
	}
	if val, ok := doc["content"].(string); ok {
		comm.Content = val
	}
	if val, ok := doc["priority"].(string); ok {
		comm.Priority = entities.CommunicationPriority(val)
	}
	if val, ok := doc["source"].(string); ok {
		comm.Source = entities.CommunicationSource(val)
		comm.IsAI = comm.Source == entities.CommunicationSourceAI
	}
	if val, ok := doc["project_id"].(string); ok {
		comm.ProjectID = val
	}
	if tags, ok := doc["tags"].([]interface{}); ok {
		for _, tag := range tags {
			if s, ok := tag.(string); ok {
				comm.Tags = append(comm.Tags, s)
			}
		}
	}
	if val, ok := doc["posted_at"].(float64); ok {
		comm.PostedAt = time.Unix(int64(val), 0)
	}

	return comm
}
