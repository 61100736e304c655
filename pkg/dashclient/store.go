package dashclient

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/alfredhq/alfred/internal/domain/entities"
)

// ProjectFilter selects a projection of the project list
type ProjectFilter struct {
	Status string
	City   string
	State  string
}

// Matches reports whether a project passes the filter
func (f ProjectFilter) Matches(p *entities.Project) bool {
	if f.Status != "" && string(p.Status) != f.Status {
		return false
	}
	if f.City != "" && p.Location.City != f.City {
		return false
	}
	if f.State != "" && p.Location.State != f.State {
		return false
	}
	return true
}

// CommunicationFilter selects a projection of the communication list
type CommunicationFilter struct {
	ProjectID string
	Type      string
	Priority  string
}

// Matches reports whether a communication passes the filter
func (f CommunicationFilter) Matches(c *entities.Communication) bool {
	if f.ProjectID != "" && c.ProjectID != f.ProjectID {
		return false
	}
	if f.Type != "" && string(c.Type) != f.Type {
		return false
	}
	if f.Priority != "" && string(c.Priority) != f.Priority {
		return false
	}
	return true
}

// ActionFilter selects a projection of the action item list
type ActionFilter struct {
	Priority string
	Status   string
	Type     string
}

// Matches reports whether an action item passes the filter
func (f ActionFilter) Matches(a *entities.ActionItem) bool {
	if f.Priority != "" && string(a.Priority) != f.Priority {
		return false
	}
	if f.Status != "" && string(a.Status) != f.Status {
		return false
	}
	if f.Type != "" && string(a.Type) != f.Type {
		return false
	}
	return true
}

// Store holds the client's view of the backend state. A raw list per entity
// is always kept in sync with applied events; a filtered projection per
// entity is maintained alongside it. Missed events are not recovered
// automatically: the store only flags itself stale and the caller decides
// when to Load again.
type Store struct {
	mu sync.RWMutex

	projects         []entities.Project
	filteredProjects []entities.Project
	projectFilter    ProjectFilter

	communications         []entities.Communication
	filteredCommunications []entities.Communication
	communicationFilter    CommunicationFilter

	actions         []entities.ActionItem
	filteredActions []entities.ActionItem
	actionFilter    ActionFilter

	risks   []entities.RiskAssessment
	weather map[string]entities.WeatherRecord

	lastEventAt time.Time
	stale       bool
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		weather: make(map[string]entities.WeatherRecord),
	}
}

// Load replaces the store contents with fresh state from the API and clears
// the stale flag
func (s *Store) Load(ctx context.Context, client *Client) error {
	projects, err := client.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("loading projects: %w", err)
	}
	comms, err := client.ListCommunications(ctx)
	if err != nil {
		return fmt.Errorf("loading communications: %w", err)
	}
	actions, err := client.ListActions(ctx)
	if err != nil {
		return fmt.Errorf("loading actions: %w", err)
	}
	risks, err := client.ListRisks(ctx)
	if err != nil {
		return fmt.Errorf("loading risks: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = projects
	s.communications = comms
	s.actions = actions
	s.risks = risks
	s.refilterLocked()
	s.stale = false
	return nil
}

// SetProjectFilter sets the project projection filter and rebuilds it
func (s *Store) SetProjectFilter(f ProjectFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projectFilter = f
	s.refilterLocked()
}

// SetCommunicationFilter sets the communication projection filter and rebuilds it
func (s *Store) SetCommunicationFilter(f CommunicationFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.communicationFilter = f
	s.refilterLocked()
}

// SetActionFilter sets the action projection filter and rebuilds it
func (s *Store) SetActionFilter(f ActionFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actionFilter = f
	s.refilterLocked()
}

func (s *Store) refilterLocked() {
	s.filteredProjects = s.filteredProjects[:0]
	for _, p := range s.projects {
		if s.projectFilter.Matches(&p) {
			s.filteredProjects = append(s.filteredProjects, p)
		}
	}

	s.filteredCommunications = s.filteredCommunications[:0]
	for _, c := range s.communications {
		if s.communicationFilter.Matches(&c) {
			s.filteredCommunications = append(s.filteredCommunications, c)
		}
	}

	s.filteredActions = s.filteredActions[:0]
	for _, a := range s.actions {
		if s.actionFilter.Matches(&a) {
			s.filteredActions = append(s.filteredActions, a)
		}
	}
}

// Apply reconciles one pushed event into the store. Unknown topics are
// ignored so new server-side topics never break older clients.
func (s *Store) Apply(event *entities.DomainEvent) error {
	if event == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastEventAt = event.Timestamp
	if s.lastEventAt.IsZero() {
		s.lastEventAt = time.Now()
	}

	switch event.Topic {
	case entities.TopicProjectNew:
		var project entities.Project
		if err := json.Unmarshal(event.Payload, &project); err != nil {
			return fmt.Errorf("applying %s: %w", event.Topic, err)
		}
		s.projects = prepend(s.projects, project)
		if s.projectFilter.Matches(&project) {
			s.filteredProjects = prepend(s.filteredProjects, project)
		}

	case entities.TopicProjectUpdate:
		// Payload may be a full project or just {id, progress, updatedAt}
		updated, err := mergeByID(event.Payload, s.projects, func(p *entities.Project) string { return p.ID })
		if err != nil {
			return fmt.Errorf("applying %s: %w", event.Topic, err)
		}
		if updated != nil {
			replaceOrDrop(&s.filteredProjects, *updated,
				func(p *entities.Project) string { return p.ID },
				s.projectFilter.Matches)
		}

	case entities.TopicProjectDeleted:
		id, err := payloadID(event.Payload, "id")
		if err != nil {
			return fmt.Errorf("applying %s: %w", event.Topic, err)
		}
		s.projects = removeByID(s.projects, id, func(p *entities.Project) string { return p.ID })
		s.filteredProjects = removeByID(s.filteredProjects, id, func(p *entities.Project) string { return p.ID })

	case entities.TopicCommunicationNew, entities.TopicAIInsight:
		var comm entities.Communication
		if err := json.Unmarshal(event.Payload, &comm); err != nil {
			return fmt.Errorf("applying %s: %w", event.Topic, err)
		}
		s.communications = prepend(s.communications, comm)
		if s.communicationFilter.Matches(&comm) {
			s.filteredCommunications = prepend(s.filteredCommunications, comm)
		}

	case entities.TopicCommunicationUpdate:
		updated, err := mergeByID(event.Payload, s.communications, func(c *entities.Communication) string { return c.ID })
		if err != nil {
			return fmt.Errorf("applying %s: %w", event.Topic, err)
		}
		if updated != nil {
			replaceOrDrop(&s.filteredCommunications, *updated,
				func(c *entities.Communication) string { return c.ID },
				s.communicationFilter.Matches)
		}

	case entities.TopicCommunicationDeleted:
		id, err := payloadID(event.Payload, "id")
		if err != nil {
			return fmt.Errorf("applying %s: %w", event.Topic, err)
		}
		s.communications = removeByID(s.communications, id, func(c *entities.Communication) string { return c.ID })
		s.filteredCommunications = removeByID(s.filteredCommunications, id, func(c *entities.Communication) string { return c.ID })

	case entities.TopicActionNew:
		var item entities.ActionItem
		if err := json.Unmarshal(event.Payload, &item); err != nil {
			return fmt.Errorf("applying %s: %w", event.Topic, err)
		}
		s.actions = prepend(s.actions, item)
		if s.actionFilter.Matches(&item) {
			s.filteredActions = prepend(s.filteredActions, item)
		}

	case entities.TopicActionUpdate:
		updated, err := mergeByID(event.Payload, s.actions, func(a *entities.ActionItem) string { return a.ID })
		if err != nil {
			return fmt.Errorf("applying %s: %w", event.Topic, err)
		}
		if updated != nil {
			replaceOrDrop(&s.filteredActions, *updated,
				func(a *entities.ActionItem) string { return a.ID },
				s.actionFilter.Matches)
		}

	case entities.TopicActionDeleted:
		id, err := payloadID(event.Payload, "id")
		if err != nil {
			return fmt.Errorf("applying %s: %w", event.Topic, err)
		}
		s.actions = removeByID(s.actions, id, func(a *entities.ActionItem) string { return a.ID })
		s.filteredActions = removeByID(s.filteredActions, id, func(a *entities.ActionItem) string { return a.ID })

	case entities.TopicRiskNew:
		var risk entities.RiskAssessment
		if err := json.Unmarshal(event.Payload, &risk); err != nil {
			return fmt.Errorf("applying %s: %w", event.Topic, err)
		}
		s.risks = prepend(s.risks, risk)

	case entities.TopicRiskUpdate:
		if _, err := mergeByID(event.Payload, s.risks, func(r *entities.RiskAssessment) string { return r.ID }); err != nil {
			return fmt.Errorf("applying %s: %w", event.Topic, err)
		}

	case entities.TopicRiskDeleted:
		id, err := payloadID(event.Payload, "id")
		if err != nil {
			return fmt.Errorf("applying %s: %w", event.Topic, err)
		}
		s.risks = removeByID(s.risks, id, func(r *entities.RiskAssessment) string { return r.ID })

	case entities.TopicWeatherUpdate:
		var payload struct {
			Location string                 `json:"location"`
			Data     entities.WeatherRecord `json:"data"`
		}
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return fmt.Errorf("applying %s: %w", event.Topic, err)
		}
		if payload.Location != "" {
			payload.Data.Location = payload.Location
			s.weather[payload.Location] = payload.Data
		}

	case entities.TopicWeatherDeleted:
		location, err := payloadID(event.Payload, "location")
		if err != nil {
			return fmt.Errorf("applying %s: %w", event.Topic, err)
		}
		delete(s.weather, location)
	}

	return nil
}

// MarkStale flags that events may have been missed (stream disconnect)
func (s *Store) MarkStale() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stale = true
}

// Stale reports whether the store may have missed events since the last Load
func (s *Store) Stale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stale
}

// LastEventAt returns the timestamp of the most recently applied event
func (s *Store) LastEventAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastEventAt
}

// Projects returns a copy of the raw project list
func (s *Store) Projects() []entities.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.Project(nil), s.projects...)
}

// FilteredProjects returns a copy of the filtered project projection
func (s *Store) FilteredProjects() []entities.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.Project(nil), s.filteredProjects...)
}

// Communications returns a copy of the raw communication list
func (s *Store) Communications() []entities.Communication {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.Communication(nil), s.communications...)
}

// FilteredCommunications returns a copy of the filtered communication projection
func (s *Store) FilteredCommunications() []entities.Communication {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.Communication(nil), s.filteredCommunications...)
}

// Actions returns a copy of the raw action list
func (s *Store) Actions() []entities.ActionItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.ActionItem(nil), s.actions...)
}

// FilteredActions returns a copy of the filtered action projection
func (s *Store) FilteredActions() []entities.ActionItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.ActionItem(nil), s.filteredActions...)
}

// Risks returns a copy of the risk list
func (s *Store) Risks() []entities.RiskAssessment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.RiskAssessment(nil), s.risks...)
}

// Weather returns the last pushed reading for a location
func (s *Store) Weather(location string) (entities.WeatherRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.weather[location]
	return record, ok
}

// payloadID extracts a single string field from a delete payload
func payloadID(payload json.RawMessage, field string) (string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return "", err
	}
	raw, ok := fields[field]
	if !ok {
		return "", fmt.Errorf("payload missing %q", field)
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", err
	}
	return value, nil
}

// prepend inserts v at the front, newest first
func prepend[T any](list []T, v T) []T {
	return append([]T{v}, list...)
}

// removeByID drops the element whose ID matches
func removeByID[T any](list []T, id string, idOf func(*T) string) []T {
	for i := range list {
		if idOf(&list[i]) == id {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

// mergeByID overlays a partial JSON payload onto the element with the same
// id, in place. Returns the merged element, or nil when no element matched.
func mergeByID[T any](payload json.RawMessage, list []T, idOf func(*T) string) (*T, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, err
	}
	idRaw, ok := fields["id"]
	if !ok {
		return nil, fmt.Errorf("update payload has no id")
	}
	var id string
	if err := json.Unmarshal(idRaw, &id); err != nil {
		return nil, err
	}

	for i := range list {
		if idOf(&list[i]) != id {
			continue
		}
		// Merge: existing entity as JSON, overlaid with the payload fields
		base, err := json.Marshal(&list[i])
		if err != nil {
			return nil, err
		}
		var merged map[string]json.RawMessage
		if err := json.Unmarshal(base, &merged); err != nil {
			return nil, err
		}
		for k, v := range fields {
			merged[k] = v
		}
		remarshaled, err := json.Marshal(merged)
		if err != nil {
			return nil, err
		}
		var result T
		if err := json.Unmarshal(remarshaled, &result); err != nil {
			return nil, err
		}
		list[i] = result
		return &list[i], nil
	}
	return nil, nil
}

// replaceOrDrop updates the element in the projection when it still matches
// the filter, removes it when it no longer does, and inserts it when it
// newly matches
func replaceOrDrop[T any](list *[]T, v T, idOf func(*T) string, matches func(*T) bool) {
	id := idOf(&v)
	for i := range *list {
		if idOf(&(*list)[i]) == id {
			if matches(&v) {
				(*list)[i] = v
			} else {
				*list = append((*list)[:i:i], (*list)[i+1:]...)
			}
			return
		}
	}
	if matches(&v) {
		*list = prepend(*list, v)
	}
}
