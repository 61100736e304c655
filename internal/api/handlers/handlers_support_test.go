package handlers_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alfredhq/alfred/internal/domain/entities"
	"github.com/alfredhq/alfred/internal/domain/repositories"
	apperrors "github.com/alfredhq/alfred/pkg/errors"
)

// recordingBus captures published events per channel so tests can assert on
// exactly what a handler broadcast.
type recordingBus struct {
	mu     sync.Mutex
	events map[string][]*entities.DomainEvent
}

func newRecordingBus() *recordingBus {
	return &recordingBus{events: make(map[string][]*entities.DomainEvent)}
}

func (b *recordingBus) Publish(ctx context.Context, channel string, event *entities.DomainEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events[channel] = append(b.events[channel], event)
	return nil
}

func (b *recordingBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.DomainEvent, error) {
	ch := make(chan *entities.DomainEvent)
	close(ch)
	return ch, nil
}

func (b *recordingBus) Unsubscribe(ctx context.Context, channel string) error { return nil }

func (b *recordingBus) Close() error { return nil }

func (b *recordingBus) published(channel string) []*entities.DomainEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*entities.DomainEvent(nil), b.events[channel]...)
}

// envelope mirrors the response wrapper for decoding in assertions
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	return env
}

// fakeProjectRepo is an in-memory ProjectRepository
type fakeProjectRepo struct {
	mu       sync.Mutex
	projects map[string]*entities.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[string]*entities.Project)}
}

func (r *fakeProjectRepo) Create(ctx context.Context, project *entities.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *project
	r.projects[project.ID] = &copied
	return nil
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, id string) (*entities.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	project, ok := r.projects[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("project not found")
	}
	copied := *project
	return &copied, nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, project *entities.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[project.ID]; !ok {
		return apperrors.NewNotFoundError("project not found")
	}
	copied := *project
	r.projects[project.ID] = &copied
	return nil
}

func (r *fakeProjectRepo) UpdateProgress(ctx context.Context, id string, progress int) (*entities.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	project, ok := r.projects[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("project not found")
	}
	project.Progress = progress
	project.UpdatedAt = time.Now()
	copied := *project
	return &copied, nil
}

func (r *fakeProjectRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return apperrors.NewNotFoundError("project not found")
	}
	delete(r.projects, id)
	return nil
}

func (r *fakeProjectRepo) List(ctx context.Context, filter repositories.ProjectFilter) ([]*entities.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Project
	for _, project := range r.projects {
		if filter.Status != "" && string(project.Status) != filter.Status {
			continue
		}
		copied := *project
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeProjectRepo) Statistics(ctx context.Context) (*entities.ProjectStatistics, error) {
	return &entities.ProjectStatistics{}, nil
}

// fakeActionRepo is an in-memory ActionRepository
type fakeActionRepo struct {
	mu            sync.Mutex
	items         map[string]*entities.ActionItem
	statusUpdates int
}

func newFakeActionRepo() *fakeActionRepo {
	return &fakeActionRepo{items: make(map[string]*entities.ActionItem)}
}

func (r *fakeActionRepo) Create(ctx context.Context, item *entities.ActionItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeActionRepo) GetByID(ctx context.Context, id string) (*entities.ActionItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("action item not found")
	}
	copied := *item
	return &copied, nil
}

func (r *fakeActionRepo) Update(ctx context.Context, item *entities.ActionItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return apperrors.NewNotFoundError("action item not found")
	}
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeActionRepo) UpdateStatus(ctx context.Context, id string, status entities.ActionStatus) (*entities.ActionItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statusUpdates++
	item, ok := r.items[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("action item not found")
	}
	item.Status = status
	item.UpdatedAt = time.Now()
	copied := *item
	return &copied, nil
}

func (r *fakeActionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return apperrors.NewNotFoundError("action item not found")
	}
	delete(r.items, id)
	return nil
}

func (r *fakeActionRepo) List(ctx context.Context, filter repositories.ActionFilter) ([]*entities.ActionItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.ActionItem
	for _, item := range r.items {
		copied := *item
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeActionRepo) ListOverdue(ctx context.Context) ([]*entities.ActionItem, error) {
	return nil, nil
}

func (r *fakeActionRepo) Statistics(ctx context.Context) (*entities.ActionStatistics, error) {
	return &entities.ActionStatistics{}, nil
}

// fakeRiskRepo is an in-memory RiskRepository
type fakeRiskRepo struct {
	mu    sync.Mutex
	risks map[string]*entities.RiskAssessment
}

func newFakeRiskRepo() *fakeRiskRepo {
	return &fakeRiskRepo{risks: make(map[string]*entities.RiskAssessment)}
}

func (r *fakeRiskRepo) Create(ctx context.Context, risk *entities.RiskAssessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *risk
	r.risks[risk.ID] = &copied
	return nil
}

func (r *fakeRiskRepo) GetByID(ctx context.Context, id string) (*entities.RiskAssessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	risk, ok := r.risks[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("risk assessment not found")
	}
	copied := *risk
	return &copied, nil
}

func (r *fakeRiskRepo) Update(ctx context.Context, risk *entities.RiskAssessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.risks[risk.ID]; !ok {
		return apperrors.NewNotFoundError("risk assessment not found")
	}
	copied := *risk
	r.risks[risk.ID] = &copied
	return nil
}

func (r *fakeRiskRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.risks[id]; !ok {
		return apperrors.NewNotFoundError("risk assessment not found")
	}
	delete(r.risks, id)
	return nil
}

func (r *fakeRiskRepo) List(ctx context.Context, filter repositories.RiskFilter) ([]*entities.RiskAssessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.RiskAssessment
	for _, risk := range r.risks {
		copied := *risk
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeRiskRepo) ListHigh(ctx context.Context) ([]*entities.RiskAssessment, error) {
	return nil, nil
}

func (r *fakeRiskRepo) Statistics(ctx context.Context) (*entities.RiskStatistics, error) {
	return &entities.RiskStatistics{}, nil
}

// fakeWeatherRepo is an in-memory WeatherRepository keyed by location
type fakeWeatherRepo struct {
	mu      sync.Mutex
	records map[string]*entities.WeatherRecord
}

func newFakeWeatherRepo() *fakeWeatherRepo {
	return &fakeWeatherRepo{records: make(map[string]*entities.WeatherRecord)}
}

func (r *fakeWeatherRepo) GetByLocation(ctx context.Context, location string) (*entities.WeatherRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[strings.ToLower(location)]
	if !ok {
		return nil, apperrors.NewNotFoundError("weather data not found for location")
	}
	copied := *record
	return &copied, nil
}

func (r *fakeWeatherRepo) GetByLocations(ctx context.Context, locations []string) ([]*entities.WeatherRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.WeatherRecord
	for _, location := range locations {
		if record, ok := r.records[strings.ToLower(location)]; ok {
			copied := *record
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeWeatherRepo) List(ctx context.Context) ([]*entities.WeatherRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.WeatherRecord
	for _, record := range r.records {
		copied := *record
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeWeatherRepo) Upsert(ctx context.Context, record *entities.WeatherRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *record
	copied.Location = strings.ToLower(record.Location)
	r.records[copied.Location] = &copied
	return nil
}

func (r *fakeWeatherRepo) Update(ctx context.Context, record *entities.WeatherRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(record.Location)
	if _, ok := r.records[key]; !ok {
		return apperrors.NewNotFoundError("weather data not found for location")
	}
	copied := *record
	copied.Location = key
	r.records[key] = &copied
	return nil
}

func (r *fakeWeatherRepo) Delete(ctx context.Context, location string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(location)
	if _, ok := r.records[key]; !ok {
		return apperrors.NewNotFoundError("weather data not found for location")
	}
	delete(r.records, key)
	return nil
}

func (r *fakeWeatherRepo) Statistics(ctx context.Context) (*entities.WeatherStatistics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &entities.WeatherStatistics{TotalLocations: len(r.records)}, nil
}

func (r *fakeWeatherRepo) Extremes(ctx context.Context) (*entities.WeatherExtremes, error) {
	return &entities.WeatherExtremes{}, nil
}
