package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/alfredhq/alfred/internal/application/services"
	"github.com/alfredhq/alfred/internal/domain/entities"
	"github.com/alfredhq/alfred/internal/domain/repositories"
)

type MockCommunicationRepository struct {
	mock.Mock
}

func (m *MockCommunicationRepository) Create(ctx context.Context, comm *entities.Communication) error {
	args := m.Called(ctx, comm)
	return args.Error(0)
}

func (m *MockCommunicationRepository) GetByID(ctx context.Context, id string) (*entities.Communication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Communication), args.Error(1)
}

func (m *MockCommunicationRepository) Update(ctx context.Context, comm *entities.Communication) error {
	args := m.Called(ctx, comm)
	return args.Error(0)
}

func (m *MockCommunicationRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCommunicationRepository) List(ctx context.Context, filter repositories.CommunicationFilter) ([]*entities.Communication, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Communication), args.Error(1)
}

func (m *MockCommunicationRepository) Search(ctx context.Context, term string) ([]*entities.Communication, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Communication), args.Error(1)
}

type MockCommunicationSearchRepository struct {
	mock.Mock
}

func (m *MockCommunicationSearchRepository) Search(ctx context.Context, term string) ([]*entities.Communication, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Communication), args.Error(1)
}

func (m *MockCommunicationSearchRepository) Index(ctx context.Context, comm *entities.Communication) error {
	args := m.Called(ctx, comm)
	return args.Error(0)
}

func (m *MockCommunicationSearchRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCommunicationService_Create_AppliesDefaults(t *testing.T) {
	repo := new(MockCommunicationRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := services.NewCommunicationService(repo, nil)

	comm := &entities.Communication{Title: "Permit approved", Type: entities.CommunicationTypePermit}
	require.NoError(t, service.Create(context.Background(), comm))

	assert.NotEmpty(t, comm.ID)
	assert.Equal(t, entities.CommunicationPriorityNormal, comm.Priority)
	assert.Equal(t, entities.CommunicationSourceSystem, comm.Source)
	assert.NotNil(t, comm.Tags)
	assert.False(t, comm.PostedAt.IsZero())
	assert.False(t, comm.IsAI)
}

func TestCommunicationService_CreateAIInsight_SynthesizesEntry(t *testing.T) {
	repo := new(MockCommunicationRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := services.NewCommunicationService(repo, nil)

	comm, err := service.CreateAIInsight(context.Background(), "site-alpha", "schedule", "Panel installation pace suggests early completion.")
	require.NoError(t, err)

	assert.Equal(t, entities.CommunicationTypeInsight, comm.Type)
	assert.Equal(t, "AI Insight: schedule", comm.Title)
	assert.Equal(t, entities.CommunicationPriorityHigh, comm.Priority)
	assert.Equal(t, entities.CommunicationSourceAI, comm.Source)
	assert.Equal(t, "site-alpha", comm.ProjectID)
	assert.Equal(t, []string{"ai", "insight", "schedule"}, comm.Tags)
	assert.True(t, comm.IsAI)
}

func TestCommunicationService_Create_IndexFailureIsNonFatal(t *testing.T) {
	repo := new(MockCommunicationRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	searchRepo := new(MockCommunicationSearchRepository)
	searchRepo.On("Index", mock.Anything, mock.Anything).Return(errors.New("typesense down"))

	service := services.NewCommunicationService(repo, searchRepo)

	comm := &entities.Communication{Title: "Grid interconnection update", Type: entities.CommunicationTypeStatusUpdate}
	assert.NoError(t, service.Create(context.Background(), comm))
}

func TestCommunicationService_Search_FallsBackToDatabase(t *testing.T) {
	repo := new(MockCommunicationRepository)
	fallback := []*entities.Communication{{ID: "c-1", Title: "permit filed"}}
	repo.On("Search", mock.Anything, "permit").Return(fallback, nil)

	searchRepo := new(MockCommunicationSearchRepository)
	searchRepo.On("Search", mock.Anything, "permit").Return(nil, errors.New("typesense down"))

	service := services.NewCommunicationService(repo, searchRepo)

	results, err := service.Search(context.Background(), "permit")
	require.NoError(t, err)
	assert.Equal(t, fallback, results)
}

func TestCommunicationService_Search_PrefersSearchEngine(t *testing.T) {
	repo := new(MockCommunicationRepository)

	indexed := []*entities.Communication{{ID: "c-2", Title: "risk flagged"}}
	searchRepo := new(MockCommunicationSearchRepository)
	searchRepo.On("Search", mock.Anything, "risk").Return(indexed, nil)

	service := services.NewCommunicationService(repo, searchRepo)

	results, err := service.Search(context.Background(), "risk")
	require.NoError(t, err)
	assert.Equal(t, indexed, results)
	repo.AssertNotCalled(t, "Search")
}
