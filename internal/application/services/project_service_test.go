package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/alfredhq/alfred/internal/application/services"
	"github.com/alfredhq/alfred/internal/domain/entities"
	"github.com/alfredhq/alfred/internal/domain/repositories"
	apperrors "github.com/alfredhq/alfred/pkg/errors"
)

type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, project *entities.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id string) (*entities.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Project), args.Error(1)
}

func (m *MockProjectRepository) Update(ctx context.Context, project *entities.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) UpdateProgress(ctx context.Context, id string, progress int) (*entities.Project, error) {
	args := m.Called(ctx, id, progress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Project), args.Error(1)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProjectRepository) List(ctx context.Context, filter repositories.ProjectFilter) ([]*entities.Project, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Project), args.Error(1)
}

func (m *MockProjectRepository) Statistics(ctx context.Context) (*entities.ProjectStatistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ProjectStatistics), args.Error(1)
}

func TestProjectService_Create_AppliesDefaults(t *testing.T) {
	repo := new(MockProjectRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := services.NewProjectService(repo)

	project := &entities.Project{Name: "Devra Solar Farm"}
	require.NoError(t, service.Create(context.Background(), project))

	assert.NotEmpty(t, project.ID)
	assert.Equal(t, entities.ProjectStatusActive, project.Status)
	assert.Equal(t, 0, project.Progress)
	assert.Equal(t, 20.0, project.Weather.Temperature)
	assert.Equal(t, 10.0, project.Weather.WindSpeed)
	assert.Equal(t, "Clear", project.Weather.Condition)
	assert.Equal(t, 50.0, project.Weather.Humidity)
	assert.Equal(t, 1013.0, project.Weather.Pressure)
	assert.False(t, project.CreatedAt.IsZero())

	repo.AssertCalled(t, "Create", mock.Anything, project)
}

func TestProjectService_Create_RequiresName(t *testing.T) {
	repo := new(MockProjectRepository)
	service := services.NewProjectService(repo)

	err := service.Create(context.Background(), &entities.Project{Name: "  "})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	repo.AssertNotCalled(t, "Create")
}

func TestProjectService_UpdateProgress_RejectsOutOfRange(t *testing.T) {
	repo := new(MockProjectRepository)
	service := services.NewProjectService(repo)

	for _, progress := range []int{-1, 101, 150} {
		_, err := service.UpdateProgress(context.Background(), "site-alpha", progress)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr, "progress %d", progress)
		assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	}

	repo.AssertNotCalled(t, "UpdateProgress")
}

func TestProjectService_UpdateProgress_Delegates(t *testing.T) {
	repo := new(MockProjectRepository)
	updated := &entities.Project{ID: "site-alpha", Progress: 80}
	repo.On("UpdateProgress", mock.Anything, "site-alpha", 80).Return(updated, nil)

	service := services.NewProjectService(repo)

	got, err := service.UpdateProgress(context.Background(), "site-alpha", 80)
	require.NoError(t, err)
	assert.Equal(t, 80, got.Progress)
}

func TestProjectService_NetworkOverview(t *testing.T) {
	repo := new(MockProjectRepository)
	repo.On("List", mock.Anything, repositories.ProjectFilter{}).Return([]*entities.Project{
		{ID: "a", Capacity: "50MW", Progress: 60, Status: entities.ProjectStatusActive, Location: entities.ProjectLocation{State: "AZ"}},
		{ID: "b", Capacity: "120.5 MW", Progress: 100, Status: entities.ProjectStatusCompleted, Location: entities.ProjectLocation{State: "AZ"}},
		{ID: "c", Capacity: "30MW", Progress: 20, Status: entities.ProjectStatusActive, Location: entities.ProjectLocation{State: "NV"}},
	}, nil)

	service := services.NewProjectService(repo)

	overview, err := service.NetworkOverview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, overview.NetworkStats.TotalProjects)
	assert.Equal(t, 2, overview.NetworkStats.ActiveSites)
	assert.InDelta(t, 200.5, overview.NetworkStats.TotalCapacityMW, 0.001)
	assert.Equal(t, 60, overview.NetworkStats.NetworkProgress)

	counts := map[string]int{}
	for _, r := range overview.RegionalDistribution {
		counts[r.State] = r.Count
	}
	assert.Equal(t, map[string]int{"AZ": 2, "NV": 1}, counts)
}

func TestProjectService_Schematic_SectionsFollowProgress(t *testing.T) {
	repo := new(MockProjectRepository)
	repo.On("GetByID", mock.Anything, "site-alpha").Return(&entities.Project{
		ID:       "site-alpha",
		Name:     "Site Alpha",
		Capacity: "10MW",
		Progress: 60,
	}, nil)

	service := services.NewProjectService(repo)

	schematic, err := service.Schematic(context.Background(), "site-alpha")
	require.NoError(t, err)

	require.Len(t, schematic.Sections, 4)
	assert.Equal(t, "installed", schematic.Sections[0].Status)
	assert.Equal(t, "installed", schematic.Sections[1].Status)
	assert.Equal(t, "in-progress", schematic.Sections[2].Status)
	assert.Equal(t, "planned", schematic.Sections[3].Status)
	assert.Equal(t, 24000, schematic.TotalPanels)
}

func TestProjectService_Metrics_UsesSchedule(t *testing.T) {
	repo := new(MockProjectRepository)
	start := time.Now().AddDate(0, 0, -50).Format("2006-01-02")
	end := time.Now().AddDate(0, 0, 50).Format("2006-01-02")
	repo.On("GetByID", mock.Anything, "site-alpha").Return(&entities.Project{
		ID:        "site-alpha",
		Capacity:  "50MW",
		Progress:  75,
		StartDate: start,
		EndDate:   end,
	}, nil)

	service := services.NewProjectService(repo)

	metrics, err := service.Metrics(context.Background(), "site-alpha")
	require.NoError(t, err)

	assert.Equal(t, "50MW", metrics.TotalCapacity)
	assert.Equal(t, 75, metrics.Progress)
	assert.Equal(t, end, metrics.CompletionDate)
	// Halfway through the schedule with 75% done: ahead by roughly 25 points
	assert.Contains(t, []string{"+24%", "+25%"}, metrics.Deviation)
}

func TestParseCapacityMW(t *testing.T) {
	assert.Equal(t, 50.0, services.ParseCapacityMW("50MW"))
	assert.Equal(t, 120.5, services.ParseCapacityMW(" 120.5 MW "))
	assert.Equal(t, 0.0, services.ParseCapacityMW("unknown"))
	assert.Equal(t, 0.0, services.ParseCapacityMW(""))
}
