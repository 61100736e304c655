package main

import (
	"context"
	"flag"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/alfredhq/alfred/internal/adapters/database"
	"github.com/alfredhq/alfred/internal/adapters/search"
	"github.com/alfredhq/alfred/internal/application/services"
	"github.com/alfredhq/alfred/internal/domain/entities"
	"github.com/alfredhq/alfred/internal/domain/repositories"
	"github.com/alfredhq/alfred/internal/infrastructure/clients/postgres"
	"github.com/alfredhq/alfred/internal/infrastructure/clients/typesense"
	"github.com/alfredhq/alfred/internal/infrastructure/observability"
	"github.com/alfredhq/alfred/pkg/config"
)

// seed populates a fresh database with a representative construction
// portfolio so the dashboard has data to show on first boot.
func main() {
	var skipSearch bool
	flag.BoolVar(&skipSearch, "skip-search", false, "do not index communications into Typesense")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger("alfred-seed", cfg.Env)

	ctx := context.Background()

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	if err := database.EnsureSchema(ctx, pgClient); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure database schema")
	}

	var searchRepo repositories.CommunicationSearchRepository
	if !skipSearch {
		tsClient, err := typesense.NewClient(&cfg.Typesense)
		if err != nil {
			log.Warn().Err(err).Msg("Typesense unavailable, communications will not be indexed")
		} else {
			if err := tsClient.InitSchema(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to init Typesense schema")
			}
			searchRepo = search.NewTypesenseAdapter(tsClient)
		}
	}

	projectService := services.NewProjectService(database.NewProjectAdapter(pgClient))
	communicationService := services.NewCommunicationService(database.NewCommunicationAdapter(pgClient), searchRepo)
	actionService := services.NewActionService(database.NewActionAdapter(pgClient), database.NewRiskAdapter(pgClient))
	weatherService := services.NewWeatherService(database.NewWeatherAdapter(pgClient))

	seedProjects(ctx, projectService)
	seedCommunications(ctx, communicationService)
	seedActionsAndRisks(ctx, actionService)
	seedWeather(ctx, weatherService)

	log.Info().Msg("seed complete")
}

func seedProjects(ctx context.Context, svc *services.ProjectService) {
	projects := []*entities.Project{
		{
			ID:   "site-alpha",
			Name: "Sonoran Flats Solar Park",
			Location: entities.ProjectLocation{
				City:  "Phoenix",
				State: "AZ",
				Coordinates: entities.Coordinates{
					Lat: 33.4484,
					Lng: -112.074,
				},
			},
			Capacity:  "150MW",
			Progress:  72,
			Status:    entities.ProjectStatusActive,
			StartDate: "2025-03-01",
			EndDate:   "2026-12-15",
		},
		{
			ID:   "site-devra",
			Name: "Devra Ridge Array",
			Location: entities.ProjectLocation{
				City:  "Las Vegas",
				State: "NV",
				Coordinates: entities.Coordinates{
					Lat: 36.1699,
					Lng: -115.1398,
				},
			},
			Capacity:  "200MW",
			Progress:  45,
			Status:    entities.ProjectStatusActive,
			StartDate: "2025-06-15",
			EndDate:   "2027-03-30",
		},
		{
			ID:   "site-pecos",
			Name: "Pecos Basin Energy Farm",
			Location: entities.ProjectLocation{
				City:  "El Paso",
				State: "TX",
				Coordinates: entities.Coordinates{
					Lat: 31.7619,
					Lng: -106.485,
				},
			},
			Capacity:  "85.5MW",
			Progress:  100,
			Status:    entities.ProjectStatusCompleted,
			StartDate: "2024-01-10",
			EndDate:   "2025-08-20",
		},
		{
			ID:   "site-kern",
			Name: "Kern County Expansion",
			Location: entities.ProjectLocation{
				City:  "Bakersfield",
				State: "CA",
				Coordinates: entities.Coordinates{
					Lat: 35.3733,
					Lng: -119.0187,
				},
			},
			Capacity:  "120MW",
			Progress:  12,
			Status:    entities.ProjectStatusPlanning,
			StartDate: "2026-02-01",
			EndDate:   "2027-11-30",
		},
	}

	for _, project := range projects {
		if err := svc.Create(ctx, project); err != nil {
			log.Warn().Err(err).Str("project", project.Name).Msg("failed to seed project")
		}
	}
	log.Info().Int("count", len(projects)).Msg("projects seeded")
}

func seedCommunications(ctx context.Context, svc *services.CommunicationService) {
	comms := []*entities.Communication{
		{
			Type:      entities.CommunicationTypeStatusUpdate,
			Title:     "Array B racking complete",
			Content:   "All racking for Array B is installed. Module placement begins Monday.",
			Priority:  entities.CommunicationPriorityNormal,
			Source:    entities.CommunicationSourceContractor,
			ProjectID: "site-alpha",
			Tags:      []string{"racking", "milestone"},
		},
		{
			Type:      entities.CommunicationTypePermit,
			Title:     "Interconnection permit approved",
			Content:   "Utility interconnection permit approved for the Devra Ridge substation tie-in.",
			Priority:  entities.CommunicationPriorityHigh,
			Source:    entities.CommunicationSourceAuthority,
			ProjectID: "site-devra",
			Tags:      []string{"permit", "interconnection"},
		},
		{
			Type:      entities.CommunicationTypeRisk,
			Title:     "Supply delay on inverters",
			Content:   "Vendor reports a three week slip on central inverter delivery.",
			Priority:  entities.CommunicationPriorityCritical,
			Source:    entities.CommunicationSourceSystem,
			ProjectID: "site-kern",
			Tags:      []string{"supply-chain", "inverters"},
		},
	}

	for _, comm := range comms {
		if err := svc.Create(ctx, comm); err != nil {
			log.Warn().Err(err).Str("title", comm.Title).Msg("failed to seed communication")
		}
	}

	if _, err := svc.CreateAIInsight(ctx, "site-alpha", "schedule",
		"Current installation pace puts Array C completion 6 days ahead of plan."); err != nil {
		log.Warn().Err(err).Msg("failed to seed AI insight")
	}

	log.Info().Int("count", len(comms)+1).Msg("communications seeded")
}

func seedActionsAndRisks(ctx context.Context, svc *services.ActionService) {
	actions := []*entities.ActionItem{
		{
			Title:       "Torque check on Array A racking",
			Description: "Spot check torque on 5% of Array A module clamps.",
			Priority:    entities.ActionPriorityMedium,
			Status:      entities.ActionStatusNew,
			DueDate:     time.Now().AddDate(0, 0, 7),
			ProjectID:   "site-alpha",
			Type:        entities.ActionTypeTask,
			AssignedTo:  "field-qa",
		},
		{
			Title:       "Respond to utility RFI 2026-114",
			Description: "Utility requested revised single-line diagram for the tie-in.",
			Priority:    entities.ActionPriorityHigh,
			Status:      entities.ActionStatusInProgress,
			DueDate:     time.Now().AddDate(0, 0, 3),
			ProjectID:   "site-devra",
			Type:        entities.ActionTypeRFI,
			AssignedTo:  "engineering",
		},
		{
			Title:       "Close out dust mitigation alert",
			Description: "Verify water truck schedule covers the grading window.",
			Priority:    entities.ActionPriorityLow,
			Status:      entities.ActionStatusMonitoring,
			DueDate:     time.Now().AddDate(0, 0, -2),
			ProjectID:   "site-kern",
			Type:        entities.ActionTypeAlert,
		},
	}

	for _, item := range actions {
		if err := svc.CreateAction(ctx, item); err != nil {
			log.Warn().Err(err).Str("title", item.Title).Msg("failed to seed action item")
		}
	}

	risks := []*entities.RiskAssessment{
		{
			RiskType:    "supply-chain",
			Description: "Central inverter delivery may slip three weeks, blocking commissioning.",
			Impact:      entities.RiskImpactHigh,
			Probability: entities.RiskProbabilityMedium,
			Mitigation:  "Qualify a second inverter vendor and re-sequence commissioning.",
			Status:      entities.RiskStatusOpen,
			ProjectID:   "site-kern",
		},
		{
			RiskType:    "weather",
			Description: "August storms may halt grading on the northern section.",
			Impact:      entities.RiskImpactMedium,
			Probability: entities.RiskProbabilityHigh,
			Mitigation:  "Front-load grading before monsoon season and keep pumps on site.",
			Status:      entities.RiskStatusMitigated,
			ProjectID:   "site-alpha",
		},
	}

	for _, risk := range risks {
		if err := svc.CreateRisk(ctx, risk); err != nil {
			log.Warn().Err(err).Str("riskType", risk.RiskType).Msg("failed to seed risk assessment")
		}
	}

	log.Info().Int("actions", len(actions)).Int("risks", len(risks)).Msg("actions and risks seeded")
}

func seedWeather(ctx context.Context, svc *services.WeatherService) {
	records := []*entities.WeatherRecord{
		{Location: "phoenix", Temperature: 41, WindSpeed: 9, Condition: "Clear", Humidity: 18, Pressure: 1009},
		{Location: "las vegas", Temperature: 38, WindSpeed: 14, Condition: "Partly Cloudy", Humidity: 22, Pressure: 1011},
		{Location: "el paso", Temperature: 35, WindSpeed: 11, Condition: "Clear", Humidity: 30, Pressure: 1012},
		{Location: "bakersfield", Temperature: 33, WindSpeed: 7, Condition: "Cloudy", Humidity: 40, Pressure: 1014},
		{Location: "tucson", Temperature: 39, WindSpeed: 16, Condition: "Storm", Humidity: 45, Pressure: 1005},
	}

	for _, record := range records {
		if err := svc.Upsert(ctx, record); err != nil {
			log.Warn().Err(err).Str("location", record.Location).Msg("failed to seed weather")
		}
	}
	log.Info().Int("count", len(records)).Msg("weather seeded")
}
