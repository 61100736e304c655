package database

import (
	"context"

	"github.com/alfredhq/alfred/internal/infrastructure/clients/postgres"
	apperrors "github.com/alfredhq/alfred/pkg/errors"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		city TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT '',
		lat DOUBLE PRECISION NOT NULL DEFAULT 0,
		lng DOUBLE PRECISION NOT NULL DEFAULT 0,
		capacity TEXT NOT NULL DEFAULT '',
		progress INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'active',
		start_date TEXT NOT NULL DEFAULT '',
		end_date TEXT NOT NULL DEFAULT '',
		weather_temperature DOUBLE PRECISION NOT NULL DEFAULT 20,
		weather_wind_speed DOUBLE PRECISION NOT NULL DEFAULT 10,
		weather_condition TEXT NOT NULL DEFAULT 'Clear',
		weather_humidity DOUBLE PRECISION NOT NULL DEFAULT 50,
		weather_pressure DOUBLE PRECISION NOT NULL DEFAULT 1013,
		weather_updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS communications (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		priority TEXT NOT NULL DEFAULT 'normal',
		source TEXT NOT NULL DEFAULT 'system',
		project_id TEXT NOT NULL DEFAULT '',
		tags TEXT[] NOT NULL DEFAULT '{}',
		posted_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		is_ai BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_communications_project_id ON communications (project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_communications_posted_at ON communications (posted_at DESC)`,
	`CREATE TABLE IF NOT EXISTS action_items (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		priority TEXT NOT NULL DEFAULT 'medium',
		status TEXT NOT NULL DEFAULT 'new',
		due_date TIMESTAMPTZ NOT NULL,
		project_id TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL DEFAULT 'task',
		assigned_to TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_action_items_project_id ON action_items (project_id)`,
	`CREATE TABLE IF NOT EXISTS risk_assessments (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL DEFAULT '',
		risk_type TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		impact TEXT NOT NULL DEFAULT 'medium',
		probability TEXT NOT NULL DEFAULT 'medium',
		mitigation TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'open',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_risk_assessments_project_id ON risk_assessments (project_id)`,
	`CREATE TABLE IF NOT EXISTS weather_data (
		id TEXT PRIMARY KEY,
		location TEXT NOT NULL UNIQUE,
		temperature DOUBLE PRECISION NOT NULL DEFAULT 0,
		wind_speed DOUBLE PRECISION NOT NULL DEFAULT 0,
		condition TEXT NOT NULL DEFAULT 'Clear',
		humidity DOUBLE PRECISION NOT NULL DEFAULT 0,
		pressure DOUBLE PRECISION NOT NULL DEFAULT 1013,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema creates the tables and indexes if they do not exist yet
func EnsureSchema(ctx context.Context, client *postgres.Client) error {
	for _, stmt := range schemaStatements {
		if _, err := client.DB().ExecContext(ctx, stmt); err != nil {
			return apperrors.NewInternalError("failed to apply schema", err)
		}
	}
	return nil
}
