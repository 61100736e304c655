// Package dashclient is a Go client for the monitoring API. It pairs a REST
// client with an in-memory Store that reconciles pushed events against the
// last loaded state, mirroring what the dashboard frontend does.
package dashclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alfredhq/alfred/internal/domain/entities"
)

// Client is a REST client for the monitoring API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client against the given base URL (e.g. http://localhost:3001)
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// envelope mirrors the API response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// ListProjects retrieves all projects
func (c *Client) ListProjects(ctx context.Context) ([]entities.Project, error) {
	var projects []entities.Project
	if err := c.getJSON(ctx, "/api/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject retrieves a single project
func (c *Client) GetProject(ctx context.Context, id string) (*entities.Project, error) {
	var project entities.Project
	if err := c.getJSON(ctx, "/api/projects/"+url.PathEscape(id), nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// ListCommunications retrieves all communications
func (c *Client) ListCommunications(ctx context.Context) ([]entities.Communication, error) {
	var comms []entities.Communication
	if err := c.getJSON(ctx, "/api/communications", nil, &comms); err != nil {
		return nil, err
	}
	return comms, nil
}

// ListActions retrieves all action items
func (c *Client) ListActions(ctx context.Context) ([]entities.ActionItem, error) {
	var items []entities.ActionItem
	if err := c.getJSON(ctx, "/api/actions", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListRisks retrieves all risk assessments
func (c *Client) ListRisks(ctx context.Context) ([]entities.RiskAssessment, error) {
	var risks []entities.RiskAssessment
	if err := c.getJSON(ctx, "/api/actions/risks/all", nil, &risks); err != nil {
		return nil, err
	}
	return risks, nil
}

// GetWeather retrieves the reading for a location
func (c *Client) GetWeather(ctx context.Context, location string) (*entities.WeatherRecord, error) {
	var record entities.WeatherRecord
	if err := c.getJSON(ctx, "/api/weather/location/"+url.PathEscape(location), nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// getJSON performs a GET, unwraps the response envelope and decodes data
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decoding response from %s: %w", path, err)
	}
	if !env.Success {
		if env.Error != "" {
			return fmt.Errorf("api error from %s: %s", path, env.Error)
		}
		return fmt.Errorf("api returned status %d for %s", resp.StatusCode, path)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decoding data from %s: %w", path, err)
		}
	}
	return nil
}
