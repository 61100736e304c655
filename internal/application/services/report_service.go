package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/alfredhq/alfred/internal/domain/repositories"
	apperrors "github.com/alfredhq/alfred/pkg/errors"
)

// ReportService renders the network report spreadsheet
type ReportService struct {
	projectRepo repositories.ProjectRepository
	commRepo    repositories.CommunicationRepository
	actionRepo  repositories.ActionRepository
	weatherRepo repositories.WeatherRepository
}

// NewReportService creates a new report service
func NewReportService(
	projectRepo repositories.ProjectRepository,
	commRepo repositories.CommunicationRepository,
	actionRepo repositories.ActionRepository,
	weatherRepo repositories.WeatherRepository,
) *ReportService {
	return &ReportService{
		projectRepo: projectRepo,
		commRepo:    commRepo,
		actionRepo:  actionRepo,
		weatherRepo: weatherRepo,
	}
}

// WriteNetworkReport renders the four-sheet network report and writes the
// xlsx document to w
func (s *ReportService) WriteNetworkReport(ctx context.Context, w io.Writer) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := s.writeProjectsSheet(ctx, file); err != nil {
		return err
	}
	if err := s.writeCommunicationsSheet(ctx, file); err != nil {
		return err
	}
	if err := s.writeActionsSheet(ctx, file); err != nil {
		return err
	}
	if err := s.writeWeatherSheet(ctx, file); err != nil {
		return err
	}

	// excelize starts with a default sheet named Sheet1
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return apperrors.NewInternalError("failed to finalize report", err)
	}

	if err := file.Write(w); err != nil {
		return apperrors.NewInternalError("failed to write report", err)
	}
	return nil
}

func (s *ReportService) writeProjectsSheet(ctx context.Context, file *excelize.File) error {
	projects, err := s.projectRepo.List(ctx, repositories.ProjectFilter{})
	if err != nil {
		return err
	}

	rows := [][]any{{"ID", "Name", "City", "State", "Capacity", "Progress", "Status", "Start Date", "End Date"}}
	for _, p := range projects {
		rows = append(rows, []any{
			p.ID, p.Name, p.Location.City, p.Location.State,
			p.Capacity, p.Progress, string(p.Status), p.StartDate, p.EndDate,
		})
	}

	return writeSheet(file, "Projects", rows)
}

func (s *ReportService) writeCommunicationsSheet(ctx context.Context, file *excelize.File) error {
	comms, err := s.commRepo.List(ctx, repositories.CommunicationFilter{})
	if err != nil {
		return err
	}

	rows := [][]any{{"ID", "Type", "Title", "Priority", "Source", "Project", "Tags", "Posted At"}}
	for _, c := range comms {
		rows = append(rows, []any{
			c.ID, string(c.Type), c.Title, string(c.Priority), string(c.Source),
			c.ProjectID, strings.Join(c.Tags, ", "), c.PostedAt.Format(time.RFC3339),
		})
	}

	return writeSheet(file, "Communications", rows)
}

func (s *ReportService) writeActionsSheet(ctx context.Context, file *excelize.File) error {
	items, err := s.actionRepo.List(ctx, repositories.ActionFilter{})
	if err != nil {
		return err
	}

	rows := [][]any{{"ID", "Title", "Priority", "Status", "Type", "Project", "Assigned To", "Due Date"}}
	for _, item := range items {
		rows = append(rows, []any{
			item.ID, item.Title, string(item.Priority), string(item.Status),
			string(item.Type), item.ProjectID, item.AssignedTo,
			item.DueDate.Format("2006-01-02"),
		})
	}

	return writeSheet(file, "Action Items", rows)
}

func (s *ReportService) writeWeatherSheet(ctx context.Context, file *excelize.File) error {
	records, err := s.weatherRepo.List(ctx)
	if err != nil {
		return err
	}

	rows := [][]any{{"Location", "Temperature", "Wind Speed", "Condition", "Humidity", "Pressure", "Updated At"}}
	for _, r := range records {
		rows = append(rows, []any{
			r.Location, r.Temperature, r.WindSpeed, r.Condition,
			r.Humidity, r.Pressure, r.UpdatedAt.Format(time.RFC3339),
		})
	}

	return writeSheet(file, "Weather Data", rows)
}

func writeSheet(file *excelize.File, name string, rows [][]any) error {
	if _, err := file.NewSheet(name); err != nil {
		return apperrors.NewInternalError("failed to create report sheet", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return apperrors.NewInternalError("failed to address report cell", err)
		}
		if err := file.SetSheetRow(name, cell, &row); err != nil {
			return apperrors.NewInternalError(fmt.Sprintf("failed to write %s sheet", name), err)
		}
	}

	return nil
}
