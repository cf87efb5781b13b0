package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/mr1hm/go-ambulance-dashboard/internal/dashboard"
	"github.com/mr1hm/go-ambulance-dashboard/internal/fleet"
	"github.com/mr1hm/go-ambulance-dashboard/internal/models"
)

const (
	ambulanceSheet = "Ambulances"
	hospitalSheet  = "Hospitals"
	statsSheet     = "Stats"
)

func (h *Handler) exportReport(c *gin.Context) {
	f, err := buildReport(h.svc.Fleet(), h.svc.Hospitals(), time.Now())
	if err != nil {
		slog.Error("failed to build fleet report", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", `attachment; filename="fleet-report.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		slog.Error("failed to write fleet report", "error", err)
	}
}

// buildReport lays out the admin panel tabs as worksheets.
func buildReport(u fleet.Update, hospitals []models.Hospital, generatedAt time.Time) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", ambulanceSheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(hospitalSheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(statsSheet); err != nil {
		f.Close()
		return nil, err
	}

	rows := [][]any{{"ID", "Status", "Latitude", "Longitude", "Note"}}
	for _, a := range u.Ambulances {
		rows = append(rows, []any{a.ID, string(a.Status), a.Location.Lat, a.Location.Lng, a.Status.Caption()})
	}
	if err := writeRows(f, ambulanceSheet, rows); err != nil {
		f.Close()
		return nil, err
	}

	rows = [][]any{{"ID", "Name", "Available Beds", "Distance", "ETA", "Latitude", "Longitude", "Specialties"}}
	for _, h := range hospitals {
		rows = append(rows, []any{h.ID, h.Name, h.Beds, h.Distance, h.ETA, h.Location.Lat, h.Location.Lng, strings.Join(h.Specialties, ", ")})
	}
	if err := writeRows(f, hospitalSheet, rows); err != nil {
		f.Close()
		return nil, err
	}

	stats := dashboard.ComputeStats(u.Ambulances, hospitals)
	rows = [][]any{
		{"Metric", "Value"},
		{"Active Ambulances", fmt.Sprintf("%d / %d", stats.ActiveAmbulances, stats.TotalAmbulances)},
		{"Total Hospital Beds", stats.TotalBeds},
		{"Average Response Time", "not available"},
		{"Feed State", string(u.State)},
		{"Generated At", generatedAt.UTC().Format(time.RFC3339)},
	}
	if err := writeRows(f, statsSheet, rows); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("error writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
