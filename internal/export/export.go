// Package export renders a trip itinerary as an XLSX workbook.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/gdg-garage/trip-planner-api/internal/models"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	SheetTrip       = "Trip"
	SheetActivities = "Activities"
	SheetExpenses   = "Expenses"
	SheetChecklist  = "Checklist"
)

var ErrTripNotFound = errors.New("trip not found")

// Itinerary is everything the workbook shows about one trip.
type Itinerary struct {
	Trip       models.Trip
	Activities []models.Activity
	Expenses   []models.Expense
	Checklist  []models.Checklist
}

func Load(ctx context.Context, db *gorm.DB, tripID uint) (*Itinerary, error) {
	db = db.WithContext(ctx)

	var it Itinerary
	if err := db.First(&it.Trip, tripID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	if err := db.Where("trip_id = ?", tripID).Order("date").Order("start_time").Find(&it.Activities).Error; err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}
	if err := db.Where("trip_id = ?", tripID).Order("date").Find(&it.Expenses).Error; err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	if err := db.Where("trip_id = ?", tripID).Order("priority DESC").Order("created_at").Find(&it.Checklist).Error; err != nil {
		return nil, fmt.Errorf("load checklist: %w", err)
	}
	return &it, nil
}

// Filename is the attachment name offered to the client.
func (it *Itinerary) Filename() string {
	return fmt.Sprintf("trip-%d.xlsx", it.Trip.ID)
}

func Workbook(it *Itinerary) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetName("Sheet1", SheetTrip); err != nil {
		return nil, err
	}
	if err := writeTrip(f, bold, it.Trip); err != nil {
		return nil, fmt.Errorf("trip sheet: %w", err)
	}

	activities := [][]any{}
	for _, a := range it.Activities {
		activities = append(activities, []any{
			models.FormatDate(a.Date), deref(a.Time), a.Name, string(a.Category),
			a.Location, derefFloat(a.Cost), yesNo(a.Completed), a.BookingReference,
		})
	}
	if err := writeTable(f, bold, SheetActivities,
		[]any{"Date", "Time", "Name", "Category", "Location", "Cost", "Completed", "Booking reference"},
		activities); err != nil {
		return nil, fmt.Errorf("activities sheet: %w", err)
	}

	expenses := [][]any{}
	var total float64
	for _, e := range it.Expenses {
		total += e.Amount
		expenses = append(expenses, []any{
			models.FormatDate(e.Date), e.Description, string(e.Category), e.Amount, e.Currency, e.Notes,
		})
	}
	if len(expenses) > 0 {
		expenses = append(expenses, []any{"", "Total", "", total})
	}
	if err := writeTable(f, bold, SheetExpenses,
		[]any{"Date", "Description", "Category", "Amount", "Currency", "Notes"},
		expenses); err != nil {
		return nil, fmt.Errorf("expenses sheet: %w", err)
	}

	items := [][]any{}
	for _, c := range it.Checklist {
		items = append(items, []any{c.Item, c.Category, c.Priority, yesNo(c.Completed)})
	}
	if err := writeTable(f, bold, SheetChecklist,
		[]any{"Item", "Category", "Priority", "Completed"},
		items); err != nil {
		return nil, fmt.Errorf("checklist sheet: %w", err)
	}

	return f.WriteToBuffer()
}

func writeTrip(f *excelize.File, bold int, t models.Trip) error {
	rows := [][]any{
		{"Title", t.Title},
		{"Destination", t.Destination},
		{"Start date", models.FormatDate(t.StartDate)},
		{"End date", models.FormatDate(t.EndDate)},
		{"Duration (days)", t.DurationDays()},
		{"Status", string(t.Status)},
		{"Travelers", t.TravelersCount},
		{"Budget", derefFloat(t.Budget)},
		{"Actual cost", t.ActualCost},
		{"Description", t.Description},
		{"Notes", t.Notes},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetTrip, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColStyle(SheetTrip, "A", bold); err != nil {
		return err
	}
	return f.SetColWidth(SheetTrip, "A", "B", 24)
}

func writeTable(f *excelize.File, bold int, sheet string, header []any, rows [][]any) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// derefFloat leaves the cell empty for unset amounts.
func derefFloat(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
