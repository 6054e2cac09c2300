// Package excel writes lead exports as XLSX workbooks.
package excel

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nambiararyan24/portfolio/models"
)

// LeadSheet is the single sheet every export contains
const LeadSheet = "Leads"

// LeadColumns are the header cells, in order
var LeadColumns = []string{
	"Received", "Name", "Email", "Phone", "Company", "Project Type",
	"Budget", "Timeline", "Preferred Contact", "Newsletter",
	"Lead Score", "Read", "Message",
}

// WriteLeads renders leads into a workbook and writes it to w
func WriteLeads(w io.Writer, leads []models.Lead) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", LeadSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(LeadColumns))
	for i, c := range LeadColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(LeadSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		lastCol, _ := excelize.ColumnNumberToName(len(LeadColumns))
		_ = f.SetCellStyle(LeadSheet, "A1", lastCol+"1", bold)
	}

	for i, lead := range leads {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := leadRow(lead)
		if err := f.SetSheetRow(LeadSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(LeadSheet, "A", "L", 18)
	_ = f.SetColWidth(LeadSheet, "M", "M", 60)
	if err := f.SetPanes(LeadSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func leadRow(l models.Lead) []interface{} {
	score := interface{}("")
	if l.LeadScore != nil {
		score = *l.LeadScore
	}
	return []interface{}{
		l.CreatedAt.UTC().Format("2006-01-02 15:04"),
		l.Name,
		l.Email,
		deref(l.Phone),
		deref(l.Company),
		l.ProjectType,
		deref(l.BudgetRange),
		deref(l.Timeline),
		deref(l.PreferredContactMethod),
		yesNo(l.NewsletterSignup),
		score,
		yesNo(l.Read),
		l.Message,
	}
}

// ExportFileName is the download name for an export taken at t
func ExportFileName(t time.Time) string {
	return "leads-" + t.UTC().Format("2006-01-02") + ".xlsx"
}

// ReadLeadRows reads back an export; used by the CLI's verify flag and tests.
func ReadLeadRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	rows, err := f.GetRows(LeadSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", LeadSheet, err)
	}
	if len(rows) == 0 || !strings.EqualFold(strings.Join(rows[0], ","), strings.Join(LeadColumns, ",")) {
		return nil, fmt.Errorf("not a lead export")
	}
	return rows[1:], nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
