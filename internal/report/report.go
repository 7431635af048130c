// Package report renders campaign results for humans: a Markdown summary per
// run and an optional spreadsheet export of the lead set.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/campaign-cli/internal/model"
)

// Generator writes campaign reports into a target directory.
type Generator struct {
	dir string
}

// NewGenerator creates a Generator writing into dir.
func NewGenerator(dir string) *Generator {
	return &Generator{dir: dir}
}

// Save renders a Markdown report over the lead set and writes it to a
// timestamped file, returning the path.
func (g *Generator) Save(leads []model.Lead) (string, error) {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", eris.Wrap(err, "report: create dir")
	}

	now := time.Now().UTC()
	path := filepath.Join(g.dir, fmt.Sprintf("campaign_report_%s.md", now.Format("20060102_150405")))

	if err := os.WriteFile(path, []byte(Format(leads, now)), 0o644); err != nil {
		return "", eris.Wrapf(err, "report: write %s", path)
	}
	return path, nil
}

// Format renders the lead set as a Markdown campaign report.
func Format(leads []model.Lead, now time.Time) string {
	stats := model.ComputeStats(leads)

	var b strings.Builder
	b.WriteString("# Campaign Report\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", now.Format(time.RFC3339))

	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- Total leads: %d\n", stats.TotalLeads)
	fmt.Fprintf(&b, "- Contacted: %d\n", stats.Contacted)
	fmt.Fprintf(&b, "- Responded: %d\n", stats.Responded)
	fmt.Fprintf(&b, "- Converted: %d\n", stats.Converted)
	fmt.Fprintf(&b, "- Unresponsive: %d\n", stats.Unresponsive)
	fmt.Fprintf(&b, "- Response rate: %.0f%%\n\n", stats.ResponseRate*100)

	b.WriteString("## Priority Breakdown\n")
	fmt.Fprintf(&b, "- High: %d\n", stats.HighPriority)
	fmt.Fprintf(&b, "- Medium: %d\n", stats.MediumPriority)
	fmt.Fprintf(&b, "- Low: %d\n\n", stats.LowPriority)

	b.WriteString("## Leads\n")
	if len(leads) == 0 {
		b.WriteString("No leads in the campaign.\n")
		return b.String()
	}

	// Highest score first; unscored leads sink to the bottom.
	sorted := make([]model.Lead, len(leads))
	copy(sorted, leads)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PriorityScore > sorted[j].PriorityScore
	})

	b.WriteString("| ID | Name | Company | Priority | Score | Status |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, l := range sorted {
		score := ""
		if l.PriorityScore != 0 {
			score = fmt.Sprintf("%d", l.PriorityScore)
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
			l.ID, l.Name, l.Company, l.Priority, score, l.Status)
	}

	return b.String()
}

// xlsxColumns is the export column order, matching the leads CSV schema.
var xlsxColumns = []string{
	"id", "name", "email", "company", "job_title",
	"industry", "company_size", "location", "persona",
	"priority", "priority_score", "priority_reason",
	"status", "email_draft", "response_category",
}

// ExportXLSX writes the lead set as a spreadsheet at path.
func ExportXLSX(leads []model.Lead, path string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range xlsxColumns {
		header.AddCell().Value = col
	}

	for _, l := range leads {
		score := ""
		if l.PriorityScore != 0 {
			score = fmt.Sprintf("%d", l.PriorityScore)
		}
		row := sheet.AddRow()
		for _, v := range []string{
			fmt.Sprintf("%d", l.ID), l.Name, l.Email, l.Company, l.JobTitle,
			l.Industry, l.CompanySize, l.Location, l.Persona,
			string(l.Priority), score, l.PriorityReason,
			string(l.Status), l.EmailDraft, string(l.ResponseCategory),
		} {
			row.AddCell().Value = v
		}
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrap(err, "report: create dir")
		}
	}
	return eris.Wrapf(f.Save(path), "report: save %s", path)
}
