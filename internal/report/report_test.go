package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/campaign-cli/internal/model"
)

func testLeads() []model.Lead {
	return []model.Lead{
		{
			ID: 1, Name: "Ada Lovelace", Email: "ada@acme.io", Company: "Acme",
			Priority: model.PriorityHigh, PriorityScore: 92,
			Status: model.StatusContacted,
		},
		{
			ID: 2, Name: "Grace Hopper", Email: "grace@navy.mil", Company: "Navy",
			Priority: model.PriorityMedium, PriorityScore: 50,
			Status: model.StatusResponded, ResponseCategory: model.ResponseInterested,
		},
		{
			ID: 3, Name: "Alan Turing", Email: "alan@gchq.gov", Company: "GCHQ",
			Status: model.StatusNew,
		},
	}
}

func TestFormat(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	out := Format(testLeads(), now)

	assert.Contains(t, out, "# Campaign Report")
	assert.Contains(t, out, "Generated: 2026-03-01T12:00:00Z")
	assert.Contains(t, out, "- Total leads: 3")
	assert.Contains(t, out, "- Contacted: 1")
	assert.Contains(t, out, "- Responded: 1")
	assert.Contains(t, out, "- High: 1")
	assert.Contains(t, out, "- Medium: 1")

	// Sorted by score descending.
	ada := strings.Index(out, "Ada Lovelace")
	grace := strings.Index(out, "Grace Hopper")
	alan := strings.Index(out, "Alan Turing")
	assert.True(t, ada < grace && grace < alan, "rows ordered by score: %s", out)
}

func TestFormatEmpty(t *testing.T) {
	out := Format(nil, time.Now())
	assert.Contains(t, out, "No leads in the campaign.")
}

func TestGeneratorSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	g := NewGenerator(dir)

	path, err := g.Save(testLeads())
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(path), "campaign_report_")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Ada Lovelace")
}

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "leads.xlsx")
	require.NoError(t, ExportXLSX(testLeads(), path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	sheet := f.Sheets[0]
	require.GreaterOrEqual(t, len(sheet.Rows), 4)
	assert.Equal(t, "id", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "Ada Lovelace", sheet.Rows[1].Cells[1].Value)
	assert.Equal(t, "92", sheet.Rows[1].Cells[10].Value)
}
