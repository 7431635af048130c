package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/campaign-cli/internal/model"
)

func newTestCSV(t *testing.T) *CSVStore {
	t.Helper()
	return NewCSV(filepath.Join(t.TempDir(), "leads.csv"))
}

func TestCSVMissingFileLoadsEmpty(t *testing.T) {
	s := newTestCSV(t)
	leads, err := s.LoadLeads(context.Background())
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestCSVRoundTrip(t *testing.T) {
	s := newTestCSV(t)
	ctx := context.Background()

	require.NoError(t, s.SaveLeads(ctx, sampleLeads()))

	got, err := s.LoadLeads(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 7, got[0].ID)
	assert.Equal(t, "Acme", got[0].Company)
	assert.Empty(t, got[0].Priority, "unset priority survives the round trip")
	assert.Equal(t, model.PriorityHigh, got[1].Priority)
	assert.Equal(t, 92, got[1].PriorityScore)
}

func TestCSVHeaderOrder(t *testing.T) {
	s := newTestCSV(t)
	require.NoError(t, s.SaveLeads(context.Background(), sampleLeads()))

	data, err := os.ReadFile(s.path)
	require.NoError(t, err)
	header := strings.SplitN(string(data), "\n", 2)[0]
	assert.Equal(t, strings.Join(csvColumns, ","), header)
}

func TestCSVNormalizesJunkValues(t *testing.T) {
	s := newTestCSV(t)
	raw := strings.Join([]string{
		strings.Join(csvColumns, ","),
		`1,Ada Lovelace,ada@x.com,nan,VP Engineering,NaN,,null,,,,,new,,`,
	}, "\n")
	require.NoError(t, os.WriteFile(s.path, []byte(raw), 0o644))

	leads, err := s.LoadLeads(context.Background())
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Empty(t, leads[0].Company)
	assert.Empty(t, leads[0].Industry)
	assert.Empty(t, leads[0].Location)
	assert.Equal(t, "VP Engineering", leads[0].JobTitle)
	assert.Equal(t, model.StatusNew, leads[0].Status)
}

func TestCSVRejectsUnknownStatus(t *testing.T) {
	s := newTestCSV(t)
	raw := strings.Join([]string{
		strings.Join(csvColumns, ","),
		`1,Ada,ada@x.com,,,,,,,,,,archived,,`,
	}, "\n")
	require.NoError(t, os.WriteFile(s.path, []byte(raw), 0o644))

	_, err := s.LoadLeads(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown status")
}

func TestCSVGetLead(t *testing.T) {
	s := newTestCSV(t)
	ctx := context.Background()
	require.NoError(t, s.SaveLeads(ctx, sampleLeads()))

	lead, err := s.GetLead(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", lead.Name)

	_, err = s.GetLead(ctx, 42)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCSVSaveLead(t *testing.T) {
	s := newTestCSV(t)
	ctx := context.Background()
	require.NoError(t, s.SaveLeads(ctx, sampleLeads()))

	lead, err := s.GetLead(ctx, 3)
	require.NoError(t, err)
	lead.Status = model.StatusResponded
	require.NoError(t, s.SaveLead(ctx, *lead))

	got, err := s.GetLead(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, model.StatusResponded, got.Status)

	err = s.SaveLead(ctx, model.Lead{ID: 42, Name: "Ghost", Email: "g@x.com"})
	assert.True(t, errors.Is(err, ErrNotFound))
}
