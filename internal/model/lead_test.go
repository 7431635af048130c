package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	for _, tag := range []string{"high", "medium", "low"} {
		p, err := ParsePriority(tag)
		require.NoError(t, err)
		assert.Equal(t, Priority(tag), p)
	}

	_, err := ParsePriority("urgent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown priority")

	_, err = ParsePriority("")
	assert.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	for _, tag := range []string{"new", "contacted", "responded", "converted", "unresponsive"} {
		s, err := ParseStatus(tag)
		require.NoError(t, err)
		assert.Equal(t, Status(tag), s)
	}

	_, err := ParseStatus("archived")
	assert.Error(t, err)
}

func TestParseResponseCategory(t *testing.T) {
	for _, tag := range []string{"interested", "not_interested", "needs_more_info", "out_of_office", "unsubscribe", "no_response"} {
		c, err := ParseResponseCategory(tag)
		require.NoError(t, err)
		assert.Equal(t, ResponseCategory(tag), c)
	}

	_, err := ParseResponseCategory("maybe")
	assert.Error(t, err)
}

func TestLeadValidate(t *testing.T) {
	tests := []struct {
		name    string
		lead    Lead
		wantErr string
	}{
		{
			name: "valid",
			lead: Lead{ID: 1, Name: "Ada Lovelace", Email: "ada@x.com"},
		},
		{
			name:    "zero id",
			lead:    Lead{Name: "Ada", Email: "ada@x.com"},
			wantErr: "not positive",
		},
		{
			name:    "missing name",
			lead:    Lead{ID: 2, Name: "  ", Email: "ada@x.com"},
			wantErr: "no name",
		},
		{
			name:    "bad email",
			lead:    Lead{ID: 3, Name: "Ada", Email: "not-an-address"},
			wantErr: "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.lead.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFirstName(t *testing.T) {
	assert.Equal(t, "Ada", Lead{Name: "Ada Lovelace"}.FirstName())
	assert.Equal(t, "Cher", Lead{Name: "Cher"}.FirstName())
	assert.Equal(t, "", Lead{Name: ""}.FirstName())
}

func TestNormalizeOptional(t *testing.T) {
	assert.Equal(t, "", NormalizeOptional("nan"))
	assert.Equal(t, "", NormalizeOptional("NaN"))
	assert.Equal(t, "", NormalizeOptional("  "))
	assert.Equal(t, "", NormalizeOptional("null"))
	assert.Equal(t, "Acme", NormalizeOptional(" Acme "))
}

func TestComputeStats(t *testing.T) {
	leads := []Lead{
		{ID: 1, Status: StatusContacted, Priority: PriorityHigh},
		{ID: 2, Status: StatusResponded, Priority: PriorityMedium},
		{ID: 3, Status: StatusConverted, Priority: PriorityHigh},
		{ID: 4, Status: StatusUnresponsive, Priority: PriorityLow},
		{ID: 5, Status: StatusNew},
	}

	s := ComputeStats(leads)
	assert.Equal(t, 5, s.TotalLeads)
	assert.Equal(t, 1, s.Contacted)
	assert.Equal(t, 1, s.Responded)
	assert.Equal(t, 1, s.Converted)
	assert.Equal(t, 1, s.Unresponsive)
	assert.Equal(t, 2, s.HighPriority)
	assert.Equal(t, 1, s.MediumPriority)
	assert.Equal(t, 1, s.LowPriority)
	assert.InDelta(t, 0.5, s.ResponseRate, 1e-9)
}

func TestComputeStatsEmpty(t *testing.T) {
	s := ComputeStats(nil)
	assert.Equal(t, 0, s.TotalLeads)
	assert.Zero(t, s.ResponseRate)
}
