package store

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/campaign-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func leadColumns() []string {
	return []string{
		"id", "name", "email", "company", "job_title", "industry", "company_size",
		"location", "persona", "priority", "priority_score", "priority_reason",
		"status", "email_draft", "response_category",
	}
}

func TestPostgresLoadLeads(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := pgxmock.NewRows(leadColumns()).
		AddRow(7, "Ada Lovelace", "ada@x.com", "Acme", "VP Engineering", "Technology",
			"", "", "", "", 0, "", "new", "", "").
		AddRow(3, "Grace Hopper", "grace@navy.mil", "", "", "",
			"", "", "", "high", 92, "Senior technical decision-maker", "contacted", "Hi Grace,", "")
	mock.ExpectQuery(`SELECT .+ FROM leads ORDER BY position, id`).WillReturnRows(rows)

	leads, err := s.LoadLeads(context.Background())
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, model.StatusNew, leads[0].Status)
	assert.Equal(t, model.PriorityHigh, leads[1].Priority)
	assert.Equal(t, 92, leads[1].PriorityScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLoadLeadsRejectsUnknownTag(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := pgxmock.NewRows(leadColumns()).
		AddRow(1, "Bad Tag", "bad@x.com", "", "", "", "", "", "", "urgent", 0, "", "new", "", "")
	mock.ExpectQuery(`SELECT .+ FROM leads`).WillReturnRows(rows)

	_, err := s.LoadLeads(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown priority")
}

func TestPostgresGetLeadNotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT .+ FROM leads WHERE id = \$1`).
		WithArgs(999).
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetLead(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveLeadNotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE leads SET`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.SaveLead(context.Background(), model.Lead{ID: 999, Name: "Ghost", Email: "g@x.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPostgresSaveLeads(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM leads`).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	for i := 0; i < 2; i++ {
		mock.ExpectExec(`INSERT INTO leads`).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	mock.ExpectCommit()
	mock.ExpectRollback()

	err := s.SaveLeads(context.Background(), sampleLeads())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
