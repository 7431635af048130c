package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/campaign-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id                INTEGER PRIMARY KEY,
	position          INTEGER NOT NULL DEFAULT 0,
	name              TEXT NOT NULL,
	email             TEXT NOT NULL,
	company           TEXT NOT NULL DEFAULT '',
	job_title         TEXT NOT NULL DEFAULT '',
	industry          TEXT NOT NULL DEFAULT '',
	company_size      TEXT NOT NULL DEFAULT '',
	location          TEXT NOT NULL DEFAULT '',
	persona           TEXT NOT NULL DEFAULT '',
	priority          TEXT NOT NULL DEFAULT '',
	priority_score    INTEGER NOT NULL DEFAULT 0,
	priority_reason   TEXT NOT NULL DEFAULT '',
	status            TEXT NOT NULL DEFAULT 'new',
	email_draft       TEXT NOT NULL DEFAULT '',
	response_category TEXT NOT NULL DEFAULT '',
	updated_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_leads_position ON leads(position);
CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const sqliteLeadColumns = `id, name, email, company, job_title, industry, company_size, location,
	persona, priority, priority_score, priority_reason, status, email_draft, response_category`

func (s *SQLiteStore) LoadLeads(ctx context.Context) ([]model.Lead, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sqliteLeadColumns+` FROM leads ORDER BY position, id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: load leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		lead, err := scanSQLiteLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate leads")
	}
	return leads, nil
}

func (s *SQLiteStore) SaveLeads(ctx context.Context, leads []model.Lead) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin save")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM leads`); err != nil {
		return eris.Wrap(err, "sqlite: clear leads")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO leads (`+sqliteLeadColumns+`, position, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i, lead := range leads {
		if _, err := stmt.ExecContext(ctx,
			lead.ID, lead.Name, lead.Email, lead.Company, lead.JobTitle,
			lead.Industry, lead.CompanySize, lead.Location, lead.Persona,
			string(lead.Priority), lead.PriorityScore, lead.PriorityReason,
			string(lead.Status), lead.EmailDraft, string(lead.ResponseCategory),
			i, now,
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert lead %d", lead.ID)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit save")
}

func (s *SQLiteStore) GetLead(ctx context.Context, id int) (*model.Lead, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteLeadColumns+` FROM leads WHERE id = ?`, id)

	lead, err := scanSQLiteLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return lead, err
}

func (s *SQLiteStore) SaveLead(ctx context.Context, lead model.Lead) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE leads SET
			name = ?, email = ?, company = ?, job_title = ?, industry = ?,
			company_size = ?, location = ?, persona = ?, priority = ?,
			priority_score = ?, priority_reason = ?, status = ?,
			email_draft = ?, response_category = ?, updated_at = ?
		WHERE id = ?`,
		lead.Name, lead.Email, lead.Company, lead.JobTitle, lead.Industry,
		lead.CompanySize, lead.Location, lead.Persona, string(lead.Priority),
		lead.PriorityScore, lead.PriorityReason, string(lead.Status),
		lead.EmailDraft, string(lead.ResponseCategory), time.Now().UTC(),
		lead.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: save lead %d", lead.ID)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSQLiteLead(row scanner) (*model.Lead, error) {
	var lead model.Lead
	var priority, status, category string

	err := row.Scan(
		&lead.ID, &lead.Name, &lead.Email, &lead.Company, &lead.JobTitle,
		&lead.Industry, &lead.CompanySize, &lead.Location, &lead.Persona,
		&priority, &lead.PriorityScore, &lead.PriorityReason,
		&status, &lead.EmailDraft, &category,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, eris.Wrap(err, "sqlite: scan lead")
	}

	if err := parseLeadTags(&lead, priority, status, category); err != nil {
		return nil, err
	}
	return &lead, nil
}
