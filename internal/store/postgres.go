package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/campaign-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
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
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_leads_position ON leads(position);
CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const postgresLeadColumns = `id, name, email, company, job_title, industry, company_size, location,
	persona, priority, priority_score, priority_reason, status, email_draft, response_category`

func (s *PostgresStore) LoadLeads(ctx context.Context) ([]model.Lead, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+postgresLeadColumns+` FROM leads ORDER BY position, id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: load leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		lead, err := scanPostgresLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate leads")
	}
	return leads, nil
}

func (s *PostgresStore) SaveLeads(ctx context.Context, leads []model.Lead) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin save")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM leads`); err != nil {
		return eris.Wrap(err, "postgres: clear leads")
	}

	now := time.Now().UTC()
	for i, lead := range leads {
		if _, err := tx.Exec(ctx, `
			INSERT INTO leads (`+postgresLeadColumns+`, position, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
			lead.ID, lead.Name, lead.Email, lead.Company, lead.JobTitle,
			lead.Industry, lead.CompanySize, lead.Location, lead.Persona,
			string(lead.Priority), lead.PriorityScore, lead.PriorityReason,
			string(lead.Status), lead.EmailDraft, string(lead.ResponseCategory),
			i, now,
		); err != nil {
			return eris.Wrapf(err, "postgres: insert lead %d", lead.ID)
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit save")
}

func (s *PostgresStore) GetLead(ctx context.Context, id int) (*model.Lead, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+postgresLeadColumns+` FROM leads WHERE id = $1`, id)

	lead, err := scanPostgresLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return lead, err
}

func (s *PostgresStore) SaveLead(ctx context.Context, lead model.Lead) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE leads SET
			name = $1, email = $2, company = $3, job_title = $4, industry = $5,
			company_size = $6, location = $7, persona = $8, priority = $9,
			priority_score = $10, priority_reason = $11, status = $12,
			email_draft = $13, response_category = $14, updated_at = $15
		WHERE id = $16`,
		lead.Name, lead.Email, lead.Company, lead.JobTitle, lead.Industry,
		lead.CompanySize, lead.Location, lead.Persona, string(lead.Priority),
		lead.PriorityScore, lead.PriorityReason, string(lead.Status),
		lead.EmailDraft, string(lead.ResponseCategory), time.Now().UTC(),
		lead.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: save lead %d", lead.ID)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPostgresLead(row scanner) (*model.Lead, error) {
	var lead model.Lead
	var priority, status, category string

	err := row.Scan(
		&lead.ID, &lead.Name, &lead.Email, &lead.Company, &lead.JobTitle,
		&lead.Industry, &lead.CompanySize, &lead.Location, &lead.Persona,
		&priority, &lead.PriorityScore, &lead.PriorityReason,
		&status, &lead.EmailDraft, &category,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, eris.Wrap(err, "postgres: scan lead")
	}

	if err := parseLeadTags(&lead, priority, status, category); err != nil {
		return nil, err
	}
	return &lead, nil
}
