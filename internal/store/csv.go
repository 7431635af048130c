package store

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/campaign-cli/internal/model"
)

// csvColumns is the canonical column order for the leads file.
var csvColumns = []string{
	"id", "name", "email", "company", "job_title",
	"industry", "company_size", "location", "persona",
	"priority", "priority_score", "priority_reason",
	"status", "email_draft", "response_category",
}

// CSVStore implements Store over a single leads CSV file, the format the
// original campaign spreadsheets ship in. The whole file is rewritten on save.
type CSVStore struct {
	path string
}

// NewCSV creates a CSV-backed store at the given path.
func NewCSV(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Migrate ensures the parent directory exists. A missing file is not an
// error; it loads as an empty lead set.
func (s *CSVStore) Migrate(_ context.Context) error {
	dir := filepath.Dir(s.path)
	if dir == "." || dir == "" {
		return nil
	}
	return eris.Wrap(os.MkdirAll(dir, 0o755), "csv: create dir")
}

func (s *CSVStore) Close() error {
	return nil
}

func (s *CSVStore) LoadLeads(_ context.Context) ([]model.Lead, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "csv: open %s", s.path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "csv: read %s", s.path)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// Column positions come from the header so reordered exports still load.
	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[name] = i
	}
	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	var leads []model.Lead
	for _, record := range records[1:] {
		id, err := strconv.Atoi(field(record, "id"))
		if err != nil {
			return nil, eris.Wrapf(err, "csv: lead id %q", field(record, "id"))
		}

		lead := model.Lead{
			ID:             id,
			Name:           model.NormalizeOptional(field(record, "name")),
			Email:          model.NormalizeOptional(field(record, "email")),
			Company:        model.NormalizeOptional(field(record, "company")),
			JobTitle:       model.NormalizeOptional(field(record, "job_title")),
			Industry:       model.NormalizeOptional(field(record, "industry")),
			CompanySize:    model.NormalizeOptional(field(record, "company_size")),
			Location:       model.NormalizeOptional(field(record, "location")),
			Persona:        model.NormalizeOptional(field(record, "persona")),
			PriorityReason: model.NormalizeOptional(field(record, "priority_reason")),
			EmailDraft:     model.NormalizeOptional(field(record, "email_draft")),
		}

		if raw := model.NormalizeOptional(field(record, "priority_score")); raw != "" {
			score, err := strconv.Atoi(raw)
			if err != nil {
				return nil, eris.Wrapf(err, "csv: lead %d priority_score %q", id, raw)
			}
			lead.PriorityScore = score
		}

		if err := parseLeadTags(&lead,
			model.NormalizeOptional(field(record, "priority")),
			model.NormalizeOptional(field(record, "status")),
			model.NormalizeOptional(field(record, "response_category")),
		); err != nil {
			return nil, err
		}

		leads = append(leads, lead)
	}

	return leads, nil
}

func (s *CSVStore) SaveLeads(_ context.Context, leads []model.Lead) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return eris.Wrap(err, "csv: create dir")
	}

	f, err := os.Create(s.path)
	if err != nil {
		return eris.Wrapf(err, "csv: create %s", s.path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvColumns); err != nil {
		return eris.Wrap(err, "csv: write header")
	}

	for _, lead := range leads {
		score := ""
		if lead.PriorityScore != 0 {
			score = strconv.Itoa(lead.PriorityScore)
		}
		record := []string{
			strconv.Itoa(lead.ID), lead.Name, lead.Email, lead.Company, lead.JobTitle,
			lead.Industry, lead.CompanySize, lead.Location, lead.Persona,
			string(lead.Priority), score, lead.PriorityReason,
			string(lead.Status), lead.EmailDraft, string(lead.ResponseCategory),
		}
		if err := w.Write(record); err != nil {
			return eris.Wrapf(err, "csv: write lead %d", lead.ID)
		}
	}

	w.Flush()
	return eris.Wrap(w.Error(), "csv: flush")
}

func (s *CSVStore) GetLead(ctx context.Context, id int) (*model.Lead, error) {
	leads, err := s.LoadLeads(ctx)
	if err != nil {
		return nil, err
	}
	for _, lead := range leads {
		if lead.ID == id {
			return &lead, nil
		}
	}
	return nil, ErrNotFound
}

func (s *CSVStore) SaveLead(ctx context.Context, lead model.Lead) error {
	leads, err := s.LoadLeads(ctx)
	if err != nil {
		return err
	}
	for i := range leads {
		if leads[i].ID == lead.ID {
			leads[i] = lead
			return s.SaveLeads(ctx, leads)
		}
	}
	return ErrNotFound
}
