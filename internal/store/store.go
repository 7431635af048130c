package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/campaign-cli/internal/model"
)

// ErrNotFound is returned by per-id operations when no lead matches.
var ErrNotFound = eris.New("store: lead not found")

// Store defines the persistence interface for the campaign pipeline.
// LoadLeads returns leads in load order; that order is the only ordering
// guarantee the pipeline relies on.
type Store interface {
	LoadLeads(ctx context.Context) ([]model.Lead, error)
	SaveLeads(ctx context.Context, leads []model.Lead) error
	GetLead(ctx context.Context, id int) (*model.Lead, error)
	SaveLead(ctx context.Context, lead model.Lead) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// parseLeadTags converts stored enum tags into their closed types. Empty tags
// are unset (status defaults to new); unknown tags fail explicitly so bad
// upstream data is not silently masked.
func parseLeadTags(lead *model.Lead, priority, status, category string) error {
	if priority != "" {
		p, err := model.ParsePriority(priority)
		if err != nil {
			return eris.Wrapf(err, "store: lead %d", lead.ID)
		}
		lead.Priority = p
	}

	if status == "" {
		lead.Status = model.StatusNew
	} else {
		s, err := model.ParseStatus(status)
		if err != nil {
			return eris.Wrapf(err, "store: lead %d", lead.ID)
		}
		lead.Status = s
	}

	if category != "" {
		c, err := model.ParseResponseCategory(category)
		if err != nil {
			return eris.Wrapf(err, "store: lead %d", lead.ID)
		}
		lead.ResponseCategory = c
	}

	return nil
}
