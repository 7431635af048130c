// Package pipeline implements the campaign engine: four LLM-backed stage
// processors, the run-status tracker, and the orchestrator that walks the
// lead set, sends outreach, and writes the campaign report.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/campaign-cli/internal/llm"
	"github.com/sells-group/campaign-cli/internal/mail"
	"github.com/sells-group/campaign-cli/internal/model"
	"github.com/sells-group/campaign-cli/internal/report"
	"github.com/sells-group/campaign-cli/internal/store"
)

// ErrAlreadyRunning rejects a start request while a run is in flight.
var ErrAlreadyRunning = eris.New("pipeline: campaign already running")

// Engine orchestrates a single campaign run at a time.
type Engine struct {
	store      store.Store
	mailer     mail.Sender
	reports    *report.Generator
	scorer     *Scorer
	enricher   *Enricher
	drafter    *Drafter
	classifier *Classifier
	catalog    *Catalog
	tracker    *Tracker
	limiter    *rate.Limiter
}

// New creates an Engine with all collaborators injected. leadDelay is the
// pause between consecutive leads; zero disables pacing.
func New(
	st store.Store,
	client llm.Client,
	mailer mail.Sender,
	reports *report.Generator,
	catalog *Catalog,
	leadDelay time.Duration,
) *Engine {
	return &Engine{
		store:      st,
		mailer:     mailer,
		reports:    reports,
		scorer:     NewScorer(client),
		enricher:   NewEnricher(client),
		drafter:    NewDrafter(client),
		classifier: NewClassifier(client),
		catalog:    catalog,
		tracker:    NewTracker(),
		limiter:    rate.NewLimiter(rate.Every(leadDelay), 1),
	}
}

// Status returns a snapshot of the current run state.
func (e *Engine) Status() RunState {
	return e.tracker.Snapshot()
}

// Start launches a campaign run in the background and returns its run id.
// A second start while a run is in flight fails with ErrAlreadyRunning and
// leaves the in-progress run untouched.
func (e *Engine) Start(productDescription string) (string, error) {
	runID, ok := e.tracker.TryBegin()
	if !ok {
		return "", ErrAlreadyRunning
	}

	go e.run(context.Background(), e.catalog.Resolve(productDescription))
	return runID, nil
}

// run is the single background worker. It walks the lead set once, isolates
// per-lead failures, persists the full set, and generates the report.
func (e *Engine) run(ctx context.Context, productDescription string) {
	log := zap.L()

	e.tracker.SetMessage("Loading leads...")
	leads, err := e.store.LoadLeads(ctx)
	if err != nil {
		log.Error("pipeline: load leads failed", zap.Error(err))
		e.tracker.Complete("Pipeline failed: could not load leads.")
		return
	}
	e.tracker.Run(len(leads))

	processed := make([]model.Lead, 0, len(leads))
	for _, lead := range leads {
		// Every lead consumes a token. The first take is free, so each
		// following lead starts at least one full interval after it.
		if waitErr := e.limiter.Wait(ctx); waitErr != nil {
			log.Warn("pipeline: pacing interrupted", zap.Error(waitErr))
		}

		e.tracker.Advance(lead.Name)
		updated, sent := e.processLead(ctx, lead, productDescription)
		if sent {
			e.tracker.MarkContacted()
		}
		processed = append(processed, updated)
	}

	if saveErr := e.store.SaveLeads(ctx, processed); saveErr != nil {
		log.Error("pipeline: save leads failed", zap.Error(saveErr))
	}

	e.tracker.SetMessage("Generating report...")
	if _, reportErr := e.reports.Save(processed); reportErr != nil {
		log.Error("pipeline: report generation failed", zap.Error(reportErr))
	}

	contacted := e.tracker.Snapshot().Contacted
	e.tracker.Complete(fmt.Sprintf("Pipeline complete! %d/%d emails sent.", contacted, len(leads)))
	log.Info("pipeline: run complete",
		zap.Int("total", len(leads)),
		zap.Int("contacted", contacted),
	)
}

// processLead runs the stage sequence for one lead. Any panic is confined to
// this lead: the lead keeps whatever fields were set before the failure and
// the run moves on.
func (e *Engine) processLead(ctx context.Context, lead model.Lead, productDescription string) (out model.Lead, sent bool) {
	out = lead
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("pipeline: lead processing failed",
				zap.Int("lead_id", lead.ID),
				zap.Any("error", r),
			)
			sent = false
		}
	}()

	out = e.scorer.Score(ctx, out)
	out = e.enricher.Enrich(ctx, out)
	out = e.drafter.Draft(ctx, out, productDescription)

	if err := e.mailer.SendOutreach(ctx, out); err != nil {
		zap.L().Warn("pipeline: outreach send failed",
			zap.Int("lead_id", out.ID),
			zap.String("email", out.Email),
			zap.Error(err),
		)
		return out, false
	}

	out.Status = model.StatusContacted
	return out, true
}

// ClassifyReply categorizes an inbound reply for the given lead, persists the
// updated lead, and returns it. Unknown ids fail with store.ErrNotFound.
func (e *Engine) ClassifyReply(ctx context.Context, leadID int, replyText string) (*model.Lead, error) {
	lead, err := e.store.GetLead(ctx, leadID)
	if err != nil {
		return nil, err
	}

	updated := e.classifier.Classify(ctx, *lead, replyText)
	if err := e.store.SaveLead(ctx, updated); err != nil {
		return nil, eris.Wrap(err, "pipeline: save classified lead")
	}
	return &updated, nil
}

// GenerateReportNow writes a report over the currently stored lead set,
// bypassing the pipeline, and returns the report path.
func (e *Engine) GenerateReportNow(ctx context.Context) (string, error) {
	leads, err := e.store.LoadLeads(ctx)
	if err != nil {
		return "", eris.Wrap(err, "pipeline: load leads for report")
	}
	return e.reports.Save(leads)
}
