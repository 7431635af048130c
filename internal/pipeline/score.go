package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/campaign-cli/internal/llm"
	"github.com/sells-group/campaign-cli/internal/model"
)

const scoringSystemPrompt = `You are a sales lead scoring expert. Analyze leads and assign priority scores.

Consider these factors:
- Job title seniority (C-level, VP, Director = higher priority)
- Company size (larger = higher budget potential)
- Industry fit (Technology, Healthcare, Finance = typically higher value)
- Decision-making authority based on role

Respond ONLY with valid JSON in this exact format:
{
    "priority": "high" | "medium" | "low",
    "priority_score": <number 1-100>,
    "priority_reason": "<brief explanation>"
}`

const fallbackPriorityReason = "Auto-scored due to processing error"

// Scorer assigns a priority, score and reasoning to a lead.
type Scorer struct {
	llm llm.Client
}

// NewScorer creates a Scorer backed by the given LLM client.
func NewScorer(client llm.Client) *Scorer {
	return &Scorer{llm: client}
}

// Score populates the lead's priority fields. Any model or parse failure
// degrades to priority=medium, score=50 so the run keeps moving.
func (s *Scorer) Score(ctx context.Context, lead model.Lead) model.Lead {
	prompt := fmt.Sprintf(`Score this sales lead:

Name: %s
Email: %s
Company: %s
Job Title: %s
Industry: %s
Company Size: %s
Location: %s

Provide priority score and reasoning.`,
		lead.Name, lead.Email,
		orUnknown(lead.Company), orUnknown(lead.JobTitle),
		orUnknown(lead.Industry), orUnknown(lead.CompanySize),
		orUnknown(lead.Location))

	var out struct {
		Priority       string `json:"priority"`
		PriorityScore  int    `json:"priority_score"`
		PriorityReason string `json:"priority_reason"`
	}

	text, err := s.llm.GenerateJSON(ctx, prompt, scoringSystemPrompt)
	if err == nil {
		err = llm.ExtractJSON(text, &out)
	}
	if err != nil {
		zap.L().Warn("pipeline: scoring failed, applying default score",
			zap.Int("lead_id", lead.ID), zap.Error(err))
		lead.Priority = model.PriorityMedium
		lead.PriorityScore = 50
		lead.PriorityReason = fallbackPriorityReason
		return lead
	}

	priority, parseErr := model.ParsePriority(out.Priority)
	if parseErr != nil {
		priority = model.PriorityMedium
	}
	lead.Priority = priority
	lead.PriorityScore = clampScore(out.PriorityScore)
	lead.PriorityReason = out.PriorityReason
	return lead
}

// clampScore forces model output into the 1-100 range; a missing score
// defaults to the midpoint.
func clampScore(n int) int {
	switch {
	case n == 0:
		return 50
	case n < 1:
		return 1
	case n > 100:
		return 100
	default:
		return n
	}
}

// orUnknown substitutes "Unknown" for unset optional fields so prompts never
// carry blanks.
func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
