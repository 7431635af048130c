package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/campaign-cli/internal/llm"
	"github.com/sells-group/campaign-cli/internal/model"
)

const classifierSystemPrompt = `You are an email response classifier for sales teams.

Classify email responses into one of these categories:
- interested: Shows genuine interest, wants to learn more, asks questions
- not_interested: Declines, says no, not a fit
- needs_more_info: Asks for details, pricing, case studies
- out_of_office: Auto-reply, vacation, OOO message
- unsubscribe: Asks to be removed, stop contacting

Respond ONLY with valid JSON:
{
    "category": "interested" | "not_interested" | "needs_more_info" | "out_of_office" | "unsubscribe",
    "confidence": <number 0-100>,
    "summary": "<brief summary of the response>"
}`

// Classifier categorizes inbound replies and advances lead status.
type Classifier struct {
	llm llm.Client
}

// NewClassifier creates a Classifier backed by the given LLM client.
func NewClassifier(client llm.Client) *Classifier {
	return &Classifier{llm: client}
}

// Classify populates the lead's response category from the reply text and
// maps it to a campaign status. Failures degrade to needs_more_info/responded.
func (c *Classifier) Classify(ctx context.Context, lead model.Lead, replyText string) model.Lead {
	prompt := fmt.Sprintf(`Classify this email response:

From: %s (%s)
Company: %s

Response:
%s

What category does this response fall into?`,
		lead.Name, lead.Email, lead.Company, replyText)

	var out struct {
		Category   string `json:"category"`
		Confidence int    `json:"confidence"`
		Summary    string `json:"summary"`
	}

	text, err := c.llm.GenerateJSON(ctx, prompt, classifierSystemPrompt)
	if err == nil {
		err = llm.ExtractJSON(text, &out)
	}

	category := model.ResponseNeedsMoreInfo
	if err == nil {
		if parsed, parseErr := model.ParseResponseCategory(out.Category); parseErr == nil {
			category = parsed
		}
	} else {
		zap.L().Warn("pipeline: reply classification failed, defaulting to needs_more_info",
			zap.Int("lead_id", lead.ID), zap.Error(err))
	}

	lead.ResponseCategory = category
	lead.Status = statusForCategory(category)
	return lead
}

// statusForCategory maps a reply category to the campaign status it implies.
func statusForCategory(category model.ResponseCategory) model.Status {
	switch category {
	case model.ResponseNotInterested, model.ResponseUnsubscribe:
		return model.StatusUnresponsive
	default:
		return model.StatusResponded
	}
}
