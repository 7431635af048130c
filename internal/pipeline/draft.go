package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/campaign-cli/internal/llm"
	"github.com/sells-group/campaign-cli/internal/model"
)

const emailSystemPrompt = `You are a professional sales copywriter. Write short, personalized cold outreach emails.

Guidelines:
- Keep it under 150 words
- Personalize based on their role, company, and industry
- Focus on value, not features
- Include a clear but soft call-to-action
- Be professional but conversational
- Don't be pushy or salesy

Write ONLY the email body. No subject line, no signature, no explanations.`

// DefaultProductDescription is used when the caller supplies no product
// description and no catalog entry matches.
const DefaultProductDescription = "an AI-powered CRM solution that helps sales teams automate lead scoring, personalize outreach, and close deals faster"

// Drafter writes a personalized outreach email body for a lead.
type Drafter struct {
	llm llm.Client
}

// NewDrafter creates a Drafter backed by the given LLM client.
func NewDrafter(client llm.Client) *Drafter {
	return &Drafter{llm: client}
}

// Draft populates the lead's email draft. An empty productDescription uses the
// built-in default. Failures degrade to a fixed template.
func (d *Drafter) Draft(ctx context.Context, lead model.Lead, productDescription string) model.Lead {
	if productDescription == "" {
		productDescription = DefaultProductDescription
	}

	prompt := fmt.Sprintf(`Write a personalized cold outreach email for:

Name: %s
Job Title: %s
Company: %s
Industry: %s
Persona: %s
Priority Reason: %s

Product/Service: %s

Write a short, personalized email that would resonate with this specific person.`,
		lead.Name,
		orDefault(lead.JobTitle, "Professional"),
		orDefault(lead.Company, "their company"),
		orDefault(lead.Industry, "their industry"),
		orDefault(lead.Persona, "Business professional"),
		orDefault(lead.PriorityReason, "Potential fit"),
		productDescription)

	text, err := d.llm.Generate(ctx, prompt, emailSystemPrompt)
	draft := strings.TrimSpace(text)
	if err != nil {
		zap.L().Warn("pipeline: email drafting failed, applying template",
			zap.Int("lead_id", lead.ID), zap.Error(err))
		lead.EmailDraft = templateEmail(lead)
		return lead
	}
	if draft == "" {
		zap.L().Warn("pipeline: empty email draft, applying template",
			zap.Int("lead_id", lead.ID))
		lead.EmailDraft = templateEmail(lead)
		return lead
	}

	lead.EmailDraft = draft
	return lead
}

func templateEmail(lead model.Lead) string {
	return fmt.Sprintf(`Hi %s,

I came across %s and was impressed by what you're building in the %s space.

I'd love to share how our AI-powered CRM solution could help your team work more efficiently. Would you be open to a brief chat?

Best regards`,
		lead.Name,
		orDefault(lead.Company, "your company"),
		orDefault(lead.Industry, "industry"))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
