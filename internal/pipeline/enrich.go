package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/campaign-cli/internal/llm"
	"github.com/sells-group/campaign-cli/internal/model"
)

const enrichmentSystemPrompt = `You are a sales intelligence expert. Analyze leads and create buyer personas.

Based on the lead's job title, company, and industry, create a detailed buyer persona that helps sales teams understand:
- Their likely pain points
- What they care about
- How to approach them

Respond ONLY with valid JSON in this exact format:
{
    "persona": "<2-3 sentence buyer persona description>",
    "enriched_industry": "<industry if missing, otherwise same as input>",
    "enriched_company_size": "<company size if missing, otherwise same as input>"
}`

const fallbackPersona = "Business professional seeking solutions to improve operations."

// Enricher synthesizes a buyer persona and backfills missing firmographics.
type Enricher struct {
	llm llm.Client
}

// NewEnricher creates an Enricher backed by the given LLM client.
func NewEnricher(client llm.Client) *Enricher {
	return &Enricher{llm: client}
}

// Enrich populates the lead's persona and, only where currently unset, its
// industry and company size. Failures degrade to a generic persona.
func (e *Enricher) Enrich(ctx context.Context, lead model.Lead) model.Lead {
	prompt := fmt.Sprintf(`Create a buyer persona for this lead:

Name: %s
Email: %s
Company: %s
Job Title: %s
Industry: %s
Company Size: %s
Location: %s

Create a helpful buyer persona and fill in any missing industry/company size based on context clues.`,
		lead.Name, lead.Email,
		orUnknown(lead.Company), orUnknown(lead.JobTitle),
		orUnknown(lead.Industry), orUnknown(lead.CompanySize),
		orUnknown(lead.Location))

	var out struct {
		Persona             string `json:"persona"`
		EnrichedIndustry    string `json:"enriched_industry"`
		EnrichedCompanySize string `json:"enriched_company_size"`
	}

	text, err := e.llm.GenerateJSON(ctx, prompt, enrichmentSystemPrompt)
	if err == nil {
		err = llm.ExtractJSON(text, &out)
	}
	if err != nil {
		zap.L().Warn("pipeline: enrichment failed, applying generic persona",
			zap.Int("lead_id", lead.ID), zap.Error(err))
		lead.Persona = fallbackPersona
		return lead
	}

	lead.Persona = out.Persona
	if lead.Industry == "" && out.EnrichedIndustry != "" {
		lead.Industry = out.EnrichedIndustry
	}
	if lead.CompanySize == "" && out.EnrichedCompanySize != "" {
		lead.CompanySize = out.EnrichedCompanySize
	}
	return lead
}
