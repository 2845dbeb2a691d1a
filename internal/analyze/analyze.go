package analyze

import (
	"context"
	"encoding/json"
	"fmt"
)

const promptTemplate = `Extract the following information from the article below:
- Company Name
- CEO Name
- Summary

Article:
%s

Please provide the information in the following JSON format exactly as shown:
{
  "company_name": "Company Name",
  "ceo_name": "CEO Name",
  "summary": "Summary of the article."
}
Ensure that all fields are filled accurately.`

// Analysis holds the structured facts extracted from an article body.
// Fields the model omits stay empty.
type Analysis struct {
	CompanyName string
	CEOName     string
	Summary     string
}

// Analyzer extracts company, CEO, and summary from article body text via a
// completion provider.
type Analyzer struct {
	provider  Provider
	maxTokens int
}

// New creates an analyzer backed by the given provider.
func New(provider Provider, maxTokens int) *Analyzer {
	if maxTokens <= 0 {
		maxTokens = 300
	}
	return &Analyzer{provider: provider, maxTokens: maxTokens}
}

// Analyze sends the body text to the provider and parses the reply.
// Errors here are expected to be non-fatal to the caller: the article stays
// stored and analysis can be retried on a later run.
func (a *Analyzer) Analyze(ctx context.Context, bodyText string) (*Analysis, error) {
	prompt := fmt.Sprintf(promptTemplate, bodyText)

	reply, err := a.provider.Generate(ctx, prompt, a.maxTokens)
	if err != nil {
		return nil, err
	}

	span, err := extractJSONSpan(reply)
	if err != nil {
		return nil, err
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(span), &parsed); err != nil {
		return nil, fmt.Errorf("parsing analysis JSON: %w", err)
	}

	return &Analysis{
		CompanyName: getString(parsed, "company_name"),
		CEOName:     getString(parsed, "ceo_name"),
		Summary:     getString(parsed, "summary"),
	}, nil
}

func getString(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
