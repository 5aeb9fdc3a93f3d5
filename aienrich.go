package llmstxt

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/zombar/llmstxt/models"
	"github.com/zombar/llmstxt/ollama"
)

// AI descriptions shorter than this are not worth replacing the extracted
// one with.
const minAIDescriptionLength = 20

// Content handed to the model is capped to keep prompts bounded.
const maxAIContentLength = 2000

// AIEnricher asks an Ollama model for site-level insights and merges them
// into the record: the insights object itself, and the model's description
// when it is substantial enough to override the extracted one.
type AIEnricher struct {
	client *ollama.Client
}

// NewAIEnricher creates an AI enricher backed by the given client.
func NewAIEnricher(client *ollama.Client) *AIEnricher {
	return &AIEnricher{client: client}
}

func (a *AIEnricher) Enrich(ctx context.Context, target Target, record *models.SiteRecord) error {
	insights, err := a.client.AnalyzeSite(ctx, ollama.SiteSummary{
		URL:         target.URL,
		Title:       record.Title,
		Description: record.Description,
		Content:     truncateRunes(record.ContentText, maxAIContentLength),
	})
	if err != nil {
		return fmt.Errorf("ai analysis failed: %w", err)
	}

	record.AIAnalysis = insights
	if utf8.RuneCountInString(insights.Description) > minAIDescriptionLength {
		record.AIDescription = insights.Description
	}
	return nil
}
