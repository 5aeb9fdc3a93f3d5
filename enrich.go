package llmstxt

import (
	"context"

	"github.com/zombar/llmstxt/models"
)

// Enricher is an optional pipeline stage that augments a record after the
// base extraction pass. The core pipeline is oblivious to whether any
// enrichment is active: both slots default to NoopEnricher and failures
// only degrade output, never abort the analysis.
type Enricher interface {
	Enrich(ctx context.Context, target Target, record *models.SiteRecord) error
}

// NoopEnricher leaves the record untouched. It is the default for both the
// browser-rendering and AI-analysis slots.
type NoopEnricher struct{}

func (NoopEnricher) Enrich(context.Context, Target, *models.SiteRecord) error {
	return nil
}
