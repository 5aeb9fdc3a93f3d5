package llmstxt

import (
	"unicode/utf8"

	"github.com/zombar/llmstxt/models"
)

// qualityScore computes the composite content quality score: five
// independently capped sub-scores (title, description, content richness,
// link diversity, AI insight bonus), each worth up to 20 points. The final
// clamp to [0,100] is an invariant even though the caps already sum to 100.
func qualityScore(record *models.SiteRecord) int {
	score := 0

	// Title quality (0-20 points)
	if n := utf8.RuneCountInString(record.Title); n >= 10 && n <= 70 {
		score += 20
	} else if n > 0 {
		score += 10
	}

	// Description quality (0-20 points)
	if n := utf8.RuneCountInString(record.Description); n >= 50 && n <= 300 {
		score += 20
	} else if n > 0 {
		score += 10
	}

	// Content richness (0-20 points)
	switch n := utf8.RuneCountInString(record.ContentText); {
	case n > 1000:
		score += 20
	case n > 500:
		score += 15
	case n > 100:
		score += 10
	}

	// Link diversity (0-20 points)
	switch n := len(record.RawLinks); {
	case n > 20:
		score += 20
	case n > 10:
		score += 15
	case n > 5:
		score += 10
	}

	// AI insight bonus (0-20 points); absent unless AI enrichment ran
	if record.AIAnalysis != nil && record.AIAnalysis.QualityScore > 0 {
		score += min(20, record.AIAnalysis.QualityScore*2)
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}
