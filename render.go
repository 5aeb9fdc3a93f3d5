package llmstxt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/zombar/llmstxt/models"
)

// Context strings this short add nothing over the link text itself.
const minRenderedContextLength = 20

// RenderBasic serializes a basic analysis into llms.txt text: a title
// heading, a blockquote description, and one section per populated
// category. Pure and deterministic.
func RenderBasic(record *models.BasicRecord) string {
	var lines []string
	lines = append(lines, "# "+record.Title, "")

	if record.Description != "" {
		lines = append(lines, "> "+record.Description, "")
	}

	for _, name := range BasicCategoryOrder {
		links := record.Links[name]
		if len(links) == 0 {
			continue
		}
		lines = append(lines, "## "+name, "")
		for _, link := range links {
			if link.Text == "" || link.URL == "" {
				continue
			}
			lines = append(lines, fmt.Sprintf("- [%s](%s)", link.Text, link.URL))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// RenderAdvanced serializes an advanced analysis. The description prefers
// the AI-generated one when present; AI category/topic lines appear between
// the blockquote and the link sections. Empty categories are omitted.
func RenderAdvanced(record *models.SiteRecord, domain string) string {
	var lines []string

	title := record.Title
	if title == "" {
		title = domain
	}
	lines = append(lines, "# "+title, "")

	description := record.AIDescription
	if description == "" {
		description = record.Description
	}
	if description == "" {
		description = "Content from " + domain
	}
	lines = append(lines, "> "+description, "")

	if ai := record.AIAnalysis; ai != nil {
		if ai.Category != "" {
			lines = append(lines, "**Category:** "+ai.Category)
		}
		if len(ai.Topics) > 0 {
			lines = append(lines, "**Topics:** "+strings.Join(ai.Topics, ", "))
		}
		lines = append(lines, "")
	}

	for _, name := range CategoryOrder {
		links := record.CategorizedLinks[name]
		if len(links) == 0 {
			continue
		}
		lines = append(lines, "## "+name, "")
		for _, link := range links {
			if link.Text == "" || link.URL == "" {
				continue
			}
			if utf8.RuneCountInString(link.Context) > minRenderedContextLength {
				lines = append(lines, fmt.Sprintf("- [%s](%s): %s...", link.Text, link.URL, truncateRunes(link.Context, maxContextLength)))
			} else {
				lines = append(lines, fmt.Sprintf("- [%s](%s)", link.Text, link.URL))
			}
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
