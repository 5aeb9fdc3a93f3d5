package llmstxt

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/zombar/llmstxt/models"
)

// CategoryOrder fixes the category enumeration used by the advanced
// classifier. Order matters: score ties go to the first category reaching
// the maximum, so this must stay an explicit slice, not a map.
var CategoryOrder = []string{
	"Navigation",
	"Documentation",
	"API",
	"Resources",
	"Products",
	"Support",
	"Company",
}

// BasicCategoryOrder is the reduced set used by the basic pipeline.
var BasicCategoryOrder = []string{"Navigation", "Documentation", "API", "Resources"}

var categoryKeywords = map[string][]string{
	"Navigation":    {"home", "about", "contact", "services", "products", "solutions"},
	"Documentation": {"docs", "documentation", "guide", "tutorial", "help", "manual", "wiki", "knowledge"},
	"API":           {"api", "reference", "endpoint", "swagger", "openapi", "sdk", "developer"},
	"Resources":     {"blog", "news", "articles", "resources", "downloads", "tools", "templates"},
	"Products":      {"product", "features", "pricing", "plans", "demo", "trial"},
	"Support":       {"support", "faq", "help", "contact", "ticket", "community", "forum"},
	"Company":       {"about", "team", "careers", "investors", "press", "legal", "privacy"},
}

const (
	maxLinksPerCategory = 5
	defaultCategory     = "Resources"

	textKeywordWeight = 3
	urlKeywordWeight  = 2
)

// categorizeLinks assigns each link to exactly one category by keyword
// scoring. Input is de-duplicated by URL first (last occurrence wins, first
// occurrence keeps its position); links scoring zero everywhere land in
// Resources. Every category list is capped at its first five entries.
func categorizeLinks(links []models.RawLink) map[string][]models.RawLink {
	urlOrder := make([]string, 0, len(links))
	unique := make(map[string]models.RawLink, len(links))
	for _, link := range links {
		if link.URL == "" {
			continue
		}
		if _, seen := unique[link.URL]; !seen {
			urlOrder = append(urlOrder, link.URL)
		}
		unique[link.URL] = link
	}

	categories := make(map[string][]models.RawLink, len(CategoryOrder))
	for _, name := range CategoryOrder {
		categories[name] = []models.RawLink{}
	}

	for _, u := range urlOrder {
		link := unique[u]
		if link.Text == "" {
			continue
		}
		best := bestCategory(link)
		categories[best] = append(categories[best], link)
	}

	for name, list := range categories {
		if len(list) > maxLinksPerCategory {
			categories[name] = list[:maxLinksPerCategory]
		}
	}
	return categories
}

// bestCategory scores every category for the link: +3 per keyword found in
// the link text, +2 per keyword found in the URL (both lower-cased, both
// counted independently). First category at the maximum wins.
func bestCategory(link models.RawLink) string {
	text := strings.ToLower(link.Text)
	lowerURL := strings.ToLower(link.URL)

	best, bestScore := defaultCategory, 0
	for _, name := range CategoryOrder {
		score := 0
		for _, kw := range categoryKeywords[name] {
			if strings.Contains(text, kw) {
				score += textKeywordWeight
			}
			if strings.Contains(lowerURL, kw) {
				score += urlKeywordWeight
			}
		}
		if score > bestScore {
			best, bestScore = name, score
		}
	}
	return best
}

// Basic pipeline categorization: four independent scans with no scoring and
// no mutual exclusivity. A link may appear in several buckets.

var (
	basicDocKeywords      = []string{"docs", "documentation", "guide", "tutorial", "help", "manual"}
	basicAPIKeywords      = []string{"api", "reference", "endpoint", "swagger", "openapi"}
	basicResourceKeywords = []string{"about", "contact", "blog", "news", "support", "faq"}
)

const (
	maxBasicNavLinks     = 5
	maxBasicKeywordLinks = 3
)

// basicCategorize runs the basic pipeline's link scans directly over the
// document. Categories that match nothing are omitted entirely.
func basicCategorize(doc *goquery.Document, target Target) map[string][]models.BasicLink {
	base, err := url.Parse(target.URL)
	if err != nil {
		return map[string][]models.BasicLink{}
	}

	links := make(map[string][]models.BasicLink)
	if nav := basicNavLinks(doc, base, target); len(nav) > 0 {
		links["Navigation"] = nav
	}
	if docs := basicKeywordLinks(doc, base, target, basicDocKeywords); len(docs) > 0 {
		links["Documentation"] = docs
	}
	if apis := basicKeywordLinks(doc, base, target, basicAPIKeywords); len(apis) > 0 {
		links["API"] = apis
	}
	if other := basicKeywordLinks(doc, base, target, basicResourceKeywords); len(other) > 0 {
		links["Resources"] = other
	}
	return links
}

// basicNavLinks collects internal anchors from nav and header elements,
// scanning at most five anchors per container and keeping five overall.
func basicNavLinks(doc *goquery.Document, base *url.URL, target Target) []models.BasicLink {
	var out []models.BasicLink
	doc.Find("nav, header").Each(func(_ int, container *goquery.Selection) {
		container.Find("a[href]").EachWithBreak(func(i int, a *goquery.Selection) bool {
			if i >= maxBasicNavLinks {
				return false
			}
			href, _ := a.Attr("href")
			text := strings.TrimSpace(a.Text())
			if href == "" || utf8.RuneCountInString(text) < minLinkTextLength {
				return true
			}
			if resolved, ok := resolveInternal(base, target.Domain, href); ok {
				out = append(out, models.BasicLink{Text: text, URL: resolved})
			}
			return true
		})
	})
	if len(out) > maxBasicNavLinks {
		out = out[:maxBasicNavLinks]
	}
	return out
}

// basicKeywordLinks collects the first three internal anchors whose text or
// href contains one of the keywords.
func basicKeywordLinks(doc *goquery.Document, base *url.URL, target Target, keywords []string) []models.BasicLink {
	var out []models.BasicLink
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		text := strings.TrimSpace(a.Text())
		lowerText := strings.ToLower(text)
		lowerHref := strings.ToLower(href)

		matched := false
		for _, kw := range keywords {
			if strings.Contains(lowerText, kw) || strings.Contains(lowerHref, kw) {
				matched = true
				break
			}
		}
		if !matched {
			return true
		}
		if resolved, ok := resolveInternal(base, target.Domain, href); ok {
			out = append(out, models.BasicLink{Text: text, URL: resolved})
		}
		return len(out) < maxBasicKeywordLinks
	})
	return out
}
