package llmstxt

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/zombar/llmstxt/models"
)

const (
	maxContentLength      = 3000
	maxContextLength      = 100
	minLinkTextLength     = 2
	minParagraphLength    = 50
	descriptionLimit      = 300
	basicDescriptionLimit = 200
)

// Paragraphs opening with these are consent banners, not descriptions.
var bannedParagraphPrefixes = []string{"Cookie", "This site", "We use"}

var contentClassPattern = regexp.MustCompile(`content|main`)

// extractTitle resolves the page title, first match wins: <title>, first
// <h1>, og:title, then the target domain.
func extractTitle(doc *goquery.Document, target Target) string {
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	if h := strings.TrimSpace(doc.Find("h1").First().Text()); h != "" {
		return h
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if t := strings.TrimSpace(og); t != "" {
			return t
		}
	}
	return target.Domain
}

// extractBasicTitle is the basic-pipeline variant: no og:title fallback.
func extractBasicTitle(doc *goquery.Document, target Target) string {
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	if h := strings.TrimSpace(doc.Find("h1").First().Text()); h != "" {
		return h
	}
	return target.Domain
}

// extractDescription resolves the description: meta description,
// og:description, first substantial paragraph, then a domain fallback.
func extractDescription(doc *goquery.Document, target Target) string {
	if d := metaContent(doc, `meta[name="description"]`); d != "" {
		return d
	}
	if d := metaContent(doc, `meta[property="og:description"]`); d != "" {
		return d
	}

	var paragraph string
	doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := strings.TrimSpace(p.Text())
		if utf8.RuneCountInString(text) <= minParagraphLength {
			return true
		}
		for _, prefix := range bannedParagraphPrefixes {
			if strings.HasPrefix(text, prefix) {
				return true
			}
		}
		paragraph = ellipsize(text, descriptionLimit)
		return false
	})
	if paragraph != "" {
		return paragraph
	}

	return "Content from " + target.Domain
}

// extractBasicDescription only considers the first paragraph and uses the
// shorter truncation limit, matching the basic pipeline's behavior.
func extractBasicDescription(doc *goquery.Document, target Target) string {
	if d := metaContent(doc, `meta[name="description"]`); d != "" {
		return d
	}
	if d := metaContent(doc, `meta[property="og:description"]`); d != "" {
		return d
	}
	if text := strings.TrimSpace(doc.Find("p").First().Text()); utf8.RuneCountInString(text) > minParagraphLength {
		return ellipsize(text, basicDescriptionLimit)
	}
	return "Website content from " + target.Domain
}

// extractKeywords returns the meta keywords content, or empty.
func extractKeywords(doc *goquery.Document) string {
	return metaContent(doc, `meta[name="keywords"]`)
}

func metaContent(doc *goquery.Document, selector string) string {
	if c, ok := doc.Find(selector).First().Attr("content"); ok {
		return strings.TrimSpace(c)
	}
	return ""
}

// extractLinks collects every internal anchor with visible text, resolving
// hrefs against the page URL. External hosts and malformed hrefs are
// silently dropped.
func extractLinks(doc *goquery.Document, target Target) []models.RawLink {
	base, err := url.Parse(target.URL)
	if err != nil {
		return nil
	}

	var links []models.RawLink
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		text := strings.TrimSpace(a.Text())
		if href == "" || utf8.RuneCountInString(text) < minLinkTextLength {
			return
		}
		resolved, ok := resolveInternal(base, target.Domain, href)
		if !ok {
			return
		}
		links = append(links, models.RawLink{
			Text:    text,
			URL:     resolved,
			Context: linkContext(a),
		})
	})
	return links
}

// resolveInternal resolves href against base and reports whether the result
// stays on the target domain. Malformed hrefs count as external.
func resolveInternal(base *url.URL, domain, href string) (string, bool) {
	parsed, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(parsed)
	if resolved.Host != domain && resolved.Host != "" {
		return "", false
	}
	return resolved.String(), true
}

// linkContext returns the trimmed text of the anchor's parent element,
// capped at 100 characters.
func linkContext(a *goquery.Selection) string {
	parent := a.Parent()
	if parent.Length() == 0 {
		return ""
	}
	return truncateRunes(strings.TrimSpace(parent.Text()), maxContextLength)
}

// extractMainContent strips boilerplate subtrees and returns the visible
// text of the most content-like region. This mutates the document, so it
// must run after link extraction: nav anchors are still links.
func extractMainContent(doc *goquery.Document) string {
	doc.Find("script, style, nav, footer, header").Remove()
	return truncateRunes(joinedText(mainContentRoot(doc)), maxContentLength)
}

// mainContentRoot prefers <main>, then <article>, then the first element
// whose class mentions content or main, then <body>, then the whole tree.
func mainContentRoot(doc *goquery.Document) *goquery.Selection {
	if s := doc.Find("main").First(); s.Length() > 0 {
		return s
	}
	if s := doc.Find("article").First(); s.Length() > 0 {
		return s
	}
	var byClass *goquery.Selection
	doc.Find("[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if class, _ := s.Attr("class"); contentClassPattern.MatchString(class) {
			byClass = s
			return false
		}
		return true
	})
	if byClass != nil {
		return byClass
	}
	if s := doc.Find("body").First(); s.Length() > 0 {
		return s
	}
	return doc.Selection
}

// joinedText walks the selection's text nodes, trimming each and joining
// the non-empty ones with a single space.
func joinedText(sel *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

func ellipsize(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
