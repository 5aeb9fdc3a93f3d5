package llmstxt

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"github.com/zombar/llmstxt/models"
)

// BrowserEnricher renders the page in headless Chrome and re-runs link and
// content extraction over the post-JavaScript DOM. Links found this way are
// recorded separately as dynamic links; the rendered content text replaces
// the static one only when it is longer.
type BrowserEnricher struct {
	userAgent string
	timeout   time.Duration
	settle    time.Duration
}

// NewBrowserEnricher creates a browser enricher with the given page-load
// timeout.
func NewBrowserEnricher(timeout time.Duration, userAgent string) *BrowserEnricher {
	return &BrowserEnricher{
		userAgent: userAgent,
		timeout:   timeout,
		settle:    5 * time.Second,
	}
}

func (b *BrowserEnricher) Enrich(ctx context.Context, target Target, record *models.SiteRecord) error {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.UserAgent(b.userAgent),
		chromedp.WindowSize(1920, 1080),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, b.timeout)
	defer cancelTimeout()

	var rendered string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(target.URL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(b.settle),
		chromedp.OuterHTML("html", &rendered, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	if err != nil {
		return fmt.Errorf("failed to parse rendered HTML: %w", err)
	}

	record.DynamicLinks = extractLinks(doc, target)

	if dynamic := extractMainContent(doc); utf8.RuneCountInString(dynamic) > utf8.RuneCountInString(record.ContentText) {
		record.ContentText = dynamic
	}
	return nil
}
