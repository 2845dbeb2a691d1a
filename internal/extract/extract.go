package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bottomfeeder/internal/config"
)

// Fields holds the three values scraped from an article page.
type Fields struct {
	Title           string
	PublicationDate string
	BodyText        string
}

var (
	ErrNoTitle      = errors.New("title element not found")
	ErrNoDate       = errors.New("publication date element not found")
	ErrNoBody       = errors.New("article body container not found")
	ErrNoParagraphs = errors.New("no paragraphs found in article body")
)

// Extract pulls the title, publication date, and body text out of raw HTML
// using the configured selectors. The first match wins for each selector.
// A missing selector fails the whole extraction; there are no fallbacks and
// no normalization beyond trimming.
func Extract(html string, sel config.Selectors) (*Fields, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	title := doc.Find(sel.Title).First()
	if title.Length() == 0 {
		return nil, fmt.Errorf("%w (selector %q)", ErrNoTitle, sel.Title)
	}

	date := doc.Find(sel.Date).First()
	if date.Length() == 0 {
		return nil, fmt.Errorf("%w (selector %q)", ErrNoDate, sel.Date)
	}

	body := doc.Find(sel.Body).First()
	if body.Length() == 0 {
		return nil, fmt.Errorf("%w (selector %q)", ErrNoBody, sel.Body)
	}

	paragraphs := body.Find(sel.Paragraph)
	if paragraphs.Length() == 0 {
		return nil, fmt.Errorf("%w (selector %q)", ErrNoParagraphs, sel.Paragraph)
	}

	var parts []string
	paragraphs.Each(func(_ int, p *goquery.Selection) {
		parts = append(parts, strings.TrimSpace(p.Text()))
	})

	return &Fields{
		Title:           strings.TrimSpace(title.Text()),
		PublicationDate: strings.TrimSpace(date.Text()),
		BodyText:        strings.Join(parts, "\n\n"),
	}, nil
}
