package opencorp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"corpscraper/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	selFilingLink   = "a.filing"
	selFilingDate   = "div.filing div"
	selFilingNumber = "dd.filing_number"
)

type FilingRecord struct {
	Description string
	// ISO form
	Date string
	URL  string
	// SentinelNoFilingID when the detail page yields none
	FilingID string
}

// ExtractFilings collects the filing list from a company page. Resolving
// each filing identifier costs one extra throttled fetch of the filing's
// detail page, which makes this the dominant cost for companies with long
// filing histories. A failed detail fetch substitutes the sentinel and
// moves on rather than aborting the extraction.
func (c *Client) ExtractFilings(ctx context.Context, doc *goquery.Document) ([]FilingRecord, error) {
	ctx, span := tracer.Start(ctx, "client:ExtractFilings")
	defer span.End()

	anchors := htmlutil.GetAnchors(doc.Find(selFilingLink), c.BaseUrl)

	var dates []string
	for _, raw := range collectTexts(doc.Find(selFilingDate)) {
		normalized, err := NormalizeDate(raw)
		if err != nil {
			return nil, fmt.Errorf("filing date: %w", err)
		}
		dates = append(dates, normalized)
	}
	if len(dates) != len(anchors) {
		return nil, &SchemaMismatchError{
			URL:      docURL(doc),
			Field:    "filings",
			Selector: selFilingLink + " / " + selFilingDate,
		}
	}

	filings := make([]FilingRecord, 0, len(anchors))
	for i, anchor := range anchors {
		if err := c.Throttle(ctx); err != nil {
			return nil, err
		}

		filings = append(filings, FilingRecord{
			Description: anchor.Name,
			Date:        dates[i],
			URL:         anchor.Href,
			FilingID:    c.resolveFilingID(ctx, anchor.Href),
		})
	}
	return filings, nil
}

func (c *Client) resolveFilingID(ctx context.Context, filingURL string) string {
	detail, err := c.Fetch(ctx, filingURL)
	if err != nil {
		slog.Warn("failed to fetch filing detail page", "url", filingURL, "err", err)
		return SentinelNoFilingID
	}
	id := strings.TrimSpace(detail.Find(selFilingNumber).First().Text())
	if id == "" {
		return SentinelNoFilingID
	}
	return id
}
