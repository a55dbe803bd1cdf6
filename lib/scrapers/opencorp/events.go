package opencorp

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

const (
	selEventsMore     = "div.see-more a"
	selEventTimelineD = "div.oc-events-timeline dt"
	selEventTimelineA = "div.oc-events-timeline a"
)

type EventRecord struct {
	// as rendered by the registry, not normalized
	Date        string
	Description string
}

// ExtractEvents follows the "see more" link on a company page to its
// events timeline and zips dates with descriptions.
func (c *Client) ExtractEvents(ctx context.Context, doc *goquery.Document) ([]EventRecord, error) {
	ctx, span := tracer.Start(ctx, "client:ExtractEvents")
	defer span.End()

	href, ok := doc.Find(selEventsMore).First().Attr("href")
	if !ok {
		return nil, &SchemaMismatchError{
			URL:      docURL(doc),
			Field:    "events_link",
			Selector: selEventsMore,
		}
	}

	if err := c.Throttle(ctx); err != nil {
		return nil, err
	}
	timeline, err := c.Fetch(ctx, c.ResolveURL(href))
	if err != nil {
		return nil, err
	}

	dates := collectTexts(timeline.Find(selEventTimelineD))
	descriptions := collectTexts(timeline.Find(selEventTimelineA))

	count := len(dates)
	if len(descriptions) < count {
		count = len(descriptions)
	}
	events := make([]EventRecord, 0, count)
	for i := 0; i < count; i++ {
		events = append(events, EventRecord{
			Date:        dates[i],
			Description: descriptions[i],
		})
	}
	return events, nil
}
