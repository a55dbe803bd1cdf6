package opencorp

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"corpscraper/lib/htmlutil"
	"corpscraper/lib/similarity"
	"corpscraper/lib/textutil"
)

const (
	selCompanyLink = `a[class*="company"]`
	selNextPage    = `a[rel="next nofollow"]:contains("Next")`
)

// DefaultSimilarityThreshold is the near-exact acceptance score for
// filtered listings. This is a disambiguation filter for a known name
// against a noisy result page, not a discovery ranking.
const DefaultSimilarityThreshold = 99

var nextPageRegex = regexp.MustCompile(`page=(\d+)`)

type ListingOptions struct {
	// when non-empty, only candidates scoring at or above Threshold
	// against this query are kept
	SimilarityQuery string
	// defaults to the wratio scorer
	Scorer similarity.Scorer
	// defaults to DefaultSimilarityThreshold
	Threshold float64
	// follow "next page" links
	Follow bool
	// courtesy delay between followed pages; zero falls back to the
	// client's configured throttle
	Delay time.Duration
	// highest page number to visit; mandatory when Follow is set
	PageLimit int
}

// CollectURLs fetches a search-result page and returns the set of company
// detail urls it references, resolved absolute and deduplicated.
// Pagination is an explicit loop, never recursion: result listings can
// run long. Follow without a page limit is rejected before any network
// activity since the remote page count is unbounded.
func (c *Client) CollectURLs(ctx context.Context, searchURL string, opts ListingOptions) (map[string]struct{}, error) {
	ctx, span := tracer.Start(ctx, "client:CollectURLs")
	defer span.End()

	if opts.Follow && opts.PageLimit <= 0 {
		return nil, &ConfigurationError{
			Reason: "pagination follow requires a positive page limit",
		}
	}
	scorer := opts.Scorer
	if scorer == nil {
		scorer = similarity.WRatio
	}
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = DefaultSimilarityThreshold
	}
	query := textutil.NormalizeForMatch(opts.SimilarityQuery)

	urls := map[string]struct{}{}
	current := searchURL
	for {
		doc, err := c.Fetch(ctx, current)
		if err != nil {
			return nil, err
		}

		for _, anchor := range htmlutil.GetAnchors(doc.Find(selCompanyLink), c.BaseUrl) {
			if query != "" {
				score := scorer(textutil.NormalizeForMatch(anchor.Name), query)
				if score < threshold {
					continue
				}
			}
			urls[anchor.Href] = struct{}{}
		}

		if !opts.Follow {
			return urls, nil
		}

		next, ok := doc.Find(selNextPage).First().Attr("href")
		if !ok {
			return urls, nil
		}
		groups := nextPageRegex.FindStringSubmatch(next)
		if groups == nil {
			slog.Warn("next-page link without a page number, stopping", "href", next)
			return urls, nil
		}
		page, err := strconv.Atoi(groups[1])
		if err != nil || page > opts.PageLimit {
			return urls, nil
		}

		if opts.Delay > 0 {
			if err := (Throttle{Delay: opts.Delay}).Wait(ctx); err != nil {
				return nil, err
			}
		} else if err := c.Throttle(ctx); err != nil {
			return nil, err
		}
		current = c.ResolveURL(next)
	}
}
