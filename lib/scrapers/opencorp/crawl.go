package opencorp

import (
	"context"
	"log/slog"
	"sort"

	"corpscraper/lib/similarity"
)

// OfficerNetwork maps an officer's name to the distinct company urls
// found by searching that name.
type OfficerNetwork map[string][]string

type CrawlOptions struct {
	// passed through to the per-officer searches
	Jurisdiction string
	Position     string
	// when non-empty, per-officer results are filtered near-exact
	// against this query
	SimilarityQuery string
	Scorer          similarity.Scorer
}

// the walk is modelled as frontier + visited even though the contract is
// a single hop: extending to multi-hop only means raising this bound and
// feeding discovered companies back into the frontier. The single-hop
// walk provably terminates (finite officer list, single result page per
// officer), which is why no node-count bound exists here.
const crawlDepthLimit = 1

// CrawlOfficerNetwork expands a company into the other companies its
// officers are attached to: fetch the start page, search each distinct
// officer name on the officer index, and collect one page of results per
// officer. A failed officer search is reported and skipped, never
// silently dropped.
func (c *Client) CrawlOfficerNetwork(ctx context.Context, startURL string, opts CrawlOptions) (OfficerNetwork, error) {
	ctx, span := tracer.Start(ctx, "client:CrawlOfficerNetwork")
	defer span.End()

	network := OfficerNetwork{}
	visited := map[string]struct{}{}
	frontier := []string{startURL}

	for depth := 0; depth < crawlDepthLimit && len(frontier) > 0; depth++ {
		next := frontier
		frontier = nil

		for _, companyURL := range next {
			if _, seen := visited[companyURL]; seen {
				continue
			}
			visited[companyURL] = struct{}{}

			doc, err := c.Fetch(ctx, companyURL)
			if err != nil {
				if companyURL == startURL {
					return nil, err
				}
				slog.Warn("skipping unreachable company page", "url", companyURL, "err", err)
				continue
			}

			for _, officer := range c.ExtractOfficers(doc) {
				if _, done := network[officer.Name]; done {
					continue
				}

				if err := c.Throttle(ctx); err != nil {
					return nil, err
				}

				searchURL := c.BuildSearchURL(officer.Name, SearchOptions{
					Jurisdiction: opts.Jurisdiction,
					Officers:     true,
					Position:     opts.Position,
				})
				urls, err := c.CollectURLs(ctx, searchURL, ListingOptions{
					SimilarityQuery: opts.SimilarityQuery,
					Scorer:          opts.Scorer,
				})
				if err != nil {
					slog.Warn("officer search failed, continuing with remaining officers",
						"officer", officer.Name, "url", searchURL, "err", err)
					continue
				}

				network[officer.Name] = sortedURLs(urls)
			}
		}
	}

	return network, nil
}

func sortedURLs(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for u := range set {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}
