package registry

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"corpscraper/lib/scrapers/opencorp"
	"corpscraper/lib/similarity"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/registry")

// Dossier is everything scraped about one company in one pass. Filings
// and events are best-effort: their absence never fails the dossier.
type Dossier struct {
	Company  opencorp.CompanyRecord
	Officers []opencorp.OfficerRecord
	Filings  []opencorp.FilingRecord
	Events   []opencorp.EventRecord
}

type Options struct {
	// jurisdiction code forwarded to searches, e.g. "us_ks"
	Jurisdiction string
	// similarity scorer for near-exact result filtering; nil uses the
	// default
	Scorer similarity.Scorer
	// also scrape the filing history (one extra fetch per filing)
	IncludeFilings bool
	// also scrape the events timeline
	IncludeEvents bool
	// follow result pagination up to PageLimit
	FollowPages bool
	PageLimit   int
}

// Service ties the scraping client to its persistence collaborators.
// Store and writer are optional: a nil writer skips workbook output and
// a nil store skips the database.
type Service struct {
	client *opencorp.Client
	store  *Store
	writer DossierWriter
}

func NewService(client *opencorp.Client, store *Store, writer DossierWriter) Service {
	return Service{
		client: client,
		store:  store,
		writer: writer,
	}
}

// ScrapeCompany builds the dossier for a single company detail page and
// hands it to the configured persistence collaborators.
func (s Service) ScrapeCompany(ctx context.Context, companyURL string, opts Options) (Dossier, error) {
	ctx, span := tracer.Start(ctx, "ScrapeCompany")
	defer span.End()
	span.SetAttributes(attribute.String("url", companyURL))

	doc, err := s.client.Fetch(ctx, companyURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Dossier{}, err
	}

	company, err := s.client.ExtractCompany(doc, companyURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Dossier{}, err
	}

	dossier := Dossier{
		Company:  company,
		Officers: s.client.ExtractOfficers(doc),
	}

	if opts.IncludeFilings {
		dossier.Filings, err = s.client.ExtractFilings(ctx, doc)
		if err != nil {
			slog.Warn("failed to scrape filing history",
				"company", company.CompanyNumber, "err", err)
			dossier.Filings = nil
		}
	}
	if opts.IncludeEvents {
		dossier.Events, err = s.client.ExtractEvents(ctx, doc)
		if err != nil {
			// companies without an events timeline are common
			var mismatch *opencorp.SchemaMismatchError
			if !errors.As(err, &mismatch) {
				slog.Warn("failed to scrape events timeline",
					"company", company.CompanyNumber, "err", err)
			}
			dossier.Events = nil
		}
	}

	if err := s.persist(ctx, dossier); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Dossier{}, err
	}
	return dossier, nil
}

func (s Service) persist(ctx context.Context, dossier Dossier) error {
	if s.store != nil {
		if err := s.store.Put(ctx, dossier, time.Now()); err != nil {
			return err
		}
	}
	if s.writer != nil {
		if err := s.writer.Write(dossier); err != nil {
			return err
		}
	}
	return nil
}

// FindCompany resolves a free-text company name to the matching detail
// page urls, filtered near-exact against the name.
func (s Service) FindCompany(ctx context.Context, name string, opts Options) ([]string, error) {
	ctx, span := tracer.Start(ctx, "FindCompany")
	defer span.End()
	span.SetAttributes(attribute.String("name", name))

	searchURL := s.client.BuildSearchURL(name, opencorp.SearchOptions{
		Jurisdiction: opts.Jurisdiction,
	})
	urls, err := s.client.CollectURLs(ctx, searchURL, opencorp.ListingOptions{
		SimilarityQuery: name,
		Scorer:          opts.Scorer,
		Follow:          opts.FollowPages,
		PageLimit:       opts.PageLimit,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return sortedURLs(urls), nil
}

// ScrapeByName searches for a company name and scrapes every matching
// detail page. A page that fails to fetch or no longer matches the
// expected markup is reported and skipped; the remaining matches still
// get scraped.
func (s Service) ScrapeByName(ctx context.Context, name string, opts Options) ([]Dossier, error) {
	ctx, span := tracer.Start(ctx, "ScrapeByName")
	defer span.End()

	urls, err := s.FindCompany(ctx, name, opts)
	if err != nil {
		return nil, err
	}

	var dossiers []Dossier
	for _, companyURL := range urls {
		if err := s.client.Throttle(ctx); err != nil {
			return nil, err
		}
		dossier, err := s.ScrapeCompany(ctx, companyURL, opts)
		if err != nil {
			if pageScoped(err) {
				slog.Warn("skipping company page, continuing with remaining matches",
					"query", name, "url", companyURL, "err", err)
				continue
			}
			return nil, err
		}
		dossiers = append(dossiers, dossier)
	}
	return dossiers, nil
}

// pageScoped reports whether an error condemns only the page it came
// from, as opposed to persistence or cancellation failures that condemn
// the whole run.
func pageScoped(err error) bool {
	var mismatch *opencorp.SchemaMismatchError
	var fetchErr *opencorp.FetchError
	return errors.As(err, &mismatch) || errors.As(err, &fetchErr)
}

type BatchEntry struct {
	Query    string
	Dossiers []Dossier
	Err      error
}

type BatchReport struct {
	Started  time.Time
	Finished time.Time
	Entries  []BatchEntry
}

func (r BatchReport) Failed() int {
	count := 0
	for _, entry := range r.Entries {
		if entry.Err != nil {
			count++
		}
	}
	return count
}

// ScrapeBatch runs ScrapeByName over a list of company names. A failure
// is contained to its own entry; the batch always runs to completion
// unless the context is cancelled.
func (s Service) ScrapeBatch(ctx context.Context, names []string, opts Options) (BatchReport, error) {
	ctx, span := tracer.Start(ctx, "ScrapeBatch")
	defer span.End()
	span.SetAttributes(attribute.Int("companies", len(names)))

	report := BatchReport{Started: time.Now()}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		dossiers, err := s.ScrapeByName(ctx, name, opts)
		if err != nil {
			slog.Warn("batch entry failed", "query", name, "err", err)
		}
		report.Entries = append(report.Entries, BatchEntry{
			Query:    name,
			Dossiers: dossiers,
			Err:      err,
		})
	}
	report.Finished = time.Now()
	return report, nil
}

// OfficerNetwork expands a company page into the companies its officers
// are attached to.
func (s Service) OfficerNetwork(ctx context.Context, companyURL, position string, opts Options) (opencorp.OfficerNetwork, error) {
	ctx, span := tracer.Start(ctx, "OfficerNetwork")
	defer span.End()

	network, err := s.client.CrawlOfficerNetwork(ctx, companyURL, opencorp.CrawlOptions{
		Jurisdiction: opts.Jurisdiction,
		Position:     position,
		Scorer:       opts.Scorer,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
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
