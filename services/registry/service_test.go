package registry

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"corpscraper/lib/scrapers/opencorp"
	"corpscraper/lib/testutil"
	"corpscraper/services/registry/db"

	"github.com/stretchr/testify/require"
)

const companyPage = `<html><body>
<h1 itemprop="name">Acme LLC</h1>
<dl>
<dd class="company_number">KS1234567</dd>
<dd class="status">Active</dd>
<dd><span itemprop="foundingDate">4 Jul 2021</span></dd>
<dd class="company_type">Limited Liability Company - Domestic</dd>
<dd><a class="jurisdiction_filter us" href="/companies?jurisdiction_code=us_ks">Kansas (US)</a></dd>
<dd class="registered_address adr"><ul><li>100 Main St</li><li>Kansas City</li></ul></dd>
<dd class="agent_name">Jane Smith</dd>
<dd class="business_classification_text">Real estate holding</dd>
<dd class="registry_page"><a href="https://sos.ks.gov/entity/KS1234567">registry</a></dd>
</dl>
<ul><li>organizer <a href="/officers/org">Jane Smith</a></li></ul>
<ul><li><a class="officer" href="/officers/1">Jane Smith</a>, agent</li></ul>
</body></html>`

func searchResultPage(companies ...[2]string) string {
	page := "<html><body><ul>"
	for _, company := range companies {
		page += fmt.Sprintf(`<li><a class="company_search_result" href="%s">%s</a></li>`,
			company[1], company[0])
	}
	return page + "</ul></body></html>"
}

func setupTestService(t *testing.T, handler http.Handler) (Service, string) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := opencorp.NewClient(opencorp.ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/registry",
		DbSchema: db.Schema,
	})
	t.Cleanup(cleanup)
	store := NewStore(setup.DB)

	outDir := t.TempDir()
	service := NewService(client, &store, CSVWriter{Root: outDir})
	return service, outDir
}

func registryHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/companies":
			switch r.URL.Query().Get("q") {
			case "Acme LLC":
				fmt.Fprint(w, searchResultPage(
					[2]string{"Acme LLC", "/companies/us_ks/KS1234567"},
					[2]string{"Acme Holdings Group", "/companies/us_ks/other"},
				))
			default:
				http.Error(w, "search exploded", http.StatusInternalServerError)
			}
		case "/companies/us_ks/KS1234567":
			fmt.Fprint(w, companyPage)
		default:
			http.NotFound(w, r)
		}
	})
}

func TestServiceScrapeByName(t *testing.T) {
	service, outDir := setupTestService(t, registryHandler())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	dossiers, err := service.ScrapeByName(ctx, "Acme LLC", Options{Jurisdiction: "us_ks"})
	require.NoError(t, err)
	require.Len(t, dossiers, 1)

	company := dossiers[0].Company
	require.Equal(t, "Acme LLC", company.Name)
	require.Equal(t, "KS1234567", company.CompanyNumber)
	require.Equal(t, "2021-07-04", company.IncDate)
	require.Len(t, dossiers[0].Officers, 1)

	stored, err := service.store.Get(ctx, "KS1234567", "Kansas (US)")
	require.NoError(t, err)
	require.Equal(t, company.Fields(), stored.Fields)

	_, err = os.Stat(filepath.Join(outDir, "acme_llc", "company_data.csv"))
	require.NoError(t, err)
}

func TestServiceScrapeByNameSkipsBrokenPages(t *testing.T) {
	service, _ := setupTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/companies":
			fmt.Fprint(w, searchResultPage(
				[2]string{"Acme LLC", "/companies/us_ks/broken"},
				[2]string{"Acme LLC", "/companies/us_ks/gone"},
				[2]string{"Acme LLC", "/companies/us_ks/KS1234567"},
			))
		case "/companies/us_ks/broken":
			// matched page that no longer carries company markup
			fmt.Fprint(w, "<html><body><p>page under maintenance</p></body></html>")
		case "/companies/us_ks/KS1234567":
			fmt.Fprint(w, companyPage)
		default:
			http.NotFound(w, r)
		}
	}))

	dossiers, err := service.ScrapeByName(context.Background(), "Acme LLC", Options{
		Jurisdiction: "us_ks",
	})
	require.NoError(t, err)

	// the unparsable and the unreachable match are skipped, the good
	// one still comes back
	require.Len(t, dossiers, 1)
	require.Equal(t, "KS1234567", dossiers[0].Company.CompanyNumber)
}

func TestServiceFindCompanyUsesGivenScorer(t *testing.T) {
	service, _ := setupTestService(t, registryHandler())

	keepEverything := func(a, b string) float64 { return 100 }
	urls, err := service.FindCompany(context.Background(), "Acme LLC", Options{
		Jurisdiction: "us_ks",
		Scorer:       keepEverything,
	})
	require.NoError(t, err)
	// the permissive scorer keeps the dissimilar candidate the default
	// near-exact policy would drop
	require.Len(t, urls, 2)
}

func TestServiceScrapeBatchContainsFailures(t *testing.T) {
	service, _ := setupTestService(t, registryHandler())

	ctx := context.Background()
	report, err := service.ScrapeBatch(ctx, []string{"Acme LLC", "Broken Query Co"}, Options{
		Jurisdiction: "us_ks",
	})
	require.NoError(t, err)

	require.Len(t, report.Entries, 2)
	require.Equal(t, 1, report.Failed())

	require.NoError(t, report.Entries[0].Err)
	require.Len(t, report.Entries[0].Dossiers, 1)
	require.Error(t, report.Entries[1].Err)
	require.Empty(t, report.Entries[1].Dossiers)
}

func TestServiceScrapeBatchStopsOnCancel(t *testing.T) {
	service, _ := setupTestService(t, registryHandler())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := service.ScrapeBatch(ctx, []string{"Acme LLC"}, Options{Jurisdiction: "us_ks"})
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, report.Entries)
}

func TestServiceScrapeCompanyPropagatesExtractionFailure(t *testing.T) {
	service, _ := setupTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// page with no company name at all
		fmt.Fprint(w, "<html><body><p>maintenance</p></body></html>")
	}))

	_, err := service.ScrapeCompany(context.Background(), service.client.BaseUrl.String()+"/companies/us_ks/x", Options{})
	require.Error(t, err)
}

func TestFormatBatchReport(t *testing.T) {
	report := BatchReport{
		Started:  time.Unix(1700000000, 0),
		Finished: time.Unix(1700000300, 0),
		Entries: []BatchEntry{
			{Query: "Acme LLC", Dossiers: []Dossier{{}}},
			{Query: "Broken Co", Err: fmt.Errorf("search exploded")},
		},
	}

	body := formatBatchReport(report)
	require.Contains(t, body, "ok      Acme LLC: 1 companies")
	require.Contains(t, body, "FAILED  Broken Co: search exploded")
}
