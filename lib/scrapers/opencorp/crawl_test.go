package opencorp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCrawlOfficerNetwork(t *testing.T) {
	var searches []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/companies/us_ks/start":
			fixture := forProfitFixture()
			fixture.Officers = [][3]string{
				{"Jane Smith", "agent", "/officers/1"},
				{"John Roe", "organizer", "/officers/2"},
				// repeated officer entry, must search once
				{"Jane Smith", "organizer", "/officers/1"},
			}
			fmt.Fprint(w, fixture.html())
		case "/officers":
			query := r.URL.Query().Get("q")
			searches = append(searches, query)
			switch query {
			case "Jane Smith":
				fmt.Fprint(w, listingPage("",
					[2]string{"Acme LLC", "/companies/us_ks/start"},
					[2]string{"Shared Ventures LLC", "/companies/us_ks/77"},
				))
			case "John Roe":
				fmt.Fprint(w, listingPage("",
					[2]string{"Shared Ventures LLC", "/companies/us_ks/77"},
				))
			default:
				http.NotFound(w, r)
			}
		default:
			http.NotFound(w, r)
		}
	})
	client, server := newServerClient(t, handler)

	network, err := client.CrawlOfficerNetwork(context.Background(),
		server.URL+"/companies/us_ks/start", CrawlOptions{Jurisdiction: "us_ks"})
	require.NoError(t, err)

	require.Equal(t, OfficerNetwork{
		"Jane Smith": {
			server.URL + "/companies/us_ks/77",
			server.URL + "/companies/us_ks/start",
		},
		"John Roe": {
			server.URL + "/companies/us_ks/77",
		},
	}, network)
	require.Equal(t, []string{"Jane Smith", "John Roe"}, searches)
}

func TestCrawlOfficerNetworkSingleHop(t *testing.T) {
	var companyFetches int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/companies/us_ks/start":
			companyFetches++
			fixture := forProfitFixture()
			fixture.Officers = [][3]string{{"Jane Smith", "agent", "/officers/1"}}
			fmt.Fprint(w, fixture.html())
		case "/officers":
			// results reference other company pages; a single-hop walk
			// must not fetch them
			fmt.Fprint(w, listingPage("",
				[2]string{"Other LLC", "/companies/us_ks/2"},
				[2]string{"Third LLC", "/companies/us_ks/3"},
			))
		default:
			t.Errorf("unexpected fetch of %s", r.URL.Path)
			http.NotFound(w, r)
		}
	})
	client, server := newServerClient(t, handler)

	network, err := client.CrawlOfficerNetwork(context.Background(),
		server.URL+"/companies/us_ks/start", CrawlOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, companyFetches)
	require.Equal(t, []string{
		server.URL + "/companies/us_ks/2",
		server.URL + "/companies/us_ks/3",
	}, network["Jane Smith"])
}

func TestCrawlOfficerNetworkStartPageUnreachable(t *testing.T) {
	client, server := newServerClient(t, http.NotFoundHandler())

	_, err := client.CrawlOfficerNetwork(context.Background(),
		server.URL+"/companies/us_ks/missing", CrawlOptions{})
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
}

func TestCrawlOfficerNetworkSkipsFailedSearch(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/companies/us_ks/start":
			fixture := forProfitFixture()
			fixture.Officers = [][3]string{
				{"Jane Smith", "agent", "/officers/1"},
				{"John Roe", "organizer", "/officers/2"},
			}
			fmt.Fprint(w, fixture.html())
		case "/officers":
			if r.URL.Query().Get("q") == "Jane Smith" {
				http.Error(w, "rate limited", http.StatusTooManyRequests)
				return
			}
			fmt.Fprint(w, listingPage("",
				[2]string{"Roe Holdings LLC", "/companies/us_ks/9"},
			))
		default:
			http.NotFound(w, r)
		}
	})
	client, server := newServerClient(t, handler)

	network, err := client.CrawlOfficerNetwork(context.Background(),
		server.URL+"/companies/us_ks/start", CrawlOptions{})
	require.NoError(t, err)

	// the failed officer is skipped, the rest of the walk continues
	require.NotContains(t, network, "Jane Smith")
	require.Equal(t, []string{server.URL + "/companies/us_ks/9"}, network["John Roe"])
}
