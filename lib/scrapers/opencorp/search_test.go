package opencorp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildSearchURLCompanies(t *testing.T) {
	client := newTestClient(t)

	url := client.BuildSearchURL("Acme LLC", SearchOptions{Jurisdiction: "us_ks"})
	require.Equal(t,
		"https://opencorporates.com/companies?jurisdiction_code=us_ks&q=Acme+LLC&utf8=%E2%9C%93",
		url,
	)
}

func TestBuildSearchURLOfficers(t *testing.T) {
	client := newTestClient(t)

	url := client.BuildSearchURL("Jane Smith", SearchOptions{
		Jurisdiction: "us_mo",
		Officers:     true,
		Position:     "agent",
	})
	require.Equal(t,
		"https://opencorporates.com/officers?jurisdiction_code=us_mo&position=agent&q=Jane+Smith&utf8=%E2%9C%93",
		url,
	)
}

func TestBuildSearchURLPositionIgnoredForCompanies(t *testing.T) {
	client := newTestClient(t)

	url := client.BuildSearchURL("Acme", SearchOptions{
		Jurisdiction: "us_ks",
		Position:     "agent",
	})
	require.NotContains(t, url, "position=")
}

func TestBuildSearchURLStripsPunctuation(t *testing.T) {
	client := newTestClient(t)

	url := client.BuildSearchURL(`Smith & Sons, Inc. ("Holdings")`, SearchOptions{Jurisdiction: "us_ks"})
	require.Equal(t,
		"https://opencorporates.com/companies?jurisdiction_code=us_ks&q=Smith++Sons+Inc+Holdings&utf8=%E2%9C%93",
		url,
	)
}

func TestBuildSearchURLDeterministic(t *testing.T) {
	client := newTestClient(t)

	opts := SearchOptions{Jurisdiction: "us_ks", Officers: true, Position: "organizer"}
	first := client.BuildSearchURL("Jane Smith", opts)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, client.BuildSearchURL("Jane Smith", opts))
	}
}
