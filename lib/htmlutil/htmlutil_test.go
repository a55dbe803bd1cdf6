package htmlutil

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
<div>
	<a class="company search-result" href="/companies/us_ks/1">Acme  LLC</a>
	<a class="company search-result" href="https://example.org/companies/2"><span>Beta</span> Corp</a>
</div>
</body></html>`

func TestGetAnchors(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	base, err := url.Parse("https://opencorporates.com/search?q=acme")
	require.NoError(t, err)

	anchors := GetAnchors(doc.Find("a.company"), base)
	require.Equal(t, []Anchor{
		{Name: "Acme LLC", Href: "https://opencorporates.com/companies/us_ks/1"},
		{Name: "Beta Corp", Href: "https://example.org/companies/2"},
	}, anchors)
}

func TestOwnText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<li><a class="officer" href="/officers/1">Jane Doe</a>, agent</li>`,
	))
	require.NoError(t, err)

	li := doc.Find("li").Nodes[0]
	require.Equal(t, ", agent", OwnText(li))
}
