package opencorp

import (
	"strings"

	"corpscraper/lib/textutil"
)

type SearchOptions struct {
	// jurisdiction code, e.g. "us_mo" or "us_ks"; empty searches everywhere
	Jurisdiction string
	// search the officer index instead of the company index
	Officers bool
	// officer position filter ("agent", "organizer", ...), officers only
	Position string
}

// BuildSearchURL turns a free-text company or officer name into the
// canonical search url. The function is deterministic: equal inputs
// always produce the byte-identical string, so results are cacheable and
// tests are reproducible. Segment order is fixed: search kind,
// jurisdiction, position (officer searches only), query term.
func (c *Client) BuildSearchURL(query string, opts SearchOptions) string {
	var b strings.Builder
	b.WriteString(c.BaseUrl.String())
	if !strings.HasSuffix(c.BaseUrl.String(), "/") {
		b.WriteString("/")
	}

	if opts.Officers {
		b.WriteString("officers?")
	} else {
		b.WriteString("companies?")
	}

	b.WriteString("jurisdiction_code=")
	b.WriteString(opts.Jurisdiction)
	b.WriteString("&")

	if opts.Officers && opts.Position != "" {
		b.WriteString("position=")
		b.WriteString(opts.Position)
		b.WriteString("&")
	}

	term := strings.ReplaceAll(textutil.RemoveSymbols(query), " ", "+")
	b.WriteString("q=")
	b.WriteString(term)
	b.WriteString("&utf8=%E2%9C%93")

	return b.String()
}
