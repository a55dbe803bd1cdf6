package opencorp

import (
	"bytes"
	"context"
	"net/url"
	"time"

	"corpscraper/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

const DefaultBaseURL = "https://opencorporates.com"

// the browser-like header bundle attached to every request. registry
// pages are served differently (or not at all) to obvious bots.
var defaultHeaders = map[string]string{
	"authority":                 "opencorporates.com",
	"sec-ch-ua":                 `"Chromium";v="92", " Not A;Brand";v="99", "Google Chrome";v="92"`,
	"sec-ch-ua-mobile":          "?0",
	"upgrade-insecure-requests": "1",
	"user-agent":                "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/92.0.4515.131 Safari/537.36",
	"accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.9",
	"sec-fetch-site":            "same-origin",
	"sec-fetch-mode":            "navigate",
	"sec-fetch-user":            "?1",
	"sec-fetch-dest":            "document",
	"accept-language":           "en-US,en;q=0.9",
}

type ClientOptions struct {
	// defaults to DefaultBaseURL
	BaseUrl string
	// static session cookie, passed through verbatim. no session
	// management happens beyond this.
	SessionCookie string
	// merged over the default header bundle
	Headers map[string]string
	// courtesy spacing applied between traversal requests
	Throttle Throttle
	// defaults to 30s
	Timeout time.Duration
}

// Client is constructed once per run and immutable thereafter.
type Client struct {
	BaseUrl  *url.URL
	Http     *resty.Client
	throttle Throttle
}

func NewClient(opts ClientOptions) (*Client, error) {
	base := opts.BaseUrl
	if base == "" {
		base = DefaultBaseURL
	}
	baseUrl, err := url.Parse(base)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(base)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeaders(defaultHeaders)
	for k, v := range opts.Headers {
		client.SetHeader(k, v)
	}
	if opts.SessionCookie != "" {
		client.SetHeader("cookie", opts.SessionCookie)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 30
	}
	client.SetTimeout(timeout)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))

	telemetry.InstrumentResty(client, "scrapers/opencorp/http")

	return &Client{
		BaseUrl:  baseUrl,
		Http:     client,
		throttle: opts.Throttle,
	}, nil
}

// Fetch retrieves a page and parses it into a document tree. It does not
// retry and it does not throttle; traversal loops call Throttle
// themselves between successive fetches.
func (c *Client) Fetch(ctx context.Context, pageUrl string) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "client:Fetch")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(pageUrl)
	if err != nil {
		span.SetStatus(codes.Error, "request failed")
		return nil, &FetchError{URL: pageUrl, Err: err}
	}
	if !res.IsSuccess() {
		span.SetStatus(codes.Error, "non-2xx status")
		return nil, &FetchError{URL: pageUrl, StatusCode: res.StatusCode()}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, &FetchError{URL: pageUrl, Err: err}
	}
	if parsed, err := url.Parse(res.Request.URL); err == nil {
		doc.Url = parsed
	}
	return doc, nil
}

// Throttle waits out the client's configured courtesy delay.
func (c *Client) Throttle(ctx context.Context) error {
	return c.throttle.Wait(ctx)
}

// ResolveURL resolves a possibly-relative registry href to an absolute url.
func (c *Client) ResolveURL(href string) string {
	link, err := url.Parse(href)
	if err != nil {
		return href
	}
	return c.BaseUrl.ResolveReference(link).String()
}
