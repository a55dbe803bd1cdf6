package opencorp

import "fmt"

// FetchError is a request that came back non-2xx or with a body that
// could not be parsed as markup. The fetcher never retries; retry policy,
// if any, belongs to the caller.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// SchemaMismatchError means a selector documented as mandatory returned
// no match: the page no longer looks like the era of the site this
// package targets. Fatal for the page, not for a broader crawl.
type SchemaMismatchError struct {
	URL      string
	Field    string
	Selector string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf(
		"page %s does not match the expected markup: field %q (selector %q) not found",
		e.URL, e.Field, e.Selector,
	)
}

// ConfigurationError is rejected before any network activity happens.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid configuration: " + e.Reason
}
