package opencorp

import (
	"fmt"
	"log/slog"
	"strings"

	"corpscraper/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// The selectors below are the versioned markup contract with the registry
// site. When the site drifts, this block (and only this block) changes.
const (
	selCompanyName       = `h1[itemprop="name"]`
	selCompanyNumber     = "dd.company_number"
	selStatus            = "dd.status"
	selFoundingDate      = `span[itemprop="foundingDate"]`
	selCompanyType       = "dd.company_type"
	selJurisdiction      = "a.jurisdiction_filter"
	selRegisteredAddress = "dd.registered_address.adr li"
	selAgentName         = "dd.agent_name"
	selAgentAddress      = "dd.agent_address"
	selBusinessDesc      = "dd.business_classification_text"
	selPreviousNames     = "dd.previous_names li"
	selOrganizer         = `li:containsOwn("organizer") a`
	selDissolution       = `dd[class*="dissolution"]`
	selRegistryPage      = "dd.registry_page a"
	selSourceFallback    = "div#source a.url.external"
	selSupplierMarker    = `div[class*="government_approved_supplier"] a`
	selSupplierAddr      = `a:contains("Company Address")`
	selSupplierOffice    = `a:contains("Head Office Address")`
	selIdentifiers       = "a.identifier"
	selOfficerLink       = `a[class*="officer"]`
)

// Sentinels distinguish "checked and absent" from "not yet checked".
const (
	SentinelNoDescription = "No description found"
	SentinelNoneFound     = "None Found"
	SentinelNotFound      = "Not Found"
	SentinelNoFilingID    = "No ID Found"
)

type EntityKind string

const (
	KindForProfit EntityKind = "for_profit"
	KindNonProfit EntityKind = "non_profit"
)

// company-type labels known to mean a for-profit entity; everything else
// classifies as non-profit.
var forProfitTypes = []string{
	"limited liability company - domestic",
	"kansas for profit corporation",
}

var activeStatuses = map[string]struct{}{
	"Active":                      {},
	"Good Standing":               {},
	"Active And In Good Standing": {},
}

func IsActiveStatus(status string) bool {
	_, ok := activeStatuses[status]
	return ok
}

// SupplierInfo is only present when the government-approved-supplier
// marker exists on the page.
type SupplierInfo struct {
	Address       string
	OfficeAddress string
	OtherIDs      string
}

// CompanyRecord is a fixed core schema plus explicit optional fields
// keyed by entity kind and status class. Optional string fields are empty
// when the variant does not define them; fields with a documented
// sentinel hold the sentinel when checked and absent.
type CompanyRecord struct {
	Name              string
	CompanyNumber     string
	Status            string
	IncDate           string
	CompanyType       string
	Kind              EntityKind
	Jurisdiction      string
	RegisteredAddress string
	OrganizerName     string

	// for-profit only; AgentName also set for a non-profit whose agent
	// address is on record
	AgentName    string
	BusinessDesc string

	// non-profit only
	AgentAddress string

	// non-active statuses only
	DissolveDate string

	PreviousNames []string
	Supplier      *SupplierInfo

	// the registry's own authoritative page for this company
	RegistryPage string
	// the scraped page itself
	SourceURL string
}

func (r CompanyRecord) Active() bool {
	return IsActiveStatus(r.Status)
}

type Field struct {
	Key   string
	Value string
}

// Fields projects the record into the keyed form consumed by persistence
// collaborators, in a stable order. Conditional fields appear only when
// their variant defines them; previous names collapse per the cardinality
// rule (one name is a scalar, several are comma-joined).
func (r CompanyRecord) Fields() []Field {
	fields := []Field{
		{"name", r.Name},
		{"company_number", r.CompanyNumber},
		{"status", r.Status},
		{"inc_date", r.IncDate},
		{"company_type", r.CompanyType},
		{"jurisdiction", r.Jurisdiction},
		{"registered_addr", r.RegisteredAddress},
		{"organizer_name", r.OrganizerName},
	}
	if r.AgentName != "" {
		fields = append(fields, Field{"agent_name", r.AgentName})
	}
	if r.Kind == KindForProfit {
		fields = append(fields, Field{"business_desc", r.BusinessDesc})
	}
	if r.Kind == KindNonProfit {
		fields = append(fields, Field{"agent_address", r.AgentAddress})
	}
	if !r.Active() {
		fields = append(fields, Field{"dissolve_date", r.DissolveDate})
	}
	if len(r.PreviousNames) > 0 {
		fields = append(fields, Field{"previous_names", strings.Join(r.PreviousNames, ", ")})
	}
	if r.Supplier != nil {
		fields = append(fields,
			Field{"is_govt_supplier", "True"},
			Field{"govt_sup_addr", r.Supplier.Address},
			Field{"govt_sup_office_addr", r.Supplier.OfficeAddress},
			Field{"other_ids", r.Supplier.OtherIDs},
		)
	}
	fields = append(fields,
		Field{"registry_page", r.RegistryPage},
		Field{"source_url", r.SourceURL},
	)
	return fields
}

type OfficerRecord struct {
	Name  string
	Title string
	Link  string
}

func classifyKind(companyType string) EntityKind {
	lowered := strings.ToLower(strings.TrimSpace(companyType))
	for _, label := range forProfitTypes {
		if lowered == label {
			return KindForProfit
		}
	}
	return KindNonProfit
}

// requireText extracts the first matching node's trimmed text, failing
// with a schema mismatch when the selector finds nothing.
func requireText(doc *goquery.Document, sourceURL, field, selector string) (string, error) {
	sel := doc.Find(selector)
	if len(sel.Nodes) == 0 {
		return "", &SchemaMismatchError{URL: sourceURL, Field: field, Selector: selector}
	}
	return strings.TrimSpace(sel.First().Text()), nil
}

func collectTexts(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		text := htmlutil.CleanText(s.Text())
		if text != "" {
			out = append(out, text)
		}
	})
	return out
}

// ExtractCompany runs the variant decision procedure over a company page:
// common fields, entity-kind classification, kind-specific fields,
// status-specific fields, previous-names cardinality, supplier detection,
// and the registry source link with its fallback selector.
func (c *Client) ExtractCompany(doc *goquery.Document, sourceURL string) (CompanyRecord, error) {
	record := CompanyRecord{SourceURL: sourceURL}

	name, err := requireText(doc, sourceURL, "name", selCompanyName)
	if err != nil {
		return record, err
	}
	record.Name = name

	record.CompanyNumber, err = requireText(doc, sourceURL, "company_number", selCompanyNumber)
	if err != nil {
		return record, err
	}
	record.Status, err = requireText(doc, sourceURL, "status", selStatus)
	if err != nil {
		return record, err
	}

	incRaw, err := requireText(doc, sourceURL, "inc_date", selFoundingDate)
	if err != nil {
		return record, err
	}
	record.IncDate, err = NormalizeDate(incRaw)
	if err != nil {
		return record, fmt.Errorf("company %s: %w", record.CompanyNumber, err)
	}

	record.CompanyType, err = requireText(doc, sourceURL, "company_type", selCompanyType)
	if err != nil {
		return record, err
	}
	record.Kind = classifyKind(record.CompanyType)

	record.Jurisdiction, err = requireText(doc, sourceURL, "jurisdiction", selJurisdiction)
	if err != nil {
		return record, err
	}
	record.RegisteredAddress = strings.Join(collectTexts(doc.Find(selRegisteredAddress)), ", ")

	organizers := collectTexts(doc.Find(selOrganizer))
	switch len(organizers) {
	case 0:
		record.OrganizerName = SentinelNotFound
	case 1:
		record.OrganizerName = organizers[0]
	default:
		record.OrganizerName = strings.Join(organizers, ",")
	}

	agentNames := collectTexts(doc.Find(selAgentName))
	switch record.Kind {
	case KindForProfit:
		descs := collectTexts(doc.Find(selBusinessDesc))
		if len(descs) == 0 {
			record.BusinessDesc = SentinelNoDescription
		} else {
			record.BusinessDesc = descs[0]
		}
		// an agent is only on record while the company is active
		if record.Active() {
			if len(agentNames) > 0 {
				record.AgentName = agentNames[0]
			} else {
				slog.Warn("active for-profit company without an agent on record",
					"company", record.CompanyNumber, "url", sourceURL)
			}
		}
	case KindNonProfit:
		agentAddrs := collectTexts(doc.Find(selAgentAddress))
		if len(agentAddrs) == 0 {
			record.AgentAddress = SentinelNoneFound
		} else {
			record.AgentAddress = agentAddrs[0]
			if len(agentNames) > 0 {
				record.AgentName = agentNames[0]
			}
		}
	}

	if !record.Active() {
		dissolved := collectTexts(doc.Find(selDissolution))
		if len(dissolved) == 0 {
			record.DissolveDate = SentinelNotFound
		} else {
			record.DissolveDate, err = NormalizeDate(dissolved[0])
			if err != nil {
				return record, fmt.Errorf("company %s: %w", record.CompanyNumber, err)
			}
		}
	}

	record.PreviousNames = collectTexts(doc.Find(selPreviousNames))

	if supplier := extractSupplier(doc); supplier != nil {
		record.Supplier = supplier
	}

	registryPage, ok := doc.Find(selRegistryPage).First().Attr("href")
	if !ok {
		registryPage, ok = doc.Find(selSourceFallback).First().Attr("href")
	}
	if !ok {
		return record, &SchemaMismatchError{
			URL:      sourceURL,
			Field:    "registry_page",
			Selector: selRegistryPage + " | " + selSourceFallback,
		}
	}
	record.RegistryPage = registryPage

	return record, nil
}

func extractSupplier(doc *goquery.Document) *SupplierInfo {
	if len(doc.Find(selSupplierMarker).Nodes) == 0 {
		return nil
	}

	siblingText := func(selector string) string {
		p := doc.Find(selector).First().Parent().NextAllFiltered("p").First()
		return htmlutil.CleanText(p.Text())
	}

	ids := collectTexts(doc.Find(selIdentifiers))
	return &SupplierInfo{
		Address:       siblingText(selSupplierAddr),
		OfficeAddress: siblingText(selSupplierOffice),
		OtherIDs:      strings.Join(ids, ", "),
	}
}

// ExtractOfficers returns the officers listed on a company page. The
// title sits as bare text next to the officer anchor; commas and
// surrounding whitespace are stripped from it.
func (c *Client) ExtractOfficers(doc *goquery.Document) []OfficerRecord {
	var officers []OfficerRecord
	doc.Find(selOfficerLink).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		title := htmlutil.CleanText(strings.ReplaceAll(parentOwnText(s), ",", ""))
		officers = append(officers, OfficerRecord{
			Name:  htmlutil.CleanText(s.Text()),
			Title: title,
			Link:  c.ResolveURL(href),
		})
	})
	return officers
}

func docURL(doc *goquery.Document) string {
	if doc.Url == nil {
		return ""
	}
	return doc.Url.String()
}

func parentOwnText(s *goquery.Selection) string {
	parent := s.Parent()
	if len(parent.Nodes) == 0 {
		return ""
	}
	return htmlutil.OwnText(parent.Nodes[0])
}
