package opencorp

import (
	"fmt"
	"strings"
)

// companyFixture renders a registry company page in the markup era this
// package targets. Zero values leave the corresponding element out so
// tests can exercise every variant of the extraction matrix.
type companyFixture struct {
	Name          string
	Number        string
	Status        string
	IncDate       string
	CompanyType   string
	Jurisdiction  string
	Address       []string
	Organizers    []string
	AgentName     string
	AgentAddress  string
	BusinessDesc  string
	DissolveDate  string
	PreviousNames []string
	Supplier      bool
	RegistryHref  string
	FallbackHref  string
	// name, title, href triplets
	Officers [][3]string
	// description, date, href triplets
	Filings    [][3]string
	EventsHref string
}

func (f companyFixture) html() string {
	var b strings.Builder
	b.WriteString("<html><body><div id=\"page\">\n")

	if f.Name != "" {
		fmt.Fprintf(&b, "<h1 itemprop=\"name\">%s</h1>\n", f.Name)
	}
	b.WriteString("<dl>\n")
	if f.Number != "" {
		fmt.Fprintf(&b, "<dd class=\"company_number\">%s</dd>\n", f.Number)
	}
	if f.Status != "" {
		fmt.Fprintf(&b, "<dd class=\"status\">%s</dd>\n", f.Status)
	}
	if f.IncDate != "" {
		fmt.Fprintf(&b, "<dd><span itemprop=\"foundingDate\">%s</span></dd>\n", f.IncDate)
	}
	if f.CompanyType != "" {
		fmt.Fprintf(&b, "<dd class=\"company_type\">%s</dd>\n", f.CompanyType)
	}
	if f.DissolveDate != "" {
		fmt.Fprintf(&b, "<dd class=\"dissolution date\">%s</dd>\n", f.DissolveDate)
	}
	if f.Jurisdiction != "" {
		fmt.Fprintf(&b, "<dd><a class=\"jurisdiction_filter us\" href=\"/companies?jurisdiction_code=us_ks\">%s</a></dd>\n", f.Jurisdiction)
	}
	if len(f.Address) > 0 {
		b.WriteString("<dd class=\"registered_address adr\"><ul>\n")
		for _, line := range f.Address {
			fmt.Fprintf(&b, "<li>%s</li>\n", line)
		}
		b.WriteString("</ul></dd>\n")
	}
	if f.AgentName != "" {
		fmt.Fprintf(&b, "<dd class=\"agent_name\">%s</dd>\n", f.AgentName)
	}
	if f.AgentAddress != "" {
		fmt.Fprintf(&b, "<dd class=\"agent_address\">%s</dd>\n", f.AgentAddress)
	}
	if f.BusinessDesc != "" {
		fmt.Fprintf(&b, "<dd class=\"business_classification_text\">%s</dd>\n", f.BusinessDesc)
	}
	if len(f.PreviousNames) > 0 {
		b.WriteString("<dd class=\"previous_names\"><ul>\n")
		for _, name := range f.PreviousNames {
			fmt.Fprintf(&b, "<li>%s</li>\n", name)
		}
		b.WriteString("</ul></dd>\n")
	}
	if f.RegistryHref != "" {
		fmt.Fprintf(&b, "<dd class=\"registry_page\"><a href=\"%s\">registry</a></dd>\n", f.RegistryHref)
	}
	b.WriteString("</dl>\n")

	if len(f.Organizers) > 0 {
		b.WriteString("<ul>\n")
		for _, org := range f.Organizers {
			fmt.Fprintf(&b, "<li>organizer <a href=\"/officers/org\">%s</a></li>\n", org)
		}
		b.WriteString("</ul>\n")
	}

	if len(f.Officers) > 0 {
		b.WriteString("<ul class=\"attributes\">\n")
		for _, officer := range f.Officers {
			fmt.Fprintf(&b, "<li><a class=\"officer\" href=\"%s\">%s</a>, %s</li>\n",
				officer[2], officer[0], officer[1])
		}
		b.WriteString("</ul>\n")
	}

	for _, filing := range f.Filings {
		fmt.Fprintf(&b, "<div class=\"filing\"><div>%s</div><a class=\"filing\" href=\"%s\">%s</a></div>\n",
			filing[1], filing[2], filing[0])
	}

	if f.EventsHref != "" {
		fmt.Fprintf(&b, "<div class=\"see-more\"><a href=\"%s\">see all events</a></div>\n", f.EventsHref)
	}

	if f.Supplier {
		b.WriteString(`<div class="government_approved_supplier"><a href="#cage">CAGE listing</a></div>
<p><a href="#addr">Company Address</a></p>
<p>100 Supplier Way, Kansas City</p>
<p><a href="#office">Head Office Address</a></p>
<p>200 Office Plaza, Topeka</p>
<a class="identifier">CAGE-1A2B3</a>
<a class="identifier">DUNS-99</a>
`)
	}

	if f.FallbackHref != "" {
		fmt.Fprintf(&b, "<div id=\"source\"><a class=\"url external\" href=\"%s\">source</a></div>\n", f.FallbackHref)
	}

	b.WriteString("</div></body></html>")
	return b.String()
}

// forProfitFixture is the baseline active for-profit page; tests mutate
// it per variant.
func forProfitFixture() companyFixture {
	return companyFixture{
		Name:         "Acme LLC",
		Number:       "KS1234567",
		Status:       "Active",
		IncDate:      "4 Jul 2021",
		CompanyType:  "Limited Liability Company - Domestic",
		Jurisdiction: "Kansas (US)",
		Address:      []string{"100 Main St", "Kansas City", "KS 66101"},
		Organizers:   []string{"Jane Smith"},
		AgentName:    "Jane Smith",
		BusinessDesc: "Real estate holding",
		RegistryHref: "https://sos.ks.gov/entity/KS1234567",
	}
}
