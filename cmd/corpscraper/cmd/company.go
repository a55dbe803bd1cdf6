package cmd

import (
	"log"

	"corpscraper/lib/serviceutil"
	"corpscraper/services/registry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	includeFilings bool
	includeEvents  bool
)

func init() {
	companyCmd.Flags().BoolVar(&includeFilings, "filings", false, "also scrape the filing history (slow, one request per filing)")
	companyCmd.Flags().BoolVar(&includeEvents, "events", false, "also scrape the events timeline")
	rootCmd.AddCommand(companyCmd)
}

var companyCmd = &cobra.Command{
	Use:   "company <url>",
	Short: "Scrapes a single company detail page into a dossier.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := serviceutil.SignalContext()

		service, err := openService()
		if err != nil {
			log.Fatal(err)
		}

		dossier, err := service.ScrapeCompany(ctx, args[0], registry.Options{
			Jurisdiction:   config.Jurisdiction,
			Scorer:         scorer,
			IncludeFilings: includeFilings,
			IncludeEvents:  includeEvents,
		})
		if err != nil {
			log.Fatal(err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Key", "Value"})
		for _, field := range dossier.Company.Fields() {
			t.AppendRow(table.Row{field.Key, field.Value})
		}
		t.Render()

		if len(dossier.Officers) > 0 {
			t = newTable()
			t.AppendHeader(table.Row{"Officer", "Title"})
			for _, officer := range dossier.Officers {
				t.AppendRow(table.Row{officer.Name, officer.Title})
			}
			t.Render()
		}
		if len(dossier.Filings) > 0 {
			t = newTable()
			t.AppendHeader(table.Row{"Filing", "Date", "ID"})
			for _, filing := range dossier.Filings {
				t.AppendRow(table.Row{filing.Description, filing.Date, filing.FilingID})
			}
			t.Render()
		}
	},
}
