package cmd

import (
	"log"

	"corpscraper/lib/scrapers/opencorp"
	"corpscraper/lib/serviceutil"
	"corpscraper/lib/similarity"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	searchOfficers bool
	searchPosition string
	searchExact    bool
	searchScorer   string
	followPages    bool
	pageLimit      int
)

func init() {
	searchCmd.Flags().BoolVar(&searchOfficers, "officers", false, "search the officer index instead of the company index")
	searchCmd.Flags().StringVar(&searchPosition, "position", "", "officer position filter, officer searches only")
	searchCmd.Flags().BoolVar(&searchExact, "exact", true, "keep only near-exact name matches")
	searchCmd.Flags().StringVar(&searchScorer, "scorer", "", "similarity scorer used with --exact, overrides the config")
	searchCmd.Flags().BoolVar(&followPages, "follow", false, "follow result pagination")
	searchCmd.Flags().IntVar(&pageLimit, "page-limit", 0, "highest result page to visit, required with --follow")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <name>",
	Short: "Searches the registry index and lists matching detail page urls.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := serviceutil.SignalContext()
		query := args[0]

		searchURL := client.BuildSearchURL(query, opencorp.SearchOptions{
			Jurisdiction: config.Jurisdiction,
			Officers:     searchOfficers,
			Position:     searchPosition,
		})

		opts := opencorp.ListingOptions{
			Follow:    followPages,
			PageLimit: pageLimit,
		}
		if searchExact {
			opts.SimilarityQuery = query
			opts.Scorer = scorer
			if searchScorer != "" {
				override, err := similarity.ForName(searchScorer)
				if err != nil {
					log.Fatal(err)
				}
				opts.Scorer = override
			}
		}

		urls, err := client.CollectURLs(ctx, searchURL, opts)
		if err != nil {
			log.Fatal(err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"URL"})
		for u := range urls {
			t.AppendRow(table.Row{u})
		}
		t.SortBy([]table.SortBy{{Number: 1, Mode: table.Asc}})
		t.Render()
	},
}
