package cmd

import (
	"log"
	"time"

	"corpscraper/lib/serviceutil"
	"corpscraper/services/registry"
	registrydb "corpscraper/services/registry/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the companies stored in the database.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := serviceutil.SignalContext()

		db, err := config.Database.OpenDB(registrydb.Schema)
		if err != nil {
			log.Fatal(err)
		}
		store := registry.NewStore(db)

		summaries, err := store.List(ctx)
		if err != nil {
			log.Fatal(err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Company Number", "Jurisdiction", "Name", "Scraped At"})
		for _, summary := range summaries {
			t.AppendRow(table.Row{
				summary.CompanyNumber,
				summary.Jurisdiction,
				summary.Name,
				summary.ScrapedAt.Format(time.ANSIC),
			})
		}
		t.Render()
	},
}
