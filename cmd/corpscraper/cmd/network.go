package cmd

import (
	"log"
	"strings"

	"corpscraper/lib/serviceutil"
	"corpscraper/services/registry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var networkPosition string

func init() {
	networkCmd.Flags().StringVar(&networkPosition, "position", "", "officer position filter for the per-officer searches")
	rootCmd.AddCommand(networkCmd)
}

var networkCmd = &cobra.Command{
	Use:   "network <url>",
	Short: "Expands a company page into the companies its officers are attached to.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := serviceutil.SignalContext()

		service, err := openService()
		if err != nil {
			log.Fatal(err)
		}

		network, err := service.OfficerNetwork(ctx, args[0], networkPosition, registry.Options{
			Jurisdiction: config.Jurisdiction,
			Scorer:       scorer,
		})
		if err != nil {
			log.Fatal(err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Officer", "Companies"})
		for officer, urls := range network {
			t.AppendRow(table.Row{officer, strings.Join(urls, "\n")})
		}
		t.SortBy([]table.SortBy{{Number: 1, Mode: table.Asc}})
		t.Render()
	},
}
