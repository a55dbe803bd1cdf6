package cmd

import (
	"bufio"
	"context"
	"log"
	"os"
	"strings"

	"corpscraper/lib/serviceutil"
	"corpscraper/lib/telemetry"
	"corpscraper/services/registry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	batchFilings bool
	batchEvents  bool
	batchFollow  bool
	batchPages   int
	sendReport   bool
)

func init() {
	batchCmd.Flags().BoolVar(&batchFilings, "filings", false, "also scrape filing histories")
	batchCmd.Flags().BoolVar(&batchEvents, "events", false, "also scrape events timelines")
	batchCmd.Flags().BoolVar(&batchFollow, "follow", false, "follow search result pagination")
	batchCmd.Flags().IntVar(&batchPages, "page-limit", 0, "highest result page to visit, required with --follow")
	batchCmd.Flags().BoolVar(&sendReport, "report", false, "email the batch report to the configured recipients")
	rootCmd.AddCommand(batchCmd)
}

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Scrapes every company named in a file, one name per line.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := serviceutil.SignalContext()

		t, err := telemetry.SetupFromEnv(ctx, "corpscraper")
		if err != nil {
			serviceutil.Fatal("failed to setup telemetry", err)
		}
		defer t.Shutdown(context.Background())
		telemetry.InstrumentPerfStats(ctx)

		names, err := readNames(args[0])
		if err != nil {
			serviceutil.Fatal("failed to read the batch file", err)
		}
		if len(names) == 0 {
			log.Fatal("the batch file names no companies")
		}

		service, err := openService()
		if err != nil {
			serviceutil.Fatal("failed to open the registry service", err)
		}

		report, err := service.ScrapeBatch(ctx, names, registry.Options{
			Jurisdiction:   config.Jurisdiction,
			Scorer:         scorer,
			IncludeFilings: batchFilings,
			IncludeEvents:  batchEvents,
			FollowPages:    batchFollow,
			PageLimit:      batchPages,
		})
		if err != nil {
			serviceutil.Fatal("batch aborted", err)
		}

		out := newTable()
		out.AppendHeader(table.Row{"Query", "Companies", "Error"})
		for _, entry := range report.Entries {
			errText := ""
			if entry.Err != nil {
				errText = entry.Err.Error()
			}
			out.AppendRow(table.Row{entry.Query, len(entry.Dossiers), errText})
		}
		out.Render()

		if sendReport && len(config.ReportRecipients) > 0 {
			notifier := registry.NewNotifier(config.Smtp, config.ReportRecipients)
			if err := notifier.SendBatchReport(ctx, report); err != nil {
				serviceutil.Fatal("failed to email the batch report", err)
			}
		}
	},
}

func readNames(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var names []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		names = append(names, name)
	}
	return names, scanner.Err()
}
