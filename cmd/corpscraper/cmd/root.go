package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"corpscraper/lib/configutil"
	configlibsql "corpscraper/lib/configutil/libsql"
	"corpscraper/lib/scrapers/opencorp"
	"corpscraper/lib/similarity"
	"corpscraper/lib/telemetry"
	"corpscraper/services/registry"
	registrydb "corpscraper/services/registry/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type Config struct {
	Database  configlibsql.Struct `json:"database"`
	OutputDir string              `json:"output_dir"`
	// default jurisdiction code for searches, e.g. "us_ks"
	Jurisdiction string `json:"jurisdiction"`
	// verbatim cookie header attached to every request
	SessionCookie string `json:"session_cookie"`
	// courtesy delay between traversal requests, in milliseconds
	DelayMs  int `json:"delay_ms"`
	JitterMs int `json:"jitter_ms"`
	// similarity scorer used for near-exact search filtering
	Scorer string `json:"scorer"`

	Smtp             registry.SmtpConfig `json:"smtp"`
	ReportRecipients []string            `json:"report_recipients"`
}

var (
	configPath   string
	verbose      bool
	jurisdiction string

	config Config
	client *opencorp.Client
	scorer similarity.Scorer
)

var rootCmd = &cobra.Command{
	Use:   "corpscraper",
	Short: "corpscraper pulls company dossiers out of a business registry index.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)

		cfg, err := configutil.ReadConfig[Config](configPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		config = cfg
		if jurisdiction != "" {
			config.Jurisdiction = jurisdiction
		}
		if config.OutputDir == "" {
			config.OutputDir = "output"
		}
		if config.DelayMs == 0 {
			config.DelayMs = 2000
		}
		if config.Scorer != "" {
			scorer, err = similarity.ForName(config.Scorer)
			if err != nil {
				return err
			}
		}

		client, err = opencorp.NewClient(opencorp.ClientOptions{
			SessionCookie: config.SessionCookie,
			Throttle: opencorp.Throttle{
				Delay:  time.Duration(config.DelayMs) * time.Millisecond,
				Jitter: time.Duration(config.JitterMs) * time.Millisecond,
			},
		})
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.json5", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&jurisdiction, "jurisdiction", "j", "", "jurisdiction code, overrides the config")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openService wires the scraping client to the configured persistence
// collaborators. The database is optional; the csv workbook is not.
func openService() (registry.Service, error) {
	var store *registry.Store
	if config.Database.File != "" || config.Database.Url != "" {
		db, err := config.Database.OpenDB(registrydb.Schema)
		if err != nil {
			return registry.Service{}, err
		}
		s := registry.NewStore(db)
		store = &s
	}
	return registry.NewService(client, store, registry.CSVWriter{Root: config.OutputDir}), nil
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}
