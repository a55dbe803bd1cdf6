package registry

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"corpscraper/lib/textutil"
)

// DossierWriter receives each completed dossier. Implementations must be
// idempotent: a batch may revisit a company it already wrote.
type DossierWriter interface {
	Write(dossier Dossier) error
}

// inactiveTag marks output directories of companies that are no longer
// in good standing.
const inactiveTag = "--inactive--"

// CSVWriter lays each company out as a directory of csv sheets under
// Root. An existing directory is left untouched.
type CSVWriter struct {
	Root string
}

func (w CSVWriter) Write(dossier Dossier) error {
	name := textutil.Slugify(dossier.Company.Name)
	if !dossier.Company.Active() {
		name += inactiveTag
	}
	dir := filepath.Join(w.Root, name)

	if _, err := os.Stat(dir); err == nil {
		slog.Info("company already written, skipping", "dir", dir)
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	rows := [][]string{{"key", "value"}}
	for _, field := range dossier.Company.Fields() {
		rows = append(rows, []string{field.Key, field.Value})
	}
	if err := writeSheet(dir, "company_data.csv", rows); err != nil {
		return err
	}

	if len(dossier.Officers) > 0 {
		rows = [][]string{{"name", "title", "link"}}
		for _, officer := range dossier.Officers {
			rows = append(rows, []string{officer.Name, officer.Title, officer.Link})
		}
		if err := writeSheet(dir, "officers.csv", rows); err != nil {
			return err
		}
	}

	if len(dossier.Filings) > 0 {
		rows = [][]string{{"description", "date", "url", "filing_id"}}
		for _, filing := range dossier.Filings {
			rows = append(rows, []string{filing.Description, filing.Date, filing.URL, filing.FilingID})
		}
		if err := writeSheet(dir, "filings.csv", rows); err != nil {
			return err
		}
	}

	if len(dossier.Events) > 0 {
		rows = [][]string{{"date", "description"}}
		for _, event := range dossier.Events {
			rows = append(rows, []string{event.Date, event.Description})
		}
		if err := writeSheet(dir, "events.csv", rows); err != nil {
			return err
		}
	}

	return nil
}

func writeSheet(dir, name string, rows [][]string) error {
	file, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	return file.Close()
}
