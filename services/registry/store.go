package registry

import (
	"context"
	"database/sql"
	"time"

	"corpscraper/lib/scrapers/opencorp"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Store persists scraped dossiers in the keyed-field form produced by
// CompanyRecord.Fields, so schema drift on the registry side never
// forces a database migration here.
type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

type CompanySummary struct {
	CompanyNumber string
	Jurisdiction  string
	Name          string
	ScrapedAt     time.Time
}

type StoredDossier struct {
	CompanyNumber string
	Jurisdiction  string
	ScrapedAt     time.Time
	Fields        []opencorp.Field
	Officers      []opencorp.OfficerRecord
	Filings       []opencorp.FilingRecord
	Events        []opencorp.EventRecord
}

// Put replaces any previously stored dossier for the same company.
func (s Store) Put(ctx context.Context, dossier Dossier, scrapedAt time.Time) error {
	ctx, span := tracer.Start(ctx, "store:Put")
	defer span.End()

	company := dossier.Company
	span.SetAttributes(attribute.String("company", company.CompanyNumber))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"company", "company_field", "officer", "filing", "event"} {
		_, err = tx.ExecContext(ctx,
			"DELETE FROM "+table+" WHERE company_number = ? AND jurisdiction = ?",
			company.CompanyNumber, company.Jurisdiction)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO company (company_number, jurisdiction, name, source_url, scraped_at)
		 VALUES (?, ?, ?, ?, ?)`,
		company.CompanyNumber, company.Jurisdiction, company.Name,
		company.SourceURL, scrapedAt.Unix())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	for i, field := range company.Fields() {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO company_field (company_number, jurisdiction, position, key, value)
			 VALUES (?, ?, ?, ?, ?)`,
			company.CompanyNumber, company.Jurisdiction, i, field.Key, field.Value)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}
	for _, officer := range dossier.Officers {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO officer (company_number, jurisdiction, name, title, link)
			 VALUES (?, ?, ?, ?, ?)`,
			company.CompanyNumber, company.Jurisdiction,
			officer.Name, officer.Title, officer.Link)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}
	for _, filing := range dossier.Filings {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO filing (company_number, jurisdiction, description, date, url, filing_id)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			company.CompanyNumber, company.Jurisdiction,
			filing.Description, filing.Date, filing.URL, filing.FilingID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}
	for _, event := range dossier.Events {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO event (company_number, jurisdiction, date, description)
			 VALUES (?, ?, ?, ?)`,
			company.CompanyNumber, company.Jurisdiction, event.Date, event.Description)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}

	err = tx.Commit()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// Get returns the stored dossier, or sql.ErrNoRows when the company was
// never scraped.
func (s Store) Get(ctx context.Context, companyNumber, jurisdiction string) (StoredDossier, error) {
	ctx, span := tracer.Start(ctx, "store:Get")
	defer span.End()

	out := StoredDossier{
		CompanyNumber: companyNumber,
		Jurisdiction:  jurisdiction,
	}

	var scrapedAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT scraped_at FROM company WHERE company_number = ? AND jurisdiction = ?",
		companyNumber, jurisdiction).Scan(&scrapedAt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return out, err
	}
	out.ScrapedAt = time.Unix(scrapedAt, 0)

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM company_field
		 WHERE company_number = ? AND jurisdiction = ? ORDER BY position`,
		companyNumber, jurisdiction)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return out, err
	}
	defer rows.Close()
	for rows.Next() {
		var field opencorp.Field
		if err := rows.Scan(&field.Key, &field.Value); err != nil {
			return out, err
		}
		out.Fields = append(out.Fields, field)
	}
	if err := rows.Err(); err != nil {
		return out, err
	}

	officerRows, err := s.db.QueryContext(ctx,
		`SELECT name, title, link FROM officer
		 WHERE company_number = ? AND jurisdiction = ?`,
		companyNumber, jurisdiction)
	if err != nil {
		return out, err
	}
	defer officerRows.Close()
	for officerRows.Next() {
		var officer opencorp.OfficerRecord
		if err := officerRows.Scan(&officer.Name, &officer.Title, &officer.Link); err != nil {
			return out, err
		}
		out.Officers = append(out.Officers, officer)
	}
	if err := officerRows.Err(); err != nil {
		return out, err
	}

	filingRows, err := s.db.QueryContext(ctx,
		`SELECT description, date, url, filing_id FROM filing
		 WHERE company_number = ? AND jurisdiction = ?`,
		companyNumber, jurisdiction)
	if err != nil {
		return out, err
	}
	defer filingRows.Close()
	for filingRows.Next() {
		var filing opencorp.FilingRecord
		err := filingRows.Scan(&filing.Description, &filing.Date, &filing.URL, &filing.FilingID)
		if err != nil {
			return out, err
		}
		out.Filings = append(out.Filings, filing)
	}
	if err := filingRows.Err(); err != nil {
		return out, err
	}

	eventRows, err := s.db.QueryContext(ctx,
		`SELECT date, description FROM event
		 WHERE company_number = ? AND jurisdiction = ?`,
		companyNumber, jurisdiction)
	if err != nil {
		return out, err
	}
	defer eventRows.Close()
	for eventRows.Next() {
		var event opencorp.EventRecord
		if err := eventRows.Scan(&event.Date, &event.Description); err != nil {
			return out, err
		}
		out.Events = append(out.Events, event)
	}
	if err := eventRows.Err(); err != nil {
		return out, err
	}

	return out, nil
}

// List returns a summary row per stored company, most recent first.
func (s Store) List(ctx context.Context) ([]CompanySummary, error) {
	ctx, span := tracer.Start(ctx, "store:List")
	defer span.End()

	rows, err := s.db.QueryContext(ctx,
		`SELECT company_number, jurisdiction, name, scraped_at
		 FROM company ORDER BY scraped_at DESC, company_number`)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer rows.Close()

	var out []CompanySummary
	for rows.Next() {
		var summary CompanySummary
		var scrapedAt int64
		err := rows.Scan(&summary.CompanyNumber, &summary.Jurisdiction,
			&summary.Name, &scrapedAt)
		if err != nil {
			return nil, err
		}
		summary.ScrapedAt = time.Unix(scrapedAt, 0)
		out = append(out, summary)
	}
	return out, rows.Err()
}
