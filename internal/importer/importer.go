// Package importer reads leads from CSV uploads and produces the blank template.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"lms_backend/internal/model"
)

const (
	TemplateFileName = "lead_template.csv"
	TemplateHeader   = "Name,Phone Number,Email,Service Type (Rent/Resale),Property Type,Lead Date,Status"
	templateExample  = "John Doe,9999999999,john@example.com,Rent,Apartment,2024-01-01,New"
)

// Template returns the downloadable CSV template.
func Template() []byte {
	return []byte(TemplateHeader + "\n" + templateExample)
}

type LeadCreator interface {
	CreateLead(ctx context.Context, in model.LeadInput) (model.Lead, error)
}

type Result struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

type Importer struct {
	leads LeadCreator
	log   *zap.Logger
}

func New(leads LeadCreator, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{leads: leads, log: log}
}

// Import creates one lead per usable row. The first store failure stops the
// import and is returned together with the rows imported so far.
func (im *Importer) Import(ctx context.Context, r io.Reader, today time.Time) (Result, error) {
	rows, skipped, err := Parse(r, today)
	if err != nil {
		return Result{}, err
	}

	res := Result{Skipped: skipped}
	for _, in := range rows {
		if _, err := im.leads.CreateLead(ctx, in); err != nil {
			im.log.Error("CSV import aborted",
				zap.Int("imported", res.Imported), zap.String("lead_name", in.LeadName), zap.Error(err))
			return res, fmt.Errorf("import row %d: %w", res.Imported+1, err)
		}
		res.Imported++
	}

	im.log.Info("CSV import finished", zap.Int("imported", res.Imported), zap.Int("skipped", res.Skipped))
	return res, nil
}

type column int

const (
	colName column = 1 << iota
	colPhone
	colEmail
	colService
	colProperty
	colDate
)

// headerColumns maps a header cell to every field whose keyword it contains.
func headerColumns(h string) column {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))

	var c column
	if strings.Contains(h, "name") {
		c |= colName
	}
	if strings.Contains(h, "phone") {
		c |= colPhone
	}
	if strings.Contains(h, "email") {
		c |= colEmail
	}
	if strings.Contains(h, "service") {
		c |= colService
	}
	if strings.Contains(h, "property") {
		c |= colProperty
	}
	if strings.Contains(h, "date") {
		c |= colDate
	}
	return c
}

// Parse reads the header row and maps every following row to a lead input
// with status New. Rows lacking a name or phone, rows that cannot be read
// and rows that fail validation are counted in skipped.
func Parse(r io.Reader, today time.Time) ([]model.LeadInput, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read csv header: %w", err)
	}

	cols := make([]column, len(header))
	for i, h := range header {
		cols[i] = headerColumns(h)
	}

	var (
		rows    []model.LeadInput
		skipped int
	)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			skipped++
			continue
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read csv: %w", err)
		}

		in, ok := mapRow(cols, record, today)
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, in)
	}

	return rows, skipped, nil
}

func mapRow(cols []column, record []string, today time.Time) (model.LeadInput, bool) {
	var in model.LeadInput

	for i, raw := range record {
		if i >= len(cols) {
			break
		}
		val := strings.TrimSpace(raw)
		c := cols[i]

		if c&colName != 0 {
			in.LeadName = val
		}
		if c&colPhone != 0 {
			in.PhoneNumber = val
		}
		if c&colEmail != 0 {
			in.Email = val
		}
		if c&colService != 0 {
			svc, _ := model.ParseServiceType(val)
			in.ServiceType = svc
		}
		if c&colProperty != 0 {
			pt, _ := model.ParsePropertyType(val)
			in.PropertyType = pt
		}
		if c&colDate != 0 {
			in.LeadDate = val
		}
	}

	if in.LeadName == "" || in.PhoneNumber == "" {
		return model.LeadInput{}, false
	}

	// CSV status column is ignored
	in.Status = model.LeadStatusNew
	in.Normalize(today)

	if err := in.Validate(); err != nil {
		return model.LeadInput{}, false
	}
	return in, true
}
