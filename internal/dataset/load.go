package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KaramelBytes/bbanalyze/internal/errs"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/spf13/afero"
)

// DefaultNAValues are the cell values read as missing.
var DefaultNAValues = []string{"", "NA", "NaN", "<nil>"}

// rowIDNames are header names of a leading row-identifier column written by
// dataframe tools (pandas writes an empty name, R writes "rownames").
var rowIDNames = map[string]bool{
	"":           true,
	"rownames":   true,
	"row.names":  true,
	"unnamed: 0": true,
	"index":      true,
}

// LoadOptions controls how CSV text becomes a Dataset.
type LoadOptions struct {
	// Delimiter for CSV. If 0, ',' is used.
	Delimiter rune
	// NAValues are cell values treated as missing. Nil means DefaultNAValues.
	NAValues []string
	// Numeric names columns parsed as float64; every other column is a string column.
	Numeric []string
	// Required names columns that must be present in the header.
	Required []string
}

// Load reads a CSV file from fsys.
func Load(fsys afero.Fs, path string, opt LoadOptions) (*Dataset, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return Read(f, opt)
}

// Read parses CSV text with a header row.
func Read(r io.Reader, opt LoadOptions) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if opt.Delimiter != 0 {
		cr.Comma = opt.Delimiter
	}
	var records [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: read row %d: %v", errs.ErrInvalidInput, len(records), err)
		}
		records = append(records, rec)
	}
	return FromRecords(records, opt)
}

// FromRecords builds a Dataset from text rows, header first. A leading
// row-identifier column that is not part of the schema is dropped.
func FromRecords(records [][]string, opt LoadOptions) (*Dataset, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header row", errs.ErrInvalidInput)
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	known := map[string]bool{}
	for _, c := range opt.Required {
		known[c] = true
	}
	for _, c := range opt.Numeric {
		known[c] = true
	}
	skip := 0
	if len(header) > 0 && !known[header[0]] && rowIDNames[strings.ToLower(header[0])] {
		skip = 1
	}
	header = header[skip:]
	if len(header) == 0 {
		return nil, fmt.Errorf("%w: header has no columns", errs.ErrInvalidInput)
	}
	have := map[string]bool{}
	for _, h := range header {
		if have[h] {
			return nil, fmt.Errorf("%w: duplicate column %q", errs.ErrInvalidInput, h)
		}
		have[h] = true
	}
	for _, c := range opt.Required {
		if !have[c] {
			return nil, errs.MissingColumn("load", c)
		}
	}
	if len(records) == 1 {
		return nil, fmt.Errorf("%w: no data rows", errs.ErrEmptyResult)
	}

	ncol := len(header)
	rows := make([][]string, 0, len(records))
	rows = append(rows, header)
	for i, rec := range records[1:] {
		if len(rec) > ncol+skip {
			return nil, fmt.Errorf("%w: row %d has %d fields, header has %d", errs.ErrInvalidInput, i+1, len(rec)-skip, ncol)
		}
		row := make([]string, ncol+skip)
		copy(row, rec)
		for j := range row {
			row[j] = strings.TrimSpace(row[j])
		}
		rows = append(rows, row[skip:])
	}

	na := opt.NAValues
	if na == nil {
		na = DefaultNAValues
	}
	types := map[string]series.Type{}
	for _, h := range header {
		types[h] = series.String
	}
	for _, c := range opt.Numeric {
		if have[c] {
			types[c] = series.Float
		}
	}
	if err := checkNumeric(rows, types, na); err != nil {
		return nil, err
	}
	return wrap(dataframe.LoadRecords(rows,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(types),
		dataframe.NaNValues(na),
	))
}

// checkNumeric rejects cells of numeric columns that are neither a missing
// marker nor a number. rows holds the header first.
func checkNumeric(rows [][]string, types map[string]series.Type, na []string) error {
	// Empty cells also come from padded short rows.
	missing := map[string]bool{"": true}
	for _, v := range na {
		missing[v] = true
	}
	for j, col := range rows[0] {
		if types[col] != series.Float {
			continue
		}
		for i, row := range rows[1:] {
			cell := row[j]
			if missing[cell] {
				continue
			}
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				return errs.Column("load", col, fmt.Errorf("%w: row %d: %q is not numeric", errs.ErrInvalidInput, i+1, cell))
			}
		}
	}
	return nil
}
