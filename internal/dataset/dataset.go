package dataset

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/bbanalyze/internal/errs"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Kind is the value domain of a column.
type Kind int

const (
	// String columns hold identifiers and codes.
	String Kind = iota
	// Numeric columns hold float64 values; NaN marks a missing cell.
	Numeric
)

func (k Kind) String() string {
	if k == Numeric {
		return "numeric"
	}
	return "string"
}

// Dataset is an ordered, immutable table of rows sharing one column schema.
// Every transformation returns a new Dataset.
type Dataset struct {
	frame dataframe.DataFrame
}

func wrap(df dataframe.DataFrame) (*Dataset, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("dataframe: %w", df.Err)
	}
	return &Dataset{frame: df}, nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return d.frame.Nrow()
}

// Columns returns the column names in schema order.
func (d *Dataset) Columns() []string {
	if d == nil {
		return nil
	}
	return d.frame.Names()
}

// Has reports whether the named column exists.
func (d *Dataset) Has(col string) bool {
	for _, n := range d.Columns() {
		if n == col {
			return true
		}
	}
	return false
}

func (d *Dataset) col(op, col string) (series.Series, error) {
	if !d.Has(col) {
		return series.Series{}, errs.MissingColumn(op, col)
	}
	s := d.frame.Col(col)
	if s.Err != nil {
		return series.Series{}, errs.Column(op, col, s.Err)
	}
	return s, nil
}

func kindOf(s series.Series) Kind {
	switch s.Type() {
	case series.Float, series.Int:
		return Numeric
	default:
		return String
	}
}

// Kind returns the kind of the named column.
func (d *Dataset) Kind(col string) (Kind, error) {
	s, err := d.col("kind", col)
	if err != nil {
		return String, err
	}
	return kindOf(s), nil
}

// Floats returns a copy of a numeric column. Missing cells are NaN.
func (d *Dataset) Floats(col string) ([]float64, error) {
	s, err := d.col("floats", col)
	if err != nil {
		return nil, err
	}
	if kindOf(s) != Numeric {
		return nil, errs.Column("floats", col, fmt.Errorf("%w: column is %s", errs.ErrInvalidInput, String))
	}
	return s.Float(), nil
}

// Strings returns the cells of a column as text together with a missing mask.
// Missing cells are returned as "".
func (d *Dataset) Strings(col string) ([]string, []bool, error) {
	s, err := d.col("strings", col)
	if err != nil {
		return nil, nil, err
	}
	vals := s.Records()
	miss := missingMask(s)
	for i := range vals {
		if miss[i] {
			vals[i] = ""
		}
	}
	return vals, miss, nil
}

// Missing returns the missing mask of a column.
func (d *Dataset) Missing(col string) ([]bool, error) {
	s, err := d.col("missing", col)
	if err != nil {
		return nil, err
	}
	return missingMask(s), nil
}

// missingMask treats NaN floats as missing regardless of how the element was built.
func missingMask(s series.Series) []bool {
	if kindOf(s) == Numeric {
		vals := s.Float()
		out := make([]bool, len(vals))
		for i, v := range vals {
			out[i] = math.IsNaN(v)
		}
		return out
	}
	return s.IsNaN()
}

// WithColumn returns a copy of d with a numeric column added or replaced.
func (d *Dataset) WithColumn(name string, vals []float64) (*Dataset, error) {
	if len(vals) != d.Len() {
		return nil, errs.Column("with column", name,
			fmt.Errorf("%w: %d values for %d rows", errs.ErrInvalidInput, len(vals), d.Len()))
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	return wrap(d.frame.Copy().Mutate(series.New(cp, series.Float, name)))
}

// Rows returns a new Dataset holding the rows at the given positions, in that order.
func (d *Dataset) Rows(idx []int) (*Dataset, error) {
	for _, i := range idx {
		if i < 0 || i >= d.Len() {
			return nil, fmt.Errorf("%w: row %d out of range [0,%d)", errs.ErrInvalidInput, i, d.Len())
		}
	}
	if len(idx) == 0 {
		return d.empty()
	}
	return wrap(d.frame.Subset(idx))
}

// empty builds a zero-row Dataset with the schema of d.
func (d *Dataset) empty() (*Dataset, error) {
	cols := make([]series.Series, 0, len(d.Columns()))
	for _, name := range d.Columns() {
		s := d.frame.Col(name)
		if kindOf(s) == Numeric {
			cols = append(cols, series.New([]float64{}, series.Float, name))
		} else {
			cols = append(cols, series.New([]string{}, series.String, name))
		}
	}
	return wrap(dataframe.New(cols...))
}

// Records renders the dataset as text rows, header first.
func (d *Dataset) Records() [][]string {
	if d == nil {
		return nil
	}
	return d.frame.Records()
}

// Frame returns a copy of the underlying dataframe.
func (d *Dataset) Frame() dataframe.DataFrame {
	return d.frame.Copy()
}
