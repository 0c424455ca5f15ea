package dataset

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/KaramelBytes/bbanalyze/internal/errs"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// CountUnique returns the number of distinct non-missing values in col.
func (d *Dataset) CountUnique(col string) (int, error) {
	s, err := d.col("count unique", col)
	if err != nil {
		return 0, err
	}
	miss := missingMask(s)
	seen := make(map[string]struct{})
	if kindOf(s) == Numeric {
		for i, v := range s.Float() {
			if miss[i] {
				continue
			}
			// 'g' with -1 precision round-trips, so equal floats share a key.
			seen[strconv.FormatFloat(v, 'g', -1, 64)] = struct{}{}
		}
		return len(seen), nil
	}
	for i, v := range s.Records() {
		if miss[i] {
			continue
		}
		seen[v] = struct{}{}
	}
	return len(seen), nil
}

// CompleteCases returns the rows with no missing value in cols. With no cols,
// every column is checked.
func (d *Dataset) CompleteCases(cols ...string) (*Dataset, error) {
	if len(cols) == 0 {
		cols = d.Columns()
	}
	keep := make([]bool, d.Len())
	for i := range keep {
		keep[i] = true
	}
	for _, c := range cols {
		miss, err := d.Missing(c)
		if err != nil {
			return nil, err
		}
		for i, m := range miss {
			if m {
				keep[i] = false
			}
		}
	}
	return d.keep(keep)
}

// GroupSum groups rows by the string column key and sums each numeric column in
// cols. Output rows are sorted by key ascending. A missing cell in a summed
// column makes that group's total NaN. Rows with a missing key are dropped.
// If countCol is not empty, the number of rows per group is added under that
// name; when d already has countCol, its values are summed instead.
func (d *Dataset) GroupSum(key string, cols []string, countCol string) (*Dataset, error) {
	keys, miss, err := d.Strings(key)
	if err != nil {
		return nil, err
	}
	if k, _ := d.Kind(key); k != String {
		return nil, errs.Column("group", key, fmt.Errorf("%w: group key must be a string column", errs.ErrInvalidInput))
	}
	values := make([][]float64, len(cols))
	for j, c := range cols {
		if c == key || c == countCol {
			return nil, errs.Column("group", c, fmt.Errorf("%w: column used twice", errs.ErrInvalidInput))
		}
		v, err := d.Floats(c)
		if err != nil {
			return nil, err
		}
		values[j] = v
	}

	// An existing count column is summed so that regrouping keeps the counts.
	var prior []float64
	if countCol != "" && d.Has(countCol) {
		if prior, err = d.Floats(countCol); err != nil {
			return nil, err
		}
	}

	pos := map[string]int{}
	var order []string
	var sums [][]float64
	var counts []float64
	for i, k := range keys {
		if miss[i] {
			continue
		}
		g, ok := pos[k]
		if !ok {
			g = len(order)
			pos[k] = g
			order = append(order, k)
			sums = append(sums, make([]float64, len(cols)))
			counts = append(counts, 0)
		}
		for j := range cols {
			sums[g][j] += values[j][i]
		}
		if prior != nil {
			counts[g] += prior[i]
		} else {
			counts[g]++
		}
	}
	if len(order) == 0 {
		return nil, errs.Column("group", key, fmt.Errorf("%w: no groups", errs.ErrEmptyResult))
	}

	sorted := make([]string, len(order))
	copy(sorted, order)
	sort.Strings(sorted)

	out := make([]series.Series, 0, len(cols)+2)
	out = append(out, series.New(sorted, series.String, key))
	for j, c := range cols {
		col := make([]float64, len(sorted))
		for i, k := range sorted {
			col[i] = sums[pos[k]][j]
		}
		out = append(out, series.New(col, series.Float, c))
	}
	if countCol != "" {
		col := make([]float64, len(sorted))
		for i, k := range sorted {
			col[i] = counts[pos[k]]
		}
		out = append(out, series.New(col, series.Float, countCol))
	}
	return wrap(dataframe.New(out...))
}
