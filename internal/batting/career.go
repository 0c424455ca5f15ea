package batting

import (
	"fmt"

	"github.com/KaramelBytes/bbanalyze/internal/dataset"
)

// Careers sums every raw counting statistic per player and recomputes the
// derived statistics from the totals. Rate columns present on the input are
// ignored; summing rates across seasons is meaningless.
//
// The result holds one row per player id, sorted by id, plus a seasons column.
func Careers(seasons *dataset.Dataset) (*dataset.Dataset, error) {
	totals, err := seasons.GroupSum(ColID, RawStats, ColSeasons)
	if err != nil {
		return nil, fmt.Errorf("career totals: %w", err)
	}
	return Derive(totals)
}
