package batting

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/bbanalyze/internal/dataset"
	"github.com/montanaflynn/stats"
)

// League is the subset of season rows played in one league.
type League struct {
	Code    string
	Data    *dataset.Dataset
	Players int
	Teams   int
	// OBPMean and OBPMedian describe the defined on-base rates of the subset.
	// Both are NaN when no row has a defined rate.
	OBPMean   float64
	OBPMedian float64
}

// LeagueSubset selects the rows of seasons whose league equals code and
// summarizes them. seasons must already carry the derived columns.
func LeagueSubset(seasons *dataset.Dataset, code string) (League, error) {
	sub, err := seasons.Filter(dataset.Predicate{Column: ColLeague, Op: dataset.Eq, Value: dataset.Str(code)})
	if err != nil {
		return League{}, fmt.Errorf("league %s: %w", code, err)
	}
	lg := League{Code: code, Data: sub, OBPMean: math.NaN(), OBPMedian: math.NaN()}
	if lg.Players, err = sub.CountUnique(ColID); err != nil {
		return League{}, fmt.Errorf("league %s: %w", code, err)
	}
	if lg.Teams, err = sub.CountUnique(ColTeam); err != nil {
		return League{}, fmt.Errorf("league %s: %w", code, err)
	}
	obp, err := sub.Floats(ColOBP)
	if err != nil {
		return League{}, fmt.Errorf("league %s: %w", code, err)
	}
	defined := stats.Float64Data{}
	for _, v := range obp {
		if !math.IsNaN(v) {
			defined = append(defined, v)
		}
	}
	if len(defined) > 0 {
		// Both only fail on empty input.
		lg.OBPMean, _ = defined.Mean()
		lg.OBPMedian, _ = defined.Median()
	}
	return lg, nil
}
