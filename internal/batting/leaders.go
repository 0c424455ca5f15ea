package batting

import (
	"errors"
	"fmt"
	"math"

	"github.com/KaramelBytes/bbanalyze/internal/dataset"
	"github.com/KaramelBytes/bbanalyze/internal/errs"
)

// DefaultMinAtBats is the career at-bat threshold for leaderboard eligibility.
const DefaultMinAtBats = 50

// Eligible returns the career rows with at least minAB at-bats.
func Eligible(careers *dataset.Dataset, minAB float64) (*dataset.Dataset, error) {
	if minAB < 0 || math.IsNaN(minAB) {
		return nil, fmt.Errorf("%w: minimum at-bats must be >= 0, got %v", errs.ErrInvalidInput, minAB)
	}
	return careers.Filter(dataset.Predicate{Column: ColAB, Op: dataset.Ge, Value: dataset.Num(minAB)})
}

// Holder is the player holding the maximum of one statistic.
type Holder struct {
	Stat     string  `json:"stat" yaml:"stat"`
	PlayerID string  `json:"id" yaml:"id"`
	Value    float64 `json:"value" yaml:"value"`
}

// RecordHolder scans pool for the maximum of stat. Missing values are skipped.
// Equal maxima go to the lexicographically smallest player id, so the result
// does not depend on row order.
func RecordHolder(pool *dataset.Dataset, stat string) (Holder, error) {
	vals, err := pool.Floats(stat)
	if err != nil {
		return Holder{}, fmt.Errorf("record holder: %w", err)
	}
	ids, miss, err := pool.Strings(ColID)
	if err != nil {
		return Holder{}, fmt.Errorf("record holder: %w", err)
	}
	best := Holder{Stat: stat}
	found := false
	for i, v := range vals {
		if math.IsNaN(v) || miss[i] {
			continue
		}
		if !found || v > best.Value || (v == best.Value && ids[i] < best.PlayerID) {
			best.PlayerID, best.Value = ids[i], v
			found = true
		}
	}
	if !found {
		return Holder{}, errs.Column("record holder", stat, errs.ErrNoEligibleRecord)
	}
	return best, nil
}

// Leaderboard maps tracked statistics to their record holders.
type Leaderboard struct {
	// Holders by statistic name.
	Holders map[string]Holder
	// NoRecord lists statistics without any eligible non-missing value, in request order.
	NoRecord []string
	// Failed holds statistics whose computation failed for another reason,
	// typically a column absent from the pool.
	Failed map[string]error
	// Order is the requested statistic order.
	Order []string
}

// Lookup returns the holder of stat. It returns errs.ErrNoEligibleRecord when no
// eligible value exists, the recorded failure when the computation failed, and
// errs.ErrSchema when stat was never requested.
func (l Leaderboard) Lookup(stat string) (Holder, error) {
	if h, ok := l.Holders[stat]; ok {
		return h, nil
	}
	if err, ok := l.Failed[stat]; ok {
		return Holder{}, err
	}
	for _, s := range l.NoRecord {
		if s == stat {
			return Holder{}, errs.Column("leaderboard", stat, errs.ErrNoEligibleRecord)
		}
	}
	return Holder{}, errs.MissingColumn("leaderboard", stat)
}

// Leaders computes the record holder of every stat. A failure on one statistic
// is recorded for that statistic alone.
func Leaders(pool *dataset.Dataset, stats []string) Leaderboard {
	lb := EmptyLeaderboard(nil)
	lb.Order = append([]string(nil), stats...)
	for _, s := range stats {
		h, err := RecordHolder(pool, s)
		switch {
		case err == nil:
			lb.Holders[s] = h
		case errors.Is(err, errs.ErrNoEligibleRecord):
			lb.NoRecord = append(lb.NoRecord, s)
		default:
			lb.Failed[s] = err
		}
	}
	return lb
}

// EmptyLeaderboard marks every stat as having no record.
func EmptyLeaderboard(stats []string) Leaderboard {
	return Leaderboard{
		Holders:  map[string]Holder{},
		NoRecord: append([]string(nil), stats...),
		Failed:   map[string]error{},
		Order:    append([]string(nil), stats...),
	}
}
