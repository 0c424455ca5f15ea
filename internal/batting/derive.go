package batting

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/bbanalyze/internal/dataset"
)

// rate divides num by den. A zero denominator or a missing operand yields NaN.
func rate(num, den float64) float64 {
	if math.IsNaN(num) || math.IsNaN(den) || den == 0 {
		return math.NaN()
	}
	return num / den
}

// Line holds the raw counting statistics of one row.
type Line struct {
	AB, H, BB, HBP, SF, SH, HR, SO, SB float64
}

// OBP is (h + bb + hbp) / (ab + bb + hbp).
func (l Line) OBP() float64 {
	return rate(l.H+l.BB+l.HBP, l.AB+l.BB+l.HBP)
}

// PAB is the on-base rate with sacrifices counted as productive.
func (l Line) PAB() float64 {
	return rate(l.H+l.BB+l.HBP+l.SF+l.SH, l.AB+l.BB+l.HBP+l.SF+l.SH)
}

// SOPA is strikeouts per plate appearance.
func (l Line) SOPA() float64 {
	return rate(l.SO, l.AB+l.BB+l.HBP+l.SH+l.SF)
}

// Rates returns every derived statistic keyed by column name.
func (l Line) Rates() map[string]float64 {
	return map[string]float64{
		ColOBP:  l.OBP(),
		ColPAB:  l.PAB(),
		ColHRP:  rate(l.HR, l.AB),
		ColHP:   rate(l.H, l.AB),
		ColSBP:  rate(l.SB, l.AB),
		ColSOP:  rate(l.SO, l.AB),
		ColBBP:  rate(l.BB, l.AB),
		ColSOPA: l.SOPA(),
	}
}

var lineInputs = []string{ColAB, ColH, ColBB, ColHBP, ColSF, ColSH, ColHR, ColSO, ColSB}

// lines reads the raw counting columns of every row.
func lines(ds *dataset.Dataset) ([]Line, error) {
	cols := make(map[string][]float64, len(lineInputs))
	for _, c := range lineInputs {
		v, err := ds.Floats(c)
		if err != nil {
			return nil, fmt.Errorf("derive: %w", err)
		}
		cols[c] = v
	}
	out := make([]Line, ds.Len())
	for i := range out {
		out[i] = Line{
			AB: cols[ColAB][i], H: cols[ColH][i], BB: cols[ColBB][i], HBP: cols[ColHBP][i],
			SF: cols[ColSF][i], SH: cols[ColSH][i], HR: cols[ColHR][i], SO: cols[ColSO][i],
			SB: cols[ColSB][i],
		}
	}
	return out, nil
}

// Derive returns ds with the derived rate columns added (or recomputed).
// Rows whose denominator is zero keep a missing value for that statistic.
func Derive(ds *dataset.Dataset) (*dataset.Dataset, error) {
	ls, err := lines(ds)
	if err != nil {
		return nil, err
	}
	cols := make(map[string][]float64, len(DerivedStats))
	for _, c := range DerivedStats {
		cols[c] = make([]float64, len(ls))
	}
	for i, l := range ls {
		for c, v := range l.Rates() {
			cols[c][i] = v
		}
	}
	out := ds
	for _, c := range DerivedStats {
		if out, err = out.WithColumn(c, cols[c]); err != nil {
			return nil, fmt.Errorf("derive %s: %w", c, err)
		}
	}
	return out, nil
}
