// Package batting implements the season and career batting computations:
// derived rate statistics, career aggregation, eligibility and record holders.
package batting

import "github.com/KaramelBytes/bbanalyze/internal/dataset"

// Identity columns of a season record.
const (
	ColID     = "id"
	ColTeam   = "team"
	ColLeague = "lg"
	ColYear   = "year"
)

// Raw counting statistics.
const (
	ColAB  = "ab"
	ColH   = "h"
	ColBB  = "bb"
	ColHBP = "hbp"
	ColSF  = "sf"
	ColSH  = "sh"
	ColHR  = "hr"
	ColSO  = "so"
	ColSB  = "sb"
	ColG   = "g"
)

// Derived rate statistics.
const (
	ColOBP  = "obp"
	ColPAB  = "pab"
	ColHRP  = "hrp"
	ColHP   = "hp"
	ColSBP  = "sbp"
	ColSOP  = "sop"
	ColBBP  = "bbp"
	ColSOPA = "sopa"
)

// ColSeasons counts the season rows summed into a career row.
const ColSeasons = "seasons"

// RawStats are summed into career totals.
var RawStats = []string{ColAB, ColH, ColBB, ColHBP, ColSF, ColSH, ColHR, ColSO, ColSB, ColG}

// IdentityColumns must be present for a row to be complete.
var IdentityColumns = []string{ColID, ColTeam, ColLeague, ColYear}

// DerivedStats are the columns added by Derive.
var DerivedStats = []string{ColOBP, ColPAB, ColHRP, ColHP, ColSBP, ColSOP, ColBBP, ColSOPA}

// TrackedStats are the leaderboard statistics, in report order.
var TrackedStats = []string{
	ColOBP, ColPAB,
	ColHR, ColHRP,
	ColH, ColHP,
	ColSB, ColSBP,
	ColSO, ColSOP, ColSOPA,
	ColBB, ColBBP,
	ColG,
}

// optionalNumeric are other counting columns of the usual batting file.
var optionalNumeric = []string{"stint", "r", "X2b", "X3b", "rbi", "cs", "ibb", "gidp"}

// RequiredColumns lists every column a season file must provide.
func RequiredColumns() []string {
	out := make([]string, 0, len(IdentityColumns)+len(RawStats))
	out = append(out, IdentityColumns...)
	return append(out, RawStats...)
}

// LoadOptions returns dataset load options for a season file.
func LoadOptions(delim rune, naValues []string) dataset.LoadOptions {
	numeric := []string{ColYear}
	numeric = append(numeric, RawStats...)
	numeric = append(numeric, optionalNumeric...)
	return dataset.LoadOptions{
		Delimiter: delim,
		NAValues:  naValues,
		Numeric:   numeric,
		Required:  RequiredColumns(),
	}
}
