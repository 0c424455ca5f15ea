// Package report assembles the batting report: dataset-wide counts, season
// rows with derived statistics, league summaries, career totals and the
// career leaderboard.
package report

import (
	"time"

	"github.com/KaramelBytes/bbanalyze/internal/batting"
	"github.com/KaramelBytes/bbanalyze/internal/dataset"
	"github.com/google/uuid"
)

// YearRange is the first and last season present in the data.
type YearRange struct {
	First int `json:"first" yaml:"first"`
	Last  int `json:"last" yaml:"last"`
}

// Report is the result of one Build. It is not modified after Build returns.
type Report struct {
	ID          uuid.UUID
	Source      string
	GeneratedAt time.Time
	Options     Options

	// Counts over the raw dataset; missing values are not counted.
	RecordCount int
	PlayerCount int
	TeamCount   int
	LeagueCount int
	Years       YearRange

	// CompleteCases is the number of rows kept by the completeness filter.
	CompleteCases int
	// Batting holds the complete season rows with derived statistics.
	Batting *dataset.Dataset
	Leagues []batting.League

	// Careers holds one row per player; nil when no complete row exists.
	Careers     *dataset.Dataset
	Eligible    int
	Leaderboard batting.Leaderboard

	Warnings []string
}

// League returns the summary for code.
func (r *Report) League(code string) (batting.League, bool) {
	for _, lg := range r.Leagues {
		if lg.Code == code {
			return lg, true
		}
	}
	return batting.League{}, false
}
