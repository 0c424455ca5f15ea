package cmd

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/KaramelBytes/bbanalyze/internal/report"
	"github.com/KaramelBytes/bbanalyze/internal/utils"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Output formats.
const (
	formatMarkdown = "markdown"
	formatJSON     = "json"
	formatYAML     = "yaml"
	formatHTML     = "html"
)

type leagueView struct {
	Code      string   `json:"code" yaml:"code"`
	Rows      int      `json:"rows" yaml:"rows"`
	Players   int      `json:"players" yaml:"players"`
	Teams     int      `json:"teams" yaml:"teams"`
	OBPMean   *float64 `json:"obp_mean,omitempty" yaml:"obp_mean,omitempty"`
	OBPMedian *float64 `json:"obp_median,omitempty" yaml:"obp_median,omitempty"`
}

type leaderView struct {
	Stat     string  `json:"stat" yaml:"stat"`
	PlayerID string  `json:"id" yaml:"id"`
	Value    float64 `json:"value" yaml:"value"`
}

// reportView is the serializable form of a report. Datasets are reduced to counts.
type reportView struct {
	ID            string           `json:"id" yaml:"id"`
	Source        string           `json:"source" yaml:"source"`
	GeneratedAt   string           `json:"generated_at" yaml:"generated_at"`
	Records       int              `json:"records" yaml:"records"`
	CompleteCases int              `json:"complete_cases" yaml:"complete_cases"`
	Players       int              `json:"players" yaml:"players"`
	Teams         int              `json:"teams" yaml:"teams"`
	Leagues       int              `json:"leagues" yaml:"leagues"`
	Years         report.YearRange `json:"years" yaml:"years"`
	LeagueSummary []leagueView     `json:"league_summary" yaml:"league_summary"`
	MinAtBats     float64          `json:"min_at_bats" yaml:"min_at_bats"`
	Careers       int              `json:"careers" yaml:"careers"`
	Eligible      int              `json:"eligible" yaml:"eligible"`
	Leaders       []leaderView     `json:"leaders" yaml:"leaders"`
	NoRecord      []string         `json:"no_record,omitempty" yaml:"no_record,omitempty"`
	Warnings      []string         `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func optFloat(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func newReportView(r *report.Report) reportView {
	v := reportView{
		ID:            r.ID.String(),
		Source:        r.Source,
		GeneratedAt:   r.GeneratedAt.Format(time.RFC3339),
		Records:       r.RecordCount,
		CompleteCases: r.CompleteCases,
		Players:       r.PlayerCount,
		Teams:         r.TeamCount,
		Leagues:       r.LeagueCount,
		Years:         r.Years,
		MinAtBats:     r.Options.MinAtBats,
		Eligible:      r.Eligible,
		NoRecord:      r.Leaderboard.NoRecord,
		Warnings:      r.Warnings,
	}
	if r.Careers != nil {
		v.Careers = r.Careers.Len()
	}
	for _, lg := range r.Leagues {
		v.LeagueSummary = append(v.LeagueSummary, leagueView{
			Code:      lg.Code,
			Rows:      lg.Data.Len(),
			Players:   lg.Players,
			Teams:     lg.Teams,
			OBPMean:   optFloat(lg.OBPMean),
			OBPMedian: optFloat(lg.OBPMedian),
		})
	}
	for _, s := range r.Leaderboard.Order {
		if h, ok := r.Leaderboard.Holders[s]; ok {
			v.Leaders = append(v.Leaders, leaderView{Stat: h.Stat, PlayerID: h.PlayerID, Value: h.Value})
		}
	}
	return v
}

// formatStat prints counts as integers and rates with three decimals.
func formatStat(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.3f", v)
}

func optString(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", *p)
}

// Markdown renders the view in the bracketed-section layout used for summaries.
func (v reportView) Markdown() string {
	var b strings.Builder
	b.WriteString("[BATTING SUMMARY]\n")
	b.WriteString(fmt.Sprintf("File: %s\n", v.Source))
	b.WriteString(fmt.Sprintf("Rows: %d (complete %d)\n", v.Records, v.CompleteCases))
	b.WriteString(fmt.Sprintf("Players: %d, Teams: %d, Leagues: %d\n", v.Players, v.Teams, v.Leagues))
	if v.Years.First != 0 {
		b.WriteString(fmt.Sprintf("Seasons: %d-%d\n", v.Years.First, v.Years.Last))
	}
	b.WriteString("\n")

	if len(v.LeagueSummary) > 0 {
		b.WriteString("[LEAGUES]\n")
		for _, lg := range v.LeagueSummary {
			b.WriteString(fmt.Sprintf("- %s: %d rows, %d players, %d teams; OBP mean %s, median %s\n",
				lg.Code, lg.Rows, lg.Players, lg.Teams, optString(lg.OBPMean), optString(lg.OBPMedian)))
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("[CAREER LEADERS] (min %s AB; %d of %d players eligible)\n",
		formatStat(v.MinAtBats), v.Eligible, v.Careers))
	if len(v.Leaders) > 0 {
		b.WriteString("\n| stat | player | value |\n|---|---|---|\n")
		for _, l := range v.Leaders {
			b.WriteString(fmt.Sprintf("| %s | %s | %s |\n", l.Stat, l.PlayerID, formatStat(l.Value)))
		}
	}
	if len(v.NoRecord) > 0 {
		b.WriteString(fmt.Sprintf("No eligible record: %s\n", strings.Join(v.NoRecord, ", ")))
	}

	if len(v.Warnings) > 0 {
		b.WriteString("\n[WARNINGS]\n")
		for _, w := range v.Warnings {
			b.WriteString("- " + w + "\n")
		}
	}
	return b.String()
}

// render encodes a report in the requested format.
func render(r *report.Report, format string) ([]byte, error) {
	v := newReportView(r)
	switch strings.ToLower(format) {
	case "", formatMarkdown, "md":
		return []byte(v.Markdown()), nil
	case formatJSON:
		return utils.PrettyJSON(v)
	case formatYAML, "yml":
		return utils.YAML(v)
	case formatHTML:
		return toHTML(v), nil
	default:
		return nil, fmt.Errorf("unsupported --format: %s (use markdown|json|yaml|html)", format)
	}
}

// toHTML renders the Markdown summary as a standalone HTML page.
func toHTML(v reportView) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.HardLineBreak)
	r := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: "Batting summary: " + v.Source,
	})
	return markdown.ToHTML([]byte(v.Markdown()), p, r)
}
