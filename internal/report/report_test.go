package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KaramelBytes/bbanalyze/internal/batting"
	"github.com/KaramelBytes/bbanalyze/internal/dataset"
	"github.com/KaramelBytes/bbanalyze/internal/errs"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const samplePath = "/data/baseball.csv"

func sampleFs(t *testing.T) afero.Fs {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", "batting_sample.csv"))
	require.NoError(t, err)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, samplePath, b, 0o644))
	return fs
}

func build(t *testing.T, opt Options) *Report {
	t.Helper()
	rep, err := NewBuilder(opt, sampleFs(t), zaptest.NewLogger(t)).Build(context.Background(), samplePath)
	require.NoError(t, err)
	return rep
}

func TestValidatePath(t *testing.T) {
	cases := []struct {
		path  string
		delim rune
		ok    bool
	}{
		{"baseball.csv", ',', true},
		{"/tmp/Baseball.CSV", ',', true},
		{"seasons.tsv", '\t', true},
		{"baseball.txt", 0, false},
		{"baseball", 0, false},
		{".csv", 0, false},
		{"dir/.csv", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		d, err := ValidatePath(c.path)
		if !c.ok {
			assert.ErrorIs(t, err, errs.ErrInvalidInput, c.path)
			continue
		}
		require.NoError(t, err, c.path)
		assert.Equal(t, c.delim, d, c.path)
	}
}

func TestOptionsValidate(t *testing.T) {
	require.NoError(t, DefaultOptions().Validate())

	bad := DefaultOptions()
	bad.MinAtBats = -1
	assert.ErrorIs(t, bad.Validate(), errs.ErrInvalidInput)

	bad = DefaultOptions()
	bad.Completeness = "some"
	assert.ErrorIs(t, bad.Validate(), errs.ErrInvalidInput)

	bad = DefaultOptions()
	bad.Leagues = []string{"AL", ""}
	assert.ErrorIs(t, bad.Validate(), errs.ErrInvalidInput)
}

func TestBuildDatasetCounts(t *testing.T) {
	rep := build(t, DefaultOptions())

	assert.NotEqual(t, uuid.Nil, rep.ID)
	assert.Equal(t, samplePath, rep.Source)
	assert.Equal(t, 20, rep.RecordCount)
	assert.Equal(t, 16, rep.PlayerCount)
	assert.Equal(t, 17, rep.TeamCount)
	// the NA league code reads as missing
	assert.Equal(t, 2, rep.LeagueCount)
	assert.Equal(t, YearRange{First: 1871, Last: 2007}, rep.Years)
	assert.Equal(t, 15, rep.CompleteCases)
	assert.Equal(t, 15, rep.Batting.Len())
	assert.Empty(t, rep.Warnings)
}

func TestBuildSeasonRatesPerRow(t *testing.T) {
	rep := build(t, DefaultOptions())
	ids, _, err := rep.Batting.Strings(batting.ColID)
	require.NoError(t, err)
	teams, _, err := rep.Batting.Strings(batting.ColTeam)
	require.NoError(t, err)
	obp, err := rep.Batting.Floats(batting.ColOBP)
	require.NoError(t, err)
	pab, err := rep.Batting.Floats(batting.ColPAB)
	require.NoError(t, err)

	seen := 0
	for i := range ids {
		if ids[i] != "loftoke01" {
			continue
		}
		seen++
		switch teams[i] {
		case "CLE":
			assert.InDelta(t, 66.0/190.0, obp[i], 1e-12)
			assert.InDelta(t, 72.0/196.0, pab[i], 1e-12)
		case "TEX":
			assert.InDelta(t, 137.0/358.0, obp[i], 1e-12)
			assert.InDelta(t, 142.0/363.0, pab[i], 1e-12)
		default:
			t.Fatalf("unexpected team %s", teams[i])
		}
	}
	assert.Equal(t, 2, seen)
}

func TestBuildLeagueSummaries(t *testing.T) {
	rep := build(t, DefaultOptions())
	require.Len(t, rep.Leagues, 2)

	al, ok := rep.League("AL")
	require.True(t, ok)
	assert.Equal(t, 7, al.Data.Len())
	assert.Equal(t, 6, al.Players)
	assert.Equal(t, 6, al.Teams)
	assert.InDelta(t, 0.3611239364939875, al.OBPMean, 1e-12)
	assert.InDelta(t, 0.36350650454893296, al.OBPMedian, 1e-12)

	nl, ok := rep.League("NL")
	require.True(t, ok)
	assert.Equal(t, 8, nl.Data.Len())
	assert.Equal(t, 6, nl.Players)
	assert.Equal(t, 6, nl.Teams)
	assert.InDelta(t, 0.3497230253802393, nl.OBPMean, 1e-12)
	assert.InDelta(t, 0.3381706244503078, nl.OBPMedian, 1e-12)

	_, ok = rep.League("AA")
	assert.False(t, ok)

	complete := seasonKeys(t, rep.Batting)
	alKeys, nlKeys := seasonKeys(t, al.Data), seasonKeys(t, nl.Data)
	for k := range alKeys {
		assert.NotContains(t, nlKeys, k, "season in both leagues")
		assert.Contains(t, complete, k)
	}
	for k := range nlKeys {
		assert.Contains(t, complete, k)
	}
}

// seasonKeys returns the (id, team, year) key of every row.
func seasonKeys(t *testing.T, ds *dataset.Dataset) map[string]bool {
	t.Helper()
	ids, _, err := ds.Strings(batting.ColID)
	require.NoError(t, err)
	teams, _, err := ds.Strings(batting.ColTeam)
	require.NoError(t, err)
	years, err := ds.Floats(batting.ColYear)
	require.NoError(t, err)
	keys := make(map[string]bool, len(ids))
	for i := range ids {
		k := fmt.Sprintf("%s/%s/%.0f", ids[i], teams[i], years[i])
		require.False(t, keys[k], "duplicate season key %s", k)
		keys[k] = true
	}
	return keys
}

func TestBuildCareersAndEligibility(t *testing.T) {
	rep := build(t, DefaultOptions())
	require.NotNil(t, rep.Careers)
	assert.Equal(t, 11, rep.Careers.Len())
	assert.Equal(t, 8, rep.Eligible)

	ids, _, err := rep.Careers.Strings(batting.ColID)
	require.NoError(t, err)
	ab, err := rep.Careers.Floats(batting.ColAB)
	require.NoError(t, err)
	obp, err := rep.Careers.Floats(batting.ColOBP)
	require.NoError(t, err)
	pab, err := rep.Careers.Floats(batting.ColPAB)
	require.NoError(t, err)
	for i, id := range ids {
		if id == "loftoke01" {
			assert.Equal(t, 477.0, ab[i])
			assert.InDelta(t, 203.0/548.0, obp[i], 1e-12)
			assert.InDelta(t, 214.0/559.0, pab[i], 1e-12)
		}
	}
}

func TestBuildLeaderboard(t *testing.T) {
	rep := build(t, DefaultOptions())
	want := map[string]struct {
		id    string
		value float64
	}{
		batting.ColOBP:  {"bondsba01", 453.0 / 967.0},
		batting.ColPAB:  {"bondsba01", 0.47010309278350515},
		batting.ColHR:   {"bondsba01", 54},
		batting.ColHRP:  {"thomeji01", 35.0 / 432.0},
		batting.ColH:    {"griffke02", 254},
		batting.ColHP:   {"thomafr04", 147.0 / 531.0},
		batting.ColSB:   {"loftoke01", 23},
		batting.ColSBP:  {"loftoke01", 23.0 / 477.0},
		batting.ColSO:   {"griffke02", 177},
		batting.ColSOP:  {"glavito02", 23.0 / 56.0},
		batting.ColSOPA: {"glavito02", 23.0 / 67.0},
		batting.ColBB:   {"bondsba01", 247},
		batting.ColBBP:  {"bondsba01", 247.0 / 707.0},
		batting.ColG:    {"bondsba01", 256},
	}
	assert.Empty(t, rep.Leaderboard.NoRecord)
	assert.Equal(t, batting.TrackedStats, rep.Leaderboard.Order)
	for stat, w := range want {
		h, err := rep.Leaderboard.Lookup(stat)
		require.NoError(t, err, stat)
		assert.Equal(t, w.id, h.PlayerID, stat)
		assert.InDelta(t, w.value, h.Value, 1e-12, stat)
	}

	// pierrju01 leads stolen-base rate but has only 20 career at-bats.
	sbp, err := rep.Leaderboard.Lookup(batting.ColSBP)
	require.NoError(t, err)
	assert.NotEqual(t, "pierrju01", sbp.PlayerID)
}

func TestBuildMinAtBatsZeroAdmitsEveryone(t *testing.T) {
	opt := DefaultOptions()
	opt.MinAtBats = 0
	rep := build(t, opt)
	assert.Equal(t, 11, rep.Eligible)
	sbp, err := rep.Leaderboard.Lookup(batting.ColSBP)
	require.NoError(t, err)
	assert.Equal(t, "pierrju01", sbp.PlayerID)
	assert.InDelta(t, 0.75, sbp.Value, 1e-12)
}

func TestBuildCompletenessAll(t *testing.T) {
	opt := DefaultOptions()
	opt.Completeness = CompleteAll
	rep := build(t, opt)
	assert.Equal(t, 14, rep.CompleteCases)
	// counts are taken before the completeness filter
	assert.Equal(t, 16, rep.PlayerCount)
}

func TestBuildHighThresholdLeavesNoRecord(t *testing.T) {
	opt := DefaultOptions()
	opt.MinAtBats = 1e6
	rep := build(t, opt)
	assert.Equal(t, 0, rep.Eligible)
	assert.Equal(t, batting.TrackedStats, rep.Leaderboard.NoRecord)
	assert.NotEmpty(t, rep.Warnings)
	_, err := rep.Leaderboard.Lookup(batting.ColHR)
	assert.ErrorIs(t, err, errs.ErrNoEligibleRecord)
}

func TestBuildUnknownStatIsLocal(t *testing.T) {
	opt := DefaultOptions()
	opt.Stats = []string{batting.ColHR, "war"}
	rep := build(t, opt)
	_, err := rep.Leaderboard.Lookup("war")
	assert.ErrorIs(t, err, errs.ErrSchema)
	h, err := rep.Leaderboard.Lookup(batting.ColHR)
	require.NoError(t, err)
	assert.Equal(t, "bondsba01", h.PlayerID)
	assert.Len(t, rep.Warnings, 1)
}

func TestBuildNoCompleteRows(t *testing.T) {
	fs := afero.NewMemMapFs()
	csv := "id,year,team,lg,g,ab,h,bb,hbp,sf,sh,hr,so,sb\n" +
		"ansonca01,1871,RC1,NA,25,120,39,2,,,,0,1,6\n"
	require.NoError(t, afero.WriteFile(fs, "/nl.csv", []byte(csv), 0o644))
	rep, err := NewBuilder(DefaultOptions(), fs, nil).Build(context.Background(), "/nl.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, rep.RecordCount)
	assert.Equal(t, 0, rep.CompleteCases)
	assert.Nil(t, rep.Careers)
	assert.Equal(t, batting.TrackedStats, rep.Leaderboard.NoRecord)
	assert.NotEmpty(t, rep.Warnings)
}

func TestBuildTSV(t *testing.T) {
	fs := afero.NewMemMapFs()
	tsv := "id\tyear\tteam\tlg\tg\tab\th\tbb\thbp\tsf\tsh\thr\tso\tsb\n" +
		"bondsba01\t2007\tSFN\tNL\t126\t340\t94\t132\t3\t2\t0\t28\t54\t5\n"
	require.NoError(t, afero.WriteFile(fs, "/s.tsv", []byte(tsv), 0o644))
	rep, err := NewBuilder(DefaultOptions(), fs, nil).Build(context.Background(), "/s.tsv")
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Eligible)
	h, err := rep.Leaderboard.Lookup(batting.ColHR)
	require.NoError(t, err)
	assert.Equal(t, 28.0, h.Value)
}

func TestBuildErrors(t *testing.T) {
	fs := sampleFs(t)
	ctx := context.Background()

	_, err := NewBuilder(DefaultOptions(), fs, nil).Build(ctx, "/data/baseball.xlsx")
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = NewBuilder(DefaultOptions(), fs, nil).Build(ctx, "/data/missing.csv")
	assert.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "/noab.csv", []byte("id,year,team,lg\nx,2001,BOS,AL\n"), 0o644))
	_, err = NewBuilder(DefaultOptions(), fs, nil).Build(ctx, "/noab.csv")
	assert.ErrorIs(t, err, errs.ErrSchema)

	require.NoError(t, afero.WriteFile(fs, "/header.csv",
		[]byte("id,year,team,lg,g,ab,h,bb,hbp,sf,sh,hr,so,sb\n"), 0o644))
	_, err = NewBuilder(DefaultOptions(), fs, nil).Build(ctx, "/header.csv")
	assert.ErrorIs(t, err, errs.ErrEmptyResult)

	require.NoError(t, afero.WriteFile(fs, "/bad.csv",
		[]byte("id,year,team,lg,g,ab,h,bb,hbp,sf,sh,hr,so,sb\n"+
			"bondsba01,2007,SFN,NL,126,three-forty,94,132,3,2,0,28,54,5\n"+
			"loftoke01,2007,TEX,AL,84,311,90,45,2,2,3,7,28,21\n"), 0o644))
	_, err = NewBuilder(DefaultOptions(), fs, nil).Build(ctx, "/bad.csv")
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	opt := DefaultOptions()
	opt.MinAtBats = -5
	_, err = NewBuilder(opt, fs, nil).Build(ctx, samplePath)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = NewBuilder(DefaultOptions(), fs, nil).Build(cancelled, samplePath)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildDoesNotMutateSource(t *testing.T) {
	fs := sampleFs(t)
	before, err := afero.ReadFile(fs, samplePath)
	require.NoError(t, err)

	b := NewBuilder(DefaultOptions(), fs, nil)
	b.now = func() time.Time { return time.Date(2007, 10, 1, 0, 0, 0, 0, time.UTC) }
	rep, err := b.Build(context.Background(), samplePath)
	require.NoError(t, err)
	assert.Equal(t, 2007, rep.GeneratedAt.Year())

	after, err := afero.ReadFile(fs, samplePath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.False(t, rep.Batting.Has(batting.ColSeasons))
}
