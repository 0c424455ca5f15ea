package report

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/KaramelBytes/bbanalyze/internal/batting"
	"github.com/KaramelBytes/bbanalyze/internal/dataset"
	"github.com/KaramelBytes/bbanalyze/internal/errs"
	"github.com/KaramelBytes/bbanalyze/internal/logging"
	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Builder runs the report pipeline against a filesystem.
type Builder struct {
	opt Options
	fs  afero.Fs
	log *zap.Logger
	now func() time.Time
}

// NewBuilder returns a Builder. A nil fsys reads the OS filesystem and a nil
// logger discards output.
func NewBuilder(opt Options, fsys afero.Fs, log *zap.Logger) *Builder {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Builder{opt: opt, fs: fsys, log: logging.OrNop(log), now: time.Now}
}

// Build loads path and runs the pipeline: completeness filter, derived
// statistics, league summaries, career totals, eligibility and record holders.
// An empty complete-case set is recorded as a warning rather than an error.
func (b *Builder) Build(ctx context.Context, path string) (*Report, error) {
	if err := b.opt.Validate(); err != nil {
		return nil, err
	}
	delim, err := ValidatePath(path)
	if err != nil {
		return nil, err
	}
	if b.opt.Delimiter != 0 {
		delim = b.opt.Delimiter
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := dataset.Load(b.fs, path, batting.LoadOptions(delim, b.opt.NAValues))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	b.log.Debug("loaded season file", zap.String("path", path), zap.Int("rows", raw.Len()))

	rep := &Report{
		ID:          uuid.New(),
		Source:      path,
		GeneratedAt: b.now().UTC(),
		Options:     b.opt,
		RecordCount: raw.Len(),
	}
	if err := b.describe(rep, raw); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	complete, err := b.completeCases(raw)
	if err != nil {
		return nil, err
	}
	rep.CompleteCases = complete.Len()
	if rep.CompleteCases == 0 {
		rep.warn("no complete season rows")
	}
	b.log.Debug("completeness filter", zap.String("mode", b.opt.Completeness), zap.Int("kept", rep.CompleteCases))

	if rep.Batting, err = batting.Derive(complete); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, code := range b.opt.Leagues {
		lg, err := batting.LeagueSubset(rep.Batting, code)
		if err != nil {
			return nil, err
		}
		if lg.Data.Len() == 0 {
			rep.warn("league %s has no complete season rows", code)
		}
		rep.Leagues = append(rep.Leagues, lg)
		b.log.Debug("league subset", zap.String("league", code), zap.Int("rows", lg.Data.Len()))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep.Careers, err = batting.Careers(rep.Batting)
	switch {
	case errors.Is(err, errs.ErrEmptyResult):
		rep.Careers = nil
		rep.Leaderboard = batting.EmptyLeaderboard(b.opt.Stats)
		rep.warn("career totals skipped: %v", err)
		return rep, nil
	case err != nil:
		return nil, err
	}
	b.log.Debug("career totals", zap.Int("players", rep.Careers.Len()))

	pool, err := batting.Eligible(rep.Careers, b.opt.MinAtBats)
	if err != nil {
		return nil, err
	}
	rep.Eligible = pool.Len()
	if rep.Eligible == 0 {
		rep.warn("no player has at least %v career at-bats", b.opt.MinAtBats)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep.Leaderboard = batting.Leaders(pool, b.opt.Stats)
	for _, s := range rep.Leaderboard.Order {
		if ferr, ok := rep.Leaderboard.Failed[s]; ok {
			rep.warn("leaderboard %s: %v", s, ferr)
		}
	}
	b.log.Debug("leaderboard", zap.Int("eligible", rep.Eligible),
		zap.Int("holders", len(rep.Leaderboard.Holders)), zap.Strings("no_record", rep.Leaderboard.NoRecord))
	return rep, nil
}

// describe fills the dataset-wide counts from the raw rows.
func (b *Builder) describe(rep *Report, raw *dataset.Dataset) error {
	var err error
	if rep.PlayerCount, err = raw.CountUnique(batting.ColID); err != nil {
		return err
	}
	if rep.TeamCount, err = raw.CountUnique(batting.ColTeam); err != nil {
		return err
	}
	if rep.LeagueCount, err = raw.CountUnique(batting.ColLeague); err != nil {
		return err
	}
	years, err := raw.Floats(batting.ColYear)
	if err != nil {
		return err
	}
	defined := stats.Float64Data{}
	for _, y := range years {
		if !math.IsNaN(y) {
			defined = append(defined, y)
		}
	}
	if len(defined) == 0 {
		rep.warn("no season year present")
		return nil
	}
	first, _ := stats.Min(defined)
	last, _ := stats.Max(defined)
	rep.Years = YearRange{First: int(first), Last: int(last)}
	return nil
}

func (b *Builder) completeCases(raw *dataset.Dataset) (*dataset.Dataset, error) {
	if b.opt.Completeness == CompleteAll {
		return raw.CompleteCases()
	}
	return raw.CompleteCases(batting.RequiredColumns()...)
}

func (r *Report) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
