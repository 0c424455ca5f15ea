package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/KaramelBytes/bbanalyze/internal/batting"
	"github.com/KaramelBytes/bbanalyze/internal/report"
	"github.com/spf13/cobra"
)

var (
	ldrStat  string
	ldrMinAB float64
)

var leadersCmd = &cobra.Command{
	Use:   "leaders [file]",
	Short: "Print the career record holder of one statistic",
	Long: "Print the career record holder of one statistic among eligible players.\n" +
		"Statistics: " + strings.Join(batting.TrackedStats, ", "),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := effectiveConfig()
		opt := reportOptions(c)
		if cmd.Flags().Changed("min-ab") {
			opt.MinAtBats = ldrMinAB
		}
		stat := strings.ToLower(strings.TrimSpace(ldrStat))
		opt.Stats = []string{stat}
		if err := opt.Validate(); err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		rep, err := report.NewBuilder(opt, appFs, logger).Build(ctx, inputPath(args, c))
		if err != nil {
			return err
		}
		h, err := rep.Leaderboard.Lookup(stat)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", h.Stat, h.PlayerID, formatStat(h.Value))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(leadersCmd)
	leadersCmd.Flags().StringVarP(&ldrStat, "stat", "s", batting.ColOBP, "statistic to look up")
	leadersCmd.Flags().Float64Var(&ldrMinAB, "min-ab", 50, "minimum career at-bats")
}
