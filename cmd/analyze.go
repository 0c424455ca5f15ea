package cmd

import (
	"context"
	"fmt"
	"strings"

	cfgpkg "github.com/KaramelBytes/bbanalyze/internal/config"
	"github.com/KaramelBytes/bbanalyze/internal/report"
	"github.com/KaramelBytes/bbanalyze/internal/utils"
	"github.com/spf13/cobra"
)

var (
	anaOutputPath string
	anaFormat     string
	anaMinAB      float64
	anaLeagues    []string
	anaComplete   string
	anaDelimiter  string
)

// reportOptions returns report options taken from configuration.
func reportOptions(c *cfgpkg.Global) report.Options {
	opt := report.DefaultOptions()
	opt.MinAtBats = c.MinAtBats
	opt.Leagues = append([]string(nil), c.Leagues...)
	opt.NAValues = append([]string(nil), c.NAValues...)
	opt.Completeness = c.Completeness
	return opt
}

// applyAnalyzeFlags overrides opt with the analyze flags the user set.
func applyAnalyzeFlags(cmd *cobra.Command, opt report.Options) (report.Options, error) {
	f := cmd.Flags()
	if f.Changed("min-ab") {
		opt.MinAtBats = anaMinAB
	}
	if f.Changed("league") {
		opt.Leagues = nil
		for _, lg := range anaLeagues {
			opt.Leagues = append(opt.Leagues, strings.ToUpper(strings.TrimSpace(lg)))
		}
	}
	if f.Changed("complete") {
		opt.Completeness = strings.ToLower(anaComplete)
	}
	switch anaDelimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", anaDelimiter)
	}
	return opt, opt.Validate()
}

// inputPath picks the file argument, falling back to the configured input.
func inputPath(args []string, c *cfgpkg.Global) string {
	if len(args) > 0 {
		return args[0]
	}
	return c.Input
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Build the batting report for a season file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := effectiveConfig()
		opt, err := applyAnalyzeFlags(cmd, reportOptions(c))
		if err != nil {
			return err
		}
		format := c.OutputFormat
		if cmd.Flags().Changed("format") {
			format = anaFormat
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		rep, err := report.NewBuilder(opt, appFs, logger).Build(ctx, inputPath(args, c))
		if err != nil {
			return err
		}
		out, err := render(rep, format)
		if err != nil {
			return err
		}

		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(appFs, anaOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote report to %s\n", anaOutputPath)
		} else {
			fmt.Fprint(cmd.OutOrStdout(), string(out))
		}
		for _, w := range rep.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %s\n", w)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
	analyzeCmd.Flags().StringVarP(&anaFormat, "format", "f", "markdown", "output format: markdown|json|yaml|html")
	analyzeCmd.Flags().Float64Var(&anaMinAB, "min-ab", 50, "minimum career at-bats for the leaderboard")
	analyzeCmd.Flags().StringSliceVar(&anaLeagues, "league", nil, "league codes to summarize (repeatable; default AL,NL)")
	analyzeCmd.Flags().StringVar(&anaComplete, "complete", "required", "row completeness: required|all")
	analyzeCmd.Flags().StringVar(&anaDelimiter, "delimiter", "", "field delimiter: ',' | ';' | 'tab' (default from extension)")
}
