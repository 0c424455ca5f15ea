package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/bbanalyze/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set bbanalyze configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := effectiveConfig()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "input: %s\n", c.Input)
		fmt.Fprintf(out, "min_at_bats: %s\n", strconv.FormatFloat(c.MinAtBats, 'f', -1, 64))
		fmt.Fprintf(out, "leagues: %s\n", strings.Join(c.Leagues, ","))
		fmt.Fprintf(out, "na_values: %q\n", c.NAValues)
		fmt.Fprintf(out, "completeness: %s\n", c.Completeness)
		fmt.Fprintf(out, "output_format: %s\n", c.OutputFormat)
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "input":
			cfg.Input = val
		case "min_at_bats":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 {
				return fmt.Errorf("invalid number for min_at_bats: %v", val)
			}
			cfg.MinAtBats = f
		case "leagues":
			var lgs []string
			for _, p := range strings.Split(val, ",") {
				if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
					lgs = append(lgs, p)
				}
			}
			cfg.Leagues = lgs
		case "na_values":
			cfg.NAValues = strings.Split(val, ",")
		case "completeness":
			switch strings.ToLower(val) {
			case "required", "all":
				cfg.Completeness = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid completeness: %s (use required or all)", val)
			}
		case "output_format":
			switch strings.ToLower(val) {
			case "markdown", "md":
				cfg.OutputFormat = "markdown"
			case "json":
				cfg.OutputFormat = "json"
			case "yaml", "yml":
				cfg.OutputFormat = "yaml"
			case "html":
				cfg.OutputFormat = "html"
			default:
				return fmt.Errorf("invalid output_format: %s (use markdown, json, yaml or html)", val)
			}
		case "log_level":
			cfg.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
