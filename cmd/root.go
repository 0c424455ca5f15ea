package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	cfgpkg "github.com/KaramelBytes/bbanalyze/internal/config"
	"github.com/KaramelBytes/bbanalyze/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
	// Logger for stage diagnostics; stays a no-op until loadConfig runs.
	logger = zap.NewNop()
	// Filesystem for reading season files and writing reports.
	appFs = afero.NewOsFs()
)

var rootCmd = &cobra.Command{
	Use:   "bbanalyze",
	Short: "bbanalyze: season batting records to career leaderboards",
	Long: `bbanalyze reads a per-season batting file (one row per player, team and season),
derives rate statistics, summarizes each league and reports the career record holder
of every tracked statistic among players with enough career at-bats.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.bbanalyze/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to read .env: %v\n", err)
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
	} else {
		cfg = c
	}
	level := effectiveConfig().LogLevel
	l, err := logging.New(level, debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
		return
	}
	logger = l
}

// effectiveConfig returns the loaded configuration, or the defaults when none loaded.
func effectiveConfig() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	d := cfgpkg.Defaults()
	return &d
}
