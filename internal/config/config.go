package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DirName is the per-user configuration directory under $HOME.
const DirName = ".bbanalyze"

// Global configuration structure.
type Global struct {
	// Input is the season file analyzed when no path argument is given.
	Input        string   `mapstructure:"input" yaml:"input" validate:"required"`
	MinAtBats    float64  `mapstructure:"min_at_bats" yaml:"min_at_bats" validate:"gte=0"`
	Leagues      []string `mapstructure:"leagues" yaml:"leagues" validate:"dive,required,alphanum,max=3"`
	NAValues     []string `mapstructure:"na_values" yaml:"na_values"`
	Completeness string   `mapstructure:"completeness" yaml:"completeness" validate:"oneof=required all"`

	// Output
	OutputFormat string `mapstructure:"output_format" yaml:"output_format" validate:"oneof=markdown json yaml html"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn warning error"`
}

// Defaults returns the built-in configuration.
func Defaults() Global {
	return Global{
		Input:        "baseball.csv",
		MinAtBats:    50,
		Leagues:      []string{"AL", "NL"},
		NAValues:     []string{"", "NA", "NaN", "<nil>"},
		Completeness: "required",
		OutputFormat: "markdown",
		LogLevel:     "info",
	}
}

var validate = validator.New()

// Validate checks every field against its constraints.
func (c *Global) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func defaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, DirName, "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.bbanalyze/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	path := cfgFile
	if path == "" {
		p, err := defaultPath()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = p
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Env vars use the BBANALYZE_ prefix.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("BBANALYZE")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("input", d.Input)
	v.SetDefault("min_at_bats", d.MinAtBats)
	v.SetDefault("leagues", d.Leagues)
	v.SetDefault("na_values", d.NAValues)
	v.SetDefault("completeness", d.Completeness)
	v.SetDefault("output_format", d.OutputFormat)
	v.SetDefault("log_level", d.LogLevel)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, DirName))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Comma-separated env values arrive as one element.
	c.Leagues = splitList(c.Leagues)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
