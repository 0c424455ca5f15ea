package report

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/KaramelBytes/bbanalyze/internal/batting"
	"github.com/KaramelBytes/bbanalyze/internal/dataset"
	"github.com/KaramelBytes/bbanalyze/internal/errs"
	"github.com/go-playground/validator/v10"
)

// Completeness modes.
const (
	// CompleteRequired keeps rows whose identity and raw counting columns are all present.
	CompleteRequired = "required"
	// CompleteAll keeps rows with no missing value in any column.
	CompleteAll = "all"
)

// DefaultInput is the season file read when no path is given.
const DefaultInput = "baseball.csv"

// Options tunes a report build.
type Options struct {
	MinAtBats    float64  `json:"min_at_bats" validate:"gte=0"`
	Leagues      []string `json:"leagues" validate:"dive,required,alphanum,max=3"`
	NAValues     []string `json:"na_values"`
	Completeness string   `json:"completeness" validate:"oneof=required all"`
	// Stats are the leaderboard statistics, in report order.
	Stats []string `json:"stats" validate:"min=1,dive,required"`
	// Delimiter overrides the delimiter implied by the file extension when non-zero.
	Delimiter rune `json:"-"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		MinAtBats:    batting.DefaultMinAtBats,
		Leagues:      []string{"AL", "NL"},
		NAValues:     append([]string(nil), dataset.DefaultNAValues...),
		Completeness: CompleteRequired,
		Stats:        append([]string(nil), batting.TrackedStats...),
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate reports the first invalid option as errs.ErrInvalidInput.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		if ves, ok := err.(validator.ValidationErrors); ok && len(ves) > 0 {
			fe := ves[0]
			return fmt.Errorf("%w: option %s failed %q (value %v)", errs.ErrInvalidInput, fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("%w: %v", errs.ErrInvalidInput, err)
	}
	return nil
}

// ValidatePath checks that path names a delimited text file and returns the
// delimiter its extension implies: ',' for .csv, tab for .tsv.
func ValidatePath(path string) (rune, error) {
	if strings.TrimSpace(path) == "" {
		return 0, fmt.Errorf("%w: empty path", errs.ErrInvalidInput)
	}
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if strings.TrimSuffix(base, ext) == "" {
		return 0, fmt.Errorf("%w: %q has no file name", errs.ErrInvalidInput, path)
	}
	switch strings.ToLower(ext) {
	case ".csv":
		return ',', nil
	case ".tsv":
		return '\t', nil
	default:
		return 0, fmt.Errorf("%w: %q is not a .csv file", errs.ErrInvalidInput, path)
	}
}
