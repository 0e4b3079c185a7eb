package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/blogql/internal/seed"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool   `json:"valid"`
	Path     string `json:"path"`
	Users    int    `json:"users"`
	Posts    int    `json:"posts"`
	Comments int    `json:"comments"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <seed-file>",
		Short: "Validate a seed dataset without serving it",
		Long: `Validate a seed dataset (.yaml, .yml or .cue).

Checks that the file parses, that ids are present and unique per
collection, that emails are unique, and that every post and comment
references existing records. All problems are reported at once.

Exit codes:
  0 - Seed is valid
  1 - Seed is invalid
  2 - Seed file not found`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	printer := opts.printer(cmd)

	if _, err := os.Stat(path); err != nil {
		return printer.Fail(ExitCommandError, Failure{
			Code:    ErrCodeSeedNotFound,
			Message: fmt.Sprintf("seed file not found: %s", path),
		}, nil, nil)
	}

	ds, err := seed.LoadFile(path)
	if err != nil {
		return reportInvalidSeed(printer, path, err)
	}

	printer.Debugf("Loaded %s", path)

	result := ValidationResult{
		Valid:    true,
		Path:     path,
		Users:    len(ds.Users),
		Posts:    len(ds.Posts),
		Comments: len(ds.Comments),
	}
	return printer.Result(result, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "✓ Seed valid: %d user(s), %d post(s), %d comment(s)\n",
			result.Users, result.Posts, result.Comments)
		return err
	})
}

// reportInvalidSeed prints every dataset problem, or the parse error when
// the file never decoded.
func reportInvalidSeed(printer *Printer, path string, loadErr error) error {
	failure := Failure{Code: ErrCodeInvalidSeed, Message: loadErr.Error()}
	var verr *seed.ValidationError
	if errors.As(loadErr, &verr) {
		failure.Problems = verr.Problems
		failure.Message = fmt.Sprintf("seed has %d problem(s)", len(verr.Problems))
	}

	return printer.Fail(ExitFailure, failure, ValidationResult{Path: path}, func(w io.Writer) error {
		fmt.Fprintf(w, "✗ %s\n", path)
		if len(failure.Problems) == 0 {
			fmt.Fprintf(w, "  %s\n", failure.Message)
			return nil
		}
		for _, p := range failure.Problems {
			fmt.Fprintf(w, "  %s\n", p)
		}
		fmt.Fprintf(w, "\n%s\n", failure.Message)
		return nil
	})
}
