package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/roach88/blogql/internal/seed"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // GraphQL errors, failing scenarios, invalid seed
	ExitCommandError = 2 // bad flags, unreadable files, server startup
)

// Failure codes reported in JSON envelopes.
const (
	ErrCodeGraphQL      = "E_GRAPHQL"
	ErrCodeSeedNotFound = "E_SEED_NOT_FOUND"
	ErrCodeInvalidSeed  = "E_INVALID_SEED"
	ErrCodeTestFailed   = "E_TEST_FAILED"
)

const (
	statusOK    = "ok"
	statusError = "error"
)

// ExitError tags an error with the process exit code it should produce.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// exitErrorf builds an ExitError with fmt.Errorf semantics, so %w wraps.
func exitErrorf(code int, format string, args ...interface{}) *ExitError {
	return &ExitError{Code: code, Err: fmt.Errorf(format, args...)}
}

// ExitCode maps err to a process exit code. Errors without a code are failures.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Envelope is the single object printed by a command under --format json.
type Envelope struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  *Failure    `json:"error,omitempty"`
}

// Failure explains why a command did not succeed.
type Failure struct {
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Problems []seed.Problem `json:"problems,omitempty"`
}

// GraphQLResult is a GraphQL response with each error's extensions.code
// lifted onto the error.
type GraphQLResult struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// GraphQLError is one entry of GraphQLResult.Errors.
type GraphQLError struct {
	Message string        `json:"message"`
	Path    []interface{} `json:"path,omitempty"`
	Code    string        `json:"code,omitempty"`
}

func newGraphQLResult(resp *graphql.Response) GraphQLResult {
	result := GraphQLResult{Data: resp.Data}
	if len(result.Data) == 0 {
		result.Data = json.RawMessage("null")
	}
	for _, qe := range resp.Errors {
		gqlErr := GraphQLError{Message: qe.Message, Path: qe.Path}
		if code, ok := qe.Extensions["code"].(string); ok {
			gqlErr.Code = code
		}
		result.Errors = append(result.Errors, gqlErr)
	}
	return result
}

// writeText renders r for humans: data as indented JSON unless null,
// then one line per error.
func (r GraphQLResult) writeText(w io.Writer) error {
	if string(r.Data) != "null" {
		if err := writeJSON(w, r.Data); err != nil {
			return err
		}
	}
	for _, e := range r.Errors {
		line := "✗ " + e.Message
		if e.Code != "" {
			line += " [" + e.Code + "]"
		}
		if len(e.Path) > 0 {
			parts := make([]string, len(e.Path))
			for i, p := range e.Path {
				parts[i] = fmt.Sprint(p)
			}
			line += " at " + strings.Join(parts, ".")
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

// Printer writes command results to Out and --verbose diagnostics to Diag,
// so JSON on Out stays parseable.
type Printer struct {
	Format  string // "text" | "json"
	Out     io.Writer
	Diag    io.Writer
	Verbose bool
}

// JSON reports whether results are printed as envelopes.
func (p *Printer) JSON() bool {
	return p.Format == "json"
}

// Debugf writes a diagnostic line when verbose output is on.
func (p *Printer) Debugf(format string, args ...interface{}) {
	if !p.Verbose || p.Diag == nil {
		return
	}
	fmt.Fprintf(p.Diag, format+"\n", args...)
}

// Result prints data as an ok envelope, or calls text in text mode.
func (p *Printer) Result(data interface{}, text func(w io.Writer) error) error {
	if p.JSON() {
		return writeJSON(p.Out, Envelope{Status: statusOK, Data: data})
	}
	return text(p.Out)
}

// Fail prints f (with optional data) and returns an ExitError carrying code
// and f.Message. A nil text prints "Error [CODE]: message".
func (p *Printer) Fail(code int, f Failure, data interface{}, text func(w io.Writer) error) error {
	var err error
	switch {
	case p.JSON():
		err = writeJSON(p.Out, Envelope{Status: statusError, Data: data, Error: &f})
	case text != nil:
		err = text(p.Out)
	default:
		_, err = fmt.Fprintf(p.Out, "Error [%s]: %s\n", f.Code, f.Message)
	}
	if err != nil {
		return err
	}
	return &ExitError{Code: code, Err: errors.New(f.Message)}
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
