package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/blogql/internal/graph"
	"github.com/roach88/blogql/internal/logging"
)

// ExecOptions holds flags for the exec command.
type ExecOptions struct {
	*RootOptions
	Seed      string // seed dataset; empty uses the demo dataset
	Vars      string // variables as a JSON object
	Operation string // operation name for multi-operation documents
	MaxDepth  int
}

// NewExecCommand creates the exec command.
func NewExecCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExecOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "exec <document>",
		Short: "Execute one GraphQL document against a fresh store",
		Long: `Execute a GraphQL query or mutation without starting a server.

<document> is inline GraphQL, a path to a .graphql/.gql file, or "-" to
read from stdin. The store is seeded, the document runs once, and the
result is printed. Nothing is kept afterwards.

Text output is the response data as indented JSON followed by one line
per error ("✗ message [CODE] at path"). JSON output wraps the response,
with each error's extensions.code lifted to "code".

Exit codes:
  0 - Response has no errors
  1 - Response has errors
  2 - Command error (unreadable document, invalid --vars, bad seed)

Examples:
  blogql exec '{ users { id name } }'
  blogql exec ./queries/posts.graphql --seed ./testdata/seeds/solo.yaml
  blogql exec 'query($q: String) { users(query: $q) { name } }' --vars '{"q":"jane"}'
  echo '{ me { name } }' | blogql exec -`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Seed, "seed", "", "seed dataset (.yaml, .yml or .cue)")
	cmd.Flags().StringVar(&opts.Vars, "vars", "", "variables as a JSON object")
	cmd.Flags().StringVar(&opts.Operation, "operation", "", "operation name to execute")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "maximum query depth (0 = unlimited)")

	return cmd
}

func runExec(opts *ExecOptions, document string, cmd *cobra.Command) error {
	printer := opts.printer(cmd)

	query, err := readDocument(document, cmd.InOrStdin())
	if err != nil {
		return exitErrorf(ExitCommandError, "failed to read document: %w", err)
	}

	vars, err := parseVars(opts.Vars)
	if err != nil {
		return exitErrorf(ExitCommandError, "invalid --vars: %w", err)
	}

	logger := zap.NewNop()
	if opts.Verbose {
		if logger, err = logging.New("debug", "console"); err != nil {
			return exitErrorf(ExitCommandError, "failed to build logger: %w", err)
		}
		defer logger.Sync() //nolint:errcheck
	}

	ctx := cmd.Context()
	st, err := openStore(ctx, opts.Seed, logger)
	if err != nil {
		return exitErrorf(ExitCommandError, "failed to open store: %w", err)
	}
	defer st.Close()

	schema, err := graph.NewSchema(st,
		graph.WithLogger(logger.Named("graph")),
		graph.WithMaxDepth(opts.MaxDepth),
	)
	if err != nil {
		return exitErrorf(ExitCommandError, "failed to build schema: %w", err)
	}

	result := newGraphQLResult(schema.Exec(ctx, query, opts.Operation, vars))
	if n := len(result.Errors); n > 0 {
		return printer.Fail(ExitFailure, Failure{
			Code:    ErrCodeGraphQL,
			Message: fmt.Sprintf("response has %d error(s)", n),
		}, result, result.writeText)
	}
	return printer.Result(result, result.writeText)
}

// readDocument resolves the document argument: "-" reads stdin, an existing
// .graphql or .gql file is read from disk, anything else is inline GraphQL.
func readDocument(arg string, stdin io.Reader) (string, error) {
	if arg == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	if strings.HasSuffix(arg, ".graphql") || strings.HasSuffix(arg, ".gql") {
		data, err := os.ReadFile(arg)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	return arg, nil
}

// parseVars decodes a JSON object of variables. Numbers decode as float64,
// as they would from an HTTP request body.
func parseVars(raw string) (map[string]interface{}, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var vars map[string]interface{}
	decoder := json.NewDecoder(bytes.NewReader([]byte(raw)))
	if err := decoder.Decode(&vars); err != nil {
		return nil, fmt.Errorf("expected a JSON object: %w", err)
	}
	if decoder.More() {
		return nil, fmt.Errorf("unexpected data after JSON object")
	}
	return vars, nil
}
