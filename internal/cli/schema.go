package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/blogql/internal/graph"
)

// SchemaResult is the JSON payload of the schema command.
type SchemaResult struct {
	SDL string `json:"sdl"`
}

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "schema",
		Short:         "Print the GraphQL schema definition",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sdl := graph.SDL()
			return rootOpts.printer(cmd).Result(SchemaResult{SDL: sdl}, func(w io.Writer) error {
				_, err := fmt.Fprint(w, sdl)
				return err
			})
		},
	}
}
