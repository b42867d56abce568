package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/searchprov/cmd/searchprov/handlers"
)

// Render returns the command that prints the encoded requests without
// sending them.
func Render() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the encoded requests without sending them",
		Long: `Encode every request of the list and print method, final path,
headers and body as YAML. Nothing is signed or sent.

Examples:
  searchprov render -f requests.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Render(cmd.Context(), file, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Request list (YAML or JSON)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
