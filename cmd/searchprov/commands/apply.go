package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/imamik/searchprov/cmd/searchprov/handlers"
)

// Apply returns the command that runs a request list against the domain.
//
// Required flags:
//
//	--file, -f: Request list (YAML or JSON, local path or s3://bucket/key)
//
// Environment variables:
//
//	DOMAIN, REGION: target domain and signing region (or --domain, --region)
func Apply(v *viper.Viper) *cobra.Command {
	var opts handlers.ApplyOptions

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a request list to the domain",
		Long: `Send every request of the list to the domain, in order.

The first request that fails stops the run; later requests are not sent.
Requests that already succeeded are not rolled back.

Examples:
  # Apply the requests in requests.yaml
  searchprov apply -f requests.yaml --domain search-demo.eu-west-1.es.amazonaws.com --region eu-west-1

  # Read the list from S3 and export metrics for node_exporter
  searchprov apply -f s3://assets/requests.yaml --metrics-file /var/lib/node_exporter/searchprov.prom`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Out = cmd.OutOrStdout()
			return handlers.Apply(cmd.Context(), v, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "Request list (YAML or JSON, local path or s3:// URL)")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics in textfile format")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
