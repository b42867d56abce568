// Package commands defines the CLI command structure and flag bindings.
//
// Command execution is delegated to handler functions in the handlers
// package. Connection flags are bound to the same viper keys the
// environment variables populate, so a flag overrides its variable.
package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/imamik/searchprov/internal/config"
)

// Root returns the root command for the searchprov CLI.
func Root() *cobra.Command {
	v := config.NewViper()

	cmd := &cobra.Command{
		Use:           "searchprov",
		Short:         "Apply administrative requests to an OpenSearch domain",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.String("domain", "", "Domain endpoint, optionally with scheme (env: DOMAIN)")
	flags.String("region", "", "AWS region used for signing (env: REGION)")
	flags.String("profile", "", "Shared config profile for credentials (env: AWS_PROFILE)")
	flags.Bool("debug", false, "Enable debug logging (env: DEBUG)")
	bindFlags(v, flags)

	cmd.AddCommand(Apply(v))
	cmd.AddCommand(Render())
	cmd.AddCommand(Version())

	return cmd
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	_ = v.BindPFlag(config.KeyDomain, flags.Lookup("domain"))
	_ = v.BindPFlag(config.KeyRegion, flags.Lookup("region"))
	_ = v.BindPFlag(config.KeyProfile, flags.Lookup("profile"))
	_ = v.BindPFlag(config.KeyDebug, flags.Lookup("debug"))
}
