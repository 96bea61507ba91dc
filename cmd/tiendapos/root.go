package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tiendapos/internal/config"
	"tiendapos/internal/logger"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

type rootOptions struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "tiendapos",
		Short:         "Point-of-sale inventory and supplier invoice reception",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newParseCmd(opts),
		newReceiveCmd(opts),
		newMigrateCmd(),
		newSeedCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// load reads configuration and builds a logger honoring --verbose.
func (o *rootOptions) load() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, logger.New(&cfg.Log), nil
}
