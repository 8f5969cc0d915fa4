package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/floorgen/internal/config"
	"github.com/matzehuels/floorgen/internal/server"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the floorgen HTTP API",
		Long: `Run the floorgen HTTP API.

Settings come from a .env file and FLOORGEN_* environment variables:

  ` + config.EnvAddr + `            listen address (default ` + config.DefaultAddr + `)
  ` + config.EnvModelURL + `       layout model service (default: procedural model)
  ` + config.EnvModelTimeout + `   HTTP timeout per model call
  ` + config.EnvMaxConcurrency + ` concurrent model calls
  ` + config.EnvRedisURL + `       shared graph cache (default: in-memory)
  ` + config.EnvCatalog + `         room catalog TOML file`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if c.catalogPath != "" {
				cfg.Catalog = c.catalogPath
			}
			c.Logger.Info("starting server", "config", cfg.String())

			srv, runner, err := server.FromConfig(cmd.Context(), cfg, c.Logger)
			if err != nil {
				return err
			}
			defer runner.Close()
			return srv.ListenAndServe(cmd.Context(), cfg.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides "+config.EnvAddr+")")
	return cmd
}
