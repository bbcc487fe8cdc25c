package cli

import (
	"github.com/spf13/cobra"

	"github.com/gauravm26/vishmaker/internal/config"
	"github.com/gauravm26/vishmaker/internal/server"
	"github.com/gauravm26/vishmaker/pkg/pipeline"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var configPath, addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the project and canvas HTTP API",
		Long: `Serve starts the HTTP API exposing project CRUD and the canvas
endpoint. The store, cache, and layout geometry are taken from the config
file and VISHMAKER_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			st, err := newStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			pc, err := newConfiguredCache(ctx, cfg)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(pc, nil, c.Logger)
			defer runner.Close()

			srv := server.New(st, runner,
				server.WithLogger(c.Logger),
				server.WithGeometry(cfg.Geometry()))

			c.Logger.Info("Starting server",
				"addr", cfg.Server.Addr,
				"store", cfg.Store.Backend,
				"cache", cfg.Cache.Backend)
			return srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ShutdownTimeout())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (TOML)")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}
