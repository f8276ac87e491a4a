package cmd

import (
	"github.com/TFMV/forcegraph/editor"
	"github.com/TFMV/forcegraph/models"
	"github.com/TFMV/forcegraph/server"
	"github.com/TFMV/forcegraph/ui"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var (
		addr        string
		inputFormat string
	)

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve a live editor over HTTP and websockets",
		Long: `Start the simulation service. The graph keeps ticking in the background;
clients edit it through the JSON API and watch it on /ws.

  forcegraph serve
  forcegraph serve deps.txt --addr :9000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log, err := newLogger(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Address = addr
			}

			var g *models.Graph
			if len(args) == 1 {
				if g, err = readGraph(args[0], inputFormat, cmd.InOrStdin()); err != nil {
					return err
				}
			}

			opts, err := cfg.EditorOptions()
			if err != nil {
				return err
			}
			srv := server.New(editor.New(g, opts), server.Config{
				Address:      cfg.Server.Address,
				TickInterval: cfg.TickInterval(),
				StreamFPS:    cfg.Server.StreamFPS,
				Width:        float64(cfg.Simulation.Width),
				Height:       float64(cfg.Simulation.Height),
			}, log)

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			ui.Banner(cmd.OutOrStdout(), "serving on "+ui.Info.Sprint(cfg.Server.Address))
			if err := srv.Run(ctx); err != nil {
				return err
			}
			log.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&inputFormat, "from", "", "Input format of the initial graph (default from extension)")

	return cmd
}
