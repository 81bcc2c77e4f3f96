package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"legacy-guardians/internal/server"
	"legacy-guardians/internal/sim"
	"legacy-guardians/internal/stream"
)

func newServeCmd(app *App) *cobra.Command {
	var (
		addr string
		demo bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and market websocket",
		Long: `Starts the JSON API (coach chat, feedback, newsletter, stats) and the
/ws/market websocket. With --demo a looping simulated session feeds the
websocket so clients have something to watch.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.Config.Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			hub := stream.NewHub()
			defer hub.Close()

			if demo {
				go runDemoLoop(ctx, app, hub)
			}

			color.Cyan("🛡  Legacy Guardians server on %s", addr)
			if demo {
				color.Yellow("   demo session feeding /ws/market")
			}

			srv := server.New(addr, app.Advisor, app.Store, hub, app.Logger)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&demo, "demo", true, "run a looping demo session for the websocket")

	return cmd
}

// runDemoLoop plays back-to-back unattended sessions into the hub until
// the context is cancelled.
func runDemoLoop(ctx context.Context, app *App, hub *stream.Hub) {
	for ctx.Err() == nil {
		session, err := sim.NewSession(sim.Config{
			Capital:      decimal.NewFromFloat(app.Config.Simulation.StartingCapital),
			TickInterval: app.Config.Simulation.TickInterval,
			Publisher:    hub,
		}, app.Logger)
		if err != nil {
			app.Logger.Error().Err(err).Msg("demo session failed to start")
			return
		}
		if err := session.Run(ctx); err != nil {
			return
		}
		session.End()

		select {
		case <-ctx.Done():
			return
		case <-time.After(2 * time.Second):
		}
	}
}
