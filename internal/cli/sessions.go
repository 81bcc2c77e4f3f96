package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"legacy-guardians/pkg/utils"
)

func newSessionsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List completed trading sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return fmt.Errorf("persistence is disabled")
			}
			output := NewOutput(cmd)

			records, err := app.Store.ListSessions(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(records)
			}
			if len(records) == 0 {
				output.Dim("No sessions played yet. Try 'guardians play'.")
				return nil
			}

			table := NewTable(output, "ID", "Ended", "Final Value", "Return", "Drawdown", "Ticks")
			for _, rec := range records {
				table.AddRow(
					shortID(rec.ID),
					rec.EndedAt.Format("02-Jan 15:04"),
					utils.FormatCurrency(rec.FinalValue),
					output.FormatPercent(rec.TotalReturn),
					fmt.Sprintf("%.2f%%", rec.MaxDrawdown),
					strconv.Itoa(rec.Ticks),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum sessions to list")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// chartRow is the CSV row for an exported value series.
type chartRow struct {
	Label string  `csv:"tick"`
	Value float64 `csv:"total_value"`
}

// tradeRow is the CSV row for an exported trade log.
type tradeRow struct {
	Side     string `csv:"side"`
	Asset    string `csv:"asset"`
	Quantity string `csv:"quantity"`
	Price    string `csv:"price"`
	Tick     int    `csv:"tick"`
}

func newExportCmd(app *App) *cobra.Command {
	var (
		out    string
		trades bool
	)

	cmd := &cobra.Command{
		Use:   "export <session-id>",
		Short: "Export a session's value series (or trades) as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return fmt.Errorf("persistence is disabled")
			}
			output := NewOutput(cmd)

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			if trades {
				log, err := app.Store.GetSessionTrades(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				rows := make([]tradeRow, 0, len(log))
				for _, t := range log {
					rows = append(rows, tradeRow{
						Side:     string(t.Side),
						Asset:    t.Asset,
						Quantity: t.Quantity.String(),
						Price:    t.Price.String(),
						Tick:     t.Tick,
					})
				}
				if err := gocsv.Marshal(rows, w); err != nil {
					return err
				}
			} else {
				rec, err := app.Store.GetSession(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				rows := make([]chartRow, 0, len(rec.ChartData))
				for _, p := range rec.ChartData {
					rows = append(rows, chartRow{Label: p.Date, Value: p.Value})
				}
				if err := gocsv.Marshal(rows, w); err != nil {
					return err
				}
			}

			if out != "" {
				output.Success("Exported to %s", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&trades, "trades", false, "export the trade log instead of the value series")
	return cmd
}
