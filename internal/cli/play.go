package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"legacy-guardians/internal/market"
	"legacy-guardians/internal/models"
	"legacy-guardians/internal/sim"
	"legacy-guardians/internal/store"
	"legacy-guardians/pkg/utils"
)

func newPlayCmd(app *App) *cobra.Command {
	var (
		capital  float64
		allocs   []string
		coachSty string
		fast     bool
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play one simulated trading day and print the summary",
		Long: `Runs a full 24-tick trading day with the given starting allocation,
streams the portfolio value as prices move, then prints the performance
summary with a closing comment from your coach.

Allocations are dollar amounts per asset, e.g.:

  guardians play --alloc apple=1000 --alloc bitcoin=500`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if capital == 0 {
				capital = app.Config.Simulation.StartingCapital
			}
			allocations, err := parseAllocations(allocs)
			if err != nil {
				return err
			}

			interval := app.Config.Simulation.TickInterval
			if fast {
				interval = 5 * time.Millisecond
			}

			session, err := sim.NewSession(sim.Config{
				Capital:      decimal.NewFromFloat(capital),
				Allocations:  allocations,
				TickInterval: interval,
			}, app.Logger)
			if err != nil {
				return err
			}

			if !output.IsJSON() {
				output.Bold("Starting capital: %s", utils.FormatCurrency(capital))
				for asset, amount := range allocations {
					output.Printf("  %-10s %s\n", market.DisplayName(asset), utils.FormatCurrency(amount.InexactFloat64()))
				}
				output.Dim("Cash: %s", utils.FormatCurrency(session.Cash().InexactFloat64()))
				output.Println()
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			done := make(chan error, 1)
			go func() { done <- session.Run(ctx) }()

			if !fast && !output.IsJSON() {
				go watchSession(session, output)
			}

			if err := <-done; err != nil && err != context.Canceled {
				return err
			}

			summary := session.End()
			printSummary(output, summary, capital)

			// Closing words from the coach; falls back to canned advice offline.
			style := coachSty
			if style == "" {
				style = app.Config.Coach.DefaultStyle
			}
			comment := app.Advisor.Ask(cmd.Context(),
				models.Coach{Style: style},
				session.Snapshot(),
				fmt.Sprintf("My trading day just ended with a total return of %.2f%%. Give me one closing takeaway.", summary.TotalReturn))
			if !output.IsJSON() {
				output.Println()
				output.Info("Coach: %s", comment)
			}

			if app.Store != nil {
				if err := persistSession(cmd.Context(), app.Store, session, summary, capital); err != nil {
					app.Logger.Warn().Err(err).Msg("could not persist session")
				}
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&capital, "capital", 0, "starting capital in dollars (default from config)")
	cmd.Flags().StringArrayVar(&allocs, "alloc", nil, "initial allocation asset=dollars (repeatable)")
	cmd.Flags().StringVar(&coachSty, "coach", "", "coach personality for the closing comment")
	cmd.Flags().BoolVar(&fast, "fast", true, "run ticks back-to-back instead of real time")

	return cmd
}

func parseAllocations(pairs []string) (map[string]decimal.Decimal, error) {
	allocations := make(map[string]decimal.Decimal, len(pairs))
	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid allocation %q, want asset=dollars", pair)
		}
		amount, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid allocation amount %q: %w", parts[1], err)
		}
		allocations[strings.ToLower(strings.TrimSpace(parts[0]))] = decimal.NewFromFloat(amount)
	}
	return allocations, nil
}

// watchSession prints the live value line as ticks land.
func watchSession(session *sim.Session, output *Output) {
	seen := 0
	for !session.Done() {
		samples := session.Samples()
		for ; seen < len(samples); seen++ {
			s := samples[seen]
			output.Printf("  tick %2d  %s\n", s.Tick, utils.FormatCurrency(s.Total.InexactFloat64()))
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func printSummary(output *Output, summary models.SessionSummary, capital float64) {
	if output.IsJSON() {
		output.JSON(summary)
		return
	}

	output.Bold("Trading day complete (%d ticks)", summary.Ticks)
	output.Printf("  Final value:       %s\n", utils.FormatCurrency(summary.FinalValue.InexactFloat64()))
	output.Printf("  Total return:      %s\n", output.FormatPercent(summary.TotalReturn))
	output.Printf("  Volatility:        %.2f%%\n", summary.Volatility)
	output.Printf("  Max drawdown:      %.2f%%\n", summary.MaxDrawdown)
	output.Printf("  Sharpe ratio:      %.2f\n", summary.SharpeRatio)
	output.Printf("  Trades executed:   %d\n", len(summary.Trades))

	if len(summary.Holdings) > 0 {
		output.Println()
		table := NewTable(output, "Asset", "Shares", "Avg Cost", "Price", "Value")
		for _, h := range summary.Holdings {
			if !h.Shares.IsPositive() {
				continue
			}
			table.AddRow(
				market.DisplayName(h.Asset),
				utils.FormatShares(h.Shares.InexactFloat64()),
				utils.FormatCurrency(h.AvgCost.InexactFloat64()),
				utils.FormatCurrency(h.CurrentPrice.InexactFloat64()),
				utils.FormatCurrency(h.Value().InexactFloat64()),
			)
		}
		table.AddRow("Cash", "", "", "", utils.FormatCurrency(summary.Cash.InexactFloat64()))
		table.Render()
	}
}

func persistSession(ctx context.Context, dataStore store.DataStore, session *sim.Session, summary models.SessionSummary, capital float64) error {
	rec := &store.SessionRecord{
		ID:               uuid.NewString(),
		StartedAt:        time.Now().Add(-time.Duration(summary.Ticks) * time.Second),
		EndedAt:          time.Now(),
		Capital:          capital,
		FinalValue:       summary.FinalValue.InexactFloat64(),
		TotalReturn:      summary.TotalReturn,
		Volatility:       summary.Volatility,
		SharpeRatio:      summary.SharpeRatio,
		MaxDrawdown:      summary.MaxDrawdown,
		AnnualizedReturn: summary.AnnualizedReturn,
		Ticks:            summary.Ticks,
		ChartData:        summary.ChartData,
	}
	return dataStore.SaveSession(ctx, rec, summary.Trades)
}
