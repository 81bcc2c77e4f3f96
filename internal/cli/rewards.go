package cli

import (
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"legacy-guardians/internal/rewards"
)

func newRewardsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewards",
		Short: "Points and tier calculators",
	}

	cmd.AddCommand(newRewardsTierCmd())
	cmd.AddCommand(newRewardsConvertCmd())
	cmd.AddCommand(newRewardsLevelCmd())

	return cmd
}

func newRewardsTierCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tier <lifetime-points>",
		Short: "Show tier, multiplier and progress for a points balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			points, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			output := NewOutput(cmd)

			tier := rewards.TierForPoints(points)
			progress := rewards.TierProgress(points, tier)
			next, hasNext := rewards.NextTierThreshold(tier)

			if output.IsJSON() {
				resp := map[string]interface{}{
					"lifetimePoints": points,
					"tier":           tier,
					"multiplier":     rewards.Multiplier(tier),
					"tierProgress":   progress,
					"dollarValue":    rewards.PointsToDollars(points),
				}
				if hasNext {
					resp["nextTierAt"] = next
				}
				return output.JSON(resp)
			}

			color.Cyan("💎 Rewards status")
			output.Printf("  Lifetime points: %s (worth %.2f dollars)\n",
				rewards.FormatPoints(points), rewards.PointsToDollars(points))
			output.Printf("  Tier:            %s (%.2fx earning)\n", tier, rewards.Multiplier(tier))
			if hasNext {
				output.Printf("  Next tier at:    %d points (%.0f%% there)\n", next, progress)
			} else {
				output.Success("  Top tier reached!")
			}

			output.Println()
			table := NewTable(output, "Tier", "Threshold", "Multiplier")
			for _, t := range rewards.Tiers() {
				marker := "  "
				if t == tier {
					marker = "> "
				}
				table.AddRow(
					marker+string(t),
					strconv.Itoa(rewards.Threshold(t)),
					strconv.FormatFloat(rewards.Multiplier(t), 'f', 2, 64)+"x",
				)
			}
			table.Render()
			return nil
		},
	}
}

func newRewardsLevelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "level <total-xp>",
		Short: "Show investor level and progress for an XP total",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			xp, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			output := NewOutput(cmd)

			level := rewards.LevelForXP(xp)
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"xp":            xp,
					"level":         level,
					"title":         rewards.LevelTitle(level),
					"levelProgress": rewards.LevelProgress(xp),
					"xpToNextLevel": rewards.XPToNextLevel(xp),
				})
			}

			color.Cyan("⭐ %s", rewards.FormatLevel(level))
			if toNext := rewards.XPToNextLevel(xp); toNext > 0 {
				output.Printf("  %d XP to %s (%.0f%% there)\n",
					toNext, rewards.FormatLevel(level+1), rewards.LevelProgress(xp))
			} else {
				output.Success("  Top level reached!")
			}
			return nil
		},
	}
}

func newRewardsConvertCmd() *cobra.Command {
	var tier string

	cmd := &cobra.Command{
		Use:   "convert <xp> <source>",
		Short: "Convert earned XP into points for a source",
		Long: `Sources: mission_complete, daily_streak, savings_interest, level_up,
first_mission, weekly_bonus, referral.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			xp, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			output := NewOutput(cmd)

			base := rewards.XPToPoints(xp, rewards.EarnSource(args[1]))
			total := rewards.WithTierMultiplier(base, rewards.Tier(tier))

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"xp":          xp,
					"source":      args[1],
					"basePoints":  base,
					"tier":        tier,
					"totalPoints": total,
				})
			}
			output.Printf("%d XP via %s -> %d base points", xp, args[1], base)
			if total != base {
				output.Printf(" -> %d with %s multiplier", total, tier)
			}
			output.Println()
			return nil
		},
	}

	cmd.Flags().StringVar(&tier, "tier", string(rewards.TierStarter), "tier for the earning multiplier")
	return cmd
}
