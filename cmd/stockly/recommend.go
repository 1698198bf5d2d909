package main

import (
	"fmt"
	"io"

	"github.com/AgusMolinaCode/stockly/internal/models"
	"github.com/AgusMolinaCode/stockly/internal/services"
	"github.com/spf13/cobra"
)

type profileFlags struct {
	goal       string
	risk       string
	amount     string
	horizon    string
	customGoal string
}

func (p *profileFlags) register(cmd *cobra.Command, withDefaults bool) {
	goal := ""
	if withDefaults {
		goal = models.GoalBuildWealth
	}
	cmd.Flags().StringVar(&p.goal, "goal", goal, "build_wealth, save_for_college, short_term, retirement or emergency_fund")
	cmd.Flags().StringVar(&p.risk, "risk", models.RiskMedium, "Risk tolerance: low, medium or high")
	cmd.Flags().StringVar(&p.amount, "amount", "", "Amount to invest, between 100 and 10,000,000")
	cmd.Flags().StringVar(&p.horizon, "horizon", "", "Time horizon, e.g. 5_10_years")
	cmd.Flags().StringVar(&p.customGoal, "custom-goal", "", "Anything else about your goal")
}

func (p *profileFlags) toProfile() models.InvestorProfile {
	profile := models.InvestorProfile{
		Goal:        p.goal,
		Risk:        p.risk,
		CustomGoal:  p.customGoal,
		TimeHorizon: p.horizon,
	}
	if amount, ok := services.ParseInvestmentAmount(p.amount); ok {
		profile.InvestmentAmount = amount
	}
	return services.NormalizeProfile(profile)
}

func recommendCmd() *cobra.Command {
	var flags profileFlags

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Suggest three stocks or ETFs for your goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := flags.toProfile()
			if flags.amount != "" && profile.InvestmentAmount == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "Ignoring investment amount: it must be between $100 and $10,000,000")
			}

			a, err := loadApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			picks, err := a.Recommender.Recommend(cmd.Context(), profile)
			if err != nil {
				return err
			}
			printPicks(cmd.OutOrStdout(), picks)
			return nil
		},
	}

	flags.register(cmd, true)
	return cmd
}

func printPicks(out io.Writer, picks []models.RecommendationPick) {
	for i, p := range picks {
		fmt.Fprintf(out, "%d. %s (%s)\n", i+1, p.Name, p.Ticker)
		fmt.Fprintf(out, "   Allocation: %s", p.Allocation)
		if p.DollarAmount > 0 {
			fmt.Fprintf(out, " (%s)", services.FormatMoney(p.DollarAmount))
		}
		fmt.Fprintf(out, "\n   Risk: %s, timeframe: %s\n", p.RiskLevel, p.Timeframe)
		fmt.Fprintf(out, "   %s\n\n", p.Why)
	}
}
