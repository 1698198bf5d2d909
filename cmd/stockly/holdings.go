package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/AgusMolinaCode/stockly/internal/models"
	"github.com/AgusMolinaCode/stockly/internal/services"
	"github.com/spf13/cobra"
)

func holdingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holdings",
		Short: "Manage your holdings",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List holdings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			printHoldings(cmd.OutOrStdout(), a.Holdings.GetAll(cmd.Context()))
			return nil
		},
	}

	addCmd := &cobra.Command{
		Use:   "add <ticker> <shares> <purchase-price>",
		Short: "Add a holding, or replace shares and price of an existing one",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			shares, price, err := parseAmounts(args[1], args[2])
			if err != nil {
				return err
			}
			a, err := loadApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			holdings, err := a.Holdings.Upsert(cmd.Context(), args[0], shares, price)
			if err != nil {
				return err
			}
			printHoldings(cmd.OutOrStdout(), holdings)
			return nil
		},
	}

	editCmd := &cobra.Command{
		Use:   "edit <ticker> <shares> <purchase-price>",
		Short: "Change shares and purchase price of a holding",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			shares, price, err := parseAmounts(args[1], args[2])
			if err != nil {
				return err
			}
			a, err := loadApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			holdings, err := a.Holdings.Edit(cmd.Context(), args[0], shares, price)
			if err != nil {
				return err
			}
			printHoldings(cmd.OutOrStdout(), holdings)
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <ticker>",
		Short: "Remove a holding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			printHoldings(cmd.OutOrStdout(), a.Holdings.Delete(cmd.Context(), args[0]))
			return nil
		},
	}

	cmd.AddCommand(listCmd, addCmd, editCmd, deleteCmd)
	return cmd
}

func parseAmounts(sharesArg, priceArg string) (float64, float64, error) {
	shares, err := strconv.ParseFloat(sharesArg, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("shares must be a number: %q", sharesArg)
	}
	price, err := strconv.ParseFloat(priceArg, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("purchase price must be a number: %q", priceArg)
	}
	return shares, price, nil
}

func printHoldings(out io.Writer, holdings map[string]models.Holding) {
	if len(holdings) == 0 {
		fmt.Fprintln(out, "No holdings yet. Add one with: stockly holdings add AAPL 10 150")
		return
	}

	tickers := make([]string, 0, len(holdings))
	for t := range holdings {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "TICKER\tSHARES\tPURCHASE PRICE\tCOST BASIS\tADDED\t")
	for _, t := range tickers {
		h := holdings[t]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			t,
			strconv.FormatFloat(h.Shares, 'f', -1, 64),
			services.FormatMoney(h.PurchasePrice),
			services.FormatMoney(h.CostBasis()),
			h.DateAdded.Format("2006-01-02"),
		)
	}
	w.Flush()
}
