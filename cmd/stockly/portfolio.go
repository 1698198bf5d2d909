package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/AgusMolinaCode/stockly/internal/models"
	"github.com/AgusMolinaCode/stockly/internal/report"
	"github.com/AgusMolinaCode/stockly/internal/services"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

const emptyPortfolioHint = "Your portfolio is empty. Add a holding with: stockly holdings add AAPL 10 150"

func performanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "performance",
		Short: "Show live performance of your holdings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			snapshot, err := a.Portfolio.Snapshot(cmd.Context())
			if errors.Is(err, services.ErrEmptyPortfolio) {
				fmt.Fprintln(cmd.OutOrStdout(), emptyPortfolioHint)
				return nil
			}
			if err != nil {
				return err
			}
			printSnapshot(cmd.OutOrStdout(), snapshot)
			return nil
		},
	}
}

func printSnapshot(out io.Writer, s models.PerformanceSnapshot) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "TICKER\tSHARES\tPURCHASE\tCURRENT\tVALUE\tGAIN/LOSS\t%\t")
	for _, h := range s.Holdings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			h.Ticker,
			strconv.FormatFloat(h.Shares, 'f', -1, 64),
			services.FormatMoney(h.PurchasePrice),
			services.FormatMoney(h.CurrentPrice),
			services.FormatMoney(h.CurrentValue),
			services.FormatMoney(h.GainLoss),
			services.FormatPercent(h.GainLossPercent),
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\nTotal value %s, cost basis %s, gain/loss %s (%s)\n",
		services.FormatMoney(s.Totals.CurrentValue),
		services.FormatMoney(s.Totals.CostBasis),
		services.FormatMoney(s.Totals.GainLoss),
		services.FormatPercent(s.Totals.GainLossPercent),
	)
	if len(s.Excluded) > 0 {
		fmt.Fprintf(out, "No price available for: %s\n", strings.Join(s.Excluded, ", "))
	}
}

func narrativeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "narrative",
		Short: "Explain how your portfolio is doing in plain language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			text, _, err := a.Portfolio.Narrative(cmd.Context())
			switch {
			case errors.Is(err, services.ErrEmptyPortfolio):
				fmt.Fprintln(cmd.OutOrStdout(), emptyPortfolioHint)
				return nil
			case errors.Is(err, services.ErrNoPricedHoldings):
				fmt.Fprintln(cmd.OutOrStdout(), "Prices are currently unavailable for your holdings. Try again later.")
				return nil
			case err != nil:
				return err
			}

			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(100),
			)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}
			rendered, err := renderer.Render(text)
			if err != nil {
				rendered = text
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	var (
		format  string
		outPath string
		profile profileFlags
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the portfolio report as CSV or PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != "csv" && format != "pdf" {
				return fmt.Errorf("format must be csv or pdf, got %q", format)
			}

			a, err := loadApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			snapshot, err := a.Portfolio.Snapshot(cmd.Context())
			if errors.Is(err, services.ErrEmptyPortfolio) {
				fmt.Fprintln(cmd.OutOrStdout(), emptyPortfolioHint)
				return nil
			}
			if err != nil {
				return err
			}

			if outPath == "" {
				outPath = report.Filename(format, time.Now())
			}
			var write func(io.Writer) error
			if format == "csv" {
				write = func(w io.Writer) error { return report.WriteCSV(w, snapshot) }
			} else {
				var picks []models.RecommendationPick
				if profile.goal != "" {
					picks, err = a.Recommender.Recommend(cmd.Context(), profile.toProfile())
					if err != nil {
						return err
					}
				}
				doc := report.BuildDocument(snapshot, picks)
				write = func(w io.Writer) error { return report.WritePDF(w, doc) }
			}
			if err := writeReportFile(outPath, write); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "pdf", "Report format: csv or pdf")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (defaults to a timestamped name)")
	profile.register(cmd, false)
	return cmd
}

// writeReportFile writes a report to path. A failed write or close removes
// the partial file.
func writeReportFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
