package cmd

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/oliver-breen/crypto-crowd-risk/internal/bootstrap"
	"github.com/oliver-breen/crypto-crowd-risk/internal/bootstrap/logging"
	"github.com/oliver-breen/crypto-crowd-risk/internal/domain/risk"
	"github.com/oliver-breen/crypto-crowd-risk/internal/errs"
	"github.com/oliver-breen/crypto-crowd-risk/internal/usecase/registry"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate statistics over stored entries",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *registry.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		cryptocurrency, _ := cmd.Flags().GetString("cryptocurrency")

		stats, err := svc.Stats(ctx, cryptocurrency)
		if err != nil {
			logging.Error(ctx, "compute stats failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "compute stats")
		}

		scope := stats.Cryptocurrency
		if scope == "" {
			scope = "all"
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		if _, err := fmt.Fprintln(w, "metric\tvalue"); err != nil {
			return errs.Wrap(err, "write stats header")
		}
		if _, err := fmt.Fprintf(w, "scope\t%s\n", scope); err != nil {
			return errs.Wrap(err, "write stats scope")
		}
		if _, err := fmt.Fprintf(w, "total_entries\t%d\n", stats.TotalEntries); err != nil {
			return errs.Wrap(err, "write stats total")
		}
		if _, err := fmt.Fprintf(w, "average_risk\t%.2f\n", stats.AverageRisk); err != nil {
			return errs.Wrap(err, "write stats average")
		}

		if _, err := fmt.Fprintln(w, ""); err != nil {
			return errs.Wrap(err, "write stats separator")
		}
		if _, err := fmt.Fprintln(w, "risk_level\tcount"); err != nil {
			return errs.Wrap(err, "write distribution header")
		}
		for _, level := range risk.RiskLevels() {
			if _, err := fmt.Fprintf(w, "%s\t%d\n", level, stats.Distribution[level]); err != nil {
				return errs.Wrap(err, "write distribution row")
			}
		}

		if err := w.Flush(); err != nil {
			return errs.Wrap(err, "flush stats output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().String("cryptocurrency", "", "Scope stats to one cryptocurrency (default: all)")
}
