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

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List risk entries, most recent report date first",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *registry.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		cryptocurrency, _ := cmd.Flags().GetString("cryptocurrency")

		var entries []risk.Entry
		var err error
		if cryptocurrency == "" {
			entries, err = svc.ListAll(ctx)
		} else {
			entries, err = svc.ListByCryptocurrency(ctx, cryptocurrency)
		}
		if err != nil {
			logging.Error(ctx, "list entries failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "list entries")
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		if _, err := fmt.Fprintln(w, "id\tdate\tcryptocurrency\trisk_level\tscore\tsentiment\treporter"); err != nil {
			return errs.Wrap(err, "write list header")
		}
		for _, entry := range entries {
			sentiment := "-"
			if entry.CrowdSentiment != nil {
				sentiment = string(*entry.CrowdSentiment)
			}
			if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f\t%s\t%s\n",
				entry.ID, entry.ReportDate, entry.Cryptocurrency, entry.RiskLevel,
				entry.RiskScore, sentiment, entry.Reporter,
			); err != nil {
				return errs.Wrap(err, "write list row")
			}
		}
		if err := w.Flush(); err != nil {
			return errs.Wrap(err, "flush list output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().String("cryptocurrency", "", "Filter by cryptocurrency name (case-insensitive)")
}
