package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/oliver-breen/crypto-crowd-risk/internal/bootstrap"
	"github.com/oliver-breen/crypto-crowd-risk/internal/bootstrap/logging"
	"github.com/oliver-breen/crypto-crowd-risk/internal/domain/risk"
	"github.com/oliver-breen/crypto-crowd-risk/internal/errs"
	"github.com/oliver-breen/crypto-crowd-risk/internal/usecase/registry"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored entries as a JSON array",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *registry.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		outPath, _ := cmd.Flags().GetString("out")
		cryptocurrency, _ := cmd.Flags().GetString("cryptocurrency")

		var entries []risk.Entry
		var err error
		if cryptocurrency == "" {
			entries, err = svc.ListAll(ctx)
		} else {
			entries, err = svc.ListByCryptocurrency(ctx, cryptocurrency)
		}
		if err != nil {
			logging.Error(ctx, "list entries for export failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "list entries for export")
		}

		if err := svc.ExportJSON(ctx, entries, outPath); err != nil {
			logging.Error(ctx, "export entries failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "export entries")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "exported %d entries to %s\n", len(entries), outPath); err != nil {
			return errs.Wrap(err, "write export output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("out", "", "Destination file path")
	exportCmd.Flags().String("cryptocurrency", "", "Export entries for one cryptocurrency only")
	_ = exportCmd.MarkFlagRequired("out")
}
