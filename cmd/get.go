package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/oliver-breen/crypto-crowd-risk/internal/bootstrap"
	"github.com/oliver-breen/crypto-crowd-risk/internal/bootstrap/logging"
	"github.com/oliver-breen/crypto-crowd-risk/internal/errs"
	"github.com/oliver-breen/crypto-crowd-risk/internal/usecase/registry"
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Show a single risk entry by id",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *registry.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		entryID, _ := cmd.Flags().GetInt64("id")

		entry, err := svc.Get(ctx, entryID)
		if err != nil {
			logging.Error(ctx, "get entry failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrapf(err, "get entry %d", entryID)
		}
		if entry == nil {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "entry %d not found\n", entryID); err != nil {
				return errs.Wrap(err, "write get output")
			}
			return nil
		}

		payload, err := json.MarshalIndent(entry, "", "  ")
		if err != nil {
			return errs.Wrap(err, "encode entry")
		}
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), string(payload)); err != nil {
			return errs.Wrap(err, "write get output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().Int64("id", 0, "Entry id")
	_ = getCmd.MarkFlagRequired("id")
}
