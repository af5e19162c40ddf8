package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/oliver-breen/crypto-crowd-risk/internal/bootstrap/logging"
	"github.com/oliver-breen/crypto-crowd-risk/internal/domain/market"
	"github.com/oliver-breen/crypto-crowd-risk/internal/errs"
)

// marketInput is the JSON shape of a market conditions snapshot file.
type marketInput struct {
	Network market.NetworkSnapshot `json:"network"`
	Fees    market.FeeSnapshot     `json:"fees"`
	Mempool market.MempoolSnapshot `json:"mempool"`
}

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "Analyze market condition snapshots for security implications",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		inputPath, _ := cmd.Flags().GetString("input")

		data, err := os.ReadFile(inputPath)
		if err != nil {
			logging.Error(ctx, "read market snapshot failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrapf(err, "read market snapshot %q", inputPath)
		}

		var input marketInput
		if err := json.Unmarshal(data, &input); err != nil {
			return errs.Wrapf(err, "decode market snapshot %q", inputPath)
		}

		report := market.RenderReport(input.Network, input.Fees, input.Mempool)
		if _, err := fmt.Fprint(cmd.OutOrStdout(), report); err != nil {
			return errs.Wrap(err, "write market report")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(marketCmd)

	marketCmd.Flags().String("input", "", "Path to a JSON market snapshot file")
	_ = marketCmd.MarkFlagRequired("input")
}
