package cmd

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/oliver-breen/crypto-crowd-risk/internal/bootstrap"
	"github.com/oliver-breen/crypto-crowd-risk/internal/bootstrap/logging"
	"github.com/oliver-breen/crypto-crowd-risk/internal/errs"
	"github.com/oliver-breen/crypto-crowd-risk/internal/usecase/console"
	"github.com/oliver-breen/crypto-crowd-risk/internal/usecase/registry"
)

var consoleEntriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Browse stored risk entries interactively",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *registry.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		cryptocurrency, _ := cmd.Flags().GetString("cryptocurrency")
		refreshInterval, _ := cmd.Flags().GetDuration("refresh-interval")
		if refreshInterval <= 0 {
			refreshInterval = 5 * time.Second
		}

		model := console.NewEntriesModel(ctx, svc, console.Options{
			Cryptocurrency:  cryptocurrency,
			RefreshInterval: refreshInterval,
		})

		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return errs.Wrap(err, "run entries console")
		}
		return nil
	}),
}

func init() {
	consoleCmd.AddCommand(consoleEntriesCmd)

	consoleEntriesCmd.Flags().String("cryptocurrency", "", "Filter by cryptocurrency name (case-insensitive)")
	consoleEntriesCmd.Flags().Duration("refresh-interval", 5*time.Second, "Auto refresh interval")
}
