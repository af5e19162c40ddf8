package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oliver-breen/crypto-crowd-risk/internal/bootstrap"
	"github.com/oliver-breen/crypto-crowd-risk/internal/bootstrap/logging"
	"github.com/oliver-breen/crypto-crowd-risk/internal/domain/risk"
	"github.com/oliver-breen/crypto-crowd-risk/internal/errs"
	"github.com/oliver-breen/crypto-crowd-risk/internal/usecase/registry"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new risk assessment entry",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *registry.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		cryptocurrency, _ := cmd.Flags().GetString("cryptocurrency")
		levelRaw, _ := cmd.Flags().GetString("risk-level")
		reporter, _ := cmd.Flags().GetString("reporter")
		dateRaw, _ := cmd.Flags().GetString("date")
		description, _ := cmd.Flags().GetString("description")
		marketCap, _ := cmd.Flags().GetFloat64("market-cap")
		volatility, _ := cmd.Flags().GetFloat64("volatility")
		sentimentRaw, _ := cmd.Flags().GetString("sentiment")

		entry, err := buildEntry(entryInput{
			Cryptocurrency:  cryptocurrency,
			RiskLevel:       levelRaw,
			Reporter:        reporter,
			ReportDate:      dateRaw,
			Description:     description,
			MarketCap:       marketCap,
			VolatilityIndex: volatility,
			CrowdSentiment:  sentimentRaw,
		})
		if err != nil {
			return err
		}

		entryID, err := svc.Add(ctx, entry)
		if err != nil {
			logging.Error(ctx, "add entry failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "add entry")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(),
			"entry %d recorded: %s %s risk_score=%.2f\n",
			entryID, entry.Cryptocurrency, entry.RiskLevel, entry.RiskScore,
		); err != nil {
			return errs.Wrap(err, "write add output")
		}
		return nil
	}),
}

// entryInput is the raw flag form of an entry before parsing.
type entryInput struct {
	Cryptocurrency  string
	RiskLevel       string
	Reporter        string
	ReportDate      string
	Description     string
	MarketCap       float64
	VolatilityIndex float64
	CrowdSentiment  string
}

// buildEntry parses flag values into a domain entry. An empty date means
// today; an empty sentiment stays absent.
func buildEntry(input entryInput) (*risk.Entry, error) {
	level, err := risk.ParseRiskLevel(strings.ToLower(strings.TrimSpace(input.RiskLevel)))
	if err != nil {
		return nil, errs.Tag(err, risk.ErrValidation)
	}

	reportDate := risk.Today()
	if trimmed := strings.TrimSpace(input.ReportDate); trimmed != "" {
		reportDate, err = risk.ParseDate(trimmed)
		if err != nil {
			return nil, errs.Tag(err, risk.ErrValidation)
		}
	}

	entry := &risk.Entry{
		Cryptocurrency:  strings.TrimSpace(input.Cryptocurrency),
		RiskLevel:       level,
		Reporter:        strings.TrimSpace(input.Reporter),
		ReportDate:      reportDate,
		Description:     strings.TrimSpace(input.Description),
		MarketCap:       input.MarketCap,
		VolatilityIndex: input.VolatilityIndex,
	}

	if trimmed := strings.ToLower(strings.TrimSpace(input.CrowdSentiment)); trimmed != "" {
		sentiment, err := risk.ParseCrowdSentiment(trimmed)
		if err != nil {
			return nil, errs.Tag(err, risk.ErrValidation)
		}
		entry.CrowdSentiment = &sentiment
	}

	return entry, nil
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().String("cryptocurrency", "", "Cryptocurrency display name (required)")
	addCmd.Flags().String("risk-level", "", "Assessed risk level (low|medium|high|critical)")
	addCmd.Flags().String("reporter", "", "Reporter identifier (required)")
	addCmd.Flags().String("date", "", "Report date YYYY-MM-DD (default: today)")
	addCmd.Flags().String("description", "", "Free-form description")
	addCmd.Flags().Float64("market-cap", 0, "Market capitalization in USD")
	addCmd.Flags().Float64("volatility", 0, "Volatility index")
	addCmd.Flags().String("sentiment", "", "Crowd sentiment (bullish|neutral|bearish)")

	_ = addCmd.MarkFlagRequired("cryptocurrency")
	_ = addCmd.MarkFlagRequired("risk-level")
	_ = addCmd.MarkFlagRequired("reporter")
}
