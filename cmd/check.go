package cmd

import (
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/oliver-breen/crypto-crowd-risk/internal/bootstrap/logging"
	"github.com/oliver-breen/crypto-crowd-risk/internal/domain/compliance"
	"github.com/oliver-breen/crypto-crowd-risk/internal/errs"
)

// checkCmd runs entirely on the embedded ruleset, so it skips the fx app and
// never touches the database.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a cryptographic algorithm against compliance guidelines",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		algorithm, _ := cmd.Flags().GetString("algorithm")
		keyLength, _ := cmd.Flags().GetInt("key-length")
		quantum, _ := cmd.Flags().GetBool("quantum")

		if strings.TrimSpace(algorithm) == "" {
			return fmt.Errorf("--algorithm is required")
		}

		checker, err := compliance.NewChecker()
		if err != nil {
			logging.Error(ctx, "load compliance rules failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "load compliance rules")
		}

		assessment := checker.CheckAlgorithm(algorithm, keyLength)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		if _, err := fmt.Fprintln(w, "field\tvalue"); err != nil {
			return errs.Wrap(err, "write check header")
		}
		if _, err := fmt.Fprintf(w, "algorithm\t%s\n", assessment.Algorithm); err != nil {
			return errs.Wrap(err, "write check algorithm")
		}
		if keyLength > 0 {
			if _, err := fmt.Fprintf(w, "key_length\t%d\n", assessment.KeyLength); err != nil {
				return errs.Wrap(err, "write check key length")
			}
		}
		if _, err := fmt.Fprintf(w, "compliant\t%t\n", assessment.Compliant); err != nil {
			return errs.Wrap(err, "write check compliant")
		}
		if assessment.RiskLevel != "" {
			if _, err := fmt.Fprintf(w, "risk_level\t%s\n", assessment.RiskLevel); err != nil {
				return errs.Wrap(err, "write check risk level")
			}
		}
		for _, recommendation := range assessment.Recommendations {
			if _, err := fmt.Fprintf(w, "recommendation\t%s\n", recommendation); err != nil {
				return errs.Wrap(err, "write check recommendation")
			}
		}

		if quantum {
			quantumAssessment := checker.CheckQuantumResistance(algorithm)
			if _, err := fmt.Fprintf(w, "quantum_resistant\t%t\n", quantumAssessment.QuantumResistant); err != nil {
				return errs.Wrap(err, "write check quantum verdict")
			}
			for _, recommendation := range quantumAssessment.Recommendations {
				if _, err := fmt.Fprintf(w, "quantum_note\t%s\n", recommendation); err != nil {
					return errs.Wrap(err, "write check quantum note")
				}
			}
		}

		if err := w.Flush(); err != nil {
			return errs.Wrap(err, "flush check output")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().String("algorithm", "", "Algorithm name, e.g. AES-256-GCM or RSA-4096")
	checkCmd.Flags().Int("key-length", 0, "Key length in bits (0 = unspecified)")
	checkCmd.Flags().Bool("quantum", false, "Also report quantum resistance")
	_ = checkCmd.MarkFlagRequired("algorithm")
}
