package cmd

import (
	"errors"
	"testing"

	"github.com/oliver-breen/crypto-crowd-risk/internal/domain/risk"
)

func TestBuildEntryDefaultsDateToToday(t *testing.T) {
	entry, err := buildEntry(entryInput{
		Cryptocurrency: "Bitcoin",
		RiskLevel:      "medium",
		Reporter:       "alice",
	})
	if err != nil {
		t.Fatalf("buildEntry() error = %v", err)
	}

	if entry.ReportDate != risk.Today() {
		t.Fatalf("buildEntry() date = %s, want today", entry.ReportDate)
	}
	if entry.CrowdSentiment != nil {
		t.Fatalf("buildEntry() sentiment = %v, want absent", *entry.CrowdSentiment)
	}
}

func TestBuildEntryNormalizesInput(t *testing.T) {
	entry, err := buildEntry(entryInput{
		Cryptocurrency: "  Solana  ",
		RiskLevel:      " HIGH ",
		Reporter:       " bob ",
		ReportDate:     "2026-03-01",
		CrowdSentiment: " Bearish ",
	})
	if err != nil {
		t.Fatalf("buildEntry() error = %v", err)
	}

	if entry.Cryptocurrency != "Solana" || entry.Reporter != "bob" {
		t.Fatalf("buildEntry() = %+v, want trimmed fields", entry)
	}
	if entry.RiskLevel != risk.RiskLevelHigh {
		t.Fatalf("buildEntry() level = %s, want high", entry.RiskLevel)
	}
	if entry.ReportDate != risk.NewDate(2026, 3, 1) {
		t.Fatalf("buildEntry() date = %s", entry.ReportDate)
	}
	if entry.CrowdSentiment == nil || *entry.CrowdSentiment != risk.SentimentBearish {
		t.Fatalf("buildEntry() sentiment = %v, want bearish", entry.CrowdSentiment)
	}
}

func TestBuildEntryRejectsBadInput(t *testing.T) {
	cases := []struct {
		name  string
		input entryInput
	}{
		{
			name:  "unknown risk level",
			input: entryInput{Cryptocurrency: "Bitcoin", RiskLevel: "apocalyptic", Reporter: "alice"},
		},
		{
			name:  "bad date",
			input: entryInput{Cryptocurrency: "Bitcoin", RiskLevel: "low", Reporter: "alice", ReportDate: "03/01/2026"},
		},
		{
			name:  "unknown sentiment",
			input: entryInput{Cryptocurrency: "Bitcoin", RiskLevel: "low", Reporter: "alice", CrowdSentiment: "ecstatic"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := buildEntry(tc.input)
			if !errors.Is(err, risk.ErrValidation) {
				t.Fatalf("buildEntry() error = %v, want ErrValidation", err)
			}
		})
	}
}
