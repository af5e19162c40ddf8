package market

import (
	"strings"
	"testing"
)

func TestAnalyzeNetworkEconomicsAttackCost(t *testing.T) {
	report := AnalyzeNetworkEconomics(NetworkSnapshot{
		Name:              "Bitcoin",
		Hashrate:          1000,
		HashCostPerUnit:   2,
		TotalValueSecured: 24 * 365, // hourly value of 1
	})

	if !report.HasAttackCost {
		t.Fatalf("AnalyzeNetworkEconomics() missing attack cost")
	}
	if report.AttackCostHourly != 1020 {
		t.Fatalf("AnalyzeNetworkEconomics() attack cost = %v, want 1020", report.AttackCostHourly)
	}
	if !report.HasSecurityRatio || report.SecurityRatio != 1020 {
		t.Fatalf("AnalyzeNetworkEconomics() ratio = %v", report.SecurityRatio)
	}
	if len(report.Recommendations) != 1 || !strings.Contains(report.Recommendations[0], "strong economic security") {
		t.Fatalf("AnalyzeNetworkEconomics() recommendations = %v", report.Recommendations)
	}
}

func TestAnalyzeNetworkEconomicsVulnerableRatio(t *testing.T) {
	report := AnalyzeNetworkEconomics(NetworkSnapshot{
		Name:              "Testnet",
		Hashrate:          1,
		HashCostPerUnit:   1,
		TotalValueSecured: 1_000_000_000,
	})

	if len(report.Recommendations) != 1 || !strings.Contains(report.Recommendations[0], "economically vulnerable") {
		t.Fatalf("AnalyzeNetworkEconomics() recommendations = %v", report.Recommendations)
	}
}

func TestAnalyzeNetworkEconomicsStakingBands(t *testing.T) {
	cases := []struct {
		staked float64
		want   string
	}{
		{staked: 10, want: "centralization risk"},
		{staked: 50, want: "moderate staking ratio"},
		{staked: 80, want: "strong economic security"},
	}

	for _, tc := range cases {
		report := AnalyzeNetworkEconomics(NetworkSnapshot{
			Name:        "Ethereum",
			TotalStaked: tc.staked,
			TotalSupply: 100,
		})
		if !report.HasStakingRatio {
			t.Fatalf("staked=%v: missing staking ratio", tc.staked)
		}
		if len(report.Recommendations) != 1 || !strings.Contains(report.Recommendations[0], tc.want) {
			t.Fatalf("staked=%v: recommendations = %v, want contains %q", tc.staked, report.Recommendations, tc.want)
		}
	}
}

func TestAnalyzeFeeMarketTiers(t *testing.T) {
	cases := []struct {
		fee  float64
		want CongestionLevel
	}{
		{fee: 0.001, want: CongestionLow},
		{fee: 0.5, want: CongestionModerate},
		{fee: 5, want: CongestionHigh},
		{fee: 50, want: CongestionCritical},
	}

	for _, tc := range cases {
		report := AnalyzeFeeMarket(FeeSnapshot{Network: "Bitcoin", AverageFeeUSD: tc.fee})
		if report.Congestion != tc.want {
			t.Fatalf("AnalyzeFeeMarket(fee=%v) congestion = %s, want %s", tc.fee, report.Congestion, tc.want)
		}
		if len(report.Implications) == 0 {
			t.Fatalf("AnalyzeFeeMarket(fee=%v) has no implications", tc.fee)
		}
	}
}

func TestAnalyzeMempool(t *testing.T) {
	quiet := AnalyzeMempool(MempoolSnapshot{Network: "Bitcoin", SizeMB: 10, RBFEnabled: true})
	if len(quiet.Risks) != 0 || len(quiet.Recommendations) != 0 {
		t.Fatalf("AnalyzeMempool(quiet) = %+v", quiet)
	}

	busy := AnalyzeMempool(MempoolSnapshot{
		Network:          "Ethereum",
		SizeMB:           250,
		MEVOpportunities: 42,
		RBFEnabled:       false,
	})
	if len(busy.Risks) != 2 {
		t.Fatalf("AnalyzeMempool(busy) risks = %v", busy.Risks)
	}
	if len(busy.Recommendations) != 3 {
		t.Fatalf("AnalyzeMempool(busy) recommendations = %v", busy.Recommendations)
	}
}

func TestRenderReportSections(t *testing.T) {
	report := RenderReport(
		NetworkSnapshot{Name: "Bitcoin", TotalStaked: 10, TotalSupply: 100},
		FeeSnapshot{Network: "Bitcoin", AverageFeeUSD: 0.5},
		MempoolSnapshot{Network: "Bitcoin", RBFEnabled: true},
	)

	for _, section := range []string{
		"NETWORK SECURITY ECONOMICS",
		"FEE MARKET ANALYSIS",
		"MEMPOOL SECURITY",
		"Congestion Level: moderate",
		"END OF REPORT",
	} {
		if !strings.Contains(report, section) {
			t.Fatalf("RenderReport() missing %q", section)
		}
	}
}
