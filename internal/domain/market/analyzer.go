// Package market analyzes caller-supplied market condition snapshots for
// their security implications. Everything here is pure formatting and
// arithmetic; no market data is fetched.
package market

import (
	"fmt"
	"strings"
	"time"
)

// NetworkSnapshot captures the economic inputs for attack-cost analysis.
// Zero values mean "not reported" and skip the corresponding check.
type NetworkSnapshot struct {
	Name              string
	Hashrate          float64
	HashCostPerUnit   float64
	TotalValueSecured float64
	TotalStaked       float64
	TotalSupply       float64
}

type EconomicsReport struct {
	Network          string
	AttackCostHourly float64
	HasAttackCost    bool
	SecurityRatio    float64
	HasSecurityRatio bool
	StakingRatio     float64
	HasStakingRatio  bool
	Recommendations  []string
}

// AnalyzeNetworkEconomics weighs the cost of attacking the network against
// the value it secures: 51% attack cost for proof-of-work, staking-ratio
// bands for proof-of-stake.
func AnalyzeNetworkEconomics(snapshot NetworkSnapshot) EconomicsReport {
	report := EconomicsReport{Network: snapshot.Name}

	if snapshot.Hashrate > 0 && snapshot.HashCostPerUnit > 0 {
		report.AttackCostHourly = snapshot.Hashrate * 0.51 * snapshot.HashCostPerUnit
		report.HasAttackCost = true

		if snapshot.TotalValueSecured > 0 {
			hourlyValue := snapshot.TotalValueSecured / 24 / 365
			report.SecurityRatio = report.AttackCostHourly / hourlyValue
			report.HasSecurityRatio = true

			switch {
			case report.SecurityRatio < 1:
				report.Recommendations = append(report.Recommendations,
					"attack cost is below value-at-risk; the network is economically vulnerable to 51% attacks")
			case report.SecurityRatio < 10:
				report.Recommendations = append(report.Recommendations,
					"security margin is thin; monitor for hashrate changes")
			default:
				report.Recommendations = append(report.Recommendations,
					"the network has strong economic security against proof-of-work attacks")
			}
		}
	}

	if snapshot.TotalStaked > 0 && snapshot.TotalSupply > 0 {
		report.StakingRatio = snapshot.TotalStaked / snapshot.TotalSupply
		report.HasStakingRatio = true

		switch {
		case report.StakingRatio < 0.33:
			report.Recommendations = append(report.Recommendations,
				"low staking ratio (<33%) increases centralization risk")
		case report.StakingRatio > 0.67:
			report.Recommendations = append(report.Recommendations,
				"high staking ratio (>67%) provides strong economic security")
		default:
			report.Recommendations = append(report.Recommendations,
				"moderate staking ratio; security depends on validator distribution")
		}
	}

	return report
}

type CongestionLevel string

const (
	CongestionLow      CongestionLevel = "low"
	CongestionModerate CongestionLevel = "moderate"
	CongestionHigh     CongestionLevel = "high"
	CongestionCritical CongestionLevel = "critical"
)

type FeeSnapshot struct {
	Network       string
	AverageFeeUSD float64
}

type FeeReport struct {
	Network       string
	AverageFeeUSD float64
	Congestion    CongestionLevel
	Implications  []string
}

// AnalyzeFeeMarket classifies the fee level into congestion tiers. Very low
// fees invite dust and spam; very high fees price out legitimate users.
func AnalyzeFeeMarket(snapshot FeeSnapshot) FeeReport {
	report := FeeReport{
		Network:       snapshot.Network,
		AverageFeeUSD: snapshot.AverageFeeUSD,
	}

	switch fee := snapshot.AverageFeeUSD; {
	case fee < 0.01:
		report.Congestion = CongestionLow
		report.Implications = append(report.Implications,
			"very low fees enable dust attacks and spam transactions",
			"consider rate limiting or minimum relay fees")
	case fee < 1.0:
		report.Congestion = CongestionModerate
		report.Implications = append(report.Implications,
			"moderate fees provide reasonable spam protection")
	case fee < 10.0:
		report.Congestion = CongestionHigh
		report.Implications = append(report.Implications,
			"high fees may price out legitimate users",
			"monitor layer-2 scaling options")
	default:
		report.Congestion = CongestionCritical
		report.Implications = append(report.Implications,
			"extremely high fees indicate network congestion",
			"the network may be under spam attack or needs scaling urgently")
	}

	return report
}

type MempoolSnapshot struct {
	Network          string
	SizeMB           float64
	PendingTxCount   int
	MEVOpportunities int
	RBFEnabled       bool
}

type MempoolReport struct {
	Network         string
	SizeMB          float64
	PendingTxCount  int
	Risks           []string
	Recommendations []string
}

func AnalyzeMempool(snapshot MempoolSnapshot) MempoolReport {
	report := MempoolReport{
		Network:        snapshot.Network,
		SizeMB:         snapshot.SizeMB,
		PendingTxCount: snapshot.PendingTxCount,
	}

	if snapshot.SizeMB > 100 {
		report.Risks = append(report.Risks,
			"large mempool (>100MB) may indicate spam or a denial-of-service attempt")
		report.Recommendations = append(report.Recommendations,
			"use dynamic fee estimation to prioritize transactions")
	}

	if snapshot.MEVOpportunities > 10 {
		report.Risks = append(report.Risks,
			"high MEV activity detected")
		report.Recommendations = append(report.Recommendations,
			"consider private mempools or MEV-protection services")
	}

	if !snapshot.RBFEnabled {
		report.Recommendations = append(report.Recommendations,
			"enable replace-by-fee for better fee management")
	}

	return report
}

// RenderReport combines the three analyses into a plain-text report.
func RenderReport(network NetworkSnapshot, fees FeeSnapshot, mempool MempoolSnapshot) string {
	divider := strings.Repeat("=", 80)
	section := strings.Repeat("-", 80)

	var b strings.Builder
	fmt.Fprintln(&b, divider)
	fmt.Fprintln(&b, "CRYPTOCURRENCY MARKET SECURITY CONDITIONS REPORT")
	fmt.Fprintf(&b, "Generated: %s\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintln(&b, divider)
	fmt.Fprintln(&b)

	economics := AnalyzeNetworkEconomics(network)
	fmt.Fprintln(&b, "NETWORK SECURITY ECONOMICS")
	fmt.Fprintln(&b, section)
	for _, rec := range economics.Recommendations {
		fmt.Fprintf(&b, "  - %s\n", rec)
	}
	fmt.Fprintln(&b)

	feeReport := AnalyzeFeeMarket(fees)
	fmt.Fprintln(&b, "FEE MARKET ANALYSIS")
	fmt.Fprintln(&b, section)
	fmt.Fprintf(&b, "  Congestion Level: %s\n", feeReport.Congestion)
	fmt.Fprintf(&b, "  Average Fee: $%.2f\n", feeReport.AverageFeeUSD)
	for _, implication := range feeReport.Implications {
		fmt.Fprintf(&b, "  - %s\n", implication)
	}
	fmt.Fprintln(&b)

	mempoolReport := AnalyzeMempool(mempool)
	fmt.Fprintln(&b, "MEMPOOL SECURITY")
	fmt.Fprintln(&b, section)
	for _, riskLine := range mempoolReport.Risks {
		fmt.Fprintf(&b, "  - %s\n", riskLine)
	}
	for _, rec := range mempoolReport.Recommendations {
		fmt.Fprintf(&b, "  - %s\n", rec)
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, divider)
	fmt.Fprintln(&b, "END OF REPORT")
	fmt.Fprintln(&b, divider)

	return b.String()
}
