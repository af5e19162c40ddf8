// Package compliance classifies cryptographic algorithm choices against a
// fixed guideline ruleset. The checker is stateless apart from the parsed
// rule tables, which ship as embedded TOML.
package compliance

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/oliver-breen/crypto-crowd-risk/internal/domain/risk"
	"github.com/oliver-breen/crypto-crowd-risk/internal/errs"
)

//go:embed rules.toml
var rulesTOML []byte

type approvedRules struct {
	Symmetric  []string `toml:"symmetric"`
	Asymmetric []string `toml:"asymmetric"`
	Hashes     []string `toml:"hashes"`
}

type minimumRules struct {
	SymmetricBits int `toml:"symmetric_bits"`
	RSABits       int `toml:"rsa_bits"`
	ECCBits       int `toml:"ecc_bits"`
}

type ruleset struct {
	Deprecated        []string      `toml:"deprecated"`
	QuantumVulnerable []string      `toml:"quantum_vulnerable"`
	Approved          approvedRules `toml:"approved"`
	Minimums          minimumRules  `toml:"minimums"`
}

type Checker struct {
	rules ruleset
}

func NewChecker() (*Checker, error) {
	var rules ruleset
	if err := toml.Unmarshal(rulesTOML, &rules); err != nil {
		return nil, errs.Wrap(err, "parse compliance rules")
	}
	if len(rules.Deprecated) == 0 || rules.Minimums.SymmetricBits == 0 {
		return nil, fmt.Errorf("compliance ruleset is incomplete")
	}
	return &Checker{rules: rules}, nil
}

// Assessment is the verdict for a single algorithm choice. RiskLevel is
// empty when no rule recognized the algorithm.
type Assessment struct {
	Algorithm       string
	KeyLength       int
	Compliant       bool
	RiskLevel       risk.RiskLevel
	Recommendations []string
}

// CheckAlgorithm classifies an algorithm name, with the key length in bits
// where applicable (0 means unspecified). Deprecated names win over every
// other rule.
func (c *Checker) CheckAlgorithm(algorithm string, keyLength int) Assessment {
	result := Assessment{
		Algorithm: algorithm,
		KeyLength: keyLength,
	}

	upper := strings.ToUpper(algorithm)

	for _, deprecated := range c.rules.Deprecated {
		if strings.Contains(upper, deprecated) {
			result.RiskLevel = risk.RiskLevelCritical
			result.Recommendations = append(result.Recommendations,
				fmt.Sprintf("%s is deprecated; migrate to an approved algorithm immediately", algorithm))
			return result
		}
	}

	switch {
	case strings.Contains(upper, "AES"), strings.Contains(upper, "CHACHA20"):
		if keyLength >= c.rules.Minimums.SymmetricBits {
			result.Compliant = true
			result.RiskLevel = risk.RiskLevelLow
			result.Recommendations = append(result.Recommendations,
				"symmetric cipher with sufficient key length meets current standards")
		} else {
			result.RiskLevel = risk.RiskLevelHigh
			result.Recommendations = append(result.Recommendations,
				fmt.Sprintf("symmetric key length should be at least %d bits", c.rules.Minimums.SymmetricBits))
		}

	case strings.Contains(upper, "RSA"):
		if keyLength >= c.rules.Minimums.RSABits {
			result.Compliant = true
			result.RiskLevel = risk.RiskLevelLow
			result.Recommendations = append(result.Recommendations,
				fmt.Sprintf("RSA-%d and above meets current standards", c.rules.Minimums.RSABits))
		} else {
			result.RiskLevel = risk.RiskLevelCritical
			result.Recommendations = append(result.Recommendations,
				fmt.Sprintf("RSA key must be at least %d bits; consider ECC alternatives", c.rules.Minimums.RSABits))
		}

	case strings.Contains(upper, "ED25519"):
		result.Compliant = true
		result.RiskLevel = risk.RiskLevelLow
		result.Recommendations = append(result.Recommendations,
			"Ed25519 meets current standards")

	case strings.Contains(upper, "ECDSA"), strings.Contains(upper, "EC"):
		curve := strings.ReplaceAll(upper, "-", "")
		switch {
		case strings.Contains(curve, "P256"):
			result.RiskLevel = risk.RiskLevelMedium
			result.Recommendations = append(result.Recommendations,
				"P-256 is marginally acceptable; upgrade to P-384 or P-521")
		case strings.Contains(curve, "P384"), strings.Contains(curve, "P521"):
			result.Compliant = true
			result.RiskLevel = risk.RiskLevelLow
			result.Recommendations = append(result.Recommendations,
				"ECC P-384/P-521 meets current standards")
		}

	case strings.Contains(upper, "SHA"):
		if strings.Contains(upper, "SHA-1") {
			result.RiskLevel = risk.RiskLevelCritical
			result.Recommendations = append(result.Recommendations,
				"SHA-1 is broken; use the SHA-2 or SHA-3 family")
			return result
		}
		for _, hash := range c.rules.Approved.Hashes {
			if strings.Contains(upper, hash) {
				result.Compliant = true
				result.RiskLevel = risk.RiskLevelLow
				result.Recommendations = append(result.Recommendations,
					"hash function meets current standards")
				break
			}
		}
	}

	return result
}

// QuantumAssessment reports how an algorithm holds up against quantum
// attacks.
type QuantumAssessment struct {
	Algorithm        string
	QuantumResistant bool
	RiskLevel        risk.RiskLevel
	Recommendations  []string
}

func (c *Checker) CheckQuantumResistance(algorithm string) QuantumAssessment {
	result := QuantumAssessment{Algorithm: algorithm}
	upper := strings.ToUpper(algorithm)

	for _, vulnerable := range c.rules.QuantumVulnerable {
		if strings.Contains(upper, vulnerable) {
			result.RiskLevel = risk.RiskLevelHigh
			result.Recommendations = append(result.Recommendations,
				"vulnerable to Shor's algorithm; plan migration to post-quantum cryptography",
				"consider CRYSTALS-Kyber, CRYSTALS-Dilithium, or hybrid schemes")
			return result
		}
	}

	switch {
	case strings.Contains(upper, "AES"):
		result.RiskLevel = risk.RiskLevelMedium
		result.Recommendations = append(result.Recommendations,
			"AES-256 retains ~128-bit security under Grover's algorithm, which is acceptable")
	case strings.Contains(upper, "SHA"):
		result.QuantumResistant = true
		result.RiskLevel = risk.RiskLevelLow
		result.Recommendations = append(result.Recommendations,
			"hash output should be doubled for quantum resistance; SHA-384+ recommended long term")
	}

	return result
}

// System names one cryptographic choice inside a larger deployment.
type System struct {
	Algorithm string
	KeyLength int
}

// Report aggregates per-system assessments into issue counts and an overall
// risk verdict (worst issue tier wins).
type Report struct {
	TotalSystems     int
	CompliantSystems int
	CriticalIssues   int
	HighIssues       int
	MediumIssues     int
	LowIssues        int
	Findings         []Assessment
	OverallRisk      risk.RiskLevel
}

func (c *Checker) ComplianceReport(systems []System) Report {
	report := Report{TotalSystems: len(systems)}

	for _, system := range systems {
		assessment := c.CheckAlgorithm(system.Algorithm, system.KeyLength)
		report.Findings = append(report.Findings, assessment)

		if assessment.Compliant {
			report.CompliantSystems++
		}
		switch assessment.RiskLevel {
		case risk.RiskLevelCritical:
			report.CriticalIssues++
		case risk.RiskLevelHigh:
			report.HighIssues++
		case risk.RiskLevelMedium:
			report.MediumIssues++
		case risk.RiskLevelLow:
			report.LowIssues++
		}
	}

	switch {
	case report.CriticalIssues > 0:
		report.OverallRisk = risk.RiskLevelCritical
	case report.HighIssues > 0:
		report.OverallRisk = risk.RiskLevelHigh
	case report.MediumIssues > 0:
		report.OverallRisk = risk.RiskLevelMedium
	default:
		report.OverallRisk = risk.RiskLevelLow
	}

	return report
}
