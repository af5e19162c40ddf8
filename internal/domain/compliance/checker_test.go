package compliance

import (
	"testing"

	"github.com/oliver-breen/crypto-crowd-risk/internal/domain/risk"
)

func newChecker(t *testing.T) *Checker {
	t.Helper()

	checker, err := NewChecker()
	if err != nil {
		t.Fatalf("NewChecker() error = %v", err)
	}
	return checker
}

func TestCheckAlgorithmDeprecated(t *testing.T) {
	checker := newChecker(t)

	for _, algorithm := range []string{"MD5", "RC4", "3DES", "RSA-2048"} {
		got := checker.CheckAlgorithm(algorithm, 0)
		if got.Compliant {
			t.Fatalf("CheckAlgorithm(%s) compliant = true", algorithm)
		}
		if got.RiskLevel != risk.RiskLevelCritical {
			t.Fatalf("CheckAlgorithm(%s) risk = %s, want critical", algorithm, got.RiskLevel)
		}
	}
}

func TestCheckAlgorithmSymmetric(t *testing.T) {
	checker := newChecker(t)

	strong := checker.CheckAlgorithm("AES-256-GCM", 256)
	if !strong.Compliant || strong.RiskLevel != risk.RiskLevelLow {
		t.Fatalf("CheckAlgorithm(AES-256-GCM, 256) = %+v", strong)
	}

	weak := checker.CheckAlgorithm("AES-128-GCM", 128)
	if weak.Compliant || weak.RiskLevel != risk.RiskLevelHigh {
		t.Fatalf("CheckAlgorithm(AES-128-GCM, 128) = %+v", weak)
	}
}

func TestCheckAlgorithmRSA(t *testing.T) {
	checker := newChecker(t)

	strong := checker.CheckAlgorithm("RSA-4096", 4096)
	if !strong.Compliant || strong.RiskLevel != risk.RiskLevelLow {
		t.Fatalf("CheckAlgorithm(RSA-4096, 4096) = %+v", strong)
	}

	weak := checker.CheckAlgorithm("RSA", 3072)
	if weak.Compliant || weak.RiskLevel != risk.RiskLevelCritical {
		t.Fatalf("CheckAlgorithm(RSA, 3072) = %+v", weak)
	}
}

func TestCheckAlgorithmEllipticCurves(t *testing.T) {
	checker := newChecker(t)

	marginal := checker.CheckAlgorithm("ECDSA-P256", 256)
	if marginal.Compliant || marginal.RiskLevel != risk.RiskLevelMedium {
		t.Fatalf("CheckAlgorithm(ECDSA-P256) = %+v", marginal)
	}

	strong := checker.CheckAlgorithm("ECDSA-P384", 384)
	if !strong.Compliant || strong.RiskLevel != risk.RiskLevelLow {
		t.Fatalf("CheckAlgorithm(ECDSA-P384) = %+v", strong)
	}
}

func TestCheckAlgorithmHashes(t *testing.T) {
	checker := newChecker(t)

	ok := checker.CheckAlgorithm("SHA-256", 0)
	if !ok.Compliant || ok.RiskLevel != risk.RiskLevelLow {
		t.Fatalf("CheckAlgorithm(SHA-256) = %+v", ok)
	}

	broken := checker.CheckAlgorithm("SHA-1", 0)
	if broken.Compliant || broken.RiskLevel != risk.RiskLevelCritical {
		t.Fatalf("CheckAlgorithm(SHA-1) = %+v", broken)
	}
}

func TestCheckQuantumResistance(t *testing.T) {
	checker := newChecker(t)

	rsa := checker.CheckQuantumResistance("RSA-4096")
	if rsa.QuantumResistant || rsa.RiskLevel != risk.RiskLevelHigh {
		t.Fatalf("CheckQuantumResistance(RSA-4096) = %+v", rsa)
	}

	sha := checker.CheckQuantumResistance("SHA-384")
	if !sha.QuantumResistant || sha.RiskLevel != risk.RiskLevelLow {
		t.Fatalf("CheckQuantumResistance(SHA-384) = %+v", sha)
	}
}

func TestComplianceReport(t *testing.T) {
	checker := newChecker(t)

	report := checker.ComplianceReport([]System{
		{Algorithm: "AES-256-GCM", KeyLength: 256},
		{Algorithm: "MD5"},
		{Algorithm: "ECDSA-P256", KeyLength: 256},
	})

	if report.TotalSystems != 3 {
		t.Fatalf("ComplianceReport() total = %d", report.TotalSystems)
	}
	if report.CompliantSystems != 1 {
		t.Fatalf("ComplianceReport() compliant = %d, want 1", report.CompliantSystems)
	}
	if report.CriticalIssues != 1 || report.MediumIssues != 1 || report.LowIssues != 1 {
		t.Fatalf("ComplianceReport() issues = %+v", report)
	}
	if report.OverallRisk != risk.RiskLevelCritical {
		t.Fatalf("ComplianceReport() overall = %s, want critical", report.OverallRisk)
	}
}
