package registry

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/oliver-breen/crypto-crowd-risk/internal/domain/risk"
	"github.com/oliver-breen/crypto-crowd-risk/internal/infrastructure/persistence/sqlite/model"
	"github.com/oliver-breen/crypto-crowd-risk/internal/infrastructure/persistence/sqlite/repository"
	"github.com/oliver-breen/crypto-crowd-risk/internal/infrastructure/persistence/sqlite/uow"
)

func setupService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "crypto_risk.db")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(&model.RiskEntry{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	return NewService(repository.NewEntryRepository(db), uow.NewUnitOfWork(db)), db
}

func sentiment(s risk.CrowdSentiment) *risk.CrowdSentiment { return &s }

func newEntry(crypto string, date risk.Date) risk.Entry {
	return risk.Entry{
		Cryptocurrency:  crypto,
		RiskLevel:       risk.RiskLevelHigh,
		Reporter:        "alice",
		ReportDate:      date,
		Description:     "whale movements",
		MarketCap:       900_000_000,
		VolatilityIndex: 12,
		CrowdSentiment:  sentiment(risk.SentimentBearish),
	}
}

func TestAddAssignsIDAndScore(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	entry := newEntry("Bitcoin", risk.NewDate(2025, 4, 2))
	wantScore := risk.CalculateRiskScore(entry)

	id, err := svc.Add(ctx, &entry)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if id <= 0 {
		t.Fatalf("Add() id = %d, want > 0", id)
	}
	if entry.ID != id {
		t.Fatalf("Add() entry.ID = %d, want %d", entry.ID, id)
	}
	if entry.RiskScore != wantScore {
		t.Fatalf("Add() entry.RiskScore = %v, want %v", entry.RiskScore, wantScore)
	}
}

func TestAddThenGetRoundTrip(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	entry := newEntry("Bitcoin", risk.NewDate(2025, 4, 2))
	id, err := svc.Add(ctx, &entry)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatalf("Get() = nil, want entry")
	}
	if !got.Equal(entry) {
		t.Fatalf("Get() = %+v, want %+v", *got, entry)
	}
}

func TestAddRejectsInvalidEntryWithoutSideEffects(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	entry := newEntry("Bitcoin", risk.NewDate(2025, 4, 2))
	entry.Reporter = ""

	if _, err := svc.Add(ctx, &entry); !errors.Is(err, risk.ErrValidation) {
		t.Fatalf("Add() error = %v, want ErrValidation", err)
	}

	entries, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("ListAll() len = %d after rejected add, want 0", len(entries))
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	svc, _ := setupService(t)

	got, err := svc.Get(context.Background(), 999)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Fatalf("Get() = %+v, want nil", *got)
	}
}

func TestListByCryptocurrencyFiltersAndOrders(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	older := newEntry("Bitcoin", risk.NewDate(2025, 1, 10))
	newer := newEntry("Bitcoin", risk.NewDate(2025, 2, 20))
	other := newEntry("Ethereum", risk.NewDate(2025, 3, 1))

	for _, e := range []*risk.Entry{&older, &newer, &other} {
		if _, err := svc.Add(ctx, e); err != nil {
			t.Fatalf("Add(%s) error = %v", e.Cryptocurrency, err)
		}
	}

	entries, err := svc.ListByCryptocurrency(ctx, "bitcoin")
	if err != nil {
		t.Fatalf("ListByCryptocurrency() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("ListByCryptocurrency() len = %d, want 2", len(entries))
	}
	if entries[0].ID != newer.ID || entries[1].ID != older.ID {
		t.Fatalf("ListByCryptocurrency() order = %d,%d, want %d,%d", entries[0].ID, entries[1].ID, newer.ID, older.ID)
	}
	for _, e := range entries {
		if e.Cryptocurrency != "Bitcoin" {
			t.Fatalf("ListByCryptocurrency() row %q, want Bitcoin", e.Cryptocurrency)
		}
	}
}

func TestCorruptEnumRowSurfacesAsCorruptData(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	err := db.Exec(
		`INSERT INTO risk_entries
		 (cryptocurrency, risk_level, reporter, report_date, risk_score)
		 VALUES (?, ?, ?, ?, ?)`,
		"Bitcoin", "apocalyptic", "alice", "2025-01-01", 50.0,
	).Error
	if err != nil {
		t.Fatalf("raw insert: %v", err)
	}

	if _, err := svc.Get(ctx, 1); !errors.Is(err, risk.ErrCorruptData) {
		t.Fatalf("Get() error = %v, want ErrCorruptData", err)
	}
	if _, err := svc.ListAll(ctx); !errors.Is(err, risk.ErrCorruptData) {
		t.Fatalf("ListAll() error = %v, want ErrCorruptData", err)
	}
}

func TestStats(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	low := newEntry("Bitcoin", risk.NewDate(2025, 1, 1))
	low.RiskLevel = risk.RiskLevelLow
	low.VolatilityIndex = 0
	low.CrowdSentiment = nil

	high := newEntry("Bitcoin", risk.NewDate(2025, 1, 2))
	high.RiskLevel = risk.RiskLevelHigh
	high.VolatilityIndex = 0
	high.CrowdSentiment = nil

	other := newEntry("Ethereum", risk.NewDate(2025, 1, 3))

	for _, e := range []*risk.Entry{&low, &high, &other} {
		if _, err := svc.Add(ctx, e); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	stats, err := svc.Stats(ctx, "Bitcoin")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalEntries != 2 {
		t.Fatalf("Stats() total = %d, want 2", stats.TotalEntries)
	}
	// Stored scores 20 and 70 average to 45.
	if stats.AverageRisk != 45.0 {
		t.Fatalf("Stats() average = %v, want 45", stats.AverageRisk)
	}
	if stats.Distribution[risk.RiskLevelLow] != 1 || stats.Distribution[risk.RiskLevelHigh] != 1 {
		t.Fatalf("Stats() distribution = %v", stats.Distribution)
	}
}

func TestExportJSON(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	first := newEntry("Bitcoin", risk.NewDate(2025, 5, 5))
	second := newEntry("Ethereum", risk.NewDate(2025, 5, 6))
	second.CrowdSentiment = nil

	for _, e := range []*risk.Entry{&first, &second} {
		if _, err := svc.Add(ctx, e); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	entries, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}

	dest := filepath.Join(t.TempDir(), "export", "entries.json")
	if err := svc.ExportJSON(ctx, entries, dest); err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}

	raw, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("parse export: %v", err)
	}
	if len(decoded) != len(entries) {
		t.Fatalf("export len = %d, want %d", len(decoded), len(entries))
	}
	for i, obj := range decoded {
		if obj["report_date"] != entries[i].ReportDate.String() {
			t.Fatalf("export[%d].report_date = %v, want %s", i, obj["report_date"], entries[i].ReportDate)
		}
	}

	// No temp files left behind.
	dirEntries, err := os.ReadDir(filepath.Dir(dest))
	if err != nil {
		t.Fatalf("read export dir: %v", err)
	}
	for _, de := range dirEntries {
		if strings.Contains(de.Name(), ".tmp-") {
			t.Fatalf("leftover temp file %q", de.Name())
		}
	}
}

func TestExportJSONEmptyWritesEmptyArray(t *testing.T) {
	svc, _ := setupService(t)

	dest := filepath.Join(t.TempDir(), "entries.json")
	if err := svc.ExportJSON(context.Background(), nil, dest); err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}

	raw, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if strings.TrimSpace(string(raw)) != "[]" {
		t.Fatalf("export = %q, want []", string(raw))
	}
}
