package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/oliver-breen/crypto-crowd-risk/internal/bootstrap/logging"
	"github.com/oliver-breen/crypto-crowd-risk/internal/domain/risk"
	"github.com/oliver-breen/crypto-crowd-risk/internal/errs"
	"github.com/oliver-breen/crypto-crowd-risk/internal/ports"
)

// Service owns durable access to risk entries: insert with identity and
// score assignment, point lookup, recency-ordered listings, aggregation,
// and atomic JSON export. Entries are immutable once accepted.
type Service struct {
	repo ports.EntryRepository
	uow  ports.UnitOfWork
}

func NewService(repo ports.EntryRepository, uow ports.UnitOfWork) *Service {
	return &Service{
		repo: repo,
		uow:  uow,
	}
}

// Stats aggregates the stored entries for one cryptocurrency (or all of
// them when Cryptocurrency is empty).
type Stats struct {
	Cryptocurrency string
	TotalEntries   int
	AverageRisk    float64
	Distribution   map[risk.RiskLevel]int
}

// Add computes the risk score from the entry's current fields, inserts the
// row inside one transaction, and mutates the caller's entry with the
// assigned id and score. The score is final: it is never recomputed on read.
func (s *Service) Add(ctx context.Context, entry *risk.Entry) (int64, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}
	if entry == nil {
		return 0, errors.New("entry is required")
	}

	if err := entry.Validate(); err != nil {
		return 0, err
	}

	score := risk.CalculateRiskScore(*entry)
	record := entryToRecord(*entry)
	record.RiskScore = score

	var inserted ports.EntryRecord
	err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		var txErr error
		inserted, txErr = s.repo.Insert(txCtx, record)
		return txErr
	})
	if err != nil {
		return 0, errs.Tag(errs.Wrap(err, "add risk entry"), risk.ErrStorage)
	}

	entry.ID = inserted.EntryID
	entry.RiskScore = score

	logging.Info(ctx, "risk entry added",
		slog.Int64("entry_id", entry.ID),
		slog.String("cryptocurrency", entry.Cryptocurrency),
		slog.Float64("risk_score", entry.RiskScore),
	)

	return entry.ID, nil
}

// Get returns the entry with the given id, or (nil, nil) when no such row
// exists. Absence is not an error.
func (s *Service) Get(ctx context.Context, entryID int64) (*risk.Entry, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	record, found, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		return nil, errs.Tag(errs.Wrapf(err, "get risk entry %d", entryID), risk.ErrStorage)
	}
	if !found {
		return nil, nil
	}

	entry, err := recordToEntry(record)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListAll returns every stored entry, most recent report date first, ties in
// insertion order.
func (s *Service) ListAll(ctx context.Context) ([]risk.Entry, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	records, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, errs.Tag(errs.Wrap(err, "list risk entries"), risk.ErrStorage)
	}
	return recordsToEntries(records)
}

// ListByCryptocurrency filters case-insensitively on the display name.
func (s *Service) ListByCryptocurrency(ctx context.Context, name string) ([]risk.Entry, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if name == "" {
		return nil, errs.Tag(fmt.Errorf("cryptocurrency name is required"), risk.ErrValidation)
	}

	records, err := s.repo.ListByCryptocurrency(ctx, name)
	if err != nil {
		return nil, errs.Tag(errs.Wrapf(err, "list risk entries for %q", name), risk.ErrStorage)
	}
	return recordsToEntries(records)
}

// Stats aggregates stored scores: count, average risk (stored scores, never
// recomputed), and the distribution over risk levels.
func (s *Service) Stats(ctx context.Context, cryptocurrency string) (Stats, error) {
	var entries []risk.Entry
	var err error

	if cryptocurrency == "" {
		entries, err = s.ListAll(ctx)
	} else {
		entries, err = s.ListByCryptocurrency(ctx, cryptocurrency)
	}
	if err != nil {
		return Stats{}, err
	}

	distribution := make(map[risk.RiskLevel]int, 4)
	for _, entry := range entries {
		distribution[entry.RiskLevel]++
	}

	return Stats{
		Cryptocurrency: cryptocurrency,
		TotalEntries:   len(entries),
		AverageRisk:    risk.CalculateAverageRisk(entries),
		Distribution:   distribution,
	}, nil
}

// ExportJSON writes the entries as an indented JSON array to destination.
// The payload lands in a uniquely named temp file first and is renamed into
// place, so a failed export never leaves a half-written file behind.
func (s *Service) ExportJSON(ctx context.Context, entries []risk.Entry, destination string) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if destination == "" {
		return errs.Tag(fmt.Errorf("export destination is required"), risk.ErrValidation)
	}

	if entries == nil {
		entries = []risk.Entry{}
	}

	payload, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errs.Wrap(err, "encode entries")
	}
	payload = append(payload, '\n')

	dir := filepath.Dir(destination)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errs.Tag(errs.Wrapf(err, "create export directory %q", dir), risk.ErrStorage)
		}
	}

	tmpPath := fmt.Sprintf("%s.tmp-%s", destination, uuid.NewString())
	if err := os.WriteFile(tmpPath, payload, 0o644); err != nil {
		return errs.Tag(errs.Wrapf(err, "write export temp file %q", tmpPath), risk.ErrStorage)
	}
	if err := os.Rename(tmpPath, destination); err != nil {
		_ = os.Remove(tmpPath)
		return errs.Tag(errs.Wrapf(err, "publish export file %q", destination), risk.ErrStorage)
	}

	logging.Info(ctx, "entries exported",
		slog.Int("count", len(entries)),
		slog.String("destination", destination),
	)
	return nil
}

func entryToRecord(entry risk.Entry) ports.EntryRecord {
	record := ports.EntryRecord{
		EntryID:         entry.ID,
		Cryptocurrency:  entry.Cryptocurrency,
		RiskLevel:       string(entry.RiskLevel),
		Reporter:        entry.Reporter,
		ReportDate:      entry.ReportDate.String(),
		Description:     entry.Description,
		MarketCap:       entry.MarketCap,
		VolatilityIndex: entry.VolatilityIndex,
		RiskScore:       entry.RiskScore,
	}

	if entry.CrowdSentiment != nil {
		sentiment := string(*entry.CrowdSentiment)
		record.CrowdSentiment = &sentiment
	}
	return record
}

// recordToEntry surfaces out-of-set enum values and unparseable dates as
// corruption instead of masking them with defaults.
func recordToEntry(record ports.EntryRecord) (risk.Entry, error) {
	level, err := risk.ParseRiskLevel(record.RiskLevel)
	if err != nil {
		return risk.Entry{}, errs.Tag(errs.Wrapf(err, "entry %d", record.EntryID), risk.ErrCorruptData)
	}

	date, err := risk.ParseDate(record.ReportDate)
	if err != nil {
		return risk.Entry{}, errs.Tag(errs.Wrapf(err, "entry %d", record.EntryID), risk.ErrCorruptData)
	}

	entry := risk.Entry{
		ID:              record.EntryID,
		Cryptocurrency:  record.Cryptocurrency,
		RiskLevel:       level,
		Reporter:        record.Reporter,
		ReportDate:      date,
		Description:     record.Description,
		MarketCap:       record.MarketCap,
		VolatilityIndex: record.VolatilityIndex,
		RiskScore:       record.RiskScore,
	}

	if record.CrowdSentiment != nil {
		sentiment, err := risk.ParseCrowdSentiment(*record.CrowdSentiment)
		if err != nil {
			return risk.Entry{}, errs.Tag(errs.Wrapf(err, "entry %d", record.EntryID), risk.ErrCorruptData)
		}
		entry.CrowdSentiment = &sentiment
	}

	return entry, nil
}

func recordsToEntries(records []ports.EntryRecord) ([]risk.Entry, error) {
	entries := make([]risk.Entry, 0, len(records))
	for _, record := range records {
		entry, err := recordToEntry(record)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
