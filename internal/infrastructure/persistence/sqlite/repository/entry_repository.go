package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/oliver-breen/crypto-crowd-risk/internal/errs"
	"github.com/oliver-breen/crypto-crowd-risk/internal/infrastructure/persistence/sqlite/model"
	"github.com/oliver-breen/crypto-crowd-risk/internal/ports"
)

// listOrder keeps recency first; entry_id breaks report-date ties in
// insertion order so listings stay stable.
const listOrder = "report_date desc, entry_id asc"

type EntryRepository struct {
	db *gorm.DB
}

var _ ports.EntryRepository = (*EntryRepository)(nil)

func NewEntryRepository(db *gorm.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

func (r *EntryRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

func (r *EntryRepository) Insert(ctx context.Context, record ports.EntryRecord) (ports.EntryRecord, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.EntryRecord{}, err
	}

	row := recordToRow(record)
	if err := db.Create(&row).Error; err != nil {
		return ports.EntryRecord{}, errs.Wrap(err, "insert risk entry")
	}

	return rowToRecord(row), nil
}

func (r *EntryRepository) GetByID(ctx context.Context, entryID int64) (ports.EntryRecord, bool, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.EntryRecord{}, false, err
	}

	var row model.RiskEntry
	if err := db.Where("entry_id = ?", entryID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.EntryRecord{}, false, nil
		}
		return ports.EntryRecord{}, false, errs.Wrapf(err, "query risk entry %d", entryID)
	}

	return rowToRecord(row), true, nil
}

func (r *EntryRepository) ListAll(ctx context.Context) ([]ports.EntryRecord, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.RiskEntry
	if err := db.Order(listOrder).Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query risk entries")
	}

	return rowsToRecords(rows), nil
}

func (r *EntryRepository) ListByCryptocurrency(ctx context.Context, name string) ([]ports.EntryRecord, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.RiskEntry
	if err := db.
		Where("lower(cryptocurrency) = lower(?)", name).
		Order(listOrder).
		Find(&rows).Error; err != nil {
		return nil, errs.Wrapf(err, "query risk entries for %q", name)
	}

	return rowsToRecords(rows), nil
}

func recordToRow(record ports.EntryRecord) model.RiskEntry {
	description := record.Description
	marketCap := record.MarketCap
	volatility := record.VolatilityIndex
	score := record.RiskScore

	return model.RiskEntry{
		EntryID:         record.EntryID,
		Cryptocurrency:  record.Cryptocurrency,
		RiskLevel:       record.RiskLevel,
		Reporter:        record.Reporter,
		ReportDate:      record.ReportDate,
		Description:     &description,
		MarketCap:       &marketCap,
		VolatilityIndex: &volatility,
		CrowdSentiment:  record.CrowdSentiment,
		RiskScore:       &score,
	}
}

// rowToRecord reconstructs NULL optional columns to the model defaults.
// Enum strings are passed through untouched; corruption is the usecase
// layer's call.
func rowToRecord(row model.RiskEntry) ports.EntryRecord {
	record := ports.EntryRecord{
		EntryID:        row.EntryID,
		Cryptocurrency: row.Cryptocurrency,
		RiskLevel:      row.RiskLevel,
		Reporter:       row.Reporter,
		ReportDate:     row.ReportDate,
		CrowdSentiment: row.CrowdSentiment,
	}

	if row.Description != nil {
		record.Description = *row.Description
	}
	if row.MarketCap != nil {
		record.MarketCap = *row.MarketCap
	}
	if row.VolatilityIndex != nil {
		record.VolatilityIndex = *row.VolatilityIndex
	}
	if row.RiskScore != nil {
		record.RiskScore = *row.RiskScore
	}

	return record
}

func rowsToRecords(rows []model.RiskEntry) []ports.EntryRecord {
	records := make([]ports.EntryRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, rowToRecord(row))
	}
	return records
}
