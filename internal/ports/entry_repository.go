package ports

import "context"

// EntryRecord is the storage-layer view of one risk entry row. Enum columns
// stay raw strings here; the usecase layer parses them back into the domain
// and is where out-of-set values surface as corruption.
type EntryRecord struct {
	EntryID         int64
	Cryptocurrency  string
	RiskLevel       string
	Reporter        string
	ReportDate      string
	Description     string
	MarketCap       float64
	VolatilityIndex float64
	CrowdSentiment  *string
	RiskScore       float64
}

// EntryRepository persists risk entry rows. The store is append-only: there
// is no update or delete.
type EntryRepository interface {
	// Insert writes one row and returns it with the assigned entry id.
	Insert(ctx context.Context, record EntryRecord) (EntryRecord, error)

	// GetByID reports found=false for an unknown id instead of an error.
	GetByID(ctx context.Context, entryID int64) (record EntryRecord, found bool, err error)

	// ListAll returns every row ordered by report date descending, ties by
	// insertion order.
	ListAll(ctx context.Context) ([]EntryRecord, error)

	// ListByCryptocurrency filters case-insensitively on the display name,
	// same ordering as ListAll.
	ListByCryptocurrency(ctx context.Context, name string) ([]EntryRecord, error)
}
