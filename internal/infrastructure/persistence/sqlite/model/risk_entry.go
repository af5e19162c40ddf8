package model

// RiskEntry mirrors the risk_entries table. Optional columns are pointers so
// NULLs survive the round trip and reconstruction decides the defaults.
type RiskEntry struct {
	EntryID         int64    `gorm:"column:entry_id;primaryKey;autoIncrement"`
	Cryptocurrency  string   `gorm:"column:cryptocurrency;type:text;not null"`
	RiskLevel       string   `gorm:"column:risk_level;type:text;not null"`
	Reporter        string   `gorm:"column:reporter;type:text;not null"`
	ReportDate      string   `gorm:"column:report_date;type:text;not null;index"`
	Description     *string  `gorm:"column:description;type:text"`
	MarketCap       *float64 `gorm:"column:market_cap"`
	VolatilityIndex *float64 `gorm:"column:volatility_index"`
	CrowdSentiment  *string  `gorm:"column:crowd_sentiment;type:text"`
	RiskScore       *float64 `gorm:"column:risk_score"`
}

func (RiskEntry) TableName() string {
	return "risk_entries"
}
