package risk

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/oliver-breen/crypto-crowd-risk/internal/errs"
)

// RiskLevel is the closed severity enumeration of an assessment.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// RiskLevels lists the closed set in ascending severity order.
func RiskLevels() []RiskLevel {
	return []RiskLevel{RiskLevelLow, RiskLevelMedium, RiskLevelHigh, RiskLevelCritical}
}

// ParseRiskLevel maps a canonical lowercase string to its RiskLevel.
// Callers tag the error with ErrValidation or ErrCorruptData depending on
// whether the string came from user input or a persisted row.
func ParseRiskLevel(value string) (RiskLevel, error) {
	switch RiskLevel(value) {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh, RiskLevelCritical:
		return RiskLevel(value), nil
	default:
		return "", fmt.Errorf("unknown risk level %q", value)
	}
}

// CrowdSentiment is the closed directional market mood enumeration.
// It is optional on an entry; absence is modeled as a nil pointer, never a
// reserved string.
type CrowdSentiment string

const (
	SentimentBullish CrowdSentiment = "bullish"
	SentimentNeutral CrowdSentiment = "neutral"
	SentimentBearish CrowdSentiment = "bearish"
)

func ParseCrowdSentiment(value string) (CrowdSentiment, error) {
	switch CrowdSentiment(value) {
	case SentimentBullish, SentimentNeutral, SentimentBearish:
		return CrowdSentiment(value), nil
	default:
		return "", fmt.Errorf("unknown crowd sentiment %q", value)
	}
}

const dateLayout = "2006-01-02"

// Date is a calendar day with no time-of-day component. The zero value is
// "no date". Values are comparable with ==.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// ParseDate parses an ISO-8601 YYYY-MM-DD string.
func ParseDate(value string) (Date, error) {
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return Date{}, fmt.Errorf("invalid report date %q: expected YYYY-MM-DD", value)
	}
	return Date{t: parsed}, nil
}

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// String renders the ISO-8601 form, or "" for the zero value.
func (d Date) String() string {
	if d.t.IsZero() {
		return ""
	}
	return d.t.Format(dateLayout)
}

// Entry is one crowd-submitted risk assessment. ID stays zero until the
// store accepts the entry; RiskScore is derived by the store at that moment
// and never recomputed afterwards.
type Entry struct {
	ID              int64
	Cryptocurrency  string
	RiskLevel       RiskLevel
	Reporter        string
	ReportDate      Date
	Description     string
	MarketCap       float64
	VolatilityIndex float64
	CrowdSentiment  *CrowdSentiment
	RiskScore       float64
}

// Validate checks the required fields and numeric ranges of a caller-built
// entry. Derived fields (ID, RiskScore) are not inspected.
func (e Entry) Validate() error {
	if e.Cryptocurrency == "" {
		return errs.Tag(fmt.Errorf("cryptocurrency is required"), ErrValidation)
	}
	if _, err := ParseRiskLevel(string(e.RiskLevel)); err != nil {
		return errs.Tag(err, ErrValidation)
	}
	if e.Reporter == "" {
		return errs.Tag(fmt.Errorf("reporter is required"), ErrValidation)
	}
	if e.ReportDate.IsZero() {
		return errs.Tag(fmt.Errorf("report date is required"), ErrValidation)
	}
	if e.MarketCap < 0 {
		return errs.Tag(fmt.Errorf("market cap must be non-negative"), ErrValidation)
	}
	if e.VolatilityIndex < 0 {
		return errs.Tag(fmt.Errorf("volatility index must be non-negative"), ErrValidation)
	}
	if e.CrowdSentiment != nil {
		if _, err := ParseCrowdSentiment(string(*e.CrowdSentiment)); err != nil {
			return errs.Tag(err, ErrValidation)
		}
	}
	return nil
}

// Equal reports field-for-field equality, dereferencing the optional
// sentiment.
func (e Entry) Equal(other Entry) bool {
	if e.ID != other.ID ||
		e.Cryptocurrency != other.Cryptocurrency ||
		e.RiskLevel != other.RiskLevel ||
		e.Reporter != other.Reporter ||
		e.ReportDate != other.ReportDate ||
		e.Description != other.Description ||
		e.MarketCap != other.MarketCap ||
		e.VolatilityIndex != other.VolatilityIndex ||
		e.RiskScore != other.RiskScore {
		return false
	}
	if (e.CrowdSentiment == nil) != (other.CrowdSentiment == nil) {
		return false
	}
	if e.CrowdSentiment != nil && *e.CrowdSentiment != *other.CrowdSentiment {
		return false
	}
	return true
}

// entryRepresentation is the plain interchange form of an entry. Pointer
// fields let unmarshalling distinguish absent keys from zero values.
type entryRepresentation struct {
	ID              *int64   `json:"id"`
	Cryptocurrency  *string  `json:"cryptocurrency"`
	RiskLevel       *string  `json:"risk_level"`
	Reporter        *string  `json:"reporter"`
	ReportDate      *string  `json:"report_date"`
	Description     *string  `json:"description"`
	MarketCap       *float64 `json:"market_cap"`
	VolatilityIndex *float64 `json:"volatility_index"`
	CrowdSentiment  *string  `json:"crowd_sentiment"`
	RiskScore       *float64 `json:"risk_score"`
}

// MarshalJSON emits the interchange form: lowercase enum strings, ISO date,
// null id until persisted, null sentiment when absent.
func (e Entry) MarshalJSON() ([]byte, error) {
	rep := entryRepresentation{
		Cryptocurrency:  &e.Cryptocurrency,
		Reporter:        &e.Reporter,
		Description:     &e.Description,
		MarketCap:       &e.MarketCap,
		VolatilityIndex: &e.VolatilityIndex,
		RiskScore:       &e.RiskScore,
	}

	level := string(e.RiskLevel)
	rep.RiskLevel = &level

	date := e.ReportDate.String()
	rep.ReportDate = &date

	if e.ID > 0 {
		rep.ID = &e.ID
	}
	if e.CrowdSentiment != nil {
		sentiment := string(*e.CrowdSentiment)
		rep.CrowdSentiment = &sentiment
	}

	return json.Marshal(rep)
}

// UnmarshalJSON rebuilds an entry from its interchange form. Missing
// required keys and out-of-set enum values fail with ErrValidation; optional
// fields take their model defaults.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var rep entryRepresentation
	if err := json.Unmarshal(data, &rep); err != nil {
		return errs.Tag(errs.Wrap(err, "decode entry"), ErrValidation)
	}

	if rep.Cryptocurrency == nil || *rep.Cryptocurrency == "" {
		return errs.Tag(fmt.Errorf("cryptocurrency is required"), ErrValidation)
	}
	if rep.RiskLevel == nil {
		return errs.Tag(fmt.Errorf("risk_level is required"), ErrValidation)
	}
	if rep.Reporter == nil || *rep.Reporter == "" {
		return errs.Tag(fmt.Errorf("reporter is required"), ErrValidation)
	}
	if rep.ReportDate == nil {
		return errs.Tag(fmt.Errorf("report_date is required"), ErrValidation)
	}

	level, err := ParseRiskLevel(*rep.RiskLevel)
	if err != nil {
		return errs.Tag(err, ErrValidation)
	}
	date, err := ParseDate(*rep.ReportDate)
	if err != nil {
		return errs.Tag(err, ErrValidation)
	}

	out := Entry{
		Cryptocurrency: *rep.Cryptocurrency,
		RiskLevel:      level,
		Reporter:       *rep.Reporter,
		ReportDate:     date,
	}

	if rep.ID != nil {
		out.ID = *rep.ID
	}
	if rep.Description != nil {
		out.Description = *rep.Description
	}
	if rep.MarketCap != nil {
		out.MarketCap = *rep.MarketCap
	}
	if rep.VolatilityIndex != nil {
		out.VolatilityIndex = *rep.VolatilityIndex
	}
	if rep.CrowdSentiment != nil {
		sentiment, err := ParseCrowdSentiment(*rep.CrowdSentiment)
		if err != nil {
			return errs.Tag(err, ErrValidation)
		}
		out.CrowdSentiment = &sentiment
	}
	if rep.RiskScore != nil {
		out.RiskScore = *rep.RiskScore
	}

	*e = out
	return nil
}
