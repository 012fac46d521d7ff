package domain

import "time"

// Category selects which of the two parallel MEFF datasets a request
// targets: equities/options or index contracts.
type Category int

const (
	CategoryPrimary   Category = iota // equities and equity options
	CategoryAlternate                 // index contracts
)

func (c Category) String() string {
	if c == CategoryAlternate {
		return "alternate"
	}
	return "primary"
}

// SchemaVersion identifies the CSV column layout of an archive. The
// exchange changed the layout when it moved to monthly files.
type SchemaVersion int

const (
	SchemaOld SchemaVersion = iota
	SchemaNew
)

// SchemaFor returns the column layout used by archives of the given year.
func SchemaFor(year int) SchemaVersion {
	if year > 2006 {
		return SchemaNew
	}
	return SchemaOld
}

// Quote is one exchange session's data for one contract, as parsed from a
// single archive line. Field positions depend on the schema version; see
// the archive package for the column maps.
type Quote struct {
	ContractCode string    `json:"contract_code"`
	SessionDate  time.Time `json:"session_date"`
	CategoryCode string    `json:"category_code"`
	Open         float64   `json:"open"`
	High         float64   `json:"high"`
	Low          float64   `json:"low"`
	Close        float64   `json:"close"`
	Settlement   float64   `json:"settlement"`
	Volume       float64   `json:"volume"`
	OpenInterest float64   `json:"open_interest"`

	// FieldCount is the raw number of fields the source line carried.
	FieldCount int `json:"-"`
}
