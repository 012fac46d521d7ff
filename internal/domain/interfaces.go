package domain

import (
	"context"
	"time"
)

// URLResolver maps a (year, month, category) triple to the canonical
// download URL of the archive covering that period, and knows each year's
// archive granularity.
type URLResolver interface {
	ArchiveURL(year, month int, cat Category) (string, error)

	// RequestMonths returns one representative month per archive covering
	// the inclusive month range [first, last] of year.
	RequestMonths(year, first, last int) []int
}

// Fetcher retrieves the raw bytes of an archive by URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// RecordIterator yields the quote records of one archive pass. Next
// returns io.EOF after the last record; an iterator is not restartable.
type RecordIterator interface {
	Next() (Quote, error)
}

// ArchiveDecoder opens archive bytes for record iteration.
type ArchiveDecoder interface {
	Decode(data []byte, schema SchemaVersion) (RecordIterator, error)
}

// QuoteSource is the public query surface of the historical data provider.
type QuoteSource interface {
	GetHistoricalQuotes(ctx context.Context, ticker string, start, end time.Time) ([]Quote, error)
	GetOptions(ctx context.Context, ticker string, day time.Time) ([]Quote, error)
	GetTickerList(ctx context.Context) ([]string, error)
}

// QuoteRepository defines storage operations for retrieved quotes.
type QuoteRepository interface {
	SaveQuotes(ctx context.Context, quotes []Quote) error
	ListQuotes(ctx context.Context, ticker string, start, end time.Time) ([]Quote, error)
}
