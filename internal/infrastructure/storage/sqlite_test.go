package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/dvalero/meffhist/internal/domain"
	"github.com/dvalero/meffhist/internal/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQuote(code string, date time.Time, settlement float64) domain.Quote {
	return domain.Quote{
		ContractCode: code,
		SessionDate:  date,
		CategoryCode: "FUT",
		Open:         10.0,
		High:         11.0,
		Low:          9.5,
		Close:        10.5,
		Settlement:   settlement,
		Volume:       1000,
		OpenInterest: 250,
	}
}

func TestQuoteStoreRoundTrip(t *testing.T) {
	store, err := storage.NewQuoteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	quotes := []domain.Quote{
		testQuote("XYZ", time.Date(2008, 1, 10, 0, 0, 0, 0, time.UTC), 10.4),
		testQuote("XYZ", time.Date(2008, 2, 15, 0, 0, 0, 0, time.UTC), 10.6),
		testQuote("ABC", time.Date(2008, 1, 10, 0, 0, 0, 0, time.UTC), 5.0),
	}
	require.NoError(t, store.SaveQuotes(ctx, quotes))

	got, err := store.ListQuotes(ctx, "XYZ",
		time.Date(2008, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2008, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Newest first.
	assert.Equal(t, time.Date(2008, 2, 15, 0, 0, 0, 0, time.UTC), got[0].SessionDate)
	assert.Equal(t, 10.6, got[0].Settlement)
	assert.Equal(t, "XYZ", got[1].ContractCode)
}

func TestQuoteStoreUpsert(t *testing.T) {
	store, err := storage.NewQuoteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	date := time.Date(2008, 1, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveQuotes(ctx, []domain.Quote{testQuote("XYZ", date, 10.4)}))
	require.NoError(t, store.SaveQuotes(ctx, []domain.Quote{testQuote("XYZ", date, 10.9)}))

	got, err := store.ListQuotes(ctx, "XYZ", date, date)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 10.9, got[0].Settlement)
}
