package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dvalero/meffhist/internal/domain"
	_ "github.com/mattn/go-sqlite3"
)

// QuoteStore persists retrieved quote records to a local sqlite file so
// repeated studies of the same ticker do not have to re-walk the archives.
type QuoteStore struct {
	db *sql.DB
}

func NewQuoteStore(dbPath string) (*QuoteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &QuoteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *QuoteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS quotes (
			contract_code TEXT NOT NULL,
			session_date DATETIME NOT NULL,
			category_code TEXT NOT NULL,
			open REAL NOT NULL,
			high REAL NOT NULL,
			low REAL NOT NULL,
			close REAL NOT NULL,
			settlement REAL NOT NULL,
			volume REAL NOT NULL,
			open_interest REAL NOT NULL,
			PRIMARY KEY (contract_code, session_date, category_code)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_quotes_date ON quotes(session_date);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to exec query %s: %w", q, err)
		}
	}
	return nil
}

func (s *QuoteStore) SaveQuotes(ctx context.Context, quotes []domain.Quote) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO quotes (contract_code, session_date, category_code, open, high, low, close, settlement, volume, open_interest)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			  ON CONFLICT(contract_code, session_date, category_code) DO UPDATE SET
			  open=excluded.open,
			  high=excluded.high,
			  low=excluded.low,
			  close=excluded.close,
			  settlement=excluded.settlement,
			  volume=excluded.volume,
			  open_interest=excluded.open_interest`
	for _, q := range quotes {
		if _, err := tx.ExecContext(ctx, query,
			q.ContractCode, q.SessionDate, q.CategoryCode, q.Open, q.High, q.Low, q.Close, q.Settlement, q.Volume, q.OpenInterest); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *QuoteStore) ListQuotes(ctx context.Context, ticker string, start, end time.Time) ([]domain.Quote, error) {
	query := `SELECT contract_code, session_date, category_code, open, high, low, close, settlement, volume, open_interest
			  FROM quotes WHERE contract_code = ? AND session_date BETWEEN ? AND ? ORDER BY session_date DESC`
	rows, err := s.db.QueryContext(ctx, query, ticker, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []domain.Quote
	for rows.Next() {
		var q domain.Quote
		if err := rows.Scan(&q.ContractCode, &q.SessionDate, &q.CategoryCode, &q.Open, &q.High, &q.Low, &q.Close, &q.Settlement, &q.Volume, &q.OpenInterest); err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

func (s *QuoteStore) Close() error {
	return s.db.Close()
}
