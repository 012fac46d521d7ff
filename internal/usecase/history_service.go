package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dvalero/meffhist/internal/domain"
	"go.uber.org/zap"
)

// Category-code prefixes recognized in the session files.
const (
	optionCallPrefix = "OCE"
	optionPutPrefix  = "OPE"
	futuresPrefix    = "FU"
)

// scanState drives the per-year category fallback: a year is first scanned
// in the primary category, rescanned in the alternate category when it
// matched nothing, and the whole range scan stops when both came up empty.
type scanState int

const (
	scanPrimary scanState = iota
	scanAlternate
	scanDone
)

// HistoryService implements domain.QuoteSource on top of the URL resolver,
// the transfer cache and the archive decoder.
type HistoryService struct {
	resolver domain.URLResolver
	fetcher  domain.Fetcher
	decoder  domain.ArchiveDecoder
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	tickers []string
}

func NewHistoryService(resolver domain.URLResolver, fetcher domain.Fetcher, decoder domain.ArchiveDecoder, logger *zap.Logger) *HistoryService {
	return &HistoryService{
		resolver: resolver,
		fetcher:  fetcher,
		decoder:  decoder,
		logger:   logger,
		now:      time.Now,
	}
}

// GetHistoricalQuotes returns every session record of ticker with a date
// in [start, end], newest first. Years are scanned in the primary
// category and rescanned in the alternate one when empty; a year empty in
// both categories ends the scan, so later years are not visited. That
// last rule mirrors the upstream provider and means a data-gap year
// truncates the result.
func (s *HistoryService) GetHistoricalQuotes(ctx context.Context, ticker string, start, end time.Time) ([]domain.Quote, error) {
	quotes := make([]domain.Quote, 0)

	for year := start.Year(); year <= end.Year(); year++ {
		state := scanPrimary
		cat := domain.CategoryPrimary

		for state != scanDone {
			matched, err := s.collectYear(ctx, year, cat, start, end, func(q domain.Quote) bool {
				return q.ContractCode == ticker && inRange(q.SessionDate, start, end)
			}, &quotes)
			if err != nil {
				return nil, err
			}

			switch {
			case matched > 0:
				state = scanDone
			case state == scanPrimary:
				s.logger.Debug("no matches in primary category, rescanning year",
					zap.Int("year", year), zap.String("ticker", ticker))
				state = scanAlternate
				cat = domain.CategoryAlternate
			default:
				// Empty in both categories: stop the whole scan.
				sortDescending(quotes)
				return quotes, nil
			}
		}
	}

	sortDescending(quotes)
	return quotes, nil
}

// GetOptions returns the option records for ticker on exactly day, trying
// the primary category first and the alternate one only when the primary
// month held no matching record.
func (s *HistoryService) GetOptions(ctx context.Context, ticker string, day time.Time) ([]domain.Quote, error) {
	for _, cat := range []domain.Category{domain.CategoryPrimary, domain.CategoryAlternate} {
		quotes := make([]domain.Quote, 0)
		err := s.scanMonth(ctx, day.Year(), int(day.Month()), cat, func(q domain.Quote) bool {
			return sameDay(q.SessionDate, day) && isOption(q.CategoryCode) && optionUnderlying(q.ContractCode, ticker)
		}, &quotes)
		if err != nil {
			return nil, err
		}
		if len(quotes) > 0 {
			return quotes, nil
		}
	}
	return []domain.Quote{}, nil
}

// GetTickerList scans the previous calendar month's full listing in both
// categories and returns the distinct futures contract codes. The result
// is computed once per service instance.
func (s *HistoryService) GetTickerList(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tickers != nil {
		return s.tickers, nil
	}

	// Always the last full month, so the listing is stable within a month.
	now := s.now()
	ref := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)

	seen := make(map[string]struct{})
	for _, cat := range []domain.Category{domain.CategoryPrimary, domain.CategoryAlternate} {
		quotes := make([]domain.Quote, 0)
		err := s.scanMonth(ctx, ref.Year(), int(ref.Month()), cat, func(q domain.Quote) bool {
			return strings.HasPrefix(q.CategoryCode, futuresPrefix)
		}, &quotes)
		if err != nil {
			return nil, err
		}
		for _, q := range quotes {
			seen[q.ContractCode] = struct{}{}
		}
	}

	tickers := make([]string, 0, len(seen))
	for code := range seen {
		tickers = append(tickers, code)
	}
	sort.Strings(tickers)

	s.tickers = tickers
	s.logger.Info("ticker listing built", zap.Int("count", len(tickers)),
		zap.String("reference_month", ref.Format("2006-01")))
	return tickers, nil
}

// collectYear scans every archive unit of year overlapping [start, end]
// and appends matching records to out, returning how many it added.
func (s *HistoryService) collectYear(ctx context.Context, year int, cat domain.Category, start, end time.Time, match func(domain.Quote) bool, out *[]domain.Quote) (int, error) {
	first, last := 1, 12
	if year == start.Year() {
		first = int(start.Month())
	}
	if year == end.Year() {
		last = int(end.Month())
	}

	matched := 0
	for _, month := range s.resolver.RequestMonths(year, first, last) {
		before := len(*out)
		if err := s.scanMonth(ctx, year, month, cat, match, out); err != nil {
			return matched, err
		}
		matched += len(*out) - before
	}
	return matched, nil
}

// scanMonth fetches and parses the archive unit covering (year, month) and
// appends every record accepted by match to out.
func (s *HistoryService) scanMonth(ctx context.Context, year, month int, cat domain.Category, match func(domain.Quote) bool, out *[]domain.Quote) error {
	url, err := s.resolver.ArchiveURL(year, month, cat)
	if err != nil {
		return err
	}

	data, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return err
	}

	it, err := s.decoder.Decode(data, domain.SchemaFor(year))
	if err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}

	for {
		q, err := it.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("parse %s: %w", url, err)
		}
		if match(q) {
			*out = append(*out, q)
		}
	}
}

func inRange(d, start, end time.Time) bool {
	return !d.Before(start) && !d.After(end)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func isOption(categoryCode string) bool {
	return strings.HasPrefix(categoryCode, optionCallPrefix) || strings.HasPrefix(categoryCode, optionPutPrefix)
}

// optionUnderlying reports whether an option contract code names ticker
// once its leading type character is dropped.
func optionUnderlying(contractCode, ticker string) bool {
	return len(contractCode) > 1 && strings.HasPrefix(contractCode[1:], ticker)
}

func sortDescending(quotes []domain.Quote) {
	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].SessionDate.After(quotes[j].SessionDate)
	})
}
