// Package meff knows the naming conventions of the exchange's historical
// download area. The file layout changed twice over the published history:
// one archive per year up to 2000 (except 1998), one per semester through
// 2006, one per month afterwards, with the category suffix switching from
// a single letter to a three-letter code at the same cut.
package meff

import (
	"fmt"

	"github.com/dvalero/meffhist/internal/domain"
)

// DefaultBaseURL is the exchange's historical-data path prefix. Archive
// file names are appended directly to it.
const DefaultBaseURL = "http://www.meff.es/docs/Ficheros/Descarga/dRV/HP"

// Resolver builds canonical archive URLs.
type Resolver struct {
	baseURL string
}

func NewResolver(baseURL string) *Resolver {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Resolver{baseURL: baseURL}
}

// ArchiveURL returns the download URL of the archive covering (year, month)
// in the given category. For yearly-era years the month is ignored; for
// semester-era years only the semester of the month matters.
func (r *Resolver) ArchiveURL(year, month int, cat domain.Category) (string, error) {
	if year < 1993 {
		return "", fmt.Errorf("%w: year %d", domain.ErrUnsupportedPeriod, year)
	}

	yy := year % 100
	switch {
	case yearlyEra(year):
		return fmt.Sprintf("%s%02d000%s.zip", r.baseURL, yy, shortSuffix(cat)), nil
	case semesterEra(year):
		sem := "1s"
		if month > 6 {
			sem = "00"
		}
		return fmt.Sprintf("%s%02d%s%s.zip", r.baseURL, yy, sem, shortSuffix(cat)), nil
	default:
		return fmt.Sprintf("%s%02d%02d%s.zip", r.baseURL, yy, month, longSuffix(cat)), nil
	}
}

// RequestMonths returns one representative month per archive covering the
// inclusive month range [first, last] of the given year. Yearly archives
// collapse to a single unit, semester archives to at most two.
func (r *Resolver) RequestMonths(year, first, last int) []int {
	switch {
	case yearlyEra(year):
		return []int{1}
	case semesterEra(year):
		var months []int
		if first <= 6 {
			months = append(months, 1)
		}
		if last >= 7 {
			months = append(months, 7)
		}
		return months
	default:
		months := make([]int, 0, last-first+1)
		for m := first; m <= last; m++ {
			months = append(months, m)
		}
		return months
	}
}

func yearlyEra(year int) bool {
	return (year >= 1993 && year <= 1997) || year == 1999 || year == 2000
}

func semesterEra(year int) bool {
	return year == 1998 || (year >= 2001 && year <= 2006)
}

func shortSuffix(cat domain.Category) string {
	if cat == domain.CategoryAlternate {
		return "i"
	}
	return "a"
}

func longSuffix(cat domain.Category) string {
	if cat == domain.CategoryAlternate {
		return "FIE"
	}
	return "ACO"
}
