package meff_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dvalero/meffhist/internal/domain"
	"github.com/dvalero/meffhist/internal/infrastructure/meff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveURLBefore1993(t *testing.T) {
	r := meff.NewResolver("")
	for _, year := range []int{1980, 1990, 1992} {
		_, err := r.ArchiveURL(year, 1, domain.CategoryPrimary)
		require.Error(t, err, "year %d", year)
		assert.True(t, errors.Is(err, domain.ErrUnsupportedPeriod))
	}
}

func TestArchiveURLYearlyEra(t *testing.T) {
	r := meff.NewResolver("")

	for _, year := range []int{1993, 1994, 1995, 1996, 1997, 1999, 2000} {
		want, err := r.ArchiveURL(year, 1, domain.CategoryPrimary)
		require.NoError(t, err)
		// Month-invariant: every month resolves to the same archive.
		for month := 2; month <= 12; month++ {
			got, err := r.ArchiveURL(year, month, domain.CategoryPrimary)
			require.NoError(t, err)
			assert.Equal(t, want, got, "year %d month %d", year, month)
		}
	}

	url, err := r.ArchiveURL(1995, 4, domain.CategoryPrimary)
	require.NoError(t, err)
	assert.Equal(t, meff.DefaultBaseURL+"95000a.zip", url)

	url, err = r.ArchiveURL(1995, 4, domain.CategoryAlternate)
	require.NoError(t, err)
	assert.Equal(t, meff.DefaultBaseURL+"95000i.zip", url)
}

func TestArchiveURLSemesterEra(t *testing.T) {
	r := meff.NewResolver("")

	for _, year := range []int{1998, 2001, 2002, 2003, 2004, 2005, 2006} {
		first, err := r.ArchiveURL(year, 1, domain.CategoryPrimary)
		require.NoError(t, err)
		second, err := r.ArchiveURL(year, 7, domain.CategoryPrimary)
		require.NoError(t, err)
		assert.NotEqual(t, first, second, "year %d", year)

		for month := 1; month <= 12; month++ {
			got, err := r.ArchiveURL(year, month, domain.CategoryPrimary)
			require.NoError(t, err)
			if month <= 6 {
				assert.Equal(t, first, got)
			} else {
				assert.Equal(t, second, got)
			}
		}
	}

	url, err := r.ArchiveURL(1998, 3, domain.CategoryPrimary)
	require.NoError(t, err)
	assert.Equal(t, meff.DefaultBaseURL+"981sa.zip", url)

	url, err = r.ArchiveURL(2004, 11, domain.CategoryAlternate)
	require.NoError(t, err)
	assert.Equal(t, meff.DefaultBaseURL+"0400i.zip", url)
}

func TestArchiveURLMonthlyEra(t *testing.T) {
	r := meff.NewResolver("")

	seen := map[string]bool{}
	for month := 1; month <= 12; month++ {
		url, err := r.ArchiveURL(2008, month, domain.CategoryPrimary)
		require.NoError(t, err)
		assert.False(t, seen[url], "duplicate URL %s", url)
		seen[url] = true
	}

	url, err := r.ArchiveURL(2008, 3, domain.CategoryPrimary)
	require.NoError(t, err)
	assert.Equal(t, meff.DefaultBaseURL+"0803ACO.zip", url)

	url, err = r.ArchiveURL(2010, 12, domain.CategoryAlternate)
	require.NoError(t, err)
	assert.Equal(t, meff.DefaultBaseURL+"1012FIE.zip", url)
}

func TestArchiveURLCustomBase(t *testing.T) {
	r := meff.NewResolver("http://127.0.0.1:9999/HP")
	url, err := r.ArchiveURL(2008, 1, domain.CategoryPrimary)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9999/HP0801ACO.zip", url)
}

func TestRequestMonths(t *testing.T) {
	r := meff.NewResolver("")

	tests := []struct {
		year, first, last int
		want              []int
	}{
		{1995, 1, 12, []int{1}},
		{1995, 3, 5, []int{1}},
		{1998, 1, 12, []int{1, 7}},
		{2003, 2, 5, []int{1}},
		{2003, 8, 11, []int{7}},
		{2003, 5, 9, []int{1, 7}},
		{2008, 1, 3, []int{1, 2, 3}},
		{2008, 6, 6, []int{6}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_%d-%d", tt.year, tt.first, tt.last), func(t *testing.T) {
			assert.Equal(t, tt.want, r.RequestMonths(tt.year, tt.first, tt.last))
		})
	}
}
