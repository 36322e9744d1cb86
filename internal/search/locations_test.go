package search

import (
	"testing"

	"github.com/atlanticproxy/atlantic/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLocations() []models.Location {
	return []models.Location{
		{CountryCode: "US", CountryName: "United States", Cities: []string{"New York", "Los Angeles"}, Available: true},
		{CountryCode: "DE", CountryName: "Germany", Cities: []string{"Berlin", "Frankfurt"}, Available: true},
		{CountryCode: "GB", CountryName: "United Kingdom", Cities: []string{"London"}, Available: false},
		{CountryCode: "NG", CountryName: "Nigeria", Cities: []string{"Lagos"}, Available: true},
	}
}

func codes(locations []models.Location) []string {
	out := make([]string, 0, len(locations))
	for _, l := range locations {
		out = append(out, l.CountryCode)
	}
	return out
}

func TestLocationSearch(t *testing.T) {
	index, err := NewLocationIndex(testLocations())
	require.NoError(t, err)
	defer index.Close()

	assert.Equal(t, 4, index.Size())

	tests := []struct {
		name     string
		query    string
		contains []string
		first    string
	}{
		{"country name", "germany", []string{"DE"}, "DE"},
		{"city", "lagos", []string{"NG"}, "NG"},
		{"multi word city", "new york", []string{"US"}, "US"},
		{"prefix", "frank", []string{"DE"}, "DE"},
		{"fuzzy", "germny", []string{"DE"}, "DE"},
		{"shared word", "united", []string{"US", "GB"}, ""},
		{"exact code", "ng", []string{"NG"}, "NG"},
		{"code is case insensitive", "gb", []string{"GB"}, "GB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := index.Search(tt.query)
			require.NoError(t, err)

			found := codes(results)
			for _, code := range tt.contains {
				assert.Contains(t, found, code)
			}
			if len(tt.first) > 0 {
				require.NotEmpty(t, found)
				assert.Equal(t, tt.first, found[0])
			}
		})
	}
}

func TestLocationSearchEmptyQueryReturnsAll(t *testing.T) {
	index, err := NewLocationIndex(testLocations())
	require.NoError(t, err)
	defer index.Close()

	results, err := index.Search("  ")
	require.NoError(t, err)
	assert.Equal(t, []string{"US", "DE", "GB", "NG"}, codes(results))
}

func TestLocationSearchNoMatches(t *testing.T) {
	index, err := NewLocationIndex(testLocations())
	require.NoError(t, err)
	defer index.Close()

	results, err := index.Search("atlantis")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestLocationIndexEmpty(t *testing.T) {
	index, err := NewLocationIndex(nil)
	require.NoError(t, err)
	defer index.Close()

	results, err := index.Search("anything")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestLocationGet(t *testing.T) {
	index, err := NewLocationIndex(testLocations())
	require.NoError(t, err)
	defer index.Close()

	location, ok := index.Get("de")
	require.True(t, ok)
	assert.Equal(t, "Germany", location.CountryName)

	_, ok = index.Get("xx")
	assert.False(t, ok)
}
