package search

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/atlanticproxy/atlantic/internal/models"
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/sirupsen/logrus"
)

type locationDocument struct {
	Code   string   `json:"code"`
	Name   string   `json:"name"`
	Cities []string `json:"cities"`
}

// LocationIndex answers free-text queries over country names, codes and
// cities.
type LocationIndex struct {
	index     bleve.Index
	locations map[string]models.Location
	order     []string
}

func NewLocationIndex(locations []models.Location) (*LocationIndex, error) {
	startTime := time.Now()
	defer func() {
		logrus.Debugf("Built location search index in %s", time.Since(startTime))
	}()

	mapping := bleve.NewIndexMapping()
	index, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, fmt.Errorf("failed to create location search index: %w", err)
	}

	l := &LocationIndex{
		index:     index,
		locations: make(map[string]models.Location, len(locations)),
		order:     make([]string, 0, len(locations)),
	}

	for _, location := range locations {
		code := strings.ToUpper(location.CountryCode)
		if len(code) == 0 {
			continue
		}
		if _, exists := l.locations[code]; !exists {
			l.order = append(l.order, code)
		}
		l.locations[code] = location

		if err := index.Index(code, locationDocument{
			Code:   code,
			Name:   location.CountryName,
			Cities: location.Cities,
		}); err != nil {
			index.Close()
			return nil, fmt.Errorf("failed to index location %s: %w", code, err)
		}
	}

	logrus.WithField("locations", len(l.order)).Debug("Location search index ready")

	return l, nil
}

func (l *LocationIndex) Size() int {
	return len(l.order)
}

func (l *LocationIndex) Get(code string) (*models.Location, bool) {
	location, ok := l.locations[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, false
	}
	return &location, true
}

// Search returns matches best first. An exact country code always ranks
// first; an empty query returns every location.
func (l *LocationIndex) Search(text string) ([]models.Location, error) {

	text = strings.TrimSpace(text)

	if len(text) == 0 {
		results := make([]models.Location, 0, len(l.order))
		for _, code := range l.order {
			results = append(results, l.locations[code])
		}
		return results, nil
	}

	if len(l.order) == 0 {
		return []models.Location{}, nil
	}

	match := bleve.NewMatchQuery(text)
	match.SetFuzziness(1)

	queries := []query.Query{match}
	for _, term := range strings.Fields(strings.ToLower(text)) {
		queries = append(queries, bleve.NewPrefixQuery(term))
	}

	searchRequest := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(queries...))
	searchRequest.Size = len(l.order)

	searchResult, err := l.index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	var codes []string
	if exact, ok := l.Get(text); ok {
		codes = append(codes, strings.ToUpper(exact.CountryCode))
	}
	for _, hit := range searchResult.Hits {
		if !slices.Contains(codes, hit.ID) {
			codes = append(codes, hit.ID)
		}
	}

	results := make([]models.Location, 0, len(codes))
	for _, code := range codes {
		results = append(results, l.locations[code])
	}

	return results, nil
}

func (l *LocationIndex) Close() error {
	return l.index.Close()
}
