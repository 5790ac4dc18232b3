package service

import (
	"strings"

	"restaurant-directory/internal/catalog"
	"restaurant-directory/internal/domain"
)

type SearchService struct {
	catalog *catalog.Catalog
}

func NewSearchService(c *catalog.Catalog) *SearchService {
	return &SearchService{catalog: c}
}

// Filter returns the restaurants whose name, joined cuisine tags or
// description contain the query, case-insensitively. An empty or
// whitespace-only query returns the whole catalog. NoResults is set only
// when a non-empty query matched nothing, which is what drives the
// "no results" placeholder.
func (s *SearchService) Filter(query string) domain.SearchResult {
	term := strings.ToLower(strings.TrimSpace(query))
	all := s.catalog.All()

	if term == "" {
		return domain.SearchResult{Restaurants: all}
	}

	matched := []domain.Restaurant{}
	for _, r := range all {
		if matches(r, term) {
			matched = append(matched, r)
		}
	}

	return domain.SearchResult{
		Restaurants: matched,
		NoResults:   len(matched) == 0,
	}
}

func matches(r domain.Restaurant, term string) bool {
	name := strings.ToLower(r.Name)
	cuisine := strings.ToLower(strings.Join(r.CuisineTags, " "))
	description := strings.ToLower(r.Description)

	return strings.Contains(name, term) ||
		strings.Contains(cuisine, term) ||
		strings.Contains(description, term)
}

var _ SearchServiceInterface = (*SearchService)(nil)
