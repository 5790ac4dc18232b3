package service

import (
	"context"
	"strings"

	"restaurant-directory/internal/catalog"
	"restaurant-directory/internal/domain"
)

// Placeholder contact block shown for every restaurant in the detail view.
const (
	detailAddress = "Av. Principal 123"
	detailPhone   = "+56 9 1234 5678"
	detailHours   = "12:00 - 23:00"
)

var fulfillmentModes = []string{"delivery", "pickup", "dine-in"}

// DetailService builds the restaurant detail view: header, capitalized
// cuisine tags, menu grouped by category, fulfillment badges and the
// session's current favorite state, so freshly rendered heart icons start
// out in sync with the cache.
type DetailService struct {
	catalog   *catalog.Catalog
	favorites FavoritesServiceInterface
}

func NewDetailService(c *catalog.Catalog, favorites FavoritesServiceInterface) *DetailService {
	return &DetailService{catalog: c, favorites: favorites}
}

func (s *DetailService) Render(ctx context.Context, sessionID string, restaurantID int) (*domain.DetailView, error) {
	r, ok := s.catalog.Get(restaurantID)
	if !ok {
		return nil, ErrRestaurantNotFound
	}

	labels := make([]string, len(r.CuisineTags))
	for i, tag := range r.CuisineTags {
		labels[i] = capitalize(tag)
	}

	return &domain.DetailView{
		ID:            r.ID,
		Name:          r.Name,
		Rating:        r.Rating,
		CuisineLabels: labels,
		Description:   r.Description,
		Sections:      catalog.GroupMenu(r),
		Fulfillment:   fulfillmentModes,
		Address:       detailAddress,
		Phone:         detailPhone,
		Hours:         detailHours,
		Favorite:      s.favorites.IsFavorite(ctx, sessionID, restaurantID),
	}, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var _ DetailServiceInterface = (*DetailService)(nil)
