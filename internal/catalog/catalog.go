package catalog

import "restaurant-directory/internal/domain"

// Catalog is the immutable in-memory restaurant directory. Entries are
// copied on the way in and indexed by ID; nothing mutates them after New.
type Catalog struct {
	restaurants []domain.Restaurant
	byID        map[int]domain.Restaurant
}

// New builds a catalog from the given records. Menu items receive a stable
// synthetic ID (1-based position within the restaurant's menu) so the order
// flow never has to fall back on price as identity.
func New(restaurants []domain.Restaurant) *Catalog {
	c := &Catalog{
		restaurants: make([]domain.Restaurant, 0, len(restaurants)),
		byID:        make(map[int]domain.Restaurant, len(restaurants)),
	}
	for _, r := range restaurants {
		menu := make([]domain.MenuItem, len(r.Menu))
		for i, item := range r.Menu {
			item.ID = i + 1
			menu[i] = item
		}
		r.Menu = menu
		c.restaurants = append(c.restaurants, r)
		c.byID[r.ID] = r
	}
	return c
}

func (c *Catalog) Get(id int) (domain.Restaurant, bool) {
	r, ok := c.byID[id]
	return r, ok
}

func (c *Catalog) All() []domain.Restaurant {
	out := make([]domain.Restaurant, len(c.restaurants))
	copy(out, c.restaurants)
	return out
}

// GroupMenu splits a restaurant's menu into category sections. Categories
// appear in first-seen order; items keep their insertion order.
func GroupMenu(r domain.Restaurant) []domain.MenuSection {
	var sections []domain.MenuSection
	index := make(map[string]int)
	for _, item := range r.Menu {
		i, ok := index[item.Category]
		if !ok {
			i = len(sections)
			index[item.Category] = i
			sections = append(sections, domain.MenuSection{Category: item.Category})
		}
		sections[i].Items = append(sections[i].Items, item)
	}
	return sections
}

// Default returns the directory's seed listing.
func Default() *Catalog {
	return New([]domain.Restaurant{
		{
			ID:          1,
			Name:        "Milano Italiano",
			Rating:      4.8,
			CuisineTags: []string{"italiana"},
			Description: "Auténtica cocina italiana.",
			Menu: []domain.MenuItem{
				{Name: "Pizza Margherita", Price: 12, Category: "Pizzas"},
				{Name: "Pasta Carbonara", Price: 14, Category: "Pastas"},
				{Name: "Tiramisú", Price: 8, Category: "Postres"},
			},
		},
		{
			ID:          2,
			Name:        "Sakura Sushi",
			Rating:      4.9,
			CuisineTags: []string{"japonesa"},
			Description: "Sushi fresco y auténtico.",
			Menu: []domain.MenuItem{
				{Name: "Nigiri Mixto", Price: 18, Category: "Nigiri"},
				{Name: "Miso Soup", Price: 6, Category: "Sopas"},
				{Name: "Tempura de Camarón", Price: 15, Category: "Entradas"},
			},
		},
		{
			ID:          3,
			Name:        "Green Garden",
			Rating:      4.7,
			CuisineTags: []string{"vegetariana"},
			Description: "Comida vegetariana y vegana.",
			Menu: []domain.MenuItem{
				{Name: "Bowl de Quinoa", Price: 10, Category: "Platos Principales"},
				{Name: "Ensalada Mediterránea", Price: 9, Category: "Ensaladas"},
				{Name: "Smoothie de Frutas", Price: 7, Category: "Bebidas"},
			},
		},
	})
}
