package domain

import "time"

// Theme values as persisted and applied on the page body.
const (
	ThemeDark  = "dark-mode"
	ThemeLight = "light-mode"
)

type Restaurant struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Rating      float64    `json:"rating"`
	CuisineTags []string   `json:"cuisine"`
	Description string     `json:"description"`
	Menu        []MenuItem `json:"menu"`
}

// MenuItem carries a synthetic per-restaurant ID assigned at catalog load.
// Two items may share a price, so price is never used as identity.
type MenuItem struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// MenuSection groups items of one category, preserving first-seen category
// order and within-category insertion order.
type MenuSection struct {
	Category string     `json:"category"`
	Items    []MenuItem `json:"items"`
}

// DetailView is the full restaurant detail as rendered in the detail dialog.
type DetailView struct {
	ID            int           `json:"id"`
	Name          string        `json:"name"`
	Rating        float64       `json:"rating"`
	CuisineLabels []string      `json:"cuisine_labels"`
	Description   string        `json:"description"`
	Sections      []MenuSection `json:"menu_sections"`
	Fulfillment   []string      `json:"fulfillment"`
	Address       string        `json:"address"`
	Phone         string        `json:"phone"`
	Hours         string        `json:"hours"`
	Favorite      bool          `json:"favorite"`
}

type SearchResult struct {
	Restaurants []Restaurant `json:"restaurants"`
	NoResults   bool         `json:"no_results"`
}

type ThemeState struct {
	Theme string `json:"theme"`
	Icon  string `json:"icon"`
}

type Toast struct {
	Message   string    `json:"message"`
	Kind      string    `json:"kind"`
	Color     string    `json:"color"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Reservation struct {
	ID              int       `json:"id"`
	Code            string    `json:"code"`
	SessionID       string    `json:"-"`
	RestaurantID    int       `json:"restaurant_id"`
	Date            string    `json:"date"`
	TimeSlot        string    `json:"time"`
	Guests          int       `json:"guests"`
	SpecialRequests string    `json:"special_requests,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// OrderDraft is the transient per-session order state: item ID to quantity.
// It exists only between opening the order dialog and placing or discarding.
type OrderDraft struct {
	RestaurantID int         `json:"restaurant_id"`
	Quantities   map[int]int `json:"quantities"`
}

type OrderLine struct {
	Item     MenuItem `json:"item"`
	Quantity int      `json:"quantity"`
}

type OrderSection struct {
	Category string      `json:"category"`
	Lines    []OrderLine `json:"lines"`
}

type OrderView struct {
	RestaurantID   int            `json:"restaurant_id"`
	RestaurantName string         `json:"restaurant_name"`
	Sections       []OrderSection `json:"sections"`
	Total          float64        `json:"total"`
}

type User struct {
	ID           int       `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	City         string    `json:"city,omitempty"`
	PostalCode   string    `json:"postal_code,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Event is the message published to the directory-events topic.
type Event struct {
	Type         string    `json:"type"`
	SessionID    string    `json:"session_id,omitempty"`
	RestaurantID int       `json:"restaurant_id"`
	Action       string    `json:"action,omitempty"`
	Code         string    `json:"code,omitempty"`
	Total        float64   `json:"total,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
