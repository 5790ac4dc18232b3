package service

import (
	"context"
	"time"

	"restaurant-directory/internal/domain"
)

// KV is the persistence port for session-scoped state (theme choice,
// favorites cache, dialog stack, order drafts, toast queue). Get reports
// a missing key as ok=false with a nil error; storage failures come back
// as errors and callers degrade to defaults.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

type FavoriteRepository interface {
	IsFavorite(sessionID string, restaurantID int) (bool, error)
	AddFavorite(sessionID string, restaurantID int) error
	RemoveFavorite(sessionID string, restaurantID int) error
	ListFavorites(sessionID string) ([]int, error)
}

type ReservationRepository interface {
	InsertReservation(res *domain.Reservation) error
	SaveQRCode(code string, png []byte) error
	GetQRCode(code string) ([]byte, error)
}

type UserRepository interface {
	EmailExists(email string) (bool, error)
	CreateUser(user *domain.User) error
	GetUserByEmail(email string) (*domain.User, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

type QRGenerator interface {
	Generate(code string) ([]byte, error)
}

type SearchServiceInterface interface {
	Filter(query string) domain.SearchResult
}

type DetailServiceInterface interface {
	Render(ctx context.Context, sessionID string, restaurantID int) (*domain.DetailView, error)
}

type ThemeServiceInterface interface {
	Resolve(ctx context.Context, sessionID string, osPrefersDark bool) domain.ThemeState
	Toggle(ctx context.Context, sessionID string, osPrefersDark bool) domain.ThemeState
}

type DialogServiceInterface interface {
	Open(ctx context.Context, sessionID, dialogID string) error
	Close(ctx context.Context, sessionID, dialogID string) error
	Active(ctx context.Context, sessionID string) string
}

type FavoritesServiceInterface interface {
	Toggle(ctx context.Context, sessionID string, restaurantID int) (string, error)
	Favorites(ctx context.Context, sessionID string) []int
	IsFavorite(ctx context.Context, sessionID string, restaurantID int) bool
}

type ReservationServiceInterface interface {
	Create(ctx context.Context, sessionID string, req ReservationRequest) (*domain.Reservation, error)
	QRCode(code string) ([]byte, error)
}

type OrdersServiceInterface interface {
	Open(ctx context.Context, sessionID string, restaurantID int) (*domain.OrderView, error)
	Adjust(ctx context.Context, sessionID string, restaurantID, itemID, delta int) (*domain.OrderView, error)
	Place(ctx context.Context, sessionID string, restaurantID int) (float64, error)
	Discard(ctx context.Context, sessionID string, restaurantID int) error
}

type ToastServiceInterface interface {
	Push(ctx context.Context, sessionID, message, kind string)
	Drain(ctx context.Context, sessionID string) []domain.Toast
}

type UsersServiceInterface interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Bind(ctx context.Context, sessionID string, user *domain.User)
	Unbind(ctx context.Context, sessionID string)
	Current(ctx context.Context, sessionID string) (*domain.User, bool)
}
