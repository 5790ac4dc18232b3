package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"restaurant-directory/internal/catalog"
	"restaurant-directory/internal/domain"
)

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrToggleInFlight     = errors.New("favorite toggle already in progress")
)

const (
	ActionAdded   = "added"
	ActionRemoved = "removed"
)

// FavoritesService flips favorite membership in Postgres (the source of
// truth) and mirrors the post-toggle state into the session's KV cache,
// which is the only thing heart icons are rendered from.
type FavoritesService struct {
	catalog   *catalog.Catalog
	repo      FavoriteRepository
	kv        KV
	publisher EventPublisher
	cacheTTL  time.Duration

	mu       sync.Mutex
	inflight map[string]bool
}

func NewFavoritesService(c *catalog.Catalog, repo FavoriteRepository, kv KV, publisher EventPublisher, cacheTTL time.Duration) *FavoritesService {
	return &FavoritesService{
		catalog:   c,
		repo:      repo,
		kv:        kv,
		publisher: publisher,
		cacheTTL:  cacheTTL,
		inflight:  make(map[string]bool),
	}
}

func (s *FavoritesService) cacheKey(sessionID string) string {
	return "session:" + sessionID + ":favorites"
}

// Toggle flips favorite status for the restaurant and reports the action
// taken. A second toggle for the same (session, restaurant) while one is
// still in flight is rejected instead of racing it.
func (s *FavoritesService) Toggle(ctx context.Context, sessionID string, restaurantID int) (string, error) {
	if _, ok := s.catalog.Get(restaurantID); !ok {
		return "", ErrRestaurantNotFound
	}

	guard := fmt.Sprintf("%s:%d", sessionID, restaurantID)
	if !s.acquire(guard) {
		return "", ErrToggleInFlight
	}
	defer s.release(guard)

	fav, err := s.repo.IsFavorite(sessionID, restaurantID)
	if err != nil {
		return "", fmt.Errorf("failed to read favorite status: %w", err)
	}

	action := ActionAdded
	if fav {
		action = ActionRemoved
		err = s.repo.RemoveFavorite(sessionID, restaurantID)
	} else {
		err = s.repo.AddFavorite(sessionID, restaurantID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to toggle favorite: %w", err)
	}

	s.refreshCache(ctx, sessionID)

	if s.publisher != nil {
		event := domain.Event{
			Type:         "favorite_toggled",
			SessionID:    sessionID,
			RestaurantID: restaurantID,
			Action:       action,
			Timestamp:    time.Now(),
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			return "", fmt.Errorf("failed to emit favorite event: %w", err)
		}
	}

	return action, nil
}

// refreshCache rewrites the session cache from the repository. The server
// state is authoritative; the cache is never merged with what it held.
func (s *FavoritesService) refreshCache(ctx context.Context, sessionID string) {
	ids, err := s.repo.ListFavorites(sessionID)
	if err != nil {
		log.Printf("WARNING: failed to list favorites for cache refresh: %v", err)
		return
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return
	}
	if err := s.kv.Set(ctx, s.cacheKey(sessionID), string(raw), s.cacheTTL); err != nil {
		log.Printf("WARNING: failed to cache favorites: %v", err)
	}
}

// Favorites reads the session's favorite IDs from the cache alone. Missing
// or corrupt cache reads as an empty set, never as an error.
func (s *FavoritesService) Favorites(ctx context.Context, sessionID string) []int {
	raw, ok, err := s.kv.Get(ctx, s.cacheKey(sessionID))
	if err != nil || !ok {
		return []int{}
	}
	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return []int{}
	}
	if ids == nil {
		ids = []int{}
	}
	return ids
}

func (s *FavoritesService) IsFavorite(ctx context.Context, sessionID string, restaurantID int) bool {
	for _, id := range s.Favorites(ctx, sessionID) {
		if id == restaurantID {
			return true
		}
	}
	return false
}

func (s *FavoritesService) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[key] {
		return false
	}
	s.inflight[key] = true
	return true
}

func (s *FavoritesService) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, key)
}

var _ FavoritesServiceInterface = (*FavoritesService)(nil)
