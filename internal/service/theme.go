package service

import (
	"context"
	"log"
	"time"

	"restaurant-directory/internal/domain"
)

type ThemeService struct {
	kv  KV
	ttl time.Duration
}

func NewThemeService(kv KV, ttl time.Duration) *ThemeService {
	return &ThemeService{kv: kv, ttl: ttl}
}

func (s *ThemeService) key(sessionID string) string {
	return "session:" + sessionID + ":theme"
}

// Resolve applies the precedence persisted choice > OS preference > light.
// A missing, unreadable or corrupt stored value counts as "no preference".
func (s *ThemeService) Resolve(ctx context.Context, sessionID string, osPrefersDark bool) domain.ThemeState {
	stored, ok, err := s.kv.Get(ctx, s.key(sessionID))
	if err == nil && ok {
		switch stored {
		case domain.ThemeDark:
			return themeState(domain.ThemeDark)
		case domain.ThemeLight:
			return themeState(domain.ThemeLight)
		}
	}
	if osPrefersDark {
		return themeState(domain.ThemeDark)
	}
	return themeState(domain.ThemeLight)
}

// Toggle flips the currently resolved theme and persists the new choice.
// Persistence failures are swallowed: the returned state is still correct
// for the session, it just will not survive a reload.
func (s *ThemeService) Toggle(ctx context.Context, sessionID string, osPrefersDark bool) domain.ThemeState {
	current := s.Resolve(ctx, sessionID, osPrefersDark)

	next := domain.ThemeDark
	if current.Theme == domain.ThemeDark {
		next = domain.ThemeLight
	}

	if err := s.kv.Set(ctx, s.key(sessionID), next, s.ttl); err != nil {
		log.Printf("WARNING: failed to persist theme choice: %v", err)
	}
	return themeState(next)
}

// Dark mode shows the sun (the way back), light mode shows the moon.
func themeState(theme string) domain.ThemeState {
	icon := "moon"
	if theme == domain.ThemeDark {
		icon = "sun"
	}
	return domain.ThemeState{Theme: theme, Icon: icon}
}

var _ ThemeServiceInterface = (*ThemeService)(nil)
