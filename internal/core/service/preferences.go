package service

import (
	"context"
	"fmt"

	"github.com/c2developers/creatorhub/internal/core/domain"
	"github.com/c2developers/creatorhub/internal/core/ports"
)

// PreferencesService reads and writes UI preferences in the session store.
type PreferencesService struct {
	store ports.SessionStore
}

func NewPreferencesService(store ports.SessionStore) *PreferencesService {
	return &PreferencesService{store: store}
}

// Get returns the stored preferences, falling back to defaults for missing
// or unrecognised values.
func (s *PreferencesService) Get(ctx context.Context) (domain.Preferences, error) {
	prefs := domain.DefaultPreferences()

	theme, ok, err := s.store.Get(ctx, ports.KeyTheme)
	if err != nil {
		return prefs, fmt.Errorf("read theme: %w", err)
	}
	if ok && domain.Theme(theme).Valid() {
		prefs.Theme = domain.Theme(theme)
	}

	locale, ok, err := s.store.Get(ctx, ports.KeyLocale)
	if err != nil {
		return prefs, fmt.Errorf("read locale: %w", err)
	}
	if ok && domain.Locale(locale).Valid() {
		prefs.Locale = domain.Locale(locale)
	}
	return prefs, nil
}

// Update stores the non-empty fields of p and returns the resulting preferences.
func (s *PreferencesService) Update(ctx context.Context, p domain.Preferences) (domain.Preferences, error) {
	if p.Theme != "" {
		if !p.Theme.Valid() {
			return domain.Preferences{}, fmt.Errorf("theme %q: %w", p.Theme, domain.ErrValidation)
		}
		if err := s.store.Set(ctx, ports.KeyTheme, string(p.Theme)); err != nil {
			return domain.Preferences{}, fmt.Errorf("store theme: %w", err)
		}
	}
	if p.Locale != "" {
		if !p.Locale.Valid() {
			return domain.Preferences{}, fmt.Errorf("locale %q: %w", p.Locale, domain.ErrValidation)
		}
		if err := s.store.Set(ctx, ports.KeyLocale, string(p.Locale)); err != nil {
			return domain.Preferences{}, fmt.Errorf("store locale: %w", err)
		}
	}
	return s.Get(ctx)
}
