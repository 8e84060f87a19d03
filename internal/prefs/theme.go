package prefs

import (
	"context"
	"errors"

	"github.com/csheth/paperlens/internal/logging"
)

// DarkModeKey holds "enabled" or "disabled".
const DarkModeKey = "darkMode"

// LoadDarkMode reports the saved theme. Missing or unreadable values mean
// light mode.
func LoadDarkMode(ctx context.Context, store Store) bool {
	if store == nil {
		return false
	}
	value, err := store.Get(ctx, DarkModeKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logging.Warnf("[prefs] read %s: %v", DarkModeKey, err)
		}
		return false
	}
	return value == "enabled"
}

// SaveDarkMode persists the theme flag.
func SaveDarkMode(ctx context.Context, store Store, dark bool) error {
	if store == nil {
		return nil
	}
	value := "disabled"
	if dark {
		value = "enabled"
	}
	return store.Set(ctx, DarkModeKey, value)
}
