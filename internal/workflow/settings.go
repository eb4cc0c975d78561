package workflow

import (
	"strings"
	"sync"

	"subtitlecat/internal/keystore"
	"subtitlecat/internal/language"
	"subtitlecat/internal/library"
	"subtitlecat/internal/selection"
	"subtitlecat/internal/services"
)

// Settings is the operator-owned state shared by every batch.
type Settings struct {
	catalog  *library.Catalog
	defaults *selection.LanguageSet
	keys     *keystore.Store

	mu     sync.RWMutex
	target language.Target
}

// NewSettings wires settings. An unknown target name falls back to the
// default target.
func NewSettings(catalog *library.Catalog, defaults *selection.LanguageSet, keys *keystore.Store, target string) *Settings {
	if catalog == nil {
		catalog = library.NewCatalog(library.DefaultOptions())
	}
	if defaults == nil {
		defaults = selection.NewLanguageSet()
	}
	t, ok := language.LookupTarget(target)
	if !ok {
		t = language.DefaultTarget()
	}
	return &Settings{catalog: catalog, defaults: defaults, keys: keys, target: t}
}

// Catalog exposes the library catalog.
func (s *Settings) Catalog() *library.Catalog {
	return s.catalog
}

// SetRoot scans root and makes it the active library.
func (s *Settings) SetRoot(root string) (library.Inventory, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return library.Inventory{}, services.Wrap(services.ErrValidation, "settings", "set root", "directory is empty", nil)
	}
	inv, err := s.catalog.SetRoot(root)
	if err != nil {
		return library.Inventory{}, services.Wrap(services.ErrValidation, "settings", "set root", "", err)
	}
	return inv, nil
}

// Root returns the active library root, or "".
func (s *Settings) Root() string {
	return s.catalog.Root()
}

// Defaults returns the current default-language tags.
func (s *Settings) Defaults() []string {
	return s.defaults.Tags()
}

// HasDefaults reports whether any default language is set.
func (s *Settings) HasDefaults() bool {
	return !s.defaults.Empty()
}

// SetDefaults replaces the default-language set. Nil clears it.
func (s *Settings) SetDefaults(tags []string) {
	s.defaults.Set(tags)
}

// Target returns the translation target.
func (s *Settings) Target() language.Target {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.target
}

// SetTarget selects a target by name, native name or code.
func (s *Settings) SetTarget(name string) (language.Target, error) {
	t, ok := language.LookupTarget(name)
	if !ok {
		return language.Target{}, services.Wrap(services.ErrValidation, "settings", "set target",
			"unknown target "+name+"; choose one of "+strings.Join(language.TargetNames(), ", "), nil)
	}
	s.mu.Lock()
	s.target = t
	s.mu.Unlock()
	return t, nil
}

// Keys returns the API key pool.
func (s *Settings) Keys() *keystore.Store {
	return s.keys
}

// AddKey appends a key and persists the pool.
func (s *Settings) AddKey(key string) error {
	if s.keys == nil {
		return services.Wrap(services.ErrConfiguration, "settings", "add key", "no key store", nil)
	}
	return s.keys.Add(key)
}

// RemoveKey deletes the key at the 1-based position and persists the pool.
func (s *Settings) RemoveKey(position int) (string, error) {
	if s.keys == nil {
		return "", services.Wrap(services.ErrConfiguration, "settings", "remove key", "no key store", nil)
	}
	return s.keys.Remove(position - 1)
}

// KeyCount returns the number of configured keys.
func (s *Settings) KeyCount() int {
	if s.keys == nil {
		return 0
	}
	return s.keys.Len()
}
