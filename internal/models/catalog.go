package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aleph-cli/aleph/internal/config"
)

// DefaultProvider is the provider key used by catalog entries that name none.
const DefaultProvider = "gemini"

// ErrUnknownModel is returned when a model id is not in the catalog.
var ErrUnknownModel = errors.New("unknown model")

// UnknownModelError carries the rejected model id.
type UnknownModelError struct {
	ID string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("unknown model %q", e.ID)
}

func (e *UnknownModelError) Unwrap() error { return ErrUnknownModel }

// Entry is one selectable model.
type Entry struct {
	ID          string
	Name        string
	Description string
	Provider    string
}

// DisplayName returns Name, or ID when no name is set.
func (e Entry) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.ID
}

// DefaultCatalog is the built-in allow-list.
var DefaultCatalog = []Entry{
	{ID: "gemini-3-pro-preview", Name: "Gemini 3.0 Pro (Preview)", Description: "Newest reasoning model. Slower, but smartest.", Provider: DefaultProvider},
	{ID: "gemini-2.5-pro", Name: "Gemini 2.5 Pro", Description: "Strong reasoning, long context.", Provider: DefaultProvider},
	{ID: "gemini-2.5-flash", Name: "Gemini 2.5 Flash", Description: "Current speed champion. Best for coding loops.", Provider: DefaultProvider},
	{ID: "gemini-1.5-pro", Name: "Gemini 1.5 Pro", Description: "Reliable legacy stable version.", Provider: DefaultProvider},
	{ID: "gemini-pro", Name: "Gemini Pro", Description: "Alias of the current stable Pro model.", Provider: DefaultProvider},
}

// Catalog is the ordered allow-list of selectable models.
type Catalog struct {
	entries []Entry
}

// NewCatalog builds the catalog from config, falling back to DefaultCatalog
// when the config lists no model.
func NewCatalog(cfg config.ModelsConfig) *Catalog {
	if len(cfg.Catalog) == 0 {
		return &Catalog{entries: append([]Entry(nil), DefaultCatalog...)}
	}
	c := &Catalog{}
	seen := make(map[string]bool, len(cfg.Catalog))
	for _, m := range cfg.Catalog {
		id := strings.TrimSpace(m.ID)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		provider := m.Provider
		if provider == "" {
			provider = DefaultProvider
		}
		c.entries = append(c.entries, Entry{
			ID:          id,
			Name:        m.Name,
			Description: m.Description,
			Provider:    provider,
		})
	}
	return c
}

// Lookup returns the entry for id. Matching is exact after trimming.
func (c *Catalog) Lookup(id string) (Entry, error) {
	key := strings.TrimSpace(id)
	for _, e := range c.entries {
		if e.ID == key {
			return e, nil
		}
	}
	return Entry{}, &UnknownModelError{ID: id}
}

// Entries returns a copy of the catalog in display order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// IDs returns the model ids in display order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.entries))
	for i, e := range c.entries {
		ids[i] = e.ID
	}
	return ids
}
