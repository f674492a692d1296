package models

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/model"

	"github.com/aleph-cli/aleph/internal/config"
)

// factoryFunc builds a chat model; swapped out in tests.
type factoryFunc func(ctx context.Context, cfg config.ProviderConfig, modelID string) (model.BaseChatModel, error)

// Registry resolves catalog model ids to chat models, creating each one
// lazily on first use and caching it for the life of the process.
type Registry struct {
	catalog   *Catalog
	providers map[string]config.ProviderConfig
	create    factoryFunc

	mu     sync.Mutex
	models map[string]model.BaseChatModel
}

// NewRegistry creates a model registry from config. A "gemini" provider
// using the gemini driver is always available unless the config overrides it.
func NewRegistry(cfg config.ModelsConfig) *Registry {
	r := &Registry{
		catalog:   NewCatalog(cfg),
		providers: make(map[string]config.ProviderConfig, len(cfg.Providers)+1),
		create:    CreateModel,
		models:    make(map[string]model.BaseChatModel),
	}
	r.providers[DefaultProvider] = config.ProviderConfig{Driver: DriverGemini}
	for name, provCfg := range cfg.Providers {
		if provCfg.Driver == "" {
			provCfg.Driver = name
		}
		r.providers[name] = provCfg
	}
	return r
}

// Catalog returns the model allow-list.
func (r *Registry) Catalog() *Catalog {
	return r.catalog
}

// Resolve returns the catalog entry for modelID and the config of the
// provider serving it.
func (r *Registry) Resolve(modelID string) (Entry, config.ProviderConfig, error) {
	entry, err := r.catalog.Lookup(modelID)
	if err != nil {
		return Entry{}, config.ProviderConfig{}, err
	}
	provCfg, ok := r.providers[entry.Provider]
	if !ok {
		return entry, config.ProviderConfig{}, fmt.Errorf("model %q: %w: %s", entry.ID, ErrProviderNotConfigured, entry.Provider)
	}
	return entry, provCfg, nil
}

// CheckAuth verifies that a credential can be resolved for modelID without
// creating the model.
func (r *Registry) CheckAuth(modelID string) error {
	_, provCfg, err := r.Resolve(modelID)
	if err != nil {
		return err
	}
	if !RequiresAuth(provCfg.Driver) {
		return nil
	}
	if _, err := ResolveAuth(provCfg); err != nil {
		return fmt.Errorf("model %q: %w", modelID, err)
	}
	return nil
}

// Get returns the chat model for modelID, creating it on first use.
// Failed creations are not cached.
func (r *Registry) Get(ctx context.Context, modelID string) (model.BaseChatModel, error) {
	entry, provCfg, err := r.Resolve(modelID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.models[entry.ID]; ok {
		return m, nil
	}
	m, err := r.create(ctx, provCfg, entry.ID)
	if err != nil {
		return nil, fmt.Errorf("create %s model %q: %w", strings.ToLower(provCfg.Driver), entry.ID, err)
	}
	r.models[entry.ID] = m
	return m, nil
}
