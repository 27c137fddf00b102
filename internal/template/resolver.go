// Package template resolves named configuration templates into effective,
// placeholder-free parameter sets. Templates compose through single
// inheritance plus year-keyed and instance-level overrides; placeholder
// expressions are expanded against phase parameters. Resolution results
// are memoized by content hash, so many scenarios sharing one template
// pay for the merge once.
package template

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/thall/longview/internal/domain"
)

// Store holds the loaded templates by name. Templates are immutable once
// stored.
type Store struct {
	templates map[string]*domain.Template
}

// NewStore builds a store from the given templates.
func NewStore(templates ...*domain.Template) *Store {
	s := &Store{templates: make(map[string]*domain.Template, len(templates))}
	for _, t := range templates {
		s.templates[t.Name] = t
	}
	return s
}

// Add registers a template, replacing any previous one with the same name.
func (s *Store) Add(t *domain.Template) {
	s.templates[t.Name] = t
}

// Get returns the named template or a TemplateNotFoundError.
func (s *Store) Get(name string) (*domain.Template, error) {
	t, ok := s.templates[name]
	if !ok {
		return nil, &domain.TemplateNotFoundError{Name: name}
	}
	return t, nil
}

// Has reports whether the store holds a template with the given name.
func (s *Store) Has(name string) bool {
	_, ok := s.templates[name]
	return ok
}

// Resolver merges templates with overrides and expands placeholders.
// Safe for concurrent use: the cache is guarded by a read-write lock and
// entries are never mutated after insertion.
type Resolver struct {
	store *Store

	mu    sync.RWMutex
	cache map[string]domain.EffectiveConfig
}

// NewResolver builds a resolver over the store.
func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store, cache: make(map[string]domain.EffectiveConfig)}
}

// Resolve produces the effective configuration for one template instance
// in one plan year. Resolution order: inherited base parameters (root
// ancestor first), the chain's overrides for the matching year, instance
// overrides, then placeholder expansion against phaseParams. Instance
// overrides always win over template defaults.
func (r *Resolver) Resolve(name string, instanceOverrides, phaseParams map[string]any, year int) (domain.EffectiveConfig, error) {
	chain, err := r.chain(name)
	if err != nil {
		return nil, err
	}

	key, err := cacheKey(chain, instanceOverrides, phaseParams, year)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	cached, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return deepCopy(cached), nil
	}

	merged := map[string]any{}
	for _, t := range chain {
		merged = deepMerge(merged, t.Params)
	}
	for _, t := range chain {
		if o, ok := t.Overrides[year]; ok {
			merged = deepMerge(merged, o)
		}
	}
	merged = deepMerge(merged, instanceOverrides)

	expanded, err := expandValue(merged, bindingsFrom(phaseParams, year))
	if err != nil {
		return nil, err
	}
	result := domain.EffectiveConfig(expanded.(map[string]any))

	r.mu.Lock()
	r.cache[key] = result
	r.mu.Unlock()

	return deepCopy(result), nil
}

// chain walks the extends links from name up to the root, returning the
// templates root-first. A revisited name fails with
// CircularInheritanceError rather than recursing forever.
func (r *Resolver) chain(name string) ([]*domain.Template, error) {
	var reversed []*domain.Template
	visited := map[string]bool{}
	path := []string{}

	for current := name; current != ""; {
		if visited[current] {
			return nil, &domain.CircularInheritanceError{Chain: append(path, current)}
		}
		visited[current] = true
		path = append(path, current)

		t, err := r.store.Get(current)
		if err != nil {
			return nil, err
		}
		reversed = append(reversed, t)
		current = t.Extends
	}

	chain := make([]*domain.Template, len(reversed))
	for i, t := range reversed {
		chain[len(reversed)-1-i] = t
	}
	return chain, nil
}

// cacheKey hashes the template chain's content together with the binding
// inputs. yaml.v3 emits map keys in sorted order, so the serialization is
// canonical.
func cacheKey(chain []*domain.Template, instanceOverrides, phaseParams map[string]any, year int) (string, error) {
	doc := map[string]any{
		"chain":    chain,
		"instance": instanceOverrides,
		"params":   phaseParams,
		"year":     year,
	}
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
