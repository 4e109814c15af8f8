package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"
)

// ErrNotFound reports that no item with the requested id exists.
var ErrNotFound = errors.New("not found")

// Collection is a JSON-array collection persisted under a single key.
// Every mutation rewrites the full collection synchronously before
// returning; reads fail open to an empty list on corrupt data so the app
// stays usable at the cost of silent loss of the corrupt blob.
type Collection[T any] struct {
	store *Store
	key   string
	id    func(T) string
	log   zerolog.Logger
}

// NewCollection creates a collection persisted under key, using id to
// extract item identifiers.
func NewCollection[T any](store *Store, key string, id func(T) string, log zerolog.Logger) *Collection[T] {
	return &Collection[T]{store: store, key: key, id: id, log: log}
}

// List returns all stored items. Storage order is most-recent-first by
// write convention; callers needing a different order sort themselves.
func (c *Collection[T]) List(ctx context.Context) []T {
	raw, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		c.log.Error().Err(err).Str("key", c.key).Msg("failed to read collection")
		return nil
	}
	if !ok {
		return nil
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		c.log.Error().Err(err).Str("key", c.key).Msg("corrupt collection, starting empty")
		return nil
	}
	return items
}

// Add prepends a new item and persists.
func (c *Collection[T]) Add(ctx context.Context, item T) error {
	items := append([]T{item}, c.List(ctx)...)
	return c.save(ctx, items)
}

// Replace swaps the stored item with a matching id. Returns ErrNotFound
// rather than inserting a duplicate.
func (c *Collection[T]) Replace(ctx context.Context, item T) error {
	items := c.List(ctx)
	for i := range items {
		if c.id(items[i]) == c.id(item) {
			items[i] = item
			return c.save(ctx, items)
		}
	}
	return ErrNotFound
}

// Delete removes the item with the given id. Deleting a missing id is not
// an error.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	items := c.List(ctx)
	kept := items[:0]
	for _, item := range items {
		if c.id(item) != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return nil
	}
	return c.save(ctx, kept)
}

func (c *Collection[T]) save(ctx context.Context, items []T) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, c.key, string(raw))
}
