// Package wishlist keeps the saved-for-later product ids.
package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/snapshot"
)

// Store holds product ids in insertion order. Only the ids are kept: the
// product details are re-joined against the catalog on read so the
// wishlist never serves stale prices.
type Store struct {
	mu  sync.Mutex
	ids []int

	snapshots snapshot.Store
	logg      *logger.Logger
}

// StoreParams groups the store dependencies.
type StoreParams struct {
	Snapshots snapshot.Store
	Logger    *logger.Logger
}

// NewStore builds a wishlist store and restores any persisted id list.
func NewStore(ctx context.Context, params StoreParams) (*Store, error) {
	if params.Snapshots == nil {
		return nil, fmt.Errorf("snapshot store is required")
	}
	s := &Store{
		snapshots: params.Snapshots,
		logg:      params.Logger,
	}
	if err := s.restore(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Add appends the id if not already present. Duplicates are silently
// ignored so Add is idempotent.
func (s *Store) Add(ctx context.Context, productID int) {
	s.mu.Lock()
	if s.indexOf(productID) < 0 {
		s.ids = append(s.ids, productID)
	}
	s.mu.Unlock()
	s.persist(ctx)
}

// Remove deletes the id. Removing an absent id is a no-op.
func (s *Store) Remove(ctx context.Context, productID int) {
	s.mu.Lock()
	if i := s.indexOf(productID); i >= 0 {
		s.ids = append(s.ids[:i], s.ids[i+1:]...)
	}
	s.mu.Unlock()
	s.persist(ctx)
}

// Toggle flips membership and reports whether the id is now present.
// Toggling twice always restores the original membership.
func (s *Store) Toggle(ctx context.Context, productID int) bool {
	s.mu.Lock()
	present := false
	if i := s.indexOf(productID); i >= 0 {
		s.ids = append(s.ids[:i], s.ids[i+1:]...)
	} else {
		s.ids = append(s.ids, productID)
		present = true
	}
	s.mu.Unlock()
	s.persist(ctx)
	return present
}

// Contains reports membership.
func (s *Store) Contains(productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(productID) >= 0
}

// Items returns a copy of the ids in insertion order.
func (s *Store) Items() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.ids))
	copy(out, s.ids)
	return out
}

// Clear empties the wishlist.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.ids = nil
	s.mu.Unlock()
	s.persist(ctx)
}

// indexOf assumes the caller holds the lock.
func (s *Store) indexOf(productID int) int {
	for i, id := range s.ids {
		if id == productID {
			return i
		}
	}
	return -1
}

func (s *Store) persist(ctx context.Context) {
	s.mu.Lock()
	ids := make([]int, len(s.ids))
	copy(ids, s.ids)
	s.mu.Unlock()

	payload, err := json.Marshal(ids)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "marshal wishlist snapshot", err)
		}
		return
	}
	if err := s.snapshots.Save(ctx, snapshot.KeyWishlist, payload); err != nil && s.logg != nil {
		s.logg.Error(s.logg.WithSnapshotKey(ctx, snapshot.KeyWishlist), "persist wishlist snapshot", err)
	}
}

func (s *Store) restore(ctx context.Context) error {
	payload, err := s.snapshots.Load(ctx, snapshot.KeyWishlist)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("restore wishlist snapshot: %w", err)
	}

	var ids []int
	if err := json.Unmarshal(payload, &ids); err != nil {
		return fmt.Errorf("decode wishlist snapshot: %w", err)
	}

	s.mu.Lock()
	s.ids = ids
	s.mu.Unlock()
	return nil
}
