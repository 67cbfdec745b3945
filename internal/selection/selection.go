// package selection holds the client's candidate playlist
package selection

import (
	"sync"

	"github.com/desertthunder/vibevault/internal/models"
)

// Store is an ordered, duplicate-free list of [models.SelectedItem].
//
// Two items are duplicates when [models.SelectedItem.Same] reports true. Insertion order is preserved
// and is the display order. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	items []models.SelectedItem
}

// New creates an empty [Store].
func New() *Store {
	return &Store{items: []models.SelectedItem{}}
}

// Add appends item unless an identical item is already present. Reports whether the store changed.
func (s *Store) Add(item models.SelectedItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.items, item) >= 0 {
		return false
	}
	s.items = append(s.items, item)
	return true
}

// Remove deletes every item identical to item, keeping the relative order of the rest.
// Reports whether anything was removed.
func (s *Store) Remove(item models.SelectedItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, existing := range s.items {
		if !existing.Same(item) {
			kept = append(kept, existing)
		}
	}
	removed := len(kept) != len(s.items)
	clear(s.items[len(kept):])
	s.items = kept
	return removed
}

// Append adds each item that has no identical entry among the items present before the call, in order.
//
// Items within the batch are not checked against each other. Returns the number of items added.
func (s *Store) Append(items []models.SelectedItem) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.items
	added := 0
	for _, item := range items {
		if indexOf(existing, item) >= 0 {
			continue
		}
		s.items = append(s.items, item)
		added++
	}
	return added
}

// Contains reports whether an item identical to item is present.
func (s *Store) Contains(item models.SelectedItem) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return indexOf(s.items, item) >= 0
}

// Toggle removes item when present and adds it otherwise. Reports whether item is present afterwards.
func (s *Store) Toggle(item models.SelectedItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.items, item) < 0 {
		s.items = append(s.items, item)
		return true
	}

	kept := make([]models.SelectedItem, 0, len(s.items))
	for _, existing := range s.items {
		if !existing.Same(item) {
			kept = append(kept, existing)
		}
	}
	s.items = kept
	return false
}

// Items returns a copy of the current items in display order.
func (s *Store) Items() []models.SelectedItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.SelectedItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Clear removes all items.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = []models.SelectedItem{}
}

func indexOf(items []models.SelectedItem, item models.SelectedItem) int {
	for i, existing := range items {
		if existing.Same(item) {
			return i
		}
	}
	return -1
}
