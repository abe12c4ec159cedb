package compare

import (
	"slices"
	"sync"

	"github.com/jonathan/talentalign/internal/types"
)

// Selection is an ordered set of role profile ids chosen for comparison.
type Selection struct {
	mu  sync.Mutex
	ids []int64
}

// NewSelection returns a selection holding ids, duplicates removed.
func NewSelection(ids ...int64) *Selection {
	s := &Selection{}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add selects id. Selecting an id twice is a no-op.
func (s *Selection) Add(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.ids, id) {
		s.ids = append(s.ids, id)
	}
}

// IDs returns the selected ids in selection order.
func (s *Selection) IDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.ids)
}

// Len returns the number of selected ids.
func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Retain drops every selected id that is not in profiles. Its signature matches roles.Listener.
func (s *Selection) Retain(profiles []types.RoleProfile) {
	present := make(map[int64]struct{}, len(profiles))
	for _, p := range profiles {
		present[p.ID] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = slices.DeleteFunc(s.ids, func(id int64) bool {
		_, ok := present[id]
		return !ok
	})
}
