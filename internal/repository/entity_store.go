package repository

import (
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"
)

var ErrNotFound = errors.New("record not found")

// entity is what every collection element exposes to the store.
type entity interface {
	EntityID() int64
	CreatedTime() time.Time
}

// entityStore is an in-memory collection persisted as one snapshot. Every
// mutation builds a new slice, saves it and only then swaps it in, so a failed
// save leaves the collection untouched.
type entityStore[T entity] struct {
	mu    sync.RWMutex
	name  string
	snap  SnapshotRepository
	items []T
}

func newEntityStore[T entity](snap SnapshotRepository, name string) (*entityStore[T], error) {
	s := &entityStore[T]{name: name, snap: snap}
	if _, err := snap.Load(name, &s.items); err != nil {
		return nil, err
	}
	return s, nil
}

// nextID is one above the current maximum. Callers hold the lock.
func (s *entityStore[T]) nextID() int64 {
	var max int64
	for _, it := range s.items {
		if it.EntityID() > max {
			max = it.EntityID()
		}
	}
	return max + 1
}

func (s *entityStore[T]) indexOf(id int64) int {
	return slices.IndexFunc(s.items, func(it T) bool { return it.EntityID() == id })
}

// commit persists next and makes it the current collection. Callers hold the write lock.
func (s *entityStore[T]) commit(next []T) error {
	if err := s.snap.Save(s.name, next); err != nil {
		return err
	}
	s.items = next
	return nil
}

func (s *entityStore[T]) insert(build func(id int64) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := build(s.nextID())
	if err != nil {
		return item, err
	}
	next := append(slices.Clone(s.items), item)
	if err := s.commit(next); err != nil {
		var zero T
		return zero, err
	}
	return item, nil
}

// update applies mutate to a copy of the record and persists it.
func (s *entityStore[T]) update(id int64, mutate func(item *T) error) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	idx := s.indexOf(id)
	if idx < 0 {
		return zero, ErrNotFound
	}
	item := s.items[idx]
	if err := mutate(&item); err != nil {
		return zero, err
	}
	next := slices.Clone(s.items)
	next[idx] = item
	if err := s.commit(next); err != nil {
		return zero, err
	}
	return item, nil
}

// remove deletes the record; deleting an absent id is a no-op.
func (s *entityStore[T]) remove(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}
	next := slices.Delete(slices.Clone(s.items), idx, idx+1)
	return s.commit(next)
}

func (s *entityStore[T]) get(id int64) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var zero T
	idx := s.indexOf(id)
	if idx < 0 {
		return zero, ErrNotFound
	}
	return s.items[idx], nil
}

func (s *entityStore[T]) list() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

func (s *entityStore[T]) filter(keep func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0)
	for _, it := range s.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// search matches term case-insensitively against the fields returned by text.
// An empty term returns everything, newest first.
func (s *entityStore[T]) search(term string, text func(T) []string) []T {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		all := s.list()
		sortNewestFirst(all)
		return all
	}
	return s.filter(func(it T) bool {
		for _, field := range text(it) {
			if field != "" && strings.Contains(strings.ToLower(field), term) {
				return true
			}
		}
		return false
	})
}

// sortNewestFirst orders by creation time descending, higher id first on ties.
func sortNewestFirst[T entity](items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, tj := items[i].CreatedTime(), items[j].CreatedTime()
		if ti.Equal(tj) {
			return items[i].EntityID() > items[j].EntityID()
		}
		return ti.After(tj)
	})
}
