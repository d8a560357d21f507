package core

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/luxigo/dynlist/internal/datastructures"
)

var (
	ErrEmptyKey     = errors.New("key cannot be empty")
	ErrTooManyLists = errors.New("too many lists")
)

// Store keeps named lists. Lists do no locking of their own, so every access
// goes through mu.
type Store struct {
	mu       sync.Mutex
	lists    map[string]*datastructures.List[string]
	maxLists int
}

// NewStore creates an empty store. maxLists <= 0 means unbounded.
func NewStore(maxLists int) *Store {
	return &Store{
		lists:    make(map[string]*datastructures.List[string]),
		maxLists: maxLists,
	}
}

// list returns the list stored under key, creating it when create is set.
// A nil list is returned for missing keys when create is false.
func (s *Store) list(key string, create bool) (*datastructures.List[string], error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	l, exists := s.lists[key]
	if exists || !create {
		return l, nil
	}
	if s.maxLists > 0 && len(s.lists) >= s.maxLists {
		return nil, fmt.Errorf("%w: limit is %d", ErrTooManyLists, s.maxLists)
	}
	l = datastructures.NewList[string]()
	s.lists[key] = l
	return l, nil
}

// dropIfEmpty forgets lists that no longer hold anything.
func (s *Store) dropIfEmpty(key string, l *datastructures.List[string]) {
	if l != nil && l.Len() == 0 {
		delete(s.lists, key)
	}
}

// Push appends value to the list under key and returns the new length
func (s *Store) Push(key, value string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.list(key, true)
	if err != nil {
		return 0, err
	}
	l.Push(value)
	return l.Len(), nil
}

// Unshift prepends value to the list under key and returns the new length
func (s *Store) Unshift(key, value string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.list(key, true)
	if err != nil {
		return 0, err
	}
	l.Unshift(value)
	return l.Len(), nil
}

// Pop removes the last value. ok is false when the list is empty.
func (s *Store) Pop(key string) (value string, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.list(key, false)
	if err != nil || l == nil {
		return "", false, err
	}
	value, ok = l.Pop()
	s.dropIfEmpty(key, l)
	return value, ok, nil
}

// Shift removes the first value. ok is false when the list is empty.
func (s *Store) Shift(key string) (value string, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.list(key, false)
	if err != nil || l == nil {
		return "", false, err
	}
	value, ok = l.Shift()
	s.dropIfEmpty(key, l)
	return value, ok, nil
}

// Get returns the value at index
func (s *Store) Get(key string, index int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.existing(key)
	if err != nil {
		return "", err
	}
	n, err := l.Get(index)
	if err != nil {
		return "", err
	}
	return n.Value(), nil
}

// Set replaces the value at index
func (s *Store) Set(key string, index int, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.existing(key)
	if err != nil {
		return err
	}
	_, err = l.Set(index, value)
	return err
}

// Insert places value before or after the value at index and returns the
// new length
func (s *Store) Insert(key string, index int, after bool, value string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.existing(key)
	if err != nil {
		return 0, err
	}
	if _, err := l.Insert(index, after, value); err != nil {
		return 0, err
	}
	return l.Len(), nil
}

// Remove deletes the value at index. When expect is non-nil the removal is
// cancelled unless the stored value equals *expect.
func (s *Store) Remove(key string, index int, expect *string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.existing(key)
	if err != nil {
		return "", err
	}

	var removed string
	err = l.Remove(index, func(value string) bool {
		removed = value
		return expect != nil && *expect != value
	})
	if err != nil {
		return "", err
	}
	s.dropIfEmpty(key, l)
	return removed, nil
}

// Len returns the length of the list under key, 0 if it does not exist
func (s *Store) Len(key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.list(key, false)
	if err != nil || l == nil {
		return 0, err
	}
	return l.Len(), nil
}

// Values returns a copy of the list under key
func (s *Store) Values(key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.list(key, false)
	if err != nil || l == nil {
		return []string{}, err
	}
	return l.Values(), nil
}

// Delete drops the list under key and reports whether it existed
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, exists := s.lists[key]
	if !exists {
		return false
	}
	l.Clear()
	delete(s.lists, key)
	return true
}

// Keys returns the names of all lists, sorted
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.lists))
	for key := range s.lists {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// existing returns the list under key, standing in an empty list for a
// missing key so that indexed access reports out of range.
func (s *Store) existing(key string) (*datastructures.List[string], error) {
	l, err := s.list(key, false)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return datastructures.NewList[string](), nil
	}
	return l, nil
}
