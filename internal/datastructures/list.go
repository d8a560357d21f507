package datastructures

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is returned when an index does not address an existing node.
	ErrOutOfRange = errors.New("index out of range")
	// ErrCancelled is returned by Remove when the dispose callback vetoes the removal.
	ErrCancelled = errors.New("removal cancelled")
)

type (
	// List represents a doubly linked list of opaque payloads.
	List[T any] struct {
		first  *Node[T]
		last   *Node[T]
		length int
	}

	// Node represents an element in the doubly linked list.
	Node[T any] struct {
		value T
		prev  *Node[T]
		next  *Node[T]
	}

	// DisposeFunc is handed the payload of a node about to be removed.
	// Returning true cancels the removal.
	DisposeFunc[T any] func(value T) (cancel bool)
)

// NewList creates a new list.
func NewList[T any]() *List[T] {
	return &List[T]{}
}

// Value returns the payload held by the node.
func (n *Node[T]) Value() T {
	return n.value
}

// Len returns the number of elements in the list.
func (l *List[T]) Len() int {
	return l.length
}

// First returns the first node, or nil if the list is empty.
func (l *List[T]) First() *Node[T] {
	return l.first
}

// Last returns the last node, or nil if the list is empty.
func (l *List[T]) Last() *Node[T] {
	return l.last
}

// Push appends value as the new last node.
func (l *List[T]) Push(value T) *Node[T] {
	n := &Node[T]{value: value}
	if l.length == 0 {
		l.first = n
		l.last = n
	} else {
		n.prev = l.last
		l.last.next = n
		l.last = n
	}
	l.length++
	return n
}

// Unshift prepends value as the new first node.
func (l *List[T]) Unshift(value T) *Node[T] {
	n := &Node[T]{value: value}
	if l.length == 0 {
		l.first = n
		l.last = n
	} else {
		n.next = l.first
		l.first.prev = n
		l.first = n
	}
	l.length++
	return n
}

// Pop removes the last node and returns its payload. The boolean is false
// when the list is empty.
func (l *List[T]) Pop() (T, bool) {
	if l.length == 0 {
		var zero T
		return zero, false
	}
	n := l.last
	if l.length == 1 {
		l.first = nil
		l.last = nil
	} else {
		l.last = n.prev
		l.last.next = nil
	}
	l.length--
	n.prev = nil
	return n.value, true
}

// Shift removes the first node and returns its payload. The boolean is false
// when the list is empty.
func (l *List[T]) Shift() (T, bool) {
	if l.length == 0 {
		var zero T
		return zero, false
	}
	n := l.first
	if l.length == 1 {
		l.first = nil
		l.last = nil
	} else {
		l.first = n.next
		l.first.prev = nil
	}
	l.length--
	n.next = nil
	return n.value, true
}

// Get returns the node at index.
func (l *List[T]) Get(index int) (*Node[T], error) {
	return l.node(index)
}

// Set overwrites the payload of the node at index. The previous payload is
// not disposed.
func (l *List[T]) Set(index int, value T) (*Node[T], error) {
	n, err := l.node(index)
	if err != nil {
		return nil, err
	}
	n.value = value
	return n, nil
}

// Insert splices value next to the node at index, after it when after is
// true and before it otherwise. The anchor must exist, so appending to the
// end goes through Push.
func (l *List[T]) Insert(index int, after bool, value T) (*Node[T], error) {
	anchor, err := l.node(index)
	if err != nil {
		return nil, err
	}

	n := &Node[T]{value: value}
	if after {
		n.prev = anchor
		n.next = anchor.next
		if anchor.next != nil {
			anchor.next.prev = n
		} else {
			l.last = n
		}
		anchor.next = n
	} else {
		n.next = anchor
		n.prev = anchor.prev
		if anchor.prev != nil {
			anchor.prev.next = n
		} else {
			l.first = n
		}
		anchor.prev = n
	}
	l.length++
	return n, nil
}

// Remove detaches the node at index. When dispose is non-nil it is called
// with the payload first; if it asks to cancel, ErrCancelled is returned and
// the list is left untouched.
func (l *List[T]) Remove(index int, dispose DisposeFunc[T]) error {
	n, err := l.node(index)
	if err != nil {
		return err
	}
	if dispose != nil && dispose(n.value) {
		return fmt.Errorf("%w at index %d", ErrCancelled, index)
	}

	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.first = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.last = n.prev
	}
	n.prev = nil
	n.next = nil
	l.length--
	return nil
}

// Values returns the payloads in order from first to last.
func (l *List[T]) Values() []T {
	values := make([]T, 0, l.length)
	for n := l.first; n != nil; n = n.next {
		values = append(values, n.value)
	}
	return values
}

// Clear removes all elements from the list.
func (l *List[T]) Clear() {
	l.first = nil
	l.last = nil
	l.length = 0
}

// node walks to index from whichever end is closer.
func (l *List[T]) node(index int) (*Node[T], error) {
	if index < 0 || index >= l.length {
		return nil, fmt.Errorf("%w: index %d, length %d", ErrOutOfRange, index, l.length)
	}
	if index < l.length/2 {
		n := l.first
		for ; index > 0; index-- {
			n = n.next
		}
		return n, nil
	}
	n := l.last
	for i := l.length - 1; i > index; i-- {
		n = n.prev
	}
	return n, nil
}
