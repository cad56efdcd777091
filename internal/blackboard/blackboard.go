// Package blackboard provides the per-agent key/value store shared by all
// behavior tree nodes during a tick.
//
// Keys are typed: a Key[T] carries the name used for storage and the Go type
// of the value stored under it. Entries are added once during setup and then
// mutated every tick with Change. Reads of a missing key, or of a key whose
// stored value has a different type, report not found.
//
// The blackboard stores copies of value types and plain references to
// externally owned objects (inventory, search generators, host services); it
// never owns those.
//
// A Blackboard is not safe for concurrent use. Each agent owns exactly one
// and evaluates its tree on a single goroutine.
package blackboard

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrKeyExists is returned by Add when the key is already present.
	ErrKeyExists = errors.New("blackboard: key already exists")
	// ErrKeyNotFound is returned by Change when the key is absent.
	ErrKeyNotFound = errors.New("blackboard: key not found")
	// ErrTypeMismatch is returned by Change when the stored value is of a
	// different type than the key.
	ErrTypeMismatch = errors.New("blackboard: type mismatch")
)

// Key identifies a blackboard entry holding a value of type T.
type Key[T any] struct {
	name string
}

// NewKey declares a typed key.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

// Name returns the storage name of the key.
func (k Key[T]) Name() string {
	return k.name
}

func (k Key[T]) String() string {
	var zero T
	return fmt.Sprintf("%s(%T)", k.name, zero)
}

// Blackboard is a string keyed store of type-erased values.
//
// Usage: Create with new(Blackboard). The internal map is lazily initialized
// on the first Add.
type Blackboard struct {
	data map[string]any
}

func (b *Blackboard) init() {
	if b.data == nil {
		b.data = make(map[string]any)
	}
}

// Add stores the initial value for a key. It fails if the key exists.
func Add[T any](b *Blackboard, key Key[T], value T) error {
	b.init()
	if _, ok := b.data[key.name]; ok {
		return fmt.Errorf("%w: %s", ErrKeyExists, key.name)
	}
	b.data[key.name] = value
	return nil
}

// Get returns the value stored under key. found is false if the key is
// missing or holds a value of another type.
func Get[T any](b *Blackboard, key Key[T]) (value T, found bool) {
	if b == nil || b.data == nil {
		return value, false
	}
	raw, ok := b.data[key.name]
	if !ok {
		return value, false
	}
	value, found = raw.(T)
	return value, found
}

// Change replaces the value of an existing key.
func Change[T any](b *Blackboard, key Key[T], value T) error {
	if b.data == nil {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, key.name)
	}
	raw, ok := b.data[key.name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, key.name)
	}
	// nil interface values (e.g. an unset service reference) may be replaced
	// by any value of the key's type.
	if raw != nil {
		if _, ok := raw.(T); !ok {
			return fmt.Errorf("%w: %s holds %T", ErrTypeMismatch, key.name, raw)
		}
	}
	b.data[key.name] = value
	return nil
}

// Has returns true if the key exists in the blackboard.
func (b *Blackboard) Has(name string) bool {
	if b.data == nil {
		return false
	}
	_, ok := b.data[name]
	return ok
}

// Keys returns all keys in the blackboard, sorted.
func (b *Blackboard) Keys() []string {
	if b.data == nil {
		return nil
	}
	keys := make([]string, 0, len(b.data))
	for k := range b.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of keys in the blackboard.
func (b *Blackboard) Len() int {
	return len(b.data)
}

// Snapshot returns a shallow copy of the blackboard data, for debugging.
//
// WARNING: This is a SHALLOW copy. Slices and pointers in the snapshot alias
// the blackboard's values.
func (b *Blackboard) Snapshot() map[string]any {
	if b.data == nil {
		return nil
	}
	result := make(map[string]any, len(b.data))
	for k, v := range b.data {
		result[k] = v
	}
	return result
}
