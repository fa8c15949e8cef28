package commodore

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// StringCommandMap holds commands in a hash table keyed by name and keeps
// key insertion order, so hosts observe commands in declaration order.
type StringCommandMap struct{ m *linkedhashmap.Map }

// NewStringCommandMap returns a new StringCommandMap.
func NewStringCommandMap() *StringCommandMap { return &StringCommandMap{m: linkedhashmap.New()} }

// Put inserts a key-value pair into the map.
func (m *StringCommandMap) Put(key string, value *Command) { m.m.Put(key, value) }

// Get returns the command stored under key.
func (m *StringCommandMap) Get(key string) (*Command, bool) {
	v, found := m.m.Get(key)
	if !found {
		return nil, false
	}
	return v.(*Command), true
}

// Remove removes the element stored under key.
func (m *StringCommandMap) Remove(key string) { m.m.Remove(key) }

// Size returns the number of elements in the map.
func (m *StringCommandMap) Size() int { return m.m.Size() }

// Empty returns true if the map does not contain any elements.
func (m *StringCommandMap) Empty() bool { return m.m.Empty() }

// Keys returns all keys in insertion order.
func (m *StringCommandMap) Keys() []string {
	keys := m.m.Keys()
	a := make([]string, len(keys))
	for i, k := range keys {
		a[i] = k.(string)
	}
	return a
}

// Values returns all values in key insertion order.
func (m *StringCommandMap) Values() []*Command {
	values := m.m.Values()
	a := make([]*Command, len(values))
	for i, v := range values {
		a[i] = v.(*Command)
	}
	return a
}

// Range calls f once for each element until f returns false.
func (m *StringCommandMap) Range(f func(key string, value *Command) bool) {
	it := m.m.Iterator()
	for it.Next() {
		if !f(it.Key().(string), it.Value().(*Command)) {
			return
		}
	}
}

// StringFlagMap holds command flags keyed by long name and keeps key
// insertion order; flag name suggestions follow declaration order.
type StringFlagMap struct{ m *linkedhashmap.Map }

// NewStringFlagMap returns a new StringFlagMap.
func NewStringFlagMap() *StringFlagMap { return &StringFlagMap{m: linkedhashmap.New()} }

// Put inserts a key-value pair into the map.
func (m *StringFlagMap) Put(key string, value *CommandFlag) { m.m.Put(key, value) }

// Get returns the flag stored under key.
func (m *StringFlagMap) Get(key string) (*CommandFlag, bool) {
	v, found := m.m.Get(key)
	if !found {
		return nil, false
	}
	return v.(*CommandFlag), true
}

// Remove removes the element stored under key.
func (m *StringFlagMap) Remove(key string) { m.m.Remove(key) }

// Size returns the number of elements in the map.
func (m *StringFlagMap) Size() int { return m.m.Size() }

// Empty returns true if the map does not contain any elements.
func (m *StringFlagMap) Empty() bool { return m.m.Empty() }

// Values returns all values in key insertion order.
func (m *StringFlagMap) Values() []*CommandFlag {
	values := m.m.Values()
	a := make([]*CommandFlag, len(values))
	for i, v := range values {
		a[i] = v.(*CommandFlag)
	}
	return a
}
