// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ordmap provides an add-only generic map that remembers the
// order in which keys were first added. Keys are never removed, so the
// position of a key is a stable handle for it.
package ordmap

// Map is an insertion ordered map. The zero value is an empty map.
type Map[K comparable, V any] struct {
	keys  []K
	vals  []V
	index map[K]int
}

// Index returns the position of key, and false if it is not present.
func (om *Map[K, V]) Index(key K) (int, bool) {
	idx, ok := om.index[key]
	return idx, ok
}

// AddIfNew adds val for key at the end unless key is already present,
// in which case the map is unchanged. It returns the position of key
// and whether val was added.
func (om *Map[K, V]) AddIfNew(key K, val V) (int, bool) {
	if idx, ok := om.index[key]; ok {
		return idx, false
	}
	if om.index == nil {
		om.index = make(map[K]int)
	}
	idx := len(om.keys)
	om.index[key] = idx
	om.keys = append(om.keys, key)
	om.vals = append(om.vals, val)
	return idx, true
}

// KeyByIndex returns the key at position idx.
func (om *Map[K, V]) KeyByIndex(idx int) K {
	return om.keys[idx]
}

// ValueByIndex returns the value at position idx.
func (om *Map[K, V]) ValueByIndex(idx int) V {
	return om.vals[idx]
}

// Len returns the number of keys; it is 0 for a nil map.
func (om *Map[K, V]) Len() int {
	if om == nil {
		return 0
	}
	return len(om.keys)
}

// Values returns a copy of the values in order.
func (om *Map[K, V]) Values() []V {
	if om == nil {
		return nil
	}
	return append([]V(nil), om.vals...)
}
