// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package splaytree

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/splaytree/internal/arena"
)

type entryKind int8

const (
	// occupied: the key is present; h is its node, already splayed.
	occupied entryKind = iota
	// vacantAtRoot: the tree is empty.
	vacantAtRoot
	// vacantAtParent: the key is absent; h is the node it would hang from.
	vacantAtParent
)

// Entry is the result of looking up a key for in-place manipulation. It
// remembers where the lookup ended so that resolving it never walks the tree
// again. An Entry must be resolved before the tree is used for anything else;
// resolving a stale Entry panics.
type Entry[K, V any] struct {
	t    *Tree[K, V]
	kind entryKind
	h    arena.Handle
	// c is the final comparison of the lookup; it selects the child slot of h
	// for a vacantAtParent entry.
	c       int
	key     K
	version uint64
}

// Entry looks up key and returns an Entry for it. If the key is present its
// node is splayed to the root.
func (t *Tree[K, V]) Entry(key K) Entry[K, V] {
	h, c := t.find(key)
	e := Entry[K, V]{t: t, h: h, c: c, key: key, version: t.version}
	switch {
	case h == arena.Nil:
		e.kind = vacantAtRoot
	case c == 0:
		e.kind = occupied
	default:
		e.kind = vacantAtParent
	}
	return e
}

// Occupied returns true if the key was found.
func (e Entry[K, V]) Occupied() bool {
	return e.kind == occupied
}

// Key returns the entry's key.
func (e Entry[K, V]) Key() K {
	if e.kind == occupied {
		e.checkVersion()
		return e.t.node(e.h).key
	}
	return e.key
}

// OrInsert returns the existing node, or inserts value if the key is absent.
func (e Entry[K, V]) OrInsert(value V) Node[K, V] {
	if e.kind == occupied {
		return e.node()
	}
	return e.insert(value)
}

// OrInsertWith is like OrInsert but only calls fn if the key is absent.
func (e Entry[K, V]) OrInsertWith(fn func() V) Node[K, V] {
	if e.kind == occupied {
		return e.node()
	}
	return e.insert(fn())
}

// OrInsertWithKey is like OrInsertWith but passes the key to fn.
func (e Entry[K, V]) OrInsertWithKey(fn func(key K) V) Node[K, V] {
	if e.kind == occupied {
		return e.node()
	}
	return e.insert(fn(e.key))
}

// OrDefault returns the existing node, or inserts the zero value of V if the
// key is absent.
func (e Entry[K, V]) OrDefault() Node[K, V] {
	var zero V
	return e.OrInsert(zero)
}

// AndModify calls fn on the value if the key is present and returns the
// entry unchanged for further chaining. Nothing is inserted.
func (e Entry[K, V]) AndModify(fn func(value *V)) Entry[K, V] {
	if e.kind == occupied {
		fn(&e.node().node().value)
	}
	return e
}

// Insert sets the value for the entry's key, inserting it if absent.
func (e Entry[K, V]) Insert(value V) Node[K, V] {
	if e.kind == occupied {
		n := e.node()
		n.node().value = value
		e.t.metrics.Updates++
		return n
	}
	return e.insert(value)
}

func (e Entry[K, V]) node() Node[K, V] {
	e.checkVersion()
	return Node[K, V]{t: e.t, h: e.h}
}

func (e Entry[K, V]) insert(value V) Node[K, V] {
	e.checkVersion()
	parent := e.h
	if e.kind == vacantAtRoot {
		parent = arena.Nil
	}
	h := e.t.insertChild(parent, e.c, e.key, value)
	return Node[K, V]{t: e.t, h: h}
}

func (e Entry[K, V]) checkVersion() {
	if e.version != e.t.version {
		panic(errors.AssertionFailedf("splaytree: entry used after the tree was modified"))
	}
}
