// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package splaytree

import (
	"github.com/cockroachdb/redact"
	"github.com/cockroachdb/splaytree/internal/arena"
)

// node is the storage for a single key. The left and right slots own their
// subtrees; parent is a back-reference used for O(1) upward traversal and is
// Nil only for the root of a (sub)tree.
type node[K, V any] struct {
	key    K
	value  V
	left   arena.Handle
	right  arena.Handle
	parent arena.Handle
}

// Node is a handle to a key/value pair stored in a Tree. A Node stays valid
// until its key is removed or the tree is cleared; it follows the pair as the
// tree is restructured. The zero Node refers to nothing and must not be used.
type Node[K, V any] struct {
	t *Tree[K, V]
	h arena.Handle
}

func (n Node[K, V]) node() *node[K, V] {
	return n.t.node(n.h)
}

func (n Node[K, V]) wrap(h arena.Handle) (Node[K, V], bool) {
	return n.t.wrap(h)
}

// Key returns the node's key.
func (n Node[K, V]) Key() K {
	return n.node().key
}

// Value returns the node's value.
func (n Node[K, V]) Value() V {
	return n.node().value
}

// ValuePtr returns a pointer to the node's value for in-place mutation. The
// pointer is valid as long as the node is.
func (n Node[K, V]) ValuePtr() *V {
	return &n.node().value
}

// SetValue replaces the node's value.
func (n Node[K, V]) SetValue(v V) {
	n.node().value = v
}

// Parent returns the node's parent, or false if the node is the root.
func (n Node[K, V]) Parent() (Node[K, V], bool) {
	return n.wrap(n.node().parent)
}

// Left returns the node's left child, if any.
func (n Node[K, V]) Left() (Node[K, V], bool) {
	return n.wrap(n.node().left)
}

// Right returns the node's right child, if any.
func (n Node[K, V]) Right() (Node[K, V], bool) {
	return n.wrap(n.node().right)
}

// IsRoot returns true if the node has no parent.
func (n Node[K, V]) IsRoot() bool {
	return n.node().parent == arena.Nil
}

// IsLeft returns true if the node is the left child of its parent.
func (n Node[K, V]) IsLeft() bool {
	return n.t.isLeft(n.h)
}

// IsRight returns true if the node is the right child of its parent.
func (n Node[K, V]) IsRight() bool {
	return n.t.isRight(n.h)
}

// SafeFormat implements redact.SafeFormatter. Keys and values are user data
// and are redactable.
func (n Node[K, V]) SafeFormat(w redact.SafePrinter, _ rune) {
	nd := n.node()
	w.Printf("%v: %v", nd.key, nd.value)
}

// String implements fmt.Stringer.
func (n Node[K, V]) String() string {
	return redact.StringWithoutMarkers(n)
}

// Removed is a key/value pair detached from a Tree by Remove. It no longer
// has any links and belongs to the caller.
type Removed[K, V any] struct {
	Key   K
	Value V
}
