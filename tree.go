// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package splaytree implements an ordered key/value container backed by a
// splay tree. Every successful lookup, every insertion and every removal
// rotates the accessed node to the root, which gives amortized O(log n)
// operations and keeps recently used keys close to the top.
//
// Lookups restructure the tree, so even read-only calls such as Get mutate it.
// A Tree is not safe for concurrent use; callers that share a Tree must
// serialize every call, reads included, behind a single lock.
package splaytree

import (
	"cmp"
	"iter"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/splaytree/internal/arena"
	"github.com/cockroachdb/splaytree/internal/invariants"
)

// Tree is a splay tree mapping keys of type K to values of type V. Keys are
// unique; inserting an existing key overwrites its value.
type Tree[K, V any] struct {
	opts   Options[K]
	nodes  arena.Arena[node[K, V]]
	root   arena.Handle
	length int
	// version is bumped on every structural change. Entries and iterators
	// use it to detect that the tree changed underneath them.
	version uint64
	metrics Metrics
}

// New returns an empty tree using the given options. It panics if the
// options are invalid.
func New[K, V any](opts Options[K]) *Tree[K, V] {
	if err := opts.Validate(); err != nil {
		panic(err)
	}
	t := &Tree[K, V]{}
	t.opts = *opts.EnsureDefaults()
	return t
}

// NewOrdered returns an empty tree for a key type with a natural order.
func NewOrdered[K cmp.Ordered, V any]() *Tree[K, V] {
	return New[K, V](orderedOptions[K]())
}

func (t *Tree[K, V]) node(h arena.Handle) *node[K, V] {
	return t.nodes.Get(h)
}

func (t *Tree[K, V]) wrap(h arena.Handle) (Node[K, V], bool) {
	if h == arena.Nil {
		return Node[K, V]{}, false
	}
	return Node[K, V]{t: t, h: h}, true
}

// Len returns the number of keys in the tree.
func (t *Tree[K, V]) Len() int {
	return t.length
}

// IsEmpty returns true if the tree holds no keys.
func (t *Tree[K, V]) IsEmpty() bool {
	return t.root == arena.Nil
}

// Root returns the root node without restructuring the tree.
func (t *Tree[K, V]) Root() (Node[K, V], bool) {
	return t.wrap(t.root)
}

// find walks from the root towards key. If the key is present, its node is
// splayed to the root and returned with c == 0. Otherwise the last node
// visited is returned, unsplayed, along with the result of the final
// comparison, which tells on which side of it key belongs. An empty tree
// yields Nil.
func (t *Tree[K, V]) find(key K) (h arena.Handle, c int) {
	h = t.root
	if h == arena.Nil {
		t.metrics.Misses++
		return arena.Nil, 0
	}
	for {
		n := t.node(h)
		c = t.opts.Compare(key, n.key)
		var next arena.Handle
		switch {
		case c < 0:
			next = n.left
		case c > 0:
			next = n.right
		default:
			t.root = t.splay(h)
			t.metrics.Hits++
			return h, 0
		}
		if next == arena.Nil {
			t.metrics.Misses++
			return h, c
		}
		h = next
	}
}

// Get returns the node holding key and splays it to the root.
func (t *Tree[K, V]) Get(key K) (Node[K, V], bool) {
	h, c := t.find(key)
	if h == arena.Nil || c != 0 {
		return Node[K, V]{}, false
	}
	return t.wrap(h)
}

// Contains returns true if the tree holds key. Like Get, a hit splays.
func (t *Tree[K, V]) Contains(key K) bool {
	_, ok := t.Get(key)
	return ok
}

// GetMin returns the node with the smallest key and splays it to the root.
func (t *Tree[K, V]) GetMin() (Node[K, V], bool) {
	if t.root == arena.Nil {
		return Node[K, V]{}, false
	}
	t.root = t.splay(t.minNode(t.root))
	t.maybeVerify()
	return t.wrap(t.root)
}

// GetMax returns the node with the largest key and splays it to the root.
func (t *Tree[K, V]) GetMax() (Node[K, V], bool) {
	if t.root == arena.Nil {
		return Node[K, V]{}, false
	}
	t.root = t.splay(t.maxNode(t.root))
	t.maybeVerify()
	return t.wrap(t.root)
}

// Insert sets the value for key, adding the key if it is absent. The node
// ends up at the root either way.
func (t *Tree[K, V]) Insert(key K, value V) Node[K, V] {
	return t.Entry(key).Insert(value)
}

// insertChild allocates a node for key and links it below parent on the side
// given by c, then splays it. A Nil parent is only valid for an empty tree,
// in which case the node becomes the root directly.
func (t *Tree[K, V]) insertChild(parent arena.Handle, c int, key K, value V) arena.Handle {
	h, n := t.nodes.Alloc()
	n.key = key
	n.value = value
	t.length++
	t.version++
	t.metrics.Inserts++

	if parent == arena.Nil {
		if invariants.Enabled && t.root != arena.Nil {
			panic(errors.AssertionFailedf("splaytree: root insertion into a non-empty tree"))
		}
		t.root = h
		t.maybeVerify()
		return h
	}

	n.parent = parent
	p := t.node(parent)
	if c < 0 {
		if invariants.Enabled && p.left != arena.Nil {
			panic(errors.AssertionFailedf("splaytree: left slot of insertion parent is occupied"))
		}
		p.left = h
	} else {
		if invariants.Enabled && p.right != arena.Nil {
			panic(errors.AssertionFailedf("splaytree: right slot of insertion parent is occupied"))
		}
		p.right = h
	}
	t.root = t.splay(h)
	t.maybeVerify()
	return h
}

// Remove deletes key from the tree and returns its key/value pair. Handles
// to the removed node become invalid.
func (t *Tree[K, V]) Remove(key K) (Removed[K, V], bool) {
	h, c := t.find(key)
	if h == arena.Nil || c != 0 {
		return Removed[K, V]{}, false
	}
	// h is now the root.
	n := t.node(h)
	l, r := n.left, n.right
	if l != arena.Nil {
		t.node(l).parent = arena.Nil
	}
	if r != arena.Nil {
		t.node(r).parent = arena.Nil
	}
	switch {
	case l != arena.Nil && r != arena.Nil:
		t.root = t.merge(l, r)
	case l != arena.Nil:
		t.root = l
	default:
		t.root = r
	}

	removed := Removed[K, V]{Key: n.key, Value: n.value}
	t.nodes.Free(h)
	t.length = invariants.SafeSub(t.length, 1)
	t.version++
	t.metrics.Removes++
	t.maybeVerify()
	return removed, true
}

// Clear removes every key. Storage is released wholesale rather than node by
// node, so the cost does not depend on the shape of the tree.
func (t *Tree[K, V]) Clear() {
	t.nodes.Reset()
	t.root = arena.Nil
	t.length = 0
	t.version++
}

// All returns an iterator over the key/value pairs in ascending key order.
// Iterating does not splay. The tree must not be modified during iteration,
// and that includes lookups.
func (t *Tree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if t.root == arena.Nil {
			return
		}
		version := t.version
		for h := t.minNode(t.root); h != arena.Nil; h = t.successor(h) {
			n := t.node(h)
			if !yield(n.key, n.value) {
				return
			}
			if t.version != version {
				panic(errors.AssertionFailedf("splaytree: tree modified during iteration"))
			}
		}
	}
}

// successor returns the in-order successor of h, climbing through parent
// links instead of recursing.
func (t *Tree[K, V]) successor(h arena.Handle) arena.Handle {
	if r := t.node(h).right; r != arena.Nil {
		return t.minNode(r)
	}
	for {
		p := t.node(h).parent
		if p == arena.Nil || t.node(p).left == h {
			return p
		}
		h = p
	}
}

// Depth returns the number of nodes on the longest root-to-leaf path.
func (t *Tree[K, V]) Depth() int {
	if t.root == arena.Nil {
		return 0
	}
	type frame struct {
		h     arena.Handle
		depth int
	}
	maxDepth := 0
	stack := []frame{{h: t.root, depth: 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		maxDepth = max(maxDepth, f.depth)
		n := t.node(f.h)
		if n.left != arena.Nil {
			stack = append(stack, frame{h: n.left, depth: f.depth + 1})
		}
		if n.right != arena.Nil {
			stack = append(stack, frame{h: n.right, depth: f.depth + 1})
		}
	}
	return maxDepth
}

// Metrics returns a snapshot of the tree's operation counters.
func (t *Tree[K, V]) Metrics() Metrics {
	m := t.metrics
	m.Len = int64(t.length)
	return m
}

// maybeVerify checks the full structure of the tree after a sample of
// mutations in invariants builds.
func (t *Tree[K, V]) maybeVerify() {
	if invariants.Enabled && t.opts.VerifyPercent > 0 && invariants.Sometimes(t.opts.VerifyPercent) {
		if err := t.Verify(); err != nil {
			t.opts.Logger.Fatalf("%+v", err)
		}
	}
}
