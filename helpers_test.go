// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package splaytree

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/cockroachdb/splaytree/internal/arena"
	"github.com/cockroachdb/splaytree/internal/treeshape"
	"github.com/stretchr/testify/require"
)

func valueFor(key int) string {
	return fmt.Sprintf("v%d", key)
}

// buildTree constructs a tree with exactly the given shape, bypassing
// insertion (and therefore splaying). Every value is valueFor(key).
func buildTree(t testing.TB, input string) *Tree[int, string] {
	t.Helper()
	s, err := treeshape.Parse(input)
	require.NoError(t, err)

	tr := NewOrdered[int, string]()
	var build func(s *treeshape.Shape, parent arena.Handle) arena.Handle
	build = func(s *treeshape.Shape, parent arena.Handle) arena.Handle {
		key, err := strconv.Atoi(s.Key)
		require.NoError(t, err)
		h, n := tr.nodes.Alloc()
		n.key = key
		n.value = valueFor(key)
		n.parent = parent
		tr.length++
		if s.Left != nil {
			l := build(s.Left, h)
			tr.node(h).left = l
		}
		if s.Right != nil {
			r := build(s.Right, h)
			tr.node(h).right = r
		}
		return h
	}
	tr.root = build(s, arena.Nil)
	require.NoError(t, tr.Verify())
	return tr
}

// shapeOf returns the shape of the tree, or nil if it is empty.
func shapeOf[K, V any](tr *Tree[K, V]) *treeshape.Shape {
	var shape func(h arena.Handle) *treeshape.Shape
	shape = func(h arena.Handle) *treeshape.Shape {
		if h == arena.Nil {
			return nil
		}
		n := tr.node(h)
		return &treeshape.Shape{
			Key:   fmt.Sprint(n.key),
			Left:  shape(n.left),
			Right: shape(n.right),
		}
	}
	return shape(tr.root)
}

func formatTree[K, V any](tr *Tree[K, V]) string {
	s := shapeOf(tr)
	if s == nil {
		return "<empty>\n"
	}
	return s.String()
}

// lookup returns the handle holding key without splaying.
func lookup(t testing.TB, tr *Tree[int, string], key int) arena.Handle {
	t.Helper()
	h := tr.root
	for h != arena.Nil {
		n := tr.node(h)
		switch {
		case key < n.key:
			h = n.left
		case key > n.key:
			h = n.right
		default:
			return h
		}
	}
	t.Fatalf("key %d not found", key)
	return arena.Nil
}

// climbRoot resets the root slot after a rotation that may have displaced it.
func climbRoot[K, V any](tr *Tree[K, V]) {
	for {
		p := tr.node(tr.root).parent
		if p == arena.Nil {
			return
		}
		tr.root = p
	}
}

// preorder returns the keys of the tree in pre-order.
func preorder[K, V any](tr *Tree[K, V]) []K {
	var keys []K
	var walk func(h arena.Handle)
	walk = func(h arena.Handle) {
		if h == arena.Nil {
			return
		}
		n := tr.node(h)
		keys = append(keys, n.key)
		walk(n.left)
		walk(n.right)
	}
	walk(tr.root)
	return keys
}
