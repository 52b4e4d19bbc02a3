// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package splaytree

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/splaytree/internal/arena"
)

// Verify checks the structural invariants of the tree:
//   - keys are in binary search tree order;
//   - every child's parent link points back at the node holding it;
//   - only the root lacks a parent;
//   - every stored node is reachable from the root exactly once;
//   - Len matches the number of reachable nodes.
//
// A non-nil error indicates a bug in this package, not a user error.
// Verify does not splay and runs in O(n) time.
func (t *Tree[K, V]) Verify() error {
	if t.root == arena.Nil {
		if t.length != 0 || t.nodes.Len() != 0 {
			return errors.AssertionFailedf("empty tree has length %d and %d stored nodes",
				errors.Safe(t.length), errors.Safe(t.nodes.Len()))
		}
		return nil
	}
	if p := t.node(t.root).parent; p != arena.Nil {
		return errors.AssertionFailedf("root %d has parent %d", errors.Safe(t.root), errors.Safe(p))
	}

	// Each frame carries the exclusive key bounds inherited from its
	// ancestors; Nil means unbounded.
	type frame struct {
		h      arena.Handle
		lo, hi arena.Handle
	}
	stored := t.nodes.Len()
	count := 0
	stack := []frame{{h: t.root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		if count > stored {
			return errors.AssertionFailedf("more reachable nodes than the %d stored; cycle suspected",
				errors.Safe(stored))
		}
		n := t.node(f.h)
		if f.lo != arena.Nil && t.opts.Compare(t.node(f.lo).key, n.key) >= 0 {
			return errors.AssertionFailedf("node %d: key %v not greater than ancestor key %v",
				errors.Safe(f.h), n.key, t.node(f.lo).key)
		}
		if f.hi != arena.Nil && t.opts.Compare(n.key, t.node(f.hi).key) >= 0 {
			return errors.AssertionFailedf("node %d: key %v not less than ancestor key %v",
				errors.Safe(f.h), n.key, t.node(f.hi).key)
		}
		for _, c := range [2]arena.Handle{n.left, n.right} {
			if c == arena.Nil {
				continue
			}
			if p := t.node(c).parent; p != f.h {
				return errors.AssertionFailedf("node %d: parent link is %d, expected %d",
					errors.Safe(c), errors.Safe(p), errors.Safe(f.h))
			}
		}
		if n.left != arena.Nil {
			stack = append(stack, frame{h: n.left, lo: f.lo, hi: f.h})
		}
		if n.right != arena.Nil {
			stack = append(stack, frame{h: n.right, lo: f.h, hi: f.hi})
		}
	}
	if count != t.length {
		return errors.AssertionFailedf("length %d but %d reachable nodes",
			errors.Safe(t.length), errors.Safe(count))
	}
	if count != stored {
		return errors.AssertionFailedf("%d stored nodes but only %d reachable",
			errors.Safe(stored), errors.Safe(count))
	}
	return nil
}
