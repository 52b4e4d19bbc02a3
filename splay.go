// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package splaytree

import "github.com/cockroachdb/splaytree/internal/arena"

// splayStep is the shape of a single splay step, determined by the side of
// the node and the side of its parent.
type splayStep int8

const (
	// zig: the parent is the root.
	zig splayStep = iota
	// zigZig: the node and its parent are children on the same side.
	zigZig
	// zigZag: the node and its parent are children on opposite sides.
	zigZag
)

func (s splayStep) String() string {
	switch s {
	case zig:
		return "zig"
	case zigZig:
		return "zig-zig"
	case zigZag:
		return "zig-zag"
	}
	return "unknown"
}

func (t *Tree[K, V]) isLeft(h arena.Handle) bool {
	p := t.node(h).parent
	return p != arena.Nil && t.node(p).left == h
}

func (t *Tree[K, V]) isRight(h arena.Handle) bool {
	p := t.node(h).parent
	return p != arena.Nil && t.node(p).right == h
}

// replaceChild points the slot of parent that referenced old at repl. A Nil
// parent means old was the root of its (sub)tree and there is no slot to fix.
func (t *Tree[K, V]) replaceChild(parent, old, repl arena.Handle) {
	if parent == arena.Nil {
		return
	}
	if p := t.node(parent); p.left == old {
		p.left = repl
	} else {
		p.right = repl
	}
}

// rotateLeft promotes the right child of h into h's position. h becomes the
// left child of the promoted node and takes over its former left subtree as
// its right subtree:
//
//	   h              r
//	  / \            / \
//	 a   r    ->    h   c
//	    / \        / \
//	   b   c      a   b
//
// No-op if h has no right child. The caller is responsible for the tree's
// root slot.
func (t *Tree[K, V]) rotateLeft(h arena.Handle) {
	n := t.node(h)
	rh := n.right
	if rh == arena.Nil {
		return
	}
	r := t.node(rh)

	n.right = r.left
	if r.left != arena.Nil {
		t.node(r.left).parent = h
	}
	r.parent = n.parent
	t.replaceChild(n.parent, h, rh)
	r.left = h
	n.parent = rh

	t.version++
	t.metrics.Rotations++
}

// rotateRight is the mirror image of rotateLeft:
//
//	     h          l
//	    / \        / \
//	   l   c  ->  a   h
//	  / \            / \
//	 a   b          b   c
//
// No-op if h has no left child.
func (t *Tree[K, V]) rotateRight(h arena.Handle) {
	n := t.node(h)
	lh := n.left
	if lh == arena.Nil {
		return
	}
	l := t.node(lh)

	n.left = l.right
	if l.right != arena.Nil {
		t.node(l.right).parent = h
	}
	l.parent = n.parent
	t.replaceChild(n.parent, h, lh)
	l.right = h
	n.parent = lh

	t.version++
	t.metrics.Rotations++
}

// splayKind classifies the next splay step for h. Returns false if h has no
// parent.
func (t *Tree[K, V]) splayKind(h arena.Handle) (splayStep, bool) {
	p := t.node(h).parent
	if p == arena.Nil {
		return 0, false
	}
	if t.node(p).parent == arena.Nil {
		return zig, true
	}
	if t.isLeft(h) == t.isLeft(p) {
		return zigZig, true
	}
	return zigZag, true
}

// splay rotates h up until it has no parent and returns it. The step is
// reclassified after every rotation since h's ancestors change.
func (t *Tree[K, V]) splay(h arena.Handle) arena.Handle {
	for {
		kind, ok := t.splayKind(h)
		if !ok {
			return h
		}
		p := t.node(h).parent
		left := t.isLeft(h)
		switch kind {
		case zig:
			if left {
				t.rotateRight(p)
			} else {
				t.rotateLeft(p)
			}
			t.metrics.Splay.Zig++

		case zigZig:
			g := t.node(p).parent
			if left {
				t.rotateRight(g)
				t.rotateRight(p)
			} else {
				t.rotateLeft(g)
				t.rotateLeft(p)
			}
			t.metrics.Splay.ZigZig++

		case zigZag:
			if left {
				t.rotateRight(p)
			} else {
				t.rotateLeft(p)
			}
			// h now sits where p was, below the former grandparent.
			g := t.node(h).parent
			if left {
				t.rotateLeft(g)
			} else {
				t.rotateRight(g)
			}
			t.metrics.Splay.ZigZag++
		}
	}
}

// minNode returns the leftmost node of the subtree rooted at h.
func (t *Tree[K, V]) minNode(h arena.Handle) arena.Handle {
	for {
		l := t.node(h).left
		if l == arena.Nil {
			return h
		}
		h = l
	}
}

// maxNode returns the rightmost node of the subtree rooted at h.
func (t *Tree[K, V]) maxNode(h arena.Handle) arena.Handle {
	for {
		r := t.node(h).right
		if r == arena.Nil {
			return h
		}
		h = r
	}
}

// merge joins two detached subtrees where every key in l is less than every
// key in r. The maximum of l is splayed to the root of l, which leaves its
// right slot empty, and r is attached there. Returns the new subtree root.
func (t *Tree[K, V]) merge(l, r arena.Handle) arena.Handle {
	m := t.splay(t.maxNode(l))
	t.node(m).right = r
	t.node(r).parent = m
	return m
}
