// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package splaytree

import "github.com/cockroachdb/redact"

// Metrics holds operation counters for a Tree. The counters are cumulative
// since the tree was created; Clear does not reset them.
type Metrics struct {
	// Len is the number of keys in the tree when the snapshot was taken.
	Len int64
	// Hits and Misses count keyed lookups (Get, Contains, Entry, Insert and
	// Remove) by whether the key was present.
	Hits   int64
	Misses int64
	// Inserts counts keys added, Updates counts overwrites of existing keys
	// through Insert, and Removes counts keys deleted.
	Inserts int64
	Updates int64
	Removes int64
	// Rotations counts single rotations performed by splaying.
	Rotations int64
	// Splay counts splay steps by shape.
	Splay struct {
		Zig    int64
		ZigZig int64
		ZigZag int64
	}
}

// SafeFormat implements redact.SafeFormatter.
func (m Metrics) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("len: %d\n", redact.Safe(m.Len))
	w.Printf("lookups: %d hits, %d misses\n", redact.Safe(m.Hits), redact.Safe(m.Misses))
	w.Printf("writes: %d inserts, %d updates, %d removes\n",
		redact.Safe(m.Inserts), redact.Safe(m.Updates), redact.Safe(m.Removes))
	w.Printf("rotations: %d (zig %d, zig-zig %d, zig-zag %d)\n",
		redact.Safe(m.Rotations), redact.Safe(m.Splay.Zig), redact.Safe(m.Splay.ZigZig), redact.Safe(m.Splay.ZigZag))
}

// String implements fmt.Stringer.
func (m Metrics) String() string {
	return redact.StringWithoutMarkers(m)
}
