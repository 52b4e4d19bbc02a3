// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package arena implements typed slot storage addressed by integer handles.
//
// Slots are allocated in fixed-size chunks, so the address of a slot never
// changes while it is allocated, and released slots are recycled through a
// free list. Releasing every slot at once (Reset) is O(chunks) and does not
// walk whatever linked structure the slots form.
package arena

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/splaytree/internal/invariants"
)

// Handle identifies a slot in an Arena. The zero Handle is Nil and is never
// returned by Alloc.
type Handle uint32

// Nil is the handle that refers to no slot.
const Nil Handle = 0

const (
	chunkShift = 8
	chunkSize  = 1 << chunkShift
	chunkMask  = chunkSize - 1
)

// ErrArenaFull is the panic value used when every representable handle is
// in use.
var ErrArenaFull = errors.New("allocation failed because arena is full")

// Arena stores values of type T. The zero value is ready to use.
//
// An Arena is not safe for concurrent use.
type Arena[T any] struct {
	chunks []*[chunkSize]T
	// next is the next handle that has never been handed out. Handle 0 is
	// reserved as Nil, so next starts at 1.
	next uint32
	free []Handle
	live int
	// freed holds the handles currently on the free list. Only maintained in
	// invariants builds.
	freed map[Handle]struct{}
}

// Alloc returns a handle to a zeroed slot along with a pointer to it.
func (a *Arena[T]) Alloc() (Handle, *T) {
	var h Handle
	if n := len(a.free); n > 0 {
		h = a.free[n-1]
		a.free = a.free[:n-1]
		if invariants.Enabled {
			delete(a.freed, h)
		}
	} else {
		if a.next == 0 {
			a.next = 1
		}
		if a.next == math.MaxUint32 {
			panic(ErrArenaFull)
		}
		h = Handle(a.next)
		a.next++
		if int(h>>chunkShift) == len(a.chunks) {
			a.chunks = append(a.chunks, new([chunkSize]T))
		}
	}
	a.live++
	return h, a.slot(h)
}

// Get returns a pointer to the slot for h. The pointer remains valid until h
// is freed or the arena is reset.
func (a *Arena[T]) Get(h Handle) *T {
	if invariants.Enabled {
		a.checkLive(h)
	}
	return a.slot(h)
}

// Free zeroes the slot for h and makes it available to a later Alloc.
func (a *Arena[T]) Free(h Handle) {
	if invariants.Enabled {
		a.checkLive(h)
		if a.freed == nil {
			a.freed = make(map[Handle]struct{})
		}
		a.freed[h] = struct{}{}
	}
	var zero T
	*a.slot(h) = zero
	a.free = append(a.free, h)
	a.live = invariants.SafeSub(a.live, 1)
}

// Len returns the number of allocated slots.
func (a *Arena[T]) Len() int {
	return a.live
}

// Cap returns the number of slots the arena can hand out without growing.
func (a *Arena[T]) Cap() int {
	if len(a.chunks) == 0 {
		return 0
	}
	// Slot 0 of the first chunk backs Nil.
	return len(a.chunks)*chunkSize - 1
}

// Reset releases every slot. All outstanding handles become invalid.
func (a *Arena[T]) Reset() {
	*a = Arena[T]{}
}

func (a *Arena[T]) slot(h Handle) *T {
	return &a.chunks[h>>chunkShift][h&chunkMask]
}

func (a *Arena[T]) checkLive(h Handle) {
	if h == Nil || uint32(h) >= a.next {
		panic(errors.AssertionFailedf("arena: invalid handle %d", h))
	}
	if _, ok := a.freed[h]; ok {
		panic(errors.AssertionFailedf("arena: use of freed handle %d", h))
	}
}
