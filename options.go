// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package splaytree

import (
	"cmp"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/splaytree/internal/base"
)

// Logger defines an interface for writing log messages.
type Logger = base.Logger

// DefaultLogger logs to the Go stdlib logs.
type DefaultLogger = base.DefaultLogger

// Options holds the parameters for constructing a Tree.
type Options[K any] struct {
	// Compare defines a total order over keys. It returns -1, 0 or +1 when a
	// is less than, equal to or greater than b. Required.
	Compare func(a, b K) int

	// Logger is used to report fatal structural corruption detected in
	// invariants builds. The default is DefaultLogger.
	Logger Logger

	// VerifyPercent is the percentage of mutating operations after which the
	// whole tree is verified in invariants builds. Zero means the default of
	// 10; a negative value disables sampling. Ignored in other builds.
	VerifyPercent int
}

// EnsureDefaults ensures that the default values for all options are set if a
// valid value was not already specified. Returns the new options.
func (o *Options[K]) EnsureDefaults() *Options[K] {
	if o == nil {
		o = &Options[K]{}
	}
	if o.Logger == nil {
		o.Logger = DefaultLogger{}
	}
	if o.VerifyPercent == 0 {
		o.VerifyPercent = 10
	}
	return o
}

// Validate checks that the options are usable.
func (o *Options[K]) Validate() error {
	if o.Compare == nil {
		return errors.New("splaytree: Options.Compare must be set")
	}
	if o.VerifyPercent > 100 {
		return errors.Newf("splaytree: Options.VerifyPercent %d exceeds 100", o.VerifyPercent)
	}
	return nil
}

// orderedOptions returns the options for a key type with a natural order.
func orderedOptions[K cmp.Ordered]() Options[K] {
	return Options[K]{Compare: cmp.Compare[K]}
}
