// Copyright 2019 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package randvar provides random key generators for workloads.
package randvar

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Generator draws random values in a fixed range.
type Generator interface {
	Uint64() uint64
}

// NewRand creates a new random number generator with a random seed.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(0, rand.Uint64()))
}

func ensureRand(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return NewRand()
}

// Parse returns a generator over [min, max] for a distribution name of the
// form "uniform", "zipf" or "zipf:<theta>".
func Parse(rng *rand.Rand, dist string, min, max uint64) (Generator, error) {
	name, arg, hasArg := strings.Cut(dist, ":")
	switch name {
	case "uniform":
		if hasArg {
			return nil, errors.Errorf("uniform distribution takes no parameter: %q", dist)
		}
		return NewUniform(rng, min, max)
	case "zipf":
		theta := defaultTheta
		if hasArg {
			var err error
			if theta, err = strconv.ParseFloat(arg, 64); err != nil {
				return nil, errors.Wrapf(err, "parsing zipf theta %q", arg)
			}
		}
		return NewZipf(rng, min, max, theta)
	default:
		return nil, errors.Errorf("unknown distribution %q", dist)
	}
}
