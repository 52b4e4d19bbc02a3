// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runShape(&buf, []string{"+10", "+5", "+12", "+3", "+6", "?5", "?7"}, false))
	require.Equal(t, `5
  L 3
  R 6
    R 12
      L 10
depth: 4
len: 5
lookups: 1 hits, 6 misses
writes: 5 inserts, 0 updates, 0 removes
rotations: 12 (zig 2, zig-zig 2, zig-zag 3)
`, buf.String())

	buf.Reset()
	require.NoError(t, runShape(&buf, []string{"+1", "-1", "min"}, true))
	require.Equal(t, `+1: ok
1
-1: removed
<empty>
min: empty
<empty>
depth: 0
len: 0
lookups: 1 hits, 1 misses
writes: 1 inserts, 0 updates, 1 removes
rotations: 0 (zig 0, zig-zig 0, zig-zag 0)
`, buf.String())

	for _, bad := range []string{"", "+", "x1", "+a", "mid"} {
		require.Error(t, runShape(&buf, []string{bad}, false), bad)
	}
}
