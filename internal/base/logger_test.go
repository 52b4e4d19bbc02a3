// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInMemLogger(t *testing.T) {
	var l InMemLogger
	l.Infof("inserted %d keys", 3)
	l.Errorf("verify: %s\n", "ok")
	require.Equal(t, "inserted 3 keys\nverify: ok\n", l.String())
	require.Panics(t, func() { l.Fatalf("corrupt %s", "tree") })
	require.Contains(t, l.String(), "corrupt tree\n")
	l.Reset()
	require.Equal(t, "", l.String())
}

func TestNoopLoggerFatal(t *testing.T) {
	var l NoopLogger
	l.Infof("ignored")
	l.Errorf("ignored")
	require.PanicsWithValue(t, "boom 1", func() { l.Fatalf("boom %d", 1) })
}
