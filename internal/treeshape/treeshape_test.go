// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package treeshape

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	input := `20
  L 15
    L 13
      L 12
      R 14
    R 16
  R 30
`
	s, err := Parse(input)
	require.NoError(t, err)
	require.Equal(t, "20", s.Key)
	require.Equal(t, "15", s.Left.Key)
	require.Equal(t, "30", s.Right.Key)
	require.Equal(t, "14", s.Left.Left.Right.Key)
	require.Nil(t, s.Right.Left)
	require.Equal(t, input, s.String())
}

func TestParseSingleRightChild(t *testing.T) {
	s, err := Parse("1\n R 2\n  R 3\n")
	require.NoError(t, err)
	require.Nil(t, s.Left)
	require.Equal(t, "3", s.Right.Right.Key)
	require.Equal(t, "1\n  R 2\n    R 3\n", s.String())
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		input string
		err   string
	}{
		{input: "", err: "empty input"},
		{input: "1\n\n  L 0", err: "empty line"},
		{input: "1\n\tL 0", err: "tab indentation"},
		{input: "1\n  X 0", err: "unknown side"},
		{input: "1\n  L", err: "expected"},
		{input: "1\n  L 0\n  L 1", err: "two left children"},
		{input: "1\n2", err: "multiple roots"},
		{input: "1\n    L 0\n  R 2", err: "inconsistent indentation"},
	} {
		_, err := Parse(tc.input)
		require.Error(t, err, "%q", tc.input)
		require.Contains(t, err.Error(), tc.err, "%q", tc.input)
	}
}
