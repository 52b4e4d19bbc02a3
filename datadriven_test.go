// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package splaytree

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/stretchr/testify/require"
)

// TestTreeDataDriven exercises rotations, splaying and the public operations
// against hand-checked tree shapes. Supported commands:
//
//	new                         start with an empty tree
//	build                       start with the tree described by the input
//	kind key=<k>                print the next splay step for k
//	splay key=<k>               splay k to the root
//	rotate-left key=<k>         rotate at k
//	rotate-right key=<k>
//	insert                      insert the whitespace-separated keys
//	set key=<k> value=<v>       Insert(k, v)
//	get key=<k>
//	remove key=<k>
//	min, max
//	metrics
//
// The tree is verified after every command.
func TestTreeDataDriven(t *testing.T) {
	datadriven.Walk(t, "testdata/tree", func(t *testing.T, path string) {
		var tr *Tree[int, string]
		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			var buf strings.Builder
			switch d.Cmd {
			case "new":
				tr = NewOrdered[int, string]()

			case "build":
				tr = buildTree(t, d.Input)

			case "kind":
				var key int
				d.ScanArgs(t, "key", &key)
				kind, ok := tr.splayKind(lookup(t, tr, key))
				if !ok {
					return "root\n"
				}
				return kind.String() + "\n"

			case "splay":
				var key int
				d.ScanArgs(t, "key", &key)
				tr.root = tr.splay(lookup(t, tr, key))

			case "rotate-left", "rotate-right":
				var key int
				d.ScanArgs(t, "key", &key)
				h := lookup(t, tr, key)
				if d.Cmd == "rotate-left" {
					tr.rotateLeft(h)
				} else {
					tr.rotateRight(h)
				}
				climbRoot(tr)

			case "insert":
				for _, f := range strings.Fields(d.Input) {
					key, err := strconv.Atoi(f)
					require.NoError(t, err)
					tr.Insert(key, valueFor(key))
				}

			case "set":
				var key int
				var value string
				d.ScanArgs(t, "key", &key)
				d.ScanArgs(t, "value", &value)
				fmt.Fprintf(&buf, "%s\n", tr.Insert(key, value))

			case "get":
				var key int
				d.ScanArgs(t, "key", &key)
				if n, ok := tr.Get(key); ok {
					fmt.Fprintf(&buf, "%s\n", n)
				} else {
					buf.WriteString("not found\n")
				}

			case "remove":
				var key int
				d.ScanArgs(t, "key", &key)
				if r, ok := tr.Remove(key); ok {
					fmt.Fprintf(&buf, "removed %d: %s\n", r.Key, r.Value)
				} else {
					buf.WriteString("not found\n")
				}

			case "min", "max":
				get := tr.GetMin
				if d.Cmd == "max" {
					get = tr.GetMax
				}
				if n, ok := get(); ok {
					fmt.Fprintf(&buf, "%s\n", n)
				} else {
					buf.WriteString("empty\n")
				}

			case "metrics":
				require.NoError(t, tr.Verify())
				return tr.Metrics().String()

			default:
				d.Fatalf(t, "unknown command %q", d.Cmd)
			}
			require.NoError(t, tr.Verify())
			buf.WriteString(formatTree(tr))
			return buf.String()
		})
	})
}
