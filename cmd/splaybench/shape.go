// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/splaytree"
	"github.com/cockroachdb/splaytree/internal/treeshape"
	"github.com/spf13/cobra"
)

var shapeVerbose bool

var shapeCmd = &cobra.Command{
	Use:   "shape <op>...",
	Short: "apply operations to an empty tree and print its shape",
	Long: `
Applies a sequence of operations to an empty tree of integer keys and prints
the resulting shape. Operations are:

  +<key>   insert
  ?<key>   get
  -<key>   remove
  min      get the smallest key
  max      get the largest key

For example, "shape +10 +5 +12 ?5" inserts three keys and then looks one up.
`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShape(cmd.OutOrStdout(), args, shapeVerbose)
	},
}

func init() {
	shapeCmd.Flags().BoolVarP(&shapeVerbose, "verbose", "v", false, "print the shape after every operation")
}

func runShape(out io.Writer, ops []string, verbose bool) error {
	tr := splaytree.NewOrdered[int, struct{}]()
	for _, op := range ops {
		res, err := applyShapeOp(tr, op)
		if err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(out, "%s: %s\n%s", op, res, formatShape(tr))
		}
	}
	if !verbose {
		fmt.Fprint(out, formatShape(tr))
	}
	fmt.Fprintf(out, "depth: %d\n%s", tr.Depth(), tr.Metrics())
	return nil
}

func applyShapeOp(tr *splaytree.Tree[int, struct{}], op string) (string, error) {
	switch op {
	case "min", "max":
		get := tr.GetMin
		if op == "max" {
			get = tr.GetMax
		}
		if n, ok := get(); ok {
			return strconv.Itoa(n.Key()), nil
		}
		return "empty", nil
	}
	if len(op) < 2 {
		return "", errors.Errorf("invalid operation %q", op)
	}
	key, err := strconv.Atoi(op[1:])
	if err != nil {
		return "", errors.Wrapf(err, "invalid operation %q", op)
	}
	switch op[0] {
	case '+':
		tr.Insert(key, struct{}{})
		return "ok", nil
	case '?':
		if tr.Contains(key) {
			return "found", nil
		}
		return "not found", nil
	case '-':
		if _, ok := tr.Remove(key); ok {
			return "removed", nil
		}
		return "not found", nil
	default:
		return "", errors.Errorf("invalid operation %q", op)
	}
}

// formatShape renders the tree as an indented outline, one key per line.
func formatShape[K, V any](tr *splaytree.Tree[K, V]) string {
	root, ok := tr.Root()
	if !ok {
		return "<empty>\n"
	}
	return toShape(root).String()
}

func toShape[K, V any](n splaytree.Node[K, V]) *treeshape.Shape {
	s := &treeshape.Shape{Key: fmt.Sprint(n.Key())}
	if l, ok := n.Left(); ok {
		s.Left = toShape(l)
	}
	if r, ok := n.Right(); ok {
		s.Right = toShape(r)
	}
	return s
}
