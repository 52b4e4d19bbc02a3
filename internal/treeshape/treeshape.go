// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package treeshape parses and prints the shape of a binary tree written as
// indented text; see Parse.
package treeshape

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

// Shape is a binary tree of keys.
type Shape struct {
	Key         string
	Left, Right *Shape
}

// Parse a multi-line input string into a binary tree. For example:
//
//	10
//	  L 5
//	    L 3
//	    R 6
//	  R 12
//
// describes a root 10 with left child 5 (which has children 3 and 6) and right
// child 12. Every line below the root starts with L or R followed by the key.
//
// The indentation step is arbitrary but it must be consistent across lines, and
// tabs cannot be used for indentation.
func Parse(input string) (*Shape, error) {
	input = strings.TrimSuffix(input, "\n")
	if input == "" {
		return nil, errors.Errorf("empty input")
	}
	lines := strings.Split(input, "\n")
	indentLevel := make([]int, len(lines))
	for i, line := range lines {
		level := 0
		for strings.HasPrefix(line[level:], " ") {
			level++
		}
		if len(line) == level {
			return nil, errors.Errorf("empty line in input:\n%s", input)
		}
		if line[level] == '\t' {
			return nil, errors.Errorf("tab indentation in input:\n%s", input)
		}
		indentLevel[i] = level
	}
	levels := slices.Clone(indentLevel)
	slices.Sort(levels)
	levels = slices.Compact(levels)
	if indentLevel[0] != levels[0] {
		return nil, errors.Errorf("first line must not be indented:\n%s", input)
	}

	// parse builds the subtree for the line at lineIdx, whose children occupy
	// the lines up to endLineIdx.
	var parse func(levelIdx, lineIdx, endLineIdx int, key string) (*Shape, error)
	parse = func(levelIdx, lineIdx, endLineIdx int, key string) (*Shape, error) {
		s := &Shape{Key: key}
		for i := lineIdx + 1; i <= endLineIdx; {
			if levelIdx+1 >= len(levels) || indentLevel[i] != levels[levelIdx+1] {
				return nil, errors.Errorf("inconsistent indentation in input:\n%s", input)
			}
			next := i + 1
			for next <= endLineIdx && indentLevel[next] > indentLevel[i] {
				next++
			}
			side, childKey, ok := strings.Cut(lines[i][indentLevel[i]:], " ")
			if !ok || childKey == "" {
				return nil, errors.Errorf("expected \"L <key>\" or \"R <key>\": %q", lines[i])
			}
			child, err := parse(levelIdx+1, i, next-1, childKey)
			if err != nil {
				return nil, err
			}
			switch side {
			case "L":
				if s.Left != nil {
					return nil, errors.Errorf("%s has two left children", key)
				}
				s.Left = child
			case "R":
				if s.Right != nil {
					return nil, errors.Errorf("%s has two right children", key)
				}
				s.Right = child
			default:
				return nil, errors.Errorf("unknown side %q in %q", side, lines[i])
			}
			i = next
		}
		return s, nil
	}
	for i := 1; i < len(lines); i++ {
		if indentLevel[i] == levels[0] {
			return nil, errors.Errorf("multiple roots in input:\n%s", input)
		}
	}
	return parse(0, 0, len(lines)-1, lines[0])
}

// String prints the shape in the format accepted by Parse, using two spaces
// per level.
func (s *Shape) String() string {
	var b strings.Builder
	var format func(s *Shape, prefix, side string)
	format = func(s *Shape, prefix, side string) {
		b.WriteString(prefix)
		b.WriteString(side)
		b.WriteString(s.Key)
		b.WriteString("\n")
		if s.Left != nil {
			format(s.Left, prefix+"  ", "L ")
		}
		if s.Right != nil {
			format(s.Right, prefix+"  ", "R ")
		}
	}
	format(s, "", "")
	return b.String()
}
