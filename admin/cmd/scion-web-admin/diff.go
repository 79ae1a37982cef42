// Copyright 2026 ETH Zurich
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is the number of unchanged lines shown around a change.
const diffContext = 3

// writeDiff writes the line diff from before to after. Unchanged stretches
// are shortened to diffContext lines on each side. It reports whether the
// texts differ.
func writeDiff(w io.Writer, before, after string, p palette) bool {
	if before == after {
		return false
	}
	m := lineRunes{index: make(map[string]rune)}
	diffs := diffmatchpatch.New().DiffMainRunes(m.runes(before), m.runes(after), false)
	for i, d := range diffs {
		text := m.lines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			for _, l := range text {
				p.removed.Fprintf(w, "- %s\n", l)
			}
		case diffmatchpatch.DiffInsert:
			for _, l := range text {
				p.added.Fprintf(w, "+ %s\n", l)
			}
		case diffmatchpatch.DiffEqual:
			head, tail := diffContext, diffContext
			if i == 0 {
				head = 0
			}
			if i == len(diffs)-1 {
				tail = 0
			}
			if len(text) <= head+tail {
				writeLines(w, text)
				continue
			}
			writeLines(w, text[:head])
			fmt.Fprintf(w, "  ... %d unchanged lines\n", len(text)-head-tail)
			writeLines(w, text[len(text)-tail:])
		}
	}
	return true
}

func writeLines(w io.Writer, lines []string) {
	for _, l := range lines {
		fmt.Fprintf(w, "  %s\n", l)
	}
}

// lineRunes maps every distinct line to a rune of the private use areas. The
// character diff of the mapped texts is the line diff of the texts.
type lineRunes struct {
	index map[string]rune
	text  []string
}

const (
	privateUseBase      = 0xE000
	privateUseSize      = 0x1900
	supplementaryPUBase = 0xF0000
)

func (m *lineRunes) runes(s string) []rune {
	lines := splitLines(s)
	rs := make([]rune, 0, len(lines))
	for _, l := range lines {
		r, ok := m.index[l]
		if !ok {
			r = lineRune(len(m.text))
			m.index[l] = r
			m.text = append(m.text, l)
		}
		rs = append(rs, r)
	}
	return rs
}

func (m *lineRunes) lines(s string) []string {
	var lines []string
	for _, r := range s {
		i := int(r - privateUseBase)
		if r >= supplementaryPUBase {
			i = privateUseSize + int(r-supplementaryPUBase)
		}
		lines = append(lines, m.text[i])
	}
	return lines
}

func lineRune(i int) rune {
	if i < privateUseSize {
		return rune(privateUseBase + i)
	}
	return rune(supplementaryPUBase + i - privateUseSize)
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
