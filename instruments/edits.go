package instruments

import (
	"fmt"
	"sort"
	"strings"
)

// edit replaces text[offset:end] with text. Insertions have end == offset.
type edit struct {
	offset int
	end    int
	text   string
}

// LineMap maps an instrumented line (index line-1) to the original line.
type LineMap []int

// Original returns the original line of an instrumented line. Lines out of range
// are returned unchanged.
func (m LineMap) Original(line int) int {
	if line < 1 || line > len(m) {
		return line
	}
	return m[line-1]
}

// apply performs edits in offset order. Edits at the same offset keep the order
// they were recorded in.
func apply(text []byte, edits []edit) ([]byte, LineMap, error) {
	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].offset < edits[j].offset
	})

	var out strings.Builder
	out.Grow(len(text) + len(edits)*48)
	lineMap := LineMap{1}
	origLine := 1

	copyOriginal := func(chunk []byte) {
		for _, b := range chunk {
			out.WriteByte(b)
			if b == '\n' {
				origLine++
				lineMap = append(lineMap, origLine)
			}
		}
	}

	pos := 0
	for _, e := range edits {
		if e.offset < pos {
			return nil, nil, fmt.Errorf("overlapping edit at offset %d", e.offset)
		}
		copyOriginal(text[pos:e.offset])
		for _, r := range e.text {
			out.WriteRune(r)
			if r == '\n' {
				lineMap = append(lineMap, origLine)
			}
		}
		// replaced text may not span lines
		pos = e.end
	}
	copyOriginal(text[pos:])

	return []byte(out.String()), lineMap, nil
}
