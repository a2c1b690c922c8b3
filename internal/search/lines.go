package search

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
)

// LineMatch is one content line that matched a find query
type LineMatch struct {
	Line           int   // zero-based line number
	Score          int   // higher = better
	MatchedIndexes []int // rune offsets in the original line (for highlighting)
}

// LineIndex implements sahilm/fuzzy.Source over the lines of a document.
// Lowercased lines are computed once so repeated queries don't allocate.
// Folding is rune for rune, so rune offsets agree with the original line.
type LineIndex struct {
	lines      []string
	lowerLines []string
}

// String returns the lowercase line at index i (implements fuzzy.Source)
func (idx *LineIndex) String(i int) string { return idx.lowerLines[i] }

// Len returns the number of lines (implements fuzzy.Source)
func (idx *LineIndex) Len() int { return len(idx.lines) }

// Line returns the original text of line i
func (idx *LineIndex) Line(i int) string {
	if i < 0 || i >= len(idx.lines) {
		return ""
	}
	return idx.lines[i]
}

// NewLineIndex splits content into lines. CRLF endings are tolerated.
func NewLineIndex(content string) *LineIndex {
	if content == "" {
		return &LineIndex{}
	}
	lines := strings.Split(content, "\n")
	lower := make([]string, len(lines))
	for i, l := range lines {
		l = strings.TrimSuffix(l, "\r")
		lines[i] = l
		lower[i] = foldCase(l)
	}
	return &LineIndex{lines: lines, lowerLines: lower}
}

// Find returns the lines matching query in document order, so callers can
// step through them with next/previous.
//
// With exact set, only lines containing query as a case-insensitive
// substring are returned. Otherwise any fuzzy (subsequence) match counts.
func (idx *LineIndex) Find(query string, exact bool) []LineMatch {
	query = foldCase(strings.TrimSpace(query))
	if query == "" || idx.Len() == 0 {
		return nil
	}

	if exact {
		return idx.findExact(query)
	}

	matches := fuzzy.FindFrom(query, idx)
	results := make([]LineMatch, len(matches))
	for i, m := range matches {
		results[i] = LineMatch{
			Line:           m.Index,
			Score:          m.Score,
			MatchedIndexes: runeOffsets(idx.lowerLines[m.Index], m.MatchedIndexes),
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Line < results[j].Line })
	return results
}

func (idx *LineIndex) findExact(query string) []LineMatch {
	var results []LineMatch
	for i, l := range idx.lowerLines {
		at := strings.Index(l, query)
		if at < 0 {
			continue
		}
		first := utf8.RuneCountInString(l[:at])
		indexes := make([]int, utf8.RuneCountInString(query))
		for j := range indexes {
			indexes[j] = first + j
		}
		results = append(results, LineMatch{Line: i, Score: len(query), MatchedIndexes: indexes})
	}
	return results
}

// foldCase lowercases s one rune at a time, keeping its rune count
func foldCase(s string) string {
	return strings.Map(unicode.ToLower, s)
}

// runeOffsets converts ascending byte offsets in s to rune offsets
func runeOffsets(s string, byteOffsets []int) []int {
	out := make([]int, 0, len(byteOffsets))
	j, r := 0, 0
	for b := range s {
		if j == len(byteOffsets) {
			break
		}
		if b == byteOffsets[j] {
			out = append(out, r)
			j++
		}
		r++
	}
	return out
}

// Next returns the position in matches of the first match after line,
// wrapping around. It returns -1 when there are no matches.
func Next(matches []LineMatch, line int) int {
	if len(matches) == 0 {
		return -1
	}
	i := sort.Search(len(matches), func(i int) bool { return matches[i].Line > line })
	if i == len(matches) {
		return 0
	}
	return i
}

// Prev returns the position of the last match before line, wrapping around.
func Prev(matches []LineMatch, line int) int {
	if len(matches) == 0 {
		return -1
	}
	i := sort.Search(len(matches), func(i int) bool { return matches[i].Line >= line })
	if i == 0 {
		return len(matches) - 1
	}
	return i - 1
}
