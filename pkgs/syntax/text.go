package syntax

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Position is a zero-based line/character pair. Characters are UTF-16
// code units within the line, matching conventional editor encoding.
type Position struct {
	Line      int
	Character int
}

// LineIndex converts between byte offsets and line/character positions
// for one source text. Lines are `\n`-delimited; it is a pure function
// of the text, independent of any syntax tree.
type LineIndex struct {
	source     string
	lineStarts []int
}

// NewLineIndex builds the index for the given text.
func NewLineIndex(source string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{source: source, lineStarts: starts}
}

// LineCount returns the number of lines, counting a trailing fragment
// after the last newline as a line.
func (ix *LineIndex) LineCount() int {
	return len(ix.lineStarts)
}

// Position converts a byte offset into a line/UTF-16 position.
// Offsets beyond the text clamp to its end.
func (ix *LineIndex) Position(offset int) Position {
	if offset > len(ix.source) {
		offset = len(ix.source)
	}
	if offset < 0 {
		offset = 0
	}

	line := ix.lineFor(offset)
	start := ix.lineStarts[line]

	character := 0
	for _, r := range ix.source[start:offset] {
		character += utf16.RuneLen(fixRune(r))
	}
	return Position{Line: line, Character: character}
}

// Offset converts a line/UTF-16 position back to a byte offset. The
// second result is false when the position does not exist in the text;
// the offset is still the closest valid one.
func (ix *LineIndex) Offset(pos Position) (int, bool) {
	if pos.Line < 0 {
		return 0, false
	}
	if pos.Line >= len(ix.lineStarts) {
		return len(ix.source), false
	}

	start := ix.lineStarts[pos.Line]
	end := len(ix.source)
	if pos.Line+1 < len(ix.lineStarts) {
		end = ix.lineStarts[pos.Line+1] - 1 // exclude the newline
	}

	units := 0
	byteOff := start
	for byteOff < end && units < pos.Character {
		r, size := utf8.DecodeRuneInString(ix.source[byteOff:])
		units += utf16.RuneLen(fixRune(r))
		byteOff += size
	}
	return byteOff, units >= pos.Character
}

func (ix *LineIndex) lineFor(offset int) int {
	lo, hi := 0, len(ix.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if ix.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// fixRune maps invalid runes to the replacement character so that
// undecodable bytes still count as one UTF-16 unit.
func fixRune(r rune) rune {
	if r == utf8.RuneError {
		return '�'
	}
	return r
}

// LineText returns the text of the given line without its newline.
func (ix *LineIndex) LineText(line int) string {
	if line < 0 || line >= len(ix.lineStarts) {
		return ""
	}
	start := ix.lineStarts[line]
	end := len(ix.source)
	if line+1 < len(ix.lineStarts) {
		end = ix.lineStarts[line+1] - 1
	}
	return strings.TrimSuffix(ix.source[start:end], "\r")
}
