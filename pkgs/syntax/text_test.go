package syntax

import "testing"

func TestLineIndexPositions(t *testing.T) {
	src := "let a = 1;\nlet b = 2;\r\nlet c = 3;"
	ix := NewLineIndex(src)

	if got := ix.LineCount(); got != 3 {
		t.Fatalf("LineCount = %d, want 3", got)
	}

	tests := []struct {
		offset int
		pos    Position
	}{
		{0, Position{Line: 0, Character: 0}},
		{4, Position{Line: 0, Character: 4}},
		{10, Position{Line: 0, Character: 10}}, // the \n itself
		{11, Position{Line: 1, Character: 0}},
		{23, Position{Line: 2, Character: 0}},
		{len(src), Position{Line: 2, Character: 10}},
	}
	for _, tt := range tests {
		if got := ix.Position(tt.offset); got != tt.pos {
			t.Errorf("Position(%d) = %v, want %v", tt.offset, got, tt.pos)
		}
	}
}

// Characters are UTF-16 code units: multi-byte runes below the
// astral plane count as one unit, astral runes as two.
func TestLineIndexUTF16(t *testing.T) {
	src := "é𝄞x"
	// é = 2 bytes / 1 unit, 𝄞 = 4 bytes / 2 units
	ix := NewLineIndex(src)

	if got := ix.Position(2); got.Character != 1 {
		t.Errorf("Position after é = %d units, want 1", got.Character)
	}
	if got := ix.Position(6); got.Character != 3 {
		t.Errorf("Position after 𝄞 = %d units, want 3", got.Character)
	}

	off, ok := ix.Offset(Position{Line: 0, Character: 3})
	if !ok || off != 6 {
		t.Errorf("Offset(0:3) = %d, %v, want 6, true", off, ok)
	}
}

func TestLineIndexOffsetClamping(t *testing.T) {
	src := "ab\ncd"
	ix := NewLineIndex(src)

	// past end of line clamps to the line end
	off, ok := ix.Offset(Position{Line: 0, Character: 99})
	if ok {
		t.Error("expected ok=false past line end")
	}
	if off != 2 {
		t.Errorf("clamped offset = %d, want 2", off)
	}

	// past last line clamps to end of input
	off, ok = ix.Offset(Position{Line: 99, Character: 0})
	if ok {
		t.Error("expected ok=false past last line")
	}
	if off != len(src) {
		t.Errorf("clamped offset = %d, want %d", off, len(src))
	}
}

func TestLineIndexInvalidUTF8(t *testing.T) {
	src := "a\xffb"
	ix := NewLineIndex(src)
	// invalid bytes decode as U+FFFD, a single UTF-16 unit
	if got := ix.Position(2); got.Character != 2 {
		t.Errorf("Position(2) = %d units, want 2", got.Character)
	}
}

func TestLineText(t *testing.T) {
	ix := NewLineIndex("one\ntwo\n")
	if got := ix.LineText(1); got != "two" {
		t.Errorf("LineText(1) = %q, want %q", got, "two")
	}
}
