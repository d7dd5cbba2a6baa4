package buffer

// Buffer is an ordered sequence of lines. Lines do not include their
// terminators.
type Buffer struct {
	lines [][]rune
}

// New builds a buffer from lines. Nil or empty input yields a single empty
// line.
func New(lines []string) *Buffer {
	b := &Buffer{lines: make([][]rune, 0, max(1, len(lines)))}
	for _, ln := range lines {
		b.lines = append(b.lines, []rune(ln))
	}
	if len(b.lines) == 0 {
		b.lines = append(b.lines, nil)
	}
	return b
}

func (b *Buffer) LineCount() int { return len(b.lines) }

// Line returns line i as a string, or "" when i is out of range.
func (b *Buffer) Line(i int) string {
	if i < 0 || i >= len(b.lines) {
		return ""
	}
	return string(b.lines[i])
}

// LineLen returns the rune length of line i, or 0 when i is out of range.
func (b *Buffer) LineLen(i int) int {
	if i < 0 || i >= len(b.lines) {
		return 0
	}
	return len(b.lines[i])
}

// Lines returns a copy of every line.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	for i, ln := range b.lines {
		out[i] = string(ln)
	}
	return out
}

func (b *Buffer) insertRune(line, at int, r rune) {
	ln := append(b.lines[line], 0)
	copy(ln[at+1:], ln[at:])
	ln[at] = r
	b.lines[line] = ln
}

func (b *Buffer) deleteRune(line, at int) {
	ln := b.lines[line]
	copy(ln[at:], ln[at+1:])
	b.lines[line] = ln[:len(ln)-1]
}

// split cuts line at col; the tail becomes a new line right after it.
func (b *Buffer) split(line, col int) {
	ln := b.lines[line]
	tail := append([]rune(nil), ln[col:]...)
	b.lines[line] = ln[:col]
	b.lines = append(b.lines, nil)
	copy(b.lines[line+2:], b.lines[line+1:])
	b.lines[line+1] = tail
}

// join appends line to line-1 and removes it. It returns the length the
// previous line had before the join.
func (b *Buffer) join(line int) int {
	prev := len(b.lines[line-1])
	b.lines[line-1] = append(b.lines[line-1], b.lines[line]...)
	copy(b.lines[line:], b.lines[line+1:])
	b.lines[len(b.lines)-1] = nil
	b.lines = b.lines[:len(b.lines)-1]
	return prev
}
