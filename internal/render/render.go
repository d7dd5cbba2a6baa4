// Package render paints a buffer and its cursor onto a VT100 terminal.
package render

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"linea/internal/buffer"
)

// Document is the read-only view of the buffer the renderer needs.
type Document interface {
	LineCount() int
	Line(i int) string
}

// Frame is everything drawn in one refresh.
type Frame struct {
	Doc      Document
	Cursor   buffer.Cursor
	Filename string
	Dirty    bool
	Message  string

	// Prompt puts the cursor at the end of Message instead of in the text.
	Prompt bool
}

// Screen owns the output stream and the current window size. The last two
// rows hold the status bar and the message bar.
type Screen struct {
	out  io.Writer
	size func() (rows, cols int)
	rows int
	cols int
	buf  bytes.Buffer
}

// New returns a Screen writing to out. size is consulted now and on every
// Resize.
func New(out io.Writer, size func() (rows, cols int)) *Screen {
	s := &Screen{out: out, size: size}
	s.Resize()
	return s
}

// Resize re-reads the window size.
func (s *Screen) Resize() {
	s.rows, s.cols = s.size()
	s.rows = max(s.rows, 3)
	s.cols = max(s.cols, 1)
}

// TextRows is the number of rows available for buffer lines.
func (s *Screen) TextRows() int { return s.rows - 2 }

// Draw clears and repaints every row.
func (s *Screen) Draw(f Frame) error {
	s.buf.Reset()
	s.buf.WriteString("\x1b[?25l\x1b[H")
	s.drawRows(f)
	s.drawStatusBar(f)
	s.drawMessageBar(f)
	s.placeCursor(f)
	s.buf.WriteString("\x1b[?25h")
	return s.flush()
}

// PlaceCursor repaints the status and message bars and moves the cursor
// without touching the text rows. An expired message is cleared here.
func (s *Screen) PlaceCursor(f Frame) error {
	s.buf.Reset()
	s.buf.WriteString("\x1b[?25l")
	writeCursorPos(&s.buf, s.rows-1, 1)
	s.drawStatusBar(f)
	s.drawMessageBar(f)
	s.placeCursor(f)
	s.buf.WriteString("\x1b[?25h")
	return s.flush()
}

func (s *Screen) flush() error {
	_, err := s.out.Write(s.buf.Bytes())
	return err
}

func (s *Screen) drawRows(f Frame) {
	n := 0
	if f.Doc != nil {
		n = f.Doc.LineCount()
	}
	for y := 0; y < s.TextRows(); y++ {
		if y < n {
			s.buf.WriteString(runewidth.Truncate(Sanitize(f.Doc.Line(y)), s.cols, ""))
		} else {
			s.buf.WriteByte('~')
		}
		s.buf.WriteString("\x1b[K\r\n")
	}
}

func (s *Screen) drawStatusBar(f Frame) {
	s.buf.WriteString("\x1b[7m")
	left := " [No Name]"
	if f.Filename != "" {
		left = " " + f.Filename
	}
	if f.Dirty {
		left += " [+]"
	}
	left = Sanitize(left)
	n := 0
	if f.Doc != nil {
		n = f.Doc.LineCount()
	}
	right := strconv.Itoa(f.Cursor.Line+1) + "," + strconv.Itoa(f.Cursor.Col+1) +
		"  " + strconv.Itoa(n) + "L "
	room := s.cols - runewidth.StringWidth(right)
	if room < 0 {
		right = runewidth.Truncate(right, s.cols, "")
		room = 0
	}
	left = runewidth.Truncate(left, room, "")
	s.buf.WriteString(left)
	s.buf.WriteString(strings.Repeat(" ", room-runewidth.StringWidth(left)))
	s.buf.WriteString(right)
	s.buf.WriteString("\x1b[m\r\n")
}

func (s *Screen) drawMessageBar(f Frame) {
	s.buf.WriteString("\x1b[K")
	s.buf.WriteString(runewidth.Truncate(Sanitize(f.Message), s.cols, ""))
}

func (s *Screen) placeCursor(f Frame) {
	if f.Prompt {
		col := runewidth.StringWidth(Sanitize(f.Message)) + 1
		writeCursorPos(&s.buf, s.rows, min(col, s.cols))
		return
	}
	row, col := s.CursorCell(f)
	writeCursorPos(&s.buf, row, col)
}

// CursorCell returns the 1-based screen cell of the text cursor. Columns
// count display cells, so wide runes advance by two.
func (s *Screen) CursorCell(f Frame) (row, col int) {
	line := ""
	if f.Doc != nil {
		line = f.Doc.Line(f.Cursor.Line)
	}
	rs := []rune(line)
	end := max(0, min(f.Cursor.Col, len(rs)))
	col = runewidth.StringWidth(Sanitize(string(rs[:end]))) + 1
	row = f.Cursor.Line + 1
	return max(1, min(row, s.TextRows())), max(1, min(col, s.cols))
}

// Sanitize replaces control characters so they cannot move the terminal
// cursor; each becomes a one-cell '?'.
func Sanitize(s string) string {
	if !strings.ContainsFunc(s, isControl) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isControl(r) {
			return '?'
		}
		return r
	}, s)
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0)
}

func writeCursorPos(b *bytes.Buffer, row, col int) {
	var num [20]byte
	b.WriteString("\x1b[")
	b.Write(strconv.AppendInt(num[:0], int64(row), 10))
	b.WriteByte(';')
	b.Write(strconv.AppendInt(num[:0], int64(col), 10))
	b.WriteByte('H')
}
