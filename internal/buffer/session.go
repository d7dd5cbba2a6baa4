package buffer

import "bytes"

// LineTerminator is appended after every line when a snapshot is written.
const LineTerminator = "\n"

// Cursor is a position in the buffer. See the package doc for the bounds.
type Cursor struct {
	Line int
	Col  int
}

// QuitState tells the caller how a Quit command may proceed.
type QuitState uint8

const (
	// NoQuit means the command was not a Quit.
	NoQuit QuitState = iota
	// QuitNow means the buffer is clean and the session may end.
	QuitNow
	// QuitNeedsDecision means the buffer is dirty; the caller must save or
	// discard before ending the session.
	QuitNeedsDecision
)

// Snapshot is the buffer content handed to persistence by a Save command.
type Snapshot struct {
	Lines    []string
	Revision uint64
}

// Bytes renders the snapshot as file content: every line followed by
// LineTerminator.
func (s *Snapshot) Bytes() []byte {
	n := 0
	for _, ln := range s.Lines {
		n += len(ln) + len(LineTerminator)
	}
	var b bytes.Buffer
	b.Grow(n)
	for _, ln := range s.Lines {
		b.WriteString(ln)
		b.WriteString(LineTerminator)
	}
	return b.Bytes()
}

// Result describes what applying a command did.
type Result struct {
	Edited bool // content changed
	Moved  bool // cursor changed
	Save   *Snapshot
	Quit   QuitState
}

// Session owns a buffer and its cursor. It is not safe for concurrent use;
// each Apply runs to completion before the next one starts.
type Session struct {
	buf   *Buffer
	cur   Cursor
	dirty bool
	rev   uint64
}

// NewSession starts a clean session over lines with the cursor at (0,0).
func NewSession(lines []string) *Session {
	return &Session{buf: New(lines)}
}

func (s *Session) Cursor() Cursor { return s.cur }
func (s *Session) Dirty() bool { return s.dirty }
func (s *Session) Revision() uint64 { return s.rev }
func (s *Session) LineCount() int { return s.buf.LineCount() }
func (s *Session) Line(i int) string { return s.buf.Line(i) }
func (s *Session) Lines() []string { return s.buf.Lines() }

// MarkSaved records that the snapshot with revision rev reached disk. The
// buffer becomes clean only if nothing was edited since that snapshot.
func (s *Session) MarkSaved(rev uint64) bool {
	if rev != s.rev {
		return false
	}
	s.dirty = false
	return true
}

// Apply runs cmd against the session.
func (s *Session) Apply(cmd Command) Result {
	s.clamp()
	before := s.cur
	var res Result
	switch cmd.Op {
	case OpInsertChar:
		s.buf.insertRune(s.cur.Line, s.cur.Col, cmd.Char)
		s.cur.Col++
		res.Edited = true
	case OpSplitLine:
		s.buf.split(s.cur.Line, s.cur.Col)
		s.cur = Cursor{Line: s.cur.Line + 1}
		res.Edited = true
	case OpBackspace:
		res.Edited = s.backspace()
	case OpMoveLeft:
		if s.cur.Col > 0 {
			s.cur.Col--
		}
	case OpMoveRight:
		if s.cur.Col < s.buf.LineLen(s.cur.Line) {
			s.cur.Col++
		}
	case OpMoveUp:
		if s.cur.Line > 0 {
			s.cur.Line--
			s.cur.Col = min(s.cur.Col, s.buf.LineLen(s.cur.Line))
		}
	case OpMoveDown:
		if s.cur.Line < s.buf.LineCount()-1 {
			s.cur.Line++
			s.cur.Col = min(s.cur.Col, s.buf.LineLen(s.cur.Line))
		}
	case OpSave:
		res.Save = &Snapshot{Lines: s.buf.Lines(), Revision: s.rev}
	case OpQuit:
		res.Quit = QuitNow
		if s.dirty {
			res.Quit = QuitNeedsDecision
		}
	}
	if res.Edited {
		s.dirty = true
		s.rev++
	}
	res.Moved = s.cur != before
	return res
}

func (s *Session) backspace() bool {
	switch {
	case s.cur.Col > 0:
		s.buf.deleteRune(s.cur.Line, s.cur.Col-1)
		s.cur.Col--
	case s.cur.Line > 0:
		prevLen := s.buf.join(s.cur.Line)
		s.cur = Cursor{Line: s.cur.Line - 1, Col: prevLen}
	default:
		return false
	}
	return true
}

// clamp pulls the cursor back into bounds. With a well-formed session it is
// a no-op.
func (s *Session) clamp() {
	if len(s.buf.lines) == 0 {
		s.buf.lines = append(s.buf.lines, nil)
	}
	s.cur.Line = max(0, min(s.cur.Line, s.buf.LineCount()-1))
	s.cur.Col = max(0, min(s.cur.Col, s.buf.LineLen(s.cur.Line)))
}
