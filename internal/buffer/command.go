package buffer

import "fmt"

// Op identifies a command variant.
type Op uint8

const (
	OpInsertChar Op = iota
	OpSplitLine
	OpBackspace
	OpMoveLeft
	OpMoveRight
	OpMoveUp
	OpMoveDown
	OpSave
	OpQuit
)

var opNames = [...]string{
	OpInsertChar: "insert_char",
	OpSplitLine:  "split_line",
	OpBackspace:  "backspace",
	OpMoveLeft:   "move_left",
	OpMoveRight:  "move_right",
	OpMoveUp:     "move_up",
	OpMoveDown:   "move_down",
	OpSave:       "save",
	OpQuit:       "quit",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("op(%d)", uint8(o))
}

// Command is one discrete editing or session-control operation. Char is only
// meaningful for OpInsertChar.
type Command struct {
	Op   Op
	Char rune
}

// InsertChar returns the command that inserts r at the cursor.
func InsertChar(r rune) Command { return Command{Op: OpInsertChar, Char: r} }

var (
	SplitLine = Command{Op: OpSplitLine}
	Backspace = Command{Op: OpBackspace}
	MoveLeft  = Command{Op: OpMoveLeft}
	MoveRight = Command{Op: OpMoveRight}
	MoveUp    = Command{Op: OpMoveUp}
	MoveDown  = Command{Op: OpMoveDown}
	Save      = Command{Op: OpSave}
	Quit      = Command{Op: OpQuit}
)

func (c Command) String() string {
	if c.Op == OpInsertChar {
		return fmt.Sprintf("%s(%q)", c.Op, c.Char)
	}
	return c.Op.String()
}
