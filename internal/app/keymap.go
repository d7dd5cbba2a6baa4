package app

import (
	"linea/internal/buffer"
	"linea/internal/config"
	"linea/internal/term"
)

// Keymap holds the configurable session bindings. Editing keys are fixed.
type Keymap struct {
	Save term.Key
	Quit term.Key
}

// DefaultKeymap binds Ctrl+S and Ctrl+Q.
func DefaultKeymap() Keymap {
	return Keymap{Save: term.Ctrl('s'), Quit: term.Ctrl('q')}
}

// KeymapFromConfig parses the bindings in k.
func KeymapFromConfig(k config.Keys) (Keymap, error) {
	save, err := config.ParseBinding(k.Save)
	if err != nil {
		return Keymap{}, err
	}
	quit, err := config.ParseBinding(k.Quit)
	if err != nil {
		return Keymap{}, err
	}
	return Keymap{Save: term.Key(save), Quit: term.Key(quit)}, nil
}

// Command maps a key to the command it triggers. ok is false for keys the
// editor ignores.
func (km Keymap) Command(k term.Key) (cmd buffer.Command, ok bool) {
	switch k {
	case km.Save:
		return buffer.Save, true
	case km.Quit:
		return buffer.Quit, true
	case term.KeyEnter:
		return buffer.SplitLine, true
	case term.KeyBackspace:
		return buffer.Backspace, true
	case term.KeyArrowLeft:
		return buffer.MoveLeft, true
	case term.KeyArrowRight:
		return buffer.MoveRight, true
	case term.KeyArrowUp:
		return buffer.MoveUp, true
	case term.KeyArrowDown:
		return buffer.MoveDown, true
	case term.KeyTab:
		return buffer.InsertChar('\t'), true
	}
	if r, ok := k.Rune(); ok {
		return buffer.InsertChar(r), true
	}
	return buffer.Command{}, false
}
