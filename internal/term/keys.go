package term

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

// Key is a decoded key press. Values below utf8.MaxRune+1 are runes or
// control bytes; the named keys above that range have no rune.
type Key int

const (
	KeyNone      Key = 0
	KeyTab       Key = '\t'
	KeyEnter     Key = '\r'
	KeyEsc       Key = 0x1b
	KeyBackspace Key = 0x7f
)

const (
	KeyArrowLeft Key = utf8.MaxRune + 1 + iota
	KeyArrowRight
	KeyArrowUp
	KeyArrowDown
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	// KeyResize is reported when the window size changed while waiting for
	// input.
	KeyResize
)

// Ctrl returns the key produced by holding Ctrl with letter c.
func Ctrl(c byte) Key { return Key(c & 0x1f) }

// Rune returns the printable rune for k.
func (k Key) Rune() (rune, bool) {
	if k < 0x20 || k == KeyBackspace || k > utf8.MaxRune {
		return 0, false
	}
	if k >= 0x80 && k < 0xa0 {
		return 0, false
	}
	return rune(k), true
}

func (k Key) String() string {
	switch k {
	case KeyNone:
		return "none"
	case KeyTab:
		return "tab"
	case KeyEnter:
		return "enter"
	case KeyEsc:
		return "esc"
	case KeyBackspace:
		return "backspace"
	case KeyArrowLeft:
		return "left"
	case KeyArrowRight:
		return "right"
	case KeyArrowUp:
		return "up"
	case KeyArrowDown:
		return "down"
	case KeyDelete:
		return "delete"
	case KeyHome:
		return "home"
	case KeyEnd:
		return "end"
	case KeyPageUp:
		return "pgup"
	case KeyPageDown:
		return "pgdown"
	case KeyResize:
		return "resize"
	}
	if k > 0 && k < 0x20 {
		return fmt.Sprintf("ctrl+%c", rune(k)+'a'-1)
	}
	if r, ok := k.Rune(); ok {
		return string(r)
	}
	return fmt.Sprintf("key(%d)", int(k))
}

// ErrResize is returned by a Source when a resize interrupted a read.
var ErrResize = errors.New("terminal resized")

// Source is a stream of input bytes.
type Source interface {
	// ReadByte blocks until a byte arrives.
	ReadByte() (byte, error)
	// ReadByteWithin waits at most d for a byte; ok is false on timeout.
	ReadByteWithin(d time.Duration) (b byte, ok bool, err error)
}

// EscapeTimeout is how long the decoder waits for the rest of an escape
// sequence before treating ESC as a key of its own.
const EscapeTimeout = 100 * time.Millisecond

// Decoder turns raw input bytes into keys.
type Decoder struct {
	src Source
}

func NewDecoder(src Source) *Decoder { return &Decoder{src: src} }

// ReadKey blocks for the next key press.
func (d *Decoder) ReadKey() (Key, error) {
	b, err := d.src.ReadByte()
	if err != nil {
		if errors.Is(err, ErrResize) {
			return KeyResize, nil
		}
		return KeyNone, err
	}
	switch {
	case b == '\r' || b == '\n':
		return KeyEnter, nil
	case b == 0x7f || b == 0x08:
		return KeyBackspace, nil
	case b == 0x1b:
		return d.escape()
	case b < utf8.RuneSelf:
		return Key(b), nil
	}
	return d.multibyte(b)
}

func (d *Decoder) next() (byte, bool, error) {
	b, ok, err := d.src.ReadByteWithin(EscapeTimeout)
	if errors.Is(err, ErrResize) {
		return 0, false, nil
	}
	return b, ok, err
}

func (d *Decoder) multibyte(first byte) (Key, error) {
	var n int
	switch {
	case first&0xe0 == 0xc0:
		n = 2
	case first&0xf0 == 0xe0:
		n = 3
	case first&0xf8 == 0xf0:
		n = 4
	default:
		return KeyNone, nil
	}
	var seq [utf8.UTFMax]byte
	seq[0] = first
	for i := 1; i < n; i++ {
		b, ok, err := d.next()
		if err != nil {
			return KeyNone, err
		}
		if !ok {
			return KeyNone, nil
		}
		seq[i] = b
	}
	r, size := utf8.DecodeRune(seq[:n])
	if r == utf8.RuneError || size != n {
		return KeyNone, nil
	}
	return Key(r), nil
}

func (d *Decoder) escape() (Key, error) {
	b, ok, err := d.next()
	if err != nil {
		return KeyNone, err
	}
	if !ok {
		return KeyEsc, nil
	}
	switch b {
	case '[':
		return d.csi()
	case 'O':
		nb, ok, err := d.next()
		if err != nil {
			return KeyNone, err
		}
		if !ok {
			return KeyEsc, nil
		}
		if k, found := finalKey(nb); found {
			return k, nil
		}
	}
	return KeyEsc, nil
}

func (d *Decoder) csi() (Key, error) {
	var seq [32]byte
	n := 0
	for n < len(seq) {
		b, ok, err := d.next()
		if err != nil {
			return KeyNone, err
		}
		if !ok {
			break
		}
		seq[n] = b
		n++
		if b == '~' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') {
			break
		}
	}
	if n == 0 {
		return KeyEsc, nil
	}
	s := seq[:n]
	last := s[n-1]
	if last == '~' && s[0] >= '0' && s[0] <= '9' {
		switch s[0] {
		case '1', '7':
			return KeyHome, nil
		case '3':
			return KeyDelete, nil
		case '4', '8':
			return KeyEnd, nil
		case '5':
			return KeyPageUp, nil
		case '6':
			return KeyPageDown, nil
		}
		return KeyEsc, nil
	}
	// Modified arrows (ESC [ 1 ; 5 C) decode as plain arrows.
	if k, found := finalKey(last); found {
		return k, nil
	}
	return KeyEsc, nil
}

func finalKey(b byte) (Key, bool) {
	switch b {
	case 'A':
		return KeyArrowUp, true
	case 'B':
		return KeyArrowDown, true
	case 'C':
		return KeyArrowRight, true
	case 'D':
		return KeyArrowLeft, true
	case 'H':
		return KeyHome, true
	case 'F':
		return KeyEnd, true
	}
	return KeyNone, false
}
