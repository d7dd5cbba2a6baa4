package term

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptSource replays bytes; ErrResize is injected where a nil-chunk appears.
type scriptSource struct {
	chunks [][]byte
}

func bytesSource(s string) *scriptSource {
	return &scriptSource{chunks: [][]byte{[]byte(s)}}
}

func (s *scriptSource) ReadByte() (byte, error) {
	for len(s.chunks) > 0 {
		if s.chunks[0] == nil {
			s.chunks = s.chunks[1:]
			return 0, ErrResize
		}
		if len(s.chunks[0]) == 0 {
			s.chunks = s.chunks[1:]
			continue
		}
		b := s.chunks[0][0]
		s.chunks[0] = s.chunks[0][1:]
		return b, nil
	}
	return 0, io.EOF
}

// ReadByteWithin only sees bytes in the current chunk; a chunk boundary
// behaves like a pause in typing.
func (s *scriptSource) ReadByteWithin(time.Duration) (byte, bool, error) {
	if len(s.chunks) == 0 || len(s.chunks[0]) == 0 {
		if len(s.chunks) > 0 && s.chunks[0] != nil {
			s.chunks = s.chunks[1:]
		}
		return 0, false, nil
	}
	b := s.chunks[0][0]
	s.chunks[0] = s.chunks[0][1:]
	return b, true, nil
}

func readAll(t *testing.T, d *Decoder) []Key {
	t.Helper()
	var keys []Key
	for {
		k, err := d.ReadKey()
		if errors.Is(err, io.EOF) {
			return keys
		}
		require.NoError(t, err)
		keys = append(keys, k)
	}
}

func TestDecodeKeys(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []Key
	}{
		{"ascii", "ab", []Key{'a', 'b'}},
		{"enter", "\r\n", []Key{KeyEnter, KeyEnter}},
		{"backspace", "\x7f\x08", []Key{KeyBackspace, KeyBackspace}},
		{"tab", "\t", []Key{KeyTab}},
		{"ctrl", "\x13\x11", []Key{Ctrl('s'), Ctrl('q')}},
		{"arrows", "\x1b[A\x1b[B\x1b[C\x1b[D", []Key{KeyArrowUp, KeyArrowDown, KeyArrowRight, KeyArrowLeft}},
		{"ss3 arrows", "\x1bOA\x1bOD", []Key{KeyArrowUp, KeyArrowLeft}},
		{"modified arrow", "\x1b[1;5C", []Key{KeyArrowRight}},
		{"tilde keys", "\x1b[3~\x1b[1~\x1b[4~\x1b[5~\x1b[6~", []Key{KeyDelete, KeyHome, KeyEnd, KeyPageUp, KeyPageDown}},
		{"home end", "\x1b[H\x1b[F", []Key{KeyHome, KeyEnd}},
		{"utf8", "é日🙂", []Key{'é', '日', '🙂'}},
		{"invalid utf8", "\xffa", []Key{KeyNone, 'a'}},
		{"alt letter", "\x1bx", []Key{KeyEsc}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := readAll(t, NewDecoder(bytesSource(tc.in)))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeBareEscape(t *testing.T) {
	src := &scriptSource{chunks: [][]byte{[]byte("\x1b"), []byte("a")}}
	got := readAll(t, NewDecoder(src))
	assert.Equal(t, []Key{KeyEsc, 'a'}, got)
}

func TestDecodeResize(t *testing.T) {
	src := &scriptSource{chunks: [][]byte{[]byte("a"), nil, []byte("b")}}
	got := readAll(t, NewDecoder(src))
	assert.Equal(t, []Key{'a', KeyResize, 'b'}, got)
}

func TestKeyRune(t *testing.T) {
	for _, k := range []Key{'a', ' ', '~', 'é', '日'} {
		_, ok := k.Rune()
		assert.True(t, ok, "%v should be printable", k)
	}
	for _, k := range []Key{KeyNone, KeyTab, KeyEnter, KeyEsc, KeyBackspace, Ctrl('s'), KeyArrowUp, KeyResize, 0x85} {
		_, ok := k.Rune()
		assert.False(t, ok, "%v should not be printable", k)
	}
}

func TestKeyString(t *testing.T) {
	cases := map[Key]string{
		Ctrl('s'):    "ctrl+s",
		KeyArrowUp:   "up",
		KeyResize:    "resize",
		'x':          "x",
		KeyEnter:     "enter",
		KeyBackspace: "backspace",
	}
	for k, want := range cases {
		assert.Equal(t, want, k.String(), "key %d", int(k))
	}
}
