// Package app runs an editing session: it reads keys, applies the commands
// they map to, and resolves saving and quitting with the user.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"linea/internal/buffer"
	"linea/internal/render"
	"linea/internal/store"
	"linea/internal/term"
)

// MessageTTL is how long a status message stays in the message bar.
const MessageTTL = 5 * time.Second

// Input yields decoded key presses.
type Input interface {
	ReadKey() (term.Key, error)
}

// Screen paints frames.
type Screen interface {
	Draw(render.Frame) error
	PlaceCursor(render.Frame) error
	Resize()
}

// Store loads and saves file content.
type Store interface {
	Load(path string) ([]string, error)
	Save(path string, data []byte) error
}

// Options configures an Editor. Zero values select the defaults.
type Options struct {
	Keys   Keymap
	Logger *slog.Logger
	Now    func() time.Time
}

// Editor drives one session over one file.
type Editor struct {
	sess     *buffer.Session
	filename string
	in       Input
	screen   Screen
	store    Store
	keys     Keymap
	log      *slog.Logger
	now      func() time.Time

	msg       string
	msgTime   time.Time
	prompting bool
}

// New loads path through st and returns an editor ready to Run. An empty
// path starts an unnamed, empty buffer.
func New(path string, in Input, screen Screen, st Store, opts Options) (*Editor, error) {
	lines, err := st.Load(path)
	if err != nil {
		return nil, err
	}
	e := &Editor{
		sess:     buffer.NewSession(lines),
		filename: path,
		in:       in,
		screen:   screen,
		store:    st,
		keys:     opts.Keys,
		log:      opts.Logger,
		now:      opts.Now,
	}
	if e.keys == (Keymap{}) {
		e.keys = DefaultKeymap()
	}
	if e.log == nil {
		e.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if e.now == nil {
		e.now = time.Now
	}
	e.log.Info("open", "file", path, "lines", e.sess.LineCount())
	if path != "" {
		e.setStatus("%q %dL", path, e.sess.LineCount())
	}
	return e, nil
}

func (e *Editor) Session() *buffer.Session { return e.sess }
func (e *Editor) Filename() string { return e.filename }

// Message returns the current status message, expired or not.
func (e *Editor) Message() string { return e.msg }

func (e *Editor) setStatus(format string, args ...any) {
	e.msg = fmt.Sprintf(format, args...)
	e.msgTime = e.now()
}

func (e *Editor) frame() render.Frame {
	f := render.Frame{
		Doc:      e.sess,
		Cursor:   e.sess.Cursor(),
		Filename: e.filename,
		Dirty:    e.sess.Dirty(),
		Prompt:   e.prompting,
	}
	if e.prompting || e.now().Sub(e.msgTime) < MessageTTL {
		f.Message = e.msg
	}
	return f
}

func (e *Editor) draw() error {
	return e.screen.Draw(e.frame())
}

func (e *Editor) readKey() (term.Key, error) {
	for {
		k, err := e.in.ReadKey()
		if err != nil {
			return term.KeyNone, fmt.Errorf("read key: %w", err)
		}
		if k != term.KeyResize {
			return k, nil
		}
		e.screen.Resize()
		if err := e.draw(); err != nil {
			return term.KeyNone, err
		}
	}
}

// Run processes keys until the session ends. It returns nil after a quit and
// the input error if the key stream fails first.
func (e *Editor) Run() error {
	if err := e.draw(); err != nil {
		return err
	}
	for {
		k, err := e.readKey()
		if err != nil {
			return err
		}
		cmd, ok := e.keys.Command(k)
		if !ok {
			continue
		}
		done, err := e.Apply(cmd)
		if err != nil || done {
			return err
		}
	}
}

// Apply runs one command, resolves Save and Quit interactively, and updates
// the screen. done reports that the session has ended.
func (e *Editor) Apply(cmd buffer.Command) (done bool, err error) {
	res := e.sess.Apply(cmd)
	cur := e.sess.Cursor()
	e.log.Debug("command", "cmd", cmd.String(), "line", cur.Line, "col", cur.Col, "dirty", e.sess.Dirty())
	switch {
	case res.Save != nil:
		if _, err := e.save(res.Save); err != nil {
			return false, err
		}
	case res.Quit == buffer.QuitNow:
		e.log.Info("quit", "file", e.filename)
		return true, nil
	case res.Quit == buffer.QuitNeedsDecision:
		done, err := e.resolveQuit()
		if err != nil || done {
			return done, err
		}
	case res.Edited:
	case res.Moved:
		return false, e.screen.PlaceCursor(e.frame())
	default:
		return false, nil
	}
	return false, e.draw()
}

// save writes snap, asking for a file name first when there is none. ok is
// false when the user aborted or the write failed; the session keeps going
// either way.
func (e *Editor) save(snap *buffer.Snapshot) (ok bool, err error) {
	name := e.filename
	if name == "" {
		input, entered, err := e.prompt("Save as: ")
		if err != nil {
			return false, err
		}
		if !entered {
			e.setStatus("Save aborted")
			return false, nil
		}
		name, err = store.Normalize(input)
		if err != nil {
			e.setStatus("Can't resolve path: %s", store.Reason(err))
			return false, nil
		}
		if err := store.Validate(name); err != nil {
			e.setStatus("Invalid filename for saving")
			return false, nil
		}
	}
	data := snap.Bytes()
	if err := e.store.Save(name, data); err != nil {
		e.log.Error("save_error", "file", name, "err", err)
		e.setStatus("Can't save! I/O error: %s", store.Reason(err))
		return false, nil
	}
	e.filename = name
	e.sess.MarkSaved(snap.Revision)
	e.log.Info("save", "file", name, "lines", len(snap.Lines), "bytes", len(data))
	e.setStatus("%q %dL, %dB written", name, len(snap.Lines), len(data))
	return true, nil
}

// resolveQuit asks whether to save a dirty buffer before quitting. y saves
// and quits, n discards and quits, Esc or Ctrl+C returns to editing.
func (e *Editor) resolveQuit() (done bool, err error) {
	e.prompting = true
	e.setStatus("Unsaved changes. Save before quitting? (y/n/Esc)")
	for {
		if err := e.draw(); err != nil {
			e.prompting = false
			return false, err
		}
		k, err := e.readKey()
		if err != nil {
			e.prompting = false
			return false, err
		}
		switch k {
		case 'y', 'Y':
			e.prompting = false
			e.setStatus("")
			ok, err := e.save(e.sess.Apply(buffer.Save).Save)
			if err != nil || !ok {
				return false, err
			}
			e.log.Info("quit", "file", e.filename)
			return true, nil
		case 'n', 'N':
			e.prompting = false
			e.log.Info("quit", "file", e.filename, "discarded", true)
			return true, nil
		case term.KeyEsc, term.Ctrl('c'):
			e.prompting = false
			e.setStatus("")
			return false, nil
		}
	}
}

// prompt reads a line of input in the message bar. Enter accepts a
// non-empty answer; Esc or Ctrl+C cancels.
func (e *Editor) prompt(label string) (answer string, ok bool, err error) {
	e.prompting = true
	defer func() { e.prompting = false }()
	var input []rune
	for {
		e.setStatus("%s%s", label, string(input))
		if err := e.draw(); err != nil {
			return "", false, err
		}
		k, err := e.readKey()
		if err != nil {
			return "", false, err
		}
		switch k {
		case term.KeyEsc, term.Ctrl('c'):
			e.setStatus("")
			return "", false, nil
		case term.KeyEnter:
			if len(input) > 0 {
				e.setStatus("")
				return string(input), true, nil
			}
		case term.KeyBackspace, term.KeyDelete:
			if len(input) > 0 {
				input = input[:len(input)-1]
			}
		default:
			if r, ok := k.Rune(); ok {
				input = append(input, r)
			}
		}
	}
}
