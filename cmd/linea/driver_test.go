package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/require"
)

// buildLinea compiles the editor into a temp dir.
func buildLinea(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping end-to-end test in short mode")
	}
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go tool not found")
	}
	root, err := filepath.Abs(filepath.Join("..", ".."))
	require.NoError(t, err)
	bin := filepath.Join(t.TempDir(), "linea")
	cmd := exec.Command("go", "build", "-o", bin, "./cmd/linea")
	cmd.Dir = root
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "build failed:\n%s", out)
	return bin
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// driver runs the editor on a pseudo terminal and types into it.
type driver struct {
	t    *testing.T
	pty  *os.File
	cmd  *exec.Cmd
	out  *syncBuffer
	done chan error
}

// startLinea runs bin in dir so file names stay short enough to fit the
// message bar.
func startLinea(t *testing.T, bin, dir string, args ...string) *driver {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"LINEA_CONFIG="+filepath.Join(t.TempDir(), "none.yaml"),
		"LINEA_LOG=0",
		"LINEA_LOG_FILE=",
	)
	f, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: 24, Cols: 80})
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	d := &driver{t: t, pty: f, cmd: cmd, out: &syncBuffer{}, done: make(chan error, 1)}
	ready := make(chan struct{})
	go func() {
		buf := make([]byte, 8192)
		first := true
		for {
			n, err := f.Read(buf)
			if n > 0 {
				d.out.Write(buf[:n])
				if first {
					close(ready)
					first = false
				}
			}
			if err != nil {
				return
			}
		}
	}()
	go func() { d.done <- cmd.Wait() }()
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		f.Close()
	})

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		require.FailNow(t, "linea did not draw within 5s")
	}
	return d
}

func (d *driver) send(keys string) {
	d.t.Helper()
	_, err := d.pty.Write(convertKeys(keys))
	require.NoError(d.t, err, "write keys")
}

func (d *driver) waitFor(s string) {
	d.t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(d.out.String(), s) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.FailNowf(d.t, "timed out", "waiting for %q; screen output:\n%q", s, d.out.String())
}

func (d *driver) wait() error {
	d.t.Helper()
	select {
	case err := <-d.done:
		return err
	case <-time.After(5 * time.Second):
		require.FailNow(d.t, "linea did not exit")
		return nil
	}
}

// convertKeys expands <CR>, <BS>, <ESC>, arrows and <C-x> notation.
func convertKeys(keys string) []byte {
	var out []byte
	for i := 0; i < len(keys); i++ {
		if keys[i] == '<' {
			if end := strings.IndexByte(keys[i:], '>'); end != -1 {
				out = append(out, specialKeyBytes(keys[i+1:i+end])...)
				i += end
				continue
			}
		}
		out = append(out, keys[i])
	}
	return out
}

func specialKeyBytes(key string) []byte {
	switch key {
	case "CR":
		return []byte("\r")
	case "BS":
		return []byte("\x7f")
	case "ESC":
		return []byte("\x1b")
	case "Up":
		return []byte("\x1b[A")
	case "Down":
		return []byte("\x1b[B")
	case "Right":
		return []byte("\x1b[C")
	case "Left":
		return []byte("\x1b[D")
	}
	if strings.HasPrefix(key, "C-") && len(key) == 3 {
		return []byte{key[2] & 0x1f}
	}
	panic(fmt.Sprintf("unknown key <%s>", key))
}
