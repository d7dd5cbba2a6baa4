package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestTypeSaveAndQuit(t *testing.T) {
	bin := buildLinea(t)
	dir := t.TempDir()
	d := startLinea(t, bin, dir, "hi.txt")
	d.send("hi<C-s>")
	d.waitFor("written")
	d.send("<C-q>")
	require.NoError(t, d.wait())
	assert.Equal(t, "hi\n", readFile(t, filepath.Join(dir, "hi.txt")))
}

func TestSplitAndMergeOnDisk(t *testing.T) {
	bin := buildLinea(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "split.txt")
	require.NoError(t, os.WriteFile(path, []byte("abcdef\n"), 0o644))

	d := startLinea(t, bin, dir, "split.txt")
	d.send("<Right><Right><Right><CR><C-s>")
	d.waitFor("2L, 8B written")
	assert.Equal(t, "abc\ndef\n", readFile(t, path), "after split")

	d.send("<BS><C-s>")
	d.waitFor("1L, 7B written")
	d.send("<C-q>")
	require.NoError(t, d.wait())
	assert.Equal(t, "abcdef\n", readFile(t, path), "after merge")
}

func TestParentPathWithParentheses(t *testing.T) {
	bin := buildLinea(t)
	parent := t.TempDir()
	dir := filepath.Join(parent, "work")
	require.NoError(t, os.Mkdir(dir, 0o755))
	path := filepath.Join(parent, "n (1).txt")
	require.NoError(t, os.WriteFile(path, []byte("ab\n"), 0o644))

	d := startLinea(t, bin, dir, "../n (1).txt")
	d.send("<Right><Right>c<C-s>")
	d.waitFor("1L, 4B written")
	d.send("<C-q>")
	require.NoError(t, d.wait())
	assert.Equal(t, "abc\n", readFile(t, path))
}

func TestQuitDiscardKeepsFile(t *testing.T) {
	bin := buildLinea(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "keep.txt")
	require.NoError(t, os.WriteFile(path, []byte("original\n"), 0o644))

	d := startLinea(t, bin, dir, "keep.txt")
	d.send("changes<C-q>")
	d.waitFor("Unsaved changes")
	d.send("n")
	require.NoError(t, d.wait())
	assert.Equal(t, "original\n", readFile(t, path), "file modified on discard")
}

func TestSaveAsPrompt(t *testing.T) {
	bin := buildLinea(t)
	dir := t.TempDir()
	d := startLinea(t, bin, dir)
	d.send("new<C-s>")
	d.waitFor("Save as: ")
	d.send("named.txt<CR>")
	d.waitFor("written")
	d.send("<C-q>")
	require.NoError(t, d.wait())
	assert.Equal(t, "new\n", readFile(t, filepath.Join(dir, "named.txt")))
}

func TestRequiresTTY(t *testing.T) {
	bin := buildLinea(t)
	cmd := exec.Command(bin)
	cmd.Env = append(os.Environ(), "LINEA_CONFIG="+filepath.Join(t.TempDir(), "none.yaml"))
	cmd.Stdin = strings.NewReader("")
	out, err := cmd.CombinedOutput()
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, string(out), "requires a TTY")
}

func TestVersionFlag(t *testing.T) {
	bin := buildLinea(t)
	cmd := exec.Command(bin, "--version")
	cmd.Env = append(os.Environ(), "LINEA_CONFIG="+filepath.Join(t.TempDir(), "none.yaml"))
	done := make(chan struct{})
	var out []byte
	var err error
	go func() {
		out, err = cmd.Output()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		require.FailNow(t, "--version hung")
	}
	require.NoError(t, err)
	assert.Equal(t, "linea dev", strings.TrimSpace(string(out)))
}
