// Package buffer implements the line buffer and cursor model of the editor.
//
// Coordinates are 0-based (Line, Col) counted in runes, never in display
// cells. Col may equal the line length, meaning "after the last rune".
// A buffer always holds at least one line.
package buffer
