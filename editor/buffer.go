// Package editor implements the in-memory text buffer behind the `edit`
// shell command: a contiguous, heap-backed character array with a cursor
// that insertion/deletion shift in place, plus vertical motion that
// projects the column onto the target line.
package editor

import (
	"fmt"

	"github.com/mango-os/mango/heap"
	"github.com/mango-os/mango/mfs"
	"github.com/mango-os/mango/mfs/textenc"
)

// growIncrement matches mfs's data-block payload size (508 bytes), so a
// buffer backing a file being edited grows in the same increments the
// file's on-disk block chain would.
const growIncrement = 508

// Buffer is a gap-free, heap-allocated character buffer with a cursor.
type Buffer struct {
	heap   *heap.Heap
	data   []byte // cap(data) is the allocated window; content lives in data[:length].
	length int

	pos     int // logical cursor, 0..length.
	column  int // desired column for vertical motion.
	x, y    int // cursor's column/line on screen.
	topLine int // first visible line, for scrolling.
}

// New creates an empty buffer backed by h.
func New(h *heap.Heap) *Buffer { return &Buffer{heap: h} }

// Open creates a buffer pre-populated with content, as when loading a file
// for editing. content must be 7-bit ASCII; the editor has no terminal
// support for anything wider.
func Open(h *heap.Heap, content []byte) (*Buffer, error) {
	if err := textenc.ValidateASCII(content); err != nil {
		return nil, fmt.Errorf("editor: %w", err)
	}
	b := &Buffer{heap: h}
	if err := b.ensureCapacity(len(content)); err != nil {
		return nil, err
	}
	copy(b.data, content)
	b.length = len(content)
	return b, nil
}

func roundUpGrowIncrement(n int) int {
	if n == 0 {
		return growIncrement
	}
	if n%growIncrement == 0 {
		return n
	}
	return (n/growIncrement + 1) * growIncrement
}

func (b *Buffer) ensureCapacity(want int) error {
	if want <= len(b.data) {
		return nil
	}
	newCap := roundUpGrowIncrement(want)
	if b.data == nil {
		buf, err := b.heap.Alloc(newCap)
		if err != nil {
			return err
		}
		b.data = buf
		return nil
	}
	buf, err := b.heap.Realloc(b.data, newCap)
	if err != nil {
		return err
	}
	b.data = buf
	return nil
}

// Content returns the buffer's live bytes.
func (b *Buffer) Content() []byte { return b.data[:b.length] }

// Len returns the number of live bytes.
func (b *Buffer) Len() int { return b.length }

// Pos returns the cursor's absolute byte offset.
func (b *Buffer) Pos() int { return b.pos }

// Cursor returns the cursor's (x, y, topLine) screen position.
func (b *Buffer) Cursor() (x, y, topLine int) { return b.x, b.y, b.topLine }

// Insert writes ch at the cursor, shifting the tail rightward, growing the
// backing allocation in growIncrement-byte steps when out of room.
func (b *Buffer) Insert(ch byte) error {
	if err := b.ensureCapacity(b.length + 1); err != nil {
		return err
	}
	copy(b.data[b.pos+1:b.length+1], b.data[b.pos:b.length])
	b.data[b.pos] = ch
	b.length++
	b.pos++
	b.recomputeCursor()
	return nil
}

// Backspace removes the byte immediately before the cursor, shifting the
// tail leftward. A no-op at the start of the buffer.
func (b *Buffer) Backspace() {
	if b.pos == 0 {
		return
	}
	copy(b.data[b.pos-1:b.length-1], b.data[b.pos:b.length])
	b.length--
	b.pos--
	b.recomputeCursor()
}

// MoveTo relocates the cursor to an arbitrary absolute offset, clamped to
// [0, length].
func (b *Buffer) MoveTo(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > b.length {
		pos = b.length
	}
	b.pos = pos
	b.recomputeCursor()
}

// lineStart returns the offset of line's first byte (line is 0-indexed).
// A line past the buffer's last line returns b.length.
func (b *Buffer) lineStart(line int) int {
	if line <= 0 {
		return 0
	}
	seen := 0
	for i := 0; i < b.length; i++ {
		if b.data[i] == '\n' {
			seen++
			if seen == line {
				return i + 1
			}
		}
	}
	return b.length
}

// lineEnd returns the offset just past line's last byte, excluding the
// trailing newline.
func (b *Buffer) lineEnd(line int) int {
	start := b.lineStart(line)
	for i := start; i < b.length; i++ {
		if b.data[i] == '\n' {
			return i
		}
	}
	return b.length
}

func (b *Buffer) lineCount() int {
	n := 1
	for i := 0; i < b.length; i++ {
		if b.data[i] == '\n' {
			n++
		}
	}
	return n
}

func (b *Buffer) recomputeCursor() {
	y := 0
	for i := 0; i < b.pos; i++ {
		if b.data[i] == '\n' {
			y++
		}
	}
	start := b.lineStart(y)
	b.y = y
	b.x = b.pos - start
	b.column = b.x
	if b.y < b.topLine {
		b.topLine = b.y
	}
}

// MoveUp moves the cursor up one line, projecting the desired column onto
// the target line and clamping to its length.
func (b *Buffer) MoveUp() {
	y := b.y
	if y == 0 {
		return
	}
	b.moveToLine(y - 1)
}

// MoveDown moves the cursor down one line, same clamping rule as MoveUp.
func (b *Buffer) MoveDown() {
	y := b.y
	if y >= b.lineCount()-1 {
		return
	}
	b.moveToLine(y + 1)
}

func (b *Buffer) moveToLine(line int) {
	start := b.lineStart(line)
	end := b.lineEnd(line)
	col := b.column
	if col > end-start {
		col = end - start
	}
	b.pos = start + col
	b.y = line
	b.x = col
	if b.y < b.topLine {
		b.topLine = b.y
	}
}

// Save writes the buffer's full content back through fs, per C4's
// file_write.
func (b *Buffer) Save(fs *mfs.FS, path string) error {
	return fs.WriteFile(path, b.Content())
}
