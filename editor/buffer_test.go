package editor

import (
	"testing"

	"github.com/mango-os/mango/heap"
	"github.com/mango-os/mango/mfs"
	"github.com/mango-os/mango/blockdev/memdev"
)

func newTestHeap(t *testing.T) *heap.Heap {
	t.Helper()
	return heap.New(make([]byte, 1<<16))
}

func TestInsertShiftsTailRight(t *testing.T) {
	b, err := Open(newTestHeap(t), []byte("ac"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	b.MoveTo(1)
	if err := b.Insert('b'); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if string(b.Content()) != "abc" {
		t.Fatalf("got %q, want %q", b.Content(), "abc")
	}
}

func TestBackspaceShiftsTailLeft(t *testing.T) {
	b, err := Open(newTestHeap(t), []byte("abc"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	b.MoveTo(2)
	b.Backspace()
	if string(b.Content()) != "ac" {
		t.Fatalf("got %q, want %q", b.Content(), "ac")
	}
}

func TestBackspaceAtStartIsNoop(t *testing.T) {
	b, err := Open(newTestHeap(t), []byte("abc"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	b.MoveTo(0)
	b.Backspace()
	if string(b.Content()) != "abc" {
		t.Fatalf("got %q, want unchanged %q", b.Content(), "abc")
	}
}

func TestGrowsPastSingleIncrement(t *testing.T) {
	b := New(newTestHeap(t))
	for i := 0; i < growIncrement+10; i++ {
		if err := b.Insert('x'); err != nil {
			t.Fatalf("Insert at %d: %v", i, err)
		}
	}
	if b.Len() != growIncrement+10 {
		t.Fatalf("got length %d, want %d", b.Len(), growIncrement+10)
	}
}

func TestVerticalMotionClampsColumn(t *testing.T) {
	b, err := Open(newTestHeap(t), []byte("long line\nx\nanother long line"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	b.MoveTo(5) // column 5 on line 0 ("long line").
	b.MoveDown()
	if _, y, _ := b.Cursor(); y != 1 {
		t.Fatalf("y = %d, want 1", y)
	}
	if b.Pos() != b.lineStart(1)+1 { // "x" is only 1 char long; column clamps to 1.
		t.Fatalf("pos = %d, want clamped to line 1's length", b.Pos())
	}
	b.MoveDown()
	if _, y, _ := b.Cursor(); y != 2 {
		t.Fatalf("y = %d, want 2", y)
	}
}

func TestSaveWritesThroughFS(t *testing.T) {
	dev := memdev.New(4096)
	fs := mfs.New(dev, mfs.Config{})
	if err := fs.Format(4096, true); err != nil {
		t.Fatalf("Format: %v", err)
	}
	if _, err := fs.CreateFile("/doc"); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	b, err := Open(newTestHeap(t), []byte("hello"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := b.Save(fs, "/doc"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := fs.ReadFile("/doc")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got[:len("hello")]) != "hello" {
		t.Fatalf("got %q, want prefix %q", got, "hello")
	}
}
