package heap

import (
	"bytes"
	"testing"
)

func TestAllocBasic(t *testing.T) {
	h := New(make([]byte, 4096))
	a, err := h.Alloc(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 16 { // rounded up to alignment.
		t.Fatalf("len(a) = %d, want 16", len(a))
	}
	b, err := h.Alloc(32)
	if err != nil {
		t.Fatal(err)
	}
	copy(a, bytes.Repeat([]byte{0x11}, len(a)))
	copy(b, bytes.Repeat([]byte{0x22}, len(b)))
	if a[0] != 0x11 || b[0] != 0x22 {
		t.Fatal("allocations overlap")
	}
}

func TestFreeAndReuse(t *testing.T) {
	h := New(make([]byte, 4096))
	a, _ := h.Alloc(64)
	if err := h.Free(a); err != nil {
		t.Fatal(err)
	}
	b, err := h.Alloc(64)
	if err != nil {
		t.Fatal(err)
	}
	if &a[0] != &b[0] {
		t.Fatal("expected reuse of freed block of identical size")
	}
}

func TestCoalesceAdjacentFreeBlocks(t *testing.T) {
	h := New(make([]byte, 4096))
	a, _ := h.Alloc(32)
	b, _ := h.Alloc(32)
	_ = b
	if err := h.Free(b); err != nil {
		t.Fatal(err)
	}
	if err := h.Free(a); err != nil {
		t.Fatal(err)
	}
	stats := h.Stats()
	if stats.Blocks != 1 {
		t.Fatalf("Blocks = %d, want 1 after coalescing two adjacent free blocks", stats.Blocks)
	}
}

func TestOutOfMemory(t *testing.T) {
	h := New(make([]byte, 64))
	_, err := h.Alloc(1000)
	if err != ErrOutOfMemory {
		t.Fatalf("err = %v, want ErrOutOfMemory", err)
	}
}

func TestReallocGrow(t *testing.T) {
	h := New(make([]byte, 4096))
	a, _ := h.Alloc(16)
	copy(a, []byte("hello world12345"[:16]))
	b, err := h.Realloc(a, 64)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b[:16], []byte("hello world12345"[:16])) {
		t.Fatal("realloc did not preserve original contents")
	}
}

func TestReallocShrinkCopiesNoMoreThanSmaller(t *testing.T) {
	h := New(make([]byte, 4096))
	a, _ := h.Alloc(64)
	copy(a, bytes.Repeat([]byte{0x9}, 64))
	b, err := h.Realloc(a, 8)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != 8 {
		t.Fatalf("len(b) = %d, want 8", len(b))
	}
}

func TestStats(t *testing.T) {
	h := New(make([]byte, 4096))
	h.Alloc(100)
	s := h.Stats()
	if s.Used == 0 {
		t.Fatal("expected nonzero used bytes")
	}
}
