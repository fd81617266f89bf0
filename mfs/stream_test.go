package mfs

import (
	"io"
	"testing"

	"github.com/mango-os/mango/blockdev/memdev"
)

func newStreamTestFS(t *testing.T) *FS {
	t.Helper()
	dev := memdev.New(4096)
	fs := New(dev, Config{Clock: FixedClock(0)})
	if err := fs.Format(4096, true); err != nil {
		t.Fatalf("Format: %v", err)
	}
	return fs
}

func TestStreamGetcPeekPutc(t *testing.T) {
	fs := newStreamTestFS(t)
	fs.CreateFile("/f")

	w, err := fs.OpenStream("/f", ModeWrite)
	if err != nil {
		t.Fatalf("OpenStream write: %v", err)
	}
	for _, c := range []byte("abc") {
		if err := w.Putc(c); err != nil {
			t.Fatalf("Putc: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := fs.OpenStream("/f", ModeRead)
	if err != nil {
		t.Fatalf("OpenStream read: %v", err)
	}
	peeked, err := r.Peek()
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if peeked != 'a' {
		t.Fatalf("Peek got %q, want 'a'", peeked)
	}
	got, err := r.Getc()
	if err != nil {
		t.Fatalf("Getc: %v", err)
	}
	if got != 'a' {
		t.Fatalf("Getc got %q, want 'a'", got)
	}
	got, _ = r.Getc()
	if got != 'b' {
		t.Fatalf("second Getc got %q, want 'b'", got)
	}
}

func TestStreamReadPastEndIsEOF(t *testing.T) {
	fs := newStreamTestFS(t)
	fs.CreateFile("/f")
	fs.WriteFile("/f", []byte("x"))
	r, err := fs.OpenStream("/f", ModeRead)
	if err != nil {
		t.Fatalf("OpenStream: %v", err)
	}
	// "x" occupies one block; the rest of the block is zero-padding, so EOF
	// only hits once the whole block has been read.
	buf := make([]byte, dataPayloadSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		t.Fatalf("ReadFull: %v", err)
	}
	if _, err := r.Getc(); err != io.EOF {
		t.Fatalf("got %v, want io.EOF", err)
	}
}

func TestStreamSpansMultipleBlocks(t *testing.T) {
	fs := newStreamTestFS(t)
	fs.CreateFile("/f")
	data := make([]byte, dataPayloadSize*3+17)
	for i := range data {
		data[i] = byte(i % 251)
	}
	if err := fs.WriteFile("/f", data); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := fs.ReadFile("/f")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	wantLen := dataPayloadSize * 4 // 3 full blocks plus one more for the 17 leftover bytes.
	if len(got) != wantLen {
		t.Fatalf("got %d bytes want %d", len(got), wantLen)
	}
	for i := range data {
		if got[i] != data[i] {
			t.Fatalf("mismatch at %d: got %d want %d", i, got[i], data[i])
		}
	}
	for i := len(data); i < wantLen; i++ {
		if got[i] != 0 {
			t.Fatalf("tail byte %d = %d, want 0 padding", i, got[i])
		}
	}
}

func TestWriteFileTruncatesExisting(t *testing.T) {
	fs := newStreamTestFS(t)
	fs.CreateFile("/f")
	fs.WriteFile("/f", make([]byte, dataPayloadSize*2))
	if err := fs.WriteFile("/f", []byte("short")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := fs.ReadFile("/f")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(got) != dataPayloadSize {
		t.Fatalf("got %d bytes, want %d (one block)", len(got), dataPayloadSize)
	}
	if string(got[:len("short")]) != "short" {
		t.Fatalf("got %q, want prefix %q", got[:len("short")], "short")
	}
	for i := len("short"); i < len(got); i++ {
		if got[i] != 0 {
			t.Fatalf("tail byte %d = %d, want 0 padding", i, got[i])
		}
	}
}
