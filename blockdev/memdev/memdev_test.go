package memdev

import (
	"bytes"
	"testing"

	"github.com/mango-os/mango/blockdev"
)

func TestReadWriteRoundtrip(t *testing.T) {
	d := New(4)
	want := bytes.Repeat([]byte{0x7E}, blockdev.SectorSize)
	if err := d.WriteSector(2, want); err != nil {
		t.Fatalf("WriteSector: %v", err)
	}
	got := make([]byte, blockdev.SectorSize)
	if err := d.ReadSector(2, got); err != nil {
		t.Fatalf("ReadSector: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatal("roundtrip mismatch")
	}
	// Untouched sectors stay zeroed.
	if err := d.ReadSector(0, got); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, make([]byte, blockdev.SectorSize)) {
		t.Fatal("sector 0 should be zeroed")
	}
}

func TestOutOfRange(t *testing.T) {
	d := New(2)
	err := d.ReadSector(5, make([]byte, blockdev.SectorSize))
	if err != blockdev.ErrOutOfRange {
		t.Fatalf("err = %v, want ErrOutOfRange", err)
	}
}

func TestShortBuffer(t *testing.T) {
	d := New(2)
	err := d.WriteSector(0, make([]byte, 10))
	if err != blockdev.ErrShortBuffer {
		t.Fatalf("err = %v, want ErrShortBuffer", err)
	}
}

func TestNewFromBytesRejectsUnaligned(t *testing.T) {
	_, err := NewFromBytes(make([]byte, 100))
	if err == nil {
		t.Fatal("expected error for unaligned buffer")
	}
}
