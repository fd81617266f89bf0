package image

import (
	"bytes"
	"testing"

	"github.com/mango-os/mango/blockdev/memdev"
	"github.com/mango-os/mango/mfs"
)

func TestSnapshotRestoreRoundtrip(t *testing.T) {
	const sectors = 4096
	src := memdev.New(sectors)
	fs := mfs.New(src, mfs.Config{})
	if err := fs.Format(sectors, true); err != nil {
		t.Fatalf("Format: %v", err)
	}
	if _, err := fs.CreateFile("/greeting"); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	if err := fs.WriteFile("/greeting", []byte("hello, snapshot")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var buf bytes.Buffer
	if err := Snapshot(&buf, src, sectors); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	dst := memdev.New(sectors)
	if err := Restore(dst, &buf); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if !bytes.Equal(src.Bytes(), dst.Bytes()) {
		t.Fatal("restored image bytes differ from source")
	}

	restoredFS := mfs.New(dst, mfs.Config{})
	if err := restoredFS.Mount(); err != nil {
		t.Fatalf("Mount restored image: %v", err)
	}
	got, err := restoredFS.ReadFile("/greeting")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "hello, snapshot"
	if string(got[:len(want)]) != want {
		t.Fatalf("got %q, want prefix %q", got, want)
	}
}
