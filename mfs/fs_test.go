package mfs

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mango-os/mango/blockdev/memdev"
)

func newTestFS(t *testing.T) *FS {
	t.Helper()
	dev := memdev.New(4096)
	fs := New(dev, Config{Clock: FixedClock(0)})
	if err := fs.Format(4096, true); err != nil {
		t.Fatalf("Format: %v", err)
	}
	return fs
}

func TestFormatRequiresConfirm(t *testing.T) {
	dev := memdev.New(4096)
	fs := New(dev, Config{})
	if err := fs.Format(4096, false); err != ResultFormatNotConfirmed {
		t.Fatalf("got %v, want ResultFormatNotConfirmed", err)
	}
}

func TestMountUnformattedDisk(t *testing.T) {
	dev := memdev.New(4096)
	fs := New(dev, Config{})
	if err := fs.Mount(); err != ResultNotFormatted {
		t.Fatalf("got %v, want ResultNotFormatted", err)
	}
}

func TestCreateFileAndStat(t *testing.T) {
	fs := newTestFS(t)
	if _, err := fs.CreateFile("/hello.txt"); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	info, err := fs.Stat("/hello.txt")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Name != "hello.txt" || info.IsFolder {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestCreateDuplicateNameFails(t *testing.T) {
	fs := newTestFS(t)
	if _, err := fs.CreateFile("/a"); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	if _, err := fs.CreateFile("/a"); err != ResultExists {
		t.Fatalf("got %v, want ResultExists", err)
	}
}

func TestWriteReadRoundtrip(t *testing.T) {
	fs := newTestFS(t)
	if _, err := fs.CreateFile("/big.bin"); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	data := make([]byte, 3000)
	for i := range data {
		data[i] = byte(i)
	}
	if err := fs.WriteFile("/big.bin", data); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := fs.ReadFile("/big.bin")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	// The stored length is a whole number of data blocks (§4.4): 3000 bytes
	// needs 6 blocks of dataPayloadSize, leaving a zero-padded tail.
	wantBlocks := (uint32(len(data)) + dataPayloadSize - 1) / dataPayloadSize
	wantLen := int(wantBlocks * dataPayloadSize)
	if len(got) != wantLen {
		t.Fatalf("got %d bytes, want %d", len(got), wantLen)
	}
	for i := range data {
		if got[i] != data[i] {
			t.Fatalf("mismatch at byte %d: got %d want %d", i, got[i], data[i])
		}
	}
	for i := len(data); i < wantLen; i++ {
		if got[i] != 0 {
			t.Fatalf("tail byte %d = %d, want 0 padding", i, got[i])
		}
	}
}

func TestAppendFile(t *testing.T) {
	fs := newTestFS(t)
	fs.CreateFile("/log")
	fs.WriteFile("/log", []byte("one"))
	if err := fs.AppendFile("/log", []byte("two")); err != nil {
		t.Fatalf("AppendFile: %v", err)
	}
	got, err := fs.ReadFile("/log")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	// Append starts past the last whole block, not at the byte "one" stopped
	// writing at, so the result is "one" + zero padding + "two" + padding,
	// spanning two blocks.
	wantLen := int(2 * dataPayloadSize)
	if len(got) != wantLen {
		t.Fatalf("got %d bytes, want %d", len(got), wantLen)
	}
	if string(got[:3]) != "one" {
		t.Fatalf("got %q, want prefix %q", got[:3], "one")
	}
	if string(got[dataPayloadSize:dataPayloadSize+3]) != "two" {
		t.Fatalf("second block = %q, want prefix %q", got[dataPayloadSize:dataPayloadSize+3], "two")
	}
}

func TestCreateFolderAndListDir(t *testing.T) {
	fs := newTestFS(t)
	fs.CreateFolder("/dir")
	fs.CreateFile("/dir/a")
	fs.CreateFile("/dir/b")
	entries, err := fs.ListDir("/dir")
	if err != nil {
		t.Fatalf("ListDir: %v", err)
	}
	if len(entries) != 2 || entries[0].Name != "a" || entries[1].Name != "b" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestDeleteFileFreesSectors(t *testing.T) {
	fs := newTestFS(t)
	fs.CreateFile("/x")
	fs.WriteFile("/x", make([]byte, 2000))
	before, _ := fs.Usage()
	if err := fs.DeleteFile("/x"); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	after, _ := fs.Usage()
	if after.Used >= before.Used {
		t.Fatalf("expected Used to drop, before=%d after=%d", before.Used, after.Used)
	}
	if _, err := fs.Stat("/x"); err != ResultNoFile {
		t.Fatalf("got %v, want ResultNoFile", err)
	}
}

func TestDeleteFolderNonEmptyRejected(t *testing.T) {
	fs := newTestFS(t)
	fs.CreateFolder("/d")
	fs.CreateFile("/d/a")
	if err := fs.DeleteFolder("/d", false); err != ResultNotEmpty {
		t.Fatalf("got %v, want ResultNotEmpty", err)
	}
	if err := fs.DeleteFolder("/d", true); err != nil {
		t.Fatalf("recursive DeleteFolder: %v", err)
	}
}

func TestDeleteRootRejected(t *testing.T) {
	fs := newTestFS(t)
	if err := fs.DeleteFolder("/", true); err != ResultIsRoot {
		t.Fatalf("got %v, want ResultIsRoot", err)
	}
}

func TestGotoGoupWhereami(t *testing.T) {
	fs := newTestFS(t)
	fs.CreateFolder("/a")
	fs.CreateFolder("/a/b")
	if err := fs.Goto("/a/b"); err != nil {
		t.Fatalf("Goto: %v", err)
	}
	where, err := fs.Whereami()
	if err != nil {
		t.Fatalf("Whereami: %v", err)
	}
	if where != "/a/b" {
		t.Fatalf("got %q, want /a/b", where)
	}
	if err := fs.Goup(); err != nil {
		t.Fatalf("Goup: %v", err)
	}
	where, _ = fs.Whereami()
	if where != "/a" {
		t.Fatalf("got %q, want /a", where)
	}
}

func TestAbsPathMatchesResolve(t *testing.T) {
	fs := newTestFS(t)
	fs.CreateFolder("/a")
	fs.CreateFile("/a/f")
	sector, res := fs.resolve("/a/f")
	if res != ResultOK {
		t.Fatalf("resolve: %v", res)
	}
	got, err := fs.AbsPath(sector)
	if err != nil {
		t.Fatalf("AbsPath: %v", err)
	}
	if got != "/a/f" {
		t.Fatalf("got %q, want /a/f", got)
	}
}

func TestMoveFileIsCheap(t *testing.T) {
	fs := newTestFS(t)
	fs.CreateFolder("/src")
	fs.CreateFolder("/dst")
	fs.CreateFile("/src/f")
	fs.WriteFile("/src/f", []byte("payload"))
	if err := fs.MoveFile("/src/f", "/dst/f"); err != nil {
		t.Fatalf("MoveFile: %v", err)
	}
	if _, err := fs.Stat("/src/f"); err != ResultNoFile {
		t.Fatalf("src still present: %v", err)
	}
	got, err := fs.ReadFile("/dst/f")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got[:len("payload")]) != "payload" {
		t.Fatalf("got %q, want prefix %q", got, "payload")
	}
}

func TestCopyFolderDuplicatesSubtree(t *testing.T) {
	fs := newTestFS(t)
	fs.CreateFolder("/src")
	fs.CreateFile("/src/a")
	fs.WriteFile("/src/a", []byte("hi"))
	fs.CreateFolder("/src/sub")
	fs.CreateFile("/src/sub/b")
	if err := fs.CopyFolder("/src", "/dst"); err != nil {
		t.Fatalf("CopyFolder: %v", err)
	}
	got, err := fs.ReadFile("/dst/a")
	if err != nil || string(got[:len("hi")]) != "hi" {
		t.Fatalf("ReadFile(/dst/a) = %q, %v", got, err)
	}
	if _, err := fs.Stat("/dst/sub/b"); err != nil {
		t.Fatalf("Stat(/dst/sub/b): %v", err)
	}
	// Original untouched.
	if _, err := fs.Stat("/src/sub/b"); err != nil {
		t.Fatalf("original subtree disturbed: %v", err)
	}
}

func TestResolveMissingSegmentIsNoPath(t *testing.T) {
	fs := newTestFS(t)
	if _, err := fs.Stat("/missing/deep/path"); err != ResultNoPath {
		t.Fatalf("got %v, want ResultNoPath", err)
	}
}

func TestResolveMissingLeafIsNoFile(t *testing.T) {
	fs := newTestFS(t)
	fs.CreateFolder("/dir")
	if _, err := fs.Stat("/dir/missing"); err != ResultNoFile {
		t.Fatalf("got %v, want ResultNoFile", err)
	}
}

func TestListDirEntriesMatchStat(t *testing.T) {
	fs := newTestFS(t)
	fs.CreateFolder("/dir")
	fs.CreateFile("/dir/a")
	fs.CreateFolder("/dir/b")

	entries, err := fs.ListDir("/dir")
	if err != nil {
		t.Fatalf("ListDir: %v", err)
	}

	wantA, err := fs.Stat("/dir/a")
	if err != nil {
		t.Fatalf("Stat(/dir/a): %v", err)
	}
	wantB, err := fs.Stat("/dir/b")
	if err != nil {
		t.Fatalf("Stat(/dir/b): %v", err)
	}
	want := []NodeInfo{wantA, wantB}

	if diff := cmp.Diff(want, entries); diff != "" {
		t.Fatalf("ListDir entries differ from Stat (-want +got):\n%s", diff)
	}
}
