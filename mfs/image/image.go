// Package image is an offline, tool-only helper for producing and
// restoring compressed snapshots of a formatted Mango disk image. It is
// not on the kernel's live path: nothing in blockdev, mfs, or the shell
// imports it. It exists for test fixtures and documentation examples that
// need a pre-formatted disk without replaying a Format call every time.
package image

import (
	"bufio"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/mango-os/mango/blockdev"
)

// Snapshot reads sectors [0, count) from dev and writes them to w as a
// zstd-compressed stream.
func Snapshot(w io.Writer, dev blockdev.Device, count uint32) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("image: new zstd writer: %w", err)
	}
	buf := make([]byte, blockdev.SectorSize)
	for lba := uint32(0); lba < count; lba++ {
		if err := dev.ReadSector(lba, buf); err != nil {
			enc.Close()
			return fmt.Errorf("image: read sector %d: %w", lba, err)
		}
		if _, err := enc.Write(buf); err != nil {
			enc.Close()
			return fmt.Errorf("image: write sector %d to snapshot: %w", lba, err)
		}
	}
	return enc.Close()
}

// Restore reads a zstd-compressed stream produced by Snapshot from r and
// writes its sectors back into dev starting at lba 0.
func Restore(dev blockdev.Device, r io.Reader) error {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return fmt.Errorf("image: new zstd reader: %w", err)
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, blockdev.SectorSize)
	buf := make([]byte, blockdev.SectorSize)
	for lba := uint32(0); ; lba++ {
		_, err := io.ReadFull(br, buf)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("image: read sector %d from snapshot: %w", lba, err)
		}
		if err := dev.WriteSector(lba, buf); err != nil {
			return fmt.Errorf("image: write sector %d: %w", lba, err)
		}
	}
}
