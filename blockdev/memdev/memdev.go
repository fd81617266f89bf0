// Package memdev provides an in-memory blockdev.Device backed by a plain
// byte slice, used throughout the kernel core's tests in place of real ATA
// hardware. Grounded on the teacher's BytesBlocks fixture.
package memdev

import (
	"fmt"

	"github.com/mango-os/mango/blockdev"
	"github.com/mango-os/mango/internal/bitmath"
)

// Device is a RAM-backed blockdev.Device of a fixed sector count.
type Device struct {
	buf []byte
}

// New allocates a Device with numSectors sectors, all zeroed.
func New(numSectors uint32) *Device {
	return &Device{buf: make([]byte, uint64(numSectors)*blockdev.SectorSize)}
}

// NewFromBytes wraps an existing, already block-size-aligned buffer without
// copying it; useful for loading a fixture image in tests.
func NewFromBytes(buf []byte) (*Device, error) {
	if len(buf)%blockdev.SectorSize != 0 {
		return nil, fmt.Errorf("memdev: buffer length %d is not a multiple of sector size", len(buf))
	}
	return &Device{buf: buf}, nil
}

func (d *Device) ReadSector(lba uint32, dst []byte) error {
	if err := blockdev.CheckSector(dst, lba, d.count()); err != nil {
		return err
	}
	off := uint64(lba) * blockdev.SectorSize
	copy(dst, d.buf[off:off+blockdev.SectorSize])
	return nil
}

func (d *Device) WriteSector(lba uint32, src []byte) error {
	if err := blockdev.CheckSector(src, lba, d.count()); err != nil {
		return err
	}
	off := uint64(lba) * blockdev.SectorSize
	copy(d.buf[off:off+blockdev.SectorSize], src)
	return nil
}

func (d *Device) SectorCount() (uint32, error) {
	return d.count(), nil
}

func (d *Device) count() uint32 {
	return bitmath.DivPow2(uint32(len(d.buf)), uint32(blockdev.SectorSize))
}

// Bytes exposes the backing buffer directly, for fixture snapshotting in
// tests (see mfs/image).
func (d *Device) Bytes() []byte { return d.buf }

var _ blockdev.Device = (*Device)(nil)
