// Package blockdev defines the synchronous sector-addressed storage contract
// that the rest of Mango's kernel core is built on.
package blockdev

import (
	"errors"

	"github.com/mango-os/mango/internal/bitmath"
)

// SectorSize is the fixed sector size assumed throughout the kernel core.
// The on-disk layout in mfs is only valid for this size.
const SectorSize = 512

func init() {
	if !bitmath.IsPow2(uint32(SectorSize)) {
		panic("blockdev: SectorSize must be a power of two")
	}
}

// Device is the contract every storage backend (PIO ATA, RAM disk, disk
// image file) must satisfy. All operations are synchronous: a call does not
// return until the transfer has completed or failed. There is no reordering
// and no caching above this interface.
type Device interface {
	// ReadSector reads exactly SectorSize bytes into dst starting at lba.
	ReadSector(lba uint32, dst []byte) error
	// WriteSector writes exactly SectorSize bytes from src starting at lba,
	// followed by a flush to stable media before returning.
	WriteSector(lba uint32, src []byte) error
	// SectorCount reports the total number of addressable sectors, as
	// reported by the drive's IDENTIFY response.
	SectorCount() (uint32, error)
}

// Identifier is implemented by devices that can report model/serial
// information obtained through an IDENTIFY DEVICE command. Optional: most
// test and RAM-backed devices do not implement it.
type Identifier interface {
	Identify() (Info, error)
}

// Info is the subset of an ATA IDENTIFY response Mango cares about.
type Info struct {
	Model   string
	Serial  string
	Sectors uint32
}

var (
	// ErrOutOfRange is returned when lba falls outside [0, SectorCount()).
	ErrOutOfRange = errors.New("blockdev: sector out of range")
	// ErrShortBuffer is returned when a caller supplies a buffer whose
	// length is not exactly SectorSize.
	ErrShortBuffer = errors.New("blockdev: buffer is not one sector long")
	// ErrIO is returned when the underlying medium reports a transfer
	// error (the ATA status register's ERR bit, or an equivalent fault on
	// a software-backed device).
	ErrIO = errors.New("blockdev: I/O error")
)

// CheckSector validates a single-sector buffer against SectorCount, the
// shape of check every Device implementation performs before touching
// hardware or backing storage.
func CheckSector(buf []byte, lba uint32, count uint32) error {
	if len(buf) != SectorSize {
		return ErrShortBuffer
	}
	if lba >= count {
		return ErrOutOfRange
	}
	return nil
}
