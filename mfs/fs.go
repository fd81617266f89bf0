// Package mfs implements Mango's on-disk file system: the superblock, the
// inode-like node sectors, the linked data-block chains, the free-sector
// allocator, path resolution over the hierarchical name tree, and the
// create/delete/read/write operations built on top of them.
//
// All operations are synchronous and unconcurrent; callers in interrupt
// context (see package irq) must never call into mfs, since disk I/O
// busy-waits indefinitely (see blockdev/ata).
package mfs

import (
	"context"
	"log/slog"

	"github.com/mango-os/mango/blockdev"
)

const levelTrace = slog.LevelDebug - 2

// Clock is the now_utc() collaborator: mfs only ever asks it for the
// current packed time when stamping node.time_created/time_changed. Reading
// real hardware RTC/CMOS is out of scope; FixedClock below is the only
// implementation in this module.
type Clock interface {
	Now() PackedTime
}

// FixedClock is a trivial Clock returning a constant time, useful in tests
// and as a zero-value-safe fallback.
type FixedClock PackedTime

func (c FixedClock) Now() PackedTime { return PackedTime(c) }

// FS is a mounted Mango file system over a blockdev.Device.
type FS struct {
	device  blockdev.Device
	clock   Clock
	log     *slog.Logger
	current uint32 // `file_current`: sector of the current directory.
	mounted bool
}

// Config configures a new FS.
type Config struct {
	Clock Clock // defaults to FixedClock(0) if nil.
	Log   *slog.Logger
}

// New constructs an FS bound to device. Call Mount or Format before using it.
func New(device blockdev.Device, cfg Config) *FS {
	clock := cfg.Clock
	if clock == nil {
		clock = FixedClock(0)
	}
	return &FS{device: device, clock: clock, log: cfg.Log}
}

func (fs *FS) trace(msg string, attrs ...slog.Attr) {
	if fs.log != nil {
		fs.log.LogAttrs(context.Background(), levelTrace, msg, attrs...)
	}
}

// Mount verifies the superblock's magic is present (invariant 1: a disk is
// considered formatted iff `magic` is present) and, if so, positions the
// current directory at root.
func (fs *FS) Mount() error {
	sv, res := fs.readSuperblock()
	if res != ResultOK {
		return res
	}
	if sv.Magic() != magic {
		return ResultNotFormatted
	}
	fs.mounted = true
	fs.current = RootSector
	return nil
}

// Mounted reports whether the last Mount/Format call succeeded.
func (fs *FS) Mounted() bool { return fs.mounted }

func (fs *FS) requireMounted() error {
	if !fs.mounted {
		return ResultNotFormatted
	}
	return nil
}

// Format writes a fresh superblock and root folder node, per §4.4: `free =
// 2050`, `free_list = 0`, `used = 2`. confirm must be true; it models the
// shell's interactive "y" confirmation without baking a UI prompt into the
// library (see SPEC_FULL.md, supplemented feature 4).
func (fs *FS) Format(sectors uint32, confirm bool) error {
	if !confirm {
		return ResultFormatNotConfirmed
	}
	sv := newSuperblockView()
	sv.SetMagic(magic)
	sv.SetVersion(formatVersion)
	sv.SetSectors(sectors)
	sv.SetUsed(2)
	sv.SetFree(RootSector + 1)
	sv.SetFreeList(0)
	if res := fs.writeSector(SuperblockSector, sv.data); res != ResultOK {
		return res
	}

	root := newNodeView()
	now := fs.clock.Now()
	root.SetTimeCreated(uint64(now))
	root.SetTimeChanged(uint64(now))
	root.SetParent(0)
	root.SetChildHead(0)
	root.SetChildNext(0)
	root.SetSize(0)
	root.SetFirstBlock(0)
	root.SetName("")
	root.SetFlags(flagFolder)
	if res := fs.writeSector(RootSector, root.data); res != ResultOK {
		return res
	}

	fs.mounted = true
	fs.current = RootSector
	return nil
}

// --- low-level sector I/O -------------------------------------------------

func (fs *FS) readSector(n uint32, buf []byte) Result {
	fs.trace("mfs:read_sector", slog.Uint64("sector", uint64(n)))
	if err := fs.device.ReadSector(n, buf); err != nil {
		return ResultDiskErr
	}
	return ResultOK
}

func (fs *FS) writeSector(n uint32, buf []byte) Result {
	fs.trace("mfs:write_sector", slog.Uint64("sector", uint64(n)))
	if err := fs.device.WriteSector(n, buf); err != nil {
		return ResultDiskErr
	}
	return ResultOK
}

func (fs *FS) readSuperblock() (superblockView, Result) {
	sv := newSuperblockView()
	if res := fs.readSector(SuperblockSector, sv.data); res != ResultOK {
		return sv, res
	}
	return sv, ResultOK
}

func (fs *FS) writeSuperblock(sv superblockView) Result {
	return fs.writeSector(SuperblockSector, sv.data)
}

func (fs *FS) loadNode(sector uint32) (nodeView, Result) {
	nv := newNodeView()
	if res := fs.readSector(sector, nv.data); res != ResultOK {
		return nv, res
	}
	return nv, ResultOK
}

func (fs *FS) storeNode(sector uint32, nv nodeView) Result {
	return fs.writeSector(sector, nv.data)
}

func (fs *FS) loadBlock(sector uint32) (dataBlockView, Result) {
	dv := newDataBlockView()
	if res := fs.readSector(sector, dv.data); res != ResultOK {
		return dv, res
	}
	return dv, ResultOK
}

func (fs *FS) storeBlock(sector uint32, dv dataBlockView) Result {
	return fs.writeSector(sector, dv.data)
}

// --- sector allocator (§4.4) ----------------------------------------------

// allocSector implements `file_sector_alloc`: pop the free-list head if
// non-empty (reading the head's first 4 bytes to obtain the new head),
// otherwise bump `free`. Re-reads and re-writes the superblock on every
// call, reinforcing that it is a process-wide singleton (§5).
func (fs *FS) allocSector() (uint32, Result) {
	sv, res := fs.readSuperblock()
	if res != ResultOK {
		return 0, res
	}
	var sector uint32
	if head := sv.FreeList(); head != 0 {
		buf := make([]byte, blockdev.SectorSize)
		if res := fs.readSector(head, buf); res != ResultOK {
			return 0, res
		}
		newHead := leUint32(buf)
		sv.SetFreeList(newHead)
		sector = head
	} else {
		bump := sv.Free()
		if sv.Sectors() != 0 && bump >= sv.Sectors() {
			return 0, ResultDenied // disk full.
		}
		sv.SetFree(bump + 1)
		sector = bump
	}
	sv.SetUsed(sv.Used() + 1)
	if res := fs.writeSuperblock(sv); res != ResultOK {
		return 0, res
	}
	return sector, ResultOK
}

// freeSector implements `file_sector_free`: push sector onto the free list.
func (fs *FS) freeSector(sector uint32) Result {
	sv, res := fs.readSuperblock()
	if res != ResultOK {
		return res
	}
	buf := make([]byte, blockdev.SectorSize)
	putLeUint32(buf, sv.FreeList())
	if res := fs.writeSector(sector, buf); res != ResultOK {
		return res
	}
	sv.SetFreeList(sector)
	sv.SetUsed(sv.Used() - 1)
	return fs.writeSuperblock(sv)
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putLeUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// Usage reports the superblock's live counters, for diagnostics.
type Usage struct {
	Sectors uint32
	Used    uint32
	Free    uint32
}

func (fs *FS) Usage() (Usage, error) {
	sv, res := fs.readSuperblock()
	if res != ResultOK {
		return Usage{}, res
	}
	return Usage{Sectors: sv.Sectors(), Used: sv.Used(), Free: sv.Free()}, nil
}

