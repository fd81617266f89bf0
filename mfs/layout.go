package mfs

import "encoding/binary"

// On-disk layout constants, bit-exact per the reference schema. All
// integers are little-endian; sectors are blockdev.SectorSize (512) bytes.
const (
	sectorSize = 512

	// SuperblockSector is the fixed sector holding the filesystem header.
	SuperblockSector uint32 = 2048
	// RootSector is the fixed sector holding the root folder node.
	RootSector uint32 = 2049

	// magic is the ASCII bytes "MNGO" read little-endian as a uint32.
	magic uint32 = 0x4F474E4D

	formatVersion uint32 = 1

	maxNameLen = 32 // including the terminating NUL.

	dataPayloadSize = sectorSize - 4 // 508 bytes after the `next` field.
)

// Superblock field byte offsets within its sector.
const (
	sbMagic    = 0
	sbVersion  = 4
	sbSectors  = 8
	sbUsed     = 12
	sbFree     = 16
	sbFreeList = 20
	sbHeaderSize = 24
)

// superblockView is a thin accessor over a 512-byte sector buffer, following
// the teacher's biosParamBlock pattern of wrapping raw bytes instead of
// defining a parallel Go struct that must be kept in sync by hand.
type superblockView struct {
	data []byte
}

func (v superblockView) Magic() uint32       { return binary.LittleEndian.Uint32(v.data[sbMagic:]) }
func (v superblockView) SetMagic(m uint32)   { binary.LittleEndian.PutUint32(v.data[sbMagic:], m) }
func (v superblockView) Version() uint32     { return binary.LittleEndian.Uint32(v.data[sbVersion:]) }
func (v superblockView) SetVersion(x uint32) { binary.LittleEndian.PutUint32(v.data[sbVersion:], x) }
func (v superblockView) Sectors() uint32     { return binary.LittleEndian.Uint32(v.data[sbSectors:]) }
func (v superblockView) SetSectors(x uint32) { binary.LittleEndian.PutUint32(v.data[sbSectors:], x) }
func (v superblockView) Used() uint32        { return binary.LittleEndian.Uint32(v.data[sbUsed:]) }
func (v superblockView) SetUsed(x uint32)    { binary.LittleEndian.PutUint32(v.data[sbUsed:], x) }
func (v superblockView) Free() uint32        { return binary.LittleEndian.Uint32(v.data[sbFree:]) }
func (v superblockView) SetFree(x uint32)    { binary.LittleEndian.PutUint32(v.data[sbFree:], x) }
func (v superblockView) FreeList() uint32    { return binary.LittleEndian.Uint32(v.data[sbFreeList:]) }
func (v superblockView) SetFreeList(x uint32) {
	binary.LittleEndian.PutUint32(v.data[sbFreeList:], x)
}

func newSuperblockView() superblockView {
	return superblockView{data: make([]byte, sectorSize)}
}

// Node field byte offsets within its sector.
const (
	ndTimeCreated = 0
	ndTimeChanged = 8
	ndParent      = 16
	ndChildHead   = 20
	ndChildNext   = 24
	ndSize        = 28 // block count for files, unused (0) for folders
	ndFirstBlock  = 32
	ndName        = 36
	ndFlags       = ndName + maxNameLen // 68
	ndHeaderSize  = ndFlags + 1         // 69
)

// Node flag bits.
const (
	flagFile   uint8 = 1 << 0
	flagFolder uint8 = 1 << 1
)

// nodeView is a thin accessor over a 512-byte node sector buffer.
type nodeView struct {
	data []byte
}

func newNodeView() nodeView { return nodeView{data: make([]byte, sectorSize)} }

func (v nodeView) TimeCreated() uint64 { return binary.LittleEndian.Uint64(v.data[ndTimeCreated:]) }
func (v nodeView) SetTimeCreated(t uint64) {
	binary.LittleEndian.PutUint64(v.data[ndTimeCreated:], t)
}
func (v nodeView) TimeChanged() uint64 { return binary.LittleEndian.Uint64(v.data[ndTimeChanged:]) }
func (v nodeView) SetTimeChanged(t uint64) {
	binary.LittleEndian.PutUint64(v.data[ndTimeChanged:], t)
}
func (v nodeView) Parent() uint32     { return binary.LittleEndian.Uint32(v.data[ndParent:]) }
func (v nodeView) SetParent(s uint32) { binary.LittleEndian.PutUint32(v.data[ndParent:], s) }
func (v nodeView) ChildHead() uint32  { return binary.LittleEndian.Uint32(v.data[ndChildHead:]) }
func (v nodeView) SetChildHead(s uint32) {
	binary.LittleEndian.PutUint32(v.data[ndChildHead:], s)
}
func (v nodeView) ChildNext() uint32 { return binary.LittleEndian.Uint32(v.data[ndChildNext:]) }
func (v nodeView) SetChildNext(s uint32) {
	binary.LittleEndian.PutUint32(v.data[ndChildNext:], s)
}
// Size is the number of data blocks chained from FirstBlock, not a byte
// length; a file's logical content is always a whole multiple of
// dataPayloadSize bytes.
func (v nodeView) Size() uint32     { return binary.LittleEndian.Uint32(v.data[ndSize:]) }
func (v nodeView) SetSize(n uint32) { binary.LittleEndian.PutUint32(v.data[ndSize:], n) }
func (v nodeView) FirstBlock() uint32 {
	return binary.LittleEndian.Uint32(v.data[ndFirstBlock:])
}
func (v nodeView) SetFirstBlock(s uint32) {
	binary.LittleEndian.PutUint32(v.data[ndFirstBlock:], s)
}
func (v nodeView) Flags() uint8     { return v.data[ndFlags] }
func (v nodeView) SetFlags(f uint8) { v.data[ndFlags] = f }

func (v nodeView) Name() string {
	raw := v.data[ndName : ndName+maxNameLen]
	n := 0
	for n < len(raw) && raw[n] != 0 {
		n++
	}
	return string(raw[:n])
}

func (v nodeView) SetName(name string) error {
	if len(name) >= maxNameLen {
		return ResultInvalidName
	}
	raw := v.data[ndName : ndName+maxNameLen]
	for i := range raw {
		raw[i] = 0
	}
	copy(raw, name)
	return nil
}

func (v nodeView) IsFile() bool   { return v.Flags()&flagFile != 0 }
func (v nodeView) IsFolder() bool { return v.Flags()&flagFolder != 0 }

// Data block field byte offsets.
const (
	dbNext = 0
	dbData = 4
)

// dataBlockView is a thin accessor over a 512-byte data block sector buffer.
type dataBlockView struct {
	data []byte
}

func newDataBlockView() dataBlockView { return dataBlockView{data: make([]byte, sectorSize)} }

func (v dataBlockView) Next() uint32     { return binary.LittleEndian.Uint32(v.data[dbNext:]) }
func (v dataBlockView) SetNext(s uint32) { binary.LittleEndian.PutUint32(v.data[dbNext:], s) }
func (v dataBlockView) Payload() []byte  { return v.data[dbData:] }
