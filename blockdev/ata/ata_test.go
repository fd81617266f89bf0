package ata

import (
	"bytes"
	"testing"
)

// fakePort simulates a single drive holding sectorCount sectors of data in
// memory, enough of the ATA PIO protocol to drive Drive's read/write/identify
// paths without real hardware.
type fakePort struct {
	sectors  [][blockdevSectorSize]byte
	lba      uint32
	data     []byte // pending word-stream for regData.
	dataIdx  int
	identify bool
	failNext bool
}

const blockdevSectorSize = 512

func newFakePort(numSectors int) *fakePort {
	return &fakePort{sectors: make([][blockdevSectorSize]byte, numSectors)}
}

func (f *fakePort) In8(port uint16) uint8 {
	switch port & 0x7 {
	case regStatus:
		if f.failNext {
			return statusERR
		}
		return statusRDY | statusDRQ // Always ready and data-ready; fake has no transfer latency to model.
	case regError:
		return 0x04 // ABRT
	}
	return 0
}

func (f *fakePort) In16(port uint16) uint16 {
	if f.dataIdx+1 >= len(f.data) {
		return 0
	}
	v := uint16(f.data[f.dataIdx]) | uint16(f.data[f.dataIdx+1])<<8
	f.dataIdx += 2
	return v
}

func (f *fakePort) Out8(port uint16, val uint8) {
	switch port & 0x7 {
	case regLBALo:
		f.lba = f.lba&0xFFFFFF00 | uint32(val)
	case regLBAMid:
		f.lba = f.lba&0xFFFF00FF | uint32(val)<<8
	case regLBAHi:
		f.lba = f.lba&0xFF00FFFF | uint32(val)<<16
	case regCommand:
		f.runCommand(val)
	}
}

func (f *fakePort) Out16(port uint16, val uint16) {
	if port&0x7 != regData {
		return
	}
	if f.dataIdx+1 >= len(f.data) {
		return
	}
	f.data[f.dataIdx] = byte(val)
	f.data[f.dataIdx+1] = byte(val >> 8)
	f.dataIdx += 2
}

func (f *fakePort) runCommand(cmd uint8) {
	switch cmd {
	case cmdReadSectors:
		f.data = append([]byte(nil), f.sectors[f.lba][:]...)
		f.dataIdx = 0
	case cmdWriteSectors:
		f.data = make([]byte, blockdevSectorSize)
		f.dataIdx = 0
	case cmdFlushCache:
		if int(f.lba) < len(f.sectors) {
			copy(f.sectors[f.lba][:], f.data)
		}
	case cmdIdentify:
		var buf [blockdevSectorSize]byte
		buf[60*2] = byte(len(f.sectors))
		buf[60*2+1] = byte(len(f.sectors) >> 8)
		f.data = buf[:]
		f.dataIdx = 0
	}
}

func TestDriveReadWriteRoundtrip(t *testing.T) {
	port := newFakePort(8)
	d := New(port, Config{IOBase: 0x1F0, ControlBase: 0x3F6})

	want := bytes.Repeat([]byte{0xAB}, blockdevSectorSize)
	if err := d.WriteSector(3, want); err != nil {
		t.Fatalf("WriteSector: %v", err)
	}

	got := make([]byte, blockdevSectorSize)
	if err := d.ReadSector(3, got); err != nil {
		t.Fatalf("ReadSector: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("roundtrip mismatch")
	}
}

func TestDriveReadRejectsShortBuffer(t *testing.T) {
	port := newFakePort(4)
	d := New(port, Config{IOBase: 0x1F0})
	d.sectors = 4
	err := d.ReadSector(0, make([]byte, 10))
	if err == nil {
		t.Fatal("expected error for short buffer")
	}
}

func TestDriveIdentify(t *testing.T) {
	port := newFakePort(16)
	d := New(port, Config{IOBase: 0x1F0})
	info, err := d.Identify()
	if err != nil {
		t.Fatalf("Identify: %v", err)
	}
	if info.Sectors != 16 {
		t.Fatalf("Sectors = %d, want 16", info.Sectors)
	}
}

func TestDriveReadErrBit(t *testing.T) {
	port := newFakePort(4)
	port.failNext = true
	d := New(port, Config{IOBase: 0x1F0})
	d.sectors = 4
	err := d.ReadSector(0, make([]byte, blockdevSectorSize))
	if err == nil {
		t.Fatal("expected I/O error when status ERR bit set")
	}
}
