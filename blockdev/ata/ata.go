// Package ata implements the PIO (programmed I/O) 28-bit LBA ATA sector
// driver: read, write, and IDENTIFY, one sector per request, busy-waiting on
// the status register. It is the sole producer of the blockdev.Device
// contract for real IDE/PATA hardware; everything above this package only
// ever sees blockdev.Device.
package ata

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mango-os/mango/blockdev"
)

// Standard primary-channel I/O port offsets, relative to the channel's I/O
// base (0x1F0 on the legacy primary PATA channel).
const (
	regData     = 0
	regError    = 1
	regSecCount = 2
	regLBALo    = 3
	regLBAMid   = 4
	regLBAHi    = 5
	regDriveSel = 6
	regStatus   = 7
	regCommand  = 7

	statusERR  = 1 << 0
	statusDRQ  = 1 << 3
	statusSRV  = 1 << 4
	statusDF   = 1 << 5
	statusRDY  = 1 << 6
	statusBSY  = 1 << 7
	statusBusy = 0xFF // drive returns 0xFF for status when absent/floating bus.

	cmdReadSectors  = 0x20
	cmdWriteSectors = 0x30
	cmdFlushCache   = 0xE7
	cmdIdentify     = 0xEC

	driveSelLBA    = 0xE0 // top nibble selects LBA mode + master/slave.
	driveSelMaster = 0x00
	driveSelSlave  = 0x10
)

// PortIO is the narrow port-access contract the driver needs: single-byte
// and single-word transfers on an x86-style I/O port space. Early platform
// bring-up (who maps ports, who owns the channel) is out of scope; Drive
// only ever calls through this interface.
type PortIO interface {
	In8(port uint16) uint8
	In16(port uint16) uint16
	Out8(port uint16, val uint8)
	Out16(port uint16, val uint16)
}

// Drive is a single PATA drive addressed through 28-bit LBA PIO transfers.
type Drive struct {
	io      PortIO
	base    uint16 // channel I/O base, e.g. 0x1F0.
	ctrl    uint16 // channel control base, e.g. 0x3F6.
	slave   bool
	log     *slog.Logger
	timeout time.Duration // busy-wait ceiling; zero means wait forever.

	sectors uint32 // cached from IDENTIFY, 0 until first successful call.
}

// Config configures a Drive.
type Config struct {
	IOBase      uint16
	ControlBase uint16
	Slave       bool
	// Timeout bounds each busy-wait poll loop. Zero disables the bound,
	// matching the reference's unconditional busy-wait.
	Timeout time.Duration
	Log     *slog.Logger
}

// New constructs a Drive bound to the given port space.
func New(io PortIO, cfg Config) *Drive {
	return &Drive{
		io:      io,
		base:    cfg.IOBase,
		ctrl:    cfg.ControlBase,
		slave:   cfg.Slave,
		timeout: cfg.Timeout,
		log:     cfg.Log,
	}
}

var _ blockdev.Device = (*Drive)(nil)
var _ blockdev.Identifier = (*Drive)(nil)

func (d *Drive) trace(msg string, args ...any) {
	if d.log != nil {
		d.log.Debug(msg, args...)
	}
}

func (d *Drive) selectDrive(lbaTop4 uint8) {
	sel := driveSelLBA | lbaTop4
	if d.slave {
		sel |= driveSelSlave
	} else {
		sel |= driveSelMaster
	}
	d.io.Out8(d.base+regDriveSel, sel)
}

// waitReady busy-waits until BSY clears and (if wantDRQ) DRQ sets, reporting
// failure when the status register's ERR bit is set or the drive floats the
// bus (0xFF).
func (d *Drive) waitReady(wantDRQ bool) error {
	deadline := time.Time{}
	if d.timeout > 0 {
		deadline = time.Now().Add(d.timeout)
	}
	for {
		status := d.io.In8(d.base + regStatus)
		if status == statusBusy {
			return fmt.Errorf("%w: drive not present", blockdev.ErrIO)
		}
		if status&statusERR != 0 {
			errReg := d.io.In8(d.base + regError)
			return fmt.Errorf("%w: status=%#02x error=%#02x", blockdev.ErrIO, status, errReg)
		}
		if status&statusBSY == 0 && (!wantDRQ || status&statusDRQ != 0) {
			return nil
		}
		if d.timeout > 0 && time.Now().After(deadline) {
			return fmt.Errorf("%w: timed out waiting for drive", blockdev.ErrIO)
		}
	}
}

func (d *Drive) setupLBA28(lba uint32, sectorCount uint8) {
	d.selectDrive(uint8(lba >> 24 & 0x0F))
	d.io.Out8(d.base+regSecCount, sectorCount)
	d.io.Out8(d.base+regLBALo, uint8(lba))
	d.io.Out8(d.base+regLBAMid, uint8(lba>>8))
	d.io.Out8(d.base+regLBAHi, uint8(lba>>16))
}

// ReadSector implements blockdev.Device.
func (d *Drive) ReadSector(lba uint32, dst []byte) error {
	if err := blockdev.CheckSector(dst, lba, d.cachedOrMaxSectors()); err != nil {
		return err
	}
	d.trace("ata read", slog.Uint64("lba", uint64(lba)))
	if err := d.waitReady(false); err != nil {
		return err
	}
	d.setupLBA28(lba, 1)
	d.io.Out8(d.base+regCommand, cmdReadSectors)
	if err := d.waitReady(true); err != nil {
		return err
	}
	for i := 0; i < blockdev.SectorSize; i += 2 {
		binary.LittleEndian.PutUint16(dst[i:], d.io.In16(d.base+regData))
	}
	return nil
}

// WriteSector implements blockdev.Device. A FLUSH CACHE command is issued
// after the transfer completes, and its completion is awaited, before the
// write is reported as successful.
func (d *Drive) WriteSector(lba uint32, src []byte) error {
	if err := blockdev.CheckSector(src, lba, d.cachedOrMaxSectors()); err != nil {
		return err
	}
	d.trace("ata write", slog.Uint64("lba", uint64(lba)))
	if err := d.waitReady(false); err != nil {
		return err
	}
	d.setupLBA28(lba, 1)
	d.io.Out8(d.base+regCommand, cmdWriteSectors)
	if err := d.waitReady(true); err != nil {
		return err
	}
	for i := 0; i < blockdev.SectorSize; i += 2 {
		d.io.Out16(d.base+regData, binary.LittleEndian.Uint16(src[i:]))
	}
	d.io.Out8(d.base+regCommand, cmdFlushCache)
	return d.waitReady(false)
}

// SectorCount issues IDENTIFY DEVICE and returns the drive's total LBA28
// sector count, caching the result.
func (d *Drive) SectorCount() (uint32, error) {
	if d.sectors != 0 {
		return d.sectors, nil
	}
	info, err := d.Identify()
	if err != nil {
		return 0, err
	}
	return info.Sectors, nil
}

// Identify issues IDENTIFY DEVICE and decodes the subset of the 512-byte
// response Mango needs: model string, serial, and total addressable sectors.
func (d *Drive) Identify() (blockdev.Info, error) {
	d.trace("ata identify")
	d.selectDrive(0)
	d.io.Out8(d.base+regSecCount, 0)
	d.io.Out8(d.base+regLBALo, 0)
	d.io.Out8(d.base+regLBAMid, 0)
	d.io.Out8(d.base+regLBAHi, 0)
	d.io.Out8(d.base+regCommand, cmdIdentify)
	status := d.io.In8(d.base + regStatus)
	if status == statusBusy {
		return blockdev.Info{}, errors.New("ata: no drive present")
	}
	if err := d.waitReady(true); err != nil {
		return blockdev.Info{}, err
	}
	var buf [blockdev.SectorSize]byte
	for i := 0; i < len(buf); i += 2 {
		binary.LittleEndian.PutUint16(buf[i:], d.io.In16(d.base+regData))
	}
	sectors := binary.LittleEndian.Uint32(buf[60*2:]) // IDENTIFY word 60-61: LBA28 total sectors.
	info := blockdev.Info{
		Sectors: sectors,
		Model:   identifyString(buf[27*2 : 27*2+40]),
		Serial:  identifyString(buf[10*2 : 10*2+20]),
	}
	d.sectors = sectors
	return info, nil
}

func (d *Drive) cachedOrMaxSectors() uint32 {
	if d.sectors != 0 {
		return d.sectors
	}
	return ^uint32(0) // Unknown: don't block reads/writes before the first IDENTIFY.
}

// identifyString decodes an ATA IDENTIFY string field: ASCII, byte-swapped
// within each 16-bit word, space-padded.
func identifyString(field []byte) string {
	out := make([]byte, len(field))
	for i := 0; i+1 < len(field); i += 2 {
		out[i] = field[i+1]
		out[i+1] = field[i]
	}
	n := len(out)
	for n > 0 && out[n-1] == ' ' {
		n--
	}
	return string(out[:n])
}
