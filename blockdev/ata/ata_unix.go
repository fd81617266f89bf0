//go:build unix

package ata

import (
	"encoding/binary"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// DevPortIO implements PortIO against Linux's /dev/port, letting the PIO ATA
// driver be exercised against a real IDE channel from user space during
// development builds. The freestanding kernel build never links this file;
// it talks to ports through direct MMIO instead. Requires CAP_SYS_RAWIO.
type DevPortIO struct {
	f *os.File
}

// OpenDevPort opens /dev/port for raw port I/O.
func OpenDevPort() (*DevPortIO, error) {
	f, err := os.OpenFile("/dev/port", os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("ata: open /dev/port: %w", err)
	}
	return &DevPortIO{f: f}, nil
}

func (p *DevPortIO) Close() error { return p.f.Close() }

func (p *DevPortIO) In8(port uint16) uint8 {
	var b [1]byte
	unix.Pread(int(p.f.Fd()), b[:], int64(port))
	return b[0]
}

func (p *DevPortIO) In16(port uint16) uint16 {
	var b [2]byte
	unix.Pread(int(p.f.Fd()), b[:], int64(port))
	return binary.LittleEndian.Uint16(b[:])
}

func (p *DevPortIO) Out8(port uint16, val uint8) {
	unix.Pwrite(int(p.f.Fd()), []byte{val}, int64(port))
}

func (p *DevPortIO) Out16(port uint16, val uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], val)
	unix.Pwrite(int(p.f.Fd()), b[:], int64(port))
}

var _ PortIO = (*DevPortIO)(nil)
