package mfs

import "io"

// StreamMode selects a Stream's access discipline.
type StreamMode int

const (
	ModeRead StreamMode = iota
	ModeWrite
	ModeAppend
)

// Stream is a mode-tagged cursor over a file's data-block chain (§4.5): read
// streams walk the existing chain, write streams discard it and build a new
// one from scratch, and append streams walk to the end of the existing
// chain before switching to write behavior.
//
// The node's on-disk `size` field is the number of blocks chained from
// `first_block` (§3.2.4, §8's "size(F) = length of chain from first_block"),
// not a byte count — grounded on original_source/src/file.c, where
// `file.size` is only ever incremented alongside a new block allocation
// (`file.size++` next to `file_sector_alloc`) and read back as
// `sizeof(block.data) * file.size`. A stream's logical length is therefore
// always a whole number of blocks: `blocks` tracks that count, and byteLen
// derives the byte boundary Read/Write treat as end-of-file from it, the
// same block-granular reads the reference produces.
type Stream struct {
	fs     *FS
	node   uint32
	mode   StreamMode
	blocks uint32 // number of blocks in the chain; mirrors node.size on disk.
	pos    uint32 // absolute byte offset into the logical file.
	block  uint32 // sector of the data block currently holding pos, 0 if none loaded yet.
	blkOff uint32 // byte offset of block's payload start within the logical file.
	buf    dataBlockView
	dirty  bool
}

// byteLen is the byte boundary Read/Write treat as end-of-file: the chain's
// block count times the per-block payload size.
func (s *Stream) byteLen() uint32 { return s.blocks * dataPayloadSize }

// OpenStream opens path for reading, writing (truncating), or appending.
func (fs *FS) OpenStream(path string, mode StreamMode) (*Stream, error) {
	sector, res := fs.resolve(path)
	if res != ResultOK {
		return nil, res
	}
	nv, res := fs.loadNode(sector)
	if res != ResultOK {
		return nil, res
	}
	if !nv.IsFile() {
		return nil, ResultIsAFolder
	}

	s := &Stream{fs: fs, node: sector, mode: mode, blocks: nv.Size()}
	switch mode {
	case ModeRead:
		s.block = nv.FirstBlock()
		s.blkOff = 0
	case ModeWrite:
		if res := fs.freeDataChain(nv.FirstBlock()); res != ResultOK {
			return nil, res
		}
		nv.SetFirstBlock(0)
		nv.SetSize(0)
		if res := fs.storeNode(sector, nv); res != ResultOK {
			return nil, res
		}
		s.blocks = 0
	case ModeAppend:
		s.pos = s.byteLen()
		s.block, s.blkOff = nv.FirstBlock(), 0
		for hops := s.blocks; hops > 1; hops-- {
			dv, res := fs.loadBlock(s.block)
			if res != ResultOK {
				return nil, res
			}
			s.blkOff += dataPayloadSize
			s.block = dv.Next()
		}
	}
	return s, nil
}

// loadCurrentBlock ensures s.buf holds the block covering s.pos, allocating
// a fresh block and linking it onto the chain if writing past the end. Each
// freshly allocated block extends s.blocks by one, keeping it equal to the
// chain's true length for the Close-time node.size write.
func (s *Stream) loadCurrentBlock() error {
	wantOff := (s.pos / dataPayloadSize) * dataPayloadSize
	if s.block != 0 && s.blkOff == wantOff && s.buf.data != nil {
		return nil
	}
	if s.buf.data != nil && s.dirty {
		if res := s.fs.storeBlock(s.block, s.buf); res != ResultOK {
			return res
		}
		s.dirty = false
	}

	nv, res := s.fs.loadNode(s.node)
	if res != ResultOK {
		return res
	}

	if nv.FirstBlock() == 0 {
		sector, res := s.fs.allocSector()
		if res != ResultOK {
			return res
		}
		dv := newDataBlockView()
		nv.SetFirstBlock(sector)
		if res := s.fs.storeNode(s.node, nv); res != ResultOK {
			return res
		}
		if res := s.fs.storeBlock(sector, dv); res != ResultOK {
			return res
		}
		s.block, s.blkOff, s.buf = sector, 0, dv
		s.blocks++
		return nil
	}

	sector := nv.FirstBlock()
	off := uint32(0)
	for off < wantOff {
		dv, res := s.fs.loadBlock(sector)
		if res != ResultOK {
			return res
		}
		if dv.Next() == 0 {
			next, res := s.fs.allocSector()
			if res != ResultOK {
				return res
			}
			ndv := newDataBlockView()
			dv.SetNext(next)
			if res := s.fs.storeBlock(sector, dv); res != ResultOK {
				return res
			}
			if res := s.fs.storeBlock(next, ndv); res != ResultOK {
				return res
			}
			sector = next
			s.blocks++
		} else {
			sector = dv.Next()
		}
		off += dataPayloadSize
	}
	dv, res := s.fs.loadBlock(sector)
	if res != ResultOK {
		return res
	}
	s.block, s.blkOff, s.buf = sector, off, dv
	return nil
}

// Read fills p with up to len(p) bytes starting at the stream's position,
// returning io.EOF once the logical file end is reached.
func (s *Stream) Read(p []byte) (int, error) {
	end := s.byteLen()
	if s.pos >= end {
		return 0, io.EOF
	}
	n := 0
	for n < len(p) && s.pos < end {
		if err := s.loadCurrentBlock(); err != nil {
			return n, err
		}
		within := s.pos - s.blkOff
		avail := dataPayloadSize - within
		remaining := end - s.pos
		if avail > remaining {
			avail = remaining
		}
		want := uint32(len(p) - n)
		if want > avail {
			want = avail
		}
		copy(p[n:], s.buf.Payload()[within:within+want])
		n += int(want)
		s.pos += want
	}
	return n, nil
}

// Getc reads a single byte.
func (s *Stream) Getc() (byte, error) {
	var b [1]byte
	n, err := s.Read(b[:])
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}
	return b[0], nil
}

// Peek returns the next byte without advancing the stream.
func (s *Stream) Peek() (byte, error) {
	save := s.pos
	b, err := s.Getc()
	s.pos = save
	return b, err
}

// Write appends p at the stream's position, extending the data-block chain
// as needed.
func (s *Stream) Write(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if err := s.loadCurrentBlock(); err != nil {
			return n, err
		}
		within := s.pos - s.blkOff
		room := dataPayloadSize - within
		want := uint32(len(p) - n)
		if want > room {
			want = room
		}
		copy(s.buf.Payload()[within:within+want], p[n:])
		s.dirty = true
		n += int(want)
		s.pos += want
	}
	return n, nil
}

// Putc writes a single byte.
func (s *Stream) Putc(b byte) error {
	_, err := s.Write([]byte{b})
	return err
}

// Close flushes any pending block write and, for write/append streams,
// stamps the file's new size and modification time.
func (s *Stream) Close() error {
	if s.dirty {
		if res := s.fs.storeBlock(s.block, s.buf); res != ResultOK {
			return res
		}
		s.dirty = false
	}
	if s.mode == ModeWrite || s.mode == ModeAppend {
		nv, res := s.fs.loadNode(s.node)
		if res != ResultOK {
			return res
		}
		nv.SetSize(s.blocks)
		nv.SetTimeChanged(uint64(s.fs.clock.Now()))
		if res := s.fs.storeNode(s.node, nv); res != ResultOK {
			return res
		}
	}
	return nil
}

// ReadFile reads the whole contents of the file at path, a whole number of
// data blocks (§4.4); it returns nil for a file with no blocks chained.
func (fs *FS) ReadFile(path string) ([]byte, error) {
	s, err := fs.OpenStream(path, ModeRead)
	if err != nil {
		return nil, err
	}
	if s.blocks == 0 {
		return nil, s.Close()
	}
	buf := make([]byte, s.byteLen())
	if _, err := io.ReadFull(s, buf); err != nil && err != io.EOF {
		s.Close()
		return nil, err
	}
	return buf, s.Close()
}

// WriteFile truncates the file at path and writes data as its new contents.
func (fs *FS) WriteFile(path string, data []byte) error {
	s, err := fs.OpenStream(path, ModeWrite)
	if err != nil {
		return err
	}
	if _, err := s.Write(data); err != nil {
		s.Close()
		return err
	}
	return s.Close()
}

// AppendFile opens path in append mode and writes data past its current end.
func (fs *FS) AppendFile(path string, data []byte) error {
	s, err := fs.OpenStream(path, ModeAppend)
	if err != nil {
		return err
	}
	if _, err := s.Write(data); err != nil {
		s.Close()
		return err
	}
	return s.Close()
}
