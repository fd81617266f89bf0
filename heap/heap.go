// Package heap implements a first-fit, coalescing free-list allocator over
// a fixed contiguous byte window, the allocation substrate every
// variable-size structure in the kernel core (node buffers, AST nodes,
// environments, editor content) is built on.
//
// Fault model: double-free, wild pointers and buffer overruns are
// undetected by design, exactly as in the reference. Callers own their
// allocations; Heap only tracks block boundaries.
package heap

import (
	"errors"
	"fmt"

	"github.com/mango-os/mango/internal/bitmath"
)

// alignment is the rounding granularity for every requested size.
const alignment = 16

// headerSize is the size of the block header prefixing every allocation.
const headerSize = 24 // size(8) + isFree(8, padded) + next(8, as an index)

// ErrOutOfMemory is returned when no block is large enough and the bump
// cursor has reached the end of the window.
var ErrOutOfMemory = errors.New("heap: out of memory")

// block is one node in the address-ordered singly linked list of
// allocations, living inside the Heap's window.
type block struct {
	size   int // payload size, rounded up to alignment.
	free   bool
	next   int // byte offset of the next block header, or -1 if last.
	offset int // byte offset of this block's header.
}

// Heap is a bump/free-list allocator over window[start:end).
type Heap struct {
	window []byte
	blocks []block // address-ordered.
	bump   int     // offset of the first byte not yet claimed by any block.
}

// New creates a Heap managing the entirety of window. The window is not
// cleared; callers that need zeroed memory should clear it themselves or
// rely on Alloc clearing freshly bumped regions (it does not clear reused
// free blocks, matching the reference).
func New(window []byte) *Heap {
	return &Heap{window: window}
}

// Alloc reserves size bytes and returns a slice viewing that region of the
// window. Returns ErrOutOfMemory if no free block fits and the window is
// exhausted.
func (h *Heap) Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("heap: invalid size %d", size)
	}
	size = bitmath.RoundUp(size, alignment)

	for i := range h.blocks {
		b := &h.blocks[i]
		if !b.free || b.size < size {
			continue
		}
		h.splitIfWorthwhile(i, size)
		b = &h.blocks[i] // the split may have reallocated h.blocks.
		b.free = false
		return h.payload(b), nil
	}

	// No existing block fits: bump the cursor.
	need := headerSize + size
	if h.bump+need > len(h.window) {
		return nil, ErrOutOfMemory
	}
	b := block{
		size:   size,
		free:   false,
		next:   -1,
		offset: h.bump,
	}
	if n := len(h.blocks); n > 0 {
		h.blocks[n-1].next = b.offset
	}
	h.blocks = append(h.blocks, b)
	h.bump += need
	p := h.payload(&h.blocks[len(h.blocks)-1])
	for i := range p {
		p[i] = 0
	}
	return p, nil
}

// splitIfWorthwhile splits block i if its payload is larger than the
// requested size by more than one header's worth plus the minimum
// allocation, leaving a usable free remainder block.
func (h *Heap) splitIfWorthwhile(i, size int) {
	b := &h.blocks[i]
	remainder := b.size - size
	if remainder <= headerSize+alignment {
		return
	}
	newOffset := b.offset + headerSize + size
	newBlock := block{
		size:   remainder - headerSize,
		free:   true,
		next:   b.next,
		offset: newOffset,
	}
	b.size = size
	b.next = newOffset
	// Insert newBlock immediately after i in address order.
	h.blocks = append(h.blocks, block{})
	copy(h.blocks[i+2:], h.blocks[i+1:len(h.blocks)-1])
	h.blocks[i+1] = newBlock
}

// Free releases a previously allocated region and coalesces it with the
// immediately following block if that block is also free.
func (h *Heap) Free(buf []byte) error {
	idx, err := h.indexOf(buf)
	if err != nil {
		return err
	}
	h.blocks[idx].free = true
	h.coalesce(idx)
	return nil
}

func (h *Heap) coalesce(i int) {
	b := &h.blocks[i]
	if i+1 >= len(h.blocks) {
		return
	}
	next := &h.blocks[i+1]
	if !next.free {
		return
	}
	b.size += headerSize + next.size
	b.next = next.next
	h.blocks = append(h.blocks[:i+1], h.blocks[i+2:]...)
}

// Realloc never moves an existing block under the caller except through this
// explicit call. Growing is allocate-copy-free: a new block is allocated, the
// old contents are copied into it and the old block is freed. Shrinking or
// keeping the same size leaves the block in place and copies nothing.
func (h *Heap) Realloc(buf []byte, newSize int) ([]byte, error) {
	idx, err := h.indexOf(buf)
	if err != nil {
		return nil, err
	}
	old := h.blocks[idx]
	if newSize <= old.size {
		// Shrinking or same size: keep in place, just report the
		// narrower view. The allocator does not reclaim the slack.
		return buf[:newSize], nil
	}
	fresh, err := h.Alloc(newSize)
	if err != nil {
		return nil, err
	}
	n := old.size
	if newSize < n {
		n = newSize
	}
	copy(fresh, buf[:n])
	if ferr := h.Free(buf); ferr != nil {
		return nil, ferr
	}
	return fresh, nil
}

func (h *Heap) payload(b *block) []byte {
	start := b.offset + headerSize
	return h.window[start : start+b.size : start+b.size]
}

func (h *Heap) indexOf(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, errors.New("heap: nil/empty buffer")
	}
	for i := range h.blocks {
		p := h.payload(&h.blocks[i])
		if &p[0] == &buf[0] {
			return i, nil
		}
	}
	return 0, errors.New("heap: buffer not allocated by this heap")
}

// Stats reports coarse usage for diagnostics (e.g. the shell's `nodeinfo`
// analogue for memory).
type Stats struct {
	WindowSize int
	Used       int
	Free       int
	Blocks     int
}

// Stats computes current usage by walking the block list.
func (h *Heap) Stats() Stats {
	s := Stats{WindowSize: len(h.window), Blocks: len(h.blocks)}
	for _, b := range h.blocks {
		if b.free {
			s.Free += b.size
		} else {
			s.Used += b.size
		}
	}
	return s
}
