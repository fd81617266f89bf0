// Package platform declares the collaborator interfaces for the hardware
// surfaces Mango's libraries talk to but do not implement: the PS/2 scan
// code source, the text-mode/VGA framebuffer, and the console's raw output
// sink. Implementations are out of scope (see spec.md §1 Non-goals) — only
// the seams and the data tables a caller needs to drive them live here.
//
// mfs.Clock is deliberately NOT declared in this package: mfs depends on
// Clock internally (node timestamps), and platform exists for collaborators
// that sit above mfs, so pulling Clock in here would risk an import cycle
// the moment anything in platform ever needed to reference mfs. See
// DESIGN.md.
package platform

// ScancodeSource yields raw PS/2 scan codes as they arrive from the
// keyboard controller's data port. ReadScancode blocks until one is
// available.
type ScancodeSource interface {
	ReadScancode() (byte, error)
}

// Framebuffer is the text-mode display surface: a flat grid of cells
// addressed by (col, row), each holding a character and a packed
// foreground/background attribute byte (VGA's 4-bit/4-bit convention).
type Framebuffer interface {
	SetCell(col, row int, ch byte, attr byte)
	Cols() int
	Rows() int
	Flush() error
}

// Stdout is the raw byte sink behind console output, separate from
// Framebuffer so a headless or logging-only target can back it without
// pulling in the grid model.
type Stdout interface {
	WriteByte(b byte) error
}
