package platform

// Scan-code to character tables for a US-QWERTY PS/2 keyboard, indexed by
// the raw "make" scan code (set 1). Index 0 and 1 are unused by the
// hardware; both tables carry them as 0 to keep the two arrays the same
// shape. Kept as a matched pair per the original driver: preserve both
// verbatim, they encode the same layout assumption and must not drift
// apart.
//
// Grounded on _examples/original_source/src/keyboard.c's `ascii` and
// `ascii_shift` tables and `scancode_to_char`.

// UnshiftedTable is the character each scan code produces with no
// modifier held.
var UnshiftedTable = [...]byte{
	0, 0, '1', '2', '3', '4', '5', '6',
	'7', '8', '9', '0', '-', '=', '\b', '\t',
	'q', 'w', 'e', 'r', 't', 'y', 'u', 'i',
	'o', 'p', '[', ']', '\n', 0, 'a', 's',
	'd', 'f', 'g', 'h', 'j', 'k', 'l', ';',
	'\'', '`', 0, '\\', 'z', 'x', 'c', 'v',
	'b', 'n', 'm', ',', '.', '/', 0, '*',
	0, ' ',
}

// ShiftedTable is the character each scan code produces with shift held.
var ShiftedTable = [...]byte{
	0, 0, '!', '@', '#', '$', '%', '^',
	'&', '*', '(', ')', '_', '+', '\b', '\t',
	'Q', 'W', 'E', 'R', 'T', 'Y', 'U', 'I',
	'O', 'P', '{', '}', '\n', 0, 'A', 'S',
	'D', 'F', 'G', 'H', 'J', 'K', 'L', ':',
	'"', '~', 0, '|', 'Z', 'X', 'C', 'V',
	'B', 'N', 'M', '<', '>', '?', 0, '*',
	0, ' ',
}

// Scan codes for the keys the tables' consumers need to name directly
// (shift tracking, release detection), grounded on
// original_source/include/keyboard.h.
const (
	KeyLShift  = 0x2A
	KeyRShift  = 0x36
	KeyRelease = 0x80
)

// ScancodeToChar maps a raw scan code to a character using the unshifted
// or shifted table, mirroring scancode_to_char. Scan codes outside either
// table's range, and codes with no character mapping (0 in the table),
// return 0.
func ScancodeToChar(scancode byte, shifted bool) byte {
	if int(scancode) >= len(UnshiftedTable) {
		return 0
	}
	if shifted {
		return ShiftedTable[scancode]
	}
	return UnshiftedTable[scancode]
}

// ShiftState tracks whether a shift key is currently held, given a stream
// of raw scan codes. Release codes carry KeyRelease (0x80) set on top of
// the make code, matching the original's `scancode & KEY_RELEASE` check.
type ShiftState struct {
	held bool
}

// Update feeds one raw scan code into the tracker and reports whether
// shift is held afterward.
func (s *ShiftState) Update(scancode byte) bool {
	if scancode&KeyRelease != 0 {
		key := scancode &^ KeyRelease
		if key == KeyLShift || key == KeyRShift {
			s.held = false
		}
		return s.held
	}
	if scancode == KeyLShift || scancode == KeyRShift {
		s.held = true
	}
	return s.held
}

// Held reports the tracker's current shift state.
func (s *ShiftState) Held() bool { return s.held }
