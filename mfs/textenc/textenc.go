// Package textenc is the narrow text-encoding seam the editor buffer and
// the scripting lexer read file content through. It is a thin
// golang.org/x/text/encoding-compatible transformer around an ASCII
// validator today, so a future non-ASCII codepage can be swapped in
// without touching mfs's node tree or the code that reads file bytes.
package textenc

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ValidateASCII checks that b contains only 7-bit ASCII bytes, the
// character set the scripting and editor surfaces assume. It runs b
// through encoding/unicode's UTF8 decoder, which passes 7-bit ASCII
// through unchanged and replaces ill-formed sequences with U+FFFD instead
// of failing, and then rejects any byte with its high bit set; that second
// check is what rejects both invalid bytes and multi-byte UTF-8 sequences
// Mango has no terminal support for.
func ValidateASCII(b []byte) error {
	dec := unicode.UTF8.NewDecoder()
	if _, _, err := transform.Bytes(dec, b); err != nil {
		return fmt.Errorf("textenc: invalid UTF-8: %w", err)
	}
	for i, c := range b {
		if c >= 0x80 {
			return fmt.Errorf("textenc: byte %d (0x%02X) is not 7-bit ASCII", i, c)
		}
	}
	return nil
}
