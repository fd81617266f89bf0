package shell

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Severity is one of §7's three error classes the shell surface can report.
// User-input errors (class 3) never reach Diag: the editor clamps them
// silently and has nothing to print.
type Severity int

const (
	// SeverityFatal is a kernel panic: a single line to serial, then halt.
	// Diag never recovers from this severity; callers exit after writing it.
	SeverityFatal Severity = iota
	// SeverityOperationFailure is §7 class 2: printed, the in-progress
	// command or script is abandoned, and the prompt returns.
	SeverityOperationFailure
)

func (s Severity) String() string {
	switch s {
	case SeverityFatal:
		return "fatal"
	case SeverityOperationFailure:
		return "error"
	default:
		return "unknown"
	}
}

// Diag writes one-line, severity-colored diagnostics to an underlying
// writer. Coloring is purely cosmetic: it is skipped whenever the
// destination isn't a terminal, or color.NoColor is set.
type Diag struct {
	w      io.Writer
	color  bool
	fatal  *color.Color
	opfail *color.Color
}

// NewDiag constructs a Diag writing to w. isTerminal should report whether w
// is a terminal (pass a *os.File through NewDiagForFile to have this
// detected automatically).
func NewDiag(w io.Writer, isTerminal bool) *Diag {
	useColor := isTerminal && !color.NoColor
	return &Diag{
		w:      w,
		color:  useColor,
		fatal:  color.New(color.FgRed, color.Bold),
		opfail: color.New(color.FgYellow),
	}
}

// NewDiagForFile constructs a Diag over an *os.File, detecting terminal-ness
// with go-isatty the way the shell's real stdout sink would.
func NewDiagForFile(f *os.File) *Diag {
	return NewDiag(f, isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// Print writes a one-line diagnostic: "<severity>: <msg>", colored by
// severity when the destination is a terminal.
func (d *Diag) Print(sev Severity, msg string) {
	line := fmt.Sprintf("%s: %s\n", sev, msg)
	if !d.color {
		fmt.Fprint(d.w, line)
		return
	}
	switch sev {
	case SeverityFatal:
		d.fatal.Fprint(d.w, line)
	case SeverityOperationFailure:
		d.opfail.Fprint(d.w, line)
	default:
		fmt.Fprint(d.w, line)
	}
}
