// Package shell holds the command-line splitting and diagnostic-writing
// infrastructure around Mango's shell surface. The dispatch table itself —
// wiring `help`/`newfile`/`edit`/... to their handlers — stays out of scope
// (spec.md §1 Non-goals); only the surrounding plumbing lives here.
package shell

import (
	"strings"

	"github.com/alessio/shellescape"
)

// SplitArgs splits a command line on tabs, per §6.2: "tab-separated args, no
// quoting". Leading/trailing tabs produce no empty leading/trailing
// argument; a bare empty line yields a single empty command name.
func SplitArgs(line string) []string {
	fields := strings.Split(line, "\t")
	out := fields[:0]
	for _, f := range fields {
		if f == "" {
			continue
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return []string{""}
	}
	return out
}

// Requote renders args as a single shell-safe line for logging/diagnostics.
// End-user input is never itself shell-quoted (§6.2 says no quoting), but a
// logged command containing embedded whitespace needs to round-trip
// unambiguously through a log line or a diagnostic message, which is what
// shellescape.QuoteCommand is for.
func Requote(args []string) string {
	return shellescape.QuoteCommand(args)
}
