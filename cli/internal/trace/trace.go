// Package trace writes --verbose step output to stderr. A Tracer with a nil
// writer (or a nil *Tracer) discards everything.
package trace

import (
	"fmt"
	"io"
	"strings"
)

const prefix = "[git-suggest] "

// Tracer writes step and detail lines. When the underlying writer is nil, all methods no-op.
type Tracer struct {
	w io.Writer
}

// New returns a Tracer that writes to w. If w is nil, all methods no-op.
func New(w io.Writer) *Tracer {
	return &Tracer{w: w}
}

// Enabled returns true if the tracer has a non-nil writer.
func (t *Tracer) Enabled() bool {
	return t != nil && t.w != nil
}

// Step writes one prefixed line, e.g. "[git-suggest] Fetching staged changes...".
func (t *Tracer) Step(format string, args ...interface{}) {
	if !t.Enabled() {
		return
	}
	fmt.Fprintf(t.w, prefix+strings.TrimRight(format, "\n")+"\n", args...)
}

// Block writes a titled multi-line block, each line indented under the title.
func (t *Tracer) Block(title, body string) {
	if !t.Enabled() {
		return
	}
	fmt.Fprintf(t.w, "%s%s:\n", prefix, title)
	for _, line := range strings.Split(strings.TrimRight(body, "\n"), "\n") {
		fmt.Fprintf(t.w, "    %s\n", line)
	}
}
