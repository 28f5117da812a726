// Package interactive lets the user review a suggested commit message before
// it is committed: commit it as is, edit it, ask for a new one, or abort.
//
// On a terminal the review runs as a small bubbletea program. Otherwise (pipes,
// tests, CI) a line-oriented prompter reads one choice per line.
package interactive

import (
	"context"
	"io"

	"github.com/atotto/clipboard"
	"golang.org/x/term"
)

// Decision is the outcome of one review round.
type Decision int

const (
	// Commit means Result.Message should be committed.
	Commit Decision = iota
	// Regenerate asks for a fresh suggestion.
	Regenerate
	// Abort stops without committing.
	Abort
)

func (d Decision) String() string {
	switch d {
	case Commit:
		return "commit"
	case Regenerate:
		return "regenerate"
	case Abort:
		return "abort"
	default:
		return "unknown"
	}
}

// Result is returned by Reviewer.Review. Message is the message to commit
// (possibly edited) when Decision is Commit and empty otherwise.
type Result struct {
	Decision Decision
	Message  string
}

// Reviewer presents a suggested message and returns the user's decision.
type Reviewer interface {
	Review(ctx context.Context, message string) (Result, error)
}

// New returns the TUI reviewer when both in and out are terminals, and a line
// prompter otherwise.
func New(in io.Reader, out io.Writer) Reviewer {
	if IsTerminal(in) && IsTerminal(out) {
		return &TUI{In: in, Out: out, Copy: clipboard.WriteAll}
	}
	return NewPrompter(in, out)
}

// IsTerminal reports whether v is a file descriptor attached to a terminal.
func IsTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
