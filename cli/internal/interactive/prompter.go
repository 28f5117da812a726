package interactive

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	banner         = "============================================================"
	choicePrompt   = "\nOptions: [c]ommit, [e]dit, [r]egenerate, [a]bort: "
	editPrompt     = "\nEnter your commit message (press Enter when done):\n> "
	msgEmptyEdit   = "Empty message, try again."
	msgInvalidPick = "Invalid choice. Please enter c, e, r, or a."
)

// Prompter is a line-oriented Reviewer. End of input aborts.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter returns a Prompter reading choices from in and writing to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Review prints message and loops until the user commits, edits, regenerates
// or aborts. Invalid choices and empty edits are reported and asked again.
func (p *Prompter) Review(ctx context.Context, message string) (Result, error) {
	fmt.Fprintf(p.out, "\n%s\nGenerated commit message:\n%s\n\n  %s\n\n%s\n", banner, banner, message, banner)
	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		fmt.Fprint(p.out, choicePrompt)
		choice, ok, err := p.readLine()
		if err != nil {
			return Result{}, err
		}
		if !ok {
			return Result{Decision: Abort}, nil
		}
		switch strings.ToLower(choice) {
		case "c":
			return Result{Decision: Commit, Message: message}, nil
		case "e":
			fmt.Fprint(p.out, editPrompt)
			edited, ok, err := p.readLine()
			if err != nil {
				return Result{}, err
			}
			if !ok {
				return Result{Decision: Abort}, nil
			}
			if edited != "" {
				return Result{Decision: Commit, Message: edited}, nil
			}
			fmt.Fprintln(p.out, msgEmptyEdit)
		case "r":
			return Result{Decision: Regenerate}, nil
		case "a":
			return Result{Decision: Abort}, nil
		default:
			fmt.Fprintln(p.out, msgInvalidPick)
		}
	}
}

// readLine returns the next trimmed line. ok is false at end of input.
func (p *Prompter) readLine() (line string, ok bool, err error) {
	s, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, fmt.Errorf("read choice: %w", err)
	}
	if err != nil && s == "" {
		return "", false, nil
	}
	return strings.TrimSpace(s), true, nil
}
