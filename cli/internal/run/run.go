// Package run implements the suggest flow: collect the staged changes,
// summarize them, ask the configured model for a commit message, optionally
// let the user review it, and commit. Used by the CLI and by tests.
package run

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gitsuggest/cli/internal/commitmsg"
	"gitsuggest/cli/internal/diff"
	"gitsuggest/cli/internal/erruser"
	"gitsuggest/cli/internal/git"
	"gitsuggest/cli/internal/interactive"
	"gitsuggest/cli/internal/minify"
	"gitsuggest/cli/internal/summarize"
	"gitsuggest/cli/internal/tokens"
	"gitsuggest/cli/internal/trace"
)

// ErrNoStagedChanges indicates there is nothing staged to describe. It is not a failure.
var ErrNoStagedChanges = errors.New("No staged changes found. Use 'git add' to stage files.")

// ErrAborted indicates the user aborted during interactive review.
var ErrAborted = errors.New("Commit aborted.")

// Collector returns the staged changes of a repository.
type Collector interface {
	StagedChanges(ctx context.Context) (git.ChangeSet, error)
}

// Committer records a commit with the given message and returns git's output.
type Committer interface {
	Commit(ctx context.Context, message string) (string, error)
}

// Options configures Run. Collector and Generator are required; Committer is
// required unless DryRun; Reviewer is required when Interactive.
type Options struct {
	Collector Collector
	Generator commitmsg.Generator
	Committer Committer
	Reviewer  interactive.Reviewer

	// Summarize holds the summarizer thresholds; zero fields use the defaults.
	Summarize summarize.Options
	// MaxPromptChars caps the summary bytes sent to the model (0 = no cap).
	MaxPromptChars int
	// Budget drives the "prompt near context limit" warning.
	Budget tokens.Budget

	DryRun      bool
	Interactive bool
	// Copy puts the final message on the clipboard.
	Copy bool
	// Clipboard writes to the clipboard; nil disables Copy.
	Clipboard func(string) error

	// Out receives the message (dry run) or git's commit output; nil discards.
	Out io.Writer
	// Err receives warnings; nil discards.
	Err io.Writer
	// TraceOut, when non-nil, receives step-by-step progress. Used when --verbose is set.
	TraceOut io.Writer
}

// Result describes a completed run.
type Result struct {
	Summary       string
	Message       string
	Committed     bool
	CommitOutput  string
	Regenerations int
}

// Run executes the suggest flow. It returns ErrNoStagedChanges when nothing is
// staged and ErrAborted when the user aborts; both leave the repository
// untouched. Collector errors are returned unchanged.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Collector == nil || opts.Generator == nil {
		return nil, errors.New("run: collector and generator are required")
	}
	if !opts.DryRun && opts.Committer == nil {
		return nil, errors.New("run: committer is required unless dry run")
	}
	if opts.Interactive && !opts.DryRun && opts.Reviewer == nil {
		return nil, errors.New("run: reviewer is required for interactive mode")
	}
	out, errOut := orDiscard(opts.Out), orDiscard(opts.Err)
	tr := trace.New(opts.TraceOut)

	tr.Step("Fetching staged changes...")
	changes, err := opts.Collector.StagedChanges(ctx)
	if err != nil {
		return nil, err
	}
	if changes.Empty() {
		return nil, ErrNoStagedChanges
	}

	summary := opts.Summarize.Summarize(changes.NameStatus, changes.Stat, changes.FullDiff)
	res := &Result{Summary: summary}
	if tr.Enabled() {
		traceDiffstat(tr, changes.FullDiff)
		tr.Block("Summary", summary)
	}
	if opts.MaxPromptChars > 0 && len(summary) > opts.MaxPromptChars {
		tr.Step("Summary is %d bytes (limit %d); compacting whitespace saves %d", len(summary), opts.MaxPromptChars, minify.Saved(summary))
	}
	n, warn := opts.Budget.Check(commitmsg.BuildPrompt(summary, opts.MaxPromptChars))
	tr.Step("Prompt: ~%d tokens", n)
	if warn != "" {
		fmt.Fprintf(errOut, "Warning: %s\n", warn)
	}

	tr.Step("Generating commit message with AI...")
	msg, err := commitmsg.Suggest(ctx, opts.Generator, summary, opts.MaxPromptChars)
	if err != nil {
		return nil, erruser.New("Could not generate a commit message.", err)
	}
	res.Message = msg

	if opts.DryRun {
		fmt.Fprintln(out, msg)
		copyMessage(opts, errOut, msg)
		return res, nil
	}

	if opts.Interactive {
		for {
			review, err := opts.Reviewer.Review(ctx, res.Message)
			if err != nil {
				return nil, err
			}
			switch review.Decision {
			case interactive.Commit:
				if review.Message != "" {
					res.Message = review.Message
				}
			case interactive.Abort:
				return nil, ErrAborted
			case interactive.Regenerate:
				tr.Step("Regenerating commit message...")
				msg, err := commitmsg.Suggest(ctx, opts.Generator, summary, opts.MaxPromptChars)
				if err != nil {
					return nil, erruser.New("Failed to regenerate message.", err)
				}
				res.Message = msg
				res.Regenerations++
				continue
			}
			break
		}
	}

	tr.Step("Committing with message: %s", res.Message)
	output, err := opts.Committer.Commit(ctx, res.Message)
	if err != nil {
		return nil, err
	}
	res.Committed = true
	res.CommitOutput = output
	if output != "" {
		fmt.Fprintln(out, output)
	}
	copyMessage(opts, errOut, res.Message)
	return res, nil
}

// traceDiffstat writes a one-line diffstat, plus one line per generated file.
// Parse failures are traced and otherwise ignored.
func traceDiffstat(tr *trace.Tracer, fullDiff string) {
	stats, err := diff.Stats(fullDiff)
	if err != nil {
		tr.Step("Diffstat unavailable: %v", err)
		return
	}
	files, added, deleted := diff.Totals(stats)
	tr.Step("%d file(s) changed, %d insertion(s)(+), %d deletion(s)(-)", files, added, deleted)
	for _, s := range stats {
		if s.Generated {
			tr.Step("Generated file: %s", s.Path)
		}
	}
}

func copyMessage(opts Options, errOut io.Writer, msg string) {
	if !opts.Copy {
		return
	}
	if opts.Clipboard == nil {
		fmt.Fprintln(errOut, "Warning: clipboard is not available.")
		return
	}
	if err := opts.Clipboard(msg); err != nil {
		fmt.Fprintf(errOut, "Warning: could not copy to clipboard: %v\n", err)
		return
	}
	fmt.Fprintln(errOut, "Copied to clipboard.")
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
