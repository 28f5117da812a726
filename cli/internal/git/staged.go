package git

import (
	"bytes"
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"gitsuggest/cli/internal/erruser"
)

// ChangeSet is the raw description of the staged changes: per-file status
// lines, per-file line counts and the full unified diff.
type ChangeSet struct {
	NameStatus string // git diff --staged --name-status
	Stat       string // git diff --staged --stat
	FullDiff   string // git diff --staged
}

// Empty reports whether nothing is staged.
func (c ChangeSet) Empty() bool {
	return strings.TrimSpace(c.FullDiff) == "" && strings.TrimSpace(c.NameStatus) == ""
}

// CommandError is a failed git invocation. Output holds git's diagnostic text
// (stderr, or combined output when stderr was empty).
type CommandError struct {
	Args   []string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	msg := "git " + strings.Join(e.Args, " ") + ": " + e.Err.Error()
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// StagedNameStatus returns the add/modify/delete status of each staged file.
func (r *Repo) StagedNameStatus(ctx context.Context) (string, error) {
	return r.stagedDiff(ctx, "--name-status")
}

// StagedStat returns the per-file line-change counts of the staged files.
func (r *Repo) StagedStat(ctx context.Context) (string, error) {
	return r.stagedDiff(ctx, "--stat")
}

// StagedDiff returns the full unified diff of the staged files.
func (r *Repo) StagedDiff(ctx context.Context) (string, error) {
	return r.stagedDiff(ctx)
}

// StagedChanges runs the three staged-diff queries concurrently. Either all
// three succeed or the first failure is returned and the ChangeSet is zero.
func (r *Repo) StagedChanges(ctx context.Context) (ChangeSet, error) {
	var cs ChangeSet
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cs.NameStatus, err = r.StagedNameStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		cs.Stat, err = r.StagedStat(gctx)
		return err
	})
	g.Go(func() (err error) {
		cs.FullDiff, err = r.StagedDiff(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return ChangeSet{}, erruser.New("Could not read staged changes.", err)
	}
	return cs, nil
}

func (r *Repo) stagedDiff(ctx context.Context, extra ...string) (string, error) {
	args := append([]string{"diff", "--staged", "--no-color", "--no-ext-diff"}, extra...)
	return r.output(ctx, args...)
}

// output runs git and returns stdout decoded as UTF-8, with invalid bytes
// replaced by U+FFFD.
func (r *Repo) output(ctx context.Context, args ...string) (string, error) {
	cmd := r.command(ctx, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", commandError(args, stdout.String(), stderr.String(), err)
	}
	return toValidUTF8(stdout.String()), nil
}

func commandError(args []string, stdout, stderr string, err error) *CommandError {
	diag := strings.TrimSpace(stderr)
	if diag == "" {
		diag = strings.TrimSpace(stdout)
	}
	return &CommandError{Args: args, Output: toValidUTF8(diag), Err: err}
}

func toValidUTF8(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}
