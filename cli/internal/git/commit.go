package git

import (
	"bytes"
	"context"
	"strings"

	"gitsuggest/cli/internal/erruser"
)

// Commit records the staged changes with message and returns git's summary
// output. On failure the returned text is git's diagnostic (for example the
// hook output or "nothing to commit") and err wraps a *CommandError.
func (r *Repo) Commit(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", erruser.New("Commit message is empty.", nil)
	}
	args := []string{"commit", "-m", message}
	cmd := r.command(ctx, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		cerr := commandError(args, stdout.String(), stderr.String(), err)
		return cerr.Output, erruser.New("Could not create the commit.", cerr)
	}
	return toValidUTF8(strings.TrimRight(stdout.String(), "\n")), nil
}
