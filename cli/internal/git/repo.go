// Package git (repo.go) provides repository discovery and the environment
// used for every git subprocess.
package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"gitsuggest/cli/internal/erruser"
)

// Repo is a git working tree rooted at Root. It collects staged changes and
// records commits; the zero value runs git in the current directory.
type Repo struct {
	Root string
}

// Open returns the Repo containing dir.
func Open(dir string) (*Repo, error) {
	root, err := RepoRoot(dir)
	if err != nil {
		return nil, err
	}
	return &Repo{Root: root}, nil
}

// RepoRoot returns the absolute path of the git repository root containing dir.
// Runs "git rev-parse --show-toplevel" with Dir=dir. Returns error if dir is
// not inside a git repository.
func RepoRoot(dir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	cmd.Env = gitEnv()
	out, err := cmd.Output()
	if err != nil {
		return "", erruser.New("This directory is not inside a Git repository.", err)
	}
	root := strings.TrimSpace(string(out))
	return filepath.Abs(root)
}

// command builds a git invocation rooted at the repository.
func (r *Repo) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "git", args...)
	if r != nil && r.Root != "" {
		cmd.Dir = r.Root
	}
	cmd.Env = gitEnv()
	return cmd
}

// gitEnv is the caller's environment with prompts and paging switched off.
func gitEnv() []string {
	env := make([]string, 0, len(os.Environ())+2)
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "GIT_TERMINAL_PROMPT=") || strings.HasPrefix(kv, "GIT_PAGER=") {
			continue
		}
		env = append(env, kv)
	}
	return append(env, "GIT_TERMINAL_PROMPT=0", "GIT_PAGER=cat")
}
