package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCommit_recordsMessage(t *testing.T) {
	t.Parallel()
	dir := initRepo(t)
	writeFile(t, dir, "f2.txt", "b\n")
	run(t, dir, "git", "add", "f2.txt")

	out, err := (&Repo{Root: dir}).Commit(context.Background(), "feat: add f2")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if !strings.Contains(out, "feat: add f2") {
		t.Errorf("Commit output = %q, want summary with message", out)
	}
	if got := runOut(t, dir, "git", "log", "-1", "--format=%s"); got != "feat: add f2" {
		t.Errorf("HEAD subject = %q", got)
	}
}

func TestCommit_nothingStaged(t *testing.T) {
	t.Parallel()
	dir := initRepo(t)
	out, err := (&Repo{Root: dir}).Commit(context.Background(), "chore: nothing")
	if err == nil {
		t.Fatal("Commit with nothing staged: want error")
	}
	if !strings.Contains(out, "nothing") {
		t.Errorf("diagnostic = %q, want git's nothing-to-commit text", out)
	}
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Errorf("error should wrap *CommandError: %v", err)
	}
}

func TestCommit_emptyMessage(t *testing.T) {
	t.Parallel()
	if _, err := (&Repo{Root: t.TempDir()}).Commit(context.Background(), "  "); err == nil {
		t.Fatal("Commit with blank message: want error")
	}
}

func TestCommit_usesIdentityFromXDGConfig(t *testing.T) {
	home := t.TempDir()
	xdg := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	for _, k := range []string{"GIT_CONFIG_GLOBAL", "GIT_AUTHOR_NAME", "GIT_AUTHOR_EMAIL", "GIT_COMMITTER_NAME", "GIT_COMMITTER_EMAIL", "EMAIL"} {
		t.Setenv(k, "")
		if err := os.Unsetenv(k); err != nil {
			t.Fatalf("unset %s: %v", k, err)
		}
	}
	writeFile(t, xdg, filepath.Join("git", "config"), "[user]\n\tname = XDG User\n\temail = xdg@git-suggest.local\n[commit]\n\tgpgsign = false\n")

	dir := t.TempDir()
	run(t, dir, "git", "init")
	writeFile(t, dir, "a.txt", "a\n")
	run(t, dir, "git", "add", "a.txt")

	out, err := (&Repo{Root: dir}).Commit(context.Background(), "feat: a")
	if err != nil {
		t.Fatalf("Commit: %v\n%s", err, out)
	}
	if got := runOut(t, dir, "git", "log", "-1", "--format=%an <%ae>"); got != "XDG User <xdg@git-suggest.local>" {
		t.Errorf("author = %q, want the identity from $XDG_CONFIG_HOME/git/config", got)
	}
}
