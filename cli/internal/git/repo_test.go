package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run(t, dir, "git", "init")
	run(t, dir, "git", "config", "user.email", "test@git-suggest.local")
	run(t, dir, "git", "config", "user.name", "Test")
	run(t, dir, "git", "config", "commit.gpgsign", "false")
	writeFile(t, dir, "f1.txt", "a\n")
	run(t, dir, "git", "add", "f1.txt")
	run(t, dir, "git", "commit", "-m", "c1")
	return dir
}

func run(t *testing.T, dir, name string, args ...string) {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("%s %v: %v\n%s", name, args, err, out)
	}
}

func runOut(t *testing.T, dir, name string, args ...string) string {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("%s %v: %v", name, args, err)
	}
	return strings.TrimSpace(string(out))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestRepoRoot_fromRoot(t *testing.T) {
	t.Parallel()
	repo := initRepo(t)
	got, err := RepoRoot(repo)
	if err != nil {
		t.Fatalf("RepoRoot: %v", err)
	}
	want, err := filepath.EvalSymlinks(repo)
	if err != nil {
		t.Fatal(err)
	}
	gotReal, err := filepath.EvalSymlinks(got)
	if err != nil {
		t.Fatal(err)
	}
	if gotReal != want {
		t.Errorf("RepoRoot(%q) = %q, want %q", repo, gotReal, want)
	}
}

func TestOpen_fromSubdir(t *testing.T) {
	t.Parallel()
	repo := initRepo(t)
	subdir := filepath.Join(repo, "sub", "dir")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatal(err)
	}
	r, err := Open(subdir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	want, _ := filepath.EvalSymlinks(repo)
	got, _ := filepath.EvalSymlinks(r.Root)
	if got != want {
		t.Errorf("Open(subdir).Root = %q, want %q", got, want)
	}
}

func TestRepoRoot_notARepo(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	_, err := RepoRoot(dir)
	if err == nil {
		t.Fatal("RepoRoot(non-repo): expected error")
	}
	if err.Error() != "This directory is not inside a Git repository." {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestGitEnv_inheritsAndDisablesPrompt(t *testing.T) {
	t.Setenv("GIT_PAGER", "less")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	env := gitEnv()
	var prompt, pagers int
	var xdg bool
	for _, e := range env {
		switch {
		case e == "GIT_TERMINAL_PROMPT=0":
			prompt++
		case strings.HasPrefix(e, "GIT_PAGER="):
			pagers++
			if e != "GIT_PAGER=cat" {
				t.Errorf("pager entry %q, want GIT_PAGER=cat", e)
			}
		case e == "XDG_CONFIG_HOME=/tmp/xdg-config":
			xdg = true
		}
	}
	if prompt != 1 || pagers != 1 {
		t.Errorf("gitEnv() has %d prompt and %d pager entries, want 1 each", prompt, pagers)
	}
	if !xdg {
		t.Error("gitEnv() dropped XDG_CONFIG_HOME")
	}
}
