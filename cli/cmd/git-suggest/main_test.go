package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func gitRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
	return strings.TrimSpace(string(out))
}

// initRepo returns a repository with one commit and app.py staged.
func initRepo(t *testing.T, stage bool) string {
	t.Helper()
	dir := t.TempDir()
	gitRun(t, dir, "init")
	gitRun(t, dir, "config", "user.email", "test@git-suggest.local")
	gitRun(t, dir, "config", "user.name", "Test")
	gitRun(t, dir, "config", "commit.gpgsign", "false")
	writeFile(t, filepath.Join(dir, "README.md"), "# demo\n")
	gitRun(t, dir, "add", "README.md")
	gitRun(t, dir, "commit", "-m", "init")
	if stage {
		writeFile(t, filepath.Join(dir, "app.py"), "import os\n\ndef login():\n    return os.getenv('USER')\n")
		gitRun(t, dir, "add", "app.py")
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// ollamaServer answers /api/generate with response and /api/tags with one model.
func ollamaServer(t *testing.T, response string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/generate":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"response": response, "done": true})
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[{"name":"qwen2.5-coder:7b"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// ollamaConfig writes a config file pointing at srv and returns its path.
func ollamaConfig(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gitcommit.yml")
	writeFile(t, path, "provider: ollama\nmodel: qwen2.5-coder:7b\nollama_base_url: "+srv.URL+"\n")
	return path
}

type result struct {
	code     int
	out, err string
}

func execCLI(t *testing.T, stdin string, env []string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	code := execute(args, streams{in: strings.NewReader(stdin), out: &out, err: &errOut, env: env})
	return result{code: code, out: out.String(), err: errOut.String()}
}

func TestRunCLI_help(t *testing.T) {
	t.Parallel()
	r := execCLI(t, "", []string{}, "--help")
	if r.code != 0 {
		t.Errorf("--help exit = %d, want 0", r.code)
	}
	for _, want := range []string{"--dry-run", "--interactive", "summary", "doctor"} {
		if !strings.Contains(r.out, want) {
			t.Errorf("help missing %q", want)
		}
	}
}

func TestRunCLI_version(t *testing.T) {
	t.Parallel()
	r := execCLI(t, "", []string{}, "-v")
	if r.code != 0 || !strings.HasPrefix(r.out, "git-suggest ") {
		t.Errorf("-v = %d %q", r.code, r.out)
	}
}

func TestRunCLI_unknownFlag(t *testing.T) {
	t.Parallel()
	if r := execCLI(t, "", []string{}, "--bogus"); r.code != 1 {
		t.Errorf("exit = %d, want 1", r.code)
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()
	repo := initRepo(t, true)
	srv := ollamaServer(t, "unused")
	r := execCLI(t, "", []string{}, "summary", "-C", repo, "--no-color", "--config", ollamaConfig(t, srv))
	if r.code != 0 {
		t.Fatalf("exit = %d, stderr = %s", r.code, r.err)
	}
	for _, want := range []string{"=== FILE CHANGES ===", "A\tapp.py", "=== STATS ===", "=== FULL DIFF ===", "+def login():"} {
		if !strings.Contains(r.out, want) {
			t.Errorf("summary missing %q:\n%s", want, r.out)
		}
	}
	if strings.Contains(r.out, "\x1b[") {
		t.Error("--no-color output contains ANSI escapes")
	}
	if !strings.Contains(r.err, "1 file(s) changed, 4 insertion(s)(+), 0 deletion(s)(-)") {
		t.Errorf("stderr = %q, want diffstat footer", r.err)
	}
}

func TestSummary_notARepo(t *testing.T) {
	t.Parallel()
	r := execCLI(t, "", []string{}, "summary", "-C", t.TempDir())
	if r.code != 1 {
		t.Errorf("exit = %d, want 1", r.code)
	}
	if !strings.Contains(r.err, "This directory is not inside a Git repository.") {
		t.Errorf("stderr = %q", r.err)
	}
	if !strings.Contains(r.err, "Details: ") {
		t.Errorf("stderr should carry details: %q", r.err)
	}
}

func TestSuggest_noStagedChanges(t *testing.T) {
	t.Parallel()
	repo := initRepo(t, false)
	srv := ollamaServer(t, "feat: x")
	r := execCLI(t, "", []string{}, "-C", repo, "--config", ollamaConfig(t, srv))
	if r.code != 0 {
		t.Errorf("exit = %d, want 0", r.code)
	}
	if !strings.Contains(r.err, "No staged changes found. Use 'git add' to stage files.") {
		t.Errorf("stderr = %q", r.err)
	}
}

func TestSuggest_dryRun(t *testing.T) {
	t.Parallel()
	repo := initRepo(t, true)
	srv := ollamaServer(t, "`feat: add login helper`")
	r := execCLI(t, "", []string{}, "-d", "-C", repo, "--config", ollamaConfig(t, srv))
	if r.code != 0 {
		t.Fatalf("exit = %d, stderr = %s", r.code, r.err)
	}
	if r.out != "feat: add login helper\n" {
		t.Errorf("stdout = %q", r.out)
	}
	if got := gitRun(t, repo, "log", "-1", "--format=%s"); got != "init" {
		t.Errorf("dry run committed: HEAD subject = %q", got)
	}
}

func TestSuggest_commits(t *testing.T) {
	t.Parallel()
	repo := initRepo(t, true)
	srv := ollamaServer(t, "feat: add login helper")
	r := execCLI(t, "", []string{}, "--verbose", "-C", repo, "--config", ollamaConfig(t, srv))
	if r.code != 0 {
		t.Fatalf("exit = %d, stderr = %s", r.code, r.err)
	}
	if got := gitRun(t, repo, "log", "-1", "--format=%s"); got != "feat: add login helper" {
		t.Errorf("HEAD subject = %q", got)
	}
	if !strings.Contains(r.out, "feat: add login helper") {
		t.Errorf("stdout should carry git's commit output: %q", r.out)
	}
	if !strings.Contains(r.err, "[git-suggest] Committing with message: feat: add login helper") {
		t.Errorf("verbose trace missing commit step: %q", r.err)
	}
}

func TestSuggest_interactiveEditAndAbort(t *testing.T) {
	t.Parallel()
	repo := initRepo(t, true)
	srv := ollamaServer(t, "feat: add login helper")
	cfg := ollamaConfig(t, srv)

	r := execCLI(t, "x\na\n", []string{}, "-i", "-C", repo, "--config", cfg)
	if r.code != 0 {
		t.Fatalf("abort exit = %d, stderr = %s", r.code, r.err)
	}
	if !strings.Contains(r.out, "Invalid choice. Please enter c, e, r, or a.") || !strings.Contains(r.out, "Commit aborted.") {
		t.Errorf("stdout = %q", r.out)
	}
	if got := gitRun(t, repo, "log", "-1", "--format=%s"); got != "init" {
		t.Errorf("abort committed: HEAD subject = %q", got)
	}

	r = execCLI(t, "e\nfix: hand-written message\n", []string{}, "-i", "-C", repo, "--config", cfg)
	if r.code != 0 {
		t.Fatalf("edit exit = %d, stderr = %s", r.code, r.err)
	}
	if got := gitRun(t, repo, "log", "-1", "--format=%s"); got != "fix: hand-written message" {
		t.Errorf("HEAD subject = %q", got)
	}
}

func TestSuggest_missingAPIKey(t *testing.T) {
	t.Parallel()
	repo := initRepo(t, true)
	cfg := filepath.Join(t.TempDir(), "c.yml")
	writeFile(t, cfg, "provider: gemini\n")
	r := execCLI(t, "", []string{}, "-C", repo, "--config", cfg)
	if r.code != 1 {
		t.Errorf("exit = %d, want 1", r.code)
	}
	for _, want := range []string{"API key not found.", "export api_key=\"YOUR_API_KEY\""} {
		if !strings.Contains(r.err, want) {
			t.Errorf("stderr missing %q:\n%s", want, r.err)
		}
	}
}

func TestSuggest_ollamaUnreachable(t *testing.T) {
	t.Parallel()
	repo := initRepo(t, true)
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	cfg := filepath.Join(t.TempDir(), "c.yml")
	writeFile(t, cfg, "provider: ollama\nollama_base_url: "+url+"\n")
	r := execCLI(t, "", []string{}, "-d", "-C", repo, "--config", cfg)
	if r.code != 1 {
		t.Errorf("exit = %d, want 1", r.code)
	}
	if !strings.Contains(r.err, "Ollama unreachable at "+url) {
		t.Errorf("stderr = %q", r.err)
	}
}

func TestDoctor(t *testing.T) {
	t.Parallel()
	repo := initRepo(t, false)
	srv := ollamaServer(t, "")
	r := execCLI(t, "", []string{}, "doctor", "-C", repo, "--config", ollamaConfig(t, srv))
	if r.code != 0 {
		t.Fatalf("exit = %d, stderr = %s", r.code, r.err)
	}
	for _, want := range []string{"Provider: ollama", "Model: qwen2.5-coder:7b", "Ollama OK"} {
		if !strings.Contains(r.out, want) {
			t.Errorf("doctor output missing %q:\n%s", want, r.out)
		}
	}

	r = execCLI(t, "", []string{}, "doctor", "-C", repo, "--config", ollamaConfig(t, srv), "--model", "llama3")
	if r.code != 1 || !strings.Contains(r.err, "ollama pull llama3") {
		t.Errorf("missing model: exit = %d, stderr = %q", r.code, r.err)
	}
}

func TestDoctor_gemini(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "c.yml")
	writeFile(t, cfg, "provider: gemini\napi_key_env: GS_TEST_KEY\n")
	r := execCLI(t, "", []string{"GS_TEST_KEY=k"}, "doctor", "-C", dir, "--config", cfg)
	if r.code != 0 || !strings.Contains(r.out, "Gemini API key: set (GS_TEST_KEY)") {
		t.Errorf("exit = %d, stdout = %q, stderr = %q", r.code, r.out, r.err)
	}
	r = execCLI(t, "", []string{}, "doctor", "-C", dir, "--config", cfg)
	if r.code != 1 || !strings.Contains(r.err, "GS_TEST_KEY") {
		t.Errorf("missing key: exit = %d, stderr = %q", r.code, r.err)
	}
}
