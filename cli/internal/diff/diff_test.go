package diff

import "testing"

const twoFiles = `diff --git a/main.go b/main.go
index 83db48f..bf269f4 100644
--- a/main.go
+++ b/main.go
@@ -1,3 +1,5 @@
 package main
-import "fmt"
+import (
+	"fmt"
+)
 func main() {}
diff --git a/pkg/new.py b/pkg/new.py
new file mode 100644
index 0000000..e69de29
--- /dev/null
+++ b/pkg/new.py
@@ -0,0 +1,2 @@
+def hello():
+    return 1
`

func TestStats_textFiles(t *testing.T) {
	t.Parallel()
	got, err := Stats(twoFiles)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(Stats) = %d, want 2: %+v", len(got), got)
	}
	if got[0].Path != "main.go" || got[0].Added != 3 || got[0].Deleted != 1 {
		t.Errorf("main.go stat = %+v", got[0])
	}
	if got[1].Path != "pkg/new.py" || got[1].Added != 2 || got[1].Deleted != 0 {
		t.Errorf("pkg/new.py stat = %+v", got[1])
	}
	files, added, deleted := Totals(got)
	if files != 2 || added != 5 || deleted != 1 {
		t.Errorf("Totals = %d, %d, %d; want 2, 5, 1", files, added, deleted)
	}
}

func TestStats_deletedFileUsesOldPath(t *testing.T) {
	t.Parallel()
	in := `diff --git a/old.txt b/old.txt
deleted file mode 100644
index e69de29..0000000
--- a/old.txt
+++ /dev/null
@@ -1,2 +0,0 @@
-one
-two
`
	got, err := Stats(in)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(got) != 1 || got[0].Path != "old.txt" || got[0].Deleted != 2 || got[0].Added != 0 {
		t.Errorf("Stats = %+v", got)
	}
}

func TestStats_binary(t *testing.T) {
	t.Parallel()
	in := `diff --git a/img.png b/img.png
index 1111111..2222222 100644
Binary files a/img.png and b/img.png differ
`
	got, err := Stats(in)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(Stats) = %d, want 1", len(got))
	}
	if !got[0].Binary || got[0].Added != 0 || got[0].Deleted != 0 {
		t.Errorf("binary stat = %+v", got[0])
	}
}

func TestStats_empty(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"", "  \n"} {
		got, err := Stats(in)
		if err != nil || got != nil {
			t.Errorf("Stats(%q) = %v, %v; want nil, nil", in, got, err)
		}
	}
}

func TestIsGenerated(t *testing.T) {
	t.Parallel()
	tests := []struct {
		path string
		want bool
	}{
		{"api/v1/service.pb.go", true},
		{"zz_generated.go", true},
		{"web/app.min.js", true},
		{"package-lock.json", true},
		{"go.sum", true},
		{"vendor/github.com/x/y.go", true},
		{"vendor", true},
		{"main.go", false},
		{"vendored.go", false},
		{"docs/go.sum.md", false},
	}
	for _, tt := range tests {
		if got := IsGenerated(tt.path); got != tt.want {
			t.Errorf("IsGenerated(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestTrimDiffPath(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"a/main.go":          "main.go",
		"b/dir/x.go":         "dir/x.go",
		"/dev/null":          "/dev/null",
		"b/x.go\t2024-01-01": "x.go",
		"abc":                "abc",
	}
	for in, want := range tests {
		if got := trimDiffPath(in); got != want {
			t.Errorf("trimDiffPath(%q) = %q, want %q", in, got, want)
		}
	}
}
