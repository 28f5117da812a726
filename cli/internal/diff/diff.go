// Package diff computes per-file line statistics from unified diff text.
//
// # Binary files
// Git reports "Binary files ... differ" and emits no hunks; such files are
// listed with Binary set and zero counts.
//
// # Generated files
// Files matching generated or vendored patterns (*.pb.go, *_generated.go,
// *.min.js, package-lock.json, go.sum, vendor/) are flagged Generated so
// callers can de-emphasize them. They are never dropped.
//
// # Empty diff
// Empty or whitespace-only input yields a nil slice and no error.
package diff

import (
	"path/filepath"
	"strings"

	sgdiff "github.com/sourcegraph/go-diff/diff"
)

// FileStat is the change volume of one file.
type FileStat struct {
	Path      string // new path; old path for deletions
	OldPath   string // set when the file was renamed
	Added     int
	Deleted   int
	Binary    bool
	Generated bool
}

// defaultGeneratedPatterns are filepath.Match patterns for generated or vendored files.
var defaultGeneratedPatterns = []string{
	"*.pb.go",
	"*_generated.go",
	"*.min.js",
	"package-lock.json",
	"go.sum",
	"vendor/*",
	"vendor/**/*",
}

// Stats parses a unified diff (as printed by git diff) and returns one
// FileStat per file in diff order.
func Stats(unified string) ([]FileStat, error) {
	if strings.TrimSpace(unified) == "" {
		return nil, nil
	}
	fileDiffs, err := sgdiff.ParseMultiFileDiff([]byte(unified))
	if err != nil {
		return nil, err
	}
	stats := make([]FileStat, 0, len(fileDiffs))
	for _, fd := range fileDiffs {
		st := FileStat{}
		oldPath, newPath := trimDiffPath(fd.OrigName), trimDiffPath(fd.NewName)
		switch {
		case newPath == "" || newPath == "/dev/null":
			st.Path = oldPath
		default:
			st.Path = newPath
			if oldPath != "" && oldPath != "/dev/null" && oldPath != newPath {
				st.OldPath = oldPath
			}
		}
		for _, ext := range fd.Extended {
			if strings.HasPrefix(ext, "Binary files ") || ext == "GIT binary patch" {
				st.Binary = true
			}
		}
		for _, h := range fd.Hunks {
			for _, line := range strings.Split(string(h.Body), "\n") {
				switch {
				case strings.HasPrefix(line, "+"):
					st.Added++
				case strings.HasPrefix(line, "-"):
					st.Deleted++
				}
			}
		}
		st.Generated = IsGenerated(st.Path)
		stats = append(stats, st)
	}
	return stats, nil
}

// Totals sums stats into a file count and added/deleted line counts.
func Totals(stats []FileStat) (files, added, deleted int) {
	for _, s := range stats {
		added += s.Added
		deleted += s.Deleted
	}
	return len(stats), added, deleted
}

// IsGenerated reports whether path looks generated or vendored. Patterns use
// forward slashes; simple patterns are also tried against the base name.
func IsGenerated(path string) bool {
	path = filepath.ToSlash(path)
	for _, p := range defaultGeneratedPatterns {
		// filepath.Match does not support **; treat vendor patterns as a prefix match
		if strings.HasPrefix(p, "vendor") {
			if path == "vendor" || strings.HasPrefix(path, "vendor/") {
				return true
			}
			continue
		}
		if ok, err := filepath.Match(p, path); err == nil && ok {
			return true
		}
		if ok, _ := filepath.Match(p, filepath.Base(path)); ok {
			return true
		}
	}
	return false
}

func trimDiffPath(s string) string {
	if i := strings.IndexByte(s, '\t'); i >= 0 {
		s = s[:i]
	}
	if len(s) >= 2 && (s[0] == 'a' || s[0] == 'b') && s[1] == '/' {
		return s[2:]
	}
	return s
}
