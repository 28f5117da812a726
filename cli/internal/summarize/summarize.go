// Package summarize condenses a staged change set into a bounded text summary
// for a commit-message model.
//
// Small diffs are passed through verbatim. Large diffs are reduced to their
// structural lines (file, range and hunk headers, import lines, declarations
// with a little trailing context) plus a deterministic sample of added and
// deleted lines, capped at a fixed number of entries. The transform is pure:
// identical input always yields identical output.
package summarize

import (
	"slices"
	"strconv"
	"strings"
)

const (
	headerFileChanges = "=== FILE CHANGES ===\n"
	headerStats       = "=== STATS ===\n"
	headerFullDiff    = "=== FULL DIFF ===\n"
	headerKeyChanges  = "=== KEY CHANGES (Summarized) ===\n"
)

const (
	_defaultFullDiffMaxLines = 300
	_defaultMaxKeyLines      = 250
	_defaultSampleAfter      = 200
	_defaultSampleEvery      = 3
	_defaultTrailingContext  = 2
)

// linkageKeywords mark lines that import or export module members.
var linkageKeywords = []string{"import ", "export ", "from ", "require("}

// declarationKeywords mark lines that introduce a named declaration.
var declarationKeywords = []string{
	"function ", "class ", "def ", "const ", "let ", "var ", "async ", "interface ", "type ",
}

// Options holds the thresholds and keyword tables of the summarizer.
// Zero-valued fields fall back to the defaults; nil keyword slices use the
// tables returned by DefaultOptions.
type Options struct {
	// FullDiffMaxLines is the largest diff (in lines) emitted verbatim.
	FullDiffMaxLines int
	// MaxKeyLines caps the entries of the key-changes section.
	MaxKeyLines int
	// SampleAfter is the retained count after which additions and deletions
	// are sampled instead of kept.
	SampleAfter int
	// SampleEvery keeps a sampled line when its index is a multiple of it.
	SampleEvery int
	// TrailingContext is the number of lines after a declaration inspected
	// as context. Blank lines in that window are skipped, not replaced. A
	// negative value disables trailing context.
	TrailingContext int

	LinkageKeywords     []string
	DeclarationKeywords []string
}

// DefaultOptions returns the stock thresholds: 300 lines verbatim, 250 key
// entries, sampling every 3rd change past 200 retained entries.
func DefaultOptions() Options {
	return Options{
		FullDiffMaxLines:    _defaultFullDiffMaxLines,
		MaxKeyLines:         _defaultMaxKeyLines,
		SampleAfter:         _defaultSampleAfter,
		SampleEvery:         _defaultSampleEvery,
		TrailingContext:     _defaultTrailingContext,
		LinkageKeywords:     slices.Clone(linkageKeywords),
		DeclarationKeywords: slices.Clone(declarationKeywords),
	}
}

func (o Options) withDefaults() Options {
	if o.FullDiffMaxLines <= 0 {
		o.FullDiffMaxLines = _defaultFullDiffMaxLines
	}
	if o.MaxKeyLines <= 0 {
		o.MaxKeyLines = _defaultMaxKeyLines
	}
	if o.SampleAfter <= 0 {
		o.SampleAfter = _defaultSampleAfter
	}
	if o.SampleEvery <= 0 {
		o.SampleEvery = _defaultSampleEvery
	}
	if o.TrailingContext == 0 {
		o.TrailingContext = _defaultTrailingContext
	}
	if o.LinkageKeywords == nil {
		o.LinkageKeywords = linkageKeywords
	}
	if o.DeclarationKeywords == nil {
		o.DeclarationKeywords = declarationKeywords
	}
	return o
}

// Summarize builds the summary with DefaultOptions.
func Summarize(nameStatus, stats, fullDiff string) string {
	return DefaultOptions().Summarize(nameStatus, stats, fullDiff)
}

// Summarize returns the file-changes and stats header followed by either the
// whole diff (when it has at most FullDiffMaxLines lines) or the key-changes
// section. It never fails; an empty diff takes the verbatim path.
func (o Options) Summarize(nameStatus, stats, fullDiff string) string {
	o = o.withDefaults()
	lines := splitLines(fullDiff)

	var b strings.Builder
	b.WriteString(headerFileChanges)
	b.WriteString(nameStatus)
	b.WriteString("\n\n")
	b.WriteString(headerStats)
	b.WriteString(stats)
	b.WriteString("\n\n")

	if len(lines) <= o.FullDiffMaxLines {
		b.WriteString(headerFullDiff)
		b.WriteString(fullDiff)
		return b.String()
	}

	b.WriteString(headerKeyChanges)
	b.WriteString(strings.Join(o.KeyLines(lines), "\n"))
	b.WriteString("\n\n[Note: Full diff has ")
	b.WriteString(strconv.Itoa(len(lines)))
	b.WriteString(" lines. Above shows key structural changes.]")
	return b.String()
}

// KeyLines selects the lines of the key-changes section from lines, in their
// original order, capped at MaxKeyLines. Each input line is classified at
// most once: lines pulled in as declaration context are skipped by the scan.
//
// The sampling threshold compares against everything retained so far,
// trailing context included.
func (o Options) KeyLines(lines []string) []string {
	o = o.withDefaults()
	kept := make([]string, 0, min(len(lines), o.MaxKeyLines))
	retained := 0
	keep := func(line string) {
		retained++
		if len(kept) < o.MaxKeyLines {
			kept = append(kept, line)
		}
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		kind := Classify(line)
		switch {
		case kind.IsHeader():
			keep(line)
		case containsAny(line, o.LinkageKeywords):
			keep(line)
		case containsAny(line, o.DeclarationKeywords):
			keep(line)
			end := min(i+max(o.TrailingContext, 0), len(lines)-1)
			for j := i + 1; j <= end; j++ {
				if strings.TrimSpace(lines[j]) != "" {
					keep(lines[j])
				}
			}
			i = end
		case kind == KindAddition || kind == KindDeletion:
			if retained < o.SampleAfter || i%o.SampleEvery == 0 {
				keep(line)
			}
		}
	}
	return kept
}

// splitLines splits on '\n' only. A trailing newline yields a final empty
// line; the empty string yields no lines.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
