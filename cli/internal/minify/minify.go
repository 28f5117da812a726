// Package minify reduces whitespace in diff text to save prompt tokens.
// Only the body lines of hunks are touched: their +, - or space marker is kept
// and the rest of the line loses its indentation and repeated blanks.
// Headers and summary section lines pass through unchanged.
package minify

import "strings"

// Diff compacts every diff body line of text (context, added or removed). A
// body line is one starting with ' ', '+' or '-' that is not a "+++" or "---"
// file header. Blank lines and all other lines are kept as is.
func Diff(text string) string {
	if text == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if isBodyLine(line) {
			lines[i] = line[:1] + collapseSpaces(strings.TrimLeft(line[1:], " \t"))
		}
	}
	return strings.Join(lines, "\n")
}

// Saved returns how many bytes Diff removes from text.
func Saved(text string) int {
	return len(text) - len(Diff(text))
}

func isBodyLine(line string) bool {
	if line == "" {
		return false
	}
	switch line[0] {
	case ' ':
		return true
	case '+':
		return !strings.HasPrefix(line, "+++")
	case '-':
		return !strings.HasPrefix(line, "---")
	}
	return false
}

// collapseSpaces replaces runs of spaces (and tabs) with a single space.
// Does not modify newlines or other characters.
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	wasSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' {
			if !wasSpace {
				b.WriteRune(' ')
				wasSpace = true
			}
			continue
		}
		wasSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
