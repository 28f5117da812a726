// Package highlight colors diff text for terminal output.
package highlight

import (
	"io"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

const (
	formatterName = "terminal256"
	styleName     = "monokai"
)

// Diff writes text to w with diff syntax coloring (256-color ANSI escapes).
// Headers, hunk ranges, additions and deletions each get their own color.
func Diff(w io.Writer, text string) error {
	lexer := lexers.Get("diff")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get(formatterName)
	if formatter == nil {
		formatter = formatters.Fallback
	}
	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		return err
	}
	return formatter.Format(w, style, it)
}
