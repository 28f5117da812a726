// Package commitmsg turns a staged-changes summary into a single-line
// Conventional Commits message using a text-generation model.
package commitmsg

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gitsuggest/cli/internal/minify"
)

// DefaultMaxPromptChars bounds the summary part of the prompt in bytes.
const DefaultMaxPromptChars = 32 * 1024

const truncatedMarker = "\n\n[truncated for context]"

// Preamble instructs the model to produce one conventional commit line.
const Preamble = `You are an expert programmer who writes concise and professional git commit messages.
Based on the following git changes, generate a commit message.

Guidelines:
- Follow the "Conventional Commits" standard (e.g., 'feat:', 'fix:', 'docs:', 'style:', 'refactor:', 'test:').
- The message should be a single line, 72 characters or less.
- Do NOT include any extra text, explanations, or markdown formatting.
- Just return the raw commit message.
- Focus on WHAT changed and WHY, not implementation details.

EXAMPLE:
feat: add user login endpoint

Here are the changes:
`

var (
	// ErrEmptySummary is returned when there is nothing to describe.
	ErrEmptySummary = errors.New("commitmsg: empty summary")
	// ErrEmptyResponse is returned when the model's answer is blank after cleanup.
	ErrEmptyResponse = errors.New("commitmsg: model returned an empty message")
)

// Generator is a text-generation backend: prompt in, raw text out.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// BuildPrompt returns Preamble, a blank line and summary. When maxChars > 0
// and summary is longer, its diff lines are first compacted (see
// minify.Diff); if it is still too long it is cut at a UTF-8 boundary and
// marked truncated.
func BuildPrompt(summary string, maxChars int) string {
	if maxChars > 0 && len(summary) > maxChars {
		summary = minify.Diff(summary)
		if len(summary) > maxChars {
			summary = truncateUTF8(summary, maxChars) + truncatedMarker
		}
	}
	return Preamble + "\n\n" + summary
}

// Suggest asks gen for a commit message describing summary and returns the
// cleaned first line. maxChars <= 0 disables the prompt size cap.
func Suggest(ctx context.Context, gen Generator, summary string, maxChars int) (string, error) {
	if gen == nil {
		return "", errors.New("commitmsg: nil generator")
	}
	if strings.TrimSpace(summary) == "" {
		return "", ErrEmptySummary
	}
	raw, err := gen.Generate(ctx, BuildPrompt(summary, maxChars))
	if err != nil {
		return "", err
	}
	msg := Clean(raw)
	if msg == "" {
		return "", ErrEmptyResponse
	}
	return msg, nil
}

// Clean strips markdown emphasis and code ticks from a model answer and keeps
// only its first line.
func Clean(raw string) string {
	msg := strings.TrimSpace(raw)
	msg = strings.ReplaceAll(msg, "`", "")
	msg = strings.ReplaceAll(msg, "**", "")
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return strings.TrimSpace(msg)
}

// truncateUTF8 returns at most limit bytes of s without splitting a rune.
func truncateUTF8(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
