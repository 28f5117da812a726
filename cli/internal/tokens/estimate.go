// Package tokens estimates prompt size in tokens and warns when a prompt
// approaches the model's context window. Estimation is a byte-based chars/4
// heuristic; it errs on the side of overcounting for code.
package tokens

import (
	"fmt"
	"math"
)

const charsPerToken = 4

// ResponseReserve is the number of tokens kept free for the model's answer.
// A one-line commit message needs far less; the slack covers preambles some
// models emit before complying.
const ResponseReserve = 256

// Estimate returns (len(text)+3)/4, so 1–4 bytes are one token. Empty text is 0.
func Estimate(text string) int {
	n := len(text)
	if n == 0 {
		return 0
	}
	return (n + charsPerToken - 1) / charsPerToken
}

// Budget is a model context window with a warning threshold (fraction of
// ContextLimit). A ContextLimit <= 0 disables warnings.
type Budget struct {
	ContextLimit  int
	WarnThreshold float64
}

// Check estimates prompt and returns the estimate together with a warning
// when estimate+ResponseReserve reaches the threshold, or "" otherwise.
func (b Budget) Check(prompt string) (int, string) {
	n := Estimate(prompt)
	return n, WarnIfOver(n, ResponseReserve, b.ContextLimit, b.WarnThreshold)
}

// WarnIfOver returns a warning when promptTokens+responseReserve meet or
// exceed warnThreshold of contextLimit. It returns "" for a non-positive
// contextLimit or negative counts.
func WarnIfOver(promptTokens, responseReserve, contextLimit int, warnThreshold float64) string {
	if contextLimit <= 0 {
		return ""
	}
	if promptTokens < 0 || responseReserve < 0 {
		return ""
	}
	if responseReserve > math.MaxInt-promptTokens {
		return fmt.Sprintf("token estimate overflow (prompt %d + reserve %d)", promptTokens, responseReserve)
	}
	total := promptTokens + responseReserve
	limit := float64(contextLimit) * warnThreshold
	threshold := int(limit)
	if limit > float64(threshold) {
		threshold++
	}
	if total < threshold {
		return ""
	}
	return fmt.Sprintf("prompt is about %d tokens (%d + %d reserved), over %.0f%% of the %d-token context; the model may ignore part of the summary",
		total, promptTokens, responseReserve, warnThreshold*100, contextLimit)
}
