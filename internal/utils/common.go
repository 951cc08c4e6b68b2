package utils

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FormatToken makes whitespace tokens visible.
func FormatToken(token string) string {
	switch token {
	case "\n":
		return "↵"
	case "\t":
		return "→"
	case " ":
		return "·"
	}
	return token
}

// FormatInlineToken is FormatToken for tokens shown inside a line, where a
// leading space is significant but would otherwise disappear.
func FormatInlineToken(token string) string {
	if token == "\n" || token == "\t" || token == " " {
		return FormatToken(token)
	}
	token = strings.ReplaceAll(token, "\n", "↵")
	token = strings.ReplaceAll(token, "\t", "→")
	return strings.Replace(token, " ", "·", 1)
}

// TruncateString shortens s to at most maxLen display cells.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	if lipgloss.Width(s) <= maxLen {
		return s
	}

	runes := []rune(s)
	if maxLen <= 1 {
		return string(runes[:1])
	}

	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > maxLen {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// PadRight pads s with spaces to width display cells.
func PadRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
