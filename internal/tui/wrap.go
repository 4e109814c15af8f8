package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText word-wraps plain text to the given display width. Words wider
// than the width are broken mid-word.
func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	var out []string
	for _, paragraph := range strings.Split(s, "\n") {
		out = append(out, wrapParagraph(paragraph, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapParagraph(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	lines := []string{}
	line := ""
	lineWidth := 0
	for _, word := range words {
		wordWidth := runewidth.StringWidth(word)
		if lineWidth > 0 && lineWidth+1+wordWidth > width {
			lines = append(lines, line)
			line = ""
			lineWidth = 0
		}
		for wordWidth > width {
			head := runewidth.Truncate(word, width, "")
			lines = append(lines, head)
			word = strings.TrimPrefix(word, head)
			wordWidth = runewidth.StringWidth(word)
		}
		if lineWidth > 0 {
			line += " "
			lineWidth++
		}
		line += word
		lineWidth += wordWidth
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// bulleted renders items as wrapped "- " bullets.
func bulleted(items []string, width int) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		wrapped := strings.Split(wrapText(item, maxInt(1, width-2)), "\n")
		for i, line := range wrapped {
			if i == 0 {
				out = append(out, "- "+line)
			} else {
				out = append(out, "  "+line)
			}
		}
	}
	return out
}
