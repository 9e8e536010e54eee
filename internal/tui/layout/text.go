package layout

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// ansiRegex matches SGR escape sequences.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

const resetCode = "\x1b[0m"

// StripANSI removes ANSI escape codes from a string.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// VisibleLength returns the number of printed runes in s.
func VisibleLength(s string) int {
	return utf8.RuneCountInString(StripANSI(s))
}

// TruncateText cuts text to maxWidth runes, ending in the ellipsis when cut.
// Returns the result and whether it was cut.
func TruncateText(text string, maxWidth int, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", true
	}

	runes := []rune(text)
	if len(runes) <= maxWidth {
		return text, false
	}

	ellipsis := []rune(cfg.Ellipsis)
	if maxWidth <= len(ellipsis) {
		return string(ellipsis[:maxWidth]), true
	}
	return string(runes[:maxWidth-len(ellipsis)]) + cfg.Ellipsis, true
}

// TruncateLabel cuts name so that prefix+name+suffix fits maxWidth, keeping
// prefix and suffix intact: ("Development", 12, "> ", "/") gives "> Devel.../".
func TruncateLabel(name string, maxWidth int, prefix, suffix string, cfg TextConfig) string {
	full := prefix + name + suffix
	if utf8.RuneCountInString(full) <= maxWidth {
		return full
	}

	room := maxWidth - utf8.RuneCountInString(prefix+suffix+cfg.Ellipsis)
	if room <= 0 {
		out, _ := TruncateText(full, maxWidth, cfg)
		return out
	}
	return prefix + string([]rune(name)[:room]) + cfg.Ellipsis + suffix
}

// Highlight wraps the runes of text at the given indexes with style.
// Indexes are rune positions, as reported by fuzzy matching.
func Highlight(text string, indexes []int, style func(string) string) string {
	if len(indexes) == 0 {
		return text
	}
	hit := make(map[int]bool, len(indexes))
	for _, i := range indexes {
		hit[i] = true
	}

	var b strings.Builder
	for i, r := range []rune(text) {
		if hit[i] {
			b.WriteString(style(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TruncateANSIAware cuts styled text to maxWidth visible runes. Escape
// sequences are copied through and a reset is appended when cut.
func TruncateANSIAware(styled string, maxWidth int, cfg TextConfig) string {
	if maxWidth <= 0 {
		return ""
	}
	if VisibleLength(styled) <= maxWidth {
		return styled
	}

	keep := maxWidth - utf8.RuneCountInString(cfg.Ellipsis)
	if keep < 0 {
		keep = 0
	}

	var b strings.Builder
	visible := 0
	for s := styled; len(s) > 0 && visible < keep; {
		if loc := ansiRegex.FindStringIndex(s); loc != nil && loc[0] == 0 {
			b.WriteString(s[:loc[1]])
			s = s[loc[1]:]
			continue
		}
		r, size := utf8.DecodeRuneInString(s)
		b.WriteRune(r)
		visible++
		s = s[size:]
	}

	b.WriteString(cfg.Ellipsis)
	b.WriteString(resetCode)
	return b.String()
}
