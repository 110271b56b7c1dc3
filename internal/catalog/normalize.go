package catalog

import (
	"regexp"
	"strings"

	"github.com/Veraticus/itemquery/internal/model"
)

var (
	markupPattern  = regexp.MustCompile(`\[(?:[^\]|]*\|)?([^\]|]*)\]`)
	numericPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)
	symbolReplacer = strings.NewReplacer("%", "", "+", "", "-", "", "#", "")
)

// StripMarkup reduces "[Key|Display]" and "[Display]" decorations to their
// display text.
func StripMarkup(text string) string {
	return markupPattern.ReplaceAllString(text, "$1")
}

// Normalize lowercases text, removes numbers and the characters % + - #, and
// collapses whitespace on each line. Two rolls of the same modifier normalize
// to the same key, and Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = numericPattern.ReplaceAllString(line, "")
		line = symbolReplacer.Replace(line)
		line = strings.Join(strings.Fields(strings.ToLower(line)), " ")
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// NormalizedKey builds the exact-match key for a template with an optional
// option text substituted and the category suffix appended to every line.
func NormalizedKey(template, option string, category model.ModCategory) string {
	return Normalize(DocText(template, option, category))
}

// DocText renders a template as an item would show it: markup stripped, the
// option substituted for '#' when present, and the category suffix on each line.
func DocText(template, option string, category model.ModCategory) string {
	text := StripMarkup(template)
	if option != "" {
		text = substituteOption(text, option)
	}
	suffix := category.Suffix()
	if suffix == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] += suffix
	}
	return strings.Join(lines, "\n")
}

// substituteOption replaces placeholders line by line. An option text with
// several lines fills the placeholders of consecutive template lines.
func substituteOption(text, option string) string {
	optLines := strings.Split(option, "\n")
	lines := strings.Split(text, "\n")
	next := 0
	for i, line := range lines {
		if !strings.Contains(line, "#") {
			continue
		}
		opt := optLines[min(next, len(optLines)-1)]
		lines[i] = strings.ReplaceAll(line, "#", opt)
		next++
	}
	return strings.Join(lines, "\n")
}
