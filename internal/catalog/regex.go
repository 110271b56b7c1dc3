package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Veraticus/itemquery/internal/common"
	"github.com/Veraticus/itemquery/internal/model"
)

// NumberCapture is the capture class substituted for a numeric placeholder.
const NumberCapture = `([+-]?\d+(?:\.\d+)?)`

// BuildRegex turns a stat template into an anchored pattern source.
//
// Literal text is escaped, parenthesised clauses become optional groups, '#'
// becomes NumberCapture (or the escaped option text), a sign directly before
// '#' is folded into the capture, and the category suffix is required at the
// end of every line.
func BuildRegex(template, option string, category model.ModCategory) (string, error) {
	text := StripMarkup(template)
	if strings.ContainsAny(text, "[]") {
		return "", fmt.Errorf("%w: unbalanced brackets in %q", common.ErrInvalidTemplate, template)
	}

	suffix := regexp.QuoteMeta(category.Suffix())
	runes := []rune(text)

	var b strings.Builder
	b.WriteString("^")
	depth := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		next := rune(0)
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		switch {
		case (r == '+' || r == '-') && next == '#' && option == "":
			b.WriteString(NumberCapture)
			i++
		case r == '#':
			if option != "" {
				b.WriteString(regexp.QuoteMeta(option))
			} else {
				b.WriteString(NumberCapture)
			}
		case r == ' ' && next == '(':
			b.WriteString(`(?: \(`)
			depth++
			i++
		case r == '(':
			b.WriteString(`(?:\(`)
			depth++
		case r == ')':
			if depth == 0 {
				return "", fmt.Errorf("%w: unbalanced parenthesis in %q", common.ErrInvalidTemplate, template)
			}
			b.WriteString(`\))?`)
			depth--
		case r == '\n':
			if depth != 0 {
				return "", fmt.Errorf("%w: clause spans lines in %q", common.ErrInvalidTemplate, template)
			}
			b.WriteString(suffix)
			b.WriteString(`\n`)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}

	if depth != 0 {
		return "", fmt.Errorf("%w: unclosed parenthesis in %q", common.ErrInvalidTemplate, template)
	}

	b.WriteString(suffix)
	b.WriteString("$")
	return b.String(), nil
}
