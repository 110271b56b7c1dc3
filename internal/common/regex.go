package common

import (
	"regexp"
	"strconv"
)

// NumberPattern matches signed integers and decimals as they appear in item
// text. A sign only counts when it does not directly follow a digit, so
// "10-20" yields 10 and 20.
var NumberPattern = regexp.MustCompile(`(?:^|[^\d.])([+-]?\d+(?:\.\d+)?)`)

// ExtractNumbers returns every numeric token in s, left to right.
func ExtractNumbers(s string) []float64 {
	matches := NumberPattern.FindAllStringSubmatch(s, -1)
	out := make([]float64, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// FirstNumber returns the first numeric token in s.
func FirstNumber(s string) (float64, bool) {
	nums := ExtractNumbers(s)
	if len(nums) == 0 {
		return 0, false
	}
	return nums[0], true
}
