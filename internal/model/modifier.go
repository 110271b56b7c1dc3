package model

// MatchStrategy names the matcher pass that resolved a modifier.
type MatchStrategy string

// Matcher passes in priority order.
const (
	StrategyExact MatchStrategy = "exact"
	StrategyRegex MatchStrategy = "regex"
	StrategyFuzzy MatchStrategy = "fuzzy"
)

// Range is a min/max pair. Either bound may be nil.
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// IsEmpty reports whether neither bound is set.
func (r Range) IsEmpty() bool {
	return r.Min == nil && r.Max == nil
}

// MatchedModifier is an item line attributed to exactly one catalog stat.
type MatchedModifier struct {
	Original Range
	Search   Range
	StatID   string
	Category ModCategory
	RawText  string
	Option   OptionID
	Strategy MatchStrategy
	Lines    []LineRef
}
