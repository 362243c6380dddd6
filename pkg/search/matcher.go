package search

import (
	"regexp"
	"strings"
)

// MinimumNameLength is the shortest filter worth searching for. Callers use
// it to hold back a search while the user is still typing.
const MinimumNameLength = 3

// Mode is the matching tier a Matcher settled on.
type Mode int

const (
	// ModeRegexp matches names against the filter as a case-insensitive
	// regular expression.
	ModeRegexp Mode = iota
	// ModeSubstring is used when the filter is not a valid expression. Names
	// match when they contain the filter, ignoring case.
	ModeSubstring
)

func (m Mode) String() string {
	switch m {
	case ModeRegexp:
		return "regexp"
	case ModeSubstring:
		return "substring"
	default:
		return "unknown"
	}
}

// Matcher decides whether a name satisfies a user supplied filter.
type Matcher struct {
	re     *regexp.Regexp
	needle string
}

// NewMatcher compiles filter. Every '*' is widened to ".*" so shell style
// globs such as "chick*" work. A filter that does not compile falls back to
// substring matching instead of failing.
func NewMatcher(filter string) *Matcher {
	pattern := strings.TrimSpace(strings.ReplaceAll(filter, "*", ".*"))
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return &Matcher{needle: strings.ToLower(strings.TrimSpace(filter))}
	}
	return &Matcher{re: re}
}

// Mode reports which tier is active.
func (m *Matcher) Mode() Mode {
	if m.re == nil {
		return ModeSubstring
	}
	return ModeRegexp
}

// Match reports whether name satisfies the filter. Surrounding whitespace in
// name is ignored.
func (m *Matcher) Match(name string) bool {
	name = strings.TrimSpace(name)
	if m.re != nil {
		return m.re.MatchString(name)
	}
	return strings.Contains(strings.ToLower(name), m.needle)
}
