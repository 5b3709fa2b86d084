// Package services contains domain logic that does not belong to a single entity.
package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"stringanalyzer/domain/core/filters"
	pkgerrors "stringanalyzer/pkg/errors"
)

// ParsedFilterReport echoes the predicates derived from a natural-language
// query. Absent predicates are omitted from the JSON form.
type ParsedFilterReport struct {
	IsPalindrome      *bool   `json:"is_palindrome,omitempty"`
	WordCount         *int    `json:"word_count,omitempty"`
	MinLength         *int    `json:"min_length,omitempty"`
	MaxLength         *int    `json:"max_length,omitempty"`
	ContainsCharacter *string `json:"contains_character,omitempty"`
}

// IsEmpty reports whether no predicate was derived
func (r ParsedFilterReport) IsEmpty() bool {
	return r.IsPalindrome == nil &&
		r.WordCount == nil &&
		r.MinLength == nil &&
		r.MaxLength == nil &&
		r.ContainsCharacter == nil
}

var (
	wordCountPattern = regexp.MustCompile(`(\d+)\s+word`)
	longerPattern    = regexp.MustCompile(`(?:longer|greater|above|more than)\s+(?:than\s+)?(\d+)`)
	shorterPattern   = regexp.MustCompile(`(?:shorter|less than|under)\s+(?:than\s+)?(\d+)`)
	characterPattern = regexp.MustCompile(`contain(?:s|ing)?(?: the letter)? ([\p{L}\p{N}_])`)
)

// interpretation accumulates the output of the rules for one query
type interpretation struct {
	filter filters.Filter
	report ParsedFilterReport
}

// InterpretationRule derives zero or more predicates from normalised text
type InterpretationRule struct {
	Name  string
	apply func(text string, in *interpretation)
}

// defaultRules is evaluated top to bottom and every matching rule contributes.
// Later rules never override earlier ones; the vowel rule only fills the
// character slot when the character rule left it empty.
var defaultRules = []InterpretationRule{
	{Name: "palindrome", apply: applyPalindrome},
	{Name: "word_count", apply: applyWordCount},
	{Name: "length", apply: applyLength},
	{Name: "character", apply: applyCharacter},
	{Name: "vowel", apply: applyVowel},
}

// QueryInterpreter turns free-form text into a structured filter using a
// fixed table of lexical rules. It holds no mutable state and is safe for
// concurrent use.
type QueryInterpreter struct {
	rules []InterpretationRule
}

// NewQueryInterpreter creates an interpreter with the standard rule table
func NewQueryInterpreter() *QueryInterpreter {
	return &QueryInterpreter{rules: defaultRules}
}

// RuleNames lists the rules in evaluation order
func (qi *QueryInterpreter) RuleNames() []string {
	names := make([]string, 0, len(qi.rules))
	for _, r := range qi.rules {
		names = append(names, r.Name)
	}
	return names
}

// Interpret derives a filter and a report from text. It fails with an
// UNPARSEABLE_QUERY error when no rule matched and with CONFLICTING_FILTERS
// when the derived length bounds contradict each other.
func (qi *QueryInterpreter) Interpret(text string) (filters.Filter, ParsedFilterReport, error) {
	normalized := strings.ToLower(strings.TrimSpace(text))

	var in interpretation
	for _, rule := range qi.rules {
		rule.apply(normalized, &in)
	}

	if in.report.MinLength != nil && in.report.MaxLength != nil && *in.report.MinLength > *in.report.MaxLength {
		return filters.Filter{}, ParsedFilterReport{}, pkgerrors.NewConflictingFiltersError(
			"Query parsed but resulted in conflicting filters",
		).WithDetails(map[string]interface{}{
			"min_length": *in.report.MinLength,
			"max_length": *in.report.MaxLength,
		})
	}

	if in.report.IsEmpty() {
		return filters.Filter{}, ParsedFilterReport{}, pkgerrors.NewUnparseableQueryError(
			"Unable to parse natural language query",
		)
	}

	return in.filter, in.report, nil
}

// applyPalindrome checks the positive keywords first. Because "not palindrome"
// contains "palindrome", the negative branch is only reachable through text
// that matches it without matching either positive keyword.
func applyPalindrome(text string, in *interpretation) {
	var value bool
	switch {
	case strings.Contains(text, "palindrome") || strings.Contains(text, "palindromic"):
		value = true
	case strings.Contains(text, "not palindrome"):
		value = false
	default:
		return
	}
	in.filter.IsPalindrome = filters.Ptr(value)
	in.report.IsPalindrome = filters.Ptr(value)
}

func applyWordCount(text string, in *interpretation) {
	if strings.Contains(text, "single word") || strings.Contains(text, "one word") {
		in.filter.WordCount = filters.Ptr(1)
		in.report.WordCount = filters.Ptr(1)
		return
	}

	n, ok := firstInt(wordCountPattern, text)
	if !ok {
		return
	}
	in.filter.WordCount = filters.Ptr(n)
	in.report.WordCount = filters.Ptr(n)
}

// applyLength turns strict comparisons into inclusive bounds on an integer length
func applyLength(text string, in *interpretation) {
	if n, ok := firstInt(longerPattern, text); ok && n < math.MaxInt {
		in.filter.MinLength = filters.Ptr(n + 1)
		in.report.MinLength = filters.Ptr(n + 1)
	}
	if n, ok := firstInt(shorterPattern, text); ok {
		in.filter.MaxLength = filters.Ptr(n - 1)
		in.report.MaxLength = filters.Ptr(n - 1)
	}
}

func applyCharacter(text string, in *interpretation) {
	m := characterPattern.FindStringSubmatch(text)
	if m == nil {
		return
	}
	in.filter.ContainsCharacter = filters.Ptr(m[1])
	in.report.ContainsCharacter = filters.Ptr(m[1])
}

func applyVowel(text string, in *interpretation) {
	// "first vowel" contains "vowel"
	if !strings.Contains(text, "vowel") || in.filter.ContainsCharacter != nil {
		return
	}
	in.filter.AnyVowel = true
	in.report.ContainsCharacter = filters.Ptr(filters.AnyVowelReport)
}

// firstInt returns the first capture group of re as an int. Numbers too large
// for an int are treated as no match.
func firstInt(re *regexp.Regexp, text string) (int, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
