// Package filters holds the structured predicates used to select stored strings.
package filters

import (
	"fmt"
	"strings"

	"stringanalyzer/domain/core/valueobjects"
	pkgerrors "stringanalyzer/pkg/errors"
)

// Vowels is the character class matched by the vowel predicate
const Vowels = "aeiou"

// AnyVowelReport is how the vowel predicate is echoed back to callers
const AnyVowelReport = "a (any vowel)"

// Filter is a set of optional predicates combined with logical AND.
// A nil field does not constrain the result.
type Filter struct {
	IsPalindrome      *bool
	WordCount         *int
	MinLength         *int
	MaxLength         *int
	ContainsCharacter *string
	// AnyVowel requires at least one of Vowels, case-insensitive.
	// It is only consulted when ContainsCharacter is nil.
	AnyVowel bool
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}

// IsEmpty reports whether the filter has no predicates at all
func (f Filter) IsEmpty() bool {
	return f.IsPalindrome == nil &&
		f.WordCount == nil &&
		f.MinLength == nil &&
		f.MaxLength == nil &&
		f.ContainsCharacter == nil &&
		!f.AnyVowel
}

// Validate rejects a filter whose length bounds can never both hold
func (f Filter) Validate() error {
	if f.MinLength != nil && f.MaxLength != nil && *f.MinLength > *f.MaxLength {
		return pkgerrors.NewConflictingFiltersError(
			fmt.Sprintf("min_length %d is greater than max_length %d", *f.MinLength, *f.MaxLength),
		).WithDetails(map[string]interface{}{
			"min_length": *f.MinLength,
			"max_length": *f.MaxLength,
		})
	}
	return nil
}

// HasValuePredicate reports whether the filter inspects the raw value
// rather than only the stored properties.
func (f Filter) HasValuePredicate() bool {
	return f.ContainsCharacter != nil || f.AnyVowel
}

// Needles returns the lowercase characters of which at least one must occur
// in the value, or nil when there is no value predicate.
func (f Filter) Needles() []string {
	switch {
	case f.ContainsCharacter != nil:
		return []string{strings.ToLower(*f.ContainsCharacter)}
	case f.AnyVowel:
		needles := make([]string, 0, len(Vowels))
		for _, v := range Vowels {
			needles = append(needles, string(v))
		}
		return needles
	default:
		return nil
	}
}

// MatchesProperties checks the property predicates only
func (f Filter) MatchesProperties(p valueobjects.Properties) bool {
	if f.IsPalindrome != nil && p.IsPalindrome != *f.IsPalindrome {
		return false
	}
	if f.WordCount != nil && p.WordCount != *f.WordCount {
		return false
	}
	if f.MinLength != nil && p.Length < *f.MinLength {
		return false
	}
	if f.MaxLength != nil && p.Length > *f.MaxLength {
		return false
	}
	return true
}

// MatchesValue checks the value predicate only, case-insensitively
func (f Filter) MatchesValue(value string) bool {
	needles := f.Needles()
	if needles == nil {
		return true
	}
	lowered := strings.ToLower(value)
	for _, n := range needles {
		if strings.Contains(lowered, n) {
			return true
		}
	}
	return false
}

// Matches checks every predicate against a stored string
func (f Filter) Matches(value string, p valueobjects.Properties) bool {
	return f.MatchesProperties(p) && f.MatchesValue(value)
}

// Applied echoes the structured predicates with nil for the absent ones
func (f Filter) Applied() map[string]interface{} {
	applied := map[string]interface{}{
		"is_palindrome":      nil,
		"min_length":         nil,
		"max_length":         nil,
		"word_count":         nil,
		"contains_character": nil,
	}
	if f.IsPalindrome != nil {
		applied["is_palindrome"] = *f.IsPalindrome
	}
	if f.MinLength != nil {
		applied["min_length"] = *f.MinLength
	}
	if f.MaxLength != nil {
		applied["max_length"] = *f.MaxLength
	}
	if f.WordCount != nil {
		applied["word_count"] = *f.WordCount
	}
	if f.ContainsCharacter != nil {
		applied["contains_character"] = *f.ContainsCharacter
	} else if f.AnyVowel {
		applied["contains_character"] = AnyVowelReport
	}
	return applied
}
