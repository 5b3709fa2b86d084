package valueobjects

import (
	"strings"
	"unicode/utf8"
)

// Properties are the analytical facts derived from a string value.
// They are computed once at insert time and never change afterwards.
type Properties struct {
	Length                int            `json:"length"`
	IsPalindrome          bool           `json:"is_palindrome"`
	UniqueCharacters      int            `json:"unique_characters"`
	WordCount             int            `json:"word_count"`
	SHA256Hash            string         `json:"sha256_hash"`
	CharacterFrequencyMap map[string]int `json:"character_frequency_map"`
}

// Analyze derives Properties from value. It is defined for every string,
// including the empty string, and has no side effects.
func Analyze(value string) Properties {
	return Properties{
		Length:                Length(value),
		IsPalindrome:          IsPalindrome(value),
		UniqueCharacters:      UniqueCharacters(value),
		WordCount:             WordCount(value),
		SHA256Hash:            NewContentHash(value).String(),
		CharacterFrequencyMap: CharacterFrequencyMap(value),
	}
}

// Length counts code points, not bytes
func Length(value string) int {
	return utf8.RuneCountInString(value)
}

// IsPalindrome compares the lowercased value with its reversal.
// Whitespace and punctuation are significant.
func IsPalindrome(value string) bool {
	runes := []rune(strings.ToLower(value))
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		if runes[i] != runes[j] {
			return false
		}
	}
	return true
}

// UniqueCharacters counts distinct code points, case-sensitive
func UniqueCharacters(value string) int {
	seen := make(map[rune]struct{}, len(value))
	for _, r := range value {
		seen[r] = struct{}{}
	}
	return len(seen)
}

// WordCount counts whitespace-delimited tokens
func WordCount(value string) int {
	return len(strings.Fields(value))
}

// CharacterFrequencyMap counts every character of the original value
func CharacterFrequencyMap(value string) map[string]int {
	freq := make(map[string]int)
	for _, r := range value {
		freq[string(r)]++
	}
	return freq
}
