// Package strength estimates password entropy and scores password strength
// from length and character-class heuristics.
package strength

import (
	"strings"
	"unicode"
)

const (
	LowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	UppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	DigitChars     = "0123456789"
	// SymbolChars is the ASCII punctuation set. The generator draws from the
	// same set so estimated and generated alphabets agree.
	SymbolChars = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
)

// Alphabet sizes contributed by each character class.
const (
	lowercaseSize = len(LowercaseChars)
	uppercaseSize = len(UppercaseChars)
	digitSize     = len(DigitChars)
	symbolSize    = len(SymbolChars)
)

// Profile records which character classes occur in a password.
type Profile struct {
	Lower  bool
	Upper  bool
	Digit  bool
	Symbol bool
}

// Classify scans the password once and reports the classes present.
// Letters and digits are matched with Unicode case and digit tables, so
// "Ä" is uppercase; symbols are limited to SymbolChars. Anything else
// contributes to length but to no class.
func Classify(password string) Profile {
	var p Profile
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			p.Lower = true
		case unicode.IsUpper(r):
			p.Upper = true
		case unicode.IsDigit(r):
			p.Digit = true
		case strings.ContainsRune(SymbolChars, r):
			p.Symbol = true
		}
	}
	return p
}

// CharsetSize sums the alphabet sizes of the classes present.
func (p Profile) CharsetSize() int {
	size := 0
	if p.Lower {
		size += lowercaseSize
	}
	if p.Upper {
		size += uppercaseSize
	}
	if p.Digit {
		size += digitSize
	}
	if p.Symbol {
		size += symbolSize
	}
	return size
}

// Classes returns how many of the four classes are present.
func (p Profile) Classes() int {
	n := 0
	for _, ok := range []bool{p.Lower, p.Upper, p.Digit, p.Symbol} {
		if ok {
			n++
		}
	}
	return n
}
