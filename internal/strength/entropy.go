package strength

import (
	"math"
	"unicode/utf8"
)

// Entropy estimates the password's entropy in bits as length * log2(charset),
// rounded to two decimals. A password with no recognised class, including the
// empty password, has zero entropy.
func Entropy(password string) float64 {
	return entropy(password, Classify(password))
}

func entropy(password string, p Profile) float64 {
	charset := p.CharsetSize()
	if charset == 0 {
		return 0
	}
	bits := float64(utf8.RuneCountInString(password)) * math.Log2(float64(charset))
	return round2(bits)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
