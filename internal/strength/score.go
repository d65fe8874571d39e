package strength

import "unicode/utf8"

const (
	// MaxScore is the highest score Score can return.
	MaxScore = 7
	// SecureScore is the minimum score a password needs to be considered secure.
	SecureScore = 5

	longLength     = 12
	mediumLength   = 8
	entropyBonusAt = 50.0
)

// Score rates a password from 0 to MaxScore. Length earns up to two points,
// each character class present earns one, and entropy of at least 50 bits
// earns one more.
func Score(password string) int {
	p := Classify(password)
	score := 0

	switch n := utf8.RuneCountInString(password); {
	case n >= longLength:
		score += 2
	case n >= mediumLength:
		score++
	}

	score += p.Classes()

	if entropy(password, p) >= entropyBonusAt {
		score++
	}

	return score
}
