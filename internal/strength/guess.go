package strength

import (
	"unicode/utf8"

	zxcvbn "github.com/ccojocar/zxcvbn-go"
)

// MaxGuessLength is the longest password handed to the pattern matcher. Its
// cost grows steeply with length, and longer passwords are skipped.
const MaxGuessLength = 32

// Guess is a pattern-based guessability estimate. It is advisory and does not
// feed into Score.
type Guess struct {
	Score     int
	CrackTime string
}

// EstimateGuesses runs zxcvbn pattern matching over the password.
// userInputs are extra dictionary words, such as a username, to penalise.
// It reports false without matching when the password is longer than
// MaxGuessLength runes.
func EstimateGuesses(password string, userInputs ...string) (Guess, bool) {
	if password == "" {
		return Guess{Score: 0, CrackTime: "instant"}, true
	}
	if utf8.RuneCountInString(password) > MaxGuessLength {
		return Guess{}, false
	}

	match := zxcvbn.PasswordStrength(password, userInputs)
	return Guess{
		Score:     match.Score,
		CrackTime: match.CrackTimeDisplay,
	}, true
}
