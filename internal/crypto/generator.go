package crypto

import (
	"crypto/rand"
	"errors"
	"io"
	"math/big"

	"github.com/pwcheck/pwcheck-go/internal/strength"
)

const (
	DefaultLength = 16

	MinLength = 8
	MaxLength = 128
)

var (
	ErrLengthTooShort   = errors.New("password length must be at least 8")
	ErrLengthTooLong    = errors.New("password length must be at most 128")
	ErrNoCharacterTypes = errors.New("at least one character type must be selected")
)

// GeneratorOptions configures the character pool of a generated password.
type GeneratorOptions struct {
	Length    int
	Uppercase bool
	Lowercase bool
	Numbers   bool
	Symbols   bool
}

// DefaultOptions returns sensible defaults: 16 characters with all types enabled.
func DefaultOptions() GeneratorOptions {
	return GeneratorOptions{
		Length:    DefaultLength,
		Uppercase: true,
		Lowercase: true,
		Numbers:   true,
		Symbols:   true,
	}
}

// pool returns the characters selected by the options, in a fixed order.
func (o GeneratorOptions) pool() string {
	var pool string
	if o.Uppercase {
		pool += strength.UppercaseChars
	}
	if o.Lowercase {
		pool += strength.LowercaseChars
	}
	if o.Numbers {
		pool += strength.DigitChars
	}
	if o.Symbols {
		pool += strength.SymbolChars
	}
	return pool
}

// Generator draws passwords from a random source. Each character is picked
// independently and uniformly from the pool, with replacement.
type Generator struct {
	rand io.Reader
}

// NewGenerator returns a Generator backed by crypto/rand.
func NewGenerator() *Generator {
	return &Generator{rand: rand.Reader}
}

// NewGeneratorWithReader returns a Generator that reads randomness from r.
// Tests use it with a deterministic source; r must be unpredictable in
// production.
func NewGeneratorWithReader(r io.Reader) *Generator {
	return &Generator{rand: r}
}

// Generate produces a password of the given length using the full pool of
// letters, digits and symbols. Length is not bounds-checked here.
func (g *Generator) Generate(length int) (string, error) {
	return g.generate(DefaultOptions().pool(), length)
}

// GenerateWith creates a password based on the given options, enforcing the
// MinLength..MaxLength bounds.
func (g *Generator) GenerateWith(opts GeneratorOptions) (string, error) {
	if opts.Length < MinLength {
		return "", ErrLengthTooShort
	}
	if opts.Length > MaxLength {
		return "", ErrLengthTooLong
	}

	pool := opts.pool()
	if pool == "" {
		return "", ErrNoCharacterTypes
	}

	return g.generate(pool, opts.Length)
}

func (g *Generator) generate(pool string, length int) (string, error) {
	if length <= 0 {
		return "", nil
	}

	result := make([]byte, length)
	for i := range result {
		ch, err := g.randChar(pool)
		if err != nil {
			return "", err
		}
		result[i] = ch
	}

	return string(result), nil
}

// randChar picks a random character from charset without modulo bias.
func (g *Generator) randChar(charset string) (byte, error) {
	n, err := rand.Int(g.rand, big.NewInt(int64(len(charset))))
	if err != nil {
		return 0, err
	}
	return charset[n.Int64()], nil
}
