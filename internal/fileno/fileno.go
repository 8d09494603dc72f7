// Package fileno generates the short human-readable codes that identify
// upload records for editing, e.g. "JH7878J".
package fileno

import (
	"math/rand/v2"
	"regexp"
	"sync"
)

const (
	letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits  = "0123456789"
)

var pattern = regexp.MustCompile(`^[A-Z]{2}[0-9]{4}[A-Z]$`)

// Generator draws codes from a random source. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewGenerator returns a generator backed by src. A nil src uses a
// randomly seeded PCG source.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Generator{rnd: rand.New(src)}
}

// Next returns two letters, four digits and one letter, each drawn uniformly.
func (g *Generator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	buf := make([]byte, 0, 7)
	for i := 0; i < 2; i++ {
		buf = append(buf, letters[g.rnd.IntN(len(letters))])
	}
	for i := 0; i < 4; i++ {
		buf = append(buf, digits[g.rnd.IntN(len(digits))])
	}
	buf = append(buf, letters[g.rnd.IntN(len(letters))])
	return string(buf)
}

var defaultGenerator = NewGenerator(nil)

// Generate returns a code from the package-level generator.
func Generate() string {
	return defaultGenerator.Next()
}

// Valid reports whether code has the file-number shape.
func Valid(code string) bool {
	return pattern.MatchString(code)
}
