// Package cryptids generates short random identifiers.
package cryptids

import (
	"fmt"

	nanoid "github.com/jaevor/go-nanoid"
)

const (
	// IDAlphabet avoids vowels so generated ids never spell words.
	IDAlphabet = "bcdfghjklmnpqrstvwxyzBCDFGHJKLMNPQRSTVWXYZ0123456789"
	IDLength   = 18
)

// defaultGenerator is safe for concurrent use.
var defaultGenerator = mustGenerator(IDAlphabet, IDLength)

// GenerateID returns a random IDLength string drawn from IDAlphabet.
func GenerateID() string {
	return defaultGenerator()
}

func mustGenerator(alphabet string, size int) func() string {
	gen, err := nanoid.CustomASCII(alphabet, size)
	if err != nil {
		panic(fmt.Sprintf("cryptids: nanoid generator: %v", err))
	}
	return gen
}
