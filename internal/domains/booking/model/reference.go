package model

import "math/rand/v2"

const (
	referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	ReferenceLength   = 6
)

// NewReference returns a random six character code made of A-Z and 0-9.
func NewReference() string {
	code := make([]byte, ReferenceLength)
	for i := range code {
		code[i] = referenceAlphabet[rand.IntN(len(referenceAlphabet))]
	}

	return string(code)
}
