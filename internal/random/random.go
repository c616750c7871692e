// Package random is the injectable source of randomness for target draws and
// hint selection. Scoring never uses it.
package random

import (
	"crypto/rand"
	"math/big"
)

// Source returns a value in [0, n). n must be positive.
type Source interface {
	IntN(n int) int
}

// Crypto draws from crypto/rand. The zero value is ready to use.
type Crypto struct{}

// IntN implements Source. It returns 0 if n <= 1 or the system source fails.
func (Crypto) IntN(n int) int {
	if n <= 1 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// Pick returns a uniformly chosen element of list, or the zero value when empty.
func Pick[T any](src Source, list []T) T {
	var zero T
	if len(list) == 0 {
		return zero
	}
	return list[src.IntN(len(list))]
}
