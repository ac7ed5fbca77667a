// Package random provides crypto/rand backed helpers.
package random

import (
	"crypto/rand"
	"math/big"
)

// Num returns a random integer in [0, n).
func Num(n int) int {
	r, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return int(r.Int64())
}

// Perm returns a random permutation of [0, n).
func Perm(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := Num(i + 1)
		p[i], p[j] = p[j], p[i]
	}
	return p
}
