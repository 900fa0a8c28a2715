package kvstore

import (
	"fmt"
	"strings"
)

// HashFunc maps a key to an unsigned integer. The store reduces it modulo
// its capacity.
type HashFunc func(key string) uint64

// SumHash adds the code point of every character in the key.
// Anagrams collide, which is acceptable for short jurisdiction keys.
func SumHash(key string) uint64 {
	var sum uint64
	for _, c := range key {
		sum += uint64(c)
	}
	return sum
}

// PolynomialHash adds c*(c+1) for every code point c. It spreads keys made
// of the same characters less evenly than a real polynomial hash but collides
// less often than SumHash.
func PolynomialHash(key string) uint64 {
	var sum uint64
	for _, c := range key {
		v := uint64(c)
		sum += v * (v + 1)
	}
	return sum
}

// HashByName resolves a configured hash function name.
// Valid names: "sum", "polynomial". An empty name selects "sum".
func HashByName(name string) (HashFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sum":
		return SumHash, nil
	case "polynomial", "poly":
		return PolynomialHash, nil
	default:
		return nil, fmt.Errorf("unknown hash function: %s", name)
	}
}
