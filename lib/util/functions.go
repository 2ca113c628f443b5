package util

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// GenerateSeed returns a random seed, falling back to the clock if the
// system source fails
func GenerateSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(b[:])
}

// DeriveSeed mixes a name into a base seed (FNV-1a). Workloads seeded this
// way draw the same inputs for the same base seed.
func DeriveSeed(base uint64, name string) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)

	hash := uint64(offset64) ^ base
	for i := 0; i < len(name); i++ {
		hash ^= uint64(name[i])
		hash *= prime64
	}
	return hash
}
