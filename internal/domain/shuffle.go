package domain

import (
	"encoding/binary"
	"math/rand"

	"github.com/google/uuid"
)

// shuffleSeed folds a uuid into a PRNG seed. Seeding from the submission id
// gives every attempt its own unpredictable-but-stable permutation: repeated
// renders of one attempt always see the same order, while two attempts (or
// two learners) see different ones.
func shuffleSeed(id uuid.UUID) int64 {
	hi := binary.BigEndian.Uint64(id[:8])
	lo := binary.BigEndian.Uint64(id[8:])
	return int64(hi ^ lo)
}

// permuted returns indices 0..n-1 in the order given by the seed.
func permuted(seed int64, n int) []int {
	return rand.New(rand.NewSource(seed)).Perm(n)
}

// questionSeed derives a per-question seed so option orders differ between
// questions of the same attempt.
func questionSeed(attemptSeed int64, questionID uuid.UUID) int64 {
	return attemptSeed ^ shuffleSeed(questionID)
}
