// Package security hashes and verifies account passwords.
//
// Digests are bcrypt strings, which carry the algorithm version, cost and
// salt, so Verify keeps working for digests produced under an older cost.
package security

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

const (
	DefaultCost = 12

	// MaxPasswordBytes is the longest input bcrypt accepts.
	MaxPasswordBytes = 72
)

var (
	ErrInvalidCost     = errors.New("invalid bcrypt cost")
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
)

// Hasher bounds the number of concurrent bcrypt computations so that hashing
// bursts cannot occupy every CPU the request handlers need.
type Hasher struct {
	cost  int
	slots *semaphore.Weighted
	decoy []byte
}

// NewHasher returns a Hasher using cost rounds and at most workers parallel
// computations. workers <= 0 means GOMAXPROCS.
func NewHasher(cost, workers int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidCost, cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	decoy, err := bcrypt.GenerateFromPassword([]byte("worklog-decoy"), cost)
	if err != nil {
		return nil, fmt.Errorf("hash decoy: %w", err)
	}
	return &Hasher{cost: cost, slots: semaphore.NewWeighted(int64(workers)), decoy: decoy}, nil
}

func (h *Hasher) Cost() int {
	return h.cost
}

// Hash returns a salted digest of plaintext. Every call draws a fresh salt.
// ctx only bounds the wait for a free slot; a started computation runs to
// completion.
func (h *Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if len(plaintext) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.slots.Release(1)

	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. Malformed digests and a
// cancelled ctx both yield false.
func (h *Hasher) Verify(ctx context.Context, plaintext, digest string) bool {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.slots.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// VerifyDecoy does the work of a Verify against a digest of the configured
// cost and always reports false. Callers use it when there is no stored
// digest, so that a missing account takes as long as a wrong password.
func (h *Hasher) VerifyDecoy(ctx context.Context, plaintext string) bool {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.slots.Release(1)

	_ = bcrypt.CompareHashAndPassword(h.decoy, []byte(plaintext))
	return false
}

// NeedsRehash reports whether digest was produced with a different cost than
// the one currently configured.
func (h *Hasher) NeedsRehash(digest string) bool {
	cost, err := bcrypt.Cost([]byte(digest))
	if err != nil {
		return true
	}
	return cost != h.cost
}
