// stretch-go: memory-hard key stretching
// Copyright 2026 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stretch implements a sequential memory-hard key stretcher.
//
// A derived key is the tail of a chain of digests in which every link
// also mixes a pseudo-randomly chosen earlier link back into the
// running hash state. Producing the chain therefore takes either one
// stored digest per iteration, or increasingly expensive recomputation
// of the links that were not kept. This is the memory/time tradeoff
// that motivates sequential memory-hard functions such as scrypt
// (http://www.tarsnap.com/scrypt/scrypt.pdf): an attacker can trade
// memory for CPU, but only at a sharply super-linear exchange rate.
//
// Two storage modes produce byte-identical results for the same key
// and configuration. The full mode keeps the entire chain, costing
// Iterations times the digest width in memory. The sparse mode keeps
// a checkpoint every Interval links and rebuilds the rest on demand
// from the nearest checkpoint below, trading the withheld memory for
// extra hashing.
package stretch

import (
	"context"
	"errors"

	"github.com/dark-bio/stretch-go/hasher"
)

// Error types for configuration and resource failures
var (
	ErrInvalidIterations = errors.New("stretch: iterations must be at least 1")
	ErrInvalidInterval   = errors.New("stretch: checkpoint interval out of range")
	ErrInvalidDigestSize = errors.New("stretch: digest size must be positive")
	ErrInvalidLanes      = errors.New("stretch: lane count must be at least 1")
	ErrMissingHasher     = errors.New("stretch: hash capability required")
	ErrBudgetExceeded    = errors.New("stretch: recomputation budget exceeded")
)

// Budget defaults, applied when Config.Budget is zero. The per-call
// replay bound scales with the chain length but never drops below the
// floor, so short chains with very sparse checkpoints still have room
// to finish.
const (
	budgetFactor = 1024
	budgetFloor  = 1 << 20
)

// Config selects the work factor, storage mode and hash capability for
// a derivation. The zero Interval keeps the whole chain in memory; a
// positive Interval keeps only every Interval-th link and recomputes
// the rest on demand. Interval 1 checkpoints every link and is
// equivalent to the full mode.
type Config struct {
	// Iterations is the chain length N, the work factor. Each
	// iteration costs one digest extraction plus one digest of
	// memory in full mode.
	Iterations int

	// Interval is the checkpoint spacing k for sparse storage, or 0
	// for full storage. Must be between 1 and Iterations when set.
	Interval int

	// Hasher is the hash capability the chain is built from.
	Hasher hasher.Hasher

	// Budget caps the total number of replay steps a sparse
	// derivation may spend rebuilding missing links before it gives
	// up with ErrBudgetExceeded. Zero selects a default proportional
	// to Iterations. Full mode never replays and ignores it.
	Budget int

	// Promote retains links rebuilt by the resolver in an ephemeral
	// per-derivation cache, spending extra memory to avoid repeated
	// recomputation of popular links. Off by default; it never
	// changes the output, only the cost.
	Promote bool
}

func (c Config) check() error {
	if c.Iterations < 1 {
		return ErrInvalidIterations
	}
	if c.Interval < 0 || c.Interval > c.Iterations {
		return ErrInvalidInterval
	}
	if c.Hasher == nil {
		return ErrMissingHasher
	}
	if c.Hasher.Size() < 1 {
		return ErrInvalidDigestSize
	}
	return nil
}

func (c Config) budget() int {
	if c.Budget > 0 {
		return c.Budget
	}
	if b := budgetFactor * c.Iterations; b > budgetFloor {
		return b
	}
	return budgetFloor
}

// Key derives a stretched key from the given key material. The result
// is a pure function of the key and configuration: repeated calls
// return identical digests, and the storage mode never changes the
// output, only the memory and CPU cost of producing it. The
// configuration is validated before any hashing work begins.
func Key(key []byte, config Config) ([]byte, error) {
	return derive(context.Background(), key, config)
}

func derive(ctx context.Context, key []byte, config Config) ([]byte, error) {
	if err := config.check(); err != nil {
		return nil, err
	}
	if config.Interval == 0 {
		return fullKey(ctx, key, config)
	}
	return newSparse(config).run(ctx, key)
}

// MemoryFor reports the chain storage in bytes needed to derive a key
// with the given iteration count and hash capability in full mode.
func MemoryFor(iterations int, h hasher.Hasher) int {
	return iterations * h.Size()
}

// IterationsFor reports the largest iteration count whose full-mode
// chain storage fits in the given number of bytes.
func IterationsFor(memory int, h hasher.Hasher) int {
	return memory / h.Size()
}

// IntervalFor converts a retained-entry budget into the checkpoint
// spacing that stays within it: the smallest interval k such that a
// chain of the given length keeps at most entries checkpoints.
func IntervalFor(iterations, entries int) int {
	if entries < 1 {
		return iterations
	}
	k := (iterations + entries - 1) / entries
	if k < 1 {
		k = 1
	}
	return k
}
