// stretch-go: memory-hard key stretching
// Copyright 2026 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stretch

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/dark-bio/stretch-go/hasher"
)

// opCounter wraps a hash capability and counts every Incorporate and
// Extract call across all states derived from it, clones included.
type opCounter struct {
	hasher.Hasher
	ops atomic.Int64
}

func counted(h hasher.Hasher) *opCounter {
	return &opCounter{Hasher: h}
}

func (c *opCounter) New(seed []byte) (hasher.State, error) {
	st, err := c.Hasher.New(seed)
	if err != nil {
		return nil, err
	}
	return &countedState{inner: st, ops: &c.ops}, nil
}

type countedState struct {
	inner hasher.State
	ops   *atomic.Int64
}

func (s *countedState) Incorporate(p []byte) error {
	s.ops.Add(1)
	return s.inner.Incorporate(p)
}

func (s *countedState) Extract() []byte {
	s.ops.Add(1)
	return s.inner.Extract()
}

func (s *countedState) Clone() (hasher.State, error) {
	st, err := s.inner.Clone()
	if err != nil {
		return nil, err
	}
	return &countedState{inner: st, ops: s.ops}, nil
}

// faultyHasher fails on construction, exercising capability error
// propagation.
type faultyHasher struct{ err error }

func (f *faultyHasher) Size() int                             { return 32 }
func (f *faultyHasher) New(seed []byte) (hasher.State, error) { return nil, f.err }

// refChain transliterates the chain recurrence directly on top of
// crypto/sha256, independent of the engine, and returns every link.
func refChain(key []byte, n int) [][]byte {
	h := sha256.New()
	h.Write(key)
	chain := make([][]byte, 0, n)
	for i := 1; i <= n; i++ {
		d := h.Sum(nil)
		chain = append(chain, d)
		if i == n {
			break
		}
		h.Write(chain[position(d, i)])
	}
	return chain
}

func TestKeyMatchesReference(t *testing.T) {
	key := []byte("low entropy passphrase")
	for _, n := range []int{1, 2, 3, 10, 100, 257} {
		want := refChain(key, n)[n-1]
		got, err := Key(key, Config{Iterations: n, Hasher: hasher.SHA256()})
		if err != nil {
			t.Fatalf("Key(n=%d) error: %v", n, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("Key(n=%d) = %x, want %x", n, got, want)
		}
	}
}

func TestKeyDeterministic(t *testing.T) {
	key := []byte("same key, same answer")
	config := Config{Iterations: 128, Hasher: hasher.SHA512()}
	first, err := Key(key, config)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		again, err := Key(key, config)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("run %d diverged: %x != %x", i, again, first)
		}
	}
}

func TestSingleIteration(t *testing.T) {
	// With one iteration the result is just the digest of the seeded
	// state, with no position selection or mixing at all.
	key := []byte("short chain")
	want := sha256.Sum256(key)
	got, err := Key(key, Config{Iterations: 1, Hasher: hasher.SHA256()})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want[:]) {
		t.Errorf("Key(n=1) = %x, want %x", got, want)
	}
}

func TestAvalanche(t *testing.T) {
	key := []byte("flip one bit of me")
	config := Config{Iterations: 64, Hasher: hasher.SHA256()}
	base, err := Key(key, config)
	if err != nil {
		t.Fatal(err)
	}
	for _, bit := range []int{0, 7, 42, len(key)*8 - 1} {
		flipped := bytes.Clone(key)
		flipped[bit/8] ^= 1 << (bit % 8)
		out, err := Key(flipped, config)
		if err != nil {
			t.Fatal(err)
		}
		if bytes.Equal(out, base) {
			t.Errorf("flipping bit %d left the output unchanged", bit)
		}
	}
}

func TestConfigValidation(t *testing.T) {
	h := counted(hasher.SHA256())
	tests := []struct {
		name   string
		config Config
		want   error
	}{
		{"zero iterations", Config{Iterations: 0, Hasher: h}, ErrInvalidIterations},
		{"negative iterations", Config{Iterations: -5, Hasher: h}, ErrInvalidIterations},
		{"negative interval", Config{Iterations: 8, Interval: -1, Hasher: h}, ErrInvalidInterval},
		{"interval beyond chain", Config{Iterations: 8, Interval: 9, Hasher: h}, ErrInvalidInterval},
		{"missing hasher", Config{Iterations: 8}, ErrMissingHasher},
		{"zero digest size", Config{Iterations: 8, Hasher: hasher.Shake128(0)}, ErrInvalidDigestSize},
	}
	for _, tc := range tests {
		if _, err := Key([]byte("k"), tc.config); !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
	// Rejection happens before any hashing work.
	if ops := h.ops.Load(); ops != 0 {
		t.Errorf("invalid configs performed %d hash operations", ops)
	}
}

func TestCapabilityFailure(t *testing.T) {
	fault := errors.New("entropy source exhausted")
	_, err := Key([]byte("k"), Config{Iterations: 4, Hasher: &faultyHasher{err: fault}})
	if !errors.Is(err, fault) {
		t.Errorf("capability error not propagated: got %v", err)
	}
}

func TestMemoryHelpers(t *testing.T) {
	h := hasher.SHA512()
	if got := MemoryFor(1024, h); got != 1024*64 {
		t.Errorf("MemoryFor(1024) = %d, want %d", got, 1024*64)
	}
	if got := IterationsFor(1<<20, h); got != 1<<20/64 {
		t.Errorf("IterationsFor(1MiB) = %d, want %d", got, 1<<20/64)
	}
	if got := IntervalFor(1000, 100); got != 10 {
		t.Errorf("IntervalFor(1000, 100) = %d, want 10", got)
	}
	if got := IntervalFor(1000, 0); got != 1000 {
		t.Errorf("IntervalFor(1000, 0) = %d, want 1000", got)
	}
	if got := IntervalFor(10, 100); got != 1 {
		t.Errorf("IntervalFor(10, 100) = %d, want 1", got)
	}
}
