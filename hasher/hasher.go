// stretch-go: memory-hard key stretching
// Copyright 2026 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hasher provides the hash capability consumed by the chain
// engine: a factory for seedable hash states that can be appended to,
// snapshotted, and cloned.
//
// Adapters are provided for the fixed-width SHA-2, SHA-3 and BLAKE2
// families as well as for extendable-output functions with a caller
// chosen digest width.
package hasher

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding"
	"errors"
	"hash"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"
)

// Error types for capability failures
var (
	ErrStateNotPortable = errors.New("hasher: state does not support snapshots")
	ErrInvalidSize      = errors.New("hasher: digest size must be positive")
)

// Hasher creates hash states seeded with key material. Size reports the
// width in bytes of the digests the states produce.
type Hasher interface {
	Size() int
	New(seed []byte) (State, error)
}

// State is a mutable running hash. Extract returns the digest of
// everything incorporated so far without disturbing the state, so it
// may be called repeatedly as the state grows. Clone produces an
// independent copy that evolves separately from the original.
type State interface {
	Incorporate(p []byte) error
	Extract() []byte
	Clone() (State, error)
}

// fixed adapts any fixed-width hash.Hash constructor to the Hasher
// capability. Cloning goes through the binary marshaling interfaces,
// which every stdlib and x/crypto hash implements.
type fixed struct {
	size int
	make func() (hash.Hash, error)
}

func (f *fixed) Size() int { return f.size }

func (f *fixed) New(seed []byte) (State, error) {
	h, err := f.make()
	if err != nil {
		return nil, err
	}
	if _, err := h.Write(seed); err != nil {
		return nil, err
	}
	return &fixedState{h: h, make: f.make}, nil
}

type fixedState struct {
	h    hash.Hash
	make func() (hash.Hash, error)
}

func (s *fixedState) Incorporate(p []byte) error {
	_, err := s.h.Write(p)
	return err
}

func (s *fixedState) Extract() []byte {
	return s.h.Sum(nil)
}

func (s *fixedState) Clone() (State, error) {
	m, ok := s.h.(encoding.BinaryMarshaler)
	if !ok {
		return nil, ErrStateNotPortable
	}
	blob, err := m.MarshalBinary()
	if err != nil {
		return nil, err
	}
	h, err := s.make()
	if err != nil {
		return nil, err
	}
	u, ok := h.(encoding.BinaryUnmarshaler)
	if !ok {
		return nil, ErrStateNotPortable
	}
	if err := u.UnmarshalBinary(blob); err != nil {
		return nil, err
	}
	return &fixedState{h: h, make: s.make}, nil
}

// SHA256 returns a SHA-256 backed hash capability.
func SHA256() Hasher {
	return &fixed{size: sha256.Size, make: func() (hash.Hash, error) {
		return sha256.New(), nil
	}}
}

// SHA512 returns a SHA-512 backed hash capability.
func SHA512() Hasher {
	return &fixed{size: sha512.Size, make: func() (hash.Hash, error) {
		return sha512.New(), nil
	}}
}

// SHA3256 returns a SHA3-256 backed hash capability.
func SHA3256() Hasher {
	return &fixed{size: 32, make: func() (hash.Hash, error) {
		return sha3.New256(), nil
	}}
}

// SHA3512 returns a SHA3-512 backed hash capability.
func SHA3512() Hasher {
	return &fixed{size: 64, make: func() (hash.Hash, error) {
		return sha3.New512(), nil
	}}
}

// BLAKE2b returns a BLAKE2b-512 backed hash capability.
func BLAKE2b() Hasher {
	return &fixed{size: blake2b.Size, make: func() (hash.Hash, error) {
		return blake2b.New512(nil)
	}}
}

// BLAKE2s returns a BLAKE2s-256 backed hash capability.
func BLAKE2s() Hasher {
	return &fixed{size: blake2s.Size, make: func() (hash.Hash, error) {
		return blake2s.New256(nil)
	}}
}
