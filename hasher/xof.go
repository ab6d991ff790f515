// stretch-go: memory-hard key stretching
// Copyright 2026 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hasher

import (
	"io"

	"github.com/cloudflare/circl/xof"
)

// xofHasher adapts an extendable-output function to the Hasher
// capability with a caller chosen digest width. Extract reads from a
// throwaway clone so the running state is never consumed.
type xofHasher struct {
	id   xof.ID
	size int
}

// Shake128 returns a SHAKE128 backed hash capability producing digests
// of the given width in bytes.
func Shake128(size int) Hasher {
	return &xofHasher{id: xof.SHAKE128, size: size}
}

// Shake256 returns a SHAKE256 backed hash capability producing digests
// of the given width in bytes.
func Shake256(size int) Hasher {
	return &xofHasher{id: xof.SHAKE256, size: size}
}

// BLAKE2Xb returns a BLAKE2Xb backed hash capability producing digests
// of the given width in bytes.
func BLAKE2Xb(size int) Hasher {
	return &xofHasher{id: xof.BLAKE2XB, size: size}
}

func (x *xofHasher) Size() int { return x.size }

func (x *xofHasher) New(seed []byte) (State, error) {
	if x.size <= 0 {
		return nil, ErrInvalidSize
	}
	st := x.id.New()
	if _, err := st.Write(seed); err != nil {
		return nil, err
	}
	return &xofState{x: st, size: x.size}, nil
}

type xofState struct {
	x    xof.XOF
	size int
}

func (s *xofState) Incorporate(p []byte) error {
	_, err := s.x.Write(p)
	return err
}

func (s *xofState) Extract() []byte {
	out := make([]byte, s.size)
	if _, err := io.ReadFull(s.x.Clone(), out); err != nil {
		panic("hasher: " + err.Error())
	}
	return out
}

func (s *xofState) Clone() (State, error) {
	return &xofState{x: s.x.Clone(), size: s.size}, nil
}
