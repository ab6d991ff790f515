// stretch-go: memory-hard key stretching
// Copyright 2026 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stretch

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// ParallelKey derives a stretched key across multiple independent
// lanes. Each lane stretches its own sub-key, derived by hashing the
// key material with the lane number appended, and the results are
// hashed together into the final digest. Total memory scales with the
// lane count while wall-clock time does not, so a defender with idle
// cores can raise the memory bar without waiting longer.
//
// Any lane count is valid regardless of the actual CPUs available;
// matching the core count is merely the efficient choice. Lanes run
// until the first error; cancelling the context aborts the remaining
// lanes at their next iteration boundary.
func ParallelKey(ctx context.Context, key []byte, lanes int, config Config) ([]byte, error) {
	if lanes < 1 {
		return nil, ErrInvalidLanes
	}
	if err := config.check(); err != nil {
		return nil, err
	}
	outs := make([][]byte, lanes)
	g, ctx := errgroup.WithContext(ctx)
	for lane := 0; lane < lanes; lane++ {
		lane := lane
		g.Go(func() error {
			sub, err := laneKey(key, lane, config)
			if err != nil {
				return err
			}
			out, err := derive(ctx, sub, config)
			if err != nil {
				return err
			}
			outs[lane] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	st, err := config.Hasher.New(nil)
	if err != nil {
		return nil, err
	}
	for _, out := range outs {
		if err := st.Incorporate(out); err != nil {
			return nil, err
		}
	}
	return st.Extract(), nil
}

// laneKey derives the sub-key for one lane: the digest of the key
// material with the decimal lane number appended.
func laneKey(key []byte, lane int, config Config) ([]byte, error) {
	seed := make([]byte, 0, len(key)+20)
	seed = append(seed, key...)
	seed = strconv.AppendInt(seed, int64(lane), 10)
	st, err := config.Hasher.New(seed)
	if err != nil {
		return nil, err
	}
	return st.Extract(), nil
}
