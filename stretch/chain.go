// stretch-go: memory-hard key stretching
// Copyright 2026 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stretch

import "context"

// fullKey builds the chain with every link materialized: one live hash
// state, one stored digest per iteration, no recomputation. This is
// the reference semantics the sparse mode must reproduce byte for
// byte. The final link is returned without a trailing mix step, so a
// single-iteration chain is just the digest of the seeded state.
func fullKey(ctx context.Context, key []byte, config Config) ([]byte, error) {
	st, err := config.Hasher.New(key)
	if err != nil {
		return nil, err
	}
	chain := make([][]byte, 0, config.Iterations)
	for i := 1; i <= config.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d := st.Extract()
		chain = append(chain, d)
		if i == config.Iterations {
			return d, nil
		}
		if err := st.Incorporate(chain[position(d, i)]); err != nil {
			return nil, err
		}
	}
	return nil, ErrInvalidIterations // unreachable, Iterations >= 1
}
