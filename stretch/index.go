// stretch-go: memory-hard key stretching
// Copyright 2026 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stretch

// position derives a pseudo-random chain index in [0, bound) from a
// digest: the first eight bytes read as a big-endian unsigned integer,
// reduced modulo the bound. Digests narrower than eight bytes fold
// whatever bytes exist. The bound is the chain length so far, which is
// always at least 1.
func position(digest []byte, bound int) int {
	prefix := digest
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	var v uint64
	for _, b := range prefix {
		v = v<<8 | uint64(b)
	}
	return int(v % uint64(bound))
}
