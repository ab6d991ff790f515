// stretch-go: memory-hard key stretching
// Copyright 2026 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stretch

import (
	"context"

	"github.com/dark-bio/stretch-go/hasher"
)

// sparseChain builds the chain while retaining only every Interval-th
// link. A checkpoint keeps both the digest and a resumable copy of the
// hash state at that point, so any gap can be replayed forward from
// the nearest checkpoint below it. All storage is owned by a single
// derivation and discarded with it.
type sparseChain struct {
	cfg     Config
	digests map[int][]byte       // checkpoint digests by chain index
	states  map[int]hasher.State // resumable states by chain index
	cache   map[int][]byte       // promoted links, only with Promote
	ops     int                  // replay steps spent so far
	budget  int
}

func newSparse(config Config) *sparseChain {
	retained := config.Iterations/config.Interval + 1
	s := &sparseChain{
		cfg:     config,
		digests: make(map[int][]byte, retained),
		states:  make(map[int]hasher.State, retained),
		budget:  config.budget(),
	}
	if config.Promote {
		s.cache = make(map[int][]byte)
	}
	return s
}

// run drives the same extract-select-mix loop as the full mode, but a
// link is stored only when its index lands on a checkpoint. Requests
// for any other link go through the resolver.
func (s *sparseChain) run(ctx context.Context, key []byte) ([]byte, error) {
	st, err := s.cfg.Hasher.New(key)
	if err != nil {
		return nil, err
	}
	for i := 1; i <= s.cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d := st.Extract()
		if (i-1)%s.cfg.Interval == 0 {
			cp, err := st.Clone()
			if err != nil {
				return nil, err
			}
			s.digests[i-1] = d
			s.states[i-1] = cp
		}
		if i == s.cfg.Iterations {
			return d, nil
		}
		link, err := s.entry(ctx, position(d, i))
		if err != nil {
			return nil, err
		}
		if err := st.Incorporate(link); err != nil {
			return nil, err
		}
	}
	return nil, ErrInvalidIterations // unreachable, Iterations >= 1
}

// entry returns the digest at the given chain index, rebuilding it if
// it was not retained.
func (s *sparseChain) entry(ctx context.Context, index int) ([]byte, error) {
	if d, ok := s.digests[index]; ok {
		return d, nil
	}
	if d, ok := s.cache[index]; ok {
		return d, nil
	}
	return s.resolve(ctx, index)
}

// frame replays one chain segment: it owns a hash state positioned
// just after link next-1 was extracted and walks forward until its
// target link is produced.
type frame struct {
	base   int // checkpoint index the segment grows from
	target int
	next   int    // chain index to produce next
	prev   []byte // digest at next-1
	st     hasher.State
}

// resolve rebuilds the link at the target index by replaying the chain
// recurrence from the nearest checkpoint at or below it. A replayed
// step may itself reference a link that was not retained; such steps
// suspend the current segment and start a nested one. Segments are
// kept on an explicit stack rather than the call stack, since the
// nesting depth is data-dependent and unbounded.
//
// Every link produced along the way is memoized for the duration of
// this call, and the deepest completed replay per checkpoint is kept
// so that a later target in the same segment resumes where the
// previous one stopped. Together these guarantee no link is rebuilt
// twice within one call, no matter how many segments need it. Both
// tables are discarded on return; links survive only through the
// Promote cache. Each replayed step counts against the budget shared
// by the whole derivation.
func (s *sparseChain) resolve(ctx context.Context, target int) ([]byte, error) {
	memo := make(map[int][]byte)
	fronts := make(map[int]*frame) // deepest completed replay per base
	var stack []*frame

	push := func(index int) error {
		base := index - index%s.cfg.Interval
		if front, ok := fronts[base]; ok {
			cp, err := front.st.Clone()
			if err != nil {
				return err
			}
			stack = append(stack, &frame{
				base:   base,
				target: index,
				next:   front.next,
				prev:   front.prev,
				st:     cp,
			})
			return nil
		}
		cp, err := s.states[base].Clone()
		if err != nil {
			return err
		}
		stack = append(stack, &frame{
			base:   base,
			target: index,
			next:   base + 1,
			prev:   s.digests[base],
			st:     cp,
		})
		return nil
	}

	if err := push(target); err != nil {
		return nil, err
	}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f := stack[len(stack)-1]
		ref := position(f.prev, f.next)
		link, ok := s.lookup(memo, ref)
		if !ok {
			// The back-reference is missing too; rebuild it first
			// and retry this step once it lands in the memo.
			if err := push(ref); err != nil {
				return nil, err
			}
			continue
		}
		s.ops++
		if s.ops > s.budget {
			return nil, ErrBudgetExceeded
		}
		if err := f.st.Incorporate(link); err != nil {
			return nil, err
		}
		d := f.st.Extract()
		memo[f.next] = d
		f.prev = d
		f.next++
		if f.next > f.target {
			stack = stack[:len(stack)-1]
			if front, ok := fronts[f.base]; !ok || f.next > front.next {
				fronts[f.base] = f
			}
		}
	}
	d := memo[target]
	if s.cache != nil {
		s.cache[target] = d
	}
	return d, nil
}

// lookup finds a link among the checkpoints, the promoted cache and
// the in-flight memo, in that order.
func (s *sparseChain) lookup(memo map[int][]byte, index int) ([]byte, bool) {
	if d, ok := s.digests[index]; ok {
		return d, true
	}
	if d, ok := s.cache[index]; ok {
		return d, true
	}
	d, ok := memo[index]
	return d, ok
}
