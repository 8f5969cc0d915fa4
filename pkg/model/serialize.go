package model

import (
	"context"

	"golang.org/x/sync/semaphore"

	"github.com/matzehuels/floorgen/pkg/mask"
)

// Serialize wraps gen so that at most n invocations run concurrently.
// Callers beyond the limit block until a slot frees up or their ctx ends.
// n < 1 is treated as 1.
func Serialize(gen Generator, n int) Generator {
	if n < 1 {
		n = 1
	}
	return &serialized{gen: gen, sem: semaphore.NewWeighted(int64(n))}
}

type serialized struct {
	gen Generator
	sem *semaphore.Weighted
}

func (s *serialized) Invoke(ctx context.Context, in Input) ([]mask.Map, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)
	return s.gen.Invoke(ctx, in)
}
