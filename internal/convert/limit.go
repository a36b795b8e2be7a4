// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// Limited bounds the number of conversions running at once. Callers beyond
// the limit wait until a slot frees up or their context ends.
type Limited struct {
	next Converter
	sem  *semaphore.Weighted
}

// NewLimited wraps next with a limit of n concurrent conversions. n below 1
// is treated as 1.
func NewLimited(next Converter, n int) *Limited {
	if n < 1 {
		n = 1
	}
	return &Limited{next: next, sem: semaphore.NewWeighted(int64(n))}
}

func (l *Limited) Convert(ctx context.Context, inputPath, format string) ([]byte, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for a conversion slot: %w", err)
	}
	defer l.sem.Release(1)

	return l.next.Convert(ctx, inputPath, format)
}
