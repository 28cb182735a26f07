package geo

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemoSize is the number of point pairs kept by a MemoOracle when no
// size is given.
const DefaultMemoSize = 4096

type pairKey struct {
	from, to string
}

// MemoOracle memoizes another Oracle in a bounded LRU keyed by the ordered
// point pair. It is safe for concurrent use.
type MemoOracle struct {
	inner Oracle
	cache *lru.Cache[pairKey, int]
}

// NewMemoOracle wraps inner with an LRU of the given size.
// A size of zero or less uses DefaultMemoSize.
func NewMemoOracle(inner Oracle, size int) (*MemoOracle, error) {
	if inner == nil {
		return nil, fmt.Errorf("memo oracle: nil inner oracle")
	}
	if size <= 0 {
		size = DefaultMemoSize
	}
	c, err := lru.New[pairKey, int](size)
	if err != nil {
		return nil, fmt.Errorf("memo oracle: %w", err)
	}
	return &MemoOracle{inner: inner, cache: c}, nil
}

// Mileage implements Oracle. Errors are not cached.
func (m *MemoOracle) Mileage(ctx context.Context, from, to *Loc) (int, error) {
	key := pairKey{from: from.Code, to: to.Code}
	if miles, ok := m.cache.Get(key); ok {
		return miles, nil
	}
	miles, err := m.inner.Mileage(ctx, from, to)
	if err != nil {
		return 0, err
	}
	m.cache.Add(key, miles)
	return miles, nil
}

// Len returns the number of memoized pairs.
func (m *MemoOracle) Len() int {
	return m.cache.Len()
}

var _ Oracle = (*MemoOracle)(nil)
