package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

// ErrInvalidPool reports a pool built from no items or from a
// non-positive weight.
var ErrInvalidPool = errors.New("invalid pool")

// WeightedValue is one entry of a pool: a positive integer weight and
// the value it selects.
type WeightedValue[V any] struct {
	Weight int `json:"weight"`
	Value  V   `json:"value"`
}

// Pool draws values with probability proportional to their weight. It
// stores ascending cumulative weights next to the values and binary
// searches on draw. Pools are immutable once built.
type Pool[V any] struct {
	cum    []int
	values []V
	total  int
}

// NewPool builds a pool from an ordered sequence of (weight, value)
// pairs. The sequence must be non-empty and every weight positive.
func NewPool[V any](items []WeightedValue[V]) (*Pool[V], error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no items", ErrInvalidPool)
	}
	p := &Pool[V]{
		cum:    make([]int, 0, len(items)),
		values: make([]V, 0, len(items)),
	}
	for i, it := range items {
		if it.Weight <= 0 {
			return nil, fmt.Errorf("%w: weight %d at index %d", ErrInvalidPool, it.Weight, i)
		}
		p.total += it.Weight
		p.cum = append(p.cum, p.total)
		p.values = append(p.values, it.Value)
	}
	return p, nil
}

// MustPool is NewPool for statically known items.
func MustPool[V any](items []WeightedValue[V]) *Pool[V] {
	p, err := NewPool(items)
	if err != nil {
		panic(err)
	}
	return p
}

// Total returns the sum of all item weights.
func (p *Pool[V]) Total() int { return p.total }

// Len returns the number of items.
func (p *Pool[V]) Len() int { return len(p.values) }

// Draw picks a value using rng, proportionally to weight.
func (p *Pool[V]) Draw(rng *rand.Rand) V {
	if len(p.values) == 1 {
		return p.values[0]
	}
	return p.DrawAt(rng.Intn(p.total) + 1)
}

// DrawAt resolves a raw draw r in [1, total] to its value: the entry
// with the smallest cumulative weight >= r. Out-of-range draws clamp to
// the nearest end.
func (p *Pool[V]) DrawAt(r int) V {
	if r <= 1 {
		return p.values[0]
	}
	if r >= p.total {
		return p.values[len(p.values)-1]
	}
	i := sort.SearchInts(p.cum, r)
	return p.values[i]
}
