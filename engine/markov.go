package engine

import (
	"fmt"
	"math/rand"
	"sort"
)

// ChordChain is a first-order Markov chain over chord root degrees.
// Each state owns a weighted pool of successor degrees; drawing from
// the current state's pool advances the chain. Transition rows are
// validated once at construction so a malformed row can never stall
// the window callback later.
type ChordChain struct {
	rows    map[int]*Pool[int]
	current int
}

// Transition is one weighted edge of the chain.
type Transition struct {
	Weight int `json:"weight"`
	To     int `json:"to"`
}

// NewChordChain builds a chain from per-degree transition rows,
// starting at the given degree. Every row must form a valid pool and
// every destination must itself have a row, so the chain can never
// walk into a degree it has no successors for.
func NewChordChain(start int, rows map[int][]Transition) (*ChordChain, error) {
	if _, ok := rows[start]; !ok {
		return nil, fmt.Errorf("chord chain: start degree %d has no transition row", start)
	}
	c := &ChordChain{
		rows:    make(map[int]*Pool[int], len(rows)),
		current: start,
	}
	// Deterministic iteration keeps error messages stable.
	degrees := make([]int, 0, len(rows))
	for d := range rows {
		degrees = append(degrees, d)
	}
	sort.Ints(degrees)
	for _, d := range degrees {
		items := make([]WeightedValue[int], 0, len(rows[d]))
		for _, t := range rows[d] {
			if _, ok := rows[t.To]; !ok {
				return nil, fmt.Errorf("chord chain: degree %d transitions to %d which has no row", d, t.To)
			}
			items = append(items, WeightedValue[int]{Weight: t.Weight, Value: t.To})
		}
		pool, err := NewPool(items)
		if err != nil {
			return nil, fmt.Errorf("chord chain: degree %d: %w", d, err)
		}
		c.rows[d] = pool
	}
	return c, nil
}

// Current returns the chain's current chord root degree.
func (c *ChordChain) Current() int { return c.current }

// Next advances the chain and returns the new chord root degree.
func (c *ChordChain) Next(rng *rand.Rand) int {
	c.current = c.rows[c.current].Draw(rng)
	return c.current
}

// Reset moves the chain back to the given degree. No-op if the degree
// has no row.
func (c *ChordChain) Reset(start int) {
	if _, ok := c.rows[start]; ok {
		c.current = start
	}
}

// Triad spells the chord on a root degree as stacked thirds within the
// active scale: degrees {d, d+2, d+4}.
func Triad(degree int) [3]int {
	return [3]int{degree, degree + 2, degree + 4}
}
