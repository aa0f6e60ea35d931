package engine

import (
	"fmt"
	"math"
)

// Euclidean returns a binary onset pattern of the given length with
// round(steps*density/100) onsets distributed as evenly as possible,
// rotated left by offset positions. The unrotated pattern always
// starts on an onset when density > 0.
//
// density is a percentage: 0 yields all rests, 100 all onsets.
func Euclidean(steps, density, offset int) ([]bool, error) {
	if steps < 1 {
		return nil, fmt.Errorf("euclidean: steps must be >= 1, got %d", steps)
	}
	if density < 0 || density > 100 {
		return nil, fmt.Errorf("euclidean: density must be 0-100, got %d", density)
	}
	notes := int(math.Round(float64(steps) * float64(density) / 100.0))

	// Onset wherever the evenly-spaced accumulator crosses an integer.
	pattern := make([]bool, steps)
	prev := 0
	for s := 1; s <= steps; s++ {
		curr := (s*notes + steps - 1) / steps // ceil(s*notes/steps)
		pattern[s-1] = curr != prev
		prev = curr
	}

	return rotate(pattern, offset), nil
}

// rotate shifts a pattern left by offset positions (mod its length).
func rotate(pattern []bool, offset int) []bool {
	n := len(pattern)
	offset = ((offset % n) + n) % n
	if offset == 0 {
		return pattern
	}
	out := make([]bool, 0, n)
	out = append(out, pattern[offset:]...)
	out = append(out, pattern[:offset]...)
	return out
}

// Onsets counts the true steps of a pattern.
func Onsets(pattern []bool) int {
	n := 0
	for _, on := range pattern {
		if on {
			n++
		}
	}
	return n
}
