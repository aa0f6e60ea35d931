package engine

import (
	"math/rand"
	"strings"
	"testing"
)

func TestChordChainWalksValidDegrees(t *testing.T) {
	rows := map[int][]Transition{
		0: {{Weight: 3, To: 3}, {Weight: 1, To: 4}},
		3: {{Weight: 1, To: 4}},
		4: {{Weight: 1, To: 0}},
	}
	chain, err := NewChordChain(0, rows)
	if err != nil {
		t.Fatal(err)
	}
	if chain.Current() != 0 {
		t.Fatalf("want start at 0, got %d", chain.Current())
	}

	rng := rand.New(rand.NewSource(11))
	prev := chain.Current()
	for i := 0; i < 100; i++ {
		next := chain.Next(rng)
		allowed := false
		for _, tr := range rows[prev] {
			if tr.To == next {
				allowed = true
			}
		}
		if !allowed {
			t.Fatalf("step %d: %d -> %d is not a listed transition", i, prev, next)
		}
		if next != chain.Current() {
			t.Fatalf("step %d: Next returned %d but Current is %d", i, next, chain.Current())
		}
		prev = next
	}
}

func TestChordChainDeterministicRow(t *testing.T) {
	chain, err := NewChordChain(2, map[int][]Transition{
		2: {{Weight: 1, To: 5}},
		5: {{Weight: 1, To: 2}},
	})
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(1))
	want := []int{5, 2, 5, 2}
	for i, w := range want {
		if got := chain.Next(rng); w != got {
			t.Errorf("step %d: want %d, got %d", i, w, got)
		}
	}
}

func TestChordChainValidation(t *testing.T) {
	tests := []struct {
		name  string
		start int
		rows  map[int][]Transition
		err   string
	}{
		{
			name:  "missing start row",
			start: 1,
			rows:  map[int][]Transition{0: {{Weight: 1, To: 0}}},
			err:   "start degree 1",
		},
		{
			name:  "dangling destination",
			start: 0,
			rows:  map[int][]Transition{0: {{Weight: 1, To: 9}}},
			err:   "transitions to 9",
		},
		{
			name:  "empty row",
			start: 0,
			rows:  map[int][]Transition{0: {}},
			err:   "degree 0",
		},
		{
			name:  "non-positive weight",
			start: 0,
			rows:  map[int][]Transition{0: {{Weight: 0, To: 0}}},
			err:   "degree 0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChordChain(tt.start, tt.rows)
			if err == nil {
				t.Fatal("want error, got nil")
			}
			if !strings.Contains(err.Error(), tt.err) {
				t.Errorf("want error containing %q, got %q", tt.err, err)
			}
		})
	}
}

func TestChordChainReset(t *testing.T) {
	chain, err := NewChordChain(0, map[int][]Transition{
		0: {{Weight: 1, To: 3}},
		3: {{Weight: 1, To: 0}},
	})
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(1))
	chain.Next(rng)

	chain.Reset(0)
	if chain.Current() != 0 {
		t.Errorf("want reset to 0, got %d", chain.Current())
	}
	chain.Reset(7) // unknown degree: ignored
	if chain.Current() != 0 {
		t.Errorf("reset to unknown degree moved the chain to %d", chain.Current())
	}
}

func TestTriad(t *testing.T) {
	if want, got := [3]int{0, 2, 4}, Triad(0); want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	if want, got := [3]int{5, 7, 9}, Triad(5); want != got {
		t.Errorf("want %v, got %v", want, got)
	}
}
