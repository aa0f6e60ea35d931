package engine

import (
	"math/rand"
	"reflect"
	"testing"
)

func collectSteps(c *StepCursor, n int) []int {
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, c.Advance())
	}
	return out
}

func TestStepCursorForward(t *testing.T) {
	c := NewStepCursor(4, ModeForward, nil)
	if c.Pos() != 0 {
		t.Fatalf("want start at 0, got %d", c.Pos())
	}
	want := []int{1, 2, 3, 0, 1, 2}
	if got := collectSteps(c, 6); !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestStepCursorReverse(t *testing.T) {
	c := NewStepCursor(4, ModeReverse, nil)
	if c.Pos() != 3 {
		t.Fatalf("want start at 3, got %d", c.Pos())
	}
	want := []int{2, 1, 0, 3, 2}
	if got := collectSteps(c, 5); !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestStepCursorPendulum(t *testing.T) {
	c := NewStepCursor(4, ModePendulum, nil)
	want := []int{1, 2, 3, 2, 1, 0, 1, 2, 3, 2}
	if got := collectSteps(c, 10); !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestStepCursorPendulumSingleStep(t *testing.T) {
	c := NewStepCursor(1, ModePendulum, nil)
	for i := 0; i < 5; i++ {
		if got := c.Advance(); got != 0 {
			t.Fatalf("advance %d: want 0, got %d", i, got)
		}
	}
}

func TestStepCursorRandomStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	c := NewStepCursor(8, ModeRandom, rng)
	seen := make(map[int]bool)
	for i := 0; i < 200; i++ {
		pos := c.Advance()
		if pos < 0 || pos >= 8 {
			t.Fatalf("advance %d: index %d out of range", i, pos)
		}
		seen[pos] = true
	}
	if len(seen) != 8 {
		t.Errorf("200 random draws hit only %d of 8 steps", len(seen))
	}
}

func TestStepCursorReset(t *testing.T) {
	c := NewStepCursor(6, ModeForward, nil)
	collectSteps(c, 3)
	c.Reset()
	if c.Pos() != 0 {
		t.Errorf("forward reset: want 0, got %d", c.Pos())
	}

	c = NewStepCursor(6, ModeReverse, nil)
	collectSteps(c, 3)
	c.Reset()
	if c.Pos() != 5 {
		t.Errorf("reverse reset: want 5, got %d", c.Pos())
	}
}

func TestStepCursorModeSwitchKeepsPosition(t *testing.T) {
	c := NewStepCursor(8, ModeForward, nil)
	collectSteps(c, 3)
	c.SetMode(ModeReverse)
	if c.Pos() != 3 {
		t.Fatalf("mode switch moved the cursor to %d", c.Pos())
	}
	if got := c.Advance(); got != 2 {
		t.Errorf("want reverse step to 2, got %d", got)
	}
}
