package params

import (
	"sync"
	"testing"
)

func TestRegisterAndGet(t *testing.T) {
	r := New()
	if _, err := r.Register("tempo", Float(20, 300), 120.0); err != nil {
		t.Fatal(err)
	}
	val, err := r.Get("tempo")
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 120.0, val.(float64); want != got {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestSetValidates(t *testing.T) {
	r := New()
	r.MustRegister("density", Int(0, 100), 50)

	if err := r.Set("density", 75); err != nil {
		t.Fatal(err)
	}
	val, _ := r.Get("density")
	if val.(int) != 75 {
		t.Errorf("want 75, got %v", val)
	}

	if err := r.Set("density", 101); err == nil {
		t.Errorf("want range error for 101")
	}
	if err := r.Set("density", "fifty"); err == nil {
		t.Errorf("want type error for string")
	}
	// Failed sets must not clobber the stored value.
	val, _ = r.Get("density")
	if val.(int) != 75 {
		t.Errorf("failed set changed the value to %v", val)
	}
}

func TestUnknownKey(t *testing.T) {
	r := New()
	if err := r.Set("nope", 1); err == nil {
		t.Errorf("want error setting unknown key")
	}
	if _, err := r.Get("nope"); err == nil {
		t.Errorf("want error getting unknown key")
	}
}

func TestFloatAcceptsInt(t *testing.T) {
	r := New()
	r.MustRegister("rate", Float(0, 4), 0.25)
	if err := r.Set("rate", 1); err != nil {
		t.Fatal(err)
	}
	val, _ := r.Get("rate")
	if want, got := 1.0, val.(float64); want != got {
		t.Errorf("want widened %v, got %v", want, got)
	}
}

func TestBool(t *testing.T) {
	r := New()
	r.MustRegister("mute", Bool, false)
	if err := r.Set("mute", true); err != nil {
		t.Fatal(err)
	}
	val, _ := r.Get("mute")
	if !val.(bool) {
		t.Errorf("want true")
	}
	if err := r.Set("mute", 1); err == nil {
		t.Errorf("want type error for int")
	}
}

func TestRegisterRejectsBadInit(t *testing.T) {
	r := New()
	if _, err := r.Register("velocity", Int(1, 127), 0); err == nil {
		t.Errorf("want error for out-of-range initial value")
	}
}

func TestConcurrentReadsAndWrites(t *testing.T) {
	r := New()
	r.MustRegister("density", Int(0, 100), 50)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if err := r.Set("density", i%101); err != nil {
				t.Error(err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			val, err := r.Get("density")
			if err != nil {
				t.Error(err)
				return
			}
			if d := val.(int); d < 0 || d > 100 {
				t.Errorf("read out-of-range value %d", d)
				return
			}
		}
	}()
	wg.Wait()
}
