// Package params holds live-tweakable settings. Values are stored in
// atomic.Values behind validating setters so the window callback can
// read them lock-free at the start of every block while a UI writes
// them from another goroutine. All keys must be registered before any
// reads take place.
package params

import (
	"fmt"
	"sync/atomic"
)

type Registry struct {
	properties map[string]*atomic.Value
	setters    map[string]Setter
}

func New() *Registry {
	return &Registry{
		properties: make(map[string]*atomic.Value),
		setters:    make(map[string]Setter),
	}
}

// Set updates the value for key. The key has to be registered first.
func (r *Registry) Set(key string, value interface{}) error {
	prop, ok := r.properties[key]
	if !ok {
		return fmt.Errorf("unknown parameter %s", key)
	}
	set := r.setters[key]
	if err := set(value, prop); err != nil {
		return fmt.Errorf("set parameter %s: %w", key, err)
	}
	return nil
}

// Get returns the current value for key.
func (r *Registry) Get(key string) (interface{}, error) {
	prop, ok := r.properties[key]
	if !ok {
		return nil, fmt.Errorf("unknown parameter %s", key)
	}
	return prop.Load(), nil
}

// Register adds a new parameter with a validating setter and an
// initial value.
func (r *Registry) Register(key string, set Setter, init interface{}) (*atomic.Value, error) {
	var prop atomic.Value
	r.properties[key] = &prop
	r.setters[key] = set
	return &prop, set(init, &prop)
}

// MustRegister is Register for statically known parameters.
func (r *Registry) MustRegister(key string, set Setter, init interface{}) *atomic.Value {
	prop, err := r.Register(key, set, init)
	if err != nil {
		panic(err)
	}
	return prop
}

// Setter validates a value and stores it.
type Setter func(val interface{}, dest *atomic.Value) error

// Float constrains a float64 parameter to [min, max]. Ints are
// accepted and widened.
func Float(min, max float64) Setter {
	return func(v interface{}, dest *atomic.Value) error {
		var f float64
		switch n := v.(type) {
		case float64:
			f = n
		case int:
			f = float64(n)
		default:
			return fmt.Errorf("value is not a float64: %v", v)
		}
		if f < min || f > max {
			return fmt.Errorf("value not in range %v - %v: %v", min, max, f)
		}
		dest.Store(f)
		return nil
	}
}

// Int constrains an int parameter to [min, max].
func Int(min, max int) Setter {
	return func(v interface{}, dest *atomic.Value) error {
		var i int
		switch n := v.(type) {
		case int:
			i = n
		case float64:
			i = int(n)
		default:
			return fmt.Errorf("value is not an int: %v", v)
		}
		if i < min || i > max {
			return fmt.Errorf("value not in range %v - %v: %v", min, max, i)
		}
		dest.Store(i)
		return nil
	}
}

// Bool stores a bool parameter.
func Bool(v interface{}, dest *atomic.Value) error {
	if b, ok := v.(bool); ok {
		dest.Store(b)
		return nil
	}
	return fmt.Errorf("value is not a bool: %v", v)
}
