// Package assert provides small table-driven test helpers in the shape the
// teacher repository's own test package used: Equate-style equality checks
// and success/failure helpers, rather than pulling in a third-party
// assertion library.
package assert

import (
	"reflect"
	"testing"
)

// Equate fails the test if got and want are not deeply equal.
func Equate(t *testing.T, got, want interface{}) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v (%T), want %v (%T)", got, got, want, want)
	}
}

// Success fails the test if v represents a failure: a non-nil error, or a
// plain bool that is false.
func Success(t *testing.T, v interface{}) {
	t.Helper()
	switch x := v.(type) {
	case nil:
		return
	case error:
		if x != nil {
			t.Errorf("unexpected error: %v", x)
		}
	case bool:
		if !x {
			t.Errorf("expected success, got false")
		}
	default:
		t.Errorf("unrecognised value passed to Success: %v", v)
	}
}

// Failure fails the test if v does not represent a failure.
func Failure(t *testing.T, v interface{}) {
	t.Helper()
	switch x := v.(type) {
	case error:
		if x == nil {
			t.Errorf("expected a non-nil error")
		}
	case bool:
		if x {
			t.Errorf("expected false, got true")
		}
	default:
		t.Errorf("unrecognised value passed to Failure: %v", v)
	}
}

// Approximate fails the test if got is not within tolerance of want.
func Approximate(t *testing.T, got, want, tolerance float64) {
	t.Helper()
	d := got - want
	if d < 0 {
		d = -d
	}
	if d > tolerance {
		t.Errorf("got %v, want %v (tolerance %v)", got, want, tolerance)
	}
}
