package assert

import (
	"fmt"
	"testing"
)

type recorder struct {
	failed bool
}

func (r *recorder) Helper() {}

func (r *recorder) Fatal(...interface{}) { r.failed = true }

func (r *recorder) Fatalf(string, ...interface{}) { r.failed = true }

func TestNil(t *testing.T) {
	var nilErr *customErr

	cases := map[string]struct {
		value    interface{}
		wantFail bool
	}{
		"nil":                {value: nil},
		"typed nil pointer":  {value: nilErr},
		"nil slice":          {value: []byte(nil)},
		"error":              {value: fmt.Errorf("boom"), wantFail: true},
		"non nillable value": {value: 42, wantFail: true},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var r recorder
			Nil(&r, tc.value)
			if r.failed != tc.wantFail {
				t.Fatalf("want fail %v, got %v", tc.wantFail, r.failed)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	var r recorder
	Equal(&r, []byte("a"), []byte("a"))
	if r.failed {
		t.Fatal("equal values reported as different")
	}
	Equal(&r, []byte("a"), []byte("b"))
	if !r.failed {
		t.Fatal("different values reported as equal")
	}
}

func TestPanics(t *testing.T) {
	var r recorder
	Panics(&r, func() { panic("boom") })
	if r.failed {
		t.Fatal("panic not detected")
	}
	Panics(&r, func() {})
	if !r.failed {
		t.Fatal("missing panic not detected")
	}
}

type customErr struct{}

func (*customErr) Error() string { return "custom" }
