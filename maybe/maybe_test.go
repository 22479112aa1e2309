package maybe_test

import (
	"testing"

	. "github.com/npillmayer/fquery/maybe"
)

func TestMaybeMatch(t *testing.T) {
	x := Just("div")
	y := Nothing[string]()

	var v string
	switch m := x.Match(); m {
	case m.Just(&v):
		t.Logf("Just(%s)", v)
	case m.Nothing():
		t.Error("expected Just(div) to match Just, didn't")
	}
	if v != "div" {
		t.Errorf("expected v to be 'div', is %q", v)
	}

	var w string
	switch m := y.Match(); m {
	case m.Just(&w):
		t.Errorf("expected Nothing not to match Just, but got %q", w)
	case m.Nothing():
		t.Logf("Nothing")
	}
}

func TestMaybeWithDefault(t *testing.T) {
	if Just(7).WithDefault(100) != 7 {
		t.Error("expected Just(7) to have value 7, hasn't")
	}
	if Nothing[int]().WithDefault(100) != 100 {
		t.Error("expected Nothing to default to 100, doesn't")
	}
}

func TestMaybeOf(t *testing.T) {
	dict := map[string]int{"a": 1}
	a, ok := dict["a"]
	if v, found := Of(a, ok).Get(); !found || v != 1 {
		t.Errorf("expected Of(dict[a]) to be Just(1), is %v/%v", v, found)
	}
	b, ok := dict["b"]
	if !Of(b, ok).IsNothing() {
		t.Error("expected Of(dict[b]) to be Nothing, isn't")
	}
}

func TestMaybeAndThenMap(t *testing.T) {
	positive := func(n int) Maybe[int] {
		if n > 0 {
			return Just(n)
		}
		return Nothing[int]()
	}
	if AndThen(Just(-3), positive).WithDefault(0) != 0 {
		t.Error("expected Just(-3) |> andThen(positive) to be Nothing, isn't")
	}
	double := Map(AndThen(Just(4), positive), func(n int) int { return 2 * n })
	if double.WithDefault(0) != 8 {
		t.Errorf("expected 8, have %d", double.WithDefault(0))
	}
}
