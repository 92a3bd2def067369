package pos

import "testing"

func TestColumnNameRoundTrip(t *testing.T) {
	cases := []struct {
		col  int64
		name string
	}{
		{1, "A"},
		{26, "Z"},
		{27, "AA"},
		{52, "AZ"},
		{53, "BA"},
		{702, "ZZ"},
		{703, "AAA"},
	}
	for _, c := range cases {
		if got := ColumnName(c.col); got != c.name {
			t.Errorf("ColumnName(%d) = %q, want %q", c.col, got, c.name)
		}
		if got := ColumnIndex(c.name); got != c.col {
			t.Errorf("ColumnIndex(%q) = %d, want %d", c.name, got, c.col)
		}
	}
}

func TestRectNormalizes(t *testing.T) {
	r := NewRect(New(5, 5), New(1, 1))
	if r.Min != (Pos{1, 1}) || r.Max != (Pos{5, 5}) {
		t.Fatalf("NewRect did not normalize: %+v", r)
	}
	if r.Width() != 5 || r.Height() != 5 {
		t.Fatalf("unexpected dims: w=%d h=%d", r.Width(), r.Height())
	}
}

func TestRectIntersection(t *testing.T) {
	a := Rect{Min: New(1, 1), Max: New(5, 5)}
	b := Rect{Min: New(3, 3), Max: New(10, 10)}
	got, ok := a.Intersection(b)
	if !ok {
		t.Fatal("expected intersection")
	}
	want := Rect{Min: New(3, 3), Max: New(5, 5)}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}

	c := Rect{Min: New(100, 100), Max: New(200, 200)}
	if a.Intersects(c) {
		t.Fatal("did not expect intersection")
	}
}

func TestUnboundedRect(t *testing.T) {
	r := Rect{Min: New(1, 1), Max: New(Unbounded, 10)}
	if !r.IsUnbounded() {
		t.Fatal("expected unbounded")
	}
	if r.Width() != Unbounded {
		t.Fatalf("expected unbounded width, got %d", r.Width())
	}
}

func TestExclusiveEnd(t *testing.T) {
	if got := ExclusiveEnd(nil); got != Unbounded {
		t.Fatalf("got %d want Unbounded", got)
	}
	v := int64(5)
	if got := ExclusiveEnd(&v); got != 6 {
		t.Fatalf("got %d want 6", got)
	}
}
