package pathseq

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		name   string
		prefix string
		frame  string
		tail   string
		ext    string
		ok     bool
	}{
		{"shot010_v002.0001.exr", "shot010_v002.", "0001", "", "exr", true},
		{"shot010_v002_wgergely.c4d", "shot010_v", "002", "_wgergely", "c4d", true},
		{"notes.txt", "", "", "", "", false},
		{"render.0003.exr", "render.", "0003", "", "exr", true},
		{"no_numbers_at_all", "", "", "", "", false},
	}
	for _, c := range cases {
		got, ok := Parse(c.name)
		if ok != c.ok {
			t.Fatalf("Parse(%q) ok = %v, want %v", c.name, ok, c.ok)
		}
		if !ok {
			continue
		}
		if got.Prefix != c.prefix || got.Frame != c.frame || got.Tail != c.tail || got.Ext != c.ext {
			t.Fatalf("Parse(%q) = %+v, want {%q %q %q %q}", c.name, got, c.prefix, c.frame, c.tail, c.ext)
		}
	}
}

func TestSameSequence(t *testing.T) {
	a, _ := Parse("render.0001.exr")
	b, _ := Parse("render.0002.exr")
	c, _ := Parse("render_other.0002.exr")
	if !a.SameSequence(b) {
		t.Fatalf("expected same sequence for %+v and %+v", a, b)
	}
	if a.SameSequence(c) {
		t.Fatalf("did not expect same sequence for %+v and %+v", a, c)
	}
}

func TestIsCollapsed(t *testing.T) {
	c, ok := IsCollapsed("/job/asset/render.[0001-0003].exr")
	if !ok {
		t.Fatal("expected collapsed marker to be detected")
	}
	if c.Prefix != "/job/asset/render." || c.Start != "0001" || c.End != "0003" || c.Tail != ".exr" {
		t.Fatalf("unexpected split: %+v", c)
	}

	if _, ok := IsCollapsed("/job/asset/notes.txt"); ok {
		t.Fatal("did not expect a collapsed marker")
	}
}

func TestStartEndPath(t *testing.T) {
	p := "/job/asset/render.[0001-0003].exr"
	if got := StartPath(p); got != "/job/asset/render.0001.exr" {
		t.Fatalf("StartPath = %q", got)
	}
	if got := EndPath(p); got != "/job/asset/render.0003.exr" {
		t.Fatalf("EndPath = %q", got)
	}

	identity := "/job/asset/notes.txt"
	if StartPath(identity) != identity || EndPath(identity) != identity {
		t.Fatal("expected identity on non-collapsed path")
	}
}

func TestStartEndPathRoundTrip(t *testing.T) {
	p := "/job/asset/render.[0001-0010].exr"
	if got := EndPath(StartPath(p)); got != EndPath(p) {
		t.Fatalf("EndPath(StartPath(p)) = %q, want %q", got, EndPath(p))
	}
}

func TestRanges(t *testing.T) {
	cases := []struct {
		values []int
		pad    int
		want   string
	}{
		{[]int{1, 2, 3, 5, 6, 10}, 3, "001-003,005-006,010"},
		{[]int{1, 2, 3, 5, 7, 8, 9}, 3, "001-003,005,007-009"},
		{nil, 3, ""},
		{[]int{7}, 2, "07"},
	}
	for _, c := range cases {
		if got := Ranges(c.values, c.pad); got != c.want {
			t.Fatalf("Ranges(%v, %d) = %q, want %q", c.values, c.pad, got, c.want)
		}
	}
}

func TestRangesRoundTrip(t *testing.T) {
	canonical := "001-003,005,007-009"
	values, err := ParseRanges(canonical)
	if err != nil {
		t.Fatal(err)
	}
	if got := Ranges(values, 3); got != canonical {
		t.Fatalf("round trip = %q, want %q", got, canonical)
	}
}
