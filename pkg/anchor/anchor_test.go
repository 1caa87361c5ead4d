package anchor

import (
	"image"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		token string
		want  Anchor
	}{
		{"t", Top},
		{"b", Bottom},
		{"l", Left},
		{"r", Right},
		{"c", Center},
		{"lt", TopLeft},
		{"rt", TopRight},
		{"lb", BottomLeft},
		{"rb", BottomRight},
		{"LT", TopLeft},
		{" c ", Center},
		{"", BottomRight},
		{"middle", BottomRight},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			if got := Parse(tt.token); got != tt.want {
				t.Fatalf("Parse(%q) = %v; want %v", tt.token, got, tt.want)
			}
		})
	}
	for _, a := range All {
		if got := Parse(a.Token()); got != a {
			t.Errorf("Parse(%q) = %v; want %v", a.Token(), got, a)
		}
	}
}

func TestResolve(t *testing.T) {
	base := image.Pt(100, 60)
	ov := image.Pt(20, 10)
	tests := []struct {
		anchor Anchor
		want   image.Point
	}{
		{Top, image.Pt(40, 5)},
		{Bottom, image.Pt(40, 50)},
		{Left, image.Pt(5, 25)},
		{Right, image.Pt(80, 25)},
		{Center, image.Pt(40, 25)},
		{TopLeft, image.Pt(5, 5)},
		{TopRight, image.Pt(80, 5)},
		{BottomLeft, image.Pt(5, 50)},
		{BottomRight, image.Pt(80, 50)},
	}
	for _, tt := range tests {
		t.Run(tt.anchor.String(), func(t *testing.T) {
			if got := Resolve(base, ov, tt.anchor, 5); got != tt.want {
				t.Fatalf("Resolve(%v) = %v; want %v", tt.anchor, got, tt.want)
			}
		})
	}
}

func TestResolveExamples(t *testing.T) {
	if got := Resolve(image.Pt(100, 100), image.Pt(20, 20), Center, 0); got != image.Pt(40, 40) {
		t.Errorf("Resolve(center) = %v; want (40,40)", got)
	}
	if got := Resolve(image.Pt(100, 100), image.Pt(20, 20), BottomRight, 5); got != image.Pt(80, 80) {
		t.Errorf("Resolve(bottom-right) = %v; want (80,80)", got)
	}
}

func TestResolveNegative(t *testing.T) {
	// Overlay wider than the base: placement isn't clamped.
	got := Resolve(image.Pt(50, 50), image.Pt(81, 10), Center, 0)
	if want := image.Pt(-15, 20); got != want {
		t.Fatalf("Resolve = %v; want %v", got, want)
	}
	got = Resolve(image.Pt(50, 50), image.Pt(80, 10), BottomRight, 0)
	if want := image.Pt(-30, 40); got != want {
		t.Fatalf("Resolve = %v; want %v", got, want)
	}
}

func TestResolveWithinBase(t *testing.T) {
	sizes := []image.Point{{1, 1}, {7, 3}, {20, 20}, {99, 100}, {100, 100}}
	base := image.Pt(100, 100)
	for _, ov := range sizes {
		limit := base.Sub(ov)
		for _, margin := range []int{0, limit.X / 2, min(limit.X, limit.Y)} {
			if margin > limit.X || margin > limit.Y {
				continue
			}
			for _, a := range All {
				p := Resolve(base, ov, a, margin)
				if p.X < 0 || p.Y < 0 || p.X > limit.X || p.Y > limit.Y {
					t.Errorf("Resolve(%v, %v, margin %d) = %v; outside %v", a, ov, margin, p, limit)
				}
			}
		}
	}
}
