package geom

import "testing"

func TestDirectionOpposite(t *testing.T) {
	tests := []struct {
		dir  Direction
		want Direction
	}{
		{Top, Bottom},
		{Bottom, Top},
		{Left, Right},
		{Right, Left},
	}

	for _, tt := range tests {
		if got := tt.dir.Opposite(); got != tt.want {
			t.Errorf("%v.Opposite() = %v, want %v", tt.dir, got, tt.want)
		}
		if got := tt.dir.Opposite().Opposite(); got != tt.dir {
			t.Errorf("%v.Opposite().Opposite() = %v, want %v", tt.dir, got, tt.dir)
		}
	}
}

func TestPointStepRoundTrip(t *testing.T) {
	origin := Point{X: 3, Y: -2}
	for _, d := range Directions() {
		back := origin.Step(d).Step(d.Opposite())
		if back != origin {
			t.Errorf("Step(%v) then Step(%v) = %v, want %v", d, d.Opposite(), back, origin)
		}
	}
}

func TestPointClamp(t *testing.T) {
	tests := []struct {
		in   Point
		want Point
	}{
		{Point{5, 5}, Point{5, 5}},
		{Point{-1, 3}, Point{0, 3}},
		{Point{25, -4}, Point{19, 0}},
		{Point{20, 12}, Point{19, 11}},
	}

	for _, tt := range tests {
		if got := tt.in.Clamp(20, 12); got != tt.want {
			t.Errorf("%v.Clamp(20, 12) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBoxOverlaps(t *testing.T) {
	b := Box{X: 64, Y: 64, W: 64, H: 64}

	if !b.Overlaps(96, 96, 10, 10) {
		t.Error("centered rect inside box should overlap")
	}
	if !b.Overlaps(60, 96, 10, 10) {
		t.Error("rect touching left edge should overlap")
	}
	if b.Overlaps(20, 20, 10, 10) {
		t.Error("rect far away should not overlap")
	}
}
