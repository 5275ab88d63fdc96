package sim

import (
	"math"
	"testing"
)

func TestVec2Arithmetic(t *testing.T) {
	a := Vec2{X: 3, Y: 4}
	b := Vec2{X: -1, Y: 2}

	tests := []struct {
		name string
		got  Vec2
		want Vec2
	}{
		{"add", a.Add(b), Vec2{X: 2, Y: 6}},
		{"sub", a.Sub(b), Vec2{X: 4, Y: 2}},
		{"scale", a.Scale(-0.5), Vec2{X: -1.5, Y: -2}},
		{"clamp_inside", a.Clamp(Vec2{}, Vec2{X: 10, Y: 10}), a},
		{"clamp_both", Vec2{X: -3, Y: 40}.Clamp(Vec2{X: 1, Y: 1}, Vec2{X: 9, Y: 9}), Vec2{X: 1, Y: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %+v, want %+v", tt.got, tt.want)
			}
		})
	}

	if l := a.Length(); l != 5 {
		t.Errorf("Length() = %v, want 5", l)
	}
}

func TestFromAngle(t *testing.T) {
	v := FromAngle(math.Pi/2, 2)
	if math.Abs(v.X) > 1e-12 || math.Abs(v.Y-2) > 1e-12 {
		t.Errorf("FromAngle(pi/2, 2) = %+v, want (0, 2)", v)
	}
}
