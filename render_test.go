package main

import (
	"math"
	"strings"
	"testing"

	"wavemotion/sim"
)

func TestRampColorSeparatesSigns(t *testing.T) {
	tests := []struct {
		name    string
		v       float32
		redHued bool
	}{
		{"calm", 0, false},
		{"positive_swell", 0.5, false},
		{"negative_trough", -0.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, b := rampColor(tt.v)
			if got := r > b; got != tt.redHued {
				t.Errorf("rampColor(%v) = red %d blue %d, red-hued = %v, want %v", tt.v, r, b, got, tt.redHued)
			}
		})
	}

	if r, g, b := rampColor(100); r != 90 || g != 220 || b != 255 {
		t.Errorf("saturated positive = (%d, %d, %d), want (90, 220, 255)", r, g, b)
	}
	if r, g, b := rampColor(float32(-math.MaxFloat32)); r != 240 || g != 70 || b != 60 {
		t.Errorf("saturated negative = (%d, %d, %d), want (240, 70, 60)", r, g, b)
	}
}

func TestFillFieldPixelsIsOpaque(t *testing.T) {
	positions := []float32{0, 0.3, -0.3}
	dst := make([]byte, len(positions)*4)
	fillFieldPixels(dst, positions)
	for i, v := range positions {
		r, g, b := rampColor(v)
		px := dst[i*4 : i*4+4]
		if px[0] != r || px[1] != g || px[2] != b || px[3] != 255 {
			t.Errorf("pixel %d = %v, want (%d, %d, %d, 255)", i, px, r, g, b)
		}
	}
}

func TestHullPointsFollowPose(t *testing.T) {
	s := sim.NewShip(400, 300, sim.DefaultShipConfig())
	pts := hullPoints(s)

	if pts[0].X != 400 || pts[0].Y != 300-hullHalfLength {
		t.Errorf("nose at %+v, want straight up the screen", pts[0])
	}
	if pts[1].Y != 300+hullHalfLength || pts[2].Y != 300+hullHalfLength || pts[1].X >= pts[2].X {
		t.Errorf("stern corners at %+v and %+v", pts[1], pts[2])
	}

	s.SetCommand(sim.TurnRight)
	for s.Bearing() < math.Pi/2 {
		s.Update()
	}
	nose := hullPoints(s)[0].Sub(s.Position())
	if nose.X <= 0 {
		t.Errorf("nose offset %+v after turning right, want +X", nose)
	}
}

func TestBannerText(t *testing.T) {
	tests := []struct {
		outcome sim.Outcome
		want    string
	}{
		{sim.Undecided, ""},
		{sim.PlayerOneWins, "PLAYER ONE WINS"},
		{sim.PlayerTwoWins, "PLAYER TWO WINS"},
		{sim.Draw, "BOTH SHIPS CAPSIZED"},
	}

	for _, tt := range tests {
		t.Run(tt.outcome.String(), func(t *testing.T) {
			got := bannerText(tt.outcome)
			if tt.want == "" {
				if got != "" {
					t.Errorf("bannerText = %q, want empty", got)
				}
				return
			}
			if !strings.HasPrefix(got, tt.want) {
				t.Errorf("bannerText = %q, want prefix %q", got, tt.want)
			}
		})
	}
}
