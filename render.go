package main

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"wavemotion/sim"
)

var (
	bannerFace = text.NewGoXFace(basicfont.Face7x13)

	hullColors = [2]color.RGBA{
		{255, 120, 90, 255},
		{110, 190, 255, 255},
	}
	capsizedColor = color.RGBA{90, 90, 90, 255}
	shadowColor   = color.RGBA{0, 0, 0, 110}
)

// Draw renders the water, both ships and the round or debug overlays.
func (g *Game) Draw(screen *ebiten.Image) {
	fillFieldPixels(g.pixels, g.match.Field().Positions())
	g.fieldImage.WritePixels(g.pixels)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(cellSize, cellSize)
	screen.DrawImage(g.fieldImage, op)

	for _, p := range []sim.Player{sim.PlayerOne, sim.PlayerTwo} {
		drawShip(screen, g.match.Ship(p), hullColors[p])
	}

	if g.match.Over() {
		drawBanner(screen, bannerText(g.match.Outcome()))
	}

	if *debugFlag {
		lo, hi := g.match.Field().Extent()
		one, two := g.match.Ship(sim.PlayerOne), g.match.Ship(sim.PlayerTwo)
		debugMsg := fmt.Sprintf("FPS: %.1f  TPS: %.1f\nStep: %.2f ms (%s, %d workers, +/-)\nFrame: %d  Water: [%.3f, %.3f]\nP1: %v hostile %.3f\nP2: %v hostile %.3f",
			ebiten.ActualFPS(), ebiten.ActualTPS(),
			g.lastStepDuration.Seconds()*1000, g.match.Field().AcceleratorName(), g.workers,
			g.match.Frame(), lo, hi,
			one.Phase(), g.match.HostileStrength(sim.PlayerOne),
			two.Phase(), g.match.HostileStrength(sim.PlayerTwo))
		ebitenutil.DebugPrint(screen, debugMsg)
	}
}

// rampColor maps a cell position to a colour: calm water is deep blue-grey,
// positive swells brighten toward cyan and negative troughs toward red.
func rampColor(v float32) (r, g, b uint8) {
	t := math.Min(math.Abs(float64(v))/rampFullScale, 1)
	const baseR, baseG, baseB = 12, 28, 52
	if v >= 0 {
		return uint8(baseR + t*(90-baseR)), uint8(baseG + t*(220-baseG)), uint8(baseB + t*(255-baseB))
	}
	return uint8(baseR + t*(240-baseR)), uint8(baseG + t*(70-baseG)), uint8(baseB + t*(60-baseB))
}

// fillFieldPixels writes one RGBA pixel per cell into dst.
func fillFieldPixels(dst []byte, positions []float32) {
	for i, v := range positions {
		base := i * 4
		dst[base], dst[base+1], dst[base+2] = rampColor(v)
		dst[base+3] = 255
	}
}

// hullPoints returns the nose and two stern corners of a ship's hull in
// screen pixels.
func hullPoints(s *sim.Ship) [3]sim.Vec2 {
	local := [3]sim.Vec2{
		{X: 0, Y: -hullHalfLength},
		{X: -hullHalfWidth, Y: hullHalfLength},
		{X: hullHalfWidth, Y: hullHalfLength},
	}
	sin, cos := math.Sincos(s.Bearing())
	scale := s.Scale()
	pos := s.Position()
	var out [3]sim.Vec2
	for i, p := range local {
		out[i] = sim.Vec2{
			X: pos.X + scale*(p.X*cos-p.Y*sin),
			Y: pos.Y + scale*(p.X*sin+p.Y*cos),
		}
	}
	return out
}

func drawShip(screen *ebiten.Image, s *sim.Ship, clr color.RGBA) {
	pos := s.Position()
	if s.Phase() == sim.Jumping {
		vector.DrawFilledCircle(screen, float32(pos.X), float32(pos.Y+4*(s.Scale()-1)*shadowRadius), shadowRadius, shadowColor, true)
	}
	if s.Flipped() {
		clr = capsizedColor
	}
	pts := hullPoints(s)
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 2, clr, true)
	}
	if s.Flipped() {
		// Keel across the upturned hull.
		mid := pts[1].Add(pts[2]).Scale(0.5)
		vector.StrokeLine(screen, float32(pts[0].X), float32(pts[0].Y), float32(mid.X), float32(mid.Y), 2, clr, true)
	}
}

func bannerText(o sim.Outcome) string {
	var headline string
	switch o {
	case sim.PlayerOneWins:
		headline = "PLAYER ONE WINS"
	case sim.PlayerTwoWins:
		headline = "PLAYER TWO WINS"
	case sim.Draw:
		headline = "BOTH SHIPS CAPSIZED"
	default:
		return ""
	}
	return headline + "\npress R to play again"
}

func drawBanner(screen *ebiten.Image, msg string) {
	if msg == "" {
		return
	}
	const scale, lineSpacing = 2, 16
	lines := strings.Split(msg, "\n")
	y := float64(screenH)/2 - float64(len(lines)*lineSpacing*scale)/2
	for _, line := range lines {
		w, _ := text.Measure(line, bannerFace, lineSpacing)
		op := &text.DrawOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate((screenW-w*scale)/2, y)
		op.ColorScale.ScaleWithColor(color.White)
		text.Draw(screen, line, bannerFace, op)
		y += lineSpacing * scale
	}
}
