package main

import (
	"math/rand"

	"wavemotion/sim"
)

// disturbance is one patch of water set at the start of a round.
type disturbance struct {
	x, y      int
	magnitude float32
}

// mirroredDisturbances scatters pairs of patches across the field. Each
// patch on player one's half is mirrored onto player two's half with the
// opposite sign, so both ships start facing the same hostile water. Patches
// keep seedMargin cells from the edges and seedExclusionCells from the
// spawn cells.
func mirroredDisturbances(rng *rand.Rand, pairs int, spawn [2][2]int) []disturbance {
	if pairs <= 0 {
		return nil
	}
	out := make([]disturbance, 0, 2*pairs)
	half := fieldW / 2
	for attempts := 0; len(out) < 2*pairs && attempts < pairs*50; attempts++ {
		x := seedMargin + rng.Intn(half-seedMargin)
		y := seedMargin + rng.Intn(fieldH-2*seedMargin)
		if nearCell(x, y, spawn[sim.PlayerOne]) || nearCell(fieldW-1-x, y, spawn[sim.PlayerTwo]) {
			continue
		}
		mag := float32(seedDisturbanceMagnitude * (0.5 + 0.5*rng.Float64()))
		if rng.Intn(2) == 0 {
			mag = -mag
		}
		out = append(out,
			disturbance{x: x, y: y, magnitude: mag},
			disturbance{x: fieldW - 1 - x, y: y, magnitude: -mag},
		)
	}
	return out
}

func nearCell(x, y int, c [2]int) bool {
	dx, dy := x-c[0], y-c[1]
	return dx*dx+dy*dy < seedExclusionCells*seedExclusionCells
}

// seedWater breaks the still surface at the start of a round: one random
// cell is nudged and the mirrored patches are written in.
func (g *Game) seedWater() {
	field := g.match.Field()
	field.Sprinkle(g.levelRand, sprinkleMagnitude)

	var spawn [2][2]int
	for p := range spawn {
		spawn[p][0], spawn[p][1] = g.match.Cell(sim.Player(p))
	}
	for _, d := range mirroredDisturbances(g.levelRand, *seedDisturbancesFlag, spawn) {
		field.Inject(d.x, d.y, seedDisturbanceRadius, d.magnitude, sim.Overwrite)
	}
}
