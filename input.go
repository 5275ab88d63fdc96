package main

import (
	"github.com/hajimehoshi/ebiten/v2"

	"wavemotion/sim"
)

// keyBinding maps one held key to a steering intent.
type keyBinding struct {
	key    ebiten.Key
	intent sim.Intent
}

// controls is one player's keyboard layout.
type controls struct {
	player sim.Player
	steer  []keyBinding
	jump   ebiten.Key
}

// playerControls puts player one on WASD + Space and player two on the
// arrow keys + right Shift.
var playerControls = [...]controls{
	{
		player: sim.PlayerOne,
		steer: []keyBinding{
			{ebiten.KeyW, sim.Forward},
			{ebiten.KeyA, sim.TurnLeft},
			{ebiten.KeyD, sim.TurnRight},
		},
		jump: ebiten.KeySpace,
	},
	{
		player: sim.PlayerTwo,
		steer: []keyBinding{
			{ebiten.KeyArrowUp, sim.Forward},
			{ebiten.KeyArrowLeft, sim.TurnLeft},
			{ebiten.KeyArrowRight, sim.TurnRight},
		},
		jump: ebiten.KeyShiftRight,
	},
}

// apply translates this frame's key edges into ship commands. pressed and
// released report edges, normally inpututil.IsKeyJustPressed and
// inpututil.IsKeyJustReleased.
func (c controls) apply(s *sim.Ship, pressed, released func(ebiten.Key) bool) {
	for _, b := range c.steer {
		if pressed(b.key) {
			s.SetCommand(b.intent)
		}
		if released(b.key) {
			s.ClearCommand(b.intent)
		}
	}
	if pressed(c.jump) {
		s.TriggerJump()
	}
}

// sync sets the ship's intents from the current key state.
func (c controls) sync(s *sim.Ship, held func(ebiten.Key) bool) {
	for _, b := range c.steer {
		if held(b.key) {
			s.SetCommand(b.intent)
		} else {
			s.ClearCommand(b.intent)
		}
	}
}
