package sim

import (
	"fmt"
	"math"
)

// Intent is a directional command a player can hold.
type Intent uint8

const (
	Forward Intent = iota
	TurnLeft
	TurnRight
)

func (i Intent) String() string {
	switch i {
	case Forward:
		return "forward"
	case TurnLeft:
		return "turn-left"
	case TurnRight:
		return "turn-right"
	default:
		return fmt.Sprintf("Intent(%d)", uint8(i))
	}
}

// IntentSet is the set of intents currently held by one player.
type IntentSet uint8

func (s IntentSet) Has(i Intent) bool { return s&(1<<i) != 0 }

func (s *IntentSet) Set(i Intent) { *s |= 1 << i }

func (s *IntentSet) Clear(i Intent) { *s &^= 1 << i }

func (s IntentSet) Empty() bool { return s == 0 }

// JumpPhase is the state of a ship's jump cycle.
type JumpPhase uint8

const (
	Grounded JumpPhase = iota
	Jumping
	Cooldown
)

func (p JumpPhase) String() string {
	switch p {
	case Grounded:
		return "grounded"
	case Jumping:
		return "jumping"
	case Cooldown:
		return "cooldown"
	default:
		return fmt.Sprintf("JumpPhase(%d)", uint8(p))
	}
}

// jumpScale is the apparent sprite scale over a jump, one keyframe per
// jumpFramesPerKey frames: a rise then a fall back to the water.
var jumpScale = [...]float64{1.0, 1.12, 1.24, 1.34, 1.42, 1.46, 1.42, 1.34, 1.24, 1.12, 1.0}

const (
	jumpFramesPerKey = 6
	// jumpLastFrame is the landing frame; a jump lasts frames 0..jumpLastFrame.
	jumpLastFrame = (len(jumpScale) - 1) * jumpFramesPerKey
)

// ShipConfig holds the kinematic constants shared by both ships.
type ShipConfig struct {
	// Bounds is the playfield extent in pixels.
	Bounds Vec2

	// ColliderRadius keeps the sprite's half-diagonal inside Bounds.
	ColliderRadius float64

	// Drag multiplies linear and angular velocity every frame.
	Drag float64

	// SpeedScale converts velocity to pixels per frame.
	SpeedScale float64

	// Torque is the angular acceleration applied per held turn intent.
	Torque float64

	// CooldownFrames is how long a ship must wait after landing.
	CooldownFrames int
}

// DefaultShipConfig returns the tuning the game ships with.
func DefaultShipConfig() ShipConfig {
	return ShipConfig{
		Bounds:         Vec2{X: 800, Y: 600},
		ColliderRadius: 16 * math.Sqrt2,
		Drag:           0.97,
		SpeedScale:     0.15,
		Torque:         0.005,
		CooldownFrames: 30,
	}
}

// Validate reports the first misconfigured value.
func (c ShipConfig) Validate() error {
	switch {
	case c.Bounds.X <= 2*c.ColliderRadius || c.Bounds.Y <= 2*c.ColliderRadius:
		return fmt.Errorf("%w: bounds %vx%v too small for collider radius %v",
			ErrInvalidConfig, c.Bounds.X, c.Bounds.Y, c.ColliderRadius)
	case c.Drag <= 0 || c.Drag >= 1:
		return fmt.Errorf("%w: drag %v outside (0, 1)", ErrInvalidConfig, c.Drag)
	case c.CooldownFrames < 0:
		return fmt.Errorf("%w: cooldown %d", ErrInvalidConfig, c.CooldownFrames)
	}
	return nil
}

// Ship is one player's hull: pose, velocities, held intents and the jump
// state machine. Only its owner's commands and Update mutate it.
type Ship struct {
	cfg ShipConfig

	position        Vec2
	velocity        Vec2
	bearing         float64
	angularVelocity float64
	scale           float64

	phase     JumpPhase
	jumpFrame int
	cooldown  int
	landed    bool

	pressed IntentSet
	flipped bool
}

// NewShip places a grounded ship at (x, y) facing up the screen.
func NewShip(x, y float64, cfg ShipConfig) *Ship {
	s := &Ship{cfg: cfg, scale: 1}
	s.position = s.clampPosition(Vec2{X: x, Y: y})
	return s
}

// SetCommand starts holding intent i.
func (s *Ship) SetCommand(i Intent) {
	if s.flipped {
		return
	}
	s.pressed.Set(i)
}

// ClearCommand stops holding intent i.
func (s *Ship) ClearCommand(i Intent) { s.pressed.Clear(i) }

// TriggerJump starts a jump if the ship is grounded with no cooldown left.
// Otherwise it does nothing.
func (s *Ship) TriggerJump() {
	if s.flipped || s.phase != Grounded || s.cooldown != 0 {
		return
	}
	s.phase = Jumping
	s.jumpFrame = 0
}

// Update advances the ship by one frame.
func (s *Ship) Update() {
	s.landed = false
	if s.flipped {
		s.velocity = s.velocity.Scale(s.cfg.Drag)
		s.angularVelocity *= s.cfg.Drag
		return
	}

	var accel Vec2
	if s.pressed.Has(Forward) {
		accel = FromAngle(s.bearing-math.Pi/2, 1)
	}
	var torque float64
	if s.pressed.Has(TurnLeft) {
		torque -= s.cfg.Torque
	}
	if s.pressed.Has(TurnRight) {
		torque += s.cfg.Torque
	}

	s.velocity = s.velocity.Add(accel).Scale(s.cfg.Drag)
	s.position = s.clampPosition(s.position.Add(s.velocity.Scale(s.cfg.SpeedScale)))

	s.angularVelocity += torque
	s.bearing += s.angularVelocity
	s.angularVelocity *= s.cfg.Drag

	s.advanceJump()
}

// advanceJump steps the Grounded -> Jumping -> Cooldown -> Grounded cycle.
func (s *Ship) advanceJump() {
	switch s.phase {
	case Jumping:
		if s.jumpFrame >= jumpLastFrame {
			s.scale = 1.0
			s.phase = Cooldown
			s.jumpFrame = 0
			s.cooldown = s.cfg.CooldownFrames
			s.landed = true
			if s.cooldown == 0 {
				s.phase = Grounded
			}
			return
		}
		s.scale = jumpScale[s.jumpFrame/jumpFramesPerKey]
		s.jumpFrame++
	case Cooldown:
		if s.cooldown > 0 {
			s.cooldown--
		}
		if s.cooldown == 0 {
			s.phase = Grounded
		}
	}
}

func (s *Ship) clampPosition(p Vec2) Vec2 {
	r := s.cfg.ColliderRadius
	return p.Clamp(Vec2{X: r, Y: r}, Vec2{X: s.cfg.Bounds.X - r, Y: s.cfg.Bounds.Y - r})
}

// Capsize marks the ship as flipped. The flag is never cleared.
func (s *Ship) Capsize() {
	s.flipped = true
	s.pressed = 0
}

// Vulnerable reports whether the field can capsize the ship this frame.
// A ship in the air cannot be flipped.
func (s *Ship) Vulnerable() bool { return !s.flipped && s.phase != Jumping }

func (s *Ship) Position() Vec2           { return s.position }
func (s *Ship) Velocity() Vec2           { return s.velocity }
func (s *Ship) Bearing() float64         { return s.bearing }
func (s *Ship) AngularVelocity() float64 { return s.angularVelocity }
func (s *Ship) Scale() float64           { return s.scale }
func (s *Ship) Phase() JumpPhase         { return s.phase }
func (s *Ship) Pressed(i Intent) bool    { return s.pressed.Has(i) }
func (s *Ship) Flipped() bool            { return s.flipped }

// JumpFrame returns the index of the next jump frame while Jumping.
func (s *Ship) JumpFrame() int { return s.jumpFrame }

// Cooldown returns the frames left before another jump is allowed.
func (s *Ship) Cooldown() int { return s.cooldown }

// Landed reports whether the last Update was the landing frame of a jump.
func (s *Ship) Landed() bool { return s.landed }
