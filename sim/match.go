package sim

import "fmt"

// Player identifies one of the two ships.
type Player int

const (
	PlayerOne Player = iota
	PlayerTwo
)

func (p Player) String() string {
	switch p {
	case PlayerOne:
		return "player one"
	case PlayerTwo:
		return "player two"
	default:
		return fmt.Sprintf("Player(%d)", int(p))
	}
}

// Opponent returns the other player.
func (p Player) Opponent() Player { return 1 - p }

// Outcome is the state of the round.
type Outcome uint8

const (
	Undecided Outcome = iota
	PlayerOneWins
	PlayerTwoWins
	Draw
)

func (o Outcome) String() string {
	switch o {
	case Undecided:
		return "undecided"
	case PlayerOneWins:
		return "player one wins"
	case PlayerTwoWins:
		return "player two wins"
	case Draw:
		return "draw"
	default:
		return fmt.Sprintf("Outcome(%d)", uint8(o))
	}
}

// MatchConfig ties the field and ship tuning to the coupling constants.
type MatchConfig struct {
	Field FieldConfig
	Ship  ShipConfig

	// CellSize is the edge of one field cell in playfield pixels.
	CellSize int

	// Starts are the spawn positions of PlayerOne and PlayerTwo.
	Starts [2]Vec2

	// Polarity is the sign of each player's disturbances. A ship is
	// capsized only by water of the opposite sign.
	Polarity [2]float32

	SplashRadius    int
	SplashMagnitude float32

	WakeRadius    int
	WakeMagnitude float32
	// WakeMinSpeed is the speed below which a grounded ship leaves no wake.
	WakeMinSpeed float64

	// SampleRadius is the half-width of the square judged under each ship.
	SampleRadius int
	// FlipThreshold is the hostile strength that capsizes a ship.
	FlipThreshold float32
}

// DefaultMatchConfig returns the tuning the game ships with.
func DefaultMatchConfig() MatchConfig {
	field := DefaultFieldConfig()
	ship := DefaultShipConfig()
	const cellSize = 4
	ship.Bounds = Vec2{X: float64(field.Width * cellSize), Y: float64(field.Height * cellSize)}
	return MatchConfig{
		Field:    field,
		Ship:     ship,
		CellSize: cellSize,
		Starts: [2]Vec2{
			{X: ship.Bounds.X / 4, Y: ship.Bounds.Y / 2},
			{X: ship.Bounds.X * 3 / 4, Y: ship.Bounds.Y / 2},
		},
		Polarity:        [2]float32{-1, 1},
		SplashRadius:    10,
		SplashMagnitude: 1.0,
		WakeRadius:      1,
		WakeMagnitude:   0.01,
		WakeMinSpeed:    0,
		SampleRadius:    2,
		FlipThreshold:   0.35,
	}
}

// Validate reports the first misconfigured value.
func (c MatchConfig) Validate() error {
	if err := c.Field.Validate(); err != nil {
		return err
	}
	if err := c.Ship.Validate(); err != nil {
		return err
	}
	switch {
	case c.CellSize <= 0:
		return fmt.Errorf("%w: cell size %d", ErrInvalidConfig, c.CellSize)
	case c.Polarity[0] == 0 || c.Polarity[1] == 0 || (c.Polarity[0] > 0) == (c.Polarity[1] > 0):
		return fmt.Errorf("%w: polarities %v must be non-zero with opposite signs", ErrInvalidConfig, c.Polarity)
	case c.FlipThreshold <= 0:
		return fmt.Errorf("%w: flip threshold %v", ErrInvalidConfig, c.FlipThreshold)
	case c.SplashRadius < 0 || c.WakeRadius < 0 || c.SampleRadius < 0:
		return fmt.Errorf("%w: negative radius", ErrInvalidConfig)
	}
	return nil
}

// Match runs one round: it owns the field and both ships and mediates
// every read and write between them.
type Match struct {
	cfg   MatchConfig
	field *Field
	ships [2]*Ship
	cells [2][2]int
	frame int
}

// NewMatch builds a round with both ships at their starts on still water.
func NewMatch(cfg MatchConfig) (*Match, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	field, err := NewField(cfg.Field)
	if err != nil {
		return nil, err
	}
	m := &Match{cfg: cfg, field: field}
	m.spawnShips()
	return m, nil
}

func (m *Match) spawnShips() {
	for p := range m.ships {
		start := m.cfg.Starts[p]
		m.ships[p] = NewShip(start.X, start.Y, m.cfg.Ship)
		m.cells[p] = m.cellOf(m.ships[p].Position())
	}
}

// Reset starts a new round on the same field, which returns to rest.
func (m *Match) Reset() {
	m.field.Reset()
	m.frame = 0
	m.spawnShips()
}

// cellOf converts a playfield position to field coordinates.
func (m *Match) cellOf(p Vec2) [2]int {
	return [2]int{int(p.X) / m.cfg.CellSize, int(p.Y) / m.cfg.CellSize}
}

// Step runs one frame: locate ships, move them, disturb the water, advance
// the water, then judge each ship against it.
func (m *Match) Step() {
	m.frame++
	for p, s := range m.ships {
		m.cells[p] = m.cellOf(s.Position())
	}
	for _, s := range m.ships {
		s.Update()
	}
	for p, s := range m.ships {
		m.disturb(Player(p), s)
	}
	m.field.Step()
	for p, s := range m.ships {
		m.judge(Player(p), s)
	}
}

// disturb injects the splash or wake a ship produced this frame.
func (m *Match) disturb(p Player, s *Ship) {
	if s.Flipped() {
		return
	}
	cx, cy := m.cells[p][0], m.cells[p][1]
	sign := m.cfg.Polarity[p]
	switch {
	case s.Landed():
		m.field.Inject(cx, cy, m.cfg.SplashRadius, sign*m.cfg.SplashMagnitude, Overwrite)
	case s.Phase() != Jumping && s.Velocity().Length() >= m.cfg.WakeMinSpeed:
		m.field.Inject(cx, cy, m.cfg.WakeRadius, sign*m.cfg.WakeMagnitude, Additive)
	}
}

// judge capsizes a vulnerable ship standing in hostile water.
func (m *Match) judge(p Player, s *Ship) {
	if !s.Vulnerable() {
		return
	}
	if m.HostileStrength(p) >= m.cfg.FlipThreshold {
		s.Capsize()
	}
}

// HostileStrength returns how strongly the water under p's ship carries
// the opponent's polarity. A negative-polarity ship is threatened by the
// largest position in its sample square, a positive-polarity ship by the
// most negative one.
func (m *Match) HostileStrength(p Player) float32 {
	hi, lo := m.field.SampleArea(m.cells[p][0], m.cells[p][1], m.cfg.SampleRadius)
	if m.cfg.Polarity[p] < 0 {
		return hi
	}
	return -lo
}

// Settle advances only the water. Used once the round is decided so the
// field keeps moving behind the result.
func (m *Match) Settle() { m.field.Step() }

// Outcome reports who, if anyone, has won the round.
func (m *Match) Outcome() Outcome {
	one, two := m.ships[PlayerOne].Flipped(), m.ships[PlayerTwo].Flipped()
	switch {
	case one && two:
		return Draw
	case two:
		return PlayerOneWins
	case one:
		return PlayerTwoWins
	default:
		return Undecided
	}
}

// Over reports whether either ship has capsized.
func (m *Match) Over() bool { return m.Outcome() != Undecided }

// Ship returns player p's ship.
func (m *Match) Ship(p Player) *Ship { return m.ships[p] }

// Cell returns the field cell p's ship was judged at in the last frame.
func (m *Match) Cell(p Player) (x, y int) { return m.cells[p][0], m.cells[p][1] }

// Field returns the water.
func (m *Match) Field() *Field { return m.field }

// Frame returns the number of frames stepped this round.
func (m *Match) Frame() int { return m.frame }

// Config returns the configuration the match was built with.
func (m *Match) Config() MatchConfig { return m.cfg }
