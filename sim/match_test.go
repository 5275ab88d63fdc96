package sim

import (
	"errors"
	"math"
	"testing"
)

func newTestMatch(t *testing.T) *Match {
	t.Helper()
	m, err := NewMatch(DefaultMatchConfig())
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	return m
}

func TestNewMatchRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*MatchConfig)
	}{
		{"zero_cell_size", func(c *MatchConfig) { c.CellSize = 0 }},
		{"same_polarity", func(c *MatchConfig) { c.Polarity = [2]float32{1, 1} }},
		{"zero_polarity", func(c *MatchConfig) { c.Polarity = [2]float32{0, 1} }},
		{"zero_threshold", func(c *MatchConfig) { c.FlipThreshold = 0 }},
		{"negative_splash", func(c *MatchConfig) { c.SplashRadius = -1 }},
		{"empty_field", func(c *MatchConfig) { c.Field.Width = 0 }},
		{"ship_drag", func(c *MatchConfig) { c.Ship.Drag = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultMatchConfig()
			tt.modify(&cfg)
			if _, err := NewMatch(cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("NewMatch error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestShipCellUsesIntegerDivision(t *testing.T) {
	cfg := DefaultMatchConfig()
	cfg.Starts[PlayerOne] = Vec2{X: 203.9, Y: 307.9}
	m, err := NewMatch(cfg)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	if x, y := m.Cell(PlayerOne); x != 50 || y != 76 {
		t.Errorf("Cell = (%d, %d), want (50, 76)", x, y)
	}
}

func TestWakeCarriesPlayerPolarity(t *testing.T) {
	m := newTestMatch(t)
	m.Step()

	x1, y1 := m.Cell(PlayerOne)
	x2, y2 := m.Cell(PlayerTwo)
	if v := m.Field().Sample(x1, y1); v >= 0 {
		t.Errorf("player one wake = %v, want negative", v)
	}
	if v := m.Field().Sample(x2, y2); v <= 0 {
		t.Errorf("player two wake = %v, want positive", v)
	}
	if m.Over() {
		t.Error("wakes alone should not decide the round")
	}
}

func TestWakeSkipsJumpingShip(t *testing.T) {
	m := newTestMatch(t)
	m.Ship(PlayerOne).TriggerJump()

	m.Step()

	x, y := m.Cell(PlayerOne)
	if v := m.Field().Sample(x, y); math.Abs(float64(v)) > 1e-5 {
		t.Errorf("water under jumping ship = %v, want rest", v)
	}
}

func TestWakeAccumulatesEveryFrame(t *testing.T) {
	m := newTestMatch(t)
	const frames = 10

	for i := 0; i < frames; i++ {
		m.Step()
	}

	wake := float64(m.Config().WakeMagnitude)
	x1, y1 := m.Cell(PlayerOne)
	if v := float64(m.Field().Sample(x1, y1)); v > -5*wake {
		t.Errorf("player one wake after %d frames = %v, want below %v", frames, v, -5*wake)
	}
	x2, y2 := m.Cell(PlayerTwo)
	if v := float64(m.Field().Sample(x2, y2)); v < 5*wake {
		t.Errorf("player two wake after %d frames = %v, want above %v", frames, v, 5*wake)
	}
}

func TestWakeMinSpeedCutoff(t *testing.T) {
	cfg := DefaultMatchConfig()
	cfg.WakeMinSpeed = 0.5
	m, err := NewMatch(cfg)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	m.Ship(PlayerOne).SetCommand(Forward)

	m.Step()

	x1, y1 := m.Cell(PlayerOne)
	if v := m.Field().Sample(x1, y1); v >= 0 {
		t.Errorf("moving ship wake = %v, want negative", v)
	}
	x2, y2 := m.Cell(PlayerTwo)
	if v := m.Field().Sample(x2, y2); math.Abs(float64(v)) > 1e-5 {
		t.Errorf("resting ship below the cutoff left %v, want rest", v)
	}
}

func TestLandingSplashCarriesPolarity(t *testing.T) {
	m := newTestMatch(t)
	m.Ship(PlayerOne).TriggerJump()

	for i := 0; i <= jumpLastFrame; i++ {
		m.Step()
	}

	s := m.Ship(PlayerOne)
	if !s.Landed() {
		t.Fatalf("player one should land on frame %d", m.Frame())
	}
	x, y := m.Cell(PlayerOne)
	if v := m.Field().Sample(x, y); v > -0.9 {
		t.Errorf("splash centre = %v, want strongly negative", v)
	}
	if s.Flipped() {
		t.Error("a ship must not be capsized by its own splash")
	}
}

func TestCapsizeSignConvention(t *testing.T) {
	tests := []struct {
		name     string
		underOne float32
		underTwo float32
		want     Outcome
		oneFlips bool
		twoFlips bool
	}{
		{"positive_under_one", 1, 0, PlayerTwoWins, true, false},
		{"negative_under_one", -1, 0, Undecided, false, false},
		{"negative_under_two", 0, -1, PlayerOneWins, false, true},
		{"positive_under_two", 0, 1, Undecided, false, false},
		{"both_hostile", 1, -1, Draw, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMatch(t)
			if tt.underOne != 0 {
				x, y := m.Cell(PlayerOne)
				m.Field().Inject(x, y, 3, tt.underOne, Overwrite)
			}
			if tt.underTwo != 0 {
				x, y := m.Cell(PlayerTwo)
				m.Field().Inject(x, y, 3, tt.underTwo, Overwrite)
			}

			m.Step()

			if got := m.Ship(PlayerOne).Flipped(); got != tt.oneFlips {
				t.Errorf("player one flipped = %v, want %v", got, tt.oneFlips)
			}
			if got := m.Ship(PlayerTwo).Flipped(); got != tt.twoFlips {
				t.Errorf("player two flipped = %v, want %v", got, tt.twoFlips)
			}
			if got := m.Outcome(); got != tt.want {
				t.Errorf("Outcome() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHostileStrengthFollowsPolarity(t *testing.T) {
	m := newTestMatch(t)
	x, y := m.Cell(PlayerOne)
	m.Field().Inject(x, y, 0, 0.5, Overwrite)
	m.Field().Inject(x+1, y, 0, -0.25, Overwrite)

	if got := m.HostileStrength(PlayerOne); got != 0.5 {
		t.Errorf("player one hostile strength = %v, want 0.5", got)
	}

	x, y = m.Cell(PlayerTwo)
	m.Field().Inject(x, y, 0, -0.75, Overwrite)
	if got := m.HostileStrength(PlayerTwo); got != 0.75 {
		t.Errorf("player two hostile strength = %v, want 0.75", got)
	}
}

func TestJumpingShipCannotCapsize(t *testing.T) {
	m := newTestMatch(t)
	m.Ship(PlayerOne).TriggerJump()
	x, y := m.Cell(PlayerOne)
	m.Field().Inject(x, y, 3, 1, Overwrite)

	m.Step()

	if m.Ship(PlayerOne).Flipped() {
		t.Fatal("airborne ship was capsized")
	}
	if m.Over() {
		t.Errorf("Outcome() = %v, want undecided", m.Outcome())
	}
}

func TestCooldownShipCanCapsize(t *testing.T) {
	m := newTestMatch(t)
	s := m.Ship(PlayerOne)
	s.TriggerJump()
	for i := 0; i <= jumpLastFrame; i++ {
		m.Step()
	}
	if !s.Landed() || s.Flipped() {
		t.Fatalf("landing frame: landed=%v flipped=%v, want landed upright", s.Landed(), s.Flipped())
	}

	m.Step()
	if s.Phase() != Cooldown || s.Flipped() {
		t.Fatalf("after landing phase=%v flipped=%v, want upright in cooldown", s.Phase(), s.Flipped())
	}

	x, y := m.Cell(PlayerOne)
	m.Field().Inject(x, y, 3, 1, Overwrite)
	m.Step()

	if s.Phase() != Cooldown {
		t.Fatalf("phase = %v, want still cooling down", s.Phase())
	}
	if !s.Flipped() {
		t.Error("ship in cooldown should capsize in hostile water")
	}
	if got := m.Outcome(); got != PlayerTwoWins {
		t.Errorf("Outcome() = %v, want %v", got, PlayerTwoWins)
	}
}

func TestCapsizeIsSticky(t *testing.T) {
	m := newTestMatch(t)
	x, y := m.Cell(PlayerOne)
	m.Field().Inject(x, y, 3, 1, Overwrite)
	m.Step()
	if !m.Ship(PlayerOne).Flipped() {
		t.Fatal("setup: player one should have capsized")
	}

	m.Ship(PlayerOne).SetCommand(Forward)
	for i := 0; i < 100; i++ {
		m.Step()
	}

	if !m.Ship(PlayerOne).Flipped() {
		t.Error("capsized ship recovered")
	}
	if m.Ship(PlayerOne).Pressed(Forward) {
		t.Error("capsized ship accepted a command")
	}
	if got := m.Outcome(); got != PlayerTwoWins {
		t.Errorf("Outcome() = %v, want %v", got, PlayerTwoWins)
	}
}

func TestSettleOnlyMovesWater(t *testing.T) {
	m := newTestMatch(t)
	m.Ship(PlayerTwo).SetCommand(Forward)
	x, y := m.Cell(PlayerOne)
	m.Field().Inject(x, y, 2, 0.5, Overwrite)
	before := m.Field().Sample(x, y)
	frame := m.Frame()
	pos := m.Ship(PlayerTwo).Position()

	m.Settle()

	if m.Frame() != frame || m.Ship(PlayerTwo).Position() != pos {
		t.Error("Settle should not advance the ships")
	}
	if m.Field().Sample(x, y) == before {
		t.Error("Settle should advance the water")
	}
}

func TestResetStartsNewRound(t *testing.T) {
	m := newTestMatch(t)
	x, y := m.Cell(PlayerOne)
	m.Field().Inject(x, y, 3, 1, Overwrite)
	m.Ship(PlayerTwo).SetCommand(Forward)
	for i := 0; i < 10; i++ {
		m.Step()
	}
	if !m.Over() {
		t.Fatal("setup: round should be decided")
	}

	m.Reset()

	if m.Over() || m.Frame() != 0 {
		t.Fatalf("after Reset outcome=%v frame=%d", m.Outcome(), m.Frame())
	}
	cfg := m.Config()
	for p := PlayerOne; p <= PlayerTwo; p++ {
		s := m.Ship(p)
		if s.Position() != cfg.Starts[p] || s.Phase() != Grounded || s.Flipped() {
			t.Errorf("%v not respawned: pos=%+v phase=%v flipped=%v", p, s.Position(), s.Phase(), s.Flipped())
		}
	}
	if lo, hi := m.Field().Extent(); lo != cfg.Field.Rest || hi != cfg.Field.Rest {
		t.Errorf("field extent after Reset = [%v, %v], want rest", lo, hi)
	}
}
