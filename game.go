package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"wavemotion/sim"
)

// Game drives one sim.Match per ebiten tick and owns everything the match
// does not: input, rendering buffers, audio and the round counter.
type Game struct {
	match *sim.Match

	levelRand *rand.Rand
	round     int
	announced bool
	workers   int

	lastStepDuration time.Duration
	fallbackLogged   bool

	fieldImage *ebiten.Image
	pixels     []byte

	audio *audioOutput
}

// matchConfig returns the core tuning sized to the window constants.
func matchConfig() sim.MatchConfig {
	cfg := sim.DefaultMatchConfig()
	cfg.Field.Width, cfg.Field.Height = fieldW, fieldH
	cfg.CellSize = cellSize
	cfg.Ship.Bounds = sim.Vec2{X: screenW, Y: screenH}
	cfg.Starts = [2]sim.Vec2{
		{X: screenW / 4, Y: screenH / 2},
		{X: screenW * 3 / 4, Y: screenH / 2},
	}
	return cfg
}

// newGame constructs a ready-to-run Game from the command-line flags.
func newGame() (*Game, error) {
	m, err := sim.NewMatch(matchConfig())
	if err != nil {
		return nil, fmt.Errorf("creating match: %w", err)
	}

	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Game{
		match:      m,
		levelRand:  rand.New(rand.NewSource(seed)),
		round:      1,
		fieldImage: ebiten.NewImage(fieldW, fieldH),
		pixels:     make([]byte, fieldW*fieldH*4),
	}
	g.setWorkers(*workersFlag)

	if *openCLFlag {
		if acc, err := sim.NewOpenCLAccelerator(m.Field().Config()); err != nil {
			log.Printf("OpenCL unavailable, stepping water on the CPU: %v", err)
		} else {
			log.Printf("OpenCL accelerator enabled (%s)", acc.Name())
			m.Field().SetAccelerator(acc)
		}
	}

	g.seedWater()
	g.audio = newAudioOutput(*musicFlag, *swellAudioFlag)
	log.Printf("Round %d (seed %d)", g.round, seed)
	return g, nil
}

// Update applies input then advances the match by one frame. Once the round
// is decided only the water keeps moving until a restart.
func (g *Game) Update() error {
	g.handleDebugControls()

	if g.match.Over() {
		g.announceResult()
		if inpututil.IsKeyJustPressed(ebiten.KeyR) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			g.restart()
			return nil
		}
		g.match.Settle()
	} else {
		for _, c := range playerControls {
			c.apply(g.match.Ship(c.player), inpututil.IsKeyJustPressed, inpututil.IsKeyJustReleased)
		}
		start := time.Now()
		g.match.Step()
		g.lastStepDuration = time.Since(start)
	}

	g.logAcceleratorFallback()
	g.audio.update(g.match)
	return nil
}

func (g *Game) announceResult() {
	if g.announced {
		return
	}
	g.announced = true
	log.Printf("Round %d over after %d frames: %v", g.round, g.match.Frame(), g.match.Outcome())
}

// restart resets the match and re-syncs held keys, whose press edges were
// swallowed while the round was over.
func (g *Game) restart() {
	g.match.Reset()
	g.round++
	g.announced = false
	g.seedWater()
	for _, c := range playerControls {
		c.sync(g.match.Ship(c.player), ebiten.IsKeyPressed)
	}
	log.Printf("Round %d", g.round)
}

func (g *Game) logAcceleratorFallback() {
	if g.fallbackLogged {
		return
	}
	if err := g.match.Field().AcceleratorErr(); err != nil {
		log.Printf("Accelerator disabled, stepping water on the CPU: %v", err)
		g.fallbackLogged = true
	}
}

// handleDebugControls processes debug overlay hotkeys.
func (g *Game) handleDebugControls() {
	if !*debugFlag {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		g.setWorkers(g.workers - 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		g.setWorkers(g.workers + 1)
	}
}

// setWorkers clamps the CPU band count within bounds.
func (g *Game) setWorkers(n int) {
	if n < 1 {
		n = 1
	} else if n > maxWorkers {
		n = maxWorkers
	}
	g.workers = n
	g.match.Field().SetWorkers(n)
}

// Close stops audio and releases any accelerator.
func (g *Game) Close() {
	g.audio.close()
	g.match.Field().SetAccelerator(nil)
}

// Layout reports the logical screen size used by Ebiten.
func (g *Game) Layout(_, _ int) (int, int) { return screenW, screenH }
