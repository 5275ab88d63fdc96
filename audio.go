package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"

	"wavemotion/sim"
)

// audioOutput owns the optional background music and surf noise players.
// A nil *audioOutput is silent.
type audioOutput struct {
	ctx   *audio.Context
	music *audio.Player
	swell *swellStream
	surf  *audio.Player
}

// newAudioOutput starts whichever audio the flags asked for. Failures are
// logged and that part is skipped.
func newAudioOutput(musicPath string, swell bool) *audioOutput {
	if musicPath == "" && !swell {
		return nil
	}
	out := &audioOutput{ctx: audio.NewContext(audioSampleRate)}

	if musicPath != "" {
		if player, err := loadMusicLoop(out.ctx, musicPath); err != nil {
			log.Printf("Background music disabled: %v", err)
		} else {
			out.music = player
			out.music.Play()
		}
	}

	if swell {
		stream := newSwellStream(time.Now().UnixNano())
		if player, err := out.ctx.NewPlayer(stream); err != nil {
			log.Printf("Audio player creation failed: %v", err)
		} else {
			out.swell = stream
			out.surf = player
			out.surf.SetBufferSize(audioBufferDuration)
			out.surf.Play()
		}
	}
	return out
}

// loadMusicLoop decodes the WAV at path and returns a player that repeats it
// forever.
func loadMusicLoop(ctx *audio.Context, path string) (*audio.Player, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	stream, err := wav.DecodeWithSampleRate(ctx.SampleRate(), bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w", path, err)
	}
	if stream.Length() == 0 {
		return nil, fmt.Errorf("wav %q has no audio data", path)
	}
	player, err := ctx.NewPlayer(audio.NewInfiniteLoop(stream, stream.Length()))
	if err != nil {
		return nil, fmt.Errorf("creating player for %q: %w", path, err)
	}
	player.SetVolume(musicVolume)
	return player, nil
}

// update feeds the surf noise with the water under the ships.
func (a *audioOutput) update(m *sim.Match) {
	if a == nil || a.swell == nil {
		return
	}
	a.swell.SetLevel(swellLevel(m))
}

func (a *audioOutput) close() {
	if a == nil {
		return
	}
	if a.music != nil {
		_ = a.music.Close()
	}
	if a.surf != nil {
		_ = a.surf.Close()
	}
}

// swellLevel returns the loudness of the surf: the largest displacement in
// either ship's sample square, scaled by swellGain and clamped to [0, 1].
func swellLevel(m *sim.Match) float32 {
	r := m.Config().SampleRadius
	var peak float64
	for _, p := range []sim.Player{sim.PlayerOne, sim.PlayerTwo} {
		x, y := m.Cell(p)
		hi, lo := m.Field().SampleArea(x, y, r)
		peak = math.Max(peak, math.Max(math.Abs(float64(hi)), math.Abs(float64(lo))))
	}
	return float32(math.Min(1, peak*swellGain))
}

// swellStream is an endless 16-bit stereo noise source. Its amplitude eases
// toward the level set from the game loop; Read runs on the audio goroutine.
type swellStream struct {
	mu     sync.Mutex
	rng    *rand.Rand
	target float32
	amp    float32
	brown  float32
	pink   float32
}

func newSwellStream(seed int64) *swellStream {
	return &swellStream{rng: rand.New(rand.NewSource(seed))}
}

// SetLevel sets the loudness the stream eases toward.
func (s *swellStream) SetLevel(v float32) {
	if v > 1 {
		v = 1
	} else if v < 0 {
		v = 0
	}
	s.mu.Lock()
	s.target = v
	s.mu.Unlock()
}

func (s *swellStream) Read(p []byte) (int, error) {
	// Whole stereo frames only (4 bytes per frame).
	frameBytes := len(p) - len(p)%4
	if frameBytes == 0 {
		return 0, io.ErrShortBuffer
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < frameBytes; i += 4 {
		s.amp += (s.target - s.amp) * ampSmoothing
		white := s.rng.Float32()*2 - 1
		s.brown += white * brownStep
		if s.brown > 1 {
			s.brown = 1
		} else if s.brown < -1 {
			s.brown = -1
		}
		s.pink += (white - s.pink) * pinkSmoothing

		gain := s.amp
		if gain > 0 {
			gain += swellNoiseFloor
		}
		sample := (s.brown*0.6 + s.pink*0.4) * gain
		if sample > 1 {
			sample = 1
		} else if sample < -1 {
			sample = -1
		}
		v := int16(sample * pcm16MaxValue)
		p[i] = byte(v)
		p[i+1] = byte(v >> 8)
		p[i+2] = p[i]
		p[i+3] = p[i+1]
	}
	return frameBytes, nil
}

func (s *swellStream) Close() error {
	return nil
}
