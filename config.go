package main

import "time"

// Playfield, timing and audio constants for the two-player duel. The water
// grid is fieldW x fieldH cells and every cell covers cellSize x cellSize
// screen pixels.
const (
	fieldW, fieldH     = 200, 150
	cellSize           = 4
	screenW, screenH   = fieldW * cellSize, fieldH * cellSize
	defaultWindowScale = 1
	defaultTPS         = 60
	maxWorkers         = 16

	// Colour ramp: |position| at or above rampFullScale renders fully saturated.
	rampFullScale = 0.6

	hullHalfLength = 16
	hullHalfWidth  = 11
	shadowRadius   = 12

	seedDisturbanceMagnitude = 0.3
	seedDisturbanceRadius    = 1
	seedMargin               = 8
	seedExclusionCells       = 20
	sprinkleMagnitude        = 0.001

	audioSampleRate     = 48000
	audioBufferDuration = 80 * time.Millisecond
	musicVolume         = 0.4
	swellGain           = 0.8
	swellNoiseFloor     = 0.01
	brownStep           = 0.02
	pinkSmoothing       = 0.05
	ampSmoothing        = 0.002
	pcm16MaxValue       = 32767
)
