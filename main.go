package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	flag.Parse()

	stopProfile := func() {}
	if *cpuProfileFlag != "" {
		stop, err := startCPUProfile(*cpuProfileFlag)
		if err != nil {
			log.Fatalf("CPU profiling failed: %v", err)
		}
		log.Printf("Writing CPU profile to %s", *cpuProfileFlag)
		stopProfile = stop
	}

	g, err := newGame()
	if err != nil {
		log.Fatalf("Game initialization failed: %v", err)
	}

	scale := *windowScaleFlag
	if scale < 1 {
		scale = 1
	}
	ebiten.SetWindowSize(screenW*scale, screenH*scale)
	ebiten.SetWindowTitle("Wave Motion")
	ebiten.SetTPS(defaultTPS)

	err = ebiten.RunGame(g)
	g.Close()
	stopProfile()
	if err != nil {
		log.Fatal(err)
	}
}
