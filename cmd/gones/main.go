// Package main implements the gones NES emulator executable: a thin ebiten
// host wrapper around internal/nes. No configuration file, no save states,
// no rewinding — see SPEC_FULL.md's Non-goals.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"gones/internal/app"
	"gones/internal/nes"
	"gones/internal/version"
	"gones/internal/video"
)

func main() {
	scale := flag.Int("scale", 2, "window scale factor")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.GetDetailedVersion())
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: gones [-scale N] <rom.nes>")
		os.Exit(2)
	}

	cfg := app.NewConfig()
	cfg.ROMPath = flag.Arg(0)
	cfg.WindowScale = *scale

	rom, err := os.ReadFile(cfg.ROMPath)
	if err != nil {
		log.Fatalf("gones: reading %s: %v", cfg.ROMPath, err)
	}

	console := nes.New()
	if err := console.LoadROM(rom); err != nil {
		log.Fatalf("gones: loading %s: %v", cfg.ROMPath, err)
	}

	game, err := video.New(console, cfg)
	if err != nil {
		log.Fatalf("gones: starting audio: %v", err)
	}

	w, h := cfg.WindowResolution()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("gones - " + cfg.ROMPath)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatalf("gones: %v", err)
	}
}
