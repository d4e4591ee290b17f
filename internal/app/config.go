// Package app holds the host wrapper's own configuration: window scale,
// audio sample rate, keybindings and the ROM path, populated by flag
// parsing in cmd/gones. Adapted and trimmed from the teacher's
// internal/app/config.go, which carried a JSON file format, save-state
// slots and rewind buffers this project's Non-goals exclude.
package app

import "github.com/hajimehoshi/ebiten/v2"

// Config holds the host wrapper's runtime knobs.
type Config struct {
	ROMPath     string
	WindowScale int
	SampleRate  int
	Keys        KeyMapping
}

// KeyMapping binds the eight NES buttons to ebiten keys for one pad.
type KeyMapping struct {
	Up, Down, Left, Right ebiten.Key
	A, B, Start, Select   ebiten.Key
}

// DefaultKeyMapping is the fixed layout this project ships: no remapping UI,
// no config file, matching §10.2's "intentionally thin" scope.
func DefaultKeyMapping() KeyMapping {
	return KeyMapping{
		Up:     ebiten.KeyW,
		Down:   ebiten.KeyS,
		Left:   ebiten.KeyA,
		Right:  ebiten.KeyD,
		A:      ebiten.KeyJ,
		B:      ebiten.KeyK,
		Start:  ebiten.KeyEnter,
		Select: ebiten.KeySpace,
	}
}

// NewConfig returns a Config with the default window scale, sample rate and
// keybindings. ROMPath is left empty for the caller (cmd/gones) to fill in
// from its command-line argument.
func NewConfig() *Config {
	return &Config{
		WindowScale: 2,
		SampleRate:  44100,
		Keys:        DefaultKeyMapping(),
	}
}

// WindowResolution returns the host window's pixel dimensions: the native
// 256x240 NES framebuffer scaled by WindowScale.
func (c *Config) WindowResolution() (int, int) {
	return 256 * c.WindowScale, 240 * c.WindowScale
}
