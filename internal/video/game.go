// Package video is the ebiten host backend: an ebiten.Game that drives
// nes.Console one frame per Update, blits its framebuffer in Draw, and
// forwards keyboard state to the emulated controller.
package video

import (
	"github.com/hajimehoshi/ebiten/v2"

	"gones/internal/app"
	"gones/internal/controller"
	"gones/internal/nes"
)

// Game implements ebiten.Game over a nes.Console.
type Game struct {
	console *nes.Console
	keys    app.KeyMapping
	audio   *AudioStream
	frame   *ebiten.Image
}

// New builds a Game for console using cfg's sample rate and keybindings.
func New(console *nes.Console, cfg *app.Config) (*Game, error) {
	stream, err := NewAudioStream(cfg.SampleRate)
	if err != nil {
		return nil, err
	}
	return &Game{
		console: console,
		keys:    cfg.Keys,
		audio:   stream,
		frame:   ebiten.NewImage(256, 240),
	}, nil
}

// Update advances the console by one frame and polls keyboard input.
func (g *Game) Update() error {
	g.pollInput()
	buf := g.console.StepFrame()
	g.blit(buf)
	g.audio.Push(g.console.DrainAudio())
	return nil
}

// Draw blits the emulated frame; Layout fixes the logical resolution so
// ebiten handles the scale-to-window transform itself.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.frame, nil)
}

// Layout fixes the NES's native resolution as this game's logical screen
// size, regardless of actual window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return 256, 240
}

func (g *Game) blit(buf [256 * 240]uint32) {
	pix := make([]byte, 256*240*4)
	for i, p := range buf {
		pix[i*4+0] = uint8(p >> 16)
		pix[i*4+1] = uint8(p >> 8)
		pix[i*4+2] = uint8(p)
		pix[i*4+3] = 0xff
	}
	g.frame.WritePixels(pix)
}

func (g *Game) pollInput() {
	set := func(b controller.Button, key ebiten.Key) {
		if ebiten.IsKeyPressed(key) {
			g.console.ButtonDown(b)
		} else {
			g.console.ButtonUp(b)
		}
	}
	set(controller.Up, g.keys.Up)
	set(controller.Down, g.keys.Down)
	set(controller.Left, g.keys.Left)
	set(controller.Right, g.keys.Right)
	set(controller.A, g.keys.A)
	set(controller.B, g.keys.B)
	set(controller.Start, g.keys.Start)
	set(controller.Select, g.keys.Select)
}
