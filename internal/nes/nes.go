// Package nes implements the Console orchestrator: the facade that loads a
// ROM, drives the bus one frame at a time, and exposes the host-facing
// surface (framebuffer, audio, controller, debug accessors).
package nes

import (
	"errors"

	"gones/internal/bus"
	"gones/internal/cartridge"
	"gones/internal/controller"
	"gones/internal/cpu"
	"gones/internal/diag"
)

// ErrEmulation is reserved for a mid-frame failure the core cannot currently
// produce: unknown opcodes degrade to NOP, out-of-range reads return 0, and
// mapper writes to ROM are silently dropped. Kept for forward compatibility
// with richer error reporting, matching the Rust original's error.rs.
var ErrEmulation = errors.New("nes: emulation error")

// cyclesPerFrame is the NTSC CPU cycle budget per frame (89342 PPU dots / 3).
const cyclesPerFrame = 29781

// Console is the orchestrator facade over the CPU/PPU/APU/Bus/Cartridge.
type Console struct {
	bus *bus.Bus
	cpu *cpu.CPU
}

// New builds a Console with its bus and CPU wired together. Call LoadROM
// before StepFrame.
func New() *Console {
	b := bus.New()
	c := cpu.New(b)
	b.AttachCPU(c)
	return &Console{bus: b, cpu: c}
}

// LoadROM parses an iNES image, installs it on the bus, and resets the
// system so the CPU starts executing from the cartridge's reset vector.
func (c *Console) LoadROM(data []byte) error {
	cart, err := cartridge.Load(data)
	if err != nil {
		return err
	}
	diag.Infof("loaded cartridge: mapper %d, prg %dKB, chr %dKB", cart.MapperID(), cart.PRGSize()/1024, cart.CHRSize()/1024)
	c.bus.LoadCartridge(cart)
	c.bus.Reset()
	return nil
}

// Reset re-issues the reset sequence without reloading the ROM. Work RAM
// keeps its contents; OAM and the CPU, PPU and APU registers return to
// their power-on state.
func (c *Console) Reset() {
	var ram [0x800]uint8
	for i := range ram {
		ram[i] = c.bus.PeekRAM(uint16(i))
	}
	c.bus.Reset()
	for i, v := range ram {
		c.bus.PokeRAM(uint16(i), v)
	}
}

// StepFrame advances the system until at least one NTSC frame's worth of
// CPU cycles (29781) have elapsed, servicing any pending interrupt between
// instructions and consuming a pending OAM DMA stall before the next opcode
// fetch, then returns the resulting framebuffer.
func (c *Console) StepFrame() [256 * 240]uint32 {
	var consumed uint64
	for consumed < cyclesPerFrame {
		if stall := c.bus.StallCycles(); stall > 0 {
			c.bus.Tick(stall)
			consumed += uint64(stall)
			continue
		}

		before := c.bus.Cycles()
		nominal := c.cpu.Step()
		// The CPU only ticks the bus for accesses it actually issues; pad
		// out any remaining nominal cycles (internal-only cycles with no
		// memory access) so the PPU/APU never fall behind real CPU timing.
		if actual := c.bus.Cycles() - before; actual < nominal {
			c.bus.Tick(int(nominal - actual))
		}
		consumed += nominal
	}
	return c.bus.PPU().GetFrameBuffer()
}

// DrainAudio returns the samples generated since the last call, leaving the
// APU's internal buffer empty.
func (c *Console) DrainAudio() []float32 {
	return c.bus.APU().GetSamples()
}

// ButtonDown presses a controller button.
func (c *Console) ButtonDown(b controller.Button) {
	c.bus.Controller().SetButton(b, true)
}

// ButtonUp releases a controller button.
func (c *Console) ButtonUp(b controller.Button) {
	c.bus.Controller().SetButton(b, false)
}

// Bus exposes the underlying bus for the debug/memory-editor accessors in
// internal/debug, which read through it rather than duplicating storage.
func (c *Console) Bus() *bus.Bus { return c.bus }

// CPU exposes the underlying CPU for the disassembler and register peeks.
func (c *Console) CPU() *cpu.CPU { return c.cpu }
