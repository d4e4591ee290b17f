// Package bus implements the NES system bus: the CPU-side address map that
// ties RAM, the PPU and APU registers, the controller port and the
// cartridge together, and the master clock that keeps the PPU and APU in
// lockstep with the CPU.
package bus

import (
	"gones/internal/apu"
	"gones/internal/cartridge"
	"gones/internal/controller"
	"gones/internal/cpu"
	"gones/internal/ppu"
)

// Bus is the CPU's MemoryInterface and the master clock for the system.
// Every Read/Write first ticks the clock (PPU x3, APU x1), then dispatches
// to the addressed target, so PPU/APU state observed by a given CPU access
// is always consistent with how many cycles have actually elapsed.
type Bus struct {
	ram [0x0800]uint8

	cpu        *cpu.CPU
	ppu        *ppu.PPU
	apu        *apu.APU
	cart       *cartridge.Cartridge
	controller *controller.Controller

	openBus uint8

	cycles   uint64
	dmaStall int
}

// New creates a Bus with its PPU, APU and controller wired up. Call
// AttachCPU and LoadCartridge before running it.
func New() *Bus {
	b := &Bus{
		controller: controller.New(),
	}
	b.ppu = ppu.New()
	b.apu = apu.New(dmcMemory{b})
	return b
}

// dmcMemory adapts Bus to apu.MemoryReader without re-entering tick: the
// DMC channel's sample fetch happens from inside apu.Step, which the bus
// only calls once already ticked.
type dmcMemory struct{ b *Bus }

func (m dmcMemory) Read(address uint16) uint8 { return m.b.dispatchRead(address) }

// AttachCPU wires the CPU that will drive this bus. The PPU's NMI line
// triggers the CPU's NMI directly; IRQ is re-sampled from the APU and
// mapper on every clock tick.
func (b *Bus) AttachCPU(c *cpu.CPU) {
	b.cpu = c
	b.ppu.SetNMICallback(c.TriggerNMI)
}

// LoadCartridge installs the cartridge and wires its CHR/mirroring surface
// into the PPU.
func (b *Bus) LoadCartridge(cart *cartridge.Cartridge) {
	b.cart = cart
	b.ppu.AttachCartridge(cart)
}

// Reset clears RAM and resets every attached component.
func (b *Bus) Reset() {
	for i := range b.ram {
		b.ram[i] = 0
	}
	b.controller.Reset()
	b.ppu.Reset()
	b.apu.Reset()
	b.cycles = 0
	b.dmaStall = 0
	if b.cpu != nil {
		b.cpu.Reset()
	}
}

// PPU returns the attached PPU, for the orchestrator's frame buffer access.
func (b *Bus) PPU() *ppu.PPU { return b.ppu }

// APU returns the attached APU, for the orchestrator's audio draining.
func (b *Bus) APU() *apu.APU { return b.apu }

// Controller returns the attached controller, for the orchestrator's input.
func (b *Bus) Controller() *controller.Controller { return b.controller }

// Cartridge returns the attached cartridge, or nil before LoadCartridge, for
// the debug memory editor's PrgRom/PrgRam/Chr regions.
func (b *Bus) Cartridge() *cartridge.Cartridge { return b.cart }

// PeekRAM and PokeRAM give the debug memory editor direct access to the 2KB
// of CPU-side work RAM, bypassing the mirroring Read/Write apply and without
// ticking the clock.
func (b *Bus) PeekRAM(addr uint16) uint8        { return b.ram[addr&0x07ff] }
func (b *Bus) PokeRAM(addr uint16, value uint8) { b.ram[addr&0x07ff] = value }

// Cycles returns the number of CPU-speed clock ticks this bus has run.
func (b *Bus) Cycles() uint64 { return b.cycles }

// StallCycles returns how many idle cycles remain from an in-flight OAM DMA.
func (b *Bus) StallCycles() int { return b.dmaStall }

// tick advances the master clock by one CPU cycle: three PPU dots, one APU
// cycle, and a refresh of the CPU's IRQ line from the APU and mapper.
func (b *Bus) tick() {
	b.ppu.Step()
	b.ppu.Step()
	b.ppu.Step()
	b.apu.Step()
	b.cycles++
	if b.cpu != nil {
		b.cpu.SetIRQ(b.apu.IRQPending() || (b.cart != nil && b.cart.IRQPending()))
	}
}

// Tick runs n idle bus cycles with no address dispatch, consuming OAM DMA
// stall cycles. nes.Console.StepFrame calls this before the next opcode
// fetch whenever a DMA transfer has left the CPU suspended, and to pad an
// instruction's bus cycles up to its nominal cycle count.
func (b *Bus) Tick(n int) {
	for i := 0; i < n; i++ {
		b.tick()
		if b.dmaStall > 0 {
			b.dmaStall--
		}
	}
}

// Read implements cpu.MemoryInterface.
func (b *Bus) Read(address uint16) uint8 {
	b.tick()
	return b.dispatchRead(address)
}

// dispatchRead resolves an address without ticking the clock, for accesses
// that happen alongside a cycle already accounted for elsewhere: the DMC
// channel's own sample fetch (mid-tick, from inside apu.Step) and OAM DMA's
// source reads (already paid for by the 513/514-cycle stall).
func (b *Bus) dispatchRead(address uint16) uint8 {
	var value uint8
	switch {
	case address < 0x2000:
		value = b.ram[address&0x07ff]
	case address < 0x4000:
		value = b.ppu.ReadRegister(0x2000 + address&0x0007)
	case address == 0x4015:
		value = b.apu.ReadStatus()
	case address == 0x4016:
		value = b.controller.Read()
	case address < 0x4020:
		value = b.openBus
	default:
		if b.cart != nil {
			value = b.cart.ReadPRG(address)
		} else {
			value = b.openBus
		}
	}
	b.openBus = value
	return value
}

// Write implements cpu.MemoryInterface.
func (b *Bus) Write(address uint16, value uint8) {
	b.tick()

	switch {
	case address < 0x2000:
		b.ram[address&0x07ff] = value
	case address < 0x4000:
		b.ppu.WriteRegister(0x2000+address&0x0007, value)
	case address == 0x4014:
		b.startOAMDMA(value)
	case address == 0x4016:
		b.controller.Write(value)
	case address >= 0x4000 && address <= 0x4013, address == 0x4015, address == 0x4017:
		b.apu.WriteRegister(address, value)
	case address < 0x4020:
		// Test mode registers, ignored.
	default:
		if b.cart != nil {
			b.cart.WritePRG(address, value)
		}
	}
}

// startOAMDMA copies 256 bytes from page*$100 into OAM and arms the CPU
// stall: 513 cycles, +1 if the transfer starts on an odd CPU cycle.
func (b *Bus) startOAMDMA(page uint8) {
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		b.ppu.WriteOAM(uint8(i), b.dispatchRead(base+uint16(i)))
	}
	if b.cycles%2 == 1 {
		b.dmaStall += 514
	} else {
		b.dmaStall += 513
	}
}
