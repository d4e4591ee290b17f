package cartridge

import "gones/internal/diag"

// unsupportedMapper stands in for any iNES mapper id this emulator does not
// implement (§4.5). Reads return 0, writes are dropped, and the condition
// is logged once at load time rather than failing LoadFromReader — a ROM
// with an unsupported mapper is not an invalid ROM, it just won't run
// correctly (§7.2).
type unsupportedMapper struct {
	cart *Cartridge
}

func newUnsupportedMapper(cart *Cartridge, id uint8) *unsupportedMapper {
	diag.Warnf("unsupported mapper %d, reads will return 0", id)
	return &unsupportedMapper{cart: cart}
}

func (m *unsupportedMapper) ReadPRG(addr uint16) uint8 {
	if addr >= 0x6000 && addr < 0x8000 {
		return m.cart.sram[addr-0x6000]
	}
	return 0
}

func (m *unsupportedMapper) WritePRG(addr uint16, value uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		m.cart.sram[addr-0x6000] = value
	}
}

func (m *unsupportedMapper) ReadCHR(addr uint16) uint8 {
	if int(addr) < len(m.cart.chrROM) {
		return m.cart.chrROM[addr]
	}
	return 0
}

func (m *unsupportedMapper) WriteCHR(addr uint16, value uint8) {}

func (m *unsupportedMapper) Mirroring() MirrorMode { return m.cart.mirror }
func (m *unsupportedMapper) ClockScanline()        {}
func (m *unsupportedMapper) IRQPending() bool      { return false }
func (m *unsupportedMapper) AckIRQ()               {}
