package cartridge

// uxrom implements iNES mapper 2 (UxROM): Mega Man, Castlevania, DuckTales.
// A single write-only register at $8000-$FFFF selects the 16KB bank visible
// at $8000-$BFFF; $C000-$FFFF is fixed to the last bank. CHR is always RAM.
type uxrom struct {
	cart     *Cartridge
	prgBanks uint8
	bank     uint8
}

func newUxROM(cart *Cartridge) *uxrom {
	return &uxrom{cart: cart, prgBanks: uint8(len(cart.prgROM) / 0x4000)}
}

func (m *uxrom) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x8000 && addr < 0xc000:
		off := int(m.bank)*0x4000 + int(addr-0x8000)
		return m.cart.prgROM[off]
	case addr >= 0xc000:
		off := int(m.prgBanks-1)*0x4000 + int(addr-0xc000)
		return m.cart.prgROM[off]
	case addr >= 0x6000:
		return m.cart.sram[addr-0x6000]
	}
	return 0
}

func (m *uxrom) WritePRG(addr uint16, value uint8) {
	switch {
	case addr >= 0x8000:
		m.bank = value & (m.prgBanks - 1)
	case addr >= 0x6000:
		m.cart.sram[addr-0x6000] = value
	}
}

func (m *uxrom) ReadCHR(addr uint16) uint8 {
	if int(addr) < len(m.cart.chrROM) {
		return m.cart.chrROM[addr]
	}
	return 0
}

func (m *uxrom) WriteCHR(addr uint16, value uint8) {
	if int(addr) < len(m.cart.chrROM) {
		m.cart.chrROM[addr] = value
	}
}

func (m *uxrom) Mirroring() MirrorMode { return m.cart.mirror }
func (m *uxrom) ClockScanline()        {}
func (m *uxrom) IRQPending() bool      { return false }
func (m *uxrom) AckIRQ()               {}
