package cartridge

// gxrom implements iNES mapper 66 (GxROM): a single write selects both a
// 32KB PRG bank (bits 4-5) and an 8KB CHR bank (bits 0-1) at once.
type gxrom struct {
	cart     *Cartridge
	prgBanks uint8
	chrBanks uint8
	prgBank  uint8
	chrBank  uint8
}

func newGxROM(cart *Cartridge) *gxrom {
	return &gxrom{
		cart:     cart,
		prgBanks: uint8(len(cart.prgROM) / 0x8000),
		chrBanks: uint8(len(cart.chrROM) / 0x2000),
	}
}

func (m *gxrom) ReadPRG(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	off := int(m.prgBank)*0x8000 + int(addr-0x8000)
	if off < len(m.cart.prgROM) {
		return m.cart.prgROM[off]
	}
	return 0
}

func (m *gxrom) WritePRG(addr uint16, value uint8) {
	if addr < 0x8000 {
		return
	}
	if m.prgBanks > 0 {
		m.prgBank = (value >> 4) & 0x03 & (m.prgBanks - 1)
	}
	if m.chrBanks > 0 {
		m.chrBank = value & 0x03 & (m.chrBanks - 1)
	}
}

func (m *gxrom) ReadCHR(addr uint16) uint8 {
	off := int(m.chrBank)*0x2000 + int(addr)
	if off < len(m.cart.chrROM) {
		return m.cart.chrROM[off]
	}
	return 0
}

func (m *gxrom) WriteCHR(addr uint16, value uint8) {
	if m.cart.hasCHRRAM {
		off := int(m.chrBank)*0x2000 + int(addr)
		if off < len(m.cart.chrROM) {
			m.cart.chrROM[off] = value
		}
	}
}

func (m *gxrom) Mirroring() MirrorMode { return m.cart.mirror }
func (m *gxrom) ClockScanline()        {}
func (m *gxrom) IRQPending() bool      { return false }
func (m *gxrom) AckIRQ()               {}
