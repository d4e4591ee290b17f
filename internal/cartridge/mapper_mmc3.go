package cartridge

// mmc3 implements iNES mapper 4 (TxROM/MMC3): Super Mario Bros. 2/3, Mega
// Man 3-6. Eight bank-data registers R0-R7 are selected by an even/odd pair
// of ports repeated across $8000-$FFFF, plus a scanline IRQ counter clocked
// externally by the PPU (§4.3 approximates the real PPU-A12 edge with one
// call per visible scanline).
type mmc3 struct {
	cart *Cartridge

	prgROM   []uint8
	prgBanks uint8
	prgRAM   *[0x2000]uint8

	bankSelect uint8
	prgMode    uint8
	chrInvert  uint8
	regs       [8]uint8

	mirror MirrorMode

	ramEnabled bool
	ramProtect bool

	irqLatch  uint8
	irqCount  uint8
	irqReload bool
	irqEnable bool
	irqFlag   bool
}

func newMMC3(cart *Cartridge) *mmc3 {
	m := &mmc3{
		cart:       cart,
		prgROM:     cart.prgROM,
		prgRAM:     &cart.sram,
		prgBanks:   uint8(len(cart.prgROM) / 0x2000),
		mirror:     cart.mirror,
		ramEnabled: true,
	}
	return m
}

func (m *mmc3) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if m.ramEnabled {
			return m.prgRAM[addr-0x6000]
		}
		return 0
	case addr >= 0x8000 && addr < 0xa000:
		if m.prgMode == 0 {
			return m.prgBank(m.regs[6], addr-0x8000)
		}
		return m.prgBank(m.prgBanks-2, addr-0x8000)
	case addr >= 0xa000 && addr < 0xc000:
		return m.prgBank(m.regs[7], addr-0xa000)
	case addr >= 0xc000 && addr < 0xe000:
		if m.prgMode == 0 {
			return m.prgBank(m.prgBanks-2, addr-0xc000)
		}
		return m.prgBank(m.regs[6], addr-0xc000)
	default:
		return m.prgBank(m.prgBanks-1, addr-0xe000)
	}
}

func (m *mmc3) prgBank(bank uint8, off uint16) uint8 {
	idx := int(bank)*0x2000 + int(off)
	if idx >= 0 && idx < len(m.prgROM) {
		return m.prgROM[idx]
	}
	return 0
}

func (m *mmc3) WritePRG(addr uint16, value uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if m.ramEnabled && !m.ramProtect {
			m.prgRAM[addr-0x6000] = value
		}
	case addr >= 0x8000 && addr < 0xa000:
		if addr&1 == 0 {
			m.bankSelect = value & 0x07
			m.prgMode = (value >> 6) & 1
			m.chrInvert = (value >> 7) & 1
		} else {
			m.regs[m.bankSelect] = value
		}
	case addr >= 0xa000 && addr < 0xc000:
		if addr&1 == 0 {
			if value&1 == 0 {
				m.mirror = MirrorVertical
			} else {
				m.mirror = MirrorHorizontal
			}
		} else {
			m.ramProtect = value&0x40 != 0
			m.ramEnabled = value&0x80 != 0
		}
	case addr >= 0xc000 && addr < 0xe000:
		if addr&1 == 0 {
			m.irqLatch = value
		} else {
			m.irqCount = 0
			m.irqReload = true
		}
	default:
		if addr&1 == 0 {
			m.irqEnable = false
			m.irqFlag = false
		} else {
			m.irqEnable = true
		}
	}
}

func (m *mmc3) ReadCHR(addr uint16) uint8 {
	bank, off := m.chrBankFor(addr)
	idx := int(bank)*0x400 + int(off)
	if idx < len(m.cart.chrROM) {
		return m.cart.chrROM[idx]
	}
	return 0
}

func (m *mmc3) WriteCHR(addr uint16, value uint8) {
	if !m.cart.hasCHRRAM {
		return
	}
	bank, off := m.chrBankFor(addr)
	idx := int(bank)*0x400 + int(off)
	if idx < len(m.cart.chrROM) {
		m.cart.chrROM[idx] = value
	}
}

// chrBankFor resolves a PPU CHR address to a 1KB bank and in-bank offset
// per the current CHR-inversion bit (§4.5 mapper 4 mode 0/1 tables).
func (m *mmc3) chrBankFor(addr uint16) (bank uint8, off uint16) {
	a := addr
	if m.chrInvert == 1 {
		a ^= 0x1000
	}
	switch {
	case a < 0x0800:
		return m.regs[0] &^ 1, a
	case a < 0x1000:
		return m.regs[1] &^ 1, a - 0x0800
	case a < 0x1400:
		return m.regs[2], a - 0x1000
	case a < 0x1800:
		return m.regs[3], a - 0x1400
	case a < 0x1c00:
		return m.regs[4], a - 0x1800
	default:
		return m.regs[5], a - 0x1c00
	}
}

func (m *mmc3) Mirroring() MirrorMode { return m.mirror }

// ClockScanline implements the MMC3 IRQ counter: reload (or decrement),
// then fire when it reaches zero with IRQs enabled.
func (m *mmc3) ClockScanline() {
	if m.irqCount == 0 || m.irqReload {
		m.irqCount = m.irqLatch
		m.irqReload = false
	} else {
		m.irqCount--
	}
	if m.irqCount == 0 && m.irqEnable {
		m.irqFlag = true
	}
}

func (m *mmc3) IRQPending() bool { return m.irqFlag }
func (m *mmc3) AckIRQ()          { m.irqFlag = false }
