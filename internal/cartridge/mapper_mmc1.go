package cartridge

// mmc1 implements iNES mapper 1 (SxROM/MMC1): Zelda, Metroid, Mega Man 2,
// Kid Icarus. Control is serial — every write to $8000-$FFFF shifts one bit
// (LSB first) into a 5-bit shift register; the fifth write copies the
// accumulated value into one of four internal registers selected by the
// address range of that fifth write. Writing with bit 7 set resets the
// shift register and forces PRG mode 3 (fix last bank), independent of
// shift position.
type mmc1 struct {
	cart *Cartridge

	prgROM []uint8
	prgRAM *[0x2000]uint8
	prgBanks uint8

	shift      uint8
	shiftCount uint8

	control uint8 // mirroring(2) | prgMode(2) | chrMode(1)
	chrBank0 uint8
	chrBank1 uint8
	prgBank  uint8
}

func newMMC1(cart *Cartridge) *mmc1 {
	return &mmc1{
		cart:     cart,
		prgROM:   cart.prgROM,
		prgRAM:   &cart.sram,
		prgBanks: uint8(len(cart.prgROM) / 0x4000),
		shift:    0x10,
		control:  0x0c, // power-on: PRG mode 3 (fix last bank at $C000)
	}
}

func (m *mmc1) prgMode() uint8  { return (m.control >> 2) & 0x03 }
func (m *mmc1) chrMode() uint8  { return (m.control >> 4) & 0x01 }
func (m *mmc1) mirrorBits() uint8 { return m.control & 0x03 }

func (m *mmc1) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.prgRAM[addr-0x6000]
	case addr >= 0x8000 && addr < 0xc000:
		var bank uint8
		switch m.prgMode() {
		case 0, 1:
			bank = m.prgBank &^ 1
		case 2:
			bank = 0
		default: // 3
			bank = m.prgBank
		}
		return m.readPRGBank(bank, addr-0x8000)
	default: // $C000-$FFFF
		var bank uint8
		switch m.prgMode() {
		case 0, 1:
			bank = (m.prgBank &^ 1) | 1
		case 2:
			bank = m.prgBank
		default: // 3
			bank = m.prgBanks - 1
		}
		return m.readPRGBank(bank, addr-0xc000)
	}
}

func (m *mmc1) readPRGBank(bank uint8, off uint16) uint8 {
	idx := int(bank)*0x4000 + int(off)
	if idx < len(m.prgROM) {
		return m.prgROM[idx]
	}
	return 0
}

func (m *mmc1) WritePRG(addr uint16, value uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		m.prgRAM[addr-0x6000] = value
		return
	}
	if addr < 0x8000 {
		return
	}

	if value&0x80 != 0 {
		m.shift = 0x10
		m.shiftCount = 0
		m.control |= 0x0c
		return
	}

	complete := m.shiftCount == 4
	m.shift = (m.shift >> 1) | ((value & 1) << 4)
	m.shiftCount++

	if !complete {
		return
	}

	result := m.shift
	m.shift = 0x10
	m.shiftCount = 0

	switch {
	case addr < 0xa000:
		m.control = result & 0x1f
	case addr < 0xc000:
		m.chrBank0 = result & 0x1f
	case addr < 0xe000:
		m.chrBank1 = result & 0x1f
	default:
		m.prgBank = result & 0x0f
	}
}

func (m *mmc1) ReadCHR(addr uint16) uint8 {
	bank, off := m.chrBankFor(addr)
	idx := int(bank)*0x1000 + int(off)
	if idx < len(m.cart.chrROM) {
		return m.cart.chrROM[idx]
	}
	return 0
}

func (m *mmc1) WriteCHR(addr uint16, value uint8) {
	if !m.cart.hasCHRRAM {
		return
	}
	bank, off := m.chrBankFor(addr)
	idx := int(bank)*0x1000 + int(off)
	if idx < len(m.cart.chrROM) {
		m.cart.chrROM[idx] = value
	}
}

func (m *mmc1) chrBankFor(addr uint16) (bank uint8, off uint16) {
	if m.chrMode() == 0 {
		bank = m.chrBank0 &^ 1
		if addr >= 0x1000 {
			bank |= 1
		}
		return bank, addr & 0x0fff
	}
	if addr < 0x1000 {
		return m.chrBank0, addr
	}
	return m.chrBank1, addr - 0x1000
}

func (m *mmc1) Mirroring() MirrorMode {
	switch m.mirrorBits() {
	case 0:
		return MirrorSingleLower
	case 1:
		return MirrorSingleUpper
	case 2:
		return MirrorVertical
	default:
		return MirrorHorizontal
	}
}

func (m *mmc1) ClockScanline() {}
func (m *mmc1) IRQPending() bool { return false }
func (m *mmc1) AckIRQ()          {}
