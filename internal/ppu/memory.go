package ppu

import "gones/internal/cartridge"

// vram is the PPU's $0000-$3FFF address space: CHR via the cartridge,
// 2KB of nametable RAM mirrored per the cartridge's mirroring mode, and
// 32 bytes of palette RAM. Adapted from the teacher's memory.PPUMemory,
// narrowed to the cartridge.CartridgeAccess interface instead of owning
// a concrete cartridge type.
type vram struct {
	nametables [0x800]uint8
	palette    [32]uint8
	cart       cartridge.CartridgeAccess
}

func newVRAM(cart cartridge.CartridgeAccess) *vram {
	v := &vram{cart: cart}
	for i := 0; i < 32; i += 4 {
		v.palette[i] = 0x0f
	}
	return v
}

func (v *vram) Read(addr uint16) uint8 {
	addr &= 0x3fff
	switch {
	case addr < 0x2000:
		return v.cart.ReadCHR(addr)
	case addr < 0x3000:
		return v.nametables[v.nametableIndex(addr)]
	case addr < 0x3f00:
		return v.nametables[v.nametableIndex(addr-0x1000)]
	default:
		return v.readPalette(addr)
	}
}

func (v *vram) Write(addr uint16, value uint8) {
	addr &= 0x3fff
	switch {
	case addr < 0x2000:
		v.cart.WriteCHR(addr, value)
	case addr < 0x3000:
		v.nametables[v.nametableIndex(addr)] = value
	case addr < 0x3f00:
		v.nametables[v.nametableIndex(addr-0x1000)] = value
	default:
		v.writePalette(addr, value)
	}
}

func (v *vram) nametableIndex(addr uint16) uint16 {
	addr &= 0x0fff
	table := (addr >> 10) & 3
	offset := addr & 0x3ff

	switch v.cart.Mirroring() {
	case cartridge.MirrorVertical:
		if table == 1 || table == 3 {
			return 0x400 + offset
		}
		return offset
	case cartridge.MirrorSingleLower:
		return offset
	case cartridge.MirrorSingleUpper:
		return 0x400 + offset
	case cartridge.MirrorFourScreen:
		// Four-screen carts ship extra VRAM this emulator does not model;
		// approximate with the 2KB we have by wrapping the nametable index.
		return (table%2)*0x400 + offset
	default: // MirrorHorizontal
		if table >= 2 {
			return 0x400 + offset
		}
		return offset
	}
}

// PeekNametable and PokeNametable give the debug memory editor direct
// access to the physical 2KB nametable store, bypassing mirroring.
func (v *vram) PeekNametable(addr uint16) uint8        { return v.nametables[addr&0x7ff] }
func (v *vram) PokeNametable(addr uint16, value uint8) { v.nametables[addr&0x7ff] = value }

// PeekPalette and PokePalette give the debug memory editor direct access to
// the 32-byte palette RAM, bypassing the backdrop-mirroring rule readPalette
// applies for live rendering lookups.
func (v *vram) PeekPalette(addr uint16) uint8        { return v.palette[addr&0x1f] }
func (v *vram) PokePalette(addr uint16, value uint8) { v.palette[addr&0x1f] = value }

func (v *vram) readPalette(addr uint16) uint8 {
	idx := (addr - 0x3f00) & 0x1f
	if idx&0x13 == 0x10 {
		idx &= 0x0f
	}
	return v.palette[idx]
}

func (v *vram) writePalette(addr uint16, value uint8) {
	idx := (addr - 0x3f00) & 0x1f
	if idx&0x13 == 0x10 {
		idx &= 0x0f
	}
	v.palette[idx] = value
}
