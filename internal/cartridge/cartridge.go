// Package cartridge implements iNES ROM loading and the mapper layer that
// reshapes the CPU/PPU address spaces under program control.
package cartridge

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// ErrInvalidROM is returned by LoadFromReader when the input is not a
// well-formed iNES file.
var ErrInvalidROM = errors.New("cartridge: invalid iNES ROM")

// MirrorMode selects how the logical 4-screen nametable space maps onto the
// 2KB of physical PPU nametable RAM.
type MirrorMode uint8

const (
	MirrorHorizontal MirrorMode = iota
	MirrorVertical
	MirrorSingleLower
	MirrorSingleUpper
	MirrorFourScreen
)

// Mapper is the per-cartridge bank/mirroring policy. PPU reaches CHR and
// mirroring through this interface rather than the Cartridge directly, so
// the bank logic for each iNES mapper id lives in exactly one place.
type Mapper interface {
	ReadPRG(addr uint16) uint8
	WritePRG(addr uint16, value uint8)
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, value uint8)
	Mirroring() MirrorMode

	// ClockScanline is called once per visible scanline while rendering is
	// enabled (PPU dot 260). Only mapper 4 (MMC3) acts on it.
	ClockScanline()
	// IRQPending reports whether the mapper wants to assert its cartridge
	// IRQ line; AckIRQ clears it.
	IRQPending() bool
	AckIRQ()
}

// Cartridge owns PRG/CHR storage and the 8KB PRG-RAM window at $6000-$7FFF,
// and dispatches reads/writes through the selected Mapper. The Bus owns the
// single Cartridge instance (see SPEC_FULL.md §5/§9 design choice (c)); the
// PPU is given the Cartridge itself as a narrower CartridgeAccess interface.
type Cartridge struct {
	prgROM []uint8
	chrROM []uint8 // doubles as CHR-RAM storage when hasCHRRAM is true
	sram   [0x2000]uint8

	mapperID   uint8
	mirror     MirrorMode
	hasBattery bool
	hasCHRRAM  bool

	mapper Mapper
}

// CartridgeAccess is the narrow interface the PPU uses to reach CHR memory,
// mirroring mode, and mapper IRQ clocking without owning the cartridge.
type CartridgeAccess interface {
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, value uint8)
	Mirroring() MirrorMode
	ClockScanline()
}

type iNESHeader struct {
	Magic      [4]uint8
	PRGROMSize uint8
	CHRROMSize uint8
	Flags6     uint8
	Flags7     uint8
	_          [8]uint8
}

// LoadFromReader parses an iNES file and constructs a Cartridge with the
// mapper selected by the header's mapper id.
func LoadFromReader(r io.Reader) (*Cartridge, error) {
	var header iNESHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, ErrInvalidROM
	}
	if string(header.Magic[:]) != "NES\x1a" {
		return nil, ErrInvalidROM
	}
	if header.PRGROMSize == 0 {
		return nil, ErrInvalidROM
	}

	cart := &Cartridge{
		mapperID:   (header.Flags7 & 0xf0) | (header.Flags6 >> 4),
		hasBattery: header.Flags6&0x02 != 0,
	}

	switch {
	case header.Flags6&0x08 != 0:
		cart.mirror = MirrorFourScreen
	case header.Flags6&0x01 != 0:
		cart.mirror = MirrorVertical
	default:
		cart.mirror = MirrorHorizontal
	}

	if header.Flags6&0x04 != 0 {
		if _, err := io.CopyN(io.Discard, r, 512); err != nil {
			return nil, ErrInvalidROM
		}
	}

	prgSize := int(header.PRGROMSize) * 16384
	cart.prgROM = make([]uint8, prgSize)
	if _, err := io.ReadFull(r, cart.prgROM); err != nil {
		return nil, ErrInvalidROM
	}

	chrSize := int(header.CHRROMSize) * 8192
	if chrSize > 0 {
		cart.chrROM = make([]uint8, chrSize)
		if _, err := io.ReadFull(r, cart.chrROM); err != nil {
			return nil, ErrInvalidROM
		}
	} else {
		cart.hasCHRRAM = true
		cart.chrROM = make([]uint8, 8192)
	}

	cart.mapper = newMapper(cart.mapperID, cart)
	return cart, nil
}

// Load parses an in-memory iNES image. Convenience wrapper for callers that
// already have the ROM bytes (the orchestrator's LoadROM, tests).
func Load(data []byte) (*Cartridge, error) {
	return LoadFromReader(bytes.NewReader(data))
}

// ReadPRG/WritePRG/ReadCHR/WriteCHR forward to the active mapper.
func (c *Cartridge) ReadPRG(addr uint16) uint8         { return c.mapper.ReadPRG(addr) }
func (c *Cartridge) WritePRG(addr uint16, value uint8) { c.mapper.WritePRG(addr, value) }
func (c *Cartridge) ReadCHR(addr uint16) uint8         { return c.mapper.ReadCHR(addr) }
func (c *Cartridge) WriteCHR(addr uint16, value uint8) { c.mapper.WriteCHR(addr, value) }

// Mirroring returns the cartridge's current nametable mirroring mode. For
// mappers that can change mirroring at runtime (1, 4, 7) this reflects the
// mapper's live state, not just the header bit.
func (c *Cartridge) Mirroring() MirrorMode { return c.mapper.Mirroring() }

// ClockScanline is called by the PPU once per visible scanline (dot 260)
// while rendering is enabled; only MMC3 reacts to it.
func (c *Cartridge) ClockScanline() { c.mapper.ClockScanline() }

// IRQPending/AckIRQ expose the mapper's cartridge IRQ line to the bus.
func (c *Cartridge) IRQPending() bool { return c.mapper.IRQPending() }
func (c *Cartridge) AckIRQ()          { c.mapper.AckIRQ() }

// MapperID returns the iNES mapper number this cartridge was loaded with.
func (c *Cartridge) MapperID() uint8 { return c.mapperID }

// HasBattery reports whether PRG-RAM is battery-backed per the header.
func (c *Cartridge) HasBattery() bool { return c.hasBattery }

// PRGSize/CHRSize report the ROM sizes, used by the debug disassembler and
// round-trip tests.
func (c *Cartridge) PRGSize() int { return len(c.prgROM) }
func (c *Cartridge) CHRSize() int { return len(c.chrROM) }

// PeekPRGROM and PokePRGROM give the debug memory editor direct access to the
// raw PRG-ROM image by file offset, bypassing the mapper's bank translation.
// Poking a ROM-backed cartridge is unusual but harmless; it never reaches the
// bus since ReadPRG always goes through the mapper's own bank window.
func (c *Cartridge) PeekPRGROM(offset int) uint8 {
	if offset < 0 || offset >= len(c.prgROM) {
		return 0
	}
	return c.prgROM[offset]
}

func (c *Cartridge) PokePRGROM(offset int, value uint8) {
	if offset < 0 || offset >= len(c.prgROM) {
		return
	}
	c.prgROM[offset] = value
}

// PeekCHR and PokeCHR give the debug memory editor direct access to the raw
// CHR store by file offset. This is the same backing array ReadCHR/WriteCHR
// use for CHR-RAM carts, and a read-only mirror of the CHR-ROM image for
// CHR-ROM carts.
func (c *Cartridge) PeekCHR(offset int) uint8 {
	if offset < 0 || offset >= len(c.chrROM) {
		return 0
	}
	return c.chrROM[offset]
}

func (c *Cartridge) PokeCHR(offset int, value uint8) {
	if offset < 0 || offset >= len(c.chrROM) {
		return
	}
	c.chrROM[offset] = value
}

// PeekPRGRAM and PokePRGRAM give the debug memory editor direct access to the
// 8KB $6000-$7FFF PRG-RAM window, addressed 0-0x1FFF.
func (c *Cartridge) PeekPRGRAM(offset uint16) uint8        { return c.sram[offset&0x1fff] }
func (c *Cartridge) PokePRGRAM(offset uint16, value uint8) { c.sram[offset&0x1fff] = value }

// newMapper instantiates the Mapper for a given iNES mapper id. Unsupported
// ids fall back to a stub that reads zero and drops writes (§4.5) rather
// than failing the load.
func newMapper(id uint8, cart *Cartridge) Mapper {
	switch id {
	case 0:
		return newNROM(cart)
	case 1:
		return newMMC1(cart)
	case 2:
		return newUxROM(cart)
	case 3:
		return newCNROM(cart)
	case 4:
		return newMMC3(cart)
	case 7:
		return newAxROM(cart)
	case 66:
		return newGxROM(cart)
	default:
		return newUnsupportedMapper(cart, id)
	}
}
