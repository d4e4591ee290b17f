// Package testrom builds minimal iNES images in memory for use by package
// tests across the module (cartridge, bus, cpu, nes). Adapted from the
// teacher's cartridge/test_rom_generator.go fluent builder, trimmed to the
// handful of knobs this project's tests actually exercise.
package testrom

import "gones/internal/cartridge"

// Config describes a synthetic iNES image.
type Config struct {
	PRGBanks    uint8 // 16KB units
	CHRBanks    uint8 // 8KB units; 0 means CHR-RAM
	MapperID    uint8
	Mirroring   cartridge.MirrorMode
	Battery     bool
	Code        []uint8          // placed at PRG offset 0 ($8000)
	Data        map[uint16]uint8 // absolute CPU address -> byte, within PRG window
	ResetVector uint16
	IRQVector   uint16
	NMIVector   uint16
}

// Builder provides a fluent interface mirroring the teacher's style.
type Builder struct {
	cfg Config
}

// New starts a builder defaulted to a one-bank NROM image with an infinite
// loop at the reset vector.
func New() *Builder {
	return &Builder{cfg: Config{
		PRGBanks:    1,
		CHRBanks:    1,
		Mirroring:   cartridge.MirrorHorizontal,
		Data:        map[uint16]uint8{},
		ResetVector: 0x8000,
		IRQVector:   0x8000,
		NMIVector:   0x8000,
	}}
}

func (b *Builder) PRGBanks(n uint8) *Builder        { b.cfg.PRGBanks = n; return b }
func (b *Builder) CHRBanks(n uint8) *Builder        { b.cfg.CHRBanks = n; return b }
func (b *Builder) Mapper(id uint8) *Builder         { b.cfg.MapperID = id; return b }
func (b *Builder) Mirror(m cartridge.MirrorMode) *Builder { b.cfg.Mirroring = m; return b }
func (b *Builder) Battery() *Builder                { b.cfg.Battery = true; return b }
func (b *Builder) Code(code ...uint8) *Builder      { b.cfg.Code = code; return b }
func (b *Builder) Reset(addr uint16) *Builder       { b.cfg.ResetVector = addr; return b }
func (b *Builder) At(addr uint16, value uint8) *Builder {
	b.cfg.Data[addr] = value
	return b
}

// Build renders the iNES byte image.
func (b *Builder) Build() []byte { return Generate(b.cfg) }

// BuildCartridge renders and loads the image as a *cartridge.Cartridge.
func (b *Builder) BuildCartridge() (*cartridge.Cartridge, error) {
	return cartridge.Load(b.Build())
}

// Generate renders an iNES image from cfg.
func Generate(cfg Config) []byte {
	if cfg.PRGBanks == 0 {
		cfg.PRGBanks = 1
	}
	prgSize := int(cfg.PRGBanks) * 16384

	header := make([]byte, 16)
	copy(header[0:4], "NES\x1a")
	header[4] = cfg.PRGBanks
	header[5] = cfg.CHRBanks

	flags6 := (cfg.MapperID & 0x0f) << 4
	switch cfg.Mirroring {
	case cartridge.MirrorVertical:
		flags6 |= 0x01
	case cartridge.MirrorFourScreen:
		flags6 |= 0x08
	}
	if cfg.Battery {
		flags6 |= 0x02
	}
	header[6] = flags6
	header[7] = cfg.MapperID & 0xf0

	prg := make([]byte, prgSize)
	copy(prg, cfg.Code)
	for addr, v := range cfg.Data {
		off := int(addr) - 0x8000
		if off >= 0 && off < prgSize {
			prg[off] = v
		}
	}

	// Interrupt vectors sit in the last 6 bytes of the final 16KB bank.
	vecOff := prgSize - 6
	prg[vecOff] = uint8(cfg.NMIVector)
	prg[vecOff+1] = uint8(cfg.NMIVector >> 8)
	prg[vecOff+2] = uint8(cfg.ResetVector)
	prg[vecOff+3] = uint8(cfg.ResetVector >> 8)
	prg[vecOff+4] = uint8(cfg.IRQVector)
	prg[vecOff+5] = uint8(cfg.IRQVector >> 8)

	out := append([]byte{}, header...)
	out = append(out, prg...)
	if cfg.CHRBanks > 0 {
		out = append(out, make([]byte, int(cfg.CHRBanks)*8192)...)
	}
	return out
}
