// Package debug implements the memory-editor surface: region-scoped
// peek/poke, value search, watchpoints, a linear disassembler and cheat-code
// decoding. None of this is wired into frame stepping; it exists purely for
// tools built on top of a nes.Console.
package debug

import (
	"fmt"
	"strconv"
	"strings"

	"gones/internal/cpu"
	"gones/internal/nes"
)

// Region names one of the distinct byte spaces a debugger can address.
// Address 0 in a Region is the start of that region's own storage, not a
// CPU address: Ram is $0000-$07FF, PrgRam is $6000-$7FFF, and so on.
type Region int

const (
	Ram Region = iota
	Vram
	Oam
	Palette
	PrgRom
	PrgRam
	Chr
)

func (r Region) String() string {
	switch r {
	case Ram:
		return "RAM"
	case Vram:
		return "VRAM"
	case Oam:
		return "OAM"
	case Palette:
		return "Palette"
	case PrgRom:
		return "PRG-ROM"
	case PrgRam:
		return "PRG-RAM"
	case Chr:
		return "CHR"
	default:
		return "unknown"
	}
}

// Editor is the memory-editor session over a single Console: live peek/poke,
// a value-search workflow (snapshot, then narrow by repeated conditions),
// and watchpoints polled by the caller once per frame.
type Editor struct {
	console *nes.Console

	searchRegion Region
	snapshot     []uint8
	results      []SearchResult

	watchpoints map[uint32]*Watchpoint
	nextWatchID uint32
}

// New builds an Editor over console. The console must already have a ROM
// loaded for the PrgRom/PrgRam/Chr regions to report a nonzero size.
func New(console *nes.Console) *Editor {
	return &Editor{
		console:     console,
		watchpoints: make(map[uint32]*Watchpoint),
		nextWatchID: 1,
	}
}

// RegionSize reports how many addressable bytes a region holds. PrgRom and
// Chr vary with the loaded cartridge; the others are fixed NES hardware
// sizes.
func (e *Editor) RegionSize(region Region) int {
	switch region {
	case Ram:
		return 0x800
	case Vram:
		return 0x800
	case Oam:
		return 256
	case Palette:
		return 32
	case PrgRam:
		return 0x2000
	case PrgRom:
		if cart := e.console.Bus().Cartridge(); cart != nil {
			return cart.PRGSize()
		}
		return 0
	case Chr:
		if cart := e.console.Bus().Cartridge(); cart != nil {
			return cart.CHRSize()
		}
		return 0
	default:
		return 0
	}
}

// Peek reads one byte from a region without any of the side effects a live
// register access would have (no OAMADDR increment, no PPUDATA buffering,
// no bus clock tick).
func (e *Editor) Peek(region Region, addr uint16) uint8 {
	b := e.console.Bus()
	switch region {
	case Ram:
		return b.PeekRAM(addr)
	case Vram:
		return b.PPU().PeekNametable(addr)
	case Oam:
		return b.PPU().PeekOAM(uint8(addr))
	case Palette:
		return b.PPU().PeekPalette(addr)
	case PrgRom:
		if cart := b.Cartridge(); cart != nil {
			return cart.PeekPRGROM(int(addr))
		}
		return 0
	case PrgRam:
		if cart := b.Cartridge(); cart != nil {
			return cart.PeekPRGRAM(addr)
		}
		return 0
	case Chr:
		if cart := b.Cartridge(); cart != nil {
			return cart.PeekCHR(int(addr))
		}
		return 0
	default:
		return 0
	}
}

// Poke writes one byte into a region, same side-effect-free access as Peek.
func (e *Editor) Poke(region Region, addr uint16, value uint8) {
	b := e.console.Bus()
	switch region {
	case Ram:
		b.PokeRAM(addr, value)
	case Vram:
		b.PPU().PokeNametable(addr, value)
	case Oam:
		b.PPU().PokeOAM(uint8(addr), value)
	case Palette:
		b.PPU().PokePalette(addr, value)
	case PrgRom:
		if cart := b.Cartridge(); cart != nil {
			cart.PokePRGROM(int(addr), value)
		}
	case PrgRam:
		if cart := b.Cartridge(); cart != nil {
			cart.PokePRGRAM(addr, value)
		}
	case Chr:
		if cart := b.Cartridge(); cart != nil {
			cart.PokeCHR(int(addr), value)
		}
	}
}

func (e *Editor) snapshotRegion(region Region) []uint8 {
	buf := make([]uint8, e.RegionSize(region))
	for i := range buf {
		buf[i] = e.Peek(region, uint16(i))
	}
	return buf
}

// SearchKind selects how Search compares a byte against a target value or
// against its own previous snapshot.
type SearchKind int

const (
	Equal SearchKind = iota
	NotEqual
	GreaterThan
	LessThan
	Between
	Increased
	Decreased
	Unchanged
	Changed
)

// SearchCondition parameterizes a SearchKind. Value is used by Equal,
// NotEqual, GreaterThan and LessThan; Low/High by Between; the rest compare
// against the previous snapshot and ignore these fields.
type SearchCondition struct {
	Kind  SearchKind
	Value uint8
	Low   uint8
	High  uint8
}

// SearchResult is one matching address from Search or FilterSearch.
type SearchResult struct {
	Address       uint16
	Value         uint8
	PreviousValue uint8
	HasPrevious   bool
}

func (c SearchCondition) matches(value uint8, prev uint8, hasPrev bool) bool {
	switch c.Kind {
	case Equal:
		return value == c.Value
	case NotEqual:
		return value != c.Value
	case GreaterThan:
		return value > c.Value
	case LessThan:
		return value < c.Value
	case Between:
		return value >= c.Low && value <= c.High
	case Increased:
		return hasPrev && value > prev
	case Decreased:
		return hasPrev && value < prev
	case Unchanged:
		return hasPrev && value == prev
	case Changed:
		return hasPrev && value != prev
	default:
		return false
	}
}

// StartSearch snapshots a region's current contents and clears any previous
// search results. Search and FilterSearch apply to whichever region was
// started here.
func (e *Editor) StartSearch(region Region) {
	e.searchRegion = region
	e.snapshot = e.snapshotRegion(region)
	e.results = nil
}

// Search scans the whole started region against condition, replacing the
// previous result set, then re-snapshots for the next Increased/Decreased/
// Unchanged/Changed comparison.
func (e *Editor) Search(condition SearchCondition) []SearchResult {
	current := e.snapshotRegion(e.searchRegion)
	e.results = e.results[:0]
	for addr, value := range current {
		prev, hasPrev := uint8(0), false
		if addr < len(e.snapshot) {
			prev, hasPrev = e.snapshot[addr], true
		}
		if condition.matches(value, prev, hasPrev) {
			e.results = append(e.results, SearchResult{
				Address:       uint16(addr),
				Value:         value,
				PreviousValue: prev,
				HasPrevious:   hasPrev,
			})
		}
	}
	e.snapshot = current
	return e.results
}

// FilterSearch narrows the existing result set by condition instead of
// rescanning the whole region, the usual next step after Search in a
// progressive value hunt.
func (e *Editor) FilterSearch(condition SearchCondition) []SearchResult {
	current := e.snapshotRegion(e.searchRegion)
	filtered := e.results[:0]
	for _, r := range e.results {
		value := uint8(0)
		if int(r.Address) < len(current) {
			value = current[r.Address]
		}
		prev, hasPrev := uint8(0), false
		if int(r.Address) < len(e.snapshot) {
			prev, hasPrev = e.snapshot[r.Address], true
		}
		if condition.matches(value, prev, hasPrev) {
			filtered = append(filtered, SearchResult{
				Address:       r.Address,
				Value:         value,
				PreviousValue: prev,
				HasPrevious:   hasPrev,
			})
		}
	}
	e.results = filtered
	e.snapshot = current
	return e.results
}

// ResetSearch drops the snapshot and any results, returning to a clean state.
func (e *Editor) ResetSearch() {
	e.snapshot = nil
	e.results = nil
}

// Results returns the current result set without running another search.
func (e *Editor) Results() []SearchResult { return e.results }

// Watchpoint flags an address for change notification via PollWatchpoints.
type Watchpoint struct {
	ID        uint32
	Region    Region
	Address   uint16
	Label     string
	LastValue uint8
}

// AddWatchpoint registers a new watchpoint and returns its id.
func (e *Editor) AddWatchpoint(region Region, addr uint16, label string) uint32 {
	id := e.nextWatchID
	e.nextWatchID++
	e.watchpoints[id] = &Watchpoint{
		ID:        id,
		Region:    region,
		Address:   addr,
		Label:     label,
		LastValue: e.Peek(region, addr),
	}
	return id
}

// RemoveWatchpoint deletes a watchpoint, reporting whether it existed.
func (e *Editor) RemoveWatchpoint(id uint32) bool {
	if _, ok := e.watchpoints[id]; !ok {
		return false
	}
	delete(e.watchpoints, id)
	return true
}

// Watchpoints returns every registered watchpoint, in no particular order.
func (e *Editor) Watchpoints() []*Watchpoint {
	out := make([]*Watchpoint, 0, len(e.watchpoints))
	for _, wp := range e.watchpoints {
		out = append(out, wp)
	}
	return out
}

// PollWatchpoints re-reads every watchpoint's current value, returning those
// whose value changed since the last poll and updating LastValue on all of
// them. Call once per frame from the host loop.
func (e *Editor) PollWatchpoints() []*Watchpoint {
	var changed []*Watchpoint
	for _, wp := range e.watchpoints {
		v := e.Peek(wp.Region, wp.Address)
		if v != wp.LastValue {
			wp.LastValue = v
			changed = append(changed, wp)
		}
	}
	return changed
}

// Line is one disassembled instruction: the offset it starts at within the
// byte slice passed to Disassemble, and its rendered text.
type Line struct {
	Offset uint16
	Text   string
}

// Disassemble decodes count instructions from memory starting at offset
// start, using the CPU's own opcode table via lookup (normally cpu.Lookup)
// so the mnemonic and instruction length never drift from what the CPU
// actually executes. An opcode the table leaves unmapped renders as "???"
// and is treated as one byte long, matching how Step falls back to a 2-cycle
// NOP for it.
func Disassemble(lookup func(opcode uint8) *cpu.Instruction, memory []uint8, start uint16, count int) []Line {
	var lines []Line
	pc := int(start)

	for i := 0; i < count; i++ {
		if pc >= len(memory) {
			break
		}
		opcode := memory[pc]
		instr := lookup(opcode)

		name := "???"
		size := 1
		if instr != nil {
			name = instr.Name
			size = int(instr.Bytes)
		}

		var operand string
		switch size {
		case 2:
			if pc+1 < len(memory) {
				operand = fmt.Sprintf(" $%02X", memory[pc+1])
			} else {
				operand = " ??"
			}
		case 3:
			if pc+2 < len(memory) {
				operand = fmt.Sprintf(" $%02X%02X", memory[pc+2], memory[pc+1])
			} else {
				operand = " ????"
			}
		}

		lines = append(lines, Line{Offset: uint16(pc), Text: name + operand})
		pc += size
		if size == 0 {
			pc++
		}
	}
	return lines
}

// Cheat is a decoded memory patch: write Value to Address, optionally only
// when the current byte there equals Compare first (Pro Action Replay-style
// conditional patches carry a compare byte; Game Genie 6-letter codes and
// raw codes do not).
type Cheat struct {
	Address     uint16
	Value       uint8
	Compare     *uint8
	Enabled     bool
	Description string
}

var gameGenieAlphabet = map[byte]uint8{
	'A': 0x0, 'P': 0x1, 'Z': 0x2, 'L': 0x3,
	'G': 0x4, 'I': 0x5, 'T': 0x6, 'Y': 0x7,
	'E': 0x8, 'O': 0x9, 'X': 0xA, 'U': 0xB,
	'K': 0xC, 'S': 0xD, 'V': 0xE, 'N': 0xF,
}

// DecodeGameGenie decodes a 6- or 8-letter Game Genie code into a Cheat.
// 8-letter codes carry a compare byte: the patch only applies while the
// byte at Address currently equals it.
func DecodeGameGenie(code string) (*Cheat, error) {
	clean := strings.ToUpper(strings.ReplaceAll(code, "-", ""))
	if len(clean) != 6 && len(clean) != 8 {
		return nil, fmt.Errorf("debug: game genie code must be 6 or 8 letters, got %q", code)
	}

	chars := make([]uint8, len(clean))
	for i := 0; i < len(clean); i++ {
		v, ok := gameGenieAlphabet[clean[i]]
		if !ok {
			return nil, fmt.Errorf("debug: invalid game genie letter %q in %q", clean[i], code)
		}
		chars[i] = v
	}

	address := 0x8000 |
		(uint16(chars[3]&0x7) << 12) |
		(uint16(chars[5]&0x7) << 8) |
		(uint16(chars[4]&0x8) << 8) |
		(uint16(chars[2]&0x7) << 4) |
		(uint16(chars[1]&0x8) << 4) |
		uint16(chars[4]&0x7) |
		uint16(chars[3]&0x8)

	value := (chars[1]&0x7)<<4 | (chars[0]&0x8)<<4 | (chars[0] & 0x7) | (chars[5] & 0x8)

	var compare *uint8
	if len(clean) == 8 {
		value = value&^0x8 | chars[7]&0x8
		c := (chars[7]&0x7)<<4 | (chars[6]&0x8)<<4 | (chars[6] & 0x7) | (chars[5] & 0x8)
		compare = &c
	}

	return &Cheat{
		Address:     address,
		Value:       value,
		Compare:     compare,
		Enabled:     true,
		Description: clean,
	}, nil
}

// DecodeRaw decodes a Pro Action Replay-style "AAAA:VV" address:value code.
func DecodeRaw(code string) (*Cheat, error) {
	parts := strings.Split(code, ":")
	if len(parts) != 2 {
		return nil, fmt.Errorf("debug: raw cheat code must be AAAA:VV, got %q", code)
	}
	address, err := strconv.ParseUint(parts[0], 16, 16)
	if err != nil {
		return nil, fmt.Errorf("debug: invalid address in %q: %w", code, err)
	}
	value, err := strconv.ParseUint(parts[1], 16, 8)
	if err != nil {
		return nil, fmt.Errorf("debug: invalid value in %q: %w", code, err)
	}
	return &Cheat{
		Address:     uint16(address),
		Value:       uint8(value),
		Enabled:     true,
		Description: code,
	}, nil
}
