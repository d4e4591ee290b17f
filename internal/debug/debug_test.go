package debug_test

import (
	"testing"

	"gones/internal/debug"
	"gones/internal/nes"
	"gones/internal/testrom"
)

func newConsole(t *testing.T) *nes.Console {
	t.Helper()
	c := nes.New()
	if err := c.LoadROM(testrom.New().Code(0xea).Build()); err != nil {
		t.Fatal(err)
	}
	return c
}

func TestPeekPokeRoundTripsThroughEachRegion(t *testing.T) {
	c := newConsole(t)
	e := debug.New(c)

	cases := []struct {
		region debug.Region
		addr   uint16
	}{
		{debug.Ram, 0x0010},
		{debug.Vram, 0x0100},
		{debug.Oam, 0x0004},
		{debug.Palette, 0x0003},
		{debug.PrgRam, 0x0000},
		{debug.Chr, 0x0010},
	}
	for _, tc := range cases {
		e.Poke(tc.region, tc.addr, 0x42)
		if got := e.Peek(tc.region, tc.addr); got != 0x42 {
			t.Fatalf("%s: poke/peek round trip: got %#x want 0x42", tc.region, got)
		}
	}
}

func TestPrgRomReflectsCartridgeSize(t *testing.T) {
	c := newConsole(t)
	e := debug.New(c)
	if got := e.RegionSize(debug.PrgRom); got != 16384 {
		t.Fatalf("expected a one-bank NROM image to report 16384 bytes of PRG-ROM, got %d", got)
	}
}

func TestSearchNarrowsAcrossTwoConditions(t *testing.T) {
	c := newConsole(t)
	e := debug.New(c)

	e.Poke(debug.Ram, 0, 10)
	e.Poke(debug.Ram, 1, 20)
	e.Poke(debug.Ram, 2, 10)

	e.StartSearch(debug.Ram)
	results := e.Search(debug.SearchCondition{Kind: debug.Equal, Value: 10})
	if len(results) != 2 {
		t.Fatalf("expected 2 addresses equal to 10, got %d", len(results))
	}

	e.Poke(debug.Ram, 0, 11)
	e.Poke(debug.Ram, 2, 10) // unchanged

	narrowed := e.FilterSearch(debug.SearchCondition{Kind: debug.Changed})
	if len(narrowed) != 1 || narrowed[0].Address != 0 {
		t.Fatalf("expected only address 0 to have changed, got %+v", narrowed)
	}
}

func TestFilterSearchBetween(t *testing.T) {
	c := newConsole(t)
	e := debug.New(c)

	e.Poke(debug.Ram, 5, 50)
	e.Poke(debug.Ram, 6, 100)
	e.Poke(debug.Ram, 7, 150)

	e.StartSearch(debug.Ram)
	e.Search(debug.SearchCondition{Kind: debug.GreaterThan, Value: 0})
	results := e.FilterSearch(debug.SearchCondition{Kind: debug.Between, Low: 60, High: 120})

	found := false
	for _, r := range results {
		if r.Address == 6 {
			found = true
		}
		if r.Address == 5 || r.Address == 7 {
			t.Fatalf("address %d should have been filtered out of [60,120], got %+v", r.Address, r)
		}
	}
	if !found {
		t.Fatal("address 6 (value 100) should survive the Between(60,120) filter")
	}
}

func TestWatchpointReportsChangeOnce(t *testing.T) {
	c := newConsole(t)
	e := debug.New(c)

	id := e.AddWatchpoint(debug.Ram, 0x20, "counter")
	if changed := e.PollWatchpoints(); len(changed) != 0 {
		t.Fatalf("no writes happened yet, expected no changes, got %+v", changed)
	}

	e.Poke(debug.Ram, 0x20, 7)
	changed := e.PollWatchpoints()
	if len(changed) != 1 || changed[0].ID != id || changed[0].LastValue != 7 {
		t.Fatalf("expected one changed watchpoint with LastValue 7, got %+v", changed)
	}

	if changed := e.PollWatchpoints(); len(changed) != 0 {
		t.Fatalf("value settled, second poll should report no changes, got %+v", changed)
	}

	if !e.RemoveWatchpoint(id) {
		t.Fatal("RemoveWatchpoint should report true for a watchpoint that exists")
	}
	if e.RemoveWatchpoint(id) {
		t.Fatal("RemoveWatchpoint should report false the second time")
	}
}

func TestDisassembleUsesCPUOpcodeTable(t *testing.T) {
	c := newConsole(t)
	code := []uint8{0xa9, 0x05, 0x85, 0x10, 0xea, 0x4c, 0x00, 0x80}
	lines := debug.Disassemble(c.CPU().Lookup, code, 0, 4)

	want := []string{"LDA $05", "STA $10", "NOP", "JMP $8000"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d disassembled lines, got %d: %+v", len(want), len(lines), lines)
	}
	for i, w := range want {
		if lines[i].Text != w {
			t.Fatalf("line %d: got %q want %q", i, lines[i].Text, w)
		}
	}
}

func TestDisassembleUnmappedOpcodeFallsBackToOneByte(t *testing.T) {
	c := newConsole(t)
	// 0x02 is one of this table's unmapped opcodes (halts on real hardware,
	// decoded as a fallback 2-cycle NOP by Step).
	code := []uint8{0x02, 0xea}
	lines := debug.Disassemble(c.CPU().Lookup, code, 0, 2)
	if lines[0].Text != "???" {
		t.Fatalf("expected unmapped opcode to render as ???, got %q", lines[0].Text)
	}
	if lines[1].Offset != 1 {
		t.Fatalf("unmapped opcode should still advance by one byte, next offset got %d", lines[1].Offset)
	}
}

func TestDecodeGameGenieSixLetterCode(t *testing.T) {
	cheat, err := debug.DecodeGameGenie("SXIOPO")
	if err != nil {
		t.Fatalf("unexpected error decoding a valid 6-letter code: %v", err)
	}
	if cheat.Compare != nil {
		t.Fatal("a 6-letter code should not carry a compare byte")
	}
	if !cheat.Enabled {
		t.Fatal("a freshly decoded cheat should start enabled")
	}
}

func TestDecodeGameGenieEightLetterCodeCarriesCompare(t *testing.T) {
	cheat, err := debug.DecodeGameGenie("SXIOPOZZ")
	if err != nil {
		t.Fatalf("unexpected error decoding a valid 8-letter code: %v", err)
	}
	if cheat.Compare == nil {
		t.Fatal("an 8-letter code should carry a compare byte")
	}
}

func TestDecodeGameGenieRejectsBadLength(t *testing.T) {
	if _, err := debug.DecodeGameGenie("AAAA"); err == nil {
		t.Fatal("expected an error for a 4-letter code")
	}
}

func TestDecodeGameGenieRejectsInvalidLetters(t *testing.T) {
	if _, err := debug.DecodeGameGenie("BBBBBB"); err == nil {
		t.Fatal("'B' is not in the game genie alphabet, expected an error")
	}
}

func TestDecodeRawCode(t *testing.T) {
	cheat, err := debug.DecodeRaw("6000:FF")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cheat.Address != 0x6000 || cheat.Value != 0xff {
		t.Fatalf("got address %#x value %#x", cheat.Address, cheat.Value)
	}
	if cheat.Compare != nil {
		t.Fatal("a raw address:value code never carries a compare byte")
	}
}

func TestDecodeRawRejectsMalformedInput(t *testing.T) {
	if _, err := debug.DecodeRaw("not-a-code"); err == nil {
		t.Fatal("expected an error for input without exactly one colon")
	}
	if _, err := debug.DecodeRaw("ZZZZ:01"); err == nil {
		t.Fatal("expected an error for a non-hex address")
	}
}
