package cartridge_test

import (
	"testing"

	"gones/internal/cartridge"
	"gones/internal/testrom"
)

func TestLoadRejectsShortFile(t *testing.T) {
	if _, err := cartridge.Load([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for short file")
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	data := testrom.New().Build()
	data[0] = 'X'
	if _, err := cartridge.Load(data); err == nil {
		t.Fatal("expected error for bad magic")
	}
}

func TestNROMPRGRoundTrip(t *testing.T) {
	code := make([]uint8, 16384)
	for i := range code {
		code[i] = uint8(i)
	}
	cart, err := testrom.New().PRGBanks(1).Code(code...).BuildCartridge()
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 0x4000-6; i++ {
		got := cart.ReadPRG(uint16(0x8000 + i))
		if got != uint8(i) {
			t.Fatalf("offset %d: got %d want %d", i, got, uint8(i))
		}
	}
}

func TestNROM16KMirrored(t *testing.T) {
	cart, err := testrom.New().PRGBanks(1).At(0x8000, 0x42).BuildCartridge()
	if err != nil {
		t.Fatal(err)
	}
	if got := cart.ReadPRG(0x8000); got != 0x42 {
		t.Fatalf("got %d", got)
	}
	if got := cart.ReadPRG(0xc000); got != 0x42 {
		t.Fatalf("mirrored read got %d, want 0x42", got)
	}
}

func TestSRAMReadWrite(t *testing.T) {
	cart, err := testrom.New().BuildCartridge()
	if err != nil {
		t.Fatal(err)
	}
	cart.WritePRG(0x6123, 0x99)
	if got := cart.ReadPRG(0x6123); got != 0x99 {
		t.Fatalf("got %d", got)
	}
}

func TestUxROMBankSwitch(t *testing.T) {
	// 4 banks of 16KB, each filled with its bank index.
	code := make([]uint8, 0)
	for bank := 0; bank < 4; bank++ {
		b := make([]uint8, 16384)
		for i := range b {
			b[i] = uint8(bank)
		}
		code = append(code, b...)
	}
	cfg := testrom.Config{
		PRGBanks:    4,
		CHRBanks:    0,
		MapperID:    2,
		Mirroring:   cartridge.MirrorHorizontal,
		ResetVector: 0x8000,
		IRQVector:   0x8000,
		NMIVector:   0x8000,
	}
	data := testrom.Generate(cfg)
	// Overwrite PRG payload with our per-bank pattern (Generate only seeds Code/Data).
	copy(data[16:16+len(code)], code)
	cart, err := cartridge.Load(data)
	if err != nil {
		t.Fatal(err)
	}

	if got := cart.ReadPRG(0xc000); got != 3 {
		t.Fatalf("fixed last bank: got %d want 3", got)
	}
	cart.WritePRG(0x8000, 1)
	if got := cart.ReadPRG(0x8000); got != 1 {
		t.Fatalf("switched bank: got %d want 1", got)
	}
	if got := cart.ReadPRG(0xc000); got != 3 {
		t.Fatalf("fixed bank changed: got %d want 3", got)
	}
}

func TestCNROMCHRBankSwitch(t *testing.T) {
	chr := make([]uint8, 0)
	for bank := 0; bank < 2; bank++ {
		b := make([]uint8, 8192)
		for i := range b {
			b[i] = uint8(bank + 1)
		}
		chr = append(chr, b...)
	}
	data := testrom.Generate(testrom.Config{
		PRGBanks:    1,
		CHRBanks:    2,
		MapperID:    3,
		ResetVector: 0x8000,
	})
	copy(data[16+16384:], chr)
	cart, err := cartridge.Load(data)
	if err != nil {
		t.Fatal(err)
	}
	if got := cart.ReadCHR(0); got != 1 {
		t.Fatalf("bank0: got %d", got)
	}
	cart.WritePRG(0x8000, 1)
	if got := cart.ReadCHR(0); got != 2 {
		t.Fatalf("bank1: got %d", got)
	}
}

func TestMMC1ShiftRegisterControl(t *testing.T) {
	code := make([]uint8, 0)
	for bank := 0; bank < 4; bank++ {
		b := make([]uint8, 16384)
		for i := range b {
			b[i] = uint8(bank)
		}
		code = append(code, b...)
	}
	data := testrom.Generate(testrom.Config{PRGBanks: 4, CHRBanks: 0, MapperID: 1, ResetVector: 0x8000})
	copy(data[16:16+len(code)], code)
	cart, err := cartridge.Load(data)
	if err != nil {
		t.Fatal(err)
	}

	// Power-on default is PRG mode 3 (fix last bank at $C000): verify before
	// any writes.
	if got := cart.ReadPRG(0xc000); got != 3 {
		t.Fatalf("power-on last bank fixed: got %d want 3", got)
	}

	// Select control register value 0x0C (mode 3, single-screen lower) by
	// shifting 5 bits LSB-first: 0x0C = 0b01100 -> bits 0,0,1,1,0.
	writeSerial(cart, 0x8000, 0x0c)
	// Select PRG bank 2 via the $E000 register.
	writeSerial(cart, 0xe000, 0x02)

	if got := cart.ReadPRG(0x8000); got != 2 {
		t.Fatalf("switched bank: got %d want 2", got)
	}
	if got := cart.ReadPRG(0xc000); got != 3 {
		t.Fatalf("fixed last bank: got %d want 3", got)
	}
}

func writeSerial(cart *cartridge.Cartridge, addr uint16, value uint8) {
	for i := 0; i < 5; i++ {
		cart.WritePRG(addr, (value>>i)&1)
	}
}

func TestMMC3IRQCounter(t *testing.T) {
	data := testrom.Generate(testrom.Config{PRGBanks: 2, CHRBanks: 2, MapperID: 4, ResetVector: 0x8000})
	cart, err := cartridge.Load(data)
	if err != nil {
		t.Fatal(err)
	}
	cart.WritePRG(0xc000, 4) // IRQ latch = 4
	cart.WritePRG(0xc001, 0) // reload
	cart.WritePRG(0xe001, 0) // enable

	// The first clock after a reload loads the latch (4); the next four
	// decrement it to zero, so the IRQ is raised on the fifth clock.
	for i := 0; i < 5; i++ {
		if cart.IRQPending() {
			t.Fatalf("IRQ fired early at clock %d", i)
		}
		cart.ClockScanline()
	}
	if !cart.IRQPending() {
		t.Fatal("expected IRQ pending after counter reaches zero")
	}
	cart.AckIRQ()
	if cart.IRQPending() {
		t.Fatal("IRQ still pending after AckIRQ")
	}
}

func TestUnsupportedMapperDoesNotPanic(t *testing.T) {
	data := testrom.Generate(testrom.Config{PRGBanks: 1, MapperID: 250, ResetVector: 0x8000})
	cart, err := cartridge.Load(data)
	if err != nil {
		t.Fatal(err)
	}
	if got := cart.ReadPRG(0x8000); got != 0 {
		t.Fatalf("unsupported mapper should read 0, got %d", got)
	}
	cart.WritePRG(0x8000, 0xff) // must not panic
}
