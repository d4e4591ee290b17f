package bus_test

import (
	"testing"

	"gones/internal/bus"
	"gones/internal/controller"
	"gones/internal/cpu"
	"gones/internal/testrom"
)

func newSystem(t *testing.T, code ...uint8) (*bus.Bus, *cpu.CPU) {
	t.Helper()
	cart, err := testrom.New().Code(code...).BuildCartridge()
	if err != nil {
		t.Fatal(err)
	}
	b := bus.New()
	c := cpu.New(b)
	b.AttachCPU(c)
	b.LoadCartridge(cart)
	b.Reset()
	return b, c
}

func TestRAMIsMirroredAcrossFourPages(t *testing.T) {
	b, _ := newSystem(t, 0xea)
	b.Write(0x0001, 0x42)
	for _, mirror := range []uint16{0x0001, 0x0801, 0x1001, 0x1801} {
		if got := b.Read(mirror); got != 0x42 {
			t.Fatalf("mirror %#x: got %#x want 0x42", mirror, got)
		}
	}
}

func TestPPURegistersAreMirroredEveryEightBytes(t *testing.T) {
	b, _ := newSystem(t, 0xea)
	b.Write(0x2000, 0x80)
	if got := b.Read(0x2002); got&0x80 != 0 {
		t.Fatal("PPUSTATUS should not echo PPUCTRL's bit 7")
	}
	b.Write(0x2008, 0x00) // mirror of $2000
	if got := b.Read(0x200a); got != b.Read(0x2002) {
		t.Fatal("register mirroring every 8 bytes failed")
	}
}

func TestEachAccessTicksPPUThreeDots(t *testing.T) {
	b, _ := newSystem(t, 0xea)
	startScanline := b.PPU().GetScanline()
	startCycle := b.PPU().GetCycle()
	b.Read(0x0000)
	endCycle := b.PPU().GetCycle()
	endScanline := b.PPU().GetScanline()
	advanced := (endScanline-startScanline)*341 + (endCycle - startCycle)
	if advanced != 3 {
		t.Fatalf("one bus access should advance the PPU exactly 3 dots, advanced %d", advanced)
	}
}

func TestOAMDMACopies256BytesAndStallsCPU(t *testing.T) {
	b, _ := newSystem(t, 0xea)
	for i := 0; i < 256; i++ {
		b.Write(0x0200+uint16(i), uint8(i))
	}
	before := b.Cycles()
	b.Write(0x4014, 0x02) // DMA source page 2 ($0200-$02FF)
	stalled := b.StallCycles()
	if stalled != 513 && stalled != 514 {
		t.Fatalf("expected 513 or 514 stall cycles, got %d", stalled)
	}
	b.Tick(stalled)
	if b.Cycles()-before != uint64(stalled)+1 {
		t.Fatalf("expected %d ticks consumed, got %d", stalled+1, b.Cycles()-before)
	}
	b.Write(0x2003, 0x00)
	if got := b.Read(0x2004); got != 0x00 {
		t.Fatalf("OAM[0]: got %#x want 0x00", got)
	}
}

func TestControllerStrobeReadsThroughBus(t *testing.T) {
	b, _ := newSystem(t, 0xea)
	b.Controller().SetButton(controller.A, true)
	b.Write(0x4016, 0x01)
	b.Write(0x4016, 0x00)
	if got := b.Read(0x4016); got&1 != 1 {
		t.Fatal("expected A pressed on first controller read")
	}
	if got := b.Read(0x4016); got&1 != 0 {
		t.Fatal("expected B released on second controller read")
	}
}

func TestCartridgePRGIsReachableAboveDollar8000(t *testing.T) {
	b, _ := newSystem(t, 0xa9, 0x42) // LDA #$42
	if got := b.Read(0x8000); got != 0xa9 {
		t.Fatalf("got %#x want 0xa9", got)
	}
}
