package controller_test

import (
	"testing"

	"gones/internal/controller"
)

func TestRoundTripAHeld(t *testing.T) {
	c := controller.New()
	c.SetButton(controller.A, true)

	c.Write(1)
	c.Write(0)

	if got := c.Read() & 1; got != 1 {
		t.Fatalf("first read: got %d want 1", got)
	}
	for i := 0; i < 7; i++ {
		if got := c.Read() & 1; got != 0 {
			t.Fatalf("subsequent read %d: got %d want 0 (button released)", i, got)
		}
	}
}

func TestRoundTripAAndRight(t *testing.T) {
	c := controller.New()
	c.SetButton(controller.A, true)
	c.SetButton(controller.Right, true)

	c.Write(0x01)
	c.Write(0x00)

	want := []uint8{1, 0, 0, 0, 0, 0, 0, 1}
	for i, w := range want {
		if got := c.Read() & 1; got != w {
			t.Fatalf("read %d: got %d want %d", i, got, w)
		}
	}
}

func TestBit6AlwaysSet(t *testing.T) {
	c := controller.New()
	if got := c.Read() & 0x40; got == 0 {
		t.Fatal("bit 6 should always be set")
	}
	c.Write(1)
	if got := c.Read() & 0x40; got == 0 {
		t.Fatal("bit 6 should always be set while strobing")
	}
}

func TestStrobeHighAlwaysReturnsA(t *testing.T) {
	c := controller.New()
	c.SetButton(controller.A, true)
	c.Write(1)
	for i := 0; i < 3; i++ {
		if got := c.Read() & 1; got != 1 {
			t.Fatalf("read %d while strobing: got %d want 1", i, got)
		}
	}
	c.SetButton(controller.A, false)
	if got := c.Read() & 1; got != 0 {
		t.Fatal("strobe high should reflect live button state")
	}
}

func TestResetClearsState(t *testing.T) {
	c := controller.New()
	c.SetButton(controller.A, true)
	c.Write(1)
	c.Write(0)
	c.Reset()
	if got := c.Read() & 1; got != 0 {
		t.Fatalf("after reset: got %d want 0", got)
	}
}
