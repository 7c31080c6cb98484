package chip8

import (
	"testing"

	"github.com/hexaflex/chip8/arch"
)

func TestDrawSpriteXOR(t *testing.T) {
	d := NewDisplay(nil)
	sprite := []byte{0xf0, 0x90, 0x90, 0x90, 0xf0}

	if d.DrawSprite(4, 2, sprite) {
		t.Fatal("draw onto a blank display must not collide")
	}

	if !d.Pixel(4, 2) || !d.Pixel(7, 2) || d.Pixel(8, 2) {
		t.Fatal("sprite row 0 not blitted MSB first")
	}

	// Drawing the same sprite again erases it and reports a collision.
	if !d.DrawSprite(4, 2, sprite) {
		t.Fatal("overdraw must collide")
	}

	for i, p := range d.Pixels() {
		if p != 0 {
			t.Fatalf("pixel %d still set after overdraw", i)
		}
	}
}

func TestDrawSpriteWraps(t *testing.T) {
	d := NewDisplay(nil)

	// A single-row sprite at the far corner wraps to the origin.
	d.DrawSprite(arch.DisplayWidth-2, arch.DisplayHeight-1, []byte{0xc0, 0xc0})

	if !d.Pixel(arch.DisplayWidth-2, arch.DisplayHeight-1) ||
		!d.Pixel(arch.DisplayWidth-1, arch.DisplayHeight-1) {
		t.Fatal("expected pixels at the far corner")
	}

	if !d.Pixel(arch.DisplayWidth-2, 0) || !d.Pixel(arch.DisplayWidth-1, 0) {
		t.Fatal("expected vertical wraparound to row 0")
	}
}

func TestClear(t *testing.T) {
	var changes int
	d := NewDisplay(func() { changes++ })

	d.DrawSprite(0, 0, []byte{0xff})
	d.Clear()

	for i, p := range d.Pixels() {
		if p != 0 {
			t.Fatalf("pixel %d still set after clear", i)
		}
	}

	if changes != 2 {
		t.Fatalf("expected 2 change notifications; have %d", changes)
	}
}

func TestDrawSpriteAlwaysNotifies(t *testing.T) {
	var changes int
	d := NewDisplay(func() { changes++ })

	// Even a draw with no set bits raises the change notification.
	d.DrawSprite(0, 0, []byte{0x00})

	if changes != 1 {
		t.Fatalf("expected 1 change notification; have %d", changes)
	}
}
