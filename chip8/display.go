package chip8

import (
	"github.com/hexaflex/chip8/arch"
)

// Display is the monochrome framebuffer. Pixels are stored one byte per
// pixel in row-major order, holding 0 or 1, so the buffer can be handed
// to a renderer as a single-channel texture without repacking.
type Display struct {
	pix     []byte
	width   int
	height  int
	changed func()
}

// NewDisplay creates a cleared display. The changed handler, if not nil,
// is invoked after every mutation of the pixel buffer.
func NewDisplay(changed func()) *Display {
	if changed == nil {
		changed = func() { /* nop */ }
	}

	return &Display{
		pix:     make([]byte, arch.DisplayWidth*arch.DisplayHeight),
		width:   arch.DisplayWidth,
		height:  arch.DisplayHeight,
		changed: changed,
	}
}

// Width returns the display width in pixels.
func (d *Display) Width() int { return d.width }

// Height returns the display height in pixels.
func (d *Display) Height() int { return d.height }

// Pixel returns true if the pixel at the given coordinates is set.
func (d *Display) Pixel(x, y int) bool {
	return d.pix[y*d.width+x] != 0
}

// Pixels returns the raw pixel buffer. Callers must treat it as read-only.
func (d *Display) Pixels() []byte { return d.pix }

// Clear unsets every pixel.
func (d *Display) Clear() {
	for i := range d.pix {
		d.pix[i] = 0
	}
	d.changed()
}

// DrawSprite XORs the given sprite into the display at (x, y). Each byte
// is one sprite row, most significant bit leftmost. Coordinates wrap
// around the display edges. Returns true if any pixel was unset by the
// draw, which is the collision signal.
func (d *Display) DrawSprite(x, y int, sprite []byte) bool {
	var collision bool

	for row, bits := range sprite {
		py := (y + row) % d.height

		for col := 0; col < 8; col++ {
			if bits&(0x80>>uint(col)) == 0 {
				continue
			}

			px := (x + col) % d.width
			i := py*d.width + px

			if d.pix[i] != 0 {
				d.pix[i] = 0
				collision = true
			} else {
				d.pix[i] = 1
			}
		}
	}

	d.changed()
	return collision
}
