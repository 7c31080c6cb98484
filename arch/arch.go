// Package arch defines the CHIP-8 instruction set and machine layout
// along with some related helper functions.
package arch

// Memory layout constants.
const (
	MemoryCapacity = 0x1000 // Total memory capacity in bytes.
	FontStart      = 0      // Address of the built-in glyph table.
	GlyphSize      = 5      // Size of a single glyph sprite in bytes.
	GlyphCount     = 16     // Number of glyphs in the font table.
	StackStart     = 82     // Address of the call stack window.
	StackCapacity  = 32     // Size of the call stack window in bytes.
	ProgramStart   = 0x200  // Address at which programs are loaded.
)

// Display dimensions in pixels.
const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

// KeyCount is the number of keys on the hexadecimal keypad.
const KeyCount = 16
