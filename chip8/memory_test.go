package chip8

import (
	"testing"

	"github.com/hexaflex/chip8/arch"
)

func TestMemoryBounds(t *testing.T) {
	m := NewMemory()

	if err := m.SetU8(arch.MemoryCapacity, 1); err == nil {
		t.Fatal("expected out of bounds write to fail")
	}

	if _, err := m.U8(-1); err == nil {
		t.Fatal("expected negative read to fail")
	}

	if _, err := m.U16(arch.MemoryCapacity - 1); err == nil {
		t.Fatal("expected straddling word read to fail")
	}

	var buf [16]byte
	err := m.Read(arch.MemoryCapacity-8, buf[:])
	oob, ok := err.(*OutOfBoundsError)
	if !ok {
		t.Fatalf("expected OutOfBoundsError; have %v", err)
	}
	if oob.Addr != arch.MemoryCapacity-8 || oob.Size != 16 {
		t.Fatalf("error context mismatch: %v", oob)
	}
}

func TestMemoryWordOrder(t *testing.T) {
	m := NewMemory()

	if err := m.SetU16(0x300, 0x1234); err != nil {
		t.Fatalf("SetU16 failure: %v", err)
	}

	if m[0x300] != 0x12 || m[0x301] != 0x34 {
		t.Fatal("words must be stored big-endian")
	}

	w, err := m.U16(0x300)
	if err != nil || w != 0x1234 {
		t.Fatalf("U16 mismatch: %#04x, %v", w, err)
	}
}

func TestLoadFont(t *testing.T) {
	m := NewMemory()

	if err := m.LoadFont(arch.FontSprites[:]); err != nil {
		t.Fatalf("LoadFont failure: %v", err)
	}

	// Glyph '0' starts with $f0 at the font offset.
	b, err := m.U8(arch.FontStart)
	if err != nil || b != 0xf0 {
		t.Fatalf("font table mismatch: %#02x, %v", b, err)
	}
}

func TestLoadProgram(t *testing.T) {
	m := NewMemory()

	if err := m.LoadProgram([]byte{0xaa, 0xbb}); err != nil {
		t.Fatalf("LoadProgram failure: %v", err)
	}

	if m[arch.ProgramStart] != 0xaa || m[arch.ProgramStart+1] != 0xbb {
		t.Fatal("program not loaded at the program start address")
	}

	// A program larger than the remaining store must be rejected whole.
	huge := make([]byte, arch.MemoryCapacity-arch.ProgramStart+1)
	if err := m.LoadProgram(huge); err == nil {
		t.Fatal("expected oversized program load to fail")
	}
}
