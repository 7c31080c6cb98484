package chip8

import (
	"github.com/hexaflex/chip8/arch"
)

// Memory defines the machine's memory bank. The first 512 bytes are
// reserved for the interpreter: the glyph font table and the call stack
// window live there. Programs occupy the rest, starting at 0x200.
type Memory []byte

// NewMemory creates a zeroed memory bank.
func NewMemory() Memory {
	return make(Memory, arch.MemoryCapacity)
}

// U8 returns the byte at the given address.
func (m Memory) U8(addr int) (byte, error) {
	if addr < 0 || addr >= len(m) {
		return 0, &OutOfBoundsError{addr, 1}
	}
	return m[addr], nil
}

// SetU8 sets the byte at the given address.
func (m Memory) SetU8(addr int, value byte) error {
	if addr < 0 || addr >= len(m) {
		return &OutOfBoundsError{addr, 1}
	}
	m[addr] = value
	return nil
}

// U16 returns the big-endian 16-bit value at the given address.
func (m Memory) U16(addr int) (uint16, error) {
	if addr < 0 || addr+2 > len(m) {
		return 0, &OutOfBoundsError{addr, 2}
	}
	return uint16(m[addr])<<8 | uint16(m[addr+1]), nil
}

// SetU16 sets the big-endian 16-bit value at the given address.
func (m Memory) SetU16(addr int, value uint16) error {
	if addr < 0 || addr+2 > len(m) {
		return &OutOfBoundsError{addr, 2}
	}
	m[addr] = byte(value >> 8)
	m[addr+1] = byte(value)
	return nil
}

// Read reads len(p) bytes from memory into p, starting at the given address.
func (m Memory) Read(addr int, p []byte) error {
	if addr < 0 || addr+len(p) > len(m) {
		return &OutOfBoundsError{addr, len(p)}
	}
	copy(p, m[addr:])
	return nil
}

// Write writes len(p) bytes from p into memory, starting at the given address.
func (m Memory) Write(addr int, p []byte) error {
	if addr < 0 || addr+len(p) > len(m) {
		return &OutOfBoundsError{addr, len(p)}
	}
	copy(m[addr:], p)
	return nil
}

// LoadFont writes the glyph font table into the reserved interpreter region.
func (m Memory) LoadFont(font []byte) error {
	return m.Write(arch.FontStart, font)
}

// LoadProgram writes program bytes starting at the program load address.
func (m Memory) LoadProgram(program []byte) error {
	return m.Write(arch.ProgramStart, program)
}
