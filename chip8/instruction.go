package chip8

import (
	"fmt"

	"github.com/hexaflex/chip8/arch"
)

// Instruction defines decoded instruction data. The operand fields are
// extracted from fixed nibble positions of the two-byte word: X from
// bits 8-11, Y from bits 4-7, N from bits 0-3, NN from bits 0-7 and NNN
// from bits 0-11.
type Instruction struct {
	Addr int    // Address the word was fetched from.
	Word uint16 // Raw instruction word.
	Op   int    // Opcode per the arch package.
	X    int    // First register operand.
	Y    int    // Second register operand.
	N    byte   // Nibble operand.
	NN   byte   // Byte operand.
	NNN  int    // Address operand.
}

// Fetch reads the big-endian instruction word at the given address.
func (i *Instruction) Fetch(m Memory, addr int) error {
	word, err := m.U16(addr)
	if err != nil {
		return err
	}

	i.Addr = addr
	i.Word = word
	return nil
}

// Decode matches the fetched word against the known opcode patterns and
// extracts its operands. Returns an UnimplementedError if no pattern
// matches; no machine state is touched in that case.
func (i *Instruction) Decode() error {
	i.X = int(i.Word>>8) & 0xf
	i.Y = int(i.Word>>4) & 0xf
	i.N = byte(i.Word) & 0xf
	i.NN = byte(i.Word)
	i.NNN = int(i.Word) & 0xfff

	switch i.Word >> 12 {
	case 0x0:
		switch i.Word {
		case 0x00e0:
			i.Op = arch.CLS
		case 0x00ee:
			i.Op = arch.RET
		default:
			return &UnimplementedError{i.Word, i.Addr}
		}
	case 0x1:
		i.Op = arch.JP
	case 0x2:
		i.Op = arch.CALL
	case 0x3:
		i.Op = arch.SEC
	case 0x4:
		i.Op = arch.SNEC
	case 0x5:
		if i.N != 0 {
			return &UnimplementedError{i.Word, i.Addr}
		}
		i.Op = arch.SER
	case 0x6:
		i.Op = arch.LDC
	case 0x7:
		i.Op = arch.ADDC
	case 0x8:
		switch i.N {
		case 0x0:
			i.Op = arch.LDR
		case 0x1:
			i.Op = arch.OR
		case 0x2:
			i.Op = arch.AND
		case 0x3:
			i.Op = arch.XOR
		case 0x4:
			i.Op = arch.ADDR
		case 0x5:
			i.Op = arch.SUB
		case 0x6:
			i.Op = arch.SHR
		case 0x7:
			i.Op = arch.SUBN
		case 0xe:
			i.Op = arch.SHL
		default:
			return &UnimplementedError{i.Word, i.Addr}
		}
	case 0x9:
		if i.N != 0 {
			return &UnimplementedError{i.Word, i.Addr}
		}
		i.Op = arch.SNER
	case 0xa:
		i.Op = arch.LDI
	case 0xb:
		i.Op = arch.JPV
	case 0xc:
		i.Op = arch.RND
	case 0xd:
		i.Op = arch.DRW
	case 0xe:
		switch i.NN {
		case 0x9e:
			i.Op = arch.SKP
		case 0xa1:
			i.Op = arch.SKNP
		default:
			return &UnimplementedError{i.Word, i.Addr}
		}
	case 0xf:
		switch i.NN {
		case 0x07:
			i.Op = arch.LDDT
		case 0x0a:
			i.Op = arch.LDK
		case 0x15:
			i.Op = arch.STDT
		case 0x18:
			i.Op = arch.STST
		case 0x1e:
			i.Op = arch.ADDI
		case 0x29:
			i.Op = arch.LDF
		case 0x33:
			i.Op = arch.BCD
		case 0x55:
			i.Op = arch.STM
		case 0x65:
			i.Op = arch.LDM
		default:
			return &UnimplementedError{i.Word, i.Addr}
		}
	}

	return nil
}

// String returns a human readable form of the instruction, suitable for
// trace output.
func (i *Instruction) String() string {
	name, ok := arch.Name(i.Op)
	if !ok {
		return fmt.Sprintf("%04x %04x ???", i.Addr, i.Word)
	}

	var operands string

	switch i.Op {
	case arch.CLS, arch.RET:
		// No operands.
	case arch.JP, arch.CALL:
		operands = fmt.Sprintf("%03x", i.NNN)
	case arch.JPV:
		operands = fmt.Sprintf("V0, %03x", i.NNN)
	case arch.SEC, arch.SNEC, arch.LDC, arch.ADDC, arch.RND:
		operands = fmt.Sprintf("%s, %02x", arch.RegisterName(i.X), i.NN)
	case arch.SER, arch.SNER, arch.LDR, arch.OR, arch.AND, arch.XOR,
		arch.ADDR, arch.SUB, arch.SUBN:
		operands = fmt.Sprintf("%s, %s", arch.RegisterName(i.X), arch.RegisterName(i.Y))
	case arch.SHR, arch.SHL, arch.SKP, arch.SKNP:
		operands = arch.RegisterName(i.X)
	case arch.LDI:
		operands = fmt.Sprintf("I, %03x", i.NNN)
	case arch.DRW:
		operands = fmt.Sprintf("%s, %s, %x", arch.RegisterName(i.X), arch.RegisterName(i.Y), i.N)
	case arch.LDDT:
		operands = fmt.Sprintf("%s, DT", arch.RegisterName(i.X))
	case arch.LDK:
		operands = fmt.Sprintf("%s, K", arch.RegisterName(i.X))
	case arch.STDT:
		operands = fmt.Sprintf("DT, %s", arch.RegisterName(i.X))
	case arch.STST:
		operands = fmt.Sprintf("ST, %s", arch.RegisterName(i.X))
	case arch.ADDI:
		operands = fmt.Sprintf("I, %s", arch.RegisterName(i.X))
	case arch.LDF:
		operands = fmt.Sprintf("F, %s", arch.RegisterName(i.X))
	case arch.BCD:
		operands = fmt.Sprintf("B, %s", arch.RegisterName(i.X))
	case arch.STM:
		operands = fmt.Sprintf("[I], %s", arch.RegisterName(i.X))
	case arch.LDM:
		operands = fmt.Sprintf("%s, [I]", arch.RegisterName(i.X))
	}

	return fmt.Sprintf("%04x %04x %5s %s", i.Addr, i.Word, name, operands)
}
