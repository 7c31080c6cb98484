package arch

// Known opcodes. Each value identifies one decode pattern of the
// two-byte instruction word.
const (
	CLS  = iota // 00E0: clear the display.
	RET         // 00EE: return from subroutine.
	JP          // 1nnn: jump to address.
	CALL        // 2nnn: call subroutine.
	SEC         // 3xnn: skip if Vx == nn.
	SNEC        // 4xnn: skip if Vx != nn.
	SER         // 5xy0: skip if Vx == Vy.
	LDC         // 6xnn: Vx = nn.
	ADDC        // 7xnn: Vx += nn, no carry.
	LDR         // 8xy0: Vx = Vy.
	OR          // 8xy1: Vx |= Vy.
	AND         // 8xy2: Vx &= Vy.
	XOR         // 8xy3: Vx ^= Vy.
	ADDR        // 8xy4: Vx += Vy, VF = carry.
	SUB         // 8xy5: Vx -= Vy, VF = no borrow.
	SHR         // 8xy6: VF = Vx & 1, Vx >>= 1.
	SUBN        // 8xy7: Vx = Vy - Vx, VF = no borrow.
	SHL         // 8xyE: VF = high bit, Vx <<= 1.
	SNER        // 9xy0: skip if Vx != Vy.
	LDI         // Annn: I = nnn.
	JPV         // Bnnn: jump to nnn + V0.
	RND         // Cxnn: Vx = random byte & nn.
	DRW         // Dxyn: draw n-row sprite from I at (Vx, Vy).
	SKP         // Ex9E: skip if key Vx is pressed.
	SKNP        // ExA1: skip if key Vx is not pressed.
	LDDT        // Fx07: Vx = delay timer.
	LDK         // Fx0A: wait for keypress, store in Vx.
	STDT        // Fx15: delay timer = Vx.
	STST        // Fx18: sound timer = Vx.
	ADDI        // Fx1E: I += Vx, VF = wrap.
	LDF         // Fx29: I = address of glyph for Vx.
	BCD         // Fx33: memory[I..I+3) = decimal digits of Vx.
	STM         // Fx55: memory[I...] = V0..Vx.
	LDM         // Fx65: V0..Vx = memory[I...].
)

// Name returns the mnemonic for the given opcode.
// Returns false if the opcode is not recognized.
func Name(opcode int) (string, bool) {
	switch opcode {
	case CLS:
		return "CLS", true
	case RET:
		return "RET", true
	case JP, JPV:
		return "JP", true
	case CALL:
		return "CALL", true
	case SEC, SER:
		return "SE", true
	case SNEC, SNER:
		return "SNE", true
	case LDC, LDR, LDI, LDDT, LDK, STDT, STST, LDF, BCD, STM, LDM:
		return "LD", true
	case ADDC, ADDR, ADDI:
		return "ADD", true
	case OR:
		return "OR", true
	case AND:
		return "AND", true
	case XOR:
		return "XOR", true
	case SUB:
		return "SUB", true
	case SHR:
		return "SHR", true
	case SUBN:
		return "SUBN", true
	case SHL:
		return "SHL", true
	case RND:
		return "RND", true
	case DRW:
		return "DRW", true
	case SKP:
		return "SKP", true
	case SKNP:
		return "SKNP", true
	}
	return "", false
}

// RegisterName returns the name for the given register index.
func RegisterName(index int) string {
	const names = "0123456789ABCDEF"
	if index < 0 || index > 15 {
		return "V?"
	}
	return "V" + string(names[index])
}
