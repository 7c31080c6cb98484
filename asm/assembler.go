// Package asm implements a small two-pass assembler which turns CHIP-8
// assembly source into a raw ROM image, ready to be loaded into the
// machine.
//
// The source format is line oriented. A line holds an optional `:label`
// definition, an instruction or a `db` data directive, and an optional
// `;` comment. Numbers are decimal, or hexadecimal with a `$` prefix.
// Registers are written v0 through vf. Labels are referenced with their
// leading colon.
package asm

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/hexaflex/chip8/arch"
)

// operand kinds recognized by the parser.
const (
	opNum      = iota // Numeric literal.
	opSym             // Label reference.
	opReg             // General purpose register vX.
	opIndex           // The index register i.
	opIndexMem        // Memory at the index register: [i].
	opDelay           // The delay timer dt.
	opSound           // The sound timer st.
	opKey             // The keypress pseudo operand k.
	opFont            // The font pseudo operand f.
	opBCD             // The binary coded decimal pseudo operand b.
)

type operand struct {
	kind  int
	value int    // Register index or literal value.
	sym   string // Label name for opSym operands.
}

// statement is a single instruction or data directive.
type statement struct {
	line     int
	addr     int
	mnemonic string
	operands []operand
}

// Assemble reads assembly source and returns the assembled ROM image.
func Assemble(r io.Reader) ([]byte, error) {
	statements, symbols, err := parse(r)
	if err != nil {
		return nil, err
	}

	var rom []byte

	for _, st := range statements {
		if st.mnemonic == "db" {
			data, err := encodeData(&st, symbols)
			if err != nil {
				return nil, err
			}
			rom = append(rom, data...)
			continue
		}

		word, err := encode(&st, symbols)
		if err != nil {
			return nil, err
		}
		rom = append(rom, byte(word>>8), byte(word))
	}

	return rom, nil
}

// parse tokenizes the source and resolves label addresses.
func parse(r io.Reader) ([]statement, map[string]int, error) {
	var statements []statement
	symbols := make(map[string]int)
	addr := arch.ProgramStart

	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		text := scanner.Text()

		if i := strings.IndexByte(text, ';'); i != -1 {
			text = text[:i]
		}

		text = strings.TrimSpace(text)
		if len(text) == 0 {
			continue
		}

		if strings.HasPrefix(text, ":") {
			name := strings.ToLower(text[1:])
			if len(name) == 0 {
				return nil, nil, newError(line, "missing label name")
			}
			if _, ok := symbols[name]; ok {
				return nil, nil, newError(line, "duplicate label %q", name)
			}
			symbols[name] = addr
			continue
		}

		st, err := parseStatement(line, text)
		if err != nil {
			return nil, nil, err
		}

		st.addr = addr
		statements = append(statements, st)

		if st.mnemonic == "db" {
			addr += len(st.operands)
		} else {
			addr += 2
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}

	return statements, symbols, nil
}

// parseStatement splits a source line into a mnemonic and its operands.
func parseStatement(line int, text string) (statement, error) {
	st := statement{line: line}

	mnemonic := text
	rest := ""
	if i := strings.IndexAny(text, " \t"); i != -1 {
		mnemonic, rest = text[:i], strings.TrimSpace(text[i+1:])
	}

	st.mnemonic = strings.ToLower(mnemonic)

	if len(rest) == 0 {
		return st, nil
	}

	for _, field := range strings.Split(rest, ",") {
		field = strings.TrimSpace(field)
		if len(field) == 0 {
			return st, newError(line, "empty operand")
		}

		op, err := parseOperand(line, field)
		if err != nil {
			return st, err
		}

		st.operands = append(st.operands, op)
	}

	return st, nil
}

// parseOperand interprets a single operand token.
func parseOperand(line int, token string) (operand, error) {
	lower := strings.ToLower(token)

	switch lower {
	case "i":
		return operand{kind: opIndex}, nil
	case "[i]":
		return operand{kind: opIndexMem}, nil
	case "dt":
		return operand{kind: opDelay}, nil
	case "st":
		return operand{kind: opSound}, nil
	case "k":
		return operand{kind: opKey}, nil
	case "f":
		return operand{kind: opFont}, nil
	case "b":
		return operand{kind: opBCD}, nil
	}

	if strings.HasPrefix(lower, ":") {
		return operand{kind: opSym, sym: lower[1:]}, nil
	}

	if strings.HasPrefix(lower, "v") && len(lower) == 2 {
		reg, err := strconv.ParseUint(lower[1:], 16, 8)
		if err != nil {
			return operand{}, newError(line, "invalid register %q", token)
		}
		return operand{kind: opReg, value: int(reg)}, nil
	}

	var value uint64
	var err error

	if strings.HasPrefix(lower, "$") {
		value, err = strconv.ParseUint(lower[1:], 16, 16)
	} else {
		value, err = strconv.ParseUint(lower, 10, 16)
	}

	if err != nil {
		return operand{}, newError(line, "invalid operand %q", token)
	}

	return operand{kind: opNum, value: int(value)}, nil
}

// resolve returns the numeric value of a literal or label operand.
func resolve(st *statement, op *operand, symbols map[string]int) (int, error) {
	if op.kind == opSym {
		addr, ok := symbols[op.sym]
		if !ok {
			return 0, newError(st.line, "unknown label %q", op.sym)
		}
		return addr, nil
	}
	return op.value, nil
}

// encodeData encodes the operands of a db directive.
func encodeData(st *statement, symbols map[string]int) ([]byte, error) {
	if len(st.operands) == 0 {
		return nil, newError(st.line, "db requires at least one value")
	}

	data := make([]byte, 0, len(st.operands))

	for i := range st.operands {
		op := &st.operands[i]
		if op.kind != opNum && op.kind != opSym {
			return nil, newError(st.line, "db accepts numeric values only")
		}

		v, err := resolve(st, op, symbols)
		if err != nil {
			return nil, err
		}
		if v > 0xff {
			return nil, newError(st.line, "db value %d exceeds one byte", v)
		}

		data = append(data, byte(v))
	}

	return data, nil
}

// encode turns a parsed statement into its instruction word. The
// mnemonic together with the operand shapes selects the opcode pattern.
func encode(st *statement, symbols map[string]int) (uint16, error) {
	ops := st.operands

	shape := func(kinds ...int) bool {
		if len(ops) != len(kinds) {
			return false
		}
		for i, k := range kinds {
			if ops[i].kind != k {
				// Labels stand in for numeric literals.
				if k == opNum && ops[i].kind == opSym {
					continue
				}
				return false
			}
		}
		return true
	}

	addr := func(i int) (uint16, error) {
		v, err := resolve(st, &ops[i], symbols)
		if err != nil {
			return 0, err
		}
		if v > 0xfff {
			return 0, newError(st.line, "address %#x exceeds 12 bits", v)
		}
		return uint16(v), nil
	}

	imm := func(i int) (uint16, error) {
		v, err := resolve(st, &ops[i], symbols)
		if err != nil {
			return 0, err
		}
		if v > 0xff {
			return 0, newError(st.line, "value %d exceeds one byte", v)
		}
		return uint16(v), nil
	}

	x := func(i int) uint16 { return uint16(ops[i].value) << 8 }
	y := func(i int) uint16 { return uint16(ops[i].value) << 4 }

	switch st.mnemonic {
	case "cls":
		if shape() {
			return 0x00e0, nil
		}

	case "ret":
		if shape() {
			return 0x00ee, nil
		}

	case "jp":
		if shape(opNum) {
			nnn, err := addr(0)
			return 0x1000 | nnn, err
		}
		if shape(opReg, opNum) && ops[0].value == 0 {
			nnn, err := addr(1)
			return 0xb000 | nnn, err
		}

	case "call":
		if shape(opNum) {
			nnn, err := addr(0)
			return 0x2000 | nnn, err
		}

	case "se":
		if shape(opReg, opNum) {
			nn, err := imm(1)
			return 0x3000 | x(0) | nn, err
		}
		if shape(opReg, opReg) {
			return 0x5000 | x(0) | y(1), nil
		}

	case "sne":
		if shape(opReg, opNum) {
			nn, err := imm(1)
			return 0x4000 | x(0) | nn, err
		}
		if shape(opReg, opReg) {
			return 0x9000 | x(0) | y(1), nil
		}

	case "ld":
		switch {
		case shape(opReg, opNum):
			nn, err := imm(1)
			return 0x6000 | x(0) | nn, err
		case shape(opReg, opReg):
			return 0x8000 | x(0) | y(1), nil
		case shape(opIndex, opNum):
			nnn, err := addr(1)
			return 0xa000 | nnn, err
		case shape(opReg, opDelay):
			return 0xf007 | x(0), nil
		case shape(opReg, opKey):
			return 0xf00a | x(0), nil
		case shape(opDelay, opReg):
			return 0xf015 | x(1), nil
		case shape(opSound, opReg):
			return 0xf018 | x(1), nil
		case shape(opFont, opReg):
			return 0xf029 | x(1), nil
		case shape(opBCD, opReg):
			return 0xf033 | x(1), nil
		case shape(opIndexMem, opReg):
			return 0xf055 | x(1), nil
		case shape(opReg, opIndexMem):
			return 0xf065 | x(0), nil
		}

	case "add":
		if shape(opReg, opNum) {
			nn, err := imm(1)
			return 0x7000 | x(0) | nn, err
		}
		if shape(opReg, opReg) {
			return 0x8004 | x(0) | y(1), nil
		}
		if shape(opIndex, opReg) {
			return 0xf01e | x(1), nil
		}

	case "or":
		if shape(opReg, opReg) {
			return 0x8001 | x(0) | y(1), nil
		}

	case "and":
		if shape(opReg, opReg) {
			return 0x8002 | x(0) | y(1), nil
		}

	case "xor":
		if shape(opReg, opReg) {
			return 0x8003 | x(0) | y(1), nil
		}

	case "sub":
		if shape(opReg, opReg) {
			return 0x8005 | x(0) | y(1), nil
		}

	case "subn":
		if shape(opReg, opReg) {
			return 0x8007 | x(0) | y(1), nil
		}

	case "shr":
		if shape(opReg) {
			return 0x8006 | x(0), nil
		}

	case "shl":
		if shape(opReg) {
			return 0x800e | x(0), nil
		}

	case "rnd":
		if shape(opReg, opNum) {
			nn, err := imm(1)
			return 0xc000 | x(0) | nn, err
		}

	case "drw":
		if shape(opReg, opReg, opNum) {
			n, err := resolve(st, &ops[2], symbols)
			if err != nil {
				return 0, err
			}
			if n > 0xf {
				return 0, newError(st.line, "sprite height %d exceeds 15", n)
			}
			return 0xd000 | x(0) | y(1) | uint16(n), nil
		}

	case "skp":
		if shape(opReg) {
			return 0xe09e | x(0), nil
		}

	case "sknp":
		if shape(opReg) {
			return 0xe0a1 | x(0), nil
		}

	default:
		return 0, newError(st.line, "unknown mnemonic %q", st.mnemonic)
	}

	return 0, newError(st.line, "invalid operands for %q", st.mnemonic)
}
