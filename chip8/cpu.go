// Package chip8 implements the CHIP-8 virtual machine: a byte-addressable
// memory bank, a monochrome framebuffer and the fetch/decode/execute state
// machine driving both.
package chip8

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/arch"
)

// CPU implements the machine's processor. It exclusively owns its
// register file, memory bank and display. Step and TickTimers mutate
// shared state and must not be called concurrently; drive both from a
// single goroutine or serialize access externally.
type CPU struct {
	v       [16]byte    // General purpose registers V0-VF.
	pc      int         // Program counter.
	index   int         // Index register.
	sp      int         // Stack pointer; next free slot in the stack window.
	delay   byte        // Delay timer.
	sound   byte        // Sound timer.
	waiting bool        // Is the machine stalled on a keypress?
	target  int         // Destination register for the awaited keypress.
	memory  Memory      // System memory.
	display *Display    // Framebuffer.
	input   Input       // Keypad state capability.
	host    Host        // Host notification capability.
	trace   TraceFunc   // Handler for debug trace output.
	instr   Instruction // Decoded instruction data.
	rng     *rand.Rand  // Random number generator.
}

// New creates a new machine with the given program loaded at the program
// start address. A nil input behaves as a keypad with no keys held; a nil
// host discards all notifications; a nil trace disables trace output.
func New(program []byte, input Input, host Host, trace TraceFunc) (*CPU, error) {
	if input == nil {
		input = nopInput{}
	}
	if host == nil {
		host = nopHost{}
	}
	if trace == nil {
		trace = func(*Instruction) { /* nop */ }
	}

	memory := NewMemory()
	if err := memory.LoadFont(arch.FontSprites[:]); err != nil {
		return nil, errors.Wrap(err, "font load failed")
	}
	if err := memory.LoadProgram(program); err != nil {
		return nil, errors.Wrap(err, "program load failed")
	}

	return &CPU{
		pc:      arch.ProgramStart,
		sp:      arch.StackStart,
		memory:  memory,
		display: NewDisplay(host.DisplayChanged),
		input:   input,
		host:    host,
		trace:   trace,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Memory returns the machine's memory bank.
func (c *CPU) Memory() Memory { return c.memory }

// Display returns the machine's framebuffer.
func (c *CPU) Display() *Display { return c.display }

// SoundTimer returns the current sound timer value. The host can use it
// to drive a sound cue while the value is nonzero.
func (c *CPU) SoundTimer() byte { return c.sound }

// DelayTimer returns the current delay timer value.
func (c *CPU) DelayTimer() byte { return c.delay }

// Waiting returns true while the machine is stalled on a keypress.
func (c *CPU) Waiting() bool { return c.waiting }

// TickTimers decrements the delay and sound timers, floored at zero.
// It is meant to be called by the host on a fixed cadence (nominally
// 60 Hz), independent of how fast Step is called.
func (c *CPU) TickTimers() {
	if c.delay > 0 {
		c.delay--
	}
	if c.sound > 0 {
		c.sound--
	}
}

// Step performs a single execution step: fetch the instruction word at
// the program counter, advance the program counter, decode and execute.
//
// While the machine is stalled on a keypress, Step only polls the keypad.
// If a key is held its value is latched into the target register and the
// stall ends; the next call resumes normal fetching. Otherwise the call
// is a no-op cycle.
//
// A failed decode is fatal: the error is reported to the host and
// returned, and the caller must not continue stepping.
func (c *CPU) Step() error {
	if c.waiting {
		for key := 0; key < arch.KeyCount; key++ {
			if c.input.IsKeyPressed(key) {
				c.v[c.target] = byte(key)
				c.waiting = false
				break
			}
		}
		return nil
	}

	instr := &c.instr
	if err := instr.Fetch(c.memory, c.pc); err != nil {
		return errors.Wrap(err, "instruction fetch failed")
	}

	c.pc += 2

	if err := instr.Decode(); err != nil {
		c.host.EmulationError(err)
		return err
	}

	c.trace(instr)
	return c.execute(instr)
}

// execute applies the decoded instruction to machine state.
func (c *CPU) execute(instr *Instruction) error {
	switch instr.Op {
	case arch.CLS:
		c.display.Clear()

	case arch.RET:
		return c.pop(instr)

	case arch.JP:
		if instr.NNN == instr.Addr {
			c.host.HaltRequested()
		}
		c.pc = instr.NNN

	case arch.CALL:
		if err := c.push(instr); err != nil {
			return err
		}
		c.pc = instr.NNN

	case arch.SEC:
		if c.v[instr.X] == instr.NN {
			c.pc += 2
		}

	case arch.SNEC:
		if c.v[instr.X] != instr.NN {
			c.pc += 2
		}

	case arch.SER:
		if c.v[instr.X] == c.v[instr.Y] {
			c.pc += 2
		}

	case arch.LDC:
		c.v[instr.X] = instr.NN

	case arch.ADDC:
		c.v[instr.X] += instr.NN

	case arch.LDR:
		c.v[instr.X] = c.v[instr.Y]

	case arch.OR:
		c.v[instr.X] |= c.v[instr.Y]

	case arch.AND:
		c.v[instr.X] &= c.v[instr.Y]

	case arch.XOR:
		c.v[instr.X] ^= c.v[instr.Y]

	case arch.ADDR:
		sum := int(c.v[instr.X]) + int(c.v[instr.Y])
		c.v[instr.X] = byte(sum)
		c.setFlag(sum > 0xff)

	case arch.SUB:
		borrow := c.v[instr.X] < c.v[instr.Y]
		c.v[instr.X] -= c.v[instr.Y]
		c.setFlag(!borrow)

	case arch.SHR:
		c.v[0xf] = c.v[instr.X] & 1
		c.v[instr.X] >>= 1

	case arch.SUBN:
		borrow := c.v[instr.Y] < c.v[instr.X]
		c.v[instr.X] = c.v[instr.Y] - c.v[instr.X]
		c.setFlag(!borrow)

	case arch.SHL:
		c.v[0xf] = c.v[instr.X] >> 7
		c.v[instr.X] <<= 1

	case arch.SNER:
		if c.v[instr.X] != c.v[instr.Y] {
			c.pc += 2
		}

	case arch.LDI:
		c.index = instr.NNN

	case arch.JPV:
		addr := instr.NNN + int(c.v[0])
		if addr == instr.Addr {
			c.host.HaltRequested()
		}
		c.pc = addr

	case arch.RND:
		c.v[instr.X] = byte(c.rng.Intn(0x100)) & instr.NN

	case arch.DRW:
		var sprite [16]byte
		if err := c.memory.Read(c.index, sprite[:instr.N]); err != nil {
			return errors.Wrap(err, "sprite read failed")
		}
		x := int(c.v[instr.X])
		y := int(c.v[instr.Y])
		c.setFlag(c.display.DrawSprite(x, y, sprite[:instr.N]))

	case arch.SKP:
		if c.input.IsKeyPressed(int(c.v[instr.X])) {
			c.pc += 2
		}

	case arch.SKNP:
		if !c.input.IsKeyPressed(int(c.v[instr.X])) {
			c.pc += 2
		}

	case arch.LDDT:
		c.v[instr.X] = c.delay

	case arch.LDK:
		c.waiting = true
		c.target = instr.X

	case arch.STDT:
		c.delay = c.v[instr.X]

	case arch.STST:
		c.sound = c.v[instr.X]

	case arch.ADDI:
		c.index += int(c.v[instr.X])
		if c.index > 0xfff {
			c.index -= 0x1000
			c.v[0xf] = 1
		} else {
			c.v[0xf] = 0
		}

	case arch.LDF:
		c.index = arch.FontStart + int(c.v[instr.X])*arch.GlyphSize

	case arch.BCD:
		value := c.v[instr.X]
		digits := [3]byte{value / 100, value / 10 % 10, value % 10}
		if err := c.memory.Write(c.index, digits[:]); err != nil {
			return errors.Wrap(err, "bcd write failed")
		}

	case arch.STM:
		if err := c.memory.Write(c.index, c.v[:instr.X+1]); err != nil {
			return errors.Wrap(err, "register store failed")
		}

	case arch.LDM:
		if err := c.memory.Read(c.index, c.v[:instr.X+1]); err != nil {
			return errors.Wrap(err, "register load failed")
		}
	}

	return nil
}

// setFlag sets the VF flag register to 1 or 0.
func (c *CPU) setFlag(v bool) {
	if v {
		c.v[0xf] = 1
	} else {
		c.v[0xf] = 0
	}
}

// push stores the program counter in the next free stack slot.
// The stack pointer never leaves its reserved memory window.
func (c *CPU) push(instr *Instruction) error {
	if c.sp+2 > arch.StackStart+arch.StackCapacity {
		return NewError(instr, "call stack overflow")
	}

	// The window lies inside the memory bank, so this cannot fail.
	_ = c.memory.SetU16(c.sp, uint16(c.pc))
	c.sp += 2
	return nil
}

// pop loads the program counter from the most recent stack slot.
func (c *CPU) pop(instr *Instruction) error {
	if c.sp-2 < arch.StackStart {
		return NewError(instr, "call stack underflow")
	}

	c.sp -= 2
	addr, _ := c.memory.U16(c.sp)
	c.pc = int(addr)
	return nil
}
