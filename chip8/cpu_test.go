package chip8

import (
	"bytes"
	"testing"

	"github.com/hexaflex/chip8/arch"
)

// emit packs instruction words into big-endian program bytes.
func emit(words ...uint16) []byte {
	var buf bytes.Buffer
	for _, w := range words {
		buf.WriteByte(byte(w >> 8))
		buf.WriteByte(byte(w))
	}
	return buf.Bytes()
}

type stubInput struct {
	keys [arch.KeyCount]bool
}

func (s *stubInput) IsKeyPressed(key int) bool {
	return key >= 0 && key < len(s.keys) && s.keys[key]
}

type recordHost struct {
	displayChanges int
	halts          int
	errors         []error
}

func (h *recordHost) DisplayChanged()        { h.displayChanges++ }
func (h *recordHost) EmulationError(e error) { h.errors = append(h.errors, e) }
func (h *recordHost) HaltRequested()         { h.halts++ }

// runTest builds a machine around the given program, steps it the given
// number of times and fails the test on any step error.
func runTest(t *testing.T, input Input, host Host, steps int, words ...uint16) *CPU {
	t.Helper()

	vm, err := New(emit(words...), input, host, nil)
	if err != nil {
		t.Fatalf("New failure: %v", err)
	}

	for i := 0; i < steps; i++ {
		if err := vm.Step(); err != nil {
			t.Fatalf("Step %d failure: %v", i, err)
		}
	}

	return vm
}

func wantV(t *testing.T, vm *CPU, reg int, want byte) {
	t.Helper()
	if have := vm.v[reg]; have != want {
		t.Fatalf("%s mismatch:\nwant: %#02x\nhave: %#02x", arch.RegisterName(reg), want, have)
	}
}

func wantPC(t *testing.T, vm *CPU, want int) {
	t.Helper()
	if vm.pc != want {
		t.Fatalf("program counter mismatch:\nwant: %#04x\nhave: %#04x", want, vm.pc)
	}
}

func TestLDConstant(t *testing.T) {
	//   LD VA, $02

	vm := runTest(t, nil, nil, 1, 0x6a02)
	wantV(t, vm, 0xa, 0x02)
	wantPC(t, vm, 0x202)
}

func TestADDConstantWraps(t *testing.T) {
	//   LD VF, $05
	//   LD V1, $c8
	//  ADD V1, $64

	vm := runTest(t, nil, nil, 3, 0x6f05, 0x61c8, 0x7164)
	wantV(t, vm, 0x1, 0x2c)

	// 7xnn carries no flag side effect.
	wantV(t, vm, 0xf, 0x05)
}

func TestADDRegisterCarry(t *testing.T) {
	tests := []struct {
		a, b      byte
		sum, flag byte
	}{
		{0x01, 0x02, 0x03, 0},
		{0xff, 0x01, 0x00, 1},
		{0xff, 0xff, 0xfe, 1},
		{0x80, 0x7f, 0xff, 0},
	}

	for _, tc := range tests {
		vm := runTest(t, nil, nil, 3,
			0x6100|uint16(tc.a),
			0x6200|uint16(tc.b),
			0x8124,
		)
		wantV(t, vm, 0x1, tc.sum)
		wantV(t, vm, 0xf, tc.flag)
	}
}

func TestSUBRegisterBorrow(t *testing.T) {
	tests := []struct {
		a, b       byte
		diff, flag byte
	}{
		{0x05, 0x03, 0x02, 1},
		{0x03, 0x05, 0xfe, 0},
		{0x00, 0x01, 0xff, 0},
		{0x10, 0x10, 0x00, 1},
	}

	for _, tc := range tests {
		vm := runTest(t, nil, nil, 3,
			0x6100|uint16(tc.a),
			0x6200|uint16(tc.b),
			0x8125,
		)
		wantV(t, vm, 0x1, tc.diff)
		wantV(t, vm, 0xf, tc.flag)
	}
}

func TestSUBNRegister(t *testing.T) {
	//   LD V1, $03
	//   LD V2, $05
	// SUBN V1, V2

	vm := runTest(t, nil, nil, 3, 0x6103, 0x6205, 0x8127)
	wantV(t, vm, 0x1, 0x02)
	wantV(t, vm, 0xf, 1)

	//   LD V1, $05
	//   LD V2, $03
	// SUBN V1, V2

	vm = runTest(t, nil, nil, 3, 0x6105, 0x6203, 0x8127)
	wantV(t, vm, 0x1, 0xfe)
	wantV(t, vm, 0xf, 0)
}

func TestShifts(t *testing.T) {
	//   LD V1, $05
	//  SHR V1

	vm := runTest(t, nil, nil, 2, 0x6105, 0x8106)
	wantV(t, vm, 0x1, 0x02)
	wantV(t, vm, 0xf, 1)

	//   LD V1, $81
	//  SHL V1

	vm = runTest(t, nil, nil, 2, 0x6181, 0x810e)
	wantV(t, vm, 0x1, 0x02)
	wantV(t, vm, 0xf, 1)
}

func TestLogicalOps(t *testing.T) {
	//   LD V1, $0f
	//   LD V2, $3c
	//   OR/AND/XOR V1, V2

	vm := runTest(t, nil, nil, 3, 0x610f, 0x623c, 0x8121)
	wantV(t, vm, 0x1, 0x3f)

	vm = runTest(t, nil, nil, 3, 0x610f, 0x623c, 0x8122)
	wantV(t, vm, 0x1, 0x0c)

	vm = runTest(t, nil, nil, 3, 0x610f, 0x623c, 0x8123)
	wantV(t, vm, 0x1, 0x33)
}

func TestRegisterCopy(t *testing.T) {
	//   LD V2, $42
	//   LD V1, V2

	vm := runTest(t, nil, nil, 2, 0x6242, 0x8120)
	wantV(t, vm, 0x1, 0x42)
}

func TestConditionalSkips(t *testing.T) {
	//   LD V1, $07
	//   SE V1, $07   ; taken
	//   -- skipped --
	//   LD V2, $01

	vm := runTest(t, nil, nil, 3, 0x6107, 0x3107, 0x0000, 0x6201)
	wantV(t, vm, 0x2, 0x01)

	//  SNE V1, $07 with V1 == $07 is not taken.
	vm = runTest(t, nil, nil, 3, 0x6107, 0x4107, 0x6201, 0x6202)
	wantV(t, vm, 0x2, 0x01)

	//   SE V1, V2 with equal registers is taken.
	vm = runTest(t, nil, nil, 4, 0x6103, 0x6203, 0x5120, 0x0000, 0x6301)
	wantV(t, vm, 0x3, 0x01)

	//  SNE V1, V2 with distinct registers is taken.
	vm = runTest(t, nil, nil, 4, 0x6103, 0x6204, 0x9120, 0x0000, 0x6301)
	wantV(t, vm, 0x3, 0x01)
}

func TestStackRoundTrip(t *testing.T) {
	//  0x200: CALL $204
	//  0x202: LD V1, $01
	//  0x204: RET

	vm := runTest(t, nil, nil, 2, 0x2204, 0x6101, 0x00ee)
	wantPC(t, vm, 0x202)

	if err := vm.Step(); err != nil {
		t.Fatalf("Step failure: %v", err)
	}
	wantV(t, vm, 0x1, 0x01)
}

func TestStackOverflow(t *testing.T) {
	// 16 nested calls fill the stack window; the 17th must fail.
	var words []uint16
	for i := 0; i < 17; i++ {
		words = append(words, 0x2000|uint16(0x202+i*2))
	}

	vm := runTest(t, nil, nil, 16, words...)

	err := vm.Step()
	if _, ok := err.(*Error); !ok {
		t.Fatalf("expected stack overflow error; have %v", err)
	}
}

func TestStackUnderflow(t *testing.T) {
	vm := runTest(t, nil, nil, 0, 0x00ee)

	err := vm.Step()
	if _, ok := err.(*Error); !ok {
		t.Fatalf("expected stack underflow error; have %v", err)
	}
}

func TestJumpToSelfRecommendsHalt(t *testing.T) {
	//  0x200: JP $200

	var host recordHost
	vm := runTest(t, nil, &host, 1, 0x1200)
	wantPC(t, vm, 0x200)

	if host.halts != 1 {
		t.Fatalf("expected 1 halt recommendation; have %d", host.halts)
	}
}

func TestIndexedJumpToSelfRecommendsHalt(t *testing.T) {
	//  0x200: LD V0, $02
	//  0x202: JP V0, $200

	var host recordHost
	vm := runTest(t, nil, &host, 2, 0x6002, 0xb200)
	wantPC(t, vm, 0x202)

	if host.halts != 1 {
		t.Fatalf("expected 1 halt recommendation; have %d", host.halts)
	}
}

func TestJump(t *testing.T) {
	vm := runTest(t, nil, nil, 1, 0x1234)
	wantPC(t, vm, 0x234)

	vm = runTest(t, nil, nil, 2, 0x6005, 0xb234)
	wantPC(t, vm, 0x239)
}

func TestRandomMasked(t *testing.T) {
	//  RND V1, $0f never sets bits outside the mask.

	for i := 0; i < 32; i++ {
		vm := runTest(t, nil, nil, 1, 0xc10f)
		if vm.v[1]&^0x0f != 0 {
			t.Fatalf("rnd result %#02x exceeds mask 0x0f", vm.v[1])
		}
	}

	//  RND V1, $00 is always zero.
	vm := runTest(t, nil, nil, 2, 0x61ff, 0xc100)
	wantV(t, vm, 0x1, 0)
}

func TestTimers(t *testing.T) {
	//   LD V1, $02
	//   LD DT, V1
	//   LD ST, V1

	vm := runTest(t, nil, nil, 3, 0x6102, 0xf115, 0xf118)

	if vm.DelayTimer() != 2 || vm.SoundTimer() != 2 {
		t.Fatalf("timer load mismatch: dt=%d st=%d", vm.DelayTimer(), vm.SoundTimer())
	}

	// Ticking decrements toward zero and never below.
	for i := 0; i < 5; i++ {
		vm.TickTimers()
	}

	if vm.DelayTimer() != 0 || vm.SoundTimer() != 0 {
		t.Fatalf("timers must floor at zero: dt=%d st=%d", vm.DelayTimer(), vm.SoundTimer())
	}
}

func TestReadDelayTimer(t *testing.T) {
	//   LD V1, $09
	//   LD DT, V1
	//   LD V2, DT

	vm := runTest(t, nil, nil, 3, 0x6109, 0xf115, 0xf207)
	wantV(t, vm, 0x2, 0x09)
}

func TestIndexRegister(t *testing.T) {
	vm := runTest(t, nil, nil, 1, 0xa123)
	if vm.index != 0x123 {
		t.Fatalf("index register mismatch:\nwant: %#03x\nhave: %#03x", 0x123, vm.index)
	}
}

func TestADDIndexWraps(t *testing.T) {
	//   LD I, $fff
	//   LD V1, $ff
	//  ADD I, V1

	vm := runTest(t, nil, nil, 3, 0xafff, 0x61ff, 0xf11e)
	if vm.index != 0x0fe {
		t.Fatalf("index register mismatch:\nwant: %#03x\nhave: %#03x", 0x0fe, vm.index)
	}
	wantV(t, vm, 0xf, 1)

	//   LD I, $100
	//  ADD I, V1 with V1 == 0 leaves the flag unset.

	vm = runTest(t, nil, nil, 2, 0xa100, 0xf11e)
	if vm.index != 0x100 {
		t.Fatalf("index register mismatch:\nwant: %#03x\nhave: %#03x", 0x100, vm.index)
	}
	wantV(t, vm, 0xf, 0)
}

func TestFontAddress(t *testing.T) {
	//   LD V1, $0a
	//   LD F, V1

	vm := runTest(t, nil, nil, 2, 0x610a, 0xf129)

	want := arch.FontStart + 0xa*arch.GlyphSize
	if vm.index != want {
		t.Fatalf("font address mismatch:\nwant: %#03x\nhave: %#03x", want, vm.index)
	}
}

func TestBCD(t *testing.T) {
	//   LD V1, $9d  ; 157
	//   LD I, $300
	//   LD B, V1

	vm := runTest(t, nil, nil, 3, 0x619d, 0xa300, 0xf133)

	var digits [3]byte
	if err := vm.memory.Read(0x300, digits[:]); err != nil {
		t.Fatalf("Read failure: %v", err)
	}

	if digits != [3]byte{1, 5, 7} {
		t.Fatalf("bcd mismatch:\nwant: [1 5 7]\nhave: %v", digits)
	}
}

func TestRegisterStoreLoad(t *testing.T) {
	//   LD V0..V2 with distinct values
	//   LD I, $300
	//   LD [I], V2   ; store V0..V2
	//   LD V0..V2, $00
	//   LD V2, [I]   ; load V0..V2 back

	vm := runTest(t, nil, nil, 9,
		0x6011, 0x6122, 0x6233,
		0xa300,
		0xf255,
		0x6000, 0x6100, 0x6200,
		0xf265,
	)

	var stored [3]byte
	if err := vm.memory.Read(0x300, stored[:]); err != nil {
		t.Fatalf("Read failure: %v", err)
	}
	if stored != [3]byte{0x11, 0x22, 0x33} {
		t.Fatalf("store mismatch: %v", stored)
	}

	wantV(t, vm, 0x0, 0x11)
	wantV(t, vm, 0x1, 0x22)
	wantV(t, vm, 0x2, 0x33)
}

func TestDrawGlyphSprite(t *testing.T) {
	//   LD V0, $05
	//   LD F, V0    ; I = glyph '5'
	//   DRW V1, V2, $5 at (0, 0)

	var host recordHost
	vm := runTest(t, &stubInput{}, &host, 3, 0x6005, 0xf029, 0xd125)

	// Top row of glyph '5' is $f0: four set pixels.
	for x := 0; x < 4; x++ {
		if !vm.display.Pixel(x, 0) {
			t.Fatalf("expected pixel (%d, 0) to be set", x)
		}
	}
	wantV(t, vm, 0xf, 0)

	if host.displayChanges != 1 {
		t.Fatalf("expected 1 display change; have %d", host.displayChanges)
	}
}

func TestAwaitKeypress(t *testing.T) {
	//   LD V3, K
	//   LD V1, $01

	input := &stubInput{}
	vm := runTest(t, input, nil, 1, 0xf30a, 0x6101)

	if !vm.Waiting() {
		t.Fatal("expected machine to await a keypress")
	}

	// With no key held, stepping is a no-op cycle.
	for i := 0; i < 3; i++ {
		if err := vm.Step(); err != nil {
			t.Fatalf("Step failure: %v", err)
		}
	}

	wantPC(t, vm, 0x202)
	wantV(t, vm, 0x3, 0)

	// Once a key is held, the next step latches it without fetching.
	input.keys[7] = true
	if err := vm.Step(); err != nil {
		t.Fatalf("Step failure: %v", err)
	}

	wantV(t, vm, 0x3, 7)
	wantPC(t, vm, 0x202)

	if vm.Waiting() {
		t.Fatal("expected machine to resume")
	}

	// The following step resumes normal fetching.
	if err := vm.Step(); err != nil {
		t.Fatalf("Step failure: %v", err)
	}
	wantV(t, vm, 0x1, 0x01)
}

func TestKeySkips(t *testing.T) {
	//   LD V1, $07
	//  SKP V1
	//   -- skipped when key 7 is held --
	//   LD V2, $01

	input := &stubInput{}
	input.keys[7] = true

	vm := runTest(t, input, nil, 3, 0x6107, 0xe19e, 0x0000, 0x6201)
	wantV(t, vm, 0x2, 0x01)

	// SKNP with the key held is not taken.
	vm = runTest(t, input, nil, 3, 0x6107, 0xe1a1, 0x6201, 0x6202)
	wantV(t, vm, 0x2, 0x01)
}

func TestUnimplementedInstruction(t *testing.T) {
	var host recordHost
	vm, err := New(emit(0x0fff), nil, &host, nil)
	if err != nil {
		t.Fatalf("New failure: %v", err)
	}

	err = vm.Step()
	uerr, ok := err.(*UnimplementedError)
	if !ok {
		t.Fatalf("expected UnimplementedError; have %v", err)
	}

	if uerr.Word != 0x0fff || uerr.Addr != 0x200 {
		t.Fatalf("error context mismatch: word=%#04x addr=%#04x", uerr.Word, uerr.Addr)
	}

	// The failure must be surfaced to the host as well.
	if len(host.errors) != 1 {
		t.Fatalf("expected 1 host error event; have %d", len(host.errors))
	}

	// No register, memory or framebuffer state may have changed.
	for i, v := range vm.v {
		if v != 0 {
			t.Fatalf("register %s changed to %#02x", arch.RegisterName(i), v)
		}
	}

	for i, p := range vm.display.Pixels() {
		if p != 0 {
			t.Fatalf("pixel %d changed", i)
		}
	}
}

func TestClearScreen(t *testing.T) {
	//   LD V0, $05
	//   LD F, V0
	//  DRW V1, V2, $5
	//   CLS

	var host recordHost
	vm := runTest(t, nil, &host, 4, 0x6005, 0xf029, 0xd125, 0x00e0)

	for i, p := range vm.display.Pixels() {
		if p != 0 {
			t.Fatalf("pixel %d still set after clear", i)
		}
	}

	if host.displayChanges != 2 {
		t.Fatalf("expected 2 display changes; have %d", host.displayChanges)
	}
}

func TestProgramTooLarge(t *testing.T) {
	program := make([]byte, arch.MemoryCapacity-arch.ProgramStart+1)

	_, err := New(program, nil, nil, nil)
	if err == nil {
		t.Fatal("expected program load to fail")
	}
}
