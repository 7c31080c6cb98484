package asm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assemble(t *testing.T, lines ...string) []byte {
	t.Helper()

	rom, err := Assemble(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)
	return rom
}

func TestAssembleEmpty(t *testing.T) {
	rom := assemble(t,
		"; nothing but comments",
		"",
		"   ; and blank lines",
	)
	assert.Empty(t, rom)
}

func TestAssembleInstructions(t *testing.T) {
	tests := []struct {
		source string
		want   []byte
	}{
		{"cls", []byte{0x00, 0xe0}},
		{"ret", []byte{0x00, 0xee}},
		{"jp $234", []byte{0x12, 0x34}},
		{"jp v0, $234", []byte{0xb2, 0x34}},
		{"call $345", []byte{0x23, 0x45}},
		{"se v1, $ab", []byte{0x31, 0xab}},
		{"se v1, v2", []byte{0x51, 0x20}},
		{"sne v1, 171", []byte{0x41, 0xab}},
		{"sne v1, v2", []byte{0x91, 0x20}},
		{"ld v1, $ab", []byte{0x61, 0xab}},
		{"ld v1, v2", []byte{0x81, 0x20}},
		{"ld i, $123", []byte{0xa1, 0x23}},
		{"ld v1, dt", []byte{0xf1, 0x07}},
		{"ld v1, k", []byte{0xf1, 0x0a}},
		{"ld dt, v1", []byte{0xf1, 0x15}},
		{"ld st, v1", []byte{0xf1, 0x18}},
		{"ld f, v1", []byte{0xf1, 0x29}},
		{"ld b, v1", []byte{0xf1, 0x33}},
		{"ld [i], v5", []byte{0xf5, 0x55}},
		{"ld v5, [i]", []byte{0xf5, 0x65}},
		{"add v1, $02", []byte{0x71, 0x02}},
		{"add v1, v2", []byte{0x81, 0x24}},
		{"add i, v1", []byte{0xf1, 0x1e}},
		{"or v1, v2", []byte{0x81, 0x21}},
		{"and v1, v2", []byte{0x81, 0x22}},
		{"xor v1, v2", []byte{0x81, 0x23}},
		{"sub v1, v2", []byte{0x81, 0x25}},
		{"subn v1, v2", []byte{0x81, 0x27}},
		{"shr v1", []byte{0x81, 0x06}},
		{"shl v1", []byte{0x81, 0x0e}},
		{"rnd v1, $0f", []byte{0xc1, 0x0f}},
		{"drw v1, v2, $5", []byte{0xd1, 0x25}},
		{"skp v1", []byte{0xe1, 0x9e}},
		{"sknp v1", []byte{0xe1, 0xa1}},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, assemble(t, tc.source), "source: %s", tc.source)
	}
}

func TestAssembleLabels(t *testing.T) {
	rom := assemble(t,
		":start",
		"  ld v1, $00",
		":loop",
		"  add v1, $01",
		"  jp :loop",
	)

	// :loop resolves to 0x202; programs load at 0x200.
	assert.Equal(t, []byte{
		0x61, 0x00,
		0x71, 0x01,
		0x12, 0x02,
	}, rom)
}

func TestAssembleDataDirective(t *testing.T) {
	rom := assemble(t,
		"  ld i, :sprite",
		"  drw v0, v1, $3",
		":sprite",
		"  db $f0, $90, 240",
	)

	assert.Equal(t, []byte{
		0xa2, 0x04,
		0xd0, 0x13,
		0xf0, 0x90, 0xf0,
	}, rom)
}

func TestAssembleComments(t *testing.T) {
	rom := assemble(t,
		"cls ; wipe the screen",
	)
	assert.Equal(t, []byte{0x00, 0xe0}, rom)
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		source string
		msg    string
	}{
		{"frobnicate", "unknown mnemonic"},
		{"jp v1, $234", "invalid operands"},
		{"ld v1", "invalid operands"},
		{"ld v1, $100", "exceeds one byte"},
		{"jp :nowhere", "unknown label"},
		{"ld vz, $01", "invalid register"},
		{"drw v1, v2, $10", "exceeds 15"},
		{"db", "at least one value"},
		{":dup\n:dup", "duplicate label"},
	}

	for _, tc := range tests {
		_, err := Assemble(strings.NewReader(tc.source))
		require.Error(t, err, "source: %s", tc.source)
		assert.Contains(t, err.Error(), tc.msg, "source: %s", tc.source)
	}
}

func TestErrorReportsLine(t *testing.T) {
	_, err := Assemble(strings.NewReader("cls\ncls\nbogus"))
	require.Error(t, err)

	aerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, 3, aerr.Line)
}
