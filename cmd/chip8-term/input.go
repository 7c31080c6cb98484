package main

import (
	"os"
	"time"
)

// keyHold determines how long a key counts as pressed after its
// character arrives. Terminals report repeats, not releases, so a
// held key shows up as a stream of characters.
const keyHold = 150 * time.Millisecond

// keymap maps terminal characters to the hexadecimal keypad:
//
//	1 2 3 4        1 2 3 C
//	q w e r   ->   4 5 6 D
//	a s d f        7 8 9 E
//	z x c v        A 0 B F
var keymap = map[byte]int{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xc,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xd,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xe,
	'z': 0xa, 'x': 0x0, 'c': 0xb, 'v': 0xf,
}

// Input polls stdin for keypad state.
type Input struct {
	pressed [16]time.Time
	quit    bool
	buf     [64]byte
}

func NewInput() *Input {
	return &Input{}
}

// Update drains pending stdin input and refreshes key state.
// The terminal must be in raw mode or this call blocks.
func (in *Input) Update() {
	for {
		n, err := os.Stdin.Read(in.buf[:])
		if err != nil || n == 0 {
			return
		}

		for _, ch := range in.buf[:n] {
			if ch == 0x1b {
				in.quit = true
				continue
			}
			if key, ok := keymap[ch]; ok {
				in.pressed[key] = time.Now()
			}
		}
	}
}

// QuitRequested returns true once escape has been typed.
func (in *Input) QuitRequested() bool {
	return in.quit
}

// IsKeyPressed returns true if the given key was seen recently.
func (in *Input) IsKeyPressed(key int) bool {
	if key < 0 || key >= len(in.pressed) {
		return false
	}
	return time.Since(in.pressed[key]) < keyHold
}
