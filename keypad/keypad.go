// Package keypad maps the host keyboard to the 16-key CHIP-8 keypad.
package keypad

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/hexaflex/chip8/arch"
)

// keymap maps each keypad key (by value 0-F) to its conventional
// position on the left hand side of a QWERTY keyboard:
//
//	1 2 3 C        1 2 3 4
//	4 5 6 D   ->   Q W E R
//	7 8 9 E        A S D F
//	A 0 B F        Z X C V
var keymap = [arch.KeyCount]glfw.Key{
	0x0: glfw.KeyX,
	0x1: glfw.Key1,
	0x2: glfw.Key2,
	0x3: glfw.Key3,
	0x4: glfw.KeyQ,
	0x5: glfw.KeyW,
	0x6: glfw.KeyE,
	0x7: glfw.KeyA,
	0x8: glfw.KeyS,
	0x9: glfw.KeyD,
	0xa: glfw.KeyZ,
	0xb: glfw.KeyC,
	0xc: glfw.Key4,
	0xd: glfw.KeyR,
	0xe: glfw.KeyF,
	0xf: glfw.KeyV,
}

// Keypad exposes GLFW keyboard state as the machine's input capability.
type Keypad struct {
	window *glfw.Window
	state  [arch.KeyCount]bool
}

// New creates a new keypad reading key state from the given window.
func New(window *glfw.Window) *Keypad {
	return &Keypad{window: window}
}

// Update refreshes the cached key state. Call it once per main loop
// iteration, after glfw has polled its events.
func (k *Keypad) Update() {
	for key, host := range keymap {
		k.state[key] = k.window.GetKey(host) == glfw.Press
	}
}

// IsKeyPressed returns true if the given key (0-15) is currently held.
func (k *Keypad) IsKeyPressed(key int) bool {
	return key >= 0 && key < len(k.state) && k.state[key]
}
