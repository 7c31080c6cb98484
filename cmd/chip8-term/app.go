package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"time"

	tm "github.com/buger/goterm"

	"github.com/hexaflex/chip8/chip8"
)

// App defines application context.
type App struct {
	config   *Config
	cpu      *chip8.CPU
	input    *Input
	dirty    bool // Does the display need redrawing?
	halted   bool
	lastSound byte // Previous sound timer value, for the bell.
}

// NewApp creates a new application instance using the given configuration.
func NewApp(config *Config) *App {
	var a App
	a.config = config
	a.input = NewInput()
	return &a
}

// Run runs the application and does not return until the program
// halts, escape is pressed or an error occurs.
func (a *App) Run() error {
	program, err := ioutil.ReadFile(a.config.ROM)
	if err != nil {
		return err
	}

	a.cpu, err = chip8.New(program, a.input, a, a.printTrace)
	if err != nil {
		return err
	}

	if err := enterRawTerm(); err != nil {
		return err
	}

	defer exitRawTerm()
	defer tm.Clear()

	a.dirty = true
	lastStepped := time.Now()
	lastTicked := time.Now()
	lastRendered := time.Time{}
	pending := 0.0

	for !a.input.QuitRequested() {
		a.input.Update()

		pending += time.Since(lastStepped).Seconds() * float64(a.config.Clock)
		lastStepped = time.Now()

		if pending > float64(a.config.Clock) {
			pending = float64(a.config.Clock)
		}

		for !a.halted && pending >= 1 {
			pending--
			if err := a.cpu.Step(); err != nil {
				a.halted = true
				break
			}
		}

		if time.Since(lastTicked) >= time.Second/60 {
			lastTicked = time.Now()
			a.tickTimers()
		}

		if a.dirty && time.Since(lastRendered) >= time.Second/30 {
			lastRendered = time.Now()
			a.dirty = false
			a.render()
		}

		time.Sleep(time.Millisecond)
	}

	return nil
}

// tickTimers decrements the timers and rings the terminal bell
// when the sound timer expires.
func (a *App) tickTimers() {
	a.cpu.TickTimers()

	sound := a.cpu.SoundTimer()
	if a.lastSound > 0 && sound == 0 {
		fmt.Print("\a")
	}
	a.lastSound = sound
}

// render redraws the display contents in the terminal.
func (a *App) render() {
	d := a.cpu.Display()

	tm.Clear()
	tm.MoveCursor(1, 1)

	for y := 0; y < d.Height(); y++ {
		for x := 0; x < d.Width(); x++ {
			if d.Pixel(x, y) {
				tm.Print("██")
			} else {
				tm.Print("  ")
			}
		}
		tm.Print("\n")
	}

	tm.Printf("%s - ESC quits, keys 1234/qwer/asdf/zxcv\n", AppName)
	tm.Flush()
}

// DisplayChanged marks the rendered display contents as stale.
func (a *App) DisplayChanged() {
	a.dirty = true
}

// EmulationError reports a fault raised by the running program.
func (a *App) EmulationError(err error) {
	log.Println("emulation error:", err)
}

// HaltRequested stops execution when the program spins in place.
func (a *App) HaltRequested() {
	a.halted = true
}

// printTrace prints instruction trace data to stderr, where it does
// not interfere with the display buffer on stdout.
func (a *App) printTrace(i *chip8.Instruction) {
	if a.config.PrintTrace {
		fmt.Fprintln(os.Stderr, i)
	}
}
