package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"strings"
	"time"

	"github.com/go-gl/gl/v4.2-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/chip8"
	"github.com/hexaflex/chip8/keypad"
	"github.com/hexaflex/chip8/screen"
)

// App defines application context.
type App struct {
	config       *Config        // Application configuration.
	window       *glfw.Window   // OpenGL/GLFW context.
	cpu          *Controller    // VM with program to be run.
	screen       *screen.Screen // Virtual display renderer.
	keypad       *keypad.Keypad // Hex keypad bound to the window.
	titleUpdated time.Time      // Value used to periodically update window title.
	lastRendered time.Time      // Last time a frame was rendered.
	lastStepped  time.Time      // Instruction pacing reference point.
	pending      float64        // Fractional instructions owed to the clock.
}

// NewApp creates a new application instance using the given configuration.
func NewApp(config *Config) *App {
	var a App
	a.config = config
	a.screen = screen.New(arch.DisplayWidth, arch.DisplayHeight)
	a.cpu = NewController(nil, &a, a.printTrace)
	return &a
}

// Run runs the application and does not return until it is finished
// or an error occured during initialization.
func (a *App) Run() error {
	if err := a.initGL(); err != nil {
		return err
	}

	defer a.dispose()

	log.Println(Version())
	printHelp()

	if err := a.loadProgram(); err != nil {
		return err
	}

	a.cpu.Start()
	a.lastStepped = time.Now()

	for !a.window.ShouldClose() {
		a.mainLoop()
	}

	return nil
}

// mainLoop performs all main loop operations.
func (a *App) mainLoop() {
	a.keypad.Update()

	// Run however many instructions the clock speed says we owe since
	// the last pass, capped to avoid spiraling after a long stall.
	a.pending += time.Since(a.lastStepped).Seconds() * float64(a.config.Clock)
	a.lastStepped = time.Now()

	if a.pending > float64(a.config.Clock) {
		a.pending = float64(a.config.Clock)
	}

	for a.cpu.Running() && a.pending >= 1 {
		a.pending--
		if err := a.cpu.Step(); err != nil {
			log.Println(err)
			break
		}
	}

	a.cpu.TickTimers()

	// Periodically render display contents.
	if time.Since(a.lastRendered) >= time.Second/60 {
		a.lastRendered = time.Now()
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		a.screen.Draw(a.cpu.CPU().Display())
		a.window.SwapBuffers()
	}

	// Periodically update the window title to show the effective clock frequency.
	if time.Since(a.titleUpdated) >= time.Second*2 {
		a.titleUpdated = time.Now()
		freq := prettyFrequency(a.cpu.Frequency())
		a.window.SetTitle(fmt.Sprintf("%s %s - %s", AppName, AppVersion, freq))
	}

	glfw.PollEvents()
}

// DisplayChanged marks the rendered display contents as stale.
func (a *App) DisplayChanged() {
	a.screen.Invalidate()
}

// EmulationError reports a fault raised by the running program.
func (a *App) EmulationError(err error) {
	log.Println("emulation error:", err)
}

// HaltRequested pauses execution when the program spins in place.
func (a *App) HaltRequested() {
	log.Println("program finished; halting")
	a.cpu.Stop()
}

// dispose ensures openGL/GLFW and other resources are cleaned up.
func (a *App) dispose() {
	a.cpu.Stop()
	a.screen.Shutdown()

	if a.window != nil {
		a.window.Destroy()
		a.window = nil
	}

	glfw.Terminate()
}

func (a *App) keyCallback(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}

	var err error

	switch key {
	case glfw.KeyEscape:
		a.window.SetShouldClose(true)
	case glfw.KeyF1:
		printHelp()
	case glfw.KeyF5:
		err = a.loadProgram()
	case glfw.KeyF6:
		a.cpu.ToggleRun()
	case glfw.KeyF7:
		err = a.cpu.Step()
	case glfw.KeyF8:
		a.config.PrintTrace = !a.config.PrintTrace
	}

	if err != nil {
		log.Println(err)
	}
}

// initGL initializes GLFW and openGL.
func (a *App) initGL() error {
	err := glfw.Init()
	if err != nil {
		return errors.Wrapf(err, "glfw.Init failed")
	}

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.Visible, glfw.True)
	glfw.WindowHint(glfw.Focused, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 2)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	var monitor *glfw.Monitor

	width := arch.DisplayWidth * a.config.ScaleFactor
	height := arch.DisplayHeight * a.config.ScaleFactor

	if a.config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
		mode := monitor.GetVideoMode()

		width = mode.Width
		height = mode.Height

		glfw.WindowHint(glfw.Decorated, glfw.False)
		glfw.WindowHint(glfw.Maximized, glfw.True)
	} else {
		glfw.WindowHint(glfw.Decorated, glfw.True)
		glfw.WindowHint(glfw.Maximized, glfw.False)
	}

	a.window, err = glfw.CreateWindow(width, height, "", monitor, nil)
	if err != nil {
		a.dispose()
		return errors.Wrapf(err, "glfw.CreateWindow failed")
	}

	a.window.MakeContextCurrent()
	a.window.SetKeyCallback(a.keyCallback)

	a.keypad = keypad.New(a.window)
	a.cpu.input = a.keypad

	glfw.SwapInterval(0)

	err = gl.Init()
	if err != nil {
		a.dispose()
		return errors.Wrapf(err, "gl.Init failed")
	}

	gl.ClearColor(0, 0, 0, 1.0)
	return a.screen.Startup()
}

// loadProgram loads the current ROM from disk and restarts the cpu.
func (a *App) loadProgram() error {
	log.Println("loading", a.config.ROM)

	program, err := ioutil.ReadFile(a.config.ROM)
	if err != nil {
		return err
	}

	a.screen.Invalidate()
	return a.cpu.Startup(program)
}

// printTrace prints instruction trace data. This can be toggled
// on and off through a.config.PrintTrace.
func (a *App) printTrace(i *chip8.Instruction) {
	if !a.config.PrintTrace {
		return
	}
	fmt.Println(i)
}

// printHelp writes a short overview of supported shortcut keys to stdout.
func printHelp() {
	var sb strings.Builder
	sb.WriteString("shortcut keys:\n")
	sb.WriteString(" ESC      Exit the emulator.\n")
	sb.WriteString(" F1       Display this help.\n")
	sb.WriteString(" F5       (re)load the ROM from disk and reset the cpu.\n")
	sb.WriteString(" F6       Start/Stop program execution.\n")
	sb.WriteString(" F7       Perform a single execution step.\n")
	sb.WriteString(" F8       Enable/Disable instruction trace output.")
	log.Println(sb.String())
}

// prettyFrequency returns a human-readable version of the given clock frequency in herz.
func prettyFrequency(v float64) string {
	switch {
	case v >= 1e6:
		return fmt.Sprintf("%.2f MHz", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.2f KHz", v/1e3)
	default:
		return fmt.Sprintf("%.2f Hz", v)
	}
}
